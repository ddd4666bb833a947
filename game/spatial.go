package game

import (
	"math"
	"slices"
)

// GridCellSize is about twice the largest hazard hit radius (LARGE asteroid, 0.6)
const GridCellSize = 1.2

type gridCell struct {
	X, Y int
}

// SpatialGrid is a hashed grid for broad-phase collision queries. The world
// is unbounded, so cells live in a map instead of a fixed array.
type SpatialGrid struct {
	size  float64
	cells map[gridCell][]int
}

// NewSpatialGrid returns an empty grid with the given cell size
func NewSpatialGrid(size float64) *SpatialGrid {
	if size <= 0 {
		size = GridCellSize
	}
	return &SpatialGrid{size: size, cells: make(map[gridCell][]int)}
}

// Clear resets all cells. Cells that were occupied since the previous
// Clear keep their capacity; cells that stayed empty are dropped, so the
// map only holds what the last two fills touched.
func (g *SpatialGrid) Clear() {
	for k, v := range g.cells {
		if len(v) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = v[:0]
	}
}

func (g *SpatialGrid) cellOf(x, y float64) gridCell {
	return gridCell{int(math.Floor(x / g.size)), int(math.Floor(y / g.size))}
}

// InsertCircle adds idx to every cell overlapping the circle's bounding box
func (g *SpatialGrid) InsertCircle(p Vec, radius float64, idx int) {
	lo := g.cellOf(p.X-radius, p.Y-radius)
	hi := g.cellOf(p.X+radius, p.Y+radius)
	for cy := lo.Y; cy <= hi.Y; cy++ {
		for cx := lo.X; cx <= hi.X; cx++ {
			c := gridCell{cx, cy}
			g.cells[c] = append(g.cells[c], idx)
		}
	}
}

// QueryBuf appends the indices found in cells overlapping the box around p
// to buf. The appended part is sorted ascending and deduplicated so callers
// can keep insertion-order semantics.
func (g *SpatialGrid) QueryBuf(p Vec, radius float64, buf []int) []int {
	start := len(buf)
	lo := g.cellOf(p.X-radius, p.Y-radius)
	hi := g.cellOf(p.X+radius, p.Y+radius)
	for cy := lo.Y; cy <= hi.Y; cy++ {
		for cx := lo.X; cx <= hi.X; cx++ {
			buf = append(buf, g.cells[gridCell{cx, cy}]...)
		}
	}
	found := buf[start:]
	slices.Sort(found)
	found = slices.Compact(found)
	return buf[:start+len(found)]
}
