package game

import "testing"

func TestSpatialGridInsertAndQuery(t *testing.T) {
	grid := NewSpatialGrid(GridCellSize)
	grid.InsertCircle(Vec{1, 1}, 0.3, 0)

	results := grid.QueryBuf(Vec{1, 1}, 0, nil)
	if len(results) != 1 || results[0] != 0 {
		t.Errorf("expected [0], got %v", results)
	}

	results = grid.QueryBuf(Vec{30, 30}, 0, nil)
	if len(results) != 0 {
		t.Errorf("should not find entity far away, got %v", results)
	}
}

func TestSpatialGridClear(t *testing.T) {
	grid := NewSpatialGrid(GridCellSize)
	grid.InsertCircle(Vec{5, 5}, 0.3, 0)
	grid.Clear()
	if results := grid.QueryBuf(Vec{5, 5}, 1, nil); len(results) != 0 {
		t.Errorf("expected 0 results after clear, got %d", len(results))
	}
}

func TestSpatialGridSpanningCircleIsDeduplicated(t *testing.T) {
	grid := NewSpatialGrid(1)
	// straddles four cells around the origin
	grid.InsertCircle(Vec{0, 0}, 0.5, 4)
	grid.InsertCircle(Vec{0.2, 0.2}, 0.1, 1)
	grid.InsertCircle(Vec{-0.2, -0.2}, 0.1, 2)

	results := grid.QueryBuf(Vec{0, 0}, 0.5, nil)
	want := []int{1, 2, 4}
	if len(results) != len(want) {
		t.Fatalf("expected %v, got %v", want, results)
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("expected ascending %v, got %v", want, results)
		}
	}
}

func TestSpatialGridNegativeCoords(t *testing.T) {
	grid := NewSpatialGrid(GridCellSize)
	grid.InsertCircle(Vec{-50.3, -20.1}, 0.6, 9)
	results := grid.QueryBuf(Vec{-50, -20}, 0, nil)
	if len(results) != 1 || results[0] != 9 {
		t.Errorf("expected to find entity at negative coords, got %v", results)
	}
}

func TestSpatialGridQueryKeepsBufferPrefix(t *testing.T) {
	grid := NewSpatialGrid(GridCellSize)
	grid.InsertCircle(Vec{}, 0.1, 3)
	buf := []int{99}
	buf = grid.QueryBuf(Vec{}, 0, buf)
	if len(buf) != 2 || buf[0] != 99 || buf[1] != 3 {
		t.Errorf("expected [99 3], got %v", buf)
	}
}

func TestSpatialGridDropsAbandonedCells(t *testing.T) {
	grid := NewSpatialGrid(GridCellSize)
	peak := 0
	for step := 0; step < 2000; step++ {
		grid.Clear()
		// a field of hazards travelling 3 units per step
		base := float64(step) * 3
		for i := 0; i < 50; i++ {
			grid.InsertCircle(Vec{base + float64(i%10), float64(i / 10)}, 0.6, i)
		}
		peak = max(peak, len(grid.cells))
	}
	// one fill touches at most 10x5 hazards' boxes: about 12x7 cells
	if peak > 200 {
		t.Errorf("grid kept %d cells; abandoned cells should be dropped", peak)
	}
	if got := grid.QueryBuf(Vec{1999*3 + 4, 2}, 0, nil); len(got) == 0 {
		t.Error("expected hazards in the last fill to be found")
	}
}
