package game

// pool is one entity type's live list plus its pending-add queue.
// Structural changes only happen in flush and sweep.
type pool[T Entity] struct {
	live    []T
	pending []T
}

// enqueue stages items for the next flush. Items already flagged for
// removal are dropped. Returns how many were staged.
func (p *pool[T]) enqueue(items ...T) int {
	n := 0
	for _, e := range items {
		if e.Base().PendingRemoval() {
			continue
		}
		p.pending = append(p.pending, e)
		n++
	}
	return n
}

// flush moves every pending item into the live list and returns them
func (p *pool[T]) flush() []T {
	if len(p.pending) == 0 {
		return nil
	}
	moved := p.pending
	p.live = append(p.live, moved...)
	p.pending = nil
	return moved
}

// sweep filters out live items flagged for removal, keeping order,
// and returns the removed ones
func (p *pool[T]) sweep() []T {
	var removed []T
	n := 0
	for _, e := range p.live {
		if e.Base().PendingRemoval() {
			removed = append(removed, e)
			continue
		}
		p.live[n] = e
		n++
	}
	var zero T
	for i := n; i < len(p.live); i++ {
		p.live[i] = zero
	}
	p.live = p.live[:n]
	return removed
}

// count is live plus pending, the number population targets compare against
func (p *pool[T]) count() int { return len(p.live) + len(p.pending) }

// each visits live then pending items
func (p *pool[T]) each(fn func(T)) {
	for _, e := range p.live {
		fn(e)
	}
	for _, e := range p.pending {
		fn(e)
	}
}

func (p *pool[T]) reset() {
	p.live = nil
	p.pending = nil
}

func asEntities[T Entity](items []T) []Entity {
	if len(items) == 0 {
		return nil
	}
	out := make([]Entity, len(items))
	for i, e := range items {
		out[i] = e
	}
	return out
}
