package game

const (
	// GridSize is the side of the physical torus backing the board.
	GridSize = 64
	// gridMargin keeps every occupied cell this far from the window edge, so
	// neighbour lookups around the hive never leave the window.
	gridMargin = 3
	// MaxBoardSpan is the widest hive, in cells along q or r, the grid can
	// hold. A full game has at most 28 pieces, well under this bound.
	MaxBoardSpan = GridSize - 2*gridMargin
)

// grid maps logical positions onto a fixed GridSize x GridSize array using
// wrap-around addressing. The window [origin, origin+GridSize) is the set of
// logical positions with a physical slot; when a write would land within
// gridMargin of the edge the window is recentred around the hive.
type grid struct {
	cells    []Stack
	origin   Position
	occupied map[Position]struct{}
}

func newGrid() *grid {
	return &grid{
		cells:    make([]Stack, GridSize*GridSize),
		origin:   Position{-GridSize / 2, -GridSize / 2},
		occupied: make(map[Position]struct{}),
	}
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func (g *grid) slot(p Position) int {
	return mod(p.Q-g.origin.Q, GridSize)*GridSize + mod(p.R-g.origin.R, GridSize)
}

func (g *grid) inWindow(p Position) bool {
	dq, dr := p.Q-g.origin.Q, p.R-g.origin.R
	return dq >= 0 && dq < GridSize && dr >= 0 && dr < GridSize
}

// safe reports whether p is inside the window with the margin to spare.
func (g *grid) safe(p Position) bool {
	dq, dr := p.Q-g.origin.Q, p.R-g.origin.R
	return dq >= gridMargin && dq < GridSize-gridMargin && dr >= gridMargin && dr < GridSize-gridMargin
}

// get returns the stack at p; positions outside the window are empty.
func (g *grid) get(p Position) Stack {
	if !g.inWindow(p) {
		return Stack{}
	}
	return g.cells[g.slot(p)]
}

// fits reports whether p can be occupied, recentring if necessary.
func (g *grid) fits(p Position) bool {
	if g.safe(p) {
		return true
	}
	_, ok := g.recentredOrigin(p)
	return ok
}

// set stores a stack at p. Writing an empty stack clears the cell.
func (g *grid) set(p Position, s Stack) error {
	if s.Empty() {
		if g.inWindow(p) {
			g.cells[g.slot(p)] = Stack{}
		}
		delete(g.occupied, p)
		return nil
	}
	if !g.safe(p) {
		origin, ok := g.recentredOrigin(p)
		if !ok {
			return errorf(CapacityExceeded, "position %s exceeds the %d-cell board span", p, MaxBoardSpan)
		}
		g.recentre(origin)
	}
	g.cells[g.slot(p)] = s
	g.occupied[p] = struct{}{}
	return nil
}

// recentredOrigin computes a window origin centring the hive plus extra.
func (g *grid) recentredOrigin(extra Position) (Position, bool) {
	minQ, maxQ, minR, maxR := extra.Q, extra.Q, extra.R, extra.R
	for p := range g.occupied {
		minQ, maxQ = min(minQ, p.Q), max(maxQ, p.Q)
		minR, maxR = min(minR, p.R), max(maxR, p.R)
	}
	spanQ, spanR := maxQ-minQ+1, maxR-minR+1
	if spanQ > MaxBoardSpan || spanR > MaxBoardSpan {
		return Position{}, false
	}
	return Position{
		Q: minQ - gridMargin - (MaxBoardSpan-spanQ)/2,
		R: minR - gridMargin - (MaxBoardSpan-spanR)/2,
	}, true
}

// recentre moves every occupied cell into the window starting at origin.
// Logical positions, and therefore adjacency, are unchanged.
func (g *grid) recentre(origin Position) {
	saved := make(map[Position]Stack, len(g.occupied))
	for p := range g.occupied {
		slot := g.slot(p)
		saved[p] = g.cells[slot]
		g.cells[slot] = Stack{}
	}
	g.origin = origin
	for p, s := range saved {
		g.cells[g.slot(p)] = s
	}
}

func (g *grid) clone() *grid {
	c := &grid{
		cells:    make([]Stack, len(g.cells)),
		origin:   g.origin,
		occupied: make(map[Position]struct{}, len(g.occupied)),
	}
	copy(c.cells, g.cells)
	for p := range g.occupied {
		c.occupied[p] = struct{}{}
	}
	return c
}
