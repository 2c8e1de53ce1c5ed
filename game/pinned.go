package game

// articulationPoints returns the cut vertices of the graph whose vertices are
// the occupied cells and whose edges are hex adjacency. It is an iterative
// Tarjan DFS, linear in the number of occupied cells.
func (b *Board) articulationPoints() posSet {
	cut := posSet{}
	occupied := b.grid.occupied
	if len(occupied) < 3 {
		return cut
	}
	var start Position
	for p := range occupied {
		start = p
		break
	}

	type frame struct {
		pos, parent Position
		root        bool
		next        Direction
		children    int
	}
	disc := make(map[Position]int, len(occupied))
	low := make(map[Position]int, len(occupied))
	timer := 0
	visit := func(p Position) {
		disc[p], low[p] = timer, timer
		timer++
	}

	visit(start)
	stack := []frame{{pos: start, root: true}}
	for len(stack) > 0 {
		top := len(stack) - 1
		f := &stack[top]
		if f.next < NumDirections {
			n := f.pos.Neighbor(f.next)
			f.next++
			if _, ok := occupied[n]; !ok {
				continue
			}
			if _, seen := disc[n]; !seen {
				f.children++
				visit(n)
				stack = append(stack, frame{pos: n, parent: f.pos})
			} else if f.root || n != f.parent {
				low[f.pos] = min(low[f.pos], disc[n])
			}
			continue
		}

		done := *f
		stack = stack[:top]
		if done.root {
			if done.children > 1 {
				cut.add(done.pos)
			}
			continue
		}
		parent := &stack[len(stack)-1]
		low[parent.pos] = min(low[parent.pos], low[done.pos])
		if !parent.root && low[done.pos] >= disc[parent.pos] {
			cut.add(parent.pos)
		}
	}
	return cut
}

// pinnedSet holds the cells whose top piece may not leave: cut vertices
// carrying a single piece. Lifting a piece off a stack never empties its cell.
func (b *Board) pinnedSet() posSet {
	pinned := posSet{}
	for p := range b.articulationPoints() {
		if b.Height(p) == 1 {
			pinned.add(p)
		}
	}
	return pinned
}

// Pinned lists the pieces that cannot move without splitting the hive, in
// Position order.
func (b *Board) Pinned() []Piece {
	var out []Piece
	for _, pos := range b.pinnedSet().sorted() {
		top, _ := b.TopAt(pos)
		out = append(out, top)
	}
	return out
}

func (b *Board) IsPinned(p Piece) bool {
	pos, ok := b.PositionOf(p)
	if !ok {
		return false
	}
	if top, _ := b.TopAt(pos); top != p || b.Height(pos) > 1 {
		return false
	}
	return b.articulationPoints().has(pos)
}

// IsConnected reports whether the occupied cells form a single component.
func (b *Board) IsConnected() bool {
	return connected(b.grid.occupied)
}

// connectedAfter reports whether the hive stays in one piece once the top
// piece at from has been moved to to.
func (b *Board) connectedAfter(from, to Position) bool {
	cells := make(map[Position]struct{}, len(b.grid.occupied)+1)
	for p := range b.grid.occupied {
		cells[p] = struct{}{}
	}
	if b.Height(from) == 1 {
		delete(cells, from)
	}
	cells[to] = struct{}{}
	return connected(cells)
}

func connected(cells map[Position]struct{}) bool {
	if len(cells) == 0 {
		return true
	}
	var start Position
	for p := range cells {
		start = p
		break
	}
	seen := map[Position]struct{}{start: {}}
	queue := []Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbors() {
			if _, ok := cells[n]; !ok {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	return len(seen) == len(cells)
}
