package game

// mover is the board as seen by a piece in flight: the piece is lifted off
// its origin, so the origin stack is one lower.
type mover struct {
	board  *Board
	piece  Piece
	origin Position
}

func (m mover) height(p Position) int {
	h := m.board.Height(p)
	if p == m.origin {
		h--
	}
	return h
}

func (m mover) occupied(p Position) bool { return m.height(p) > 0 }

// gated reports whether a step from a in direction d squeezes between two
// flanking stacks that are both higher than the step itself.
func (m mover) gated(a Position, d Direction) bool {
	level := max(m.height(a), m.height(a.Neighbor(d)))
	left := m.height(a.Neighbor(d.Left()))
	right := m.height(a.Neighbor(d.Right()))
	return min(left, right) > level
}

// touching reports whether a ground step from a in direction d keeps contact
// with the hive through one of its flanks.
func (m mover) touching(a Position, d Direction) bool {
	return m.occupied(a.Neighbor(d.Left())) || m.occupied(a.Neighbor(d.Right()))
}

// slides returns the empty cells reachable from a by one ground step.
func (m mover) slides(a Position) []Position {
	var out []Position
	for d := Direction(0); d < NumDirections; d++ {
		to := a.Neighbor(d)
		if m.occupied(to) || m.gated(a, d) || !m.touching(a, d) {
			continue
		}
		out = append(out, to)
	}
	return out
}

// climbs returns the cells reachable from a by one step on or off the hive,
// which may land on top of a stack.
func (m mover) climbs(a Position) []Position {
	var out []Position
	for d := Direction(0); d < NumDirections; d++ {
		to := a.Neighbor(d)
		if m.height(to) >= MaxStackHeight || m.gated(a, d) {
			continue
		}
		if m.height(a) == 0 && m.height(to) == 0 && !m.touching(a, d) {
			continue
		}
		out = append(out, to)
	}
	return out
}

type generator func(m mover, dest posSet)

// generators maps each kind to its movement rule. It is filled in init
// because the Mosquito rule reads the table.
var generators [NumBugs]generator

func init() {
	generators = [NumBugs]generator{
		Ant:         antMoves,
		Beetle:      beetleMoves,
		Grasshopper: grasshopperMoves,
		Ladybug:     ladybugMoves,
		Mosquito:    mosquitoMoves,
		Pillbug:     stepMoves,
		Queen:       stepMoves,
		Spider:      spiderMoves,
	}
}

func stepMoves(m mover, dest posSet) {
	for _, p := range m.slides(m.origin) {
		dest.add(p)
	}
}

func antMoves(m mover, dest posSet) {
	seen := posSet{m.origin: {}}
	queue := []Position{m.origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range m.slides(cur) {
			if seen.has(n) {
				continue
			}
			seen.add(n)
			dest.add(n)
			queue = append(queue, n)
		}
	}
}

func spiderMoves(m mover, dest posSet) {
	const steps = 3
	path := []Position{m.origin}
	var walk func(cur Position)
	walk = func(cur Position) {
		if len(path) == steps+1 {
			dest.add(cur)
			return
		}
		for _, n := range m.slides(cur) {
			if containsPosition(path, n) {
				continue
			}
			path = append(path, n)
			walk(n)
			path = path[:len(path)-1]
		}
	}
	walk(m.origin)
}

func containsPosition(ps []Position, p Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

func grasshopperMoves(m mover, dest posSet) {
	for d := Direction(0); d < NumDirections; d++ {
		cur := m.origin.Neighbor(d)
		if !m.occupied(cur) {
			continue
		}
		for m.occupied(cur) {
			cur = cur.Neighbor(d)
		}
		dest.add(cur)
	}
}

func beetleMoves(m mover, dest posSet) {
	for _, p := range m.climbs(m.origin) {
		dest.add(p)
	}
}

// ladybugMoves walks two steps over the top of the hive and one step down.
func ladybugMoves(m mover, dest posSet) {
	for _, first := range m.climbs(m.origin) {
		if !m.occupied(first) {
			continue
		}
		for _, second := range m.climbs(first) {
			if second == m.origin || !m.occupied(second) {
				continue
			}
			for _, last := range m.climbs(second) {
				if last != m.origin && !m.occupied(last) {
					dest.add(last)
				}
			}
		}
	}
}

// mosquitoMoves copies the rules of the kinds it touches. On top of the hive
// it moves as a Beetle.
func mosquitoMoves(m mover, dest posSet) {
	if m.height(m.origin) > 0 {
		beetleMoves(m, dest)
		return
	}
	var copied [NumBugs]bool
	for _, n := range m.origin.Neighbors() {
		top, ok := m.board.TopAt(n)
		if !ok || top.Bug == Mosquito || copied[top.Bug] {
			continue
		}
		copied[top.Bug] = true
		generators[top.Bug](m, dest)
	}
}

// destinations runs the movement rule of the top piece at pos, ignoring pins
// and turn restrictions.
func (b *Board) destinations(p Piece, pos Position) posSet {
	dest := posSet{}
	generators[p.Bug](mover{board: b, piece: p, origin: pos}, dest)
	delete(dest, pos)
	return dest
}

// canThrow reports whether the top piece at pos may use the Pillbug ability.
func (b *Board) canThrow(p Piece, pos Position) bool {
	if b.hasMoved && b.lastMoved == p {
		return false
	}
	switch p.Bug {
	case Pillbug:
		return true
	case Mosquito:
		if b.Height(pos) > 1 {
			return false
		}
		for _, n := range pos.Neighbors() {
			if top, ok := b.TopAt(n); ok && top.Bug == Pillbug {
				return true
			}
		}
	}
	return false
}

// throws adds to moves every piece the thrower at pos can lift over itself
// and set down on one of its empty neighbours.
func (b *Board) throws(pos Position, pinned posSet, moves map[Piece]posSet) {
	empty := b.EmptyNeighbors(pos)
	for d := Direction(0); d < NumDirections; d++ {
		from := pos.Neighbor(d)
		if b.Height(from) != 1 || pinned.has(from) {
			continue
		}
		victim, _ := b.TopAt(from)
		if b.hasMoved && b.lastMoved == victim {
			continue
		}
		m := mover{board: b, piece: victim, origin: from}
		if m.gated(from, d.Opposite()) {
			continue
		}
		for _, to := range empty {
			down, _ := pos.DirectionTo(to)
			if m.gated(pos, down) {
				continue
			}
			if moves[victim] == nil {
				moves[victim] = posSet{}
			}
			moves[victim].add(to)
		}
	}
}

// Destinations returns the cells p may move to by its own movement rule on
// its owner's turn. Pinned, covered, unplaced or just-moved pieces have none,
// and nothing moves before its owner's Queen is down.
func (b *Board) Destinations(p Piece) []Position {
	pos, ok := b.PositionOf(p)
	if !ok || !b.queenPlaced(p.Color) {
		return nil
	}
	if top, _ := b.TopAt(pos); top != p {
		return nil
	}
	if b.hasMoved && b.lastMoved == p {
		return nil
	}
	if b.Height(pos) == 1 && b.articulationPoints().has(pos) {
		return nil
	}
	return b.destinations(p, pos).sorted()
}

// Moves returns every legal movement for color c: its own pieces by their
// movement rules plus any piece its Pillbugs can throw.
func (b *Board) Moves(c Color) map[Piece][]Position {
	out := make(map[Piece][]Position)
	if !b.queenPlaced(c) {
		return out
	}
	pinned := b.pinnedSet()
	moves := make(map[Piece]posSet)
	for pos := range b.grid.occupied {
		p, _ := b.TopAt(pos)
		if p.Color != c {
			continue
		}
		if !(b.hasMoved && b.lastMoved == p) && !pinned.has(pos) {
			for to := range b.destinations(p, pos) {
				if moves[p] == nil {
					moves[p] = posSet{}
				}
				moves[p].add(to)
			}
		}
		if b.canThrow(p, pos) {
			b.throws(pos, pinned, moves)
		}
	}
	for p, dest := range moves {
		out[p] = dest.sorted()
	}
	return out
}
