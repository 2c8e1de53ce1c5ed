package game

import (
	"strings"
)

type EntryKind int

const (
	Placement EntryKind = iota
	Movement
	PassEntry
	ControlEntry
)

func (k EntryKind) String() string {
	switch k {
	case Placement:
		return "Placement"
	case Movement:
		return "Movement"
	case PassEntry:
		return "Pass"
	}
	return "Control"
}

// passToken marks a turn in which the player had nothing to play.
const passToken = "pass"

const turnSeparator = ";"

// Entry is one recorded action. Target is the relative position token; From
// and To are filled in once the entry has been applied to a board.
type Entry struct {
	Kind    EntryKind
	Piece   Piece
	Target  string
	From    Position
	To      Position
	Control GameControl
	// Turn is the number of board turns completed before this entry.
	Turn int
}

func (e Entry) String() string {
	switch e.Kind {
	case Placement, Movement:
		return e.Piece.String() + " " + e.Target
	case PassEntry:
		return passToken
	}
	return e.Control.String()
}

// boardTurn reports whether the entry consumed a turn.
func (e Entry) boardTurn() bool { return e.Kind != ControlEntry }

// History is the append-only log of a game together with what is needed to
// replay it.
type History struct {
	GameType GameType
	Rules    Rules
	// Result is kept so that outcomes decided outside the board, such as a
	// timeout, survive reconstruction.
	Result  Result
	Entries []Entry
}

func NewHistory(t GameType, rules Rules) *History {
	return &History{GameType: t, Rules: rules}
}

// String is the game string: every entry joined by ";".
func (h *History) String() string {
	tokens := make([]string, len(h.Entries))
	for i, e := range h.Entries {
		tokens[i] = e.String()
	}
	return strings.Join(tokens, turnSeparator)
}

func (h *History) Len() int { return len(h.Entries) }

// Turns counts the entries that consumed a turn.
func (h *History) Turns() int {
	n := 0
	for _, e := range h.Entries {
		if e.boardTurn() {
			n++
		}
	}
	return n
}

func (h *History) Clone() *History {
	c := *h
	c.Entries = append([]Entry(nil), h.Entries...)
	return &c
}

// truncated returns a copy of h without the last n board turns and any
// controls recorded after them. The result is left undecided.
func (h *History) truncated(n int) (*History, error) {
	if n < 0 || n > h.Turns() {
		return nil, errorf(InputMalformed, "cannot take back %d of %d turns", n, h.Turns())
	}
	cut := len(h.Entries)
	for removed := 0; removed < n; {
		cut--
		if h.Entries[cut].boardTurn() {
			removed++
		}
	}
	c := NewHistory(h.GameType, h.Rules)
	c.Entries = append([]Entry(nil), h.Entries[:cut]...)
	return c, nil
}

func (h *History) append(e Entry) {
	h.Entries = append(h.Entries, e)
}

// ParseEntry reads a single turn token. placed tells whether the piece named
// by a piece turn is already on the board, which makes it a Movement.
func ParseEntry(tok string, placed func(Piece) bool) (Entry, error) {
	if tok == passToken {
		return Entry{Kind: PassEntry}, nil
	}
	if strings.Contains(tok, "(") {
		gc, err := ParseGameControl(tok)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Kind: ControlEntry, Control: gc}, nil
	}
	name, target, ok := strings.Cut(tok, " ")
	if !ok || target == "" || strings.Contains(target, " ") {
		return Entry{}, errorf(InputMalformed, "invalid turn %q", tok)
	}
	p, err := ParsePiece(name)
	if err != nil {
		return Entry{}, err
	}
	kind := Placement
	if placed(p) {
		kind = Movement
	}
	return Entry{Kind: kind, Piece: p, Target: target}, nil
}

// ParseHistory decodes a game string. A piece turn is a Placement the first
// time the piece appears and a Movement afterwards. Positions are resolved
// only when the history is replayed.
func ParseHistory(t GameType, rules Rules, s string) (*History, error) {
	h := NewHistory(t, rules)
	if s == "" {
		return h, nil
	}
	seen := make(map[Piece]bool)
	turn := 0
	for _, tok := range strings.Split(s, turnSeparator) {
		e, err := ParseEntry(tok, func(p Piece) bool { return seen[p] })
		if err != nil {
			return nil, err
		}
		if e.Kind == Placement {
			seen[e.Piece] = true
		}
		e.Turn = turn
		if e.boardTurn() {
			turn++
		}
		h.append(e)
	}
	return h, nil
}
