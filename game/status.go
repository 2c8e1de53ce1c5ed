package game

import (
	"fmt"

	"hive/utils"
)

type Status int

const (
	NotStarted Status = iota
	InProgress
	Finished
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case InProgress:
		return "InProgress"
	case Finished:
		return "Finished"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseStatus(s string) (Status, error) {
	for st := NotStarted; st <= Finished; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return NotStarted, errorf(InputMalformed, "invalid status %q", s)
}

type Result int

const (
	Unknown Result = iota
	WhiteWins
	BlackWins
	Draw
)

var resultNames = []string{"Unknown", "WhiteWins", "BlackWins", "Draw"}

func (r Result) String() string {
	if r >= 0 && int(r) < len(resultNames) {
		return resultNames[r]
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

func (r Result) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Result) UnmarshalText(text []byte) error {
	parsed, err := ParseResult(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func ParseResult(s string) (Result, error) {
	r, ok := utils.ParseName[Result](resultNames, s)
	if !ok {
		return Unknown, errorf(InputMalformed, "invalid result %q", s)
	}
	return r, nil
}

// WinFor is the result in which c wins.
func WinFor(c Color) Result {
	if c == White {
		return WhiteWins
	}
	return BlackWins
}

// Winner returns the winning color of a decided result.
func (r Result) Winner() (Color, bool) {
	switch r {
	case WhiteWins:
		return White, true
	case BlackWins:
		return Black, true
	}
	return White, false
}
