package run

import (
	"errors"
	"fmt"
	"strings"
)

// Side identifies one of the two branch paths offered at a progression point.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

var ErrInvalidSide = errors.New("invalid side")

// ParseSide converts user or wire input into a Side.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(s)) {
	case Left:
		return Left, nil
	case Right:
		return Right, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == Left {
		return Right
	}
	return Left
}

// Folder returns the scene folder name for the side ("Left" or "Right").
func (s Side) Folder() string {
	if s == Left {
		return "Left"
	}
	return "Right"
}

func (s Side) String() string {
	return string(s)
}

// BranchChoice is the outcome of a selection for one side. A zero Key means
// no encounter is available for that side; this is a legitimate terminal
// state (run complete or path closed), not an error.
type BranchChoice struct {
	Key string `json:"key,omitempty"`
}

// Some reports whether the choice names an encounter.
func (b BranchChoice) Some() bool {
	return b.Key != ""
}
