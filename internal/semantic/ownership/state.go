// Package ownership implements the move/borrow state machine the analyzer
// runs over every binding: a place is Alive, Moved out of, or borrowed
// either shared (any number of readers) or exclusive (one writer, no
// readers). The analyzer drives it from its own visitor methods — this
// package only holds the state transitions and the conflicts they can
// produce, the same separation semantic.Analyzer keeps between AST
// traversal and symtab.Scope bookkeeping.
package ownership

import "fmt"

// Kind is one of the four states a tracked place can be in.
type Kind int

const (
	// Alive means the place holds a value nobody is currently borrowing.
	Alive Kind = iota
	// Moved means the place's value was moved out; reading or re-borrowing
	// it without first reassigning it is an error.
	Moved
	// BorrowedShared means one or more `&` references are outstanding.
	BorrowedShared
	// BorrowedExclusive means a single `&mut` reference is outstanding.
	BorrowedExclusive
)

func (k Kind) String() string {
	switch k {
	case Alive:
		return "alive"
	case Moved:
		return "moved"
	case BorrowedShared:
		return "borrowed"
	case BorrowedExclusive:
		return "exclusively borrowed"
	default:
		return fmt.Sprintf("ownership.Kind(%d)", int(k))
	}
}

// State is a place's current ownership state. Count is only meaningful
// when Kind is BorrowedShared, where it is the number of live `&`
// references; it is what lets a second, third, ... shared borrow coexist
// while a single BorrowedExclusive or Moved does not.
type State struct {
	Kind  Kind
	Count int
}

func (s State) String() string {
	if s.Kind == BorrowedShared {
		return fmt.Sprintf("%s (x%d)", s.Kind, s.Count)
	}
	return s.Kind.String()
}
