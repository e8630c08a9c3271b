package ownership

import (
	"fmt"

	"github.com/otabekoff/flc/internal/lexer"
)

// DanglingReference reports a read of (or borrow through) a place whose
// value was already moved out, so the reference would have nothing live
// to point at.
type DanglingReference struct {
	Name    string
	Pos     lexer.Position
	MovedAt lexer.Position
}

func (e *DanglingReference) Error() string {
	return fmt.Sprintf("%s is used after its value moved out at %s", e.Name, e.MovedAt.String())
}

// BorrowConflict reports an operation that would create two incompatible
// claims on the same place at once: a second exclusive borrow, an
// exclusive borrow while shared borrows are live, or a move while any
// borrow is outstanding.
type BorrowConflict struct {
	Name     string
	Pos      lexer.Position
	Existing Kind
	Attempt  Kind
}

func (e *BorrowConflict) Error() string {
	return fmt.Sprintf("%s is already %s, cannot also be %s here", e.Name, e.Existing, e.Attempt)
}

// InconsistentOwnership reports that two branches of a conditional leave a
// place in different ownership states — e.g. moved on the `then` side but
// still alive on the `else` side — so code after the join can't tell
// whether a later use is sound.
type InconsistentOwnership struct {
	Name string
	Pos  lexer.Position
	A, B Kind
}

func (e *InconsistentOwnership) Error() string {
	return fmt.Sprintf("%s is %s on one branch and %s on another; it must leave every branch in the same ownership state", e.Name, e.A, e.B)
}
