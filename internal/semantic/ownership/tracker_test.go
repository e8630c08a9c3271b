package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otabekoff/flc/internal/lexer"
	"github.com/otabekoff/flc/internal/symtab"
)

func sym(name string) *symtab.Symbol {
	return &symtab.Symbol{Name: name, Kind: symtab.SymbolVariable}
}

func TestMoveThenUseIsDangling(t *testing.T) {
	tr := NewTracker()
	x := sym("x")

	require.NoError(t, tr.Move(x, lexer.Position{Line: 1}))

	err := tr.CheckUse(x, lexer.Position{Line: 2})
	require.Error(t, err)
	assert.IsType(t, &DanglingReference{}, err)
}

func TestReinitAllowsUseAgain(t *testing.T) {
	tr := NewTracker()
	x := sym("x")

	require.NoError(t, tr.Move(x, lexer.Position{Line: 1}))
	tr.Reinit(x)

	assert.NoError(t, tr.CheckUse(x, lexer.Position{Line: 2}))
}

func TestSharedBorrowsCoexist(t *testing.T) {
	tr := NewTracker()
	x := sym("x")

	require.NoError(t, tr.BorrowShared(x, lexer.Position{Line: 1}))
	require.NoError(t, tr.BorrowShared(x, lexer.Position{Line: 2}))

	assert.Equal(t, BorrowedShared, tr.get(x).Kind)
	assert.Equal(t, 2, tr.get(x).Count)
}

func TestExclusiveBorrowConflictsWithShared(t *testing.T) {
	tr := NewTracker()
	x := sym("x")

	require.NoError(t, tr.BorrowShared(x, lexer.Position{Line: 1}))

	err := tr.BorrowExclusive(x, lexer.Position{Line: 2})
	require.Error(t, err)
	assert.IsType(t, &BorrowConflict{}, err)
}

func TestMoveWhileBorrowedConflicts(t *testing.T) {
	tr := NewTracker()
	x := sym("x")

	require.NoError(t, tr.BorrowExclusive(x, lexer.Position{Line: 1}))

	err := tr.Move(x, lexer.Position{Line: 2})
	require.Error(t, err)
	assert.IsType(t, &BorrowConflict{}, err)
}

func TestBorrowOfMovedValueIsDangling(t *testing.T) {
	tr := NewTracker()
	x := sym("x")

	require.NoError(t, tr.Move(x, lexer.Position{Line: 1}))

	err := tr.BorrowShared(x, lexer.Position{Line: 2})
	require.Error(t, err)
	assert.IsType(t, &DanglingReference{}, err)
}

func TestScopeExitReleasesBorrows(t *testing.T) {
	tr := NewTracker()
	x := sym("x")

	tr.EnterScope()
	require.NoError(t, tr.BorrowShared(x, lexer.Position{Line: 1}))
	assert.Equal(t, BorrowedShared, tr.get(x).Kind)
	tr.ExitScope()

	assert.Equal(t, Alive, tr.get(x).Kind)
	// Alive again, so a subsequent move is fine.
	assert.NoError(t, tr.Move(x, lexer.Position{Line: 2}))
}

func TestJoinFlagsInconsistentOwnership(t *testing.T) {
	base := NewTracker()
	x := sym("x")

	thenTracker := base.Fork()
	require.NoError(t, thenTracker.Move(x, lexer.Position{Line: 1}))

	elseTracker := base.Fork() // leaves x alive

	errs := base.Join(lexer.Position{Line: 3}, thenTracker, elseTracker)
	require.Len(t, errs, 1)
	assert.IsType(t, &InconsistentOwnership{}, errs[0])

	// After the join, the merged state is conservative: a later use is
	// flagged even though one branch never moved x.
	assert.Error(t, base.CheckUse(x, lexer.Position{Line: 4}))
}

func TestJoinAgreesWhenBranchesMatch(t *testing.T) {
	base := NewTracker()
	x := sym("x")

	thenTracker := base.Fork()
	require.NoError(t, thenTracker.Move(x, lexer.Position{Line: 1}))

	elseTracker := base.Fork()
	require.NoError(t, elseTracker.Move(x, lexer.Position{Line: 2}))

	errs := base.Join(lexer.Position{Line: 3}, thenTracker, elseTracker)
	assert.Empty(t, errs)
	assert.Error(t, base.CheckUse(x, lexer.Position{Line: 4}))
}
