package ownership

import (
	"github.com/otabekoff/flc/internal/lexer"
	"github.com/otabekoff/flc/internal/symtab"
)

// scopeBorrows is the set of borrows taken within one lexical scope, so
// they can be released in a batch when the scope exits — the same
// lexical, not flow-sensitive, lifetime a reference type expression
// already assumes (internal/semantic/types.ReferenceType carries no
// lifetime parameter of its own).
type scopeBorrows struct {
	shared    map[*symtab.Symbol]int
	exclusive map[*symtab.Symbol]bool
}

// Tracker runs the move/borrow state machine for one function body. The
// analyzer creates one per function (and forks one per if/else branch to
// check them independently before joining the results back together).
type Tracker struct {
	states map[*symtab.Symbol]*State
	scopes []scopeBorrows
	moved  map[*symtab.Symbol]lexer.Position
}

// NewTracker returns a Tracker with every place implicitly Alive.
func NewTracker() *Tracker {
	return &Tracker{
		states: make(map[*symtab.Symbol]*State),
		moved:  make(map[*symtab.Symbol]lexer.Position),
	}
}

func (t *Tracker) get(sym *symtab.Symbol) *State {
	st, ok := t.states[sym]
	if !ok {
		st = &State{Kind: Alive}
		t.states[sym] = st
	}
	return st
}

// EnterScope begins tracking borrows so ExitScope can release exactly the
// ones taken inside it.
func (t *Tracker) EnterScope() {
	t.scopes = append(t.scopes, scopeBorrows{
		shared:    make(map[*symtab.Symbol]int),
		exclusive: make(map[*symtab.Symbol]bool),
	})
}

// ExitScope releases every borrow taken since the matching EnterScope,
// restoring each place to Alive once its last outstanding borrow clears.
func (t *Tracker) ExitScope() {
	if len(t.scopes) == 0 {
		return
	}
	top := t.scopes[len(t.scopes)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]

	for sym, n := range top.shared {
		st := t.get(sym)
		if st.Kind != BorrowedShared {
			continue
		}
		st.Count -= n
		if st.Count <= 0 {
			st.Kind = Alive
			st.Count = 0
		}
	}
	for sym := range top.exclusive {
		st := t.get(sym)
		if st.Kind == BorrowedExclusive {
			st.Kind = Alive
		}
	}
}

// Move transitions sym to Moved. It fails if sym is currently borrowed —
// moving out from under a live reference would dangle it.
func (t *Tracker) Move(sym *symtab.Symbol, pos lexer.Position) error {
	st := t.get(sym)
	switch st.Kind {
	case BorrowedShared, BorrowedExclusive:
		return &BorrowConflict{Name: sym.Name, Pos: pos, Existing: st.Kind, Attempt: Moved}
	}
	st.Kind = Moved
	st.Count = 0
	t.moved[sym] = pos
	return nil
}

// BorrowShared takes a `&` reference to sym. It fails if sym was moved
// out (DanglingReference) or is already exclusively borrowed
// (BorrowConflict); any number of shared borrows may coexist.
func (t *Tracker) BorrowShared(sym *symtab.Symbol, pos lexer.Position) error {
	st := t.get(sym)
	switch st.Kind {
	case Moved:
		return &DanglingReference{Name: sym.Name, Pos: pos, MovedAt: t.moved[sym]}
	case BorrowedExclusive:
		return &BorrowConflict{Name: sym.Name, Pos: pos, Existing: st.Kind, Attempt: BorrowedShared}
	}
	st.Kind = BorrowedShared
	st.Count++
	if n := len(t.scopes); n > 0 {
		t.scopes[n-1].shared[sym]++
	}
	return nil
}

// BorrowExclusive takes a `&mut` reference to sym. It fails if sym was
// moved out, or if any borrow (shared or exclusive) is already live.
func (t *Tracker) BorrowExclusive(sym *symtab.Symbol, pos lexer.Position) error {
	st := t.get(sym)
	switch st.Kind {
	case Moved:
		return &DanglingReference{Name: sym.Name, Pos: pos, MovedAt: t.moved[sym]}
	case BorrowedShared, BorrowedExclusive:
		return &BorrowConflict{Name: sym.Name, Pos: pos, Existing: st.Kind, Attempt: BorrowedExclusive}
	}
	st.Kind = BorrowedExclusive
	if n := len(t.scopes); n > 0 {
		t.scopes[n-1].exclusive[sym] = true
	}
	return nil
}

// CheckUse reports a DanglingReference if sym's value has moved out.
// Reading through a live borrow is always fine; this only guards direct
// reads of the place itself.
func (t *Tracker) CheckUse(sym *symtab.Symbol, pos lexer.Position) error {
	st := t.get(sym)
	if st.Kind == Moved {
		return &DanglingReference{Name: sym.Name, Pos: pos, MovedAt: t.moved[sym]}
	}
	return nil
}

// Reinit makes sym Alive again, discarding whatever state it held. A
// fresh assignment replaces the place's value outright, so a prior move
// or (lexically ended) borrow no longer applies.
func (t *Tracker) Reinit(sym *symtab.Symbol) {
	t.states[sym] = &State{Kind: Alive}
	delete(t.moved, sym)
}

// Fork returns an independent copy of t's current state, for analyzing a
// conditional branch without letting it affect sibling branches.
func (t *Tracker) Fork() *Tracker {
	clone := &Tracker{
		states: make(map[*symtab.Symbol]*State, len(t.states)),
		moved:  make(map[*symtab.Symbol]lexer.Position, len(t.moved)),
	}
	for sym, st := range t.states {
		cp := *st
		clone.states[sym] = &cp
	}
	for sym, pos := range t.moved {
		clone.moved[sym] = pos
	}
	return clone
}

// Join reconciles the tracker's state with one or more forks of it that
// were each advanced independently (e.g. the `then` and `else` arms of an
// if). A place left in different states across branches is reported as
// InconsistentOwnership and conservatively merged to Moved, since code
// after the join cannot assume it is safe to use on every path; a place
// every branch agrees on keeps that agreed state.
func (t *Tracker) Join(pos lexer.Position, branches ...*Tracker) []error {
	if len(branches) == 0 {
		return nil
	}

	var errs []error
	all := make(map[*symtab.Symbol]bool)
	for _, b := range branches {
		for sym := range b.states {
			all[sym] = true
		}
	}

	merged := make(map[*symtab.Symbol]*State, len(all))
	mergedMoved := make(map[*symtab.Symbol]lexer.Position)

	for sym := range all {
		first := branches[0].get(sym)
		agree := true
		for _, b := range branches[1:] {
			if b.get(sym).Kind != first.Kind {
				agree = false
				break
			}
		}
		if agree {
			cp := *first
			merged[sym] = &cp
			if first.Kind == Moved {
				mergedMoved[sym] = branches[0].moved[sym]
			}
			continue
		}

		var mismatch Kind
		for _, b := range branches[1:] {
			if st := b.get(sym); st.Kind != first.Kind {
				mismatch = st.Kind
				break
			}
		}
		errs = append(errs, &InconsistentOwnership{Name: sym.Name, Pos: pos, A: first.Kind, B: mismatch})
		merged[sym] = &State{Kind: Moved}
		for _, b := range branches {
			if at, ok := b.moved[sym]; ok {
				mergedMoved[sym] = at
				break
			}
		}
		if _, ok := mergedMoved[sym]; !ok {
			mergedMoved[sym] = pos
		}
	}

	t.states = merged
	t.moved = mergedMoved
	return errs
}
