package ir

import (
	"fmt"
	"strings"

	"github.com/otabekoff/flc/internal/semantic/types"
)

// BasicBlock represents a sequence of instructions with single entry and exit.
//
// WHAT IS A BASIC BLOCK?
// A basic block is a straight-line code sequence with:
// - One entry point (the first instruction)
// - One exit point (a jump or return)
// - No jumps in or out in the middle
//
// WHY BASIC BLOCKS?
// - Simplifies control flow analysis
// - Natural unit for optimization
// - Makes data flow analysis tractable
// - Standard compiler intermediate representation
//
// EXAMPLE:
//   Block1:              Block2:              Block3:
//     x = a + b           if x > 0             y = x * 2
//     y = x * 2           jump Block3          return y
//     jump Block2         jump Block4
//
// DESIGN CHOICE: Store predecessors and successors because:
// - Enables forward and backward data flow analysis
// - Makes CFG traversal efficient
// - Required for SSA construction
type BasicBlock struct {
	// Label is the unique name of this block
	Label string

	// Instructions in this block (in order)
	Instructions []Instruction

	// Successors are blocks that can execute after this one
	// Determined by the terminator instruction (jump, branch, return)
	Successors []*BasicBlock

	// Predecessors are blocks that can jump to this one
	// Updated when building the CFG
	Predecessors []*BasicBlock

	// Dominated tracks blocks dominated by this block
	// A block B dominates block C if every path to C goes through B
	// Used for SSA construction and optimization
	Dominated []*BasicBlock

	// Index is the position in the function's block list
	// Useful for some algorithms that need block ordering
	Index int
}

// NewBasicBlock creates a new basic block with the given label.
func NewBasicBlock(label string) *BasicBlock {
	return &BasicBlock{
		Label:        label,
		Instructions: make([]Instruction, 0),
		Successors:   make([]*BasicBlock, 0),
		Predecessors: make([]*BasicBlock, 0),
		Dominated:    make([]*BasicBlock, 0),
	}
}

// AddInstruction adds an instruction to the end of this block.
func (bb *BasicBlock) AddInstruction(instr Instruction) {
	bb.Instructions = append(bb.Instructions, instr)
}

// AddSuccessor adds a successor block and updates its predecessor list.
//
// DESIGN CHOICE: Automatically maintain bidirectional links because:
// - Ensures consistency (no dangling references)
// - Simpler for users of the IR
// - Prevents common bugs
func (bb *BasicBlock) AddSuccessor(succ *BasicBlock) {
	// Check for duplicates
	for _, s := range bb.Successors {
		if s == succ {
			return
		}
	}

	bb.Successors = append(bb.Successors, succ)
	succ.Predecessors = append(succ.Predecessors, bb)
}

// Terminator returns the last instruction (should be jump, branch, or return).
//
// In a well-formed CFG, every basic block ends with a terminator.
// Returns nil if the block is empty or doesn't have a terminator yet.
func (bb *BasicBlock) Terminator() Instruction {
	if len(bb.Instructions) == 0 {
		return nil
	}
	last := bb.Instructions[len(bb.Instructions)-1]

	// Check if it's a terminator
	switch last.(type) {
	case *Jump, *Branch, *Return:
		return last
	default:
		return nil
	}
}

// IsTerminated returns true if this block has a terminator instruction.
func (bb *BasicBlock) IsTerminated() bool {
	return bb.Terminator() != nil
}

// String returns a human-readable representation of the basic block.
func (bb *BasicBlock) String() string {
	var sb strings.Builder

	sb.WriteString(bb.Label)
	sb.WriteString(":\n")

	// Show predecessors
	if len(bb.Predecessors) > 0 {
		sb.WriteString("  ; predecessors: ")
		for i, pred := range bb.Predecessors {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(pred.Label)
		}
		sb.WriteString("\n")
	}

	// Show instructions
	for _, instr := range bb.Instructions {
		sb.WriteString("  ")
		sb.WriteString(instr.String())
		sb.WriteString("\n")
	}

	return sb.String()
}

// Function represents a function in IR.
//
// DESIGN CHOICE: Store all basic blocks in a slice because:
// - Provides a stable ordering (useful for algorithms)
// - Entry block is always first
// - Easy to iterate over all blocks
type Function struct {
	// Name is the function name
	Name string

	// Parameters are the function parameters (as Values)
	Parameters []*Value

	// ReturnType is the function's return type
	ReturnType types.Type

	// Blocks are all basic blocks in this function
	// The first block is always the entry block
	Blocks []*BasicBlock

	// Entry is the entry basic block
	Entry *BasicBlock

	// Locals are local variables (allocas)
	Locals []*Value

	// nextValueID is used to generate unique value IDs
	nextValueID int
}

// NewFunction creates a new function.
func NewFunction(name string, params []*Value, returnType types.Type) *Function {
	entry := NewBasicBlock("entry")
	return &Function{
		Name:        name,
		Parameters:  params,
		ReturnType:  returnType,
		Blocks:      []*BasicBlock{entry},
		Entry:       entry,
		Locals:      make([]*Value, 0),
		nextValueID: len(params), // Start after parameters
	}
}

// NewBasicBlockInFunc creates a new basic block and adds it to the function.
func (f *Function) NewBasicBlockInFunc(label string) *BasicBlock {
	bb := NewBasicBlock(label)
	bb.Index = len(f.Blocks)
	f.Blocks = append(f.Blocks, bb)
	return bb
}

// NewValue creates a new value with a unique ID.
func (f *Function) NewValue(name string, typ types.Type, kind ValueKind) *Value {
	v := &Value{
		ID:   f.nextValueID,
		Name: name,
		Type: typ,
		Kind: kind,
	}
	f.nextValueID++
	return v
}

// NewTemp creates a new temporary value.
func (f *Function) NewTemp(typ types.Type) *Value {
	return f.NewValue("", typ, ValueTemporary)
}

// String returns a human-readable representation of the function.
func (f *Function) String() string {
	var sb strings.Builder

	// Function signature
	sb.WriteString("func ")
	sb.WriteString(f.Name)
	sb.WriteString("(")
	for i, param := range f.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(param.String())
		sb.WriteString(": ")
		sb.WriteString(param.Type.String())
	}
	sb.WriteString(") ")
	sb.WriteString(f.ReturnType.String())
	sb.WriteString(" {\n")

	// Basic blocks
	for _, block := range f.Blocks {
		sb.WriteString(block.String())
		sb.WriteString("\n")
	}

	sb.WriteString("}\n")
	return sb.String()
}

// Module represents a compilation unit (collection of functions and globals).
//
// DESIGN CHOICE: Module is the top-level IR container because:
// - Matches how programs are organized (files/packages)
// - Enables whole-program optimization
// - Natural unit for code generation
type Module struct {
	// Name is the module name (typically package name)
	Name string

	// Functions are all functions in this module
	Functions []*Function

	// Globals are global variables
	Globals []*Value
}

// NewModule creates a new module.
func NewModule(name string) *Module {
	return &Module{
		Name:      name,
		Functions: make([]*Function, 0),
		Globals:   make([]*Value, 0),
	}
}

// AddFunction adds a function to the module.
func (m *Module) AddFunction(fn *Function) {
	m.Functions = append(m.Functions, fn)
}

// String returns a human-readable representation of the module.
func (m *Module) String() string {
	var sb strings.Builder

	sb.WriteString("; Module: ")
	sb.WriteString(m.Name)
	sb.WriteString("\n\n")

	// Globals
	if len(m.Globals) > 0 {
		sb.WriteString("; Globals\n")
		for _, global := range m.Globals {
			sb.WriteString("global ")
			sb.WriteString(global.String())
			sb.WriteString(": ")
			sb.WriteString(global.Type.String())
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	// Functions
	for _, fn := range m.Functions {
		sb.WriteString(fn.String())
		sb.WriteString("\n")
	}

	return sb.String()
}

// Verify checks that the IR is well-formed.
// Returns a list of errors found.
//
// CHECKS:
// - Every block ends with a terminator
// - Entry block has no predecessors, and every other block has at least one
// - Dominance is computed for each function (populates Dominated)
// - Phi nodes carry exactly one incoming value per predecessor
// - Branch conditions are bool-typed
// - Return arity/type matches the enclosing function's return type
func (m *Module) Verify() []error {
	errs := make([]error, 0)

	for _, fn := range m.Functions {
		computeDominance(fn)

		for _, block := range fn.Blocks {
			if !block.IsTerminated() {
				errs = append(errs, fmt.Errorf(
					"block %s in function %s has no terminator",
					block.Label, fn.Name))
			}

			for _, instr := range block.Instructions {
				errs = append(errs, verifyInstruction(fn, block, instr)...)
			}
		}

		if len(fn.Entry.Predecessors) > 0 {
			errs = append(errs, fmt.Errorf(
				"entry block of function %s has predecessors",
				fn.Name))
		}

		for _, block := range fn.Blocks {
			if block == fn.Entry {
				continue
			}
			if len(block.Predecessors) == 0 {
				errs = append(errs, fmt.Errorf(
					"block %s in function %s is unreachable from entry",
					block.Label, fn.Name))
			}
		}
	}

	return errs
}

// verifyInstruction checks the structural invariants of a single
// instruction that depend on its enclosing block or function.
func verifyInstruction(fn *Function, block *BasicBlock, instr Instruction) []error {
	errs := make([]error, 0)

	switch i := instr.(type) {
	case *Phi:
		if len(i.Incomig) != len(block.Predecessors) {
			errs = append(errs, fmt.Errorf(
				"block %s in function %s: phi %s has %d incoming value(s), block has %d predecessor(s)",
				block.Label, fn.Name, i.Dest, len(i.Incomig), len(block.Predecessors)))
		}

	case *Branch:
		if i.Condition != nil && i.Condition.Type != nil && !i.Condition.Type.Equals(types.Bool) {
			errs = append(errs, fmt.Errorf(
				"block %s in function %s: branch condition has type %s, expected bool",
				block.Label, fn.Name, i.Condition.Type))
		}

	case *Return:
		if fn.ReturnType == nil || fn.ReturnType.Equals(types.Void) {
			if i.Value != nil {
				errs = append(errs, fmt.Errorf(
					"block %s in function %s: void function returns a value",
					block.Label, fn.Name))
			}
		} else if i.Value == nil {
			errs = append(errs, fmt.Errorf(
				"block %s in function %s: function returning %s has a bare return",
				block.Label, fn.Name, fn.ReturnType))
		} else if i.Value.Type != nil && !i.Value.Type.Equals(fn.ReturnType) {
			errs = append(errs, fmt.Errorf(
				"block %s in function %s: return value has type %s, function returns %s",
				block.Label, fn.Name, i.Value.Type, fn.ReturnType))
		}
	}

	return errs
}

// computeDominance fills in each block's Dominated set using the
// standard iterative data-flow formulation: Dom(entry) = {entry}, and
// Dom(n) = {n} union the intersection of Dom(p) over n's predecessors,
// repeated to a fixed point. Unreachable blocks (no predecessors, not
// the entry) are left with an empty dominator set — Verify reports them
// separately.
func computeDominance(fn *Function) {
	blocks := fn.Blocks
	all := make(map[*BasicBlock]bool, len(blocks))
	for _, b := range blocks {
		all[b] = true
		b.Dominated = b.Dominated[:0]
	}

	dom := make(map[*BasicBlock]map[*BasicBlock]bool, len(blocks))
	for _, b := range blocks {
		if b == fn.Entry {
			dom[b] = map[*BasicBlock]bool{b: true}
		} else if len(b.Predecessors) == 0 {
			dom[b] = map[*BasicBlock]bool{}
		} else {
			full := make(map[*BasicBlock]bool, len(blocks))
			for k := range all {
				full[k] = true
			}
			dom[b] = full
		}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range blocks {
			if b == fn.Entry || len(b.Predecessors) == 0 {
				continue
			}

			var next map[*BasicBlock]bool
			for _, pred := range b.Predecessors {
				if next == nil {
					next = cloneBlockSet(dom[pred])
					continue
				}
				for k := range next {
					if !dom[pred][k] {
						delete(next, k)
					}
				}
			}
			next[b] = true

			if !blockSetsEqual(next, dom[b]) {
				dom[b] = next
				changed = true
			}
		}
	}

	for n, doms := range dom {
		for d := range doms {
			if d != n {
				d.Dominated = append(d.Dominated, n)
			}
		}
	}
}

func cloneBlockSet(s map[*BasicBlock]bool) map[*BasicBlock]bool {
	out := make(map[*BasicBlock]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func blockSetsEqual(a, b map[*BasicBlock]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
