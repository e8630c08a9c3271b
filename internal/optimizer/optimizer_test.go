package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otabekoff/flc/internal/ir"
	"github.com/otabekoff/flc/internal/semantic/types"
)

// TestConstantFolding tests the constant folding pass
func TestConstantFolding(t *testing.T) {
	tests := []struct {
		name     string
		setup    func() *ir.Function
		validate func(*testing.T, *ir.Function)
	}{
		{
			name: "fold simple addition",
			setup: func() *ir.Function {
				fn := &ir.Function{
					Name:       "test",
					Parameters: nil,
					ReturnType: types.Int,
					Blocks:     make([]*ir.BasicBlock, 0),
				}

				entry := &ir.BasicBlock{
					Label:        "entry",
					Instructions: make([]ir.Instruction, 0),
				}

				// t1 = 2 + 3
				dest := &ir.Value{ID: 1, Type: types.Int}
				left := &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(2)}
				right := &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(3)}

				binop := &ir.BinaryOp{
					Op:    ir.OpAdd,
					Dest:  dest,
					Left:  left,
					Right: right,
				}

				entry.Instructions = append(entry.Instructions, binop)
				fn.Blocks = append(fn.Blocks, entry)
				fn.Entry = entry

				return fn
			},
			validate: func(t *testing.T, fn *ir.Function) {
				// After constant folding, should be a Copy instruction
				if len(fn.Blocks) == 0 || len(fn.Blocks[0].Instructions) == 0 {
					t.Fatal("expected at least one instruction")
				}

				instr := fn.Blocks[0].Instructions[0]
				copy, ok := instr.(*ir.Copy)
				if !ok {
					t.Fatalf("expected Copy instruction, got %T", instr)
				}

				// Check that the value is the constant 5
				if !copy.Value.IsConstant() {
					t.Error("expected constant value")
				}

				if val, ok := copy.Value.Constant.(int64); !ok || val != 5 {
					t.Errorf("expected constant 5, got %v", copy.Value.Constant)
				}
			},
		},
		{
			name: "fold multiplication",
			setup: func() *ir.Function {
				fn := &ir.Function{
					Name:       "test",
					Parameters: nil,
					ReturnType: types.Int,
					Blocks:     make([]*ir.BasicBlock, 0),
				}

				entry := &ir.BasicBlock{
					Label:        "entry",
					Instructions: make([]ir.Instruction, 0),
				}

				// t1 = 7 * 8
				dest := &ir.Value{ID: 1, Type: types.Int}
				left := &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(7)}
				right := &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(8)}

				binop := &ir.BinaryOp{
					Op:    ir.OpMul,
					Dest:  dest,
					Left:  left,
					Right: right,
				}

				entry.Instructions = append(entry.Instructions, binop)
				fn.Blocks = append(fn.Blocks, entry)
				fn.Entry = entry

				return fn
			},
			validate: func(t *testing.T, fn *ir.Function) {
				instr := fn.Blocks[0].Instructions[0]
				copy, ok := instr.(*ir.Copy)
				if !ok {
					t.Fatalf("expected Copy instruction, got %T", instr)
				}

				if val, ok := copy.Value.Constant.(int64); !ok || val != 56 {
					t.Errorf("expected constant 56, got %v", copy.Value.Constant)
				}
			},
		},
		{
			name: "fold comparison",
			setup: func() *ir.Function {
				fn := &ir.Function{
					Name:       "test",
					Parameters: nil,
					ReturnType: types.Bool,
					Blocks:     make([]*ir.BasicBlock, 0),
				}

				entry := &ir.BasicBlock{
					Label:        "entry",
					Instructions: make([]ir.Instruction, 0),
				}

				// t1 = 5 > 3
				dest := &ir.Value{ID: 1, Type: types.Bool}
				left := &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(5)}
				right := &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(3)}

				binop := &ir.BinaryOp{
					Op:    ir.OpGt,
					Dest:  dest,
					Left:  left,
					Right: right,
				}

				entry.Instructions = append(entry.Instructions, binop)
				fn.Blocks = append(fn.Blocks, entry)
				fn.Entry = entry

				return fn
			},
			validate: func(t *testing.T, fn *ir.Function) {
				instr := fn.Blocks[0].Instructions[0]
				copy, ok := instr.(*ir.Copy)
				if !ok {
					t.Fatalf("expected Copy instruction, got %T", instr)
				}

				if val, ok := copy.Value.Constant.(bool); !ok || val != true {
					t.Errorf("expected constant true, got %v", copy.Value.Constant)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := tt.setup()
			pass := &ConstantFoldingPass{}

			modified, err := pass.Run(fn)
			require.NoError(t, err)
			assert.True(t, modified, "constant folding should report a change")

			tt.validate(t, fn)
		})
	}
}

// TestDeadCodeElimination tests the dead code elimination pass
func TestDeadCodeElimination(t *testing.T) {
	tests := []struct {
		name     string
		setup    func() *ir.Function
		validate func(*testing.T, *ir.Function)
	}{
		{
			name: "remove unused computation",
			setup: func() *ir.Function {
				fn := &ir.Function{
					Name:       "test",
					Parameters: nil,
					ReturnType: types.Int,
					Blocks:     make([]*ir.BasicBlock, 0),
				}

				entry := &ir.BasicBlock{
					Label:        "entry",
					Instructions: make([]ir.Instruction, 0),
				}

				// t1 = 2 + 3 (unused)
				t1 := &ir.Value{ID: 1, Type: types.Int}
				binop := &ir.BinaryOp{
					Op:    ir.OpAdd,
					Dest:  t1,
					Left:  &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(2)},
					Right: &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(3)},
				}

				// return 42
				ret := &ir.Return{
					Value: &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(42)},
				}

				entry.Instructions = append(entry.Instructions, binop, ret)
				fn.Blocks = append(fn.Blocks, entry)
				fn.Entry = entry

				return fn
			},
			validate: func(t *testing.T, fn *ir.Function) {
				// Should only have the return instruction left
				if len(fn.Blocks[0].Instructions) != 1 {
					t.Errorf("expected 1 instruction, got %d", len(fn.Blocks[0].Instructions))
				}

				if _, ok := fn.Blocks[0].Instructions[0].(*ir.Return); !ok {
					t.Error("expected only Return instruction to remain")
				}
			},
		},
		{
			name: "keep used computation",
			setup: func() *ir.Function {
				fn := &ir.Function{
					Name:       "test",
					Parameters: nil,
					ReturnType: types.Int,
					Blocks:     make([]*ir.BasicBlock, 0),
				}

				entry := &ir.BasicBlock{
					Label:        "entry",
					Instructions: make([]ir.Instruction, 0),
				}

				// t1 = 2 + 3
				t1 := &ir.Value{ID: 1, Type: types.Int}
				binop := &ir.BinaryOp{
					Op:    ir.OpAdd,
					Dest:  t1,
					Left:  &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(2)},
					Right: &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(3)},
				}

				// return t1 (uses t1)
				ret := &ir.Return{Value: t1}

				entry.Instructions = append(entry.Instructions, binop, ret)
				fn.Blocks = append(fn.Blocks, entry)
				fn.Entry = entry

				return fn
			},
			validate: func(t *testing.T, fn *ir.Function) {
				// Should keep both instructions
				if len(fn.Blocks[0].Instructions) != 2 {
					t.Errorf("expected 2 instructions, got %d", len(fn.Blocks[0].Instructions))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := tt.setup()
			pass := &DeadCodeEliminationPass{}

			_, err := pass.Run(fn)
			require.NoError(t, err)

			tt.validate(t, fn)
		})
	}
}

// TestOptimizerIntegration tests the full optimizer with multiple passes
func TestOptimizerIntegration(t *testing.T) {
	// Create a function with constant folding opportunity and dead code
	fn := &ir.Function{
		Name:       "test",
		Parameters: nil,
		ReturnType: types.Int,
		Blocks:     make([]*ir.BasicBlock, 0),
	}

	entry := &ir.BasicBlock{
		Label:        "entry",
		Instructions: make([]ir.Instruction, 0),
	}

	// t1 = 2 + 3 (will fold to 5, then be marked dead)
	t1 := &ir.Value{ID: 1, Type: types.Int}
	binop1 := &ir.BinaryOp{
		Op:    ir.OpAdd,
		Dest:  t1,
		Left:  &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(2)},
		Right: &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(3)},
	}

	// t2 = 4 * 5 (will fold to 20)
	t2 := &ir.Value{ID: 2, Type: types.Int}
	binop2 := &ir.BinaryOp{
		Op:    ir.OpMul,
		Dest:  t2,
		Left:  &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(4)},
		Right: &ir.Value{ID: -1, Type: types.Int, Kind: ir.ValueConstant, Constant: int64(5)},
	}

	// return t2 (only t2 is used)
	ret := &ir.Return{Value: t2}

	entry.Instructions = append(entry.Instructions, binop1, binop2, ret)
	fn.Blocks = append(fn.Blocks, entry)
	fn.Entry = entry

	// Run optimizer
	opt := NewOptimizer()
	require.NoError(t, opt.OptimizeFunction(fn))

	// Verify results
	// Should have: Copy(t2, const(20)), Return(t2)
	// t1 computation should be eliminated
	instructions := fn.Blocks[0].Instructions

	require.Len(t, instructions, 2)
	assert.IsType(t, &ir.Copy{}, instructions[0])
	assert.IsType(t, &ir.Return{}, instructions[1])
}

// TestOptimizerFixedPoint verifies that inlining a callee's body and then
// constant-folding the spliced-in instructions happens within a single
// Optimize call. Inlining runs after constant folding in the pass list,
// so the inlined arithmetic is only visible to ConstantFolding on a
// second iteration — this only works if OptimizeFunction keeps re-running
// the pass list to a fixed point instead of the teacher's original
// single pass-through.
func TestOptimizerFixedPoint(t *testing.T) {
	// add1(n) = n + 1, a single-block, call-free inline candidate.
	param := &ir.Value{ID: 0, Type: types.Int, Kind: ir.ValueParameter}
	addResult := &ir.Value{ID: 1, Type: types.Int}
	callee := ir.NewFunction("add1", []*ir.Value{param}, types.Int)
	callee.Entry.Instructions = []ir.Instruction{
		&ir.BinaryOp{
			Op: ir.OpAdd, Dest: addResult, Left: param,
			Right: &ir.Value{Kind: ir.ValueConstant, Type: types.Int, Constant: int64(1)},
		},
		&ir.Return{Value: addResult},
	}

	// caller() = add1(5)
	callResult := &ir.Value{ID: 0, Type: types.Int}
	caller := ir.NewFunction("caller", nil, types.Int)
	caller.Entry.Instructions = []ir.Instruction{
		&ir.Call{
			Dest:     callResult,
			Function: &ir.Value{Name: "add1", Kind: ir.ValueVariable, Type: types.Int},
			Args:     []*ir.Value{{Kind: ir.ValueConstant, Type: types.Int, Constant: int64(5)}},
		},
		&ir.Return{Value: callResult},
	}

	module := ir.NewModule("test")
	module.AddFunction(caller)
	module.AddFunction(callee)

	opt := NewOptimizer()
	require.NoError(t, opt.Optimize(module))

	// No copy-propagation pass exists, so the chain left by inlining
	// (fold the spliced add, then still reference it through the
	// original Copy into callResult) doesn't collapse further — that's
	// expected. What matters is that the fold happened at all, which
	// only an Inliner-then-ConstantFolding second iteration achieves.
	instructions := caller.Blocks[0].Instructions
	require.Len(t, instructions, 3)
	foldedCopy, ok := instructions[0].(*ir.Copy)
	require.True(t, ok, "expected the inlined add to fold to a constant copy, got %T", instructions[0])
	assert.Equal(t, int64(6), foldedCopy.Value.Constant)
	assert.IsType(t, &ir.Return{}, instructions[2])
}
