package optimizer

import (
	"github.com/otabekoff/flc/internal/ir"
)

// InlinerPass replaces calls to small, non-recursive, straight-line
// functions with a copy of their body.
//
// WHAT GETS INLINED?
// Only calls to a function whose entire body is a single basic block
// (no branches, no loops) with no calls of its own. This keeps the
// substitution a flat instruction splice: no CFG stitching, no handling
// of the callee's own control flow, and no risk of inlining a function
// into itself (direct or mutual recursion always involves a Call
// instruction inside the candidate, which disqualifies it).
//
// WHY BOUND THE SIZE?
// Unbounded inlining blows up code size and compile time for marginal
// benefit once a function has any internal branching. Restricting to
// single-block bodies under maxInlineInstructions keeps this a cheap,
// predictable pass the way constant folding and dead code elimination
// are, rather than a full call-graph inliner with its own cost model.
type InlinerPass struct {
	module *ir.Module

	// maxInlineInstructions caps how large an inlinable body may be.
	maxInlineInstructions int
}

// SetModule gives the pass access to sibling functions so it can resolve
// a call's callee by name. Implements optimizer.ModuleAware.
func (p *InlinerPass) SetModule(m *ir.Module) {
	p.module = m
}

func (p *InlinerPass) Name() string {
	return "Inliner"
}

func (p *InlinerPass) limit() int {
	if p.maxInlineInstructions > 0 {
		return p.maxInlineInstructions
	}
	return 10
}

func (p *InlinerPass) Run(fn *ir.Function) (bool, error) {
	if p.module == nil {
		return false, nil
	}

	modified := false

	for _, block := range fn.Blocks {
		newInstructions := make([]ir.Instruction, 0, len(block.Instructions))

		for _, instr := range block.Instructions {
			call, ok := instr.(*ir.Call)
			if !ok {
				newInstructions = append(newInstructions, instr)
				continue
			}

			callee := p.resolveCallee(fn, call)
			if callee == nil {
				newInstructions = append(newInstructions, instr)
				continue
			}

			inlined, ok := p.inlineCall(fn, call, callee)
			if !ok {
				newInstructions = append(newInstructions, instr)
				continue
			}

			newInstructions = append(newInstructions, inlined...)
			modified = true
		}

		block.Instructions = newInstructions
	}

	return modified, nil
}

// resolveCallee finds the module function a call targets, refusing
// self-calls (direct recursion would otherwise inline forever).
func (p *InlinerPass) resolveCallee(caller *ir.Function, call *ir.Call) *ir.Function {
	if call.Function == nil || call.Function.Name == "" {
		return nil
	}
	if call.Function.Name == caller.Name {
		return nil
	}
	for _, fn := range p.module.Functions {
		if fn.Name == call.Function.Name {
			return fn
		}
	}
	return nil
}

// isInlineCandidate reports whether callee is a straight-line, call-free,
// single-block function small enough to splice in place.
func (p *InlinerPass) isInlineCandidate(callee *ir.Function) bool {
	if len(callee.Blocks) != 1 {
		return false
	}
	if len(callee.Blocks[0].Instructions) > p.limit() {
		return false
	}
	for _, instr := range callee.Blocks[0].Instructions {
		if _, ok := instr.(*ir.Call); ok {
			return false
		}
	}
	return true
}

// inlineCall clones callee's single block into the caller's value space,
// substituting parameters with the call's arguments and rewriting the
// trailing Return into a value the call's original result can stand in
// for.
func (p *InlinerPass) inlineCall(caller *ir.Function, call *ir.Call, callee *ir.Function) ([]ir.Instruction, bool) {
	if !p.isInlineCandidate(callee) {
		return nil, false
	}
	if len(call.Args) != len(callee.Parameters) {
		return nil, false
	}

	valueMap := make(map[*ir.Value]*ir.Value, len(callee.Parameters))
	for i, param := range callee.Parameters {
		valueMap[param] = call.Args[i]
	}

	remap := func(v *ir.Value) *ir.Value {
		if v == nil {
			return nil
		}
		if v.IsConstant() {
			return v
		}
		if mapped, ok := valueMap[v]; ok {
			return mapped
		}
		return v
	}

	out := make([]ir.Instruction, 0, len(callee.Blocks[0].Instructions))
	for _, instr := range callee.Blocks[0].Instructions {
		ret, isReturn := instr.(*ir.Return)
		if isReturn {
			if call.Dest != nil && ret.Value != nil {
				out = append(out, &ir.Copy{Dest: call.Dest, Value: remap(ret.Value)})
			}
			continue
		}

		clone := p.cloneInstruction(caller, instr, valueMap, remap)
		out = append(out, clone)
	}

	return out, true
}

// cloneInstruction copies instr into the caller's value space: its result
// (if any) becomes a fresh caller temporary so the inlined body's SSA
// names never collide with the caller's, and its operands are remapped
// through valueMap/remap.
func (p *InlinerPass) cloneInstruction(caller *ir.Function, instr ir.Instruction, valueMap map[*ir.Value]*ir.Value, remap func(*ir.Value) *ir.Value) ir.Instruction {
	if result := instr.Result(); result != nil {
		if _, already := valueMap[result]; !already {
			valueMap[result] = caller.NewTemp(result.Type)
		}
	}

	switch i := instr.(type) {
	case *ir.BinaryOp:
		return &ir.BinaryOp{Op: i.Op, Dest: valueMap[i.Dest], Left: remap(i.Left), Right: remap(i.Right)}
	case *ir.UnaryOp:
		return &ir.UnaryOp{Op: i.Op, Dest: valueMap[i.Dest], Operand: remap(i.Operand)}
	case *ir.Copy:
		return &ir.Copy{Dest: valueMap[i.Dest], Value: remap(i.Value)}
	case *ir.Load:
		return &ir.Load{Dest: valueMap[i.Dest], Address: remap(i.Address)}
	case *ir.Store:
		return &ir.Store{Address: remap(i.Address), Value: remap(i.Value)}
	case *ir.Alloca:
		caller.Locals = append(caller.Locals, valueMap[i.Dest])
		return &ir.Alloca{Dest: valueMap[i.Dest], Type: i.Type}
	case *ir.GetElementPtr:
		return &ir.GetElementPtr{Dest: valueMap[i.Dest], Base: remap(i.Base), Index: remap(i.Index)}
	case *ir.GetFieldPtr:
		return &ir.GetFieldPtr{Dest: valueMap[i.Dest], Base: remap(i.Base), FieldIndex: i.FieldIndex}
	default:
		// Calls are excluded by isInlineCandidate; branches/jumps/phis
		// never occur in a single-block body. Fall back to the
		// original instruction unchanged if one slips through.
		return instr
	}
}
