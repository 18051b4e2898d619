package eval

import (
	"fmt"

	"github.com/reox-lang/reoxc/internal/ast"
	"github.com/reox-lang/reoxc/internal/value"
)

// evalExprSig evaluates e, returning either its value or a propagating
// control-flow signal (a throw raised by a nested call). Most expressions
// can't themselves raise break/continue/return, only throw, but the
// signal type is shared with evalStmt for a uniform short-circuit idiom.
func (it *Interpreter) evalExprSig(e ast.Expr, env *value.Env) (value.Value, signal) {
	switch ex := e.(type) {
	case *ast.IntLit:
		return value.Int(ex.Value), signal{}
	case *ast.FloatLit:
		return value.Float(ex.Value), signal{}
	case *ast.StringLit:
		return value.String(ex.Value), signal{}
	case *ast.BoolLit:
		return value.Bool(ex.Value), signal{}
	case *ast.NilLit:
		return value.Nil{}, signal{}

	case *ast.IdentExpr:
		if v, ok := env.Get(ex.Name); ok {
			return v, signal{}
		}
		if fn, ok := it.funcs[ex.Name]; ok {
			return &value.Function{Name: fn.Name, Params: fn.Params, Body: fn.Body, Env: env}, signal{}
		}
		if b, ok := it.builtins[ex.Name]; ok {
			return b, signal{}
		}

		return nil, signal{kind: signalThrow, value: value.String(fmt.Sprintf("undefined name %q", ex.Name))}

	case *ast.BinaryExpr:
		return it.evalBinary(ex, env)

	case *ast.UnaryExpr:
		return it.evalUnary(ex, env)

	case *ast.IncDecExpr:
		return it.evalIncDec(ex, env)

	case *ast.CallExpr:
		return it.evalCall(ex, env)

	case *ast.MemberExpr:
		recv, sig := it.evalExprSig(ex.Receiver, env)
		if sig.kind != signalNone {
			return nil, sig
		}
		s, ok := recv.(*value.Struct)
		if !ok {
			return value.Nil{}, signal{}
		}
		fv, ok := s.Fields[ex.Name]
		if !ok {
			return nil, signal{kind: signalThrow, value: value.String(fmt.Sprintf("%s has no field %q", s.Name, ex.Name))}
		}

		return fv, signal{}

	case *ast.OptionalMemberExpr:
		recv, sig := it.evalExprSig(ex.Receiver, env)
		if sig.kind != signalNone {
			return nil, sig
		}
		if _, isNil := recv.(value.Nil); isNil {
			return value.Nil{}, signal{}
		}
		s, ok := recv.(*value.Struct)
		if !ok {
			return value.Nil{}, signal{}
		}
		fv, ok := s.Fields[ex.Name]
		if !ok {
			return nil, signal{kind: signalThrow, value: value.String(fmt.Sprintf("%s has no field %q", s.Name, ex.Name))}
		}

		return fv, signal{}

	case *ast.IndexExpr:
		return it.evalIndex(ex, env)

	case *ast.AssignExpr:
		return it.evalAssign(ex, env)

	case *ast.CompoundAssignExpr:
		return it.evalCompoundAssign(ex, env)

	case *ast.StructLit:
		return it.evalStructLit(ex, env)

	case *ast.ArrayLit:
		return it.evalArrayLit(ex, env)

	case *ast.MatchExpr:
		return it.evalMatch(ex, env)

	case *ast.NullCoalesceExpr:
		left, sig := it.evalExprSig(ex.Left, env)
		if sig.kind != signalNone {
			return nil, sig
		}
		if _, isNil := left.(value.Nil); !isNil {
			return left, signal{}
		}

		return it.evalExprSig(ex.Right, env)

	case *ast.RangeExpr:
		return it.evalRange(ex, env)

	case *ast.AwaitExpr:
		// await is the identity at eval time: no scheduler, per spec.md §5.
		return it.evalExprSig(ex.Operand, env)

	case *ast.FuncLitExpr:
		return &value.Function{Params: ex.Params, Body: ex.Body, Env: env}, signal{}

	default:
		return value.Nil{}, signal{kind: signalThrow, value: value.String(fmt.Sprintf("internal: unhandled expression %T", e))}
	}
}

func (it *Interpreter) evalBinary(e *ast.BinaryExpr, env *value.Env) (value.Value, signal) {
	// && and || short-circuit.
	if e.Op == ast.OpAnd {
		left, sig := it.evalExprSig(e.Left, env)
		if sig.kind != signalNone {
			return nil, sig
		}
		if !value.Truthy(left) {
			return value.Bool(false), signal{}
		}
		right, sig := it.evalExprSig(e.Right, env)
		if sig.kind != signalNone {
			return nil, sig
		}

		return value.Bool(value.Truthy(right)), signal{}
	}
	if e.Op == ast.OpOr {
		left, sig := it.evalExprSig(e.Left, env)
		if sig.kind != signalNone {
			return nil, sig
		}
		if value.Truthy(left) {
			return value.Bool(true), signal{}
		}
		right, sig := it.evalExprSig(e.Right, env)
		if sig.kind != signalNone {
			return nil, sig
		}

		return value.Bool(value.Truthy(right)), signal{}
	}

	left, sig := it.evalExprSig(e.Left, env)
	if sig.kind != signalNone {
		return nil, sig
	}
	right, sig := it.evalExprSig(e.Right, env)
	if sig.kind != signalNone {
		return nil, sig
	}

	return applyBinary(e.Op, left, right)
}

func toFloat(v value.Value) (float64, bool) {
	switch x := v.(type) {
	case value.Int:
		return float64(x), true
	case value.Float:
		return float64(x), true
	default:
		return 0, false
	}
}

// applyBinary computes op on left/right, or returns a signalThrow for a
// runtime error the type checker cannot rule out ahead of time (division
// and modulo by zero): spec.md §7 lists these as Runtime Errors that raise
// on first occurrence rather than silently defaulting.
func applyBinary(op ast.BinaryOp, left, right value.Value) (value.Value, signal) {
	li, lIsInt := left.(value.Int)
	ri, rIsInt := right.(value.Int)

	divByZero := signal{kind: signalThrow, value: value.String("division by zero")}

	switch op {
	case ast.OpAdd:
		if ls, ok := left.(value.String); ok {
			if rs, ok := right.(value.String); ok {
				return ls + rs, signal{}
			}
		}
		if lIsInt && rIsInt {
			return li + ri, signal{}
		}
		lf, lok := toFloat(left)
		rf, rok := toFloat(right)
		if lok && rok {
			return value.Float(lf + rf), signal{}
		}

		return value.Nil{}, signal{}

	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if lIsInt && rIsInt {
			switch op {
			case ast.OpSub:
				return li - ri, signal{}
			case ast.OpMul:
				return li * ri, signal{}
			case ast.OpDiv:
				if ri == 0 {
					return nil, divByZero
				}

				return li / ri, signal{}
			case ast.OpMod:
				if ri == 0 {
					return nil, divByZero
				}

				return li % ri, signal{}
			}
		}
		lf, lok := toFloat(left)
		rf, rok := toFloat(right)
		if !lok || !rok {
			return value.Nil{}, signal{}
		}
		switch op {
		case ast.OpSub:
			return value.Float(lf - rf), signal{}
		case ast.OpMul:
			return value.Float(lf * rf), signal{}
		case ast.OpDiv:
			if rf == 0 {
				return nil, divByZero
			}

			return value.Float(lf / rf), signal{}
		default:
			return value.Nil{}, signal{}
		}

	case ast.OpEq:
		return value.Bool(value.Equal(left, right)), signal{}
	case ast.OpNe:
		return value.Bool(!value.Equal(left, right)), signal{}

	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		lf, lok := toFloat(left)
		rf, rok := toFloat(right)
		if !lok || !rok {
			return value.Bool(false), signal{}
		}
		switch op {
		case ast.OpLt:
			return value.Bool(lf < rf), signal{}
		case ast.OpGt:
			return value.Bool(lf > rf), signal{}
		case ast.OpLe:
			return value.Bool(lf <= rf), signal{}
		default:
			return value.Bool(lf >= rf), signal{}
		}

	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShl, ast.OpShr:
		if !lIsInt || !rIsInt {
			return value.Int(0), signal{}
		}
		switch op {
		case ast.OpBitAnd:
			return li & ri, signal{}
		case ast.OpBitOr:
			return li | ri, signal{}
		case ast.OpBitXor:
			return li ^ ri, signal{}
		case ast.OpShl:
			return li << uint(ri), signal{}
		default:
			return li >> uint(ri), signal{}
		}

	default:
		return value.Nil{}, signal{}
	}
}

func (it *Interpreter) evalUnary(e *ast.UnaryExpr, env *value.Env) (value.Value, signal) {
	operand, sig := it.evalExprSig(e.Operand, env)
	if sig.kind != signalNone {
		return nil, sig
	}
	switch e.Op {
	case ast.OpNeg:
		switch x := operand.(type) {
		case value.Int:
			return -x, signal{}
		case value.Float:
			return -x, signal{}
		default:
			return value.Int(0), signal{}
		}
	case ast.OpNot:
		return value.Bool(!value.Truthy(operand)), signal{}
	case ast.OpBitNot:
		if x, ok := operand.(value.Int); ok {
			return ^x, signal{}
		}

		return value.Int(0), signal{}
	default:
		return value.Nil{}, signal{}
	}
}

func (it *Interpreter) evalIncDec(e *ast.IncDecExpr, env *value.Env) (value.Value, signal) {
	old, sig := it.evalExprSig(e.Operand, env)
	if sig.kind != signalNone {
		return nil, sig
	}

	var updated value.Value
	switch x := old.(type) {
	case value.Int:
		if e.Inc {
			updated = x + 1
		} else {
			updated = x - 1
		}
	case value.Float:
		if e.Inc {
			updated = x + 1
		} else {
			updated = x - 1
		}
	default:
		updated = old
	}

	it.assignTo(e.Operand, updated, env)

	if e.Postfix {
		return old, signal{}
	}

	return updated, signal{}
}

func (it *Interpreter) evalCall(e *ast.CallExpr, env *value.Env) (value.Value, signal) {
	callee, sig := it.evalExprSig(e.Callee, env)
	if sig.kind != signalNone {
		return nil, sig
	}

	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, sig := it.evalExprSig(a, env)
		if sig.kind != signalNone {
			return nil, sig
		}
		args[i] = v
	}

	switch fn := callee.(type) {
	case value.NativeAction:
		return fn.Call(args), signal{}
	case *value.Function:
		callEnv := fn.Env.Push()
		for i, p := range fn.Params {
			if i < len(args) {
				callEnv.Define(p.Name, args[i])
			} else {
				callEnv.Define(p.Name, value.Nil{})
			}
		}
		bodySig := it.evalBlock(fn.Body, callEnv)
		switch bodySig.kind {
		case signalReturn:
			return bodySig.value, signal{}
		case signalThrow:
			return nil, bodySig
		default:
			return value.Nil{}, signal{}
		}
	default:
		return value.Nil{}, signal{}
	}
}

func (it *Interpreter) evalIndex(e *ast.IndexExpr, env *value.Env) (value.Value, signal) {
	recv, sig := it.evalExprSig(e.Receiver, env)
	if sig.kind != signalNone {
		return nil, sig
	}
	idxVal, sig := it.evalExprSig(e.Index, env)
	if sig.kind != signalNone {
		return nil, sig
	}
	idx, ok := idxVal.(value.Int)
	if !ok {
		return value.Nil{}, signal{}
	}

	switch r := recv.(type) {
	case *value.Array:
		if idx < 0 || int(idx) >= len(r.Elements) {
			return nil, signal{kind: signalThrow, value: value.String(fmt.Sprintf("index %d out of bounds for array of length %d", idx, len(r.Elements)))}
		}

		return r.Elements[idx], signal{}
	case value.String:
		if idx < 0 || int(idx) >= len(r) {
			return nil, signal{kind: signalThrow, value: value.String(fmt.Sprintf("index %d out of bounds for string of length %d", idx, len(r)))}
		}

		return value.String(r[idx]), signal{}
	default:
		return value.Nil{}, signal{}
	}
}

func (it *Interpreter) evalAssign(e *ast.AssignExpr, env *value.Env) (value.Value, signal) {
	v, sig := it.evalExprSig(e.Value, env)
	if sig.kind != signalNone {
		return nil, sig
	}
	it.assignTo(e.Target, v, env)

	return v, signal{}
}

func (it *Interpreter) evalCompoundAssign(e *ast.CompoundAssignExpr, env *value.Env) (value.Value, signal) {
	cur, sig := it.evalExprSig(e.Target, env)
	if sig.kind != signalNone {
		return nil, sig
	}
	rhs, sig := it.evalExprSig(e.Value, env)
	if sig.kind != signalNone {
		return nil, sig
	}

	var op ast.BinaryOp
	switch e.Op {
	case ast.CompoundAdd:
		op = ast.OpAdd
	case ast.CompoundSub:
		op = ast.OpSub
	case ast.CompoundMul:
		op = ast.OpMul
	case ast.CompoundDiv:
		op = ast.OpDiv
	default:
		op = ast.OpMod
	}

	result, sig := applyBinary(op, cur, rhs)
	if sig.kind != signalNone {
		return nil, sig
	}
	it.assignTo(e.Target, result, env)

	return result, signal{}
}

// assignTo writes val into the location e refers to: a plain identifier
// (mutates the nearest enclosing binding), a struct field, or an array
// index.
func (it *Interpreter) assignTo(e ast.Expr, val value.Value, env *value.Env) {
	switch target := e.(type) {
	case *ast.IdentExpr:
		_ = env.Set(target.Name, val)

	case *ast.MemberExpr:
		recv, sig := it.evalExprSig(target.Receiver, env)
		if sig.kind != signalNone {
			return
		}
		if s, ok := recv.(*value.Struct); ok {
			s.Fields[target.Name] = val
		}

	case *ast.IndexExpr:
		recv, sig := it.evalExprSig(target.Receiver, env)
		if sig.kind != signalNone {
			return
		}
		idxVal, sig := it.evalExprSig(target.Index, env)
		if sig.kind != signalNone {
			return
		}
		idx, ok := idxVal.(value.Int)
		if !ok {
			return
		}
		if arr, ok := recv.(*value.Array); ok && idx >= 0 && int(idx) < len(arr.Elements) {
			arr.Elements[idx] = val
		}
	}
}

func (it *Interpreter) evalStructLit(e *ast.StructLit, env *value.Env) (value.Value, signal) {
	fields := make(map[string]value.Value, len(e.Fields))
	for _, f := range e.Fields {
		v, sig := it.evalExprSig(f.Value, env)
		if sig.kind != signalNone {
			return nil, sig
		}
		fields[f.Name] = v
	}

	return &value.Struct{Name: e.Name, Fields: fields}, signal{}
}

func (it *Interpreter) evalArrayLit(e *ast.ArrayLit, env *value.Env) (value.Value, signal) {
	elems := make([]value.Value, len(e.Elements))
	for i, el := range e.Elements {
		v, sig := it.evalExprSig(el, env)
		if sig.kind != signalNone {
			return nil, sig
		}
		elems[i] = v
	}

	return &value.Array{Elements: elems}, signal{}
}

func (it *Interpreter) evalMatch(e *ast.MatchExpr, env *value.Env) (value.Value, signal) {
	scrut, sig := it.evalExprSig(e.Scrutinee, env)
	if sig.kind != signalNone {
		return nil, sig
	}

	for _, arm := range e.Arms {
		switch arm.Pattern.Kind {
		case ast.PatternLiteral:
			litVal, sig := it.evalExprSig(arm.Pattern.Literal, env)
			if sig.kind != signalNone {
				return nil, sig
			}
			if value.Equal(scrut, litVal) {
				return it.evalExprSig(arm.Body, env)
			}

		case ast.PatternIdent:
			armEnv := env.Push()
			armEnv.Define(arm.Pattern.Name, scrut)

			return it.evalExprSig(arm.Body, armEnv)

		default: // wildcard always matches
			return it.evalExprSig(arm.Body, env)
		}
	}

	return value.Nil{}, signal{}
}

func (it *Interpreter) evalRange(e *ast.RangeExpr, env *value.Env) (value.Value, signal) {
	startVal, sig := it.evalExprSig(e.Start, env)
	if sig.kind != signalNone {
		return nil, sig
	}
	endVal, sig := it.evalExprSig(e.End, env)
	if sig.kind != signalNone {
		return nil, sig
	}
	start, ok1 := startVal.(value.Int)
	end, ok2 := endVal.(value.Int)
	if !ok1 || !ok2 {
		return &value.Array{}, signal{}
	}

	elems := make([]value.Value, 0, max0(int(end-start)))
	for i := start; i < end; i++ {
		elems = append(elems, i)
	}

	return &value.Array{Elements: elems}, signal{}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}

	return n
}
