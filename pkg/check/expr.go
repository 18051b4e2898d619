package check

import "github.com/reox-lang/reoxc/internal/ast"

// checkExpr type-checks e and returns its ResolvedType, reporting a
// Diagnostic for any mismatch found along the way.
func (c *Checker) checkExpr(e ast.Expr) ResolvedType {
	switch ex := e.(type) {
	case *ast.IntLit:
		return Int
	case *ast.FloatLit:
		return Float
	case *ast.StringLit:
		return String
	case *ast.BoolLit:
		return Bool
	case *ast.NilLit:
		return Unknown

	case *ast.IdentExpr:
		if typ, _, ok := c.symtab.LookupVar(ex.Name); ok {
			return typ
		}
		if sig, ok := c.symtab.Func(ex.Name); ok {
			return ResolvedType{Kind: KindFunction, Params: sig.Params, Ret: &sig.Ret}
		}
		c.errorf(ex.Span(), "undefined variable %q", ex.Name)

		return Unknown

	case *ast.BinaryExpr:
		return c.checkBinary(ex)

	case *ast.UnaryExpr:
		return c.checkUnary(ex)

	case *ast.IncDecExpr:
		typ := c.checkExpr(ex.Operand)
		c.checkMutableTarget(ex.Operand)
		if !typ.Equal(Int) && !typ.Equal(Float) {
			c.errorf(ex.Span(), "++/-- requires int or float, got %s", typ)
		}

		return typ

	case *ast.CallExpr:
		return c.checkCall(ex)

	case *ast.MemberExpr:
		return c.checkMember(ex)

	case *ast.OptionalMemberExpr:
		c.checkExpr(ex.Receiver)
		// Optional chaining always yields Unknown here: spec.md has no
		// concrete "optional" wrapper type, so the static result is left
		// unresolved and only the interpreter produces nil-or-value.
		return Unknown

	case *ast.IndexExpr:
		return c.checkIndex(ex)

	case *ast.AssignExpr:
		valType := c.checkExpr(ex.Value)
		targetType := c.checkExpr(ex.Target)
		c.checkMutableTarget(ex.Target)
		if !targetType.Assignable(valType) {
			c.errorf(ex.Span(), "cannot assign %s to %s", valType, targetType)
		}

		return targetType

	case *ast.CompoundAssignExpr:
		valType := c.checkExpr(ex.Value)
		targetType := c.checkExpr(ex.Target)
		c.checkMutableTarget(ex.Target)
		if !targetType.Assignable(valType) {
			c.errorf(ex.Span(), "cannot apply %s to %s with operand %s", ex.Op, targetType, valType)
		}

		return targetType

	case *ast.StructLit:
		return c.checkStructLit(ex)

	case *ast.ArrayLit:
		return c.checkArrayLit(ex)

	case *ast.MatchExpr:
		return c.checkMatch(ex)

	case *ast.NullCoalesceExpr:
		c.checkExpr(ex.Left)

		// Open question #3: the right-hand operand's type is the result
		// type, matching spec.md's stated current behavior.
		return c.checkExpr(ex.Right)

	case *ast.RangeExpr:
		startType := c.checkExpr(ex.Start)
		endType := c.checkExpr(ex.End)
		if !startType.Equal(Int) {
			c.errorf(ex.Start.Span(), "range start must be int, got %s", startType)
		}
		if !endType.Equal(Int) {
			c.errorf(ex.End.Span(), "range end must be int, got %s", endType)
		}

		return ArrayOf(Int)

	case *ast.AwaitExpr:
		// await is the identity at check time per spec.md §5.
		return c.checkExpr(ex.Operand)

	case *ast.FuncLitExpr:
		params, _ := c.paramTypes(ex.Params)
		ret := Void
		if ex.ReturnType != nil {
			ret = c.resolveSyntacticType(ex.ReturnType)
		}
		c.symtab.PushScope()
		for i, p := range ex.Params {
			c.symtab.DeclareVar(p.Name, params[i], false)
		}
		prevRet := c.currentReturn
		c.currentReturn = ret
		for _, inner := range ex.Body.Statements {
			c.checkStmt(inner)
		}
		c.currentReturn = prevRet
		c.symtab.PopScope()

		return ResolvedType{Kind: KindFunction, Params: params, Ret: &ret}

	default:
		c.errorf(e.Span(), "internal: unhandled expression %T", e)

		return Unknown
	}
}

// checkMutableTarget reports an error if e refers to a non-mut binding,
// per spec.md's mutability-enforcement decision (open question #2).
func (c *Checker) checkMutableTarget(e ast.Expr) {
	ident, ok := e.(*ast.IdentExpr)
	if !ok {
		// Field/index assignment targets are checked structurally
		// elsewhere; only bare identifiers carry a mutability flag.
		return
	}
	_, mutable, found := c.symtab.LookupVar(ident.Name)
	if found && !mutable {
		c.errorf(e.Span(), "cannot assign to %q: declared without mut", ident.Name)
	}
}

var arithmeticOps = map[ast.BinaryOp]bool{
	ast.OpAdd: true, ast.OpSub: true, ast.OpMul: true, ast.OpDiv: true, ast.OpMod: true,
}

var comparisonOps = map[ast.BinaryOp]bool{
	ast.OpLt: true, ast.OpGt: true, ast.OpLe: true, ast.OpGe: true,
}

var equalityOps = map[ast.BinaryOp]bool{ast.OpEq: true, ast.OpNe: true}

var logicalOps = map[ast.BinaryOp]bool{ast.OpAnd: true, ast.OpOr: true}

var bitwiseOps = map[ast.BinaryOp]bool{
	ast.OpBitAnd: true, ast.OpBitOr: true, ast.OpBitXor: true, ast.OpShl: true, ast.OpShr: true,
}

func (c *Checker) checkBinary(e *ast.BinaryExpr) ResolvedType {
	left := c.checkExpr(e.Left)
	right := c.checkExpr(e.Right)

	switch {
	case arithmeticOps[e.Op]:
		if e.Op == ast.OpAdd && left.Equal(String) && right.Equal(String) {
			return String
		}
		if left.Equal(Int) && right.Equal(Int) {
			return Int
		}
		if (left.Equal(Int) || left.Equal(Float)) && (right.Equal(Int) || right.Equal(Float)) {
			// int/float mix widens to float.
			return Float
		}
		if left.Kind != KindUnknown && right.Kind != KindUnknown {
			c.errorf(e.Span(), "operator %s not defined for %s and %s", e.Op, left, right)
		}

		return Unknown

	case comparisonOps[e.Op]:
		if (left.Equal(Int) || left.Equal(Float)) && (right.Equal(Int) || right.Equal(Float)) {
			return Bool
		}
		if left.Kind != KindUnknown && right.Kind != KindUnknown {
			c.errorf(e.Span(), "operator %s not defined for %s and %s", e.Op, left, right)
		}

		return Bool

	case equalityOps[e.Op]:
		if !left.Equal(right) {
			c.errorf(e.Span(), "cannot compare %s with %s", left, right)
		}

		return Bool

	case logicalOps[e.Op]:
		if !left.Equal(Bool) {
			c.errorf(e.Left.Span(), "operand of %s must be bool, got %s", e.Op, left)
		}
		if !right.Equal(Bool) {
			c.errorf(e.Right.Span(), "operand of %s must be bool, got %s", e.Op, right)
		}

		return Bool

	case bitwiseOps[e.Op]:
		if !left.Equal(Int) || !right.Equal(Int) {
			if left.Kind != KindUnknown && right.Kind != KindUnknown {
				c.errorf(e.Span(), "operator %s requires int operands, got %s and %s", e.Op, left, right)
			}
		}

		return Int

	default:
		c.errorf(e.Span(), "internal: unhandled binary operator %s", e.Op)

		return Unknown
	}
}

func (c *Checker) checkUnary(e *ast.UnaryExpr) ResolvedType {
	typ := c.checkExpr(e.Operand)
	switch e.Op {
	case ast.OpNeg:
		if !typ.Equal(Int) && !typ.Equal(Float) {
			c.errorf(e.Span(), "unary - requires int or float, got %s", typ)
		}

		return typ
	case ast.OpNot:
		if !typ.Equal(Bool) {
			c.errorf(e.Span(), "unary ! requires bool, got %s", typ)
		}

		return Bool
	case ast.OpBitNot:
		if !typ.Equal(Int) {
			c.errorf(e.Span(), "unary ~ requires int, got %s", typ)
		}

		return Int
	default:
		return Unknown
	}
}

func (c *Checker) checkCall(e *ast.CallExpr) ResolvedType {
	ident, isIdent := e.Callee.(*ast.IdentExpr)
	argTypes := make([]ResolvedType, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.checkExpr(a)
	}

	if !isIdent {
		calleeType := c.checkExpr(e.Callee)
		if calleeType.Kind == KindFunction {
			return *calleeType.Ret
		}

		return Unknown
	}

	sig, ok := c.symtab.Func(ident.Name)
	if !ok {
		if _, _, found := c.symtab.LookupVar(ident.Name); found {
			// calling a local variable holding a function/closure value
			return Unknown
		}
		c.errorf(e.Span(), "undefined function %q", ident.Name)

		return Unknown
	}
	if len(argTypes) != len(sig.Params) {
		c.errorf(e.Span(), "%q expects %d arguments, got %d", ident.Name, len(sig.Params), len(argTypes))

		return sig.Ret
	}
	for i, at := range argTypes {
		if !sig.Params[i].Assignable(at) {
			c.errorf(e.Args[i].Span(), "argument %d of %q: expected %s, got %s", i+1, ident.Name, sig.Params[i], at)
		}
	}

	return sig.Ret
}

func (c *Checker) checkMember(e *ast.MemberExpr) ResolvedType {
	recvType := c.checkExpr(e.Receiver)
	if recvType.Kind != KindStruct {
		if recvType.Kind != KindUnknown {
			c.errorf(e.Span(), "cannot access field %q on non-struct type %s", e.Name, recvType)
		}

		return Unknown
	}
	info, _ := c.symtab.Struct(recvType.StructName)
	fieldType, ok := info.Fields[e.Name]
	if !ok {
		c.errorf(e.Span(), "%s has no field %q", recvType, e.Name)

		return Unknown
	}

	return fieldType
}

// checkIndex implements open question #4: indexing a String yields a
// one-character String; indexing an Array(T) yields T.
func (c *Checker) checkIndex(e *ast.IndexExpr) ResolvedType {
	recvType := c.checkExpr(e.Receiver)
	idxType := c.checkExpr(e.Index)
	if !idxType.Equal(Int) {
		c.errorf(e.Index.Span(), "index must be int, got %s", idxType)
	}

	switch recvType.Kind {
	case KindArray:
		return *recvType.Elem
	case KindString:
		return String
	case KindUnknown:
		return Unknown
	default:
		c.errorf(e.Span(), "cannot index into %s", recvType)

		return Unknown
	}
}

// checkStructLit implements open question #1: every declared field must be
// initialized, or it's a hard type error.
func (c *Checker) checkStructLit(e *ast.StructLit) ResolvedType {
	info, ok := c.symtab.Struct(e.Name)
	if !ok {
		c.errorf(e.Span(), "undefined struct %q", e.Name)
		for _, f := range e.Fields {
			c.checkExpr(f.Value)
		}

		return Unknown
	}

	seen := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		valType := c.checkExpr(f.Value)
		fieldType, declared := info.Fields[f.Name]
		if !declared {
			c.errorf(e.Span(), "%s has no field %q", e.Name, f.Name)

			continue
		}
		if !fieldType.Assignable(valType) {
			c.errorf(f.Value.Span(), "field %q: expected %s, got %s", f.Name, fieldType, valType)
		}
		seen[f.Name] = true
	}

	for _, name := range info.FieldOrder {
		if !seen[name] {
			c.errorf(e.Span(), "missing field %q in literal of %s", name, e.Name)
		}
	}

	return StructType(e.Name)
}

func (c *Checker) checkArrayLit(e *ast.ArrayLit) ResolvedType {
	if len(e.Elements) == 0 {
		return ArrayOf(Unknown)
	}
	elemType := c.checkExpr(e.Elements[0])
	for _, el := range e.Elements[1:] {
		t := c.checkExpr(el)
		if !t.Equal(elemType) {
			c.errorf(el.Span(), "array element type %s does not match earlier element type %s", t, elemType)
		}
	}

	return ArrayOf(elemType)
}

func (c *Checker) checkMatch(e *ast.MatchExpr) ResolvedType {
	scrutType := c.checkExpr(e.Scrutinee)

	var resultType ResolvedType
	for i, arm := range e.Arms {
		switch arm.Pattern.Kind {
		case ast.PatternLiteral:
			litType := c.checkExpr(arm.Pattern.Literal)
			if !litType.Equal(scrutType) {
				c.errorf(arm.Pattern.Literal.Span(), "match arm pattern type %s does not match scrutinee type %s", litType, scrutType)
			}
			bodyType := c.checkExpr(arm.Body)
			if i == 0 {
				resultType = bodyType
			} else if !bodyType.Equal(resultType) {
				c.errorf(arm.Body.Span(), "match arm result type %s does not match earlier arm type %s", bodyType, resultType)
			}

		case ast.PatternIdent:
			c.symtab.PushScope()
			c.symtab.DeclareVar(arm.Pattern.Name, scrutType, false)
			bodyType := c.checkExpr(arm.Body)
			c.symtab.PopScope()
			if i == 0 {
				resultType = bodyType
			} else if !bodyType.Equal(resultType) {
				c.errorf(arm.Body.Span(), "match arm result type %s does not match earlier arm type %s", bodyType, resultType)
			}

		default: // PatternWildcard
			bodyType := c.checkExpr(arm.Body)
			if i == 0 {
				resultType = bodyType
			} else if !bodyType.Equal(resultType) {
				c.errorf(arm.Body.Span(), "match arm result type %s does not match earlier arm type %s", bodyType, resultType)
			}
		}
	}

	return resultType
}
