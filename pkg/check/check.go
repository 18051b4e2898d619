package check

import (
	"fmt"

	"github.com/reox-lang/reoxc/internal/ast"
)

// Diagnostic is a single type error with its source span.
type Diagnostic struct {
	Span ast.Span
	Msg  string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("[check][%d:%d]: %s", d.Span.Line, d.Span.Column, d.Msg)
}

// Diagnostics aggregates every type error found while checking a Program.
type Diagnostics struct {
	Items []*Diagnostic
}

func (d *Diagnostics) Error() string {
	if len(d.Items) == 1 {
		return d.Items[0].Error()
	}
	s := fmt.Sprintf("%d type errors:", len(d.Items))
	for _, item := range d.Items {
		s += "\n  " + item.Error()
	}

	return s
}

// Checker runs the two-pass type check over a Program.
type Checker struct {
	symtab *SymbolTable
	diags  []*Diagnostic

	// currentReturn is the declared return type of the function body
	// currently being checked.
	currentReturn ResolvedType
	inLoop        int
}

// NewChecker returns a Checker with a fresh SymbolTable.
func NewChecker() *Checker {
	return &Checker{symtab: NewSymbolTable()}
}

func (c *Checker) errorf(span ast.Span, format string, args ...any) {
	c.diags = append(c.diags, &Diagnostic{Span: span, Msg: fmt.Sprintf(format, args...)})
}

// CheckProgram runs both passes over prog and returns an aggregate
// *Diagnostics if anything failed to typecheck.
func CheckProgram(prog *ast.Program) (*SymbolTable, error) {
	c := NewChecker()
	c.registerDecls(prog)
	c.checkBodies(prog)

	if len(c.diags) > 0 {
		return c.symtab, &Diagnostics{Items: c.diags}
	}

	return c.symtab, nil
}

// ---------------------------------------------------------------------------
// Pass one: register struct/function/extern declarations.
// ---------------------------------------------------------------------------

func (c *Checker) registerDecls(prog *ast.Program) {
	// Structs first so function signatures referencing them resolve.
	for _, d := range prog.Declarations {
		if sd, ok := d.(*ast.StructDecl); ok {
			info := &StructInfo{Name: sd.Name, Fields: make(map[string]ResolvedType)}
			for _, f := range sd.Fields {
				info.FieldOrder = append(info.FieldOrder, f.Name)
			}
			if !c.symtab.DeclareStruct(info) {
				c.errorf(sd.Span(), "struct %q is already declared", sd.Name)
			}
		}
	}
	// A second sweep resolves field types now that every struct name is
	// registered, so mutually-referencing structs work.
	for _, d := range prog.Declarations {
		if sd, ok := d.(*ast.StructDecl); ok {
			info, _ := c.symtab.Struct(sd.Name)
			for _, f := range sd.Fields {
				info.Fields[f.Name] = c.resolveSyntacticType(f.Type)
			}
		}
	}

	for _, d := range prog.Declarations {
		switch decl := d.(type) {
		case *ast.FuncDecl:
			params, names := c.paramTypes(decl.Params)
			ret := Void
			if decl.ReturnType != nil {
				ret = c.resolveSyntacticType(decl.ReturnType)
			}
			sig := &FuncSig{Name: decl.Name, Params: params, ParamNames: names, Ret: ret}
			if !c.symtab.DeclareFunc(sig) {
				c.errorf(decl.Span(), "function %q is already declared", decl.Name)
			}
		case *ast.ExternDecl:
			params, names := c.paramTypes(decl.Params)
			ret := Void
			if decl.ReturnType != nil {
				ret = c.resolveSyntacticType(decl.ReturnType)
			}
			sig := &FuncSig{Name: decl.Name, Params: params, ParamNames: names, Ret: ret}
			if !c.symtab.DeclareFunc(sig) {
				c.errorf(decl.Span(), "function %q is already declared", decl.Name)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Pass two: check each function body.
// ---------------------------------------------------------------------------

func (c *Checker) checkBodies(prog *ast.Program) {
	for _, d := range prog.Declarations {
		fn, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		sig, _ := c.symtab.Func(fn.Name)

		c.symtab.PushScope()
		for i, p := range fn.Params {
			c.symtab.DeclareVar(p.Name, sig.Params[i], false)
		}
		prevRet := c.currentReturn
		c.currentReturn = sig.Ret
		c.checkBlock(fn.Body)
		c.currentReturn = prevRet
		c.symtab.PopScope()
	}
}

func (c *Checker) checkBlock(b *ast.BlockStmt) {
	c.symtab.PushScope()
	for _, s := range b.Statements {
		c.checkStmt(s)
	}
	c.symtab.PopScope()
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LetStmt:
		var typ ResolvedType
		if st.Init != nil {
			typ = c.checkExpr(st.Init)
		}
		if st.Annotation != nil {
			annot := c.resolveSyntacticType(st.Annotation)
			if st.Init != nil && !annot.Assignable(typ) {
				c.errorf(st.Init.Span(), "cannot assign %s to %s (declared type of %q)", typ, annot, st.Name)
			}
			typ = annot
		}
		if !c.symtab.DeclareVar(st.Name, typ, st.Mutable) {
			c.errorf(st.Span(), "%q is already declared in this scope", st.Name)
		}

	case *ast.ExprStmt:
		c.checkExpr(st.Expr)

	case *ast.ReturnStmt:
		var typ ResolvedType
		if st.Value != nil {
			typ = c.checkExpr(st.Value)
		} else {
			typ = Void
		}
		if !c.currentReturn.Assignable(typ) {
			c.errorf(st.Span(), "return type %s does not match declared return type %s", typ, c.currentReturn)
		}

	case *ast.IfStmt:
		c.checkCondition(st.Cond)
		c.checkBlock(st.Then)
		if st.Else != nil {
			c.checkBlock(st.Else)
		}

	case *ast.WhileStmt:
		c.checkCondition(st.Cond)
		c.inLoop++
		c.checkBlock(st.Body)
		c.inLoop--

	case *ast.ForStmt:
		elemType := c.checkForIterable(st.Iterable)
		c.symtab.PushScope()
		c.symtab.DeclareVar(st.Var, elemType, false)
		c.inLoop++
		for _, inner := range st.Body.Statements {
			c.checkStmt(inner)
		}
		c.inLoop--
		c.symtab.PopScope()

	case *ast.BreakStmt:
		if c.inLoop == 0 {
			c.errorf(st.Span(), "break outside of a loop")
		}

	case *ast.ContinueStmt:
		if c.inLoop == 0 {
			c.errorf(st.Span(), "continue outside of a loop")
		}

	case *ast.GuardStmt:
		c.checkCondition(st.Cond)
		c.checkBlock(st.Else)

	case *ast.DeferStmt:
		c.checkBlock(st.Body)

	case *ast.TryCatchStmt:
		c.checkBlock(st.Try)
		c.symtab.PushScope()
		if st.CatchVar != "" {
			c.symtab.DeclareVar(st.CatchVar, String, false)
		}
		for _, inner := range st.CatchBlock.Statements {
			c.checkStmt(inner)
		}
		c.symtab.PopScope()

	case *ast.ThrowStmt:
		c.checkExpr(st.Value)

	case *ast.BlockStmt:
		c.checkBlock(st)

	default:
		c.errorf(s.Span(), "internal: unhandled statement %T", s)
	}
}

func (c *Checker) checkCondition(e ast.Expr) {
	typ := c.checkExpr(e)
	if !typ.Equal(Bool) {
		c.errorf(e.Span(), "condition must be bool, got %s", typ)
	}
}

// checkForIterable validates that a for-loop's iterable is an Array(T)
// (yielding T), the Range sugar, or a bare Int (both yielding Int), per
// spec.md's for-loop special-casing of ranges.
func (c *Checker) checkForIterable(e ast.Expr) ResolvedType {
	if _, ok := e.(*ast.RangeExpr); ok {
		c.checkExpr(e)

		return Int
	}
	typ := c.checkExpr(e)
	switch typ.Kind {
	case KindArray:
		return *typ.Elem
	case KindInt:
		// A bare Int-typed iterable is treated as range-like iteration
		// (0..n), matching the Range sugar's own elem type.
		return Int
	case KindUnknown:
		return Unknown
	default:
		c.errorf(e.Span(), "for-loop iterable must be an array or range, got %s", typ)

		return Unknown
	}
}
