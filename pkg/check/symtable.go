package check

import "github.com/reox-lang/reoxc/internal/ast"

// FuncSig is a registered function or extern signature.
type FuncSig struct {
	Name       string
	Params     []ResolvedType
	ParamNames []string
	Ret        ResolvedType
}

// StructInfo is a registered struct declaration: its field names in
// declaration order and their resolved types.
type StructInfo struct {
	Name       string
	FieldOrder []string
	Fields     map[string]ResolvedType
}

// SymbolTable holds the process-wide struct/function registries (built in
// pass one, read-only during pass two) plus the lexical scope stack used
// while checking a function body (pass two only). This mirrors the
// teacher's two-tier design: a flat program-wide registry feeding a
// block-scoped symbol stack, grounded on the compiler symbol table in
// smasonuk-sicpu's pkg/compiler/symtable.go.
type SymbolTable struct {
	structs map[string]*StructInfo
	funcs   map[string]*FuncSig

	scopes []map[string]binding
}

type binding struct {
	typ     ResolvedType
	mutable bool
}

// NewSymbolTable returns an empty SymbolTable ready for pass one.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		structs: make(map[string]*StructInfo),
		funcs:   make(map[string]*FuncSig),
	}
}

// DeclareStruct registers a struct in the program-wide registry. Returns
// false if the name was already registered.
func (s *SymbolTable) DeclareStruct(info *StructInfo) bool {
	if _, exists := s.structs[info.Name]; exists {
		return false
	}
	s.structs[info.Name] = info

	return true
}

// Struct looks up a registered struct by name.
func (s *SymbolTable) Struct(name string) (*StructInfo, bool) {
	info, ok := s.structs[name]

	return info, ok
}

// DeclareFunc registers a function or extern signature. Returns false if
// the name was already registered.
func (s *SymbolTable) DeclareFunc(sig *FuncSig) bool {
	if _, exists := s.funcs[sig.Name]; exists {
		return false
	}
	s.funcs[sig.Name] = sig

	return true
}

// Func looks up a registered function signature by name.
func (s *SymbolTable) Func(name string) (*FuncSig, bool) {
	sig, ok := s.funcs[name]

	return sig, ok
}

// PushScope enters a new lexical scope (function body, block, loop body).
func (s *SymbolTable) PushScope() {
	s.scopes = append(s.scopes, make(map[string]binding))
}

// PopScope leaves the innermost lexical scope.
func (s *SymbolTable) PopScope() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// DeclareVar binds name in the innermost scope. Returns false if name was
// already bound in that exact scope (shadowing an outer scope is fine;
// redeclaring within the same block is not).
func (s *SymbolTable) DeclareVar(name string, typ ResolvedType, mutable bool) bool {
	top := s.scopes[len(s.scopes)-1]
	if _, exists := top[name]; exists {
		return false
	}
	top[name] = binding{typ: typ, mutable: mutable}

	return true
}

// LookupVar walks the scope stack from innermost to outermost.
func (s *SymbolTable) LookupVar(name string) (ResolvedType, bool, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if b, ok := s.scopes[i][name]; ok {
			return b.typ, b.mutable, true
		}
	}

	return ResolvedType{}, false, false
}

// paramTypes extracts parameter ResolvedTypes from an ast.Param slice using
// the owning Checker's type resolver.
func (c *Checker) paramTypes(params []ast.Param) ([]ResolvedType, []string) {
	types := make([]ResolvedType, len(params))
	names := make([]string, len(params))
	for i, p := range params {
		types[i] = c.resolveSyntacticType(p.Type)
		names[i] = p.Name
	}

	return types, names
}
