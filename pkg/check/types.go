// Package check implements the two-pass type checker: pass one registers
// every struct, function, and extern declaration into flat process-wide
// registries (internal/ast.Program order doesn't matter — mutual
// recursion and forward references both just work); pass two walks each
// function body against a lexical scope stack, resolving every expression
// to a ResolvedType and reporting a Diagnostic for anything that doesn't
// typecheck.
package check

import (
	"fmt"

	"github.com/reox-lang/reoxc/internal/ast"
)

// ResolvedType is the type checker's own representation of a type, distinct
// from ast.Type (the syntax the user wrote). A ResolvedType is what
// name/type resolution produces from an ast.Type, and what every
// expression is annotated with after checking.
type ResolvedType struct {
	Kind ResolvedKind

	// StructName is set when Kind == KindStruct.
	StructName string
	// Elem is set when Kind == KindArray.
	Elem *ResolvedType
	// Params/Ret are set when Kind == KindFunction.
	Params []ResolvedType
	Ret    *ResolvedType
}

// ResolvedKind enumerates the shapes a ResolvedType can take.
type ResolvedKind int

const (
	KindInt ResolvedKind = iota
	KindFloat
	KindString
	KindBool
	KindVoid
	KindStruct
	KindArray
	KindFunction
	// KindUnknown marks a type that couldn't be resolved because of an
	// earlier error; it's accepted everywhere to avoid cascading
	// diagnostics for a single root-cause mistake.
	KindUnknown
)

var (
	Int    = ResolvedType{Kind: KindInt}
	Float  = ResolvedType{Kind: KindFloat}
	String = ResolvedType{Kind: KindString}
	Bool   = ResolvedType{Kind: KindBool}
	Void   = ResolvedType{Kind: KindVoid}
	Unknown = ResolvedType{Kind: KindUnknown}
)

func ArrayOf(elem ResolvedType) ResolvedType {
	return ResolvedType{Kind: KindArray, Elem: &elem}
}

func StructType(name string) ResolvedType {
	return ResolvedType{Kind: KindStruct, StructName: name}
}

func (t ResolvedType) String() string {
	switch t.Kind {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindStruct:
		return t.StructName
	case KindArray:
		return fmt.Sprintf("[%s]", t.Elem)
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Equal reports whether two ResolvedTypes denote the same type. KindUnknown
// is equal to everything, so one unresolved type doesn't cascade into
// unrelated mismatch errors.
func (t ResolvedType) Equal(other ResolvedType) bool {
	if t.Kind == KindUnknown || other.Kind == KindUnknown {
		return true
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindStruct:
		return t.StructName == other.StructName
	case KindArray:
		return t.Elem.Equal(*other.Elem)
	default:
		return true
	}
}

// Assignable reports whether a value of type other can be used where t is
// expected — Equal plus the one widening spec.md's Assignability section
// calls out: an Int value is assignable to a Float-typed destination.
func (t ResolvedType) Assignable(other ResolvedType) bool {
	if t.Equal(other) {
		return true
	}

	return t.Kind == KindFloat && other.Kind == KindInt
}

// resolveSyntacticType converts the parser's ast.Type into a ResolvedType,
// validating that named types refer to a known struct.
func (c *Checker) resolveSyntacticType(t ast.Type) ResolvedType {
	switch tt := t.(type) {
	case ast.IntType:
		return Int
	case ast.FloatType:
		return Float
	case ast.StringType:
		return String
	case ast.BoolType:
		return Bool
	case ast.VoidType:
		return Void
	case ast.ArrayType:
		elem := c.resolveSyntacticType(tt.Element)

		return ArrayOf(elem)
	case ast.NamedType:
		if _, ok := c.symtab.Struct(tt.Name); ok {
			return StructType(tt.Name)
		}

		return Unknown
	default:
		return Unknown
	}
}
