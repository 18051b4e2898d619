// Package value defines the runtime values produced by pkg/eval and the
// lexical environment they live in.
//
// Primitive values (Int, Float, String, Bool, Nil) and Color are plain
// value types: copying one copies its data, matching the language's value
// semantics for scalars. Composite values (Array, Map, Struct, Function,
// NativeAction) are represented as pointers so that mutation through one
// reference is visible through another, matching the language's reference
// semantics for `mut` aggregates.
package value

import (
	"fmt"
	"strings"

	"github.com/reox-lang/reoxc/internal/ast"
)

// Value is implemented by every runtime value the interpreter produces.
type Value interface {
	fmt.Stringer
	Type() string
}

// Nil is the single null value.
type Nil struct{}

func (Nil) String() string { return "nil" }
func (Nil) Type() string   { return "nil" }

// Bool wraps a boolean.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}

	return "false"
}
func (Bool) Type() string { return "bool" }

// Int wraps a 64-bit signed integer.
type Int int64

func (i Int) String() string { return fmt.Sprintf("%d", int64(i)) }
func (Int) Type() string     { return "int" }

// Float wraps a 64-bit IEEE float.
type Float float64

func (f Float) String() string { return fmt.Sprintf("%g", float64(f)) }
func (Float) Type() string     { return "float" }

// String wraps a UTF-8 string.
type String string

func (s String) String() string { return string(s) }
func (String) Type() string     { return "string" }

// Color is an RGBA color value produced by the rgb/rgba builtins.
type Color struct {
	R, G, B, A byte
}

func (c Color) String() string {
	return fmt.Sprintf("Color(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}
func (Color) Type() string { return "Color" }

// Array is a mutable, reference-typed sequence of Values.
type Array struct {
	Elements []Value
}

func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
func (*Array) Type() string { return "array" }

// Map is a mutable, reference-typed string-keyed dictionary, backing the
// map_new/map_set/map_get builtins.
type Map struct {
	Entries map[string]Value
}

func NewMap() *Map { return &Map{Entries: make(map[string]Value)} }

func (m *Map) String() string {
	parts := make([]string, 0, len(m.Entries))
	for k, v := range m.Entries {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
func (*Map) Type() string { return "map" }

// Struct is an instance of a user-declared struct type.
type Struct struct {
	Name   string
	Fields map[string]Value
}

func (s *Struct) String() string {
	parts := make([]string, 0, len(s.Fields))
	for k, v := range s.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v))
	}

	return fmt.Sprintf("%s { %s }", s.Name, strings.Join(parts, ", "))
}
func (s *Struct) Type() string { return s.Name }

// Function is a user-defined function or function literal closing over
// the environment in which it was defined.
type Function struct {
	Name   string // empty for an anonymous function literal
	Params []ast.Param
	Body   *ast.BlockStmt
	Env    *Env
}

func (f *Function) String() string {
	name := f.Name
	if name == "" {
		name = "<anonymous>"
	}

	return fmt.Sprintf("<function %s>", name)
}
func (*Function) Type() string { return "function" }

// NativeAction is the capability interface implemented by every built-in
// function (pkg/eval/builtins.go). Builtins receive already-evaluated
// arguments and return a Value directly: per spec.md, an argument-type
// mismatch yields a sensible zero value rather than an error.
type NativeAction interface {
	Value
	Name() string
	Call(args []Value) Value
}

// Builtin adapts a plain Go function into a NativeAction.
type Builtin struct {
	BuiltinName string
	Fn          func(args []Value) Value
}

func (b *Builtin) String() string   { return fmt.Sprintf("<builtin %s>", b.BuiltinName) }
func (*Builtin) Type() string       { return "builtin" }
func (b *Builtin) Name() string     { return b.BuiltinName }
func (b *Builtin) Call(a []Value) Value { return b.Fn(a) }

// Truthy reports whether v is considered true in a boolean context
// (if/while/guard conditions, && and || short-circuiting).
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Nil:
		return false
	default:
		return true
	}
}

// Equal reports deep equality between two values, used by == and !=, and
// by literal-pattern matching in match expressions.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Int:
		y, ok := b.(Int)

		return ok && x == y
	case Float:
		y, ok := b.(Float)

		return ok && x == y
	case String:
		y, ok := b.(String)

		return ok && x == y
	case Bool:
		y, ok := b.(Bool)

		return ok && x == y
	case Nil:
		_, ok := b.(Nil)

		return ok
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equal(x.Elements[i], y.Elements[i]) {
				return false
			}
		}

		return true
	default:
		return a == b
	}
}
