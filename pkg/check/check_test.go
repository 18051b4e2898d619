package check

import (
	"testing"

	"github.com/reox-lang/reoxc/pkg/parser"
)

func mustCheck(t *testing.T, src string) error {
	t.Helper()
	p, err := parser.New(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, checkErr := CheckProgram(prog)

	return checkErr
}

func TestCheckArithmeticOK(t *testing.T) {
	err := mustCheck(t, `fn f() -> int { return 2 + 3 * 4; }`)
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestCheckTypeMismatchReturn(t *testing.T) {
	err := mustCheck(t, `fn f() -> int { return "oops"; }`)
	if err == nil {
		t.Fatal("expected a type error for returning string where int is declared")
	}
}

func TestCheckUndefinedVariable(t *testing.T) {
	err := mustCheck(t, `fn f() -> int { return y; }`)
	if err == nil {
		t.Fatal("expected an undefined-variable error")
	}
}

func TestCheckMutabilityEnforced(t *testing.T) {
	err := mustCheck(t, `fn f() { let x = 1; x = 2; }`)
	if err == nil {
		t.Fatal("expected an error assigning to a non-mut binding")
	}
}

func TestCheckMutableAssignOK(t *testing.T) {
	err := mustCheck(t, `fn f() { let mut x = 1; x = 2; }`)
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestCheckStructLiteralMissingField(t *testing.T) {
	err := mustCheck(t, `
struct Point { x: int, y: int }
fn f() { let p = Point { x: 1 }; }
`)
	if err == nil {
		t.Fatal("expected an error for a struct literal missing a field")
	}
}

func TestCheckStructLiteralComplete(t *testing.T) {
	err := mustCheck(t, `
struct Point { x: int, y: int }
fn f() -> int { let p = Point { x: 1, y: 2 }; return p.x; }
`)
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestCheckNullCoalesceRightType(t *testing.T) {
	// The result type follows the right-hand operand (open question #3).
	err := mustCheck(t, `fn f() -> int { let x: int = nil ?? 5; return x; }`)
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestCheckStringIndexReturnsString(t *testing.T) {
	err := mustCheck(t, `fn f() -> string { let s = "hi"; return s[0]; }`)
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestCheckForLoopOverRange(t *testing.T) {
	err := mustCheck(t, `fn f() { for i in 0..10 { let x = i + 1; } }`)
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}
}

func TestCheckBreakOutsideLoop(t *testing.T) {
	err := mustCheck(t, `fn f() { break; }`)
	if err == nil {
		t.Fatal("expected an error for break outside a loop")
	}
}

func TestCheckCallArityMismatch(t *testing.T) {
	err := mustCheck(t, `
fn add(a: int, b: int) -> int { return a + b; }
fn f() -> int { return add(1); }
`)
	if err == nil {
		t.Fatal("expected an error for a call with the wrong argument count")
	}
}

func TestCheckFunctionForwardReference(t *testing.T) {
	err := mustCheck(t, `
fn f() -> int { return g(); }
fn g() -> int { return 1; }
`)
	if err != nil {
		t.Fatalf("unexpected check error for a forward reference: %v", err)
	}
}

func TestCheckForLoopOverBareInt(t *testing.T) {
	// A bare Int-typed iterable is range-like iteration (0..n), not just
	// the RangeExpr sugar itself.
	err := mustCheck(t, `
fn f(n: int) {
	for i in n {
		let x = i + 1;
	}
}
`)
	if err != nil {
		t.Fatalf("unexpected check error iterating over an int: %v", err)
	}
}

func TestCheckIntWidensToFloatInLet(t *testing.T) {
	err := mustCheck(t, `fn f() { let x: float = 5; }`)
	if err != nil {
		t.Fatalf("unexpected check error widening int to float in a let: %v", err)
	}
}

func TestCheckIntWidensToFloatInReturn(t *testing.T) {
	err := mustCheck(t, `fn f() -> float { return 5; }`)
	if err != nil {
		t.Fatalf("unexpected check error widening int to float in a return: %v", err)
	}
}

func TestCheckIntWidensToFloatInCallArgument(t *testing.T) {
	err := mustCheck(t, `
fn g(x: float) {}
fn f() { g(5); }
`)
	if err != nil {
		t.Fatalf("unexpected check error widening int to float in a call argument: %v", err)
	}
}

func TestCheckIntWidensToFloatInStructLiteral(t *testing.T) {
	err := mustCheck(t, `
struct P { x: float }
fn f() { let p = P { x: 1 }; }
`)
	if err != nil {
		t.Fatalf("unexpected check error widening int to float in a struct literal: %v", err)
	}
}

func TestCheckFloatNotAssignableToInt(t *testing.T) {
	// Widening only goes Int -> Float, never the reverse.
	err := mustCheck(t, `fn f() { let x: int = 1.5; }`)
	if err == nil {
		t.Fatal("expected an error assigning a float to an int-typed binding")
	}
}
