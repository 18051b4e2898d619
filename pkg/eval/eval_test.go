package eval

import (
	"testing"

	"github.com/reox-lang/reoxc/internal/value"
	"github.com/reox-lang/reoxc/pkg/parser"
)

func evalMain(t *testing.T, src string) value.Value {
	t.Helper()
	p, err := parser.New(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	it := New()
	it.Load(prog)
	result, err := it.Run()
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	return result
}

func testInt(t *testing.T, v value.Value, want int64) {
	t.Helper()
	i, ok := v.(value.Int)
	if !ok || int64(i) != want {
		t.Fatalf("got %#v, want Int(%d)", v, want)
	}
}

func TestEvalArithmeticPrecedence(t *testing.T) {
	// 2 + 3 * 4 = 14
	testInt(t, evalMain(t, `fn main() -> int { return 2 + 3 * 4; }`), 14)
}

func TestEvalVariableScoping(t *testing.T) {
	testInt(t, evalMain(t, `
fn main() -> int {
	let mut x = 10;
	{
		let x = 5;
	}
	x = x + 5;
	return x;
}
`), 15)
}

func TestEvalBranching(t *testing.T) {
	testInt(t, evalMain(t, `
fn main() -> int {
	if true { return 1; } else { return 0; }
}
`), 1)
}

func TestEvalStructLiteralAndField(t *testing.T) {
	testInt(t, evalMain(t, `
struct Point { x: int, y: int }
fn main() -> int {
	let p = Point { x: 1, y: 2 };
	return p.x + p.y;
}
`), 3)
}

func TestEvalWhileLoop(t *testing.T) {
	testInt(t, evalMain(t, `
fn main() -> int {
	let mut i = 0;
	let mut sum = 0;
	while i < 5 {
		sum = sum + i;
		i = i + 1;
	}
	return sum;
}
`), 10)
}

func TestEvalForOverRange(t *testing.T) {
	testInt(t, evalMain(t, `
fn main() -> int {
	let mut sum = 0;
	for i in 0..5 {
		sum = sum + i;
	}
	return sum;
}
`), 10)
}

func TestEvalTryCatch(t *testing.T) {
	testInt(t, evalMain(t, `
fn main() -> int {
	try {
		throw 42;
	} catch e {
		return 7;
	}
	return 0;
}
`), 7)
}

func TestEvalMatchExpr(t *testing.T) {
	testInt(t, evalMain(t, `
fn main() -> int {
	let x = 2;
	return match x {
		1 => 10,
		n => n * 100,
	};
}
`), 200)
}

func TestEvalNullCoalesce(t *testing.T) {
	testInt(t, evalMain(t, `
fn main() -> int {
	let x = nil ?? 9;
	return x;
}
`), 9)
}

func TestEvalBuiltinLen(t *testing.T) {
	testInt(t, evalMain(t, `
fn main() -> int {
	return len("hello");
}
`), 5)
}

func TestEvalFunctionCallAndRecursion(t *testing.T) {
	testInt(t, evalMain(t, `
fn fib(n: int) -> int {
	if n < 2 { return n; }
	return fib(n - 1) + fib(n - 2);
}
fn main() -> int {
	return fib(10);
}
`), 55)
}

func TestEvalBreakContinue(t *testing.T) {
	testInt(t, evalMain(t, `
fn main() -> int {
	let mut sum = 0;
	let mut i = 0;
	while i < 10 {
		i = i + 1;
		if i == 5 { break; }
		if i == 2 { continue; }
		sum = sum + i;
	}
	return sum;
}
`), 8) // 1 + 3 + 4 (2 skipped via continue, loop breaks once i reaches 5)
}

func evalMainErr(t *testing.T, src string) error {
	t.Helper()
	p, err := parser.New(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	it := New()
	it.Load(prog)
	_, runErr := it.Run()

	return runErr
}

func TestEvalDivisionByZeroRaises(t *testing.T) {
	err := evalMainErr(t, `
fn main() -> int {
	let z = 0;
	return 1 / z;
}
`)
	if err == nil {
		t.Fatal("expected a runtime error dividing by zero")
	}
}

func TestEvalModuloByZeroRaises(t *testing.T) {
	err := evalMainErr(t, `
fn main() -> int {
	let z = 0;
	return 1 % z;
}
`)
	if err == nil {
		t.Fatal("expected a runtime error for modulo by zero")
	}
}

func TestEvalDivisionByZeroCatchable(t *testing.T) {
	// A division-by-zero raise is an ordinary throw: it unwinds to the
	// nearest enclosing try/catch rather than only to the top level.
	testInt(t, evalMain(t, `
fn main() -> int {
	let z = 0;
	try {
		return 1 / z;
	} catch e {
		return 9;
	}
}
`), 9)
}

func TestEvalArrayIndexOutOfBoundsRaises(t *testing.T) {
	err := evalMainErr(t, `
fn main() -> int {
	let a = [1, 2, 3];
	return a[10];
}
`)
	if err == nil {
		t.Fatal("expected a runtime error indexing out of bounds")
	}
}

func TestEvalUndefinedNameRaises(t *testing.T) {
	err := evalMainErr(t, `
fn main() -> int {
	return undefined_name;
}
`)
	if err == nil {
		t.Fatal("expected a runtime error for an undefined name")
	}
}
