package codegen_test

import (
	"strings"
	"testing"

	"github.com/reox-lang/reoxc/pkg/check"
	"github.com/reox-lang/reoxc/pkg/codegen"
	"github.com/reox-lang/reoxc/pkg/parser"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	p, err := parser.New(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	symtab, err := check.CheckProgram(prog)
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	out, err := codegen.Generate(prog, symtab)
	if err != nil {
		t.Fatalf("codegen error: %v", err)
	}

	return out
}

func TestGeneratePrelude(t *testing.T) {
	out := generate(t, `fn main() -> int { return 0; }`)

	for _, want := range []string{"#include <stdint.h>", "reox_array_int", "reox_range("} {
		if !strings.Contains(out, want) {
			t.Errorf("expected prelude to contain %q, got:\n%s", want, out)
		}
	}
}

func TestGenerateFuncSignatureAndBody(t *testing.T) {
	out := generate(t, `
fn add(a: int, b: int) -> int {
	return a + b;
}
fn main() -> int {
	return add(1, 2);
}
`)

	if !strings.Contains(out, "int64_t add(int64_t a, int64_t b);") {
		t.Errorf("expected add prototype, got:\n%s", out)
	}
	if !strings.Contains(out, "int64_t add(int64_t a, int64_t b) {") {
		t.Errorf("expected add definition, got:\n%s", out)
	}
	if !strings.Contains(out, "return (a + b);") {
		t.Errorf("expected binary-add return, got:\n%s", out)
	}
	if !strings.Contains(out, "add(1, 2)") {
		t.Errorf("expected call expr lowering, got:\n%s", out)
	}
}

func TestGenerateStructDecl(t *testing.T) {
	out := generate(t, `
struct Point { x: int, y: int }
fn main() -> int {
	let p = Point { x: 1, y: 2 };
	return p.x;
}
`)

	if !strings.Contains(out, "struct Point {") {
		t.Errorf("expected struct decl, got:\n%s", out)
	}
	if !strings.Contains(out, "(struct Point){.x = 1, .y = 2}") {
		t.Errorf("expected struct compound literal, got:\n%s", out)
	}
	if !strings.Contains(out, "p.x") {
		t.Errorf("expected member access lowering, got:\n%s", out)
	}
}

func TestGenerateForRangeLoop(t *testing.T) {
	out := generate(t, `
fn main() -> int {
	let mut sum = 0;
	for i in 0..3 {
		sum = sum + i;
	}
	return sum;
}
`)

	if !strings.Contains(out, "reox_range(0, 3)") {
		t.Errorf("expected reox_range call, got:\n%s", out)
	}
	if !strings.Contains(out, "for (size_t reox_i_i = 0; reox_i_i < reox_range_i.len; reox_i_i++) {") {
		t.Errorf("expected lowered for-loop, got:\n%s", out)
	}
}

func TestGenerateTryCatchUnsupportedComment(t *testing.T) {
	out := generate(t, `
fn fail() {
	throw 7;
}
fn main() -> int {
	try {
		throw 42;
	} catch e {
		return 1;
	}
	return 0;
}
`)

	if !strings.Contains(out, "unsupported in native codegen") {
		t.Errorf("expected a native-codegen-unsupported comment for try/catch, got:\n%s", out)
	}
	if !strings.Contains(out, "abort()") {
		t.Errorf("expected throw to lower to an abort, got:\n%s", out)
	}
}

func TestGenerateExternDecl(t *testing.T) {
	out := generate(t, `
extern fn puts(s: string) -> int;
fn main() -> int {
	return puts("hi");
}
`)

	if !strings.Contains(out, "extern int64_t puts(const char* s);") {
		t.Errorf("expected extern prototype, got:\n%s", out)
	}
}
