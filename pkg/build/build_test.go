package build

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPlanRunEmitCWritesSourceDirectly(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.c")

	plan := NewPlan("cc", "int main(void) { return 0; }\n").
		WithOutput(out).
		WithEmit(EmitC)

	result, err := plan.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OutputPath != out {
		t.Fatalf("got output path %q, want %q", result.OutputPath, out)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading written output: %v", err)
	}
	if string(got) != "int main(void) { return 0; }\n" {
		t.Fatalf("written C source does not match input, got:\n%s", got)
	}
}

func TestPlanRunMissingCompilerFails(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "a.out")

	plan := NewPlan("reoxc-nonexistent-compiler-xyz", "int main(void) { return 0; }\n").
		WithOutput(out).
		WithEmit(EmitExe)

	_, err := plan.Run()
	if err == nil {
		t.Fatal("expected an error invoking a nonexistent compiler")
	}
}

func TestNewPlanDefaults(t *testing.T) {
	p := NewPlan("cc", "source")
	if p.Emit != EmitExe {
		t.Errorf("got default emit %q, want %q", p.Emit, EmitExe)
	}
	if p.Opt != OptNone {
		t.Errorf("got default opt %q, want %q", p.Opt, OptNone)
	}
}

func TestWithMethodsChainAndMutate(t *testing.T) {
	p := NewPlan("cc", "source").
		WithOutput("a.out").
		WithEmit(EmitObj).
		WithOpt(OptMax).
		WithLTO(true).
		WithStrip(true).
		WithRuntime("runtime.o")

	if p.Output != "a.out" || p.Emit != EmitObj || p.Opt != OptMax || !p.LTO || !p.Strip || p.Runtime != "runtime.o" {
		t.Fatalf("builder methods did not set fields as expected: %+v", p)
	}
}
