// Package build invokes a system C compiler as a subprocess against
// generated C99 source, implementing spec.md §6.2's --emit/-O*/--lto/
// --strip/--runtime flags.
//
// The subprocess-invocation shape (build an argument list, shell out,
// surface stderr on failure) follows smasonuk-sicpu's
// pkg/compiler/compile.go, which does the same for its `as`/`ld` backend.
package build

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// Emit selects what --emit produces: lowered C text, an unlinked object
// file (compiled with -c), or a finished executable.
type Emit string

const (
	EmitC   Emit = "c"
	EmitObj Emit = "obj"
	EmitExe Emit = "exe"
)

// OptLevel is one of the -O0..-O3 or -Os optimization levels, passed
// straight through to the C compiler.
type OptLevel string

const (
	OptNone   OptLevel = "-O0"
	OptBasic  OptLevel = "-O1"
	OptMore   OptLevel = "-O2"
	OptMax    OptLevel = "-O3"
	OptSize   OptLevel = "-Os"
)

// Plan is a builder-style description of a single native build, adapted
// from the teacher's derivation builder pattern (pkg/derivation in the
// original Nix interpreter: an explicit struct carrying every input
// a subprocess invocation needs, built up field by field before Run).
type Plan struct {
	// Compiler is the C compiler executable, e.g. "cc" or "clang".
	Compiler string
	// Source is the generated C99 text to compile.
	Source string
	// Output is the destination path.
	Output string
	// Emit selects the output kind.
	Emit Emit
	// Opt is the optimization level.
	Opt OptLevel
	// LTO enables link-time optimization (-flto).
	LTO bool
	// Strip enables symbol stripping (-s).
	Strip bool
	// Runtime is an optional path to an additional object/library to link
	// against (spec.md's --runtime flag), e.g. a hand-written C runtime
	// providing the extern functions a program declares.
	Runtime string
}

// NewPlan returns a Plan with the given compiler and source, defaulting to
// -O0 and EmitExe, following the CLI's own documented defaults.
func NewPlan(compiler, source string) *Plan {
	return &Plan{Compiler: compiler, Source: source, Emit: EmitExe, Opt: OptNone}
}

// WithOutput sets the output path.
func (p *Plan) WithOutput(path string) *Plan { p.Output = path; return p }

// WithEmit sets the emit kind.
func (p *Plan) WithEmit(e Emit) *Plan { p.Emit = e; return p }

// WithOpt sets the optimization level.
func (p *Plan) WithOpt(o OptLevel) *Plan { p.Opt = o; return p }

// WithLTO toggles link-time optimization.
func (p *Plan) WithLTO(on bool) *Plan { p.LTO = on; return p }

// WithStrip toggles symbol stripping.
func (p *Plan) WithStrip(on bool) *Plan { p.Strip = on; return p }

// WithRuntime sets an additional object/library to link.
func (p *Plan) WithRuntime(path string) *Plan { p.Runtime = path; return p }

// Result carries the outcome of a Run: the written output path, plus
// captured compiler diagnostics for --verbose reporting.
type Result struct {
	OutputPath string
	Stderr     string
}

// Run writes Source to a temp file and invokes Compiler against it,
// producing Output per Emit/Opt/LTO/Strip. If Emit is EmitC, no compiler
// is invoked at all: Source is written directly to Output.
func (p *Plan) Run() (*Result, error) {
	if p.Emit == EmitC {
		if err := os.WriteFile(p.Output, []byte(p.Source), 0o644); err != nil {
			return nil, fmt.Errorf("writing C output: %w", err)
		}

		return &Result{OutputPath: p.Output}, nil
	}

	tmp, err := os.CreateTemp("", "reoxc-*.c")
	if err != nil {
		return nil, fmt.Errorf("creating temp C file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(p.Source); err != nil {
		tmp.Close()

		return nil, fmt.Errorf("writing temp C file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp C file: %w", err)
	}

	args := []string{tmp.Name(), string(p.Opt)}
	if p.LTO {
		args = append(args, "-flto")
	}
	if p.Strip {
		args = append(args, "-s")
	}
	if p.Runtime != "" {
		args = append(args, p.Runtime)
	}
	if p.Emit == EmitObj {
		args = append(args, "-c")
	}
	args = append(args, "-o", p.Output)

	cmd := exec.Command(p.Compiler, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w\n%s", p.Compiler, err, stderr.String())
	}

	return &Result{OutputPath: p.Output, Stderr: stderr.String()}, nil
}
