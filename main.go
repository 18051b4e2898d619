// Package main implements the reoxc command-line interface.
//
// reoxc is a compiler front-end and tree-walking interpreter for a small,
// statically-typed, curly-brace language. Given a source file it lexes,
// parses, and type-checks the program, then either runs it directly
// (--run) or lowers it to C99 and invokes a system C compiler to produce an
// object file or executable (--emit).
//
// Examples:
//
//	reoxc main.rx --run                  # interpret directly
//	reoxc main.rx -o main.c --emit c      # emit C99 source only
//	reoxc main.rx -o main --emit exe -O2  # compile to a native executable
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reox-lang/reoxc/internal/ast"
	"github.com/reox-lang/reoxc/internal/diag"
	"github.com/reox-lang/reoxc/internal/value"
	"github.com/reox-lang/reoxc/pkg/build"
	"github.com/reox-lang/reoxc/pkg/check"
	"github.com/reox-lang/reoxc/pkg/codegen"
	"github.com/reox-lang/reoxc/pkg/eval"
	"github.com/reox-lang/reoxc/pkg/parser"
)

const version = "reoxc 0.1.0"

var (
	flagOutput  string
	flagEmit    string
	flagOpt     string
	flagLTO     bool
	flagStrip   bool
	flagRuntime string
	flagRun     bool
	flagVerbose bool
	flagCC      string
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reoxc [flags] <file>",
		Short:   "Compiler front-end and interpreter for reox",
		Version: version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(args[0])
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&flagEmit, "emit", "exe", "what to emit: c, obj, or exe")
	cmd.Flags().StringVarP(&flagOpt, "opt", "O", "0", "optimization level: 0,1,2,3,s")
	cmd.Flags().BoolVar(&flagLTO, "lto", false, "enable link-time optimization")
	cmd.Flags().BoolVarP(&flagStrip, "strip", "s", false, "strip symbols from the output")
	cmd.Flags().StringVar(&flagRuntime, "runtime", "", "path to an additional object/library to link")
	cmd.Flags().BoolVarP(&flagRun, "run", "r", false, "interpret the program directly instead of compiling it")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print stage timings and diagnostics to stderr")
	cmd.Flags().StringVar(&flagCC, "cc", defaultCC(), "C compiler to invoke for native builds")
	cmd.Flags().BoolP("version", "V", false, "print the version and exit")
	cmd.SetVersionTemplate(version + "\n")

	return cmd
}

func defaultCC() string {
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}

	return "cc"
}

func runCompile(path string) error {
	logger := diag.New(flagVerbose)

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	p, err := parser.New(string(src))
	if err != nil {
		return err
	}

	var prog = &ast.Program{}
	err = logger.Stage("parse", func() error {
		parsed, perr := p.Parse()
		if parsed != nil {
			prog = parsed
		}

		return perr
	})
	if err != nil {
		return err
	}

	var symtab *check.SymbolTable
	err = logger.Stage("check", func() error {
		var cerr error
		symtab, cerr = check.CheckProgram(prog)

		return cerr
	})
	if err != nil {
		return err
	}

	if flagRun {
		it := eval.New()
		it.Load(prog)

		var result value.Value
		err = logger.Stage("eval", func() error {
			var everr error
			result, everr = it.Run()

			return everr
		})
		if err != nil {
			return err
		}
		logger.Printf("result: %s", result.String())

		return nil
	}

	var source string
	err = logger.Stage("codegen", func() error {
		var gerr error
		source, gerr = codegen.Generate(prog, symtab)

		return gerr
	})
	if err != nil {
		return err
	}

	return logger.Stage("build", func() error {
		emit := build.Emit(flagEmit)
		output := flagOutput
		if output == "" {
			output = defaultOutput(emit)
		}

		plan := build.NewPlan(flagCC, source).
			WithOutput(output).
			WithEmit(emit).
			WithOpt(optLevelFor(flagOpt)).
			WithLTO(flagLTO).
			WithStrip(flagStrip).
			WithRuntime(flagRuntime)

		_, err := plan.Run()

		return err
	})
}

func defaultOutput(emit build.Emit) string {
	switch emit {
	case build.EmitC:
		return "out.c"
	case build.EmitObj:
		return "out.o"
	default:
		return "a.out"
	}
}

func optLevelFor(flag string) build.OptLevel {
	switch flag {
	case "0":
		return build.OptNone
	case "1":
		return build.OptBasic
	case "2":
		return build.OptMore
	case "3":
		return build.OptMax
	case "s":
		return build.OptSize
	default:
		return build.OptNone
	}
}
