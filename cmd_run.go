package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"golox/interpreter"
	"golox/lexer"
	"golox/parser"
	"golox/resolver"
)

// runCmd implements the run command
type runCmd struct {
	lineByLine bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute Golox code from a source file" }
func (*runCmd) Usage() string {
	return `run [-line-by-line] <file>:
  Execute Golox code.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.lineByLine, "line-by-line", false, "treat each line of the file as an independent program")
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "File not provided\n")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	interp := interpreter.Make()

	if r.lineByLine {
		status := subcommands.ExitSuccess
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if runProgram(interp, line) != subcommands.ExitSuccess {
				status = subcommands.ExitFailure
			}
		}
		return status
	}

	return runProgram(interp, string(data))
}

// runProgram runs a single source program through the full tree-walking
// pipeline: scan, parse, resolve, interpret. Each phase either completes
// and hands its output to the next, or surfaces a single error which is
// reported and ends the run. Unused-variable warnings do not stop
// execution.
func runProgram(interp *interpreter.TreeWalkInterpreter, source string) subcommands.ExitStatus {
	lex := lexer.New(source)
	tokens, err := lex.Scan()
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Scanning Error: %v\n", err)
		return subcommands.ExitFailure
	}

	p := parser.Make(tokens)
	statements, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		for _, parseErr := range parseErrs {
			errorColor.Fprintf(os.Stderr, "Parsing Error: %v\n", parseErr)
		}
		return subcommands.ExitFailure
	}

	res := resolver.Make(interp)
	resolveErr := res.Resolve(statements)
	for _, warning := range res.Warnings() {
		warningColor.Fprintln(os.Stderr, warning)
	}
	if resolveErr != nil {
		errorColor.Fprintf(os.Stderr, "Resolve Error: %v\n", resolveErr)
		return subcommands.ExitFailure
	}

	if err := interp.Interpret(statements); err != nil {
		errorColor.Fprintf(os.Stderr, "Runtime Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
