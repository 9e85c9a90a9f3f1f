package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"golox/compiler"
	"golox/lexer"
	"golox/vm"
)

// calcCmd implements the bytecode pipeline: it scans an arithmetic
// expression, compiles it to a chunk with the Pratt compiler, and
// executes the chunk on the stack VM, printing `RESULT <n>`.
type calcCmd struct {
	disassemble bool
}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "Compile an arithmetic expression to bytecode and run it" }
func (*calcCmd) Usage() string {
	return `calc [-disassemble] <expression>:
  Compile an arithmetic expression and execute it on the VM.

  Example: golox calc "-(1 + 2) * 3"
`
}

func (c *calcCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.disassemble, "disassemble", false, "print the disassembled chunk before executing it")
}

func (c *calcCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Expression not provided\n")
		return subcommands.ExitUsageError
	}
	source := strings.Join(args, " ")

	lex := lexer.New(source)
	tokens, err := lex.Scan()
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Scanning Error: %v\n", err)
		return subcommands.ExitFailure
	}

	chunk, err := compiler.New(tokens).Compile()
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Parsing Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.disassemble {
		infoColor.Print(chunk.Disassemble())
	}

	if err := vm.New().Run(chunk); err != nil {
		errorColor.Fprintf(os.Stderr, "Runtime Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
