package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"golox/lexer"
	"golox/parser"
)

// parseCmd implements the parsing mode: it runs the lexer and parser
// and prints the resulting AST as prettified JSON.
type parseCmd struct {
	outFile string
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "Print the AST of a source file as JSON" }
func (*parseCmd) Usage() string {
	return `parse [-out <path>] <file>:
  Parse Golox code and print its AST.
`
}

func (p *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.outFile, "out", "", "also write the AST JSON to the given file path")
}

func (p *parseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "File not provided\n")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	lex := lexer.New(string(data))
	tokens, err := lex.Scan()
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Scanning Error: %v\n", err)
		return subcommands.ExitFailure
	}

	psr := parser.Make(tokens)
	statements, parseErrs := psr.Parse()
	if len(parseErrs) > 0 {
		for _, parseErr := range parseErrs {
			errorColor.Fprintf(os.Stderr, "Parsing Error: %v\n", parseErr)
		}
		return subcommands.ExitFailure
	}

	if p.outFile != "" {
		if err := psr.PrintToFile(statements, p.outFile); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	psr.Print(statements)
	return subcommands.ExitSuccess
}
