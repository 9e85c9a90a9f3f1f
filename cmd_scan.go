package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"golox/lexer"
)

// scanCmd implements the scanning mode: it runs only the lexer and
// prints the token stream, one token per line.
type scanCmd struct{}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "Print the token stream of a source file" }
func (*scanCmd) Usage() string {
	return `scan <file>:
  Scan Golox code and print its tokens.
`
}
func (s *scanCmd) SetFlags(f *flag.FlagSet) {}

func (s *scanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	for _, tok := range tokens {
		infoColor.Printf("line %d | %s\n", tok.Line, tok)
	}
	return subcommands.ExitSuccess
}
