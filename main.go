package main

import (
	"context"
	"flag"
	"os"

	"github.com/fatih/color"
	"github.com/google/subcommands"
)

// Colors used for the diagnostics the pipeline reports: red for errors,
// yellow for warnings, blue for token dumps and chunk listings. The AST
// dump is colored yellow by the parser package itself.
var (
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgBlue)
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&scanCmd{}, "")
	subcommands.Register(&parseCmd{}, "")
	subcommands.Register(&calcCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
