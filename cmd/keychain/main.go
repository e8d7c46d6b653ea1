package main

import (
	"io"
	"os"

	"github.com/zx06/keychain/internal/app"
	"github.com/zx06/keychain/internal/errors"
	"github.com/zx06/keychain/internal/output"
)

func main() {
	exit := run()
	os.Exit(exit)
}

// run is the main entry point
func run() int {
	return execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Initialize application
	a := app.New(version, commit, date)
	w := output.New(stdout, stderr)

	// Create root command
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	// Add subcommands
	root.AddCommand(NewGetCommand(&w))
	root.AddCommand(NewSetCommand(&w))
	root.AddCommand(NewDeleteCommand(&w))
	root.AddCommand(NewStatusCommand(&w))
	root.AddCommand(NewSpecCommand(&a, &w))
	root.AddCommand(NewVersionCommand(&a, &w))
	root.AddCommand(NewMCPCommand())

	// Execute and handle errors
	if err := root.Execute(); err != nil {
		xe := normalizeErr(err)
		format := resolveFormatForError(GlobalConfig.FormatStr)
		_ = w.WriteError(format, xe)
		return int(errors.ExitCodeFor(xe.Code))
	}

	return int(errors.ExitOK)
}
