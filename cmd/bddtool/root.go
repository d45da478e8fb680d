package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bddtool",
	Short: "Translate between BDD feature sources and Catch test skeletons",
	Long: `bddtool translates prose feature sources (Given/When/Then narratives)
into compilable Catch test skeletons, and can recover the same BDD tree
back out of hand-edited Catch sources.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command, mirroring the teacher's cmd/gmx exit-code
// discipline (spec §6 "Exit codes (reference tool)"): 0 success, 1 parse
// error, 2 I/O error.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if code, ok := err.(exitCoder); ok {
			return code.ExitCode()
		}
		return 1
	}
	return 0
}

// exitCoder lets a subcommand distinguish a parse error (1) from an I/O
// error (2) without the core itself ever calling os.Exit (spec §6).
type exitCoder interface {
	error
	ExitCode() int
}

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) ExitCode() int { return e.code }
func (e *exitError) Unwrap() error { return e.err }

func parseErr(err error) error { return &exitError{code: 1, err: err} }
func ioErr(err error) error    { return &exitError{code: 2, err: err} }
