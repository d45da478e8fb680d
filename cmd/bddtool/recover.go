package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/btouchard/bddtool/internal/bdd/diagnostics"
	catchparser "github.com/btouchard/bddtool/internal/bdd/parser/catch"
	"github.com/btouchard/bddtool/internal/bdd/tree"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recover <catch-source.h>",
		Short: "Parse a Catch source and print the BDD tree it recovers",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecover,
	}
	rootCmd.AddCommand(cmd)
}

func runRecover(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return ioErr(fmt.Errorf("reading source: %w", err))
	}

	var sink diagnostics.Collecting
	roots, err := catchparser.ParseWithSink(string(data), path, &sink)
	if err != nil {
		return parseErr(err)
	}
	for _, w := range sink.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s:%d: %s\n", w.Source, w.Line, w.Message)
	}

	out := cmd.OutOrStdout()
	for _, r := range roots {
		printNode(out, r, 0)
	}
	return nil
}

func printNode(w io.Writer, n *tree.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.Kind == tree.KindDescription {
		fmt.Fprintf(w, "%s%s %q\n", indent, n.Kind, n.Lines)
		return
	}
	if n.Tags != "" {
		fmt.Fprintf(w, "%s%s %q %s\n", indent, n.Kind, n.Title, n.Tags)
	} else {
		fmt.Fprintf(w, "%s%s %q\n", indent, n.Kind, n.Title)
	}
	for _, c := range n.Children {
		printNode(w, c, depth+1)
	}
}
