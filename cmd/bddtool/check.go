package main

import (
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/cobra"

	"github.com/btouchard/bddtool/internal/bdd/diagnostics"
	"github.com/btouchard/bddtool/internal/bdd/emitter"
	catchparser "github.com/btouchard/bddtool/internal/bdd/parser/catch"
	featureparser "github.com/btouchard/bddtool/internal/bdd/parser/feature"
	"github.com/btouchard/bddtool/internal/bdd/tree"
)

func init() {
	cmd := &cobra.Command{
		Use:   "check <feature-source>...",
		Short: "Verify that a feature source survives emit-then-reparse unchanged",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	rootCmd.AddCommand(cmd)
}

// runCheck exercises the round-trip law from spec §8: parsing a feature
// source, emitting it to Catch, and reparsing the emission must recover
// the same scenario/given/when/then shape (description text is allowed to
// reformat across the comment-banner boundary, so it is excluded from the
// comparison).
func runCheck(cmd *cobra.Command, args []string) error {
	var failed []string
	for _, path := range args {
		if err := checkOne(path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failed = append(failed, path)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: round-trip ok\n", path)
	}
	if len(failed) > 0 {
		return parseErr(fmt.Errorf("%d source(s) failed round-trip", len(failed)))
	}
	return nil
}

func checkOne(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ioErr(fmt.Errorf("reading source: %w", err))
	}

	first, err := featureparser.Parse(string(data), path)
	if err != nil {
		return fmt.Errorf("parsing feature source: %w", err)
	}

	out, err := emitter.Emit(first, emitter.DefaultOptions(), path)
	if err != nil {
		return fmt.Errorf("emitting catch source: %w", err)
	}

	var sink diagnostics.Collecting
	second, err := catchparser.ParseWithSink(out, path, &sink)
	if err != nil {
		return fmt.Errorf("reparsing emitted catch source: %w", err)
	}

	opt := cmpopts.IgnoreFields(tree.Node{}, "Lines")
	if diff := cmp.Diff(stripDescriptions(first), stripDescriptions(second), opt); diff != "" {
		return fmt.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
	return nil
}

// stripDescriptions drops description nodes before comparison: free text
// narrative is reflowed into a comment banner on emit and is not expected
// to reparse byte-for-byte.
func stripDescriptions(roots []*tree.Node) []*tree.Node {
	out := make([]*tree.Node, 0, len(roots))
	for _, r := range roots {
		if r.Kind == tree.KindDescription {
			continue
		}
		out = append(out, r)
	}
	return out
}
