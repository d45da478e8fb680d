package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/btouchard/bddtool/internal/store"
)

var watchFlags = struct {
	testsDir *string
	logDB    *string
	hints    *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "watch <features-dir>",
		Short: "Regenerate Catch test skeletons whenever a feature source changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
	watchFlags.testsDir = cmd.Flags().StringP("tests-dir", "o", "tests", "output directory for generated Catch headers")
	watchFlags.logDB = cmd.Flags().String("log-db", "log/bddtool.db", "sqlite database recording each pass's token stream")
	watchFlags.hints = cmd.Flags().Bool("hints", true, "emit Given/When/Then hint comments")
	rootCmd.AddCommand(cmd)
}

// runWatch watches root for .feature changes and regenerates the matching
// Catch skeleton on every write or create event, until interrupted. It
// never exits on a single file's parse error: the offending change is
// logged and watching continues, matching gen's per-file recovery policy.
func runWatch(cmd *cobra.Command, args []string) error {
	root := args[0]
	log := slog.Default()

	var db *store.Store
	if *watchFlags.logDB != "" {
		if err := os.MkdirAll(filepath.Dir(*watchFlags.logDB), 0o755); err != nil {
			return ioErr(fmt.Errorf("creating log directory: %w", err))
		}
		var err error
		db, err = store.Open(*watchFlags.logDB)
		if err != nil {
			return ioErr(fmt.Errorf("opening log database: %w", err))
		}
		defer db.Close()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ioErr(fmt.Errorf("starting watcher: %w", err))
	}
	defer w.Close()

	if err := addRecursive(w, root); err != nil {
		return ioErr(fmt.Errorf("watching %s: %w", root, err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s for changes (ctrl-c to stop)\n", root)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".feature") {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := genOne(log, db, ev.Name, root, *watchFlags.testsDir, *watchFlags.hints); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", ev.Name, err)
				continue
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

// addRecursive registers every directory under root with the watcher:
// fsnotify watches are not recursive on their own.
func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
