package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/btouchard/bddtool/internal/bdd/emitter"
	"github.com/btouchard/bddtool/internal/bdd/lexer/feature"
	featureparser "github.com/btouchard/bddtool/internal/bdd/parser/feature"
	"github.com/btouchard/bddtool/internal/bdd/token"
	"github.com/btouchard/bddtool/internal/identutil"
	"github.com/btouchard/bddtool/internal/store"
)

var genFlags = struct {
	testsDir *string
	logDB    *string
	hints    *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "gen [features-dir-or-file]...",
		Short: "Translate feature sources into Catch test skeletons",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runGen,
	}
	genFlags.testsDir = cmd.Flags().StringP("tests-dir", "o", "tests", "output directory for generated Catch headers")
	genFlags.logDB = cmd.Flags().String("log-db", "log/bddtool.db", "sqlite database recording each pass's token stream")
	genFlags.hints = cmd.Flags().Bool("hints", true, "emit Given/When/Then hint comments")
	rootCmd.AddCommand(cmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	log := slog.Default()

	var db *store.Store
	if *genFlags.logDB != "" {
		if err := os.MkdirAll(filepath.Dir(*genFlags.logDB), 0o755); err != nil {
			return ioErr(fmt.Errorf("creating log directory: %w", err))
		}
		var err error
		db, err = store.Open(*genFlags.logDB)
		if err != nil {
			return ioErr(fmt.Errorf("opening log database: %w", err))
		}
		defer db.Close()
	}

	var firstParseErr error
	for _, root := range args {
		err := walkFeatures(root, func(path string) error {
			if genErr := genOne(log, db, path, root, *genFlags.testsDir, *genFlags.hints); genErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, genErr)
				if firstParseErr == nil {
					firstParseErr = genErr
				}
			}
			return nil
		})
		if err != nil {
			return ioErr(err)
		}
	}
	if firstParseErr != nil {
		return parseErr(fmt.Errorf("one or more sources failed to translate"))
	}
	return nil
}

// walkFeatures calls fn for every *.feature file under root (root itself if
// it is a single file).
func walkFeatures(root string, fn func(path string) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fn(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".feature") {
			return nil
		}
		return fn(path)
	})
}

// logTokens runs an independent lexer pass purely to record the token
// stream for this run (SPEC_FULL.md DOMAIN STACK: one store.TokenRecord row
// per emitted token), separate from the featureparser.Parse pass below
// since that parser consumes its lexer internally and exposes no tokens.
func logTokens(log *slog.Logger, db *store.Store, runID uint, source, path string) {
	lx := feature.New(source, path)
	for seq := 0; ; seq++ {
		tok := lx.NextToken()
		if err := db.RecordToken(runID, seq, string(tok.Sym), tok.Value, tok.Lexeme, tok.Tags, tok.Line); err != nil {
			log.Warn("could not record token", "source", path, "error", err)
		}
		if tok.Sym == token.EndOfData {
			return
		}
	}
}

// genOne translates a single feature source to its Catch skeleton,
// recording the token stream and parse outcome to db when non-nil. On
// LexicalError/SyntaxError the file is skipped and the caller continues
// with the next one (spec §7 "User-visible behavior in the reference tool").
func genOne(log *slog.Logger, db *store.Store, path, featuresRoot, testsDir string, hints bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	var runID uint
	if db != nil {
		runID, err = db.StartRun(path, "feature")
		if err != nil {
			log.Warn("could not start log run", "source", path, "error", err)
		}
		if runID != 0 {
			logTokens(log, db, runID, string(data), path)
		}
	}

	roots, parseErr := featureparser.Parse(string(data), path)
	if db != nil && runID != 0 {
		msg := ""
		if parseErr != nil {
			msg = parseErr.Error()
		}
		if err := db.FinishRun(runID, msg); err != nil {
			log.Warn("could not finish log run", "source", path, "error", err)
		}
	}
	if parseErr != nil {
		return parseErr
	}

	opts := emitter.DefaultOptions()
	opts.HintFlag = hints
	out, err := emitter.Emit(roots, opts, path)
	if err != nil {
		return err
	}

	outPath := identutil.ResolveOutputPath(identutil.CatchPath(path, featuresRoot, testsDir))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	log.Info("generated", "source", path, "output", outPath)
	return nil
}
