// Package identutil holds small naming helpers for the CLI's file
// conventions (spec §6): deriving a tests/ output path from a features/
// input path, and the `.skeleton` fallback when the output already exists.
// Grounded on the teacher's internal/compiler/utils (a package of small,
// no-dependency string-shape helpers used by the generator), adapted here
// from Go-identifier casing to filesystem naming.
package identutil

import (
	"os"
	"path/filepath"
	"strings"
)

// CatchPath derives the tests/<name>.h path for a features/<name>.feature
// source (spec §6 "File convention"). featuresRoot and testsRoot are the
// two directories' roots.
func CatchPath(featurePath, featuresRoot, testsRoot string) string {
	rel, err := filepath.Rel(featuresRoot, featurePath)
	if err != nil {
		rel = filepath.Base(featurePath)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".h"
	return filepath.Join(testsRoot, rel)
}

// ResolveOutputPath returns want unless it already exists, in which case it
// returns the same path with its extension replaced by .skeleton, leaving
// the original file untouched (spec §6: "when an .h already exists, the
// generator emits alongside with extension .skeleton").
func ResolveOutputPath(want string) string {
	if _, err := os.Stat(want); err != nil {
		return want
	}
	return strings.TrimSuffix(want, filepath.Ext(want)) + ".skeleton"
}
