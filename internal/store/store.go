// Package store persists a per-source token stream to a sqlite-backed log,
// replacing the flat log/<name>.log file convention of spec §6 with a
// queryable structured record. Grounded on the teacher's gorm.Open(sqlite.Open(...))
// + db.AutoMigrate(...) wiring in generator/gen_main.go (the one place the
// teacher actually opens a database, as opposed to merely generating code
// that does).
package store

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TokenRecord is one row of the log/<name>.log equivalent: the 4-tuple
// (sym, value, lexeme, extra) from spec §6 "Token wire form", plus the run
// it belongs to and its position in that run's token stream.
type TokenRecord struct {
	gorm.Model
	RunID    uint `gorm:"index"`
	Seq      int
	Sym      string
	Value    string
	Lexeme   string
	Tags     string
	Line     int
}

// Run is one lex/parse pass: a source name, which phase produced it
// (feature or catch), and the outcome.
type Run struct {
	gorm.Model
	SourceName string `gorm:"index"`
	Phase      string // "feature" or "catch"
	Err        string // empty on success
	Tokens     []TokenRecord `gorm:"foreignKey:RunID"`
}

// Store wraps a gorm.DB opened against a sqlite file.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and migrates
// the Run/TokenRecord schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Run{}, &TokenRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// StartRun records a new Run row and returns its ID, to be passed to
// RecordToken for every token of that pass.
func (s *Store) StartRun(sourceName, phase string) (uint, error) {
	run := &Run{SourceName: sourceName, Phase: phase}
	if err := s.db.Create(run).Error; err != nil {
		return 0, err
	}
	return run.ID, nil
}

// RecordToken appends one token to runID's stream, in the wire form of
// spec §6 ("extra" is Tags for scenario/test_case, empty otherwise).
func (s *Store) RecordToken(runID uint, seq int, sym, value, lexeme, tags string, line int) error {
	return s.db.Create(&TokenRecord{
		RunID:  runID,
		Seq:    seq,
		Sym:    sym,
		Value:  value,
		Lexeme: lexeme,
		Tags:   tags,
		Line:   line,
	}).Error
}

// FinishRun records the pass's outcome (empty errMsg on success).
func (s *Store) FinishRun(runID uint, errMsg string) error {
	return s.db.Model(&Run{}).Where("id = ?", runID).Update("err", errMsg).Error
}

// Tokens returns the recorded token stream for a run, ordered as produced.
func (s *Store) Tokens(runID uint) ([]TokenRecord, error) {
	var toks []TokenRecord
	err := s.db.Where("run_id = ?", runID).Order("seq asc").Find(&toks).Error
	return toks, err
}

// Close releases the underlying sql.DB handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
