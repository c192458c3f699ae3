// Package store owns the SQLite database: schema lifecycle, collections,
// and the read-side helpers built on top of the imported match data.
package store

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps the database handle. All importer transactions and CLI reads
// go through the same handle so WAL and busy_timeout settings are shared.
type Store struct {
	db  *sqlx.DB
	log *slog.Logger
}

// Open connects to the database at path, creating the schema on first use.
// The schema probe queries the matches table directly; any error there is
// taken to mean an uninitialized database.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	s := &Store{db: db, log: log}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DB exposes the underlying handle for the importer's transactions.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	var n int64
	if err := s.db.Get(&n, "SELECT COUNT(*) FROM matches"); err != nil {
		s.log.Info("initializing database schema")
		if err := s.createSchema(); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	for _, w := range s.validateSchema() {
		s.log.Warn("schema validation", "warning", w)
	}
	return nil
}

// createSchema executes the embedded DDL with two transformations: view
// creation is deferred until all tables exist, and partial indexes (those
// with a WHERE clause) are dropped in favor of the unconditional unique
// indexes created afterwards for upsert support.
func (s *Store) createSchema() error {
	var filtered, views strings.Builder
	var inView bool
	skippedPartial := 0

	for _, line := range strings.Split(schemaSQL, "\n") {
		trimmed := strings.ToUpper(strings.TrimSpace(line))

		if strings.HasPrefix(trimmed, "CREATE VIEW") {
			inView = true
		}
		if inView {
			views.WriteString(line)
			views.WriteByte('\n')
			if strings.HasSuffix(strings.TrimSpace(line), ";") {
				inView = false
			}
			continue
		}

		if strings.HasPrefix(trimmed, "CREATE INDEX") || strings.HasPrefix(trimmed, "CREATE UNIQUE INDEX") {
			if strings.Contains(trimmed, " WHERE ") {
				skippedPartial++
				continue
			}
		}

		filtered.WriteString(line)
		filtered.WriteByte('\n')
	}

	if skippedPartial > 0 {
		s.log.Info("dropped partial indexes from schema", "count", skippedPartial)
	}

	if _, err := s.db.Exec(filtered.String()); err != nil {
		return fmt.Errorf("tables and indexes: %w", err)
	}
	if _, err := s.db.Exec(upsertIndexes); err != nil {
		return fmt.Errorf("unique indexes: %w", err)
	}
	if _, err := s.db.Exec(views.String()); err != nil {
		return fmt.Errorf("views: %w", err)
	}
	return nil
}

// upsertIndexes replace the partial indexes the warden drops. The importer's
// ON CONFLICT clauses depend on these.
const upsertIndexes = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_game_id ON matches(game_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_players_xml_id ON players(match_id, xml_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_characters_xml_id ON characters(match_id, xml_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_cities_xml_id ON cities(match_id, xml_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_tiles_xml_id ON tiles(match_id, xml_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_families_xml_id ON families(match_id, xml_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_religions_xml_id ON religions(match_id, xml_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_tribes_xml_id ON tribes(match_id, xml_id);
`

// criticalTables are probed by the advisory validation pass.
var criticalTables = []string{
	"collections",
	"matches",
	"match_locks",
	"id_mappings",
	"players",
	"characters",
	"cities",
	"tiles",
	"families",
	"religions",
	"tribes",
}

// validateSchema probes the critical tables and returns human-readable
// warnings. Failures here are advisory only; the caller logs them and
// continues.
func (s *Store) validateSchema() []string {
	var warnings []string
	for _, table := range criticalTables {
		var n int64
		if err := s.db.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
			warnings = append(warnings, fmt.Sprintf("table %q is not accessible: %v", table, err))
		}
	}

	var hasGameIDIndex bool
	err := s.db.Get(&hasGameIDIndex,
		"SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'index' AND name = 'idx_matches_game_id'")
	if err == nil && !hasGameIDIndex {
		warnings = append(warnings, "matches is missing the unique game_id index; duplicate games may occur")
	}
	return warnings
}

// schemaObjects extracts table and view names from the embedded DDL, in
// declaration order. Reset depends on this staying in sync with schema.sql.
func schemaObjects() (tables, views []string) {
	for _, line := range strings.Split(schemaSQL, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "CREATE TABLE "):
			name := strings.TrimPrefix(trimmed, "CREATE TABLE ")
			name, _, _ = strings.Cut(name, " ")
			name, _, _ = strings.Cut(name, "(")
			tables = append(tables, name)
		case strings.HasPrefix(trimmed, "CREATE VIEW "):
			name := strings.TrimPrefix(trimmed, "CREATE VIEW ")
			name, _, _ = strings.Cut(name, " ")
			views = append(views, name)
		}
	}
	return tables, views
}

// Reset drops every schema object and recreates the schema on the same
// connection. Views go first, then tables in reverse declaration order.
func (s *Store) Reset() error {
	tables, views := schemaObjects()
	s.log.Info("resetting database", "tables", len(tables), "views", len(views))

	for _, v := range views {
		if _, err := s.db.Exec("DROP VIEW IF EXISTS " + v); err != nil {
			return fmt.Errorf("drop view %s: %w", v, err)
		}
	}
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := s.db.Exec("DROP TABLE IF EXISTS " + tables[i]); err != nil {
			return fmt.Errorf("drop table %s: %w", tables[i], err)
		}
	}

	if err := s.createSchema(); err != nil {
		return fmt.Errorf("recreate schema: %w", err)
	}
	return nil
}
