package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"rpgtrans/internal/parser"
	"rpgtrans/internal/textutil"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS translation_files (
	source_file TEXT PRIMARY KEY,
	extracted_at TEXT NOT NULL,
	total_units INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS translation_units (
	unit_id TEXT PRIMARY KEY,
	source_file TEXT NOT NULL,
	original TEXT NOT NULL,
	original_hash TEXT NOT NULL,
	translated TEXT,
	speaker TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_units_file ON translation_units(source_file);
`

// Store is the SQLite-backed review store: the durable home of translations
// and their review status across extraction runs. Reads go through an
// in-memory map populated on first access.
type Store struct {
	db     *sqlx.DB
	mu     sync.RWMutex
	memory map[string]string // unit id → translated text
}

// Open opens (creating if needed) the store at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open review store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate review store: %w", err)
	}
	return &Store{db: db, memory: make(map[string]string)}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

type unitRow struct {
	UnitID       string         `db:"unit_id"`
	SourceFile   string         `db:"source_file"`
	Original     string         `db:"original"`
	OriginalHash string         `db:"original_hash"`
	Translated   sql.NullString `db:"translated"`
	Speaker      string         `db:"speaker"`
	Status       string         `db:"status"`
	UpdatedAt    string         `db:"updated_at"`
}

// RecordExtract upserts one extraction's units. Existing translations survive
// a re-extract as long as the original text is unchanged; a changed original
// resets the unit to pending so stale translations never inject silently.
func (s *Store) RecordExtract(ctx context.Context, out *parser.ExtractOutput) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record extract: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO translation_files (source_file, extracted_at, total_units)
		VALUES (?, ?, ?)
		ON CONFLICT(source_file) DO UPDATE SET extracted_at = excluded.extracted_at, total_units = excluded.total_units`,
		out.SourceFile, now, len(out.Units),
	); err != nil {
		return fmt.Errorf("record extract file: %w", err)
	}

	for _, u := range out.Units {
		hash := textutil.Hash(u.Original)

		var existing unitRow
		err := tx.GetContext(ctx, &existing,
			`SELECT unit_id, source_file, original, original_hash, translated, speaker, status, updated_at
			 FROM translation_units WHERE unit_id = ?`, u.ID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO translation_units (unit_id, source_file, original, original_hash, speaker, status, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				u.ID, out.SourceFile, u.Original, hash, u.Speaker, string(parser.StatusPending), now,
			); err != nil {
				return fmt.Errorf("insert unit %s: %w", u.ID, err)
			}
		case err != nil:
			return fmt.Errorf("lookup unit %s: %w", u.ID, err)
		case existing.OriginalHash != hash:
			if _, err := tx.ExecContext(ctx, `
				UPDATE translation_units
				SET original = ?, original_hash = ?, translated = NULL, speaker = ?, status = ?, updated_at = ?
				WHERE unit_id = ?`,
				u.Original, hash, u.Speaker, string(parser.StatusPending), now, u.ID,
			); err != nil {
				return fmt.Errorf("reset unit %s: %w", u.ID, err)
			}
			s.mu.Lock()
			delete(s.memory, u.ID)
			s.mu.Unlock()
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record extract commit: %w", err)
	}

	log.Info().Str("file", out.SourceFile).Int("units", len(out.Units)).Msg("Recorded extraction")
	return nil
}

// Get retrieves one unit's translation. Memory first, then SQLite.
func (s *Store) Get(ctx context.Context, unitID string) (string, bool) {
	s.mu.RLock()
	if v, ok := s.memory[unitID]; ok {
		s.mu.RUnlock()
		return v, true
	}
	s.mu.RUnlock()

	var translated sql.NullString
	err := s.db.GetContext(ctx, &translated,
		`SELECT translated FROM translation_units WHERE unit_id = ?`, unitID)
	if err != nil || !translated.Valid {
		return "", false
	}

	s.mu.Lock()
	s.memory[unitID] = translated.String
	s.mu.Unlock()

	return translated.String, true
}

// SetTranslation stores a translation and marks the unit translated.
func (s *Store) SetTranslation(ctx context.Context, unitID, translated string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		UPDATE translation_units SET translated = ?, status = ?, updated_at = ?
		WHERE unit_id = ?`,
		translated, string(parser.StatusTranslated), now, unitID)
	if err != nil {
		return fmt.Errorf("set translation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set translation: unknown unit %s", unitID)
	}

	s.mu.Lock()
	s.memory[unitID] = translated
	s.mu.Unlock()
	return nil
}

// SetStatus updates a unit's review status without touching its text.
func (s *Store) SetStatus(ctx context.Context, unitID string, status parser.Status) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		UPDATE translation_units SET status = ?, updated_at = ? WHERE unit_id = ?`,
		string(status), now, unitID)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set status: unknown unit %s", unitID)
	}
	return nil
}

// Translations returns the id→text mapping for one source file, in the shape
// the injector consumes. Units without a translation are absent.
func (s *Store) Translations(ctx context.Context, sourceFile string) (map[string]string, error) {
	var rows []unitRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT unit_id, source_file, original, original_hash, translated, speaker, status, updated_at
		 FROM translation_units WHERE source_file = ? AND translated IS NOT NULL`, sourceFile)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	m := make(map[string]string, len(rows))
	s.mu.Lock()
	for _, r := range rows {
		m[r.UnitID] = r.Translated.String
		s.memory[r.UnitID] = r.Translated.String
	}
	s.mu.Unlock()
	return m, nil
}

// ImportCacheFile merges translated units from a JSON cache document, so
// hand-edited cache files round-trip through the store.
func (s *Store) ImportCacheFile(ctx context.Context, f *parser.CacheFile) (int, error) {
	imported := 0
	for _, u := range f.Units {
		if u.Translated == nil {
			continue
		}
		if err := s.SetTranslation(ctx, u.ID, *u.Translated); err != nil {
			log.Warn().Err(err).Str("unit", u.ID).Msg("Skipping cache import row")
			continue
		}
		imported++
	}
	return imported, nil
}

// FileStatus summarizes one source file's progress.
type FileStatus struct {
	SourceFile  string `db:"source_file"`
	ExtractedAt string `db:"extracted_at"`
	Total       int    `db:"total"`
	Translated  int    `db:"translated"`
	Reviewed    int    `db:"reviewed"`
}

// Status reports per-file progress counters across the store.
func (s *Store) Status(ctx context.Context) ([]FileStatus, error) {
	var out []FileStatus
	err := s.db.SelectContext(ctx, &out, `
		SELECT f.source_file AS source_file,
		       f.extracted_at AS extracted_at,
		       COUNT(u.unit_id) AS total,
		       COALESCE(SUM(CASE WHEN u.translated IS NOT NULL THEN 1 ELSE 0 END), 0) AS translated,
		       COALESCE(SUM(CASE WHEN u.status = 'reviewed' THEN 1 ELSE 0 END), 0) AS reviewed
		FROM translation_files f
		LEFT JOIN translation_units u ON u.source_file = f.source_file
		GROUP BY f.source_file
		ORDER BY f.source_file`)
	if err != nil {
		return nil, fmt.Errorf("store status: %w", err)
	}
	return out, nil
}

// Preload loads every stored translation into memory before a batch inject.
func (s *Store) Preload(ctx context.Context) error {
	var rows []unitRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT unit_id, source_file, original, original_hash, translated, speaker, status, updated_at
		 FROM translation_units WHERE translated IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("preload store: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.memory[r.UnitID] = r.Translated.String
	}

	log.Info().Int("count", len(rows)).Msg("Preloaded translation store")
	return nil
}
