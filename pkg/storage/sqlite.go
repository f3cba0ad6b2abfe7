// Package storage persists runs, generations, and DNA bundles to SQLite so a
// run's full history survives the process and can be audited later. The
// bundle table is append-only: a bundle row, once written, is never updated.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/evoforge/gad-go/pkg/core"
	"github.com/evoforge/gad-go/pkg/errors"
)

// Store wraps a SQLite database holding run history and lineage records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at the given path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "gad.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to open sqlite database")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db}
	if err := s.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	// WAL gives readers a consistent view while a run is being appended.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to set synchronous pragma")
	}

	return s, nil
}

func (s *Store) initDB() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		requirement TEXT NOT NULL,
		status TEXT NOT NULL,
		final_candidate_id TEXT,
		agents BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS generations (
		run_id TEXT NOT NULL,
		number INTEGER NOT NULL,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (run_id, number),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS bundles (
		candidate_id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		provenance_hash TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bundles_run ON bundles(run_id);
	`

	_, err := s.db.Exec(query)
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to initialize schema")
	}
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun upserts the run row and all of its generations.
func (s *Store) SaveRun(ctx context.Context, run *core.Run) error {
	agents, err := json.Marshal(run.Agents)
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to encode agents")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to begin transaction")
	}
	var committed bool
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UnixNano()
	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, name, requirement, status, final_candidate_id, agents, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Name, run.Requirement, string(run.Status), run.FinalCandidateID, agents, now)
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to save run")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO generations (run_id, number, payload, created_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to prepare generation insert")
	}
	defer stmt.Close()

	for _, gen := range run.Generations {
		payload, err := json.Marshal(gen)
		if err != nil {
			return errors.Wrap(err, errors.StorageFailed, "failed to encode generation")
		}
		if _, err := stmt.ExecContext(ctx, run.ID, gen.Number, payload, now); err != nil {
			return errors.Wrap(err, errors.StorageFailed, "failed to save generation")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to commit run")
	}
	committed = true
	return nil
}

// LoadRun reads a run and its generations back. Loaded generations are
// sealed: stored history is immutable.
func (s *Store) LoadRun(ctx context.Context, id string) (*core.Run, error) {
	run := &core.Run{ID: id}
	var status string
	var agents []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT name, requirement, status, COALESCE(final_candidate_id, ''), agents
		FROM runs WHERE id = ?
	`, id).Scan(&run.Name, &run.Requirement, &status, &run.FinalCandidateID, &agents)
	if err == sql.ErrNoRows {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "run not found"),
			errors.Fields{"run": id})
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to load run")
	}
	run.Status = core.RunStatus(status)
	if err := json.Unmarshal(agents, &run.Agents); err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to decode agents")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM generations WHERE run_id = ? ORDER BY number ASC
	`, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to load generations")
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, errors.StorageFailed, "failed to scan generation")
		}
		var gen core.Generation
		if err := json.Unmarshal(payload, &gen); err != nil {
			return nil, errors.Wrap(err, errors.StorageFailed, "failed to decode generation")
		}
		gen.Seal()
		run.Generations = append(run.Generations, &gen)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to iterate generations")
	}

	return run, nil
}

// RunSummary is a listing row for stored runs.
type RunSummary struct {
	ID          string
	Name        string
	Status      core.RunStatus
	Generations int
}

// ListRuns returns summaries for all stored runs, most recently updated
// first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.status, COUNT(g.number)
		FROM runs r LEFT JOIN generations g ON g.run_id = r.id
		GROUP BY r.id ORDER BY r.updated_at DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to list runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		var status string
		if err := rows.Scan(&rs.ID, &rs.Name, &status, &rs.Generations); err != nil {
			return nil, errors.Wrap(err, errors.StorageFailed, "failed to scan run summary")
		}
		rs.Status = core.RunStatus(status)
		out = append(out, rs)
	}
	return out, rows.Err()
}

// PutBundle appends a DNA bundle. The table is write-once per candidate:
// re-putting the identical bundle is a no-op, while attempting to overwrite
// with different contents fails.
func (s *Store) PutBundle(ctx context.Context, runID string, b *core.DNABundle) error {
	existing, ok, err := s.GetBundle(ctx, b.CandidateID)
	if err != nil {
		return err
	}
	if ok {
		if existing.ProvenanceHash == b.ProvenanceHash {
			return nil
		}
		return errors.WithFields(
			errors.New(errors.StorageFailed, "bundle already exists with different contents"),
			errors.Fields{"candidate": b.CandidateID})
	}

	payload, err := json.Marshal(b)
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to encode bundle")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bundles (candidate_id, run_id, provenance_hash, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, b.CandidateID, runID, b.ProvenanceHash, payload, time.Now().UnixNano())
	if err != nil {
		return errors.Wrap(err, errors.StorageFailed, "failed to insert bundle")
	}
	return nil
}

// GetBundle reads the bundle for a candidate id.
func (s *Store) GetBundle(ctx context.Context, candidateID string) (*core.DNABundle, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM bundles WHERE candidate_id = ?
	`, candidateID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.StorageFailed, "failed to load bundle")
	}

	var b core.DNABundle
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, false, errors.Wrap(err, errors.StorageFailed, "failed to decode bundle")
	}
	return &b, true, nil
}

// BundlesForRun returns all bundles recorded for a run, ordered by candidate
// id.
func (s *Store) BundlesForRun(ctx context.Context, runID string) ([]*core.DNABundle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM bundles WHERE run_id = ? ORDER BY candidate_id ASC
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, errors.StorageFailed, "failed to query bundles")
	}
	defer rows.Close()

	var out []*core.DNABundle
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, errors.StorageFailed, "failed to scan bundle")
		}
		var b core.DNABundle
		if err := json.Unmarshal(payload, &b); err != nil {
			return nil, errors.Wrap(err, errors.StorageFailed, "failed to decode bundle")
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}
