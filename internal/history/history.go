// Package history stores past optimization runs in a local SQLite database
// so results can be listed, inspected, and compared later.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/digitalworkshop/cutlist/internal/model"
)

// ErrNotFound is returned when a run ID does not exist in the store.
var ErrNotFound = errors.New("history entry not found")

// Entry is one recorded optimization run.
type Entry struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ProjectName   string    `json:"project_name"`
	Strategy      string    `json:"strategy"`
	PieceCount    int       `json:"piece_count"`
	StockUsed     int       `json:"stock_used"`
	Utilization   float64   `json:"utilization"`
	UnplacedCount int       `json:"unplaced_count"`
	TotalCost     float64   `json:"total_cost"`
	ResultJSON    string    `json:"-"`
}

// Result decodes the stored optimization result.
func (e Entry) Result() (model.OptimizationResult, error) {
	var result model.OptimizationResult
	if err := json.Unmarshal([]byte(e.ResultJSON), &result); err != nil {
		return model.OptimizationResult{}, fmt.Errorf("decode stored result: %w", err)
	}
	return result, nil
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    project_name TEXT NOT NULL,
    strategy TEXT NOT NULL,
    piece_count INTEGER NOT NULL,
    stock_used INTEGER NOT NULL,
    utilization REAL NOT NULL,
    unplaced_count INTEGER NOT NULL,
    total_cost REAL NOT NULL,
    result_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);`

// Store provides access to the run history database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default history database location,
// ~/.cutlist/history.db.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cutlist", "history.db")
}

// Open opens (or creates) the history database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection. Close is idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Record stores an optimization run and returns its generated ID.
func (s *Store) Record(projectName string, settings model.Settings, result model.OptimizationResult) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}

	id := uuid.New().String()[:8]
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err = s.db.Exec(
		`INSERT INTO runs (run_id, created_at, project_name, strategy, piece_count,
		    stock_used, utilization, unplaced_count, total_cost, result_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, createdAt, projectName, string(settings.Strategy), result.PlacedCount()+len(result.Unplaced),
		result.BoardCount(), result.Utilization(), len(result.Unplaced), result.TotalCost(), string(resultJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first, up to limit.
// A limit of 0 or less returns all runs.
func (s *Store) List(limit int) ([]Entry, error) {
	query := `SELECT run_id, created_at, project_name, strategy, piece_count,
	    stock_used, utilization, unplaced_count, total_cost
	    FROM runs ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &createdAt, &e.ProjectName, &e.Strategy, &e.PieceCount,
			&e.StockUsed, &e.Utilization, &e.UnplacedCount, &e.TotalCost); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns a single run including its full stored result.
func (s *Store) Get(id string) (Entry, error) {
	var e Entry
	var createdAt string
	err := s.db.QueryRow(
		`SELECT run_id, created_at, project_name, strategy, piece_count,
		    stock_used, utilization, unplaced_count, total_cost, result_json
		 FROM runs WHERE run_id = ?`, id,
	).Scan(&e.ID, &createdAt, &e.ProjectName, &e.Strategy, &e.PieceCount,
		&e.StockUsed, &e.Utilization, &e.UnplacedCount, &e.TotalCost, &e.ResultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("query run: %w", err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// Prune deletes all but the newest keep runs. Returns the number removed.
func (s *Store) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.Exec(
		`DELETE FROM runs WHERE run_id NOT IN (
		    SELECT run_id FROM runs ORDER BY created_at DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
