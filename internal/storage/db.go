package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"leadtimes/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS publish_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  store TEXT NOT NULL,
  status TEXT NOT NULL,
  stage TEXT,
  detail TEXT,
  artifactsJson TEXT NOT NULL,
  warningsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_publish_runs_store ON publish_runs(store);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertPublishRun(store, status, stage, detail string, artifacts, warnings []string) error {
	artifactsJSON, _ := json.Marshal(artifacts)
	warningsJSON, _ := json.Marshal(warnings)
	_, err := d.conn.Exec(`
INSERT INTO publish_runs (store, status, stage, detail, artifactsJson, warningsJson)
VALUES (?, ?, ?, ?, ?, ?)
`, store, status, stage, detail, string(artifactsJSON), string(warningsJSON))
	return err
}

func (d *DB) ListPublishRuns(limit int) ([]internal.PublishRunRow, error) {
	rows, err := d.conn.Query(`
SELECT id, store, status, stage, detail, artifactsJson, warningsJson, createdAt
FROM publish_runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.PublishRunRow
	for rows.Next() {
		var row internal.PublishRunRow
		var artifactsJSON, warningsJSON string
		if err := rows.Scan(&row.ID, &row.Store, &row.Status, &row.Stage, &row.Detail, &artifactsJSON, &warningsJSON, &row.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(artifactsJSON), &row.Artifacts)
		_ = json.Unmarshal([]byte(warningsJSON), &row.Warnings)
		out = append(out, row)
	}
	return out, rows.Err()
}
