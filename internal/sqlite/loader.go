package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// loadAllJSONL reads each table's JSONL file and inserts its rows.
// Loading is transactional: all tables load or the database stays empty.
// Malformed lines and rows without an id are skipped; unknown top-level
// fields are ignored.
func loadAllJSONL(db *sql.DB, dataDir string, tables []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range tables {
		records, err := readJSONL(jsonlPath(dataDir, table))
		if err != nil {
			return fmt.Errorf("reading %s: %w", table, err)
		}
		if err := insertRecords(tx, table, records); err != nil {
			return fmt.Errorf("loading %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL rows into a table. Duplicate ids keep
// the last row, so a file edited by hand still loads.
func insertRecords(tx *sql.Tx, table string, records []json.RawMessage) error {
	if len(records) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (id, payload, created_at, updated_at) VALUES (?, ?, ?, ?)", table))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var row jsonlRow
		if err := json.Unmarshal(rec, &row); err != nil {
			continue
		}
		if row.ID == "" || len(row.Payload) == 0 || !json.Valid(row.Payload) {
			continue
		}
		if _, err := stmt.Exec(row.ID, string(row.Payload), row.CreatedAt, row.UpdatedAt); err != nil {
			return fmt.Errorf("inserting %s: %w", row.ID, err)
		}
	}
	return nil
}
