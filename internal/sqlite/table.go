package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// Table implements types.Table for one entity type.
type Table struct {
	name    string   // Table name (e.g. "invoices").
	backend *Backend // Parent backend for DB access and JSONL writes.
}

func newTable(b *Backend, name string) *Table {
	return &Table{name: name, backend: b}
}

// timestampLayout is fixed width so that created_at sorts as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// tempIDPrefix marks optimistic client IDs that must be replaced on create.
const tempIDPrefix = "tmp-"

// filterKeyPattern restricts Fetch filter keys to JSON field names.
var filterKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Get retrieves an entity by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (t *Table) Get(id string) (types.Record, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrCupboardDetached
	}
	return t.getLocked(id)
}

func (t *Table) getLocked(id string) (types.Record, error) {
	var payload string
	err := t.backend.db.QueryRow(
		fmt.Sprintf("SELECT payload FROM %s WHERE id = ?", t.name), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.name, err)
	}
	return decodeEntity(t.name, []byte(payload))
}

// Set creates or updates an entity. An empty id falls back to the entity's
// own ID; an empty or temporary ID creates a new entity with a UUID v7.
// Returns ErrInvalidData if data does not belong to this table.
func (t *Table) Set(id string, data types.Record) (string, error) {
	if data == nil {
		return "", types.ErrInvalidData
	}
	if name, ok := tableFor(data); !ok || name != t.name {
		return "", types.ErrInvalidData
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return "", types.ErrCupboardDetached
	}

	id, err := t.upsertLocked(id, data)
	if err != nil {
		return "", err
	}
	if err := t.persistJSONLLocked(); err != nil {
		return "", err
	}
	return id, nil
}

// upsertLocked writes one entity without touching the JSONL file.
func (t *Table) upsertLocked(id string, data types.Record) (string, error) {
	if id == "" {
		id = data.RecordID()
	}
	if id == "" || strings.HasPrefix(id, tempIDPrefix) {
		id = generateUUID()
	}
	data = withID(data, id)

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshaling %s: %w", t.name, err)
	}

	now := t.backend.now().UTC().Format(timestampLayout)
	_, err = t.backend.db.Exec(fmt.Sprintf(`
		INSERT INTO %s (id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`, t.name),
		id, string(payload), now, now)
	if err != nil {
		return "", fmt.Errorf("upserting %s: %w", t.name, err)
	}
	return id, nil
}

// Delete removes an entity by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (t *Table) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.ErrCupboardDetached
	}

	res, err := t.backend.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name), id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s: %w", t.name, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return t.persistJSONLLocked()
}

// Fetch returns entities matching the filter, newest first. "limit" and
// "offset" page the result; every other key is an equality match on the
// entity's JSON field of that name.
func (t *Table) Fetch(filter map[string]any) ([]types.Record, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrCupboardDetached
	}

	query := fmt.Sprintf("SELECT payload FROM %s", t.name)
	var conditions []string
	var args []any
	limit, offset := 0, 0

	for key, value := range filter {
		switch key {
		case "limit", "offset":
			n, ok := toInt(value)
			if !ok || n < 0 {
				return nil, types.ErrInvalidFilter
			}
			if key == "limit" {
				limit = n
			} else {
				offset = n
			}
			continue
		}
		if !filterKeyPattern.MatchString(key) {
			return nil, fmt.Errorf("filter key %q: %w", key, types.ErrInvalidFilter)
		}
		switch value.(type) {
		case string, bool, int, int64, float64:
		default:
			return nil, fmt.Errorf("filter %q: %w", key, types.ErrInvalidFilter)
		}
		conditions = append(conditions, fmt.Sprintf("json_extract(payload, '$.%s') = ?", key))
		args = append(args, value)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", offset)
		}
	} else if offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", offset)
	}

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.name, err)
	}
	defer rows.Close()

	var out []types.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", t.name, err)
		}
		rec, err := decodeEntity(t.name, []byte(payload))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// persistJSONLLocked rewrites the table's JSONL file from SQLite in
// insertion order.
func (t *Table) persistJSONLLocked() error {
	rows, err := t.backend.db.Query(fmt.Sprintf(
		"SELECT id, payload, created_at, updated_at FROM %s ORDER BY rowid", t.name))
	if err != nil {
		return fmt.Errorf("reading %s for JSONL: %w", t.name, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var row jsonlRow
		var payload string
		if err := rows.Scan(&row.ID, &payload, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return fmt.Errorf("scanning %s for JSONL: %w", t.name, err)
		}
		row.Payload = json.RawMessage(payload)
		line, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshaling %s JSONL row: %w", t.name, err)
		}
		records = append(records, line)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(jsonlPath(t.backend.config.DataDir, t.name), records)
}

// toInt converts a filter value to int. JSON numbers arrive as float64.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
