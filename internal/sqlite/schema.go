package sqlite

import "fmt"

// createRecordTable is the DDL shared by every entity table. The payload
// column holds the entity JSON; created_at and updated_at are RFC 3339.
const createRecordTable = `CREATE TABLE %s (
    id TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

const createCreatedIndex = `CREATE INDEX idx_%s_created ON %s(created_at);`

// schemaDDL returns the CREATE statements for the given tables.
func schemaDDL(tables []string) []string {
	ddl := make([]string, 0, 2*len(tables))
	for _, name := range tables {
		ddl = append(ddl,
			fmt.Sprintf(createRecordTable, name),
			fmt.Sprintf(createCreatedIndex, name, name))
	}
	return ddl
}
