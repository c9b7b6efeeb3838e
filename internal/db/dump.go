package db

import (
	"context"
	"database/sql"
	"fmt"
)

// backupTables is the allowlist for JSON snapshots; the table name is
// interpolated into SQL and must never come from a caller.
var backupTables = map[string]bool{
	"users":        true,
	"schools":      true,
	"classrooms":   true,
	"progress":     true,
	"certificates": true,
}

// DumpCollectionJSON returns the whole table as one JSON array, rows in id
// order.
func DumpCollectionJSON(ctx context.Context, database *sql.DB, table string) ([]byte, error) {
	if !backupTables[table] {
		return nil, fmt.Errorf("table %q is not backed up", table)
	}
	var out []byte
	err := database.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT COALESCE(json_agg(row_to_json(t) ORDER BY t.id), '[]'::json)::text FROM %s t`, table,
	)).Scan(&out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
