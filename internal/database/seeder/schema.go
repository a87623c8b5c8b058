package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"skilllink/internal/database"
)

// tableColumns maps a table name to the columns a seeder writes.
type tableColumns map[string][]string

// requireColumns fails when any listed column is absent from the public
// schema, which usually means migrations have not run yet.
func requireColumns(ctx context.Context, db database.DB, want tableColumns) error {
	if db == nil {
		return database.ErrNilDB
	}
	if len(want) == 0 {
		return nil
	}

	tables := make([]string, 0, len(want))
	for t, cols := range want {
		if t == "" || len(cols) == 0 {
			return errors.New("seeder: empty table or column list")
		}
		tables = append(tables, t)
	}
	sort.Strings(tables)

	rows, err := db.Query(ctx, `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = ANY($1)`,
		tables,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	have := make(map[string]bool)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return err
		}
		have[table+"."+column] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return missingColumns(tables, want, have)
}

func missingColumns(tables []string, want tableColumns, have map[string]bool) error {
	var missing []string
	for _, t := range tables {
		for _, c := range want[t] {
			if !have[t+"."+c] {
				missing = append(missing, t+"."+c)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch: missing %s", strings.Join(missing, ", "))
	}
	return nil
}
