package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/datakit-cli/internal/frame"
)

func readSQLite(ctx context.Context, path string, opt Options) (*frame.Frame, error) {
	// sql.Open would create a missing database file.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	table := opt.SQLiteTable
	if table == "" {
		if table, err = firstUserTable(ctx, db); err != nil {
			return nil, err
		}
	}
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return nil, fmt.Errorf("query table %q: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	values := make([][]any, len(names))
	dest := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for j, v := range dest {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			values[j] = append(values[j], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return frame.FromColumns(names, values)
}

func firstUserTable(ctx context.Context, db *sql.DB) (string, error) {
	const q = `SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name LIMIT 1`
	var name string
	if err := db.QueryRowContext(ctx, q).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("no user tables found")
		}
		return "", fmt.Errorf("list tables: %w", err)
	}
	return name, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
