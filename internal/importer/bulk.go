package importer

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// maxSQLParams caps the bound parameters per statement, comfortably under
// SQLite's default limit.
const maxSQLParams = 800

// patchChunk caps the rows per batched CASE update.
const patchChunk = 500

// bulkInsert writes rows with multi-row INSERT statements, chunked so that
// columns x rows stays under maxSQLParams.
func bulkInsert(tx *sqlx.Tx, table string, columns []string, rows [][]any) error {
	return bulkUpsert(tx, table, columns, "", rows)
}

// bulkUpsert is bulkInsert with an optional ON CONFLICT clause.
func bulkUpsert(tx *sqlx.Tx, table string, columns []string, conflict string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	chunkRows := maxSQLParams / len(columns)
	if chunkRows < 1 {
		chunkRows = 1
	}

	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))

	for start := 0; start < len(rows); start += chunkRows {
		end := start + chunkRows
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		var sb strings.Builder
		sb.WriteString(prefix)
		for i := range chunk {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(placeholder)
		}
		if conflict != "" {
			sb.WriteByte(' ')
			sb.WriteString(conflict)
		}

		args := make([]any, 0, len(chunk)*len(columns))
		for _, row := range chunk {
			if len(row) != len(columns) {
				return fmt.Errorf("%s: row has %d values, want %d", table, len(row), len(columns))
			}
			args = append(args, row...)
		}

		if _, err := tx.Exec(sb.String(), args...); err != nil {
			return fmt.Errorf("bulk insert %s: %w", table, err)
		}
	}
	return nil
}

// patchByCase updates one column for many rows using batched CASE
// expressions, patchChunk keys per statement.
func patchByCase(tx *sqlx.Tx, table, keyCol, setCol string, matchID int64, updates map[int64]int64) error {
	if len(updates) == 0 {
		return nil
	}

	keys := make([]int64, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}

	for start := 0; start < len(keys); start += patchChunk {
		end := start + patchChunk
		if end > len(keys) {
			end = len(keys)
		}
		chunk := keys[start:end]

		var sb strings.Builder
		args := make([]any, 0, len(chunk)*3+1)

		fmt.Fprintf(&sb, "UPDATE %s SET %s = CASE %s", table, setCol, keyCol)
		for _, k := range chunk {
			sb.WriteString(" WHEN ? THEN ?")
			args = append(args, k, updates[k])
		}
		fmt.Fprintf(&sb, " END WHERE match_id = ? AND %s IN (%s)",
			keyCol, strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ","))
		args = append(args, matchID)
		for _, k := range chunk {
			args = append(args, k)
		}

		if _, err := tx.Exec(sb.String(), args...); err != nil {
			return fmt.Errorf("patch %s.%s: %w", table, setCol, err)
		}
	}
	return nil
}
