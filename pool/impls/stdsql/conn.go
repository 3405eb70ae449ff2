package stdsql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/zeptools/pg-core/pool"
)

// Conn is one pinned database/sql connection. Statements run through
// QueryContext so result rows are always available; DML without RETURNING
// reports a zero RowCount here, which is a limitation of issuing
// everything through the query path. database/sql exposes no command tag
// either, so Result.Command is derived from the statement's leading
// keyword.
type Conn struct {
	conn *sql.Conn
}

// Ensure stdsql.Conn implements pool.Conn interface
var _ pool.Conn = (*Conn)(nil)

func (c *Conn) Execute(ctx context.Context, query string, params []any) (*pool.Result, error) {
	rows, err := c.conn.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	res := &pool.Result{Command: commandWord(query), Columns: cols}

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(pool.RowMap, len(cols))
		for i, col := range cols {
			row[col] = vals[i]
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	res.RowCount = len(res.Rows)
	return res, nil
}

// BackendPID is unknown through database/sql.
func (c *Conn) BackendPID() uint32 { return 0 }

// commandWord is the statement's leading keyword, uppercased: a best-effort
// stand-in for the server command tag.
func commandWord(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
