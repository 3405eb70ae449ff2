package pgsql

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeptools/pg-core/pool"
)

// Conn is one acquired pgx connection. Cancellation of the statement
// context is turned by pgx into an out-of-band CancelRequest against this
// connection's backend, which is exactly the best-effort query termination
// the executor relies on.
type Conn struct {
	conn *pgxpool.Conn
}

// Ensure pgsql.Conn implements pool.Conn interface
var _ pool.Conn = (*Conn)(nil)

func (c *Conn) Execute(ctx context.Context, sql string, params []any) (*pool.Result, error) {
	rows, err := c.conn.Query(ctx, sql, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	res := &pool.Result{Columns: cols}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(pool.RowMap, len(cols))
		for i, col := range cols {
			row[col] = vals[i]
		}
		res.Rows = append(res.Rows, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tag := rows.CommandTag()
	if cmd, _, ok := strings.Cut(tag.String(), " "); ok {
		res.Command = cmd
	} else {
		res.Command = tag.String()
	}
	if len(res.Rows) > 0 {
		res.RowCount = len(res.Rows)
	} else {
		res.RowCount = int(tag.RowsAffected())
	}
	return res, nil
}

func (c *Conn) BackendPID() uint32 {
	return c.conn.Conn().PgConn().PID()
}
