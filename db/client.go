package db

import (
	"context"
	"fmt"

	"github.com/zeptools/pg-core/nullable"
	"github.com/zeptools/pg-core/pool"
)

// Client runs statements against a shared pool, acquiring one connection
// per top-level call. A single Client is safe for concurrent use; each
// concurrent operation runs on its own pooled connection.
type Client struct {
	pool pool.Pool
}

func New(p pool.Pool) *Client {
	return &Client{pool: p}
}

// Query acquires a connection, compiles and runs src on it, and releases
// the connection before the returned operation settles.
func (c *Client) Query(ctx context.Context, src Source) *Op[*pool.Result] {
	op, opCtx := newOp[*pool.Result](ctx)
	stack := callStack(1)
	go c.run(opCtx, op, src, stack)
	return op
}

// Rows resolves to every result row.
func (c *Client) Rows(ctx context.Context, src Source) *Op[[]pool.RowMap] {
	return shapeRows(c.Query(ctx, src))
}

// Row resolves to the first result row, nil when there are none. Zero rows
// is not an error, and no LIMIT is injected; bounding the result is the
// caller's job.
func (c *Client) Row(ctx context.Context, src Source) *Op[pool.RowMap] {
	return shapeRow(c.Query(ctx, src))
}

// Value resolves to the first column of the first row. The result is
// invalid when the query produced no rows, which is distinct from a row
// holding a SQL NULL.
func (c *Client) Value(ctx context.Context, src Source) *Op[nullable.Any] {
	return shapeValue(c.Query(ctx, src))
}

// Column resolves to the first column's value of every row.
func (c *Client) Column(ctx context.Context, src Source) *Op[[]any] {
	return shapeColumn(c.Query(ctx, src))
}

func (c *Client) run(ctx context.Context, op *Op[*pool.Result], src Source, stack string) {
	conn, release, err := c.pool.Acquire(ctx)
	if err != nil {
		op.settle(nil, fmt.Errorf("db: acquire connection: %w", err))
		return
	}
	if op.canceled.Load() {
		// The acquisition won the race against Cancel. The connection never
		// runs the statement; it goes straight back to the pool, and only
		// then does the operation settle.
		release(nil)
		op.settle(nil, ErrCanceled)
		return
	}
	res, err := execute(ctx, conn, src, stack)
	release(err)
	op.settle(res, err)
}

// execute compiles src against conn and runs it. Driver rejections come
// back as *SQLError; a canceled statement context comes back as ErrCanceled
// with the driver's report discarded.
func execute(ctx context.Context, conn pool.Conn, src Source, stack string) (*pool.Result, error) {
	stmt, err := src.Statement(ctx, conn)
	if err != nil {
		return nil, err
	}
	res, err := conn.Execute(ctx, stmt.SQL, stmt.Params)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCanceled
		}
		return nil, &SQLError{SQL: stmt.SQL, Params: stmt.Params, Stack: stack, Err: err}
	}
	return res, nil
}
