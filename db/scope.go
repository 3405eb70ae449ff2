package db

import (
	"context"
	"fmt"

	"github.com/zeptools/pg-core/nullable"
	"github.com/zeptools/pg-core/pool"
)

// Scope is the per-connection interface handed to Connection and
// Transaction work functions: the same five operations as Client, each
// bound to one fixed pooled connection. Its lifetime is bounded by the
// enclosing call; do not retain it.
//
// Queries within a scope must be awaited sequentially by the caller - one
// statement in flight per connection at a time.
type Scope struct {
	conn    pool.Conn
	txState TxState
}

// Query compiles and runs src on the scope's connection.
func (s *Scope) Query(ctx context.Context, src Source) *Op[*pool.Result] {
	op, opCtx := newOp[*pool.Result](ctx)
	stack := callStack(1)
	go func() {
		res, err := execute(opCtx, s.conn, src, stack)
		op.settle(res, err)
	}()
	return op
}

// Rows resolves to every result row.
func (s *Scope) Rows(ctx context.Context, src Source) *Op[[]pool.RowMap] {
	return shapeRows(s.Query(ctx, src))
}

// Row resolves to the first result row, nil when there are none.
func (s *Scope) Row(ctx context.Context, src Source) *Op[pool.RowMap] {
	return shapeRow(s.Query(ctx, src))
}

// Value resolves to the first column of the first row, invalid when the
// query produced no rows.
func (s *Scope) Value(ctx context.Context, src Source) *Op[nullable.Any] {
	return shapeValue(s.Query(ctx, src))
}

// Column resolves to the first column's value of every row.
func (s *Scope) Column(ctx context.Context, src Source) *Op[[]any] {
	return shapeColumn(s.Query(ctx, src))
}

// exec runs one statement synchronously. Used for the transaction bracket
// statements, which are not cancellable on their own.
func (s *Scope) exec(ctx context.Context, text string) error {
	_, err := execute(ctx, s.conn, SQL(text), callStack(1))
	return err
}

// Connection acquires one pooled connection, binds a Scope to it, and
// invokes work. The connection is released back to the pool on every exit
// path; an eviction-flagged error from work evicts it instead. The work's
// result or error propagates unchanged. The call as a whole is not
// cancellable; only the individual statements inside it are.
//
// A panic in work propagates, but the connection is evicted rather than
// released: the panic may have unwound past an open transaction or a
// half-finished protocol exchange, so its session state cannot be trusted.
func (c *Client) Connection(ctx context.Context, work func(*Scope) error) error {
	conn, release, err := c.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("db: acquire connection: %w", err)
	}
	var werr error
	completed := false
	defer func() {
		if !completed {
			release(&workPanicError{})
			return
		}
		release(werr)
	}()
	werr = work(&Scope{conn: conn})
	completed = true
	return werr
}
