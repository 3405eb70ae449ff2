package pool

import (
	"context"
	"errors"
)

// RowMap is one decoded result row, column name to value.
type RowMap = map[string]any

// Result is what a single statement execution produces.
// Columns preserves the result-set column order; Rows are keyed by
// column name. For statements that return no rows, RowCount reflects
// the driver-reported affected-row count.
type Result struct {
	Command  string
	RowCount int
	Columns  []string
	Rows     []RowMap
}

// ReleaseFunc returns an acquired connection to its pool. Passing nil
// returns it for reuse; passing an eviction-flagged error (see IsAbort)
// removes it from the pool instead. Must be called exactly once per
// acquisition.
type ReleaseFunc func(err error)

// Conn is one exclusively-owned pooled connection.
type Conn interface {
	Execute(ctx context.Context, sql string, params []any) (*Result, error)
	// BackendPID identifies the server-side process, 0 when the driver
	// does not expose it.
	BackendPID() uint32
}

// Pool hands out connections, one owner at a time.
type Pool interface {
	Acquire(ctx context.Context) (Conn, ReleaseFunc, error)
}

// aborter is implemented by errors that poison their connection.
type aborter interface {
	AbortConnection() bool
}

// IsAbort reports whether err (or anything it wraps) marks the connection
// as unusable, demanding eviction instead of reuse.
func IsAbort(err error) bool {
	var a aborter
	return errors.As(err, &a) && a.AbortConnection()
}
