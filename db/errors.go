package db

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrCanceled settles an operation terminated by its caller. It never wraps
// a driver message; a canceled statement's late result or error is discarded.
var ErrCanceled = errors.New("db: operation canceled")

// SQLError is a statement rejected by the backend. It carries everything
// needed to debug the failure without re-running the query: the SQL text,
// a per-parameter dump, the driver error, and the call-site stack captured
// when the statement was issued. The connection itself remains usable.
type SQLError struct {
	SQL    string
	Params []any
	Stack  string
	Err    error
}

func (e *SQLError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "db: statement failed: %v\nsql: %s", e.Err, e.SQL)
	if len(e.Params) > 0 {
		sb.WriteString("\nparams:")
		for i, p := range e.Params {
			fmt.Fprintf(&sb, "\n  %d: %T %v", i+1, p, p)
		}
	}
	return sb.String()
}

func (e *SQLError) Unwrap() error { return e.Err }

// AbortError is the rollback-failure composite: the original statement
// error plus the error from the ROLLBACK that was supposed to recover from
// it. A connection in this state is indeterminate server-side and must be
// evicted from the pool, never reused.
type AbortError struct {
	Orig     error
	Rollback error
}

func (e *AbortError) Error() string {
	var sb strings.Builder
	sb.WriteString("db: rollback failed after transaction error; connection aborted")
	sb.WriteString("\noriginal: ")
	sb.WriteString(e.Orig.Error())
	appendStack(&sb, e.Orig)
	sb.WriteString("\nrollback: ")
	sb.WriteString(e.Rollback.Error())
	appendStack(&sb, e.Rollback)
	return sb.String()
}

func (e *AbortError) Unwrap() error { return e.Orig }

// AbortConnection marks the error for pool eviction (see pool.IsAbort).
func (e *AbortError) AbortConnection() bool { return true }

// workPanicError flags a connection for eviction when a work function
// panicked out of its scope, possibly leaving a transaction open on the
// connection.
type workPanicError struct{}

func (*workPanicError) Error() string {
	return "db: work function panicked; connection aborted"
}

// AbortConnection marks the error for pool eviction (see pool.IsAbort).
func (*workPanicError) AbortConnection() bool { return true }

func appendStack(sb *strings.Builder, err error) {
	var se *SQLError
	if errors.As(err, &se) && se.Stack != "" {
		sb.WriteString("\n")
		sb.WriteString(se.Stack)
	}
}

// callStack snapshots the caller's stack for diagnostic attachment.
// skip counts frames above the caller of callStack itself.
func callStack(skip int) string {
	pc := make([]uintptr, 32)
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pc[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
