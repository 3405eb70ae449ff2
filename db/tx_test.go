package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeptools/pg-core/pool"
)

func TestTransactionCommit(t *testing.T) {
	conn := &fakeConn{}
	p := newFakePool(conn)
	c := New(p)

	var scope *Scope
	err := c.Transaction(context.Background(), func(s *Scope) error {
		scope = s
		_, err := s.Query(context.Background(), SQL("INSERT INTO t VALUES ($1)", 4)).Wait()
		return err
	})
	require.NoError(t, err)
	require.Equal(t, []string{"BEGIN", "INSERT INTO t VALUES ($1)", "COMMIT"}, conn.calls())
	require.Equal(t, TxCommitted, scope.TxState())

	_, releases, evictions, live := p.counts()
	require.Equal(t, 1, releases)
	require.Zero(t, evictions)
	require.Equal(t, 1, live)
}

func TestTransactionRollsBackOnWorkError(t *testing.T) {
	conn := &fakeConn{}
	p := newFakePool(conn)
	c := New(p)

	wantErr := errors.New("constraint violated")
	var scope *Scope
	err := c.Transaction(context.Background(), func(s *Scope) error {
		scope = s
		return wantErr
	})

	// The original error comes back untouched after a successful rollback.
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, []string{"BEGIN", "ROLLBACK"}, conn.calls())
	require.Equal(t, TxRolledBack, scope.TxState())

	// The connection is still healthy: returned, not evicted.
	_, releases, evictions, live := p.counts()
	require.Equal(t, 1, releases)
	require.Zero(t, evictions)
	require.Equal(t, 1, live)
}

func TestTransactionRollsBackOnCommitFailure(t *testing.T) {
	commitErr := errors.New("could not serialize access")
	conn := &fakeConn{fail: map[string]error{"COMMIT": commitErr}}
	c := New(newFakePool(conn))

	err := c.Transaction(context.Background(), func(*Scope) error { return nil })
	require.ErrorIs(t, err, commitErr)
	require.Equal(t, []string{"BEGIN", "COMMIT", "ROLLBACK"}, conn.calls())
}

func TestTransactionBeginFailurePropagatesWithoutRollback(t *testing.T) {
	beginErr := errors.New("server shutting down")
	conn := &fakeConn{fail: map[string]error{"BEGIN": beginErr}}
	p := newFakePool(conn)
	c := New(p)

	invoked := false
	var scope *Scope
	err := c.Transaction(context.Background(), func(s *Scope) error {
		invoked = true
		scope = s
		return nil
	})
	require.ErrorIs(t, err, beginErr)
	require.False(t, invoked, "work must not run when BEGIN fails")
	require.Nil(t, scope)
	// Never roll back a transaction that was never started.
	require.Equal(t, []string{"BEGIN"}, conn.calls())

	_, releases, evictions, _ := p.counts()
	require.Equal(t, 1, releases)
	require.Zero(t, evictions)
}

func TestTransactionRollbackFailureEvictsConnection(t *testing.T) {
	workErr := errors.New("original failure")
	rollbackErr := errors.New("connection reset by peer")
	conn := &fakeConn{fail: map[string]error{"ROLLBACK": rollbackErr}}
	p := newFakePool(conn)
	c := New(p)

	var scope *Scope
	err := c.Transaction(context.Background(), func(s *Scope) error {
		scope = s
		return workErr
	})

	var abort *AbortError
	require.ErrorAs(t, err, &abort)
	require.True(t, abort.AbortConnection())
	require.True(t, pool.IsAbort(err))
	require.ErrorIs(t, err, workErr)
	require.Contains(t, err.Error(), workErr.Error())
	require.Contains(t, err.Error(), rollbackErr.Error())
	require.Equal(t, TxAbortedConnection, scope.TxState())

	// The pool lost exactly one live connection.
	_, releases, evictions, live := p.counts()
	require.Zero(t, releases)
	require.Equal(t, 1, evictions)
	require.Zero(t, live)
}

func TestConnectionEvictsOnWorkPanic(t *testing.T) {
	p := newFakePool(&fakeConn{})
	c := New(p)

	require.Panics(t, func() {
		_ = c.Connection(context.Background(), func(*Scope) error {
			panic("boom")
		})
	})

	// The panic may have unwound past anything; the connection must not
	// be handed back for reuse.
	_, releases, evictions, live := p.counts()
	require.Zero(t, releases)
	require.Equal(t, 1, evictions)
	require.Zero(t, live)
}

func TestTransactionEvictsOnWorkPanic(t *testing.T) {
	conn := &fakeConn{}
	p := newFakePool(conn)
	c := New(p)

	require.Panics(t, func() {
		_ = c.Transaction(context.Background(), func(*Scope) error {
			panic("boom")
		})
	})

	// The transaction was left open on the wire; eviction, not reuse.
	require.Equal(t, []string{"BEGIN"}, conn.calls())
	_, releases, evictions, live := p.counts()
	require.Zero(t, releases)
	require.Equal(t, 1, evictions)
	require.Zero(t, live)
}

func TestTransactionStateOutsideTransaction(t *testing.T) {
	c := New(newFakePool(&fakeConn{}))
	err := c.Connection(context.Background(), func(s *Scope) error {
		require.Equal(t, TxNotStarted, s.TxState())
		return nil
	})
	require.NoError(t, err)
}

func TestTxStateString(t *testing.T) {
	require.Equal(t, "in-transaction", TxInTransaction.String())
	require.Equal(t, "aborted-connection", TxAbortedConnection.String())
	require.Equal(t, "unknown", TxState(99).String())
}
