package db

import "context"

// TxState tracks one transaction's progress through its protocol.
// Committed, RolledBack and AbortedConnection are terminal.
type TxState int

const (
	TxNotStarted TxState = iota
	TxInTransaction
	TxCommitted
	TxRolledBack
	TxAbortedConnection
)

func (s TxState) String() string {
	switch s {
	case TxNotStarted:
		return "not-started"
	case TxInTransaction:
		return "in-transaction"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled-back"
	case TxAbortedConnection:
		return "aborted-connection"
	default:
		return "unknown"
	}
}

// TxState reports the scope's transaction state. Outside Transaction it is
// always TxNotStarted.
func (s *Scope) TxState() TxState { return s.txState }

// Transaction acquires a connection, brackets work with BEGIN/COMMIT, and
// rolls back when work or COMMIT fails.
//
// A BEGIN failure propagates untouched; no rollback is attempted before a
// transaction has started. When rollback succeeds the original error is
// returned and the connection, still healthy, goes back to the pool. When
// rollback itself fails the two errors combine into an *AbortError, and the
// release step, seeing its eviction flag, removes the connection from the
// pool: its server-side state is indeterminate and reuse would corrupt the
// next borrower's session.
func (c *Client) Transaction(ctx context.Context, work func(*Scope) error) error {
	return c.Connection(ctx, func(s *Scope) error {
		if err := s.exec(ctx, "BEGIN"); err != nil {
			return err
		}
		s.txState = TxInTransaction

		err := work(s)
		if err == nil {
			if err = s.exec(ctx, "COMMIT"); err == nil {
				s.txState = TxCommitted
				return nil
			}
		}

		// Rollback must get its chance even when the failure above came
		// from a canceled context.
		if rbErr := s.exec(context.WithoutCancel(ctx), "ROLLBACK"); rbErr != nil {
			s.txState = TxAbortedConnection
			return &AbortError{Orig: err, Rollback: rbErr}
		}
		s.txState = TxRolledBack
		return err
	})
}
