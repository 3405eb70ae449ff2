/*
Package db is a convenience layer over a pooled Postgres connection. You
hand it SQL, either as a plain string with $n placeholders or as an
interpolated sqlt query, and it compiles, executes and reshapes the result
for the common access patterns: all rows, first row, first scalar, first
column.

# Operations

Query, Rows, Row, Value and Column each acquire a pooled connection, run
one statement, release the connection, and settle a cancellable operation:

	op := client.Rows(ctx, db.SQL("SELECT id, name FROM users WHERE org = $1", org))
	rows, err := op.Wait()

Connection binds a Scope (the same five operations) to a single connection
for the duration of a work function. Transaction additionally brackets the
work with BEGIN/COMMIT, rolling back on failure:

	err := client.Transaction(ctx, func(tx *db.Scope) error {
		if _, err := tx.Query(ctx, db.SQL("DELETE FROM jobs WHERE id = $1", id)).Wait(); err != nil {
			return err
		}
		return nil
	})

# Cancellation

Every operation exposes Cancel. Cancel is idempotent, safe after
completion, and cooperative: an in-flight statement is terminated
backend-side on a best-effort basis, which stops the wait but does not
guarantee the statement's effects never happened. An operation never
settles as canceled before its connection has been returned to the pool.

# Failure recovery

Statement rejections surface as *SQLError with the SQL text, a parameter
dump and the issuing call site attached. A failed transaction rolls back
and returns the original error. If the rollback itself fails, the combined
*AbortError flags the connection for eviction: a connection whose rollback
failed is never handed back for reuse.
*/
package db
