//go:build integration

package stdsql_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/pg-core/conf"
	"github.com/zeptools/pg-core/db"
	"github.com/zeptools/pg-core/pool/impls/stdsql"
	"github.com/zeptools/pg-core/sqlt"
)

// These run against a live Postgres configured via the PG* environment
// variables (or DATABASE_URL):
//
//	go test -tags integration ./pool/impls/stdsql

func newLiveClient(t *testing.T) *db.Client {
	t.Helper()
	cfg, err := conf.FromEnv()
	require.NoError(t, err)
	sqlDB, err := sql.Open("postgres", cfg.BuildDSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, sqlDB.PingContext(context.Background()))
	return db.New(stdsql.NewPool(sqlDB))
}

func TestLibpqValue(t *testing.T) {
	client := newLiveClient(t)
	v, err := client.Value(context.Background(), db.SQL("SELECT 1 + 1")).Wait()
	require.NoError(t, err)
	require.True(t, v.Valid)
	require.EqualValues(t, 2, v.Value)
}

// TestLibpqLiteralRoundTrip: feeding an escaped literal back through the
// engine yields the original string, for strings containing single quotes,
// backslashes, and both together.
func TestLibpqLiteralRoundTrip(t *testing.T) {
	client := newLiveClient(t)
	for _, s := range []string{
		"plain",
		"it's",
		`back\slash`,
		`it's a back\slash`,
		`\\''\`,
	} {
		q := sqlt.Build("SELECT {}", sqlt.Literal(s))
		v, err := client.Value(context.Background(), q).Wait()
		require.NoError(t, err, "round-tripping %q", s)
		require.True(t, v.Valid)
		require.Equal(t, s, v.Value, "round-tripping %q", s)
	}
}

// TestLibpqIdentifierRoundTrip: an escaped identifier used as an alias
// resolves to the original name verbatim, embedded double quotes included.
func TestLibpqIdentifierRoundTrip(t *testing.T) {
	client := newLiveClient(t)
	for _, name := range []string{"plain", "weird name", `has"quote`} {
		q := sqlt.Build("SELECT 1 AS {}", sqlt.Identifier(name))
		res, err := client.Query(context.Background(), q).Wait()
		require.NoError(t, err, "aliasing %q", name)
		require.Equal(t, []string{name}, res.Columns)
	}
}

func TestLibpqTransactionRoundTrip(t *testing.T) {
	client := newLiveClient(t)
	ctx := context.Background()

	err := client.Transaction(ctx, func(tx *db.Scope) error {
		v, err := tx.Value(ctx, db.SQL("SELECT count(*) FROM pg_catalog.pg_class")).Wait()
		if err != nil {
			return err
		}
		require.True(t, v.Valid)
		return nil
	})
	require.NoError(t, err)
}
