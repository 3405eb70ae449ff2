// Package stdsql adapts a database/sql pool to the pool.Pool contract.
// It works with any Postgres driver registered on database/sql; lib/pq is
// the one this module documents and tests:
//
//	sqlDB, err := sql.Open("postgres", cfg.BuildDSN())
//	p := stdsql.NewPool(sqlDB)
package stdsql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log"

	"github.com/zeptools/pg-core/pool"
)

type Pool struct {
	db *sql.DB
}

// Ensure stdsql.Pool implements pool.Pool interface
var _ pool.Pool = (*Pool)(nil)

func NewPool(db *sql.DB) *Pool {
	return &Pool{db: db}
}

func (p *Pool) Close() error {
	log.Println("[INFO] closing stdsql pool")
	return p.db.Close()
}

// Stats exposes the underlying pool counters, mainly so callers can observe
// eviction (OpenConnections drops after an aborted release).
func (p *Pool) Stats() sql.DBStats {
	return p.db.Stats()
}

// Acquire pins one connection out of the database/sql pool. The release
// function inspects its error argument: an eviction-flagged error marks the
// underlying driver connection bad before closing, so database/sql discards
// it instead of pooling it.
func (p *Pool) Acquire(ctx context.Context) (pool.Conn, pool.ReleaseFunc, error) {
	c, err := p.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire connection failed: %w", err)
	}
	conn := &Conn{conn: c}
	release := func(err error) {
		if pool.IsAbort(err) {
			log.Print("[WARN] evicting connection: session state no longer trustworthy")
			// Raw surfacing driver.ErrBadConn permanently marks the
			// connection bad; Close then discards it.
			_ = c.Raw(func(any) error { return driver.ErrBadConn })
		}
		if cerr := c.Close(); cerr != nil && !errors.Is(cerr, driver.ErrBadConn) && !errors.Is(cerr, sql.ErrConnDone) {
			log.Printf("[WARN] failed to close connection: %v", cerr)
		}
	}
	return conn, release, nil
}
