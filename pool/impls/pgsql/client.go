package pgsql

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeptools/pg-core/conf"
	"github.com/zeptools/pg-core/pool"
)

// Pool adapts a pgxpool.Pool to the pool.Pool contract.
type Pool struct {
	Conf *conf.Conf
	pgx  *pgxpool.Pool
	dsn  string
}

// Ensure pgsql.Pool implements pool.Pool interface
var _ pool.Pool = (*Pool)(nil)

func (p *Pool) Init() error {
	p.dsn = p.Conf.BuildDSN()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Open(ctx); err != nil {
		return err
	}
	if err := p.pgx.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	log.Print("[INFO] pgsql pool initialized")
	return nil
}

func (p *Pool) Open(ctx context.Context) error {
	config, err := pgxpool.ParseConfig(p.dsn)
	if err != nil {
		return fmt.Errorf("failed to parse pgx config: %w", err)
	}
	config.MaxConns = p.Conf.MaxConns
	config.MinConns = p.Conf.MinConns
	config.MaxConnLifetime = p.Conf.MaxConnLifetime
	p.pgx, err = pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to connect pgx pool: %w", err)
	}
	return nil
}

func (p *Pool) Close() error {
	if p.pgx == nil {
		return nil
	}
	log.Println("[INFO] closing pgsql pool")
	p.pgx.Close()
	log.Println("[INFO] pgsql pool closed")
	return nil
}

func (p *Pool) GetDSN() string {
	return p.dsn
}

// Acquire hands out one connection. The release function inspects its
// error argument: an eviction-flagged error closes the underlying
// connection first, so the pool destroys it on release instead of
// returning it for reuse.
func (p *Pool) Acquire(ctx context.Context) (pool.Conn, pool.ReleaseFunc, error) {
	if p.pgx == nil {
		return nil, nil, fmt.Errorf("pgsql pool not initialized")
	}
	c, err := p.pgx.Acquire(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire connection failed: %w", err)
	}
	conn := &Conn{conn: c}
	release := func(err error) {
		if pool.IsAbort(err) {
			log.Printf("[WARN] evicting connection (backend pid %d): session state no longer trustworthy", conn.BackendPID())
			_ = c.Conn().Close(context.Background())
		}
		c.Release()
	}
	return conn, release, nil
}
