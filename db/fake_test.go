package db

import (
	"context"
	"sync"

	"github.com/zeptools/pg-core/pool"
)

// fakeConn scripts statement outcomes by exact SQL text and records every
// statement it runs.
type fakeConn struct {
	mu        sync.Mutex
	log       []string
	fail      map[string]error
	results   map[string]*pool.Result
	block     chan struct{} // when set, Execute stalls until closed or ctx done
	started   chan struct{} // when set, closed as the first statement begins
	startOnce sync.Once
}

func (c *fakeConn) Execute(ctx context.Context, sql string, params []any) (*pool.Result, error) {
	c.mu.Lock()
	c.log = append(c.log, sql)
	blk := c.block
	c.mu.Unlock()
	if c.started != nil {
		c.startOnce.Do(func() { close(c.started) })
	}
	if blk != nil {
		select {
		case <-blk:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := c.fail[sql]; ok {
		return nil, err
	}
	if res, ok := c.results[sql]; ok {
		return res, nil
	}
	return &pool.Result{Command: "SELECT"}, nil
}

func (c *fakeConn) BackendPID() uint32 { return 4242 }

func (c *fakeConn) calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.log...)
}

// fakePool hands out a single fakeConn and counts the release-or-evict
// outcomes. live models the pool's live-connection count.
type fakePool struct {
	mu        sync.Mutex
	conn      *fakeConn
	gate      chan struct{} // when set, Acquire stalls until closed; ctx is ignored
	live      int
	acquires  int
	releases  int
	evictions int
}

func newFakePool(conn *fakeConn) *fakePool {
	return &fakePool{conn: conn, live: 1}
}

func (p *fakePool) Acquire(ctx context.Context) (pool.Conn, pool.ReleaseFunc, error) {
	if p.gate != nil {
		<-p.gate
	} else if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	p.mu.Lock()
	p.acquires++
	p.mu.Unlock()
	release := func(err error) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if pool.IsAbort(err) {
			p.evictions++
			p.live--
			return
		}
		p.releases++
	}
	return p.conn, release, nil
}

func (p *fakePool) counts() (acquires, releases, evictions, live int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquires, p.releases, p.evictions, p.live
}
