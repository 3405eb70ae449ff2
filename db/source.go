package db

import (
	"context"

	"github.com/zeptools/pg-core/pool"
	"github.com/zeptools/pg-core/sqlt"
)

// Source is anything that can produce an executable statement: the plain
// string form built by SQL, or an interpolated *sqlt.Query.
type Source interface {
	Statement(ctx context.Context, conn pool.Conn) (sqlt.Statement, error)
}

var _ Source = (*sqlt.Query)(nil)

// SQL is the plain form: text already carrying $n placeholders, plus the
// positional parameters they refer to.
func SQL(text string, params ...any) Source {
	return rawSource{text: text, params: params}
}

type rawSource struct {
	text   string
	params []any
}

func (s rawSource) Statement(context.Context, pool.Conn) (sqlt.Statement, error) {
	return sqlt.Statement{SQL: s.text, Params: s.params}, nil
}
