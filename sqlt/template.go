package sqlt

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/zeptools/pg-core/pool"
)

// ErrMalformedTemplate - an interpolated query needs exactly one more
// literal segment than it has values.
var ErrMalformedTemplate = errors.New("sqlt: segment count must be value count plus one")

// Statement is executable SQL plus its positional parameters. Every $n
// placeholder in SQL corresponds to Params[n-1]; numbers are allocated in
// strictly increasing order of first appearance and never reused.
type Statement struct {
	SQL    string
	Params []any
}

// Query is an uncompiled interpolated statement: literal text segments
// interleaved with values, final SQL being
// segments[0] values[0] segments[1] ... values[n-1] segments[n].
// Immutable once constructed.
type Query struct {
	segments []string
	values   []any
	err      error
}

// New builds a Query from explicit segments and values. A segment/value
// count mismatch is held and surfaced as ErrMalformedTemplate when the
// query is compiled.
func New(segments []string, values ...any) *Query {
	q := &Query{segments: segments, values: values}
	if len(segments) != len(values)+1 {
		q.err = ErrMalformedTemplate
	}
	return q
}

// Build splits format on "{}" markers and pairs each gap with the next
// value. Sugar over New for call sites that read better inline:
//
//	sqlt.Build("SELECT * FROM {} WHERE id = {}", sqlt.Identifier("users"), id)
func Build(format string, values ...any) *Query {
	return New(strings.Split(format, "{}"), values...)
}

// Statement compiles the query into parameterized SQL against conn.
// Plain values allocate the next $n placeholder and become parameters;
// fragments resolve to raw text spliced in place, contributing nothing
// to the parameter list.
func (q *Query) Statement(ctx context.Context, conn pool.Conn) (Statement, error) {
	if q.err != nil {
		return Statement{}, q.err
	}
	var sb strings.Builder
	var params []any
	for i, seg := range q.segments {
		sb.WriteString(seg)
		if i >= len(q.values) {
			continue
		}
		v := q.values[i]
		if f, ok := v.(Fragment); ok {
			text, err := f.Resolve(ctx, conn)
			if err != nil {
				return Statement{}, err
			}
			sb.WriteString(text)
			continue
		}
		params = append(params, v)
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(len(params)))
	}
	return Statement{SQL: sb.String(), Params: params}, nil
}

// Template returns a fragment that performs the same interleaving as a
// compiled query but escapes non-fragment values as literals instead of
// parameterizing them. Positional parameters would be meaningless once the
// text is spliced into an enclosing query, so a template never emits any.
func Template(segments []string, values ...any) Fragment {
	return Fragment{resolve: func(ctx context.Context, conn pool.Conn) (string, error) {
		if len(segments) != len(values)+1 {
			return "", ErrMalformedTemplate
		}
		var sb strings.Builder
		for i, seg := range segments {
			sb.WriteString(seg)
			if i >= len(values) {
				continue
			}
			v := values[i]
			var text string
			var err error
			if f, ok := v.(Fragment); ok {
				text, err = f.Resolve(ctx, conn)
			} else {
				text, err = EscapeLiteral(v)
			}
			if err != nil {
				return "", err
			}
			sb.WriteString(text)
		}
		return sb.String(), nil
	}}
}

// BuildTemplate is to Template what Build is to New: "{}" marker sugar.
func BuildTemplate(format string, values ...any) Fragment {
	return Template(strings.Split(format, "{}"), values...)
}
