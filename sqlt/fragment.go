package sqlt

import (
	"context"
	"errors"
	"strings"

	"github.com/zeptools/pg-core/pool"
)

// Fragment carries pre-escaped or pre-compiled SQL text. When interpolated
// into a query it is spliced verbatim instead of being parameterized.
//
// Fragments are the only sanctioned bypass of parameterization, and they
// can only be produced by the constructors in this package, never from an
// arbitrary untrusted string. A value is either parameterized or was
// structurally marked safe here.
type Fragment struct {
	resolve func(ctx context.Context, conn pool.Conn) (string, error)
}

// Resolve produces the raw SQL text. conn may be nil; it is only consulted
// by fragments whose rendering depends on the active connection (nested
// templates resolved mid-compilation).
func (f Fragment) Resolve(ctx context.Context, conn pool.Conn) (string, error) {
	if f.resolve == nil {
		return "", errors.New("sqlt: zero-value fragment")
	}
	return f.resolve(ctx, conn)
}

// Identifier returns a fragment rendering name as a quoted identifier.
func Identifier(name string) Fragment {
	return Fragment{resolve: func(context.Context, pool.Conn) (string, error) {
		return EscapeIdentifier(name), nil
	}}
}

// Identifiers returns a fragment rendering names as quoted identifiers
// joined with sep (", " when omitted).
func Identifiers(names []string, sep ...string) Fragment {
	return Fragment{resolve: func(context.Context, pool.Conn) (string, error) {
		return EscapeIdentifiers(names, sep...), nil
	}}
}

// Literal returns a fragment rendering v as an escaped SQL literal.
func Literal(v any) Fragment {
	return Fragment{resolve: func(context.Context, pool.Conn) (string, error) {
		return EscapeLiteral(v)
	}}
}

// Literals returns a fragment rendering values as escaped literals joined
// with sep (", " when omitted).
func Literals(values []any, sep ...string) Fragment {
	return Fragment{resolve: func(context.Context, pool.Conn) (string, error) {
		return EscapeLiterals(values, sep...)
	}}
}

// Items returns a fragment joining the elements with sep (", " when
// omitted). Elements that are themselves fragments resolve recursively;
// anything else is escaped as a literal.
func Items(values []any, sep ...string) Fragment {
	return Fragment{resolve: func(ctx context.Context, conn pool.Conn) (string, error) {
		rendered := make([]string, len(values))
		for i, v := range values {
			var err error
			if f, ok := v.(Fragment); ok {
				rendered[i], err = f.Resolve(ctx, conn)
			} else {
				rendered[i], err = EscapeLiteral(v)
			}
			if err != nil {
				return "", err
			}
		}
		return strings.Join(rendered, sepOrDefault(sep)), nil
	}}
}
