package sqlt

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ErrUnsupportedLiteralType - value cannot be rendered as a SQL literal.
var ErrUnsupportedLiteralType = errors.New("sqlt: unsupported literal type")

// EscapeIdentifier double-quotes s, doubling every embedded double quote.
// Identifiers are never backslash-escaped.
func EscapeIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// EscapeIdentifiers escapes every name and joins them with sep
// (", " when omitted).
func EscapeIdentifiers(names []string, sep ...string) string {
	escaped := make([]string, len(names))
	for i, name := range names {
		escaped[i] = EscapeIdentifier(name)
	}
	return strings.Join(escaped, sepOrDefault(sep))
}

// EscapeLiteral renders v as SQL literal text.
//
// Strings are single-quoted with embedded single quotes doubled. Embedded
// backslashes are doubled as well, and their presence switches the whole
// literal to the extended-escape form ` E'...'` so the doubled backslashes
// read literally. This exact doubling is security-relevant; do not "fix" it.
//
// Slices render recursively as `Array[...]`. Numbers and booleans render
// unquoted, nil renders as `null`.
func EscapeLiteral(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case bool:
		if x {
			return "true", nil
		}
		return "false", nil
	case string:
		return escapeString(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case []any:
		return escapeArray(x)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return escapeArray(elems)
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedLiteralType, v)
}

// EscapeLiterals escapes every value and joins them with sep
// (", " when omitted).
func EscapeLiterals(values []any, sep ...string) (string, error) {
	escaped := make([]string, len(values))
	for i, v := range values {
		e, err := EscapeLiteral(v)
		if err != nil {
			return "", err
		}
		escaped[i] = e
	}
	return strings.Join(escaped, sepOrDefault(sep)), nil
}

func escapeString(s string) string {
	hasBackslash := strings.Contains(s, `\`)
	e := strings.ReplaceAll(s, `\`, `\\`)
	e = strings.ReplaceAll(e, `'`, `''`)
	if hasBackslash {
		return ` E'` + e + `'`
	}
	return `'` + e + `'`
}

func escapeArray(elems []any) (string, error) {
	escaped, err := EscapeLiterals(elems)
	if err != nil {
		return "", err
	}
	return "Array[" + escaped + "]", nil
}

func sepOrDefault(sep []string) string {
	if len(sep) == 0 {
		return ", "
	}
	return sep[0]
}
