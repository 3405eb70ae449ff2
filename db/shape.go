package db

import (
	"github.com/zeptools/pg-core/nullable"
	"github.com/zeptools/pg-core/pool"
)

// Shaping adapters. Each derives a narrower view from a full Result while
// forwarding the source operation's cancel capability unchanged. None of
// them rewrite the query.

func shapeRows(op *Op[*pool.Result]) *Op[[]pool.RowMap] {
	return mapOp(op, func(r *pool.Result) []pool.RowMap {
		return r.Rows
	})
}

func shapeRow(op *Op[*pool.Result]) *Op[pool.RowMap] {
	return mapOp(op, func(r *pool.Result) pool.RowMap {
		if len(r.Rows) == 0 {
			return nil
		}
		return r.Rows[0]
	})
}

func shapeValue(op *Op[*pool.Result]) *Op[nullable.Any] {
	return mapOp(op, func(r *pool.Result) nullable.Any {
		if len(r.Rows) == 0 || len(r.Columns) == 0 {
			return nullable.Any{}
		}
		return nullable.Any{Value: r.Rows[0][r.Columns[0]], Valid: true}
	})
}

func shapeColumn(op *Op[*pool.Result]) *Op[[]any] {
	return mapOp(op, func(r *pool.Result) []any {
		if len(r.Columns) == 0 {
			return nil
		}
		// Rows are homogeneous in column set; the first column's name
		// determines the value picked from every row.
		col := r.Columns[0]
		out := make([]any, len(r.Rows))
		for i, row := range r.Rows {
			out[i] = row[col]
		}
		return out
	})
}
