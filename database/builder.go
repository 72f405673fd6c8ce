package database

import (
	"time"

	"github.com/uptrace/bun"
)

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

type whereClause struct {
	query string
	args  []any
}

type orderClause struct {
	column    string
	direction OrderDirection
}

type joinClause struct {
	join string
	args []any
}

// QueryBuilder provides a fluent, type-safe API over bun for the model T
type QueryBuilder[T any] struct {
	db bun.IDB

	columnExprs []whereClause
	joins       []joinClause
	wheres      []whereClause
	orders      []orderClause
	limitVal    int
	offsetVal   int
	forUpdate   bool
	timeout     time.Duration
}

// Query creates a new QueryBuilder on the database or an open transaction
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// ColumnExpr adds a select expression. Without any the model columns are selected.
func (q *QueryBuilder[T]) ColumnExpr(expr string, args ...any) *QueryBuilder[T] {
	q.columnExprs = append(q.columnExprs, whereClause{query: expr, args: args})
	return q
}

// Join adds a raw join, e.g. Join("JOIN users AS u ON u.id = o.user_id")
func (q *QueryBuilder[T]) Join(join string, args ...any) *QueryBuilder[T] {
	q.joins = append(q.joins, joinClause{join: join, args: args})
	return q
}

// Where adds an equality condition
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{
		query: "? " + operator + " ?",
		args:  []any{bun.Ident(column), value},
	})
	return q
}

// WhereIn adds an IN condition
func (q *QueryBuilder[T]) WhereIn(column string, values any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{
		query: "? IN (?)",
		args:  []any{bun.Ident(column), bun.In(values)},
	})
	return q
}

// WhereNull adds an IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{query: "? IS NULL", args: []any{bun.Ident(column)}})
	return q
}

// WhereRaw adds a raw SQL condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{query: sql, args: args})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, orderClause{column: column, direction: direction})
	return q
}

func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = limit
	return q
}

func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = offset
	return q
}

// ForUpdate locks the selected rows; only meaningful inside a transaction
func (q *QueryBuilder[T]) ForUpdate() *QueryBuilder[T] {
	q.forUpdate = true
	return q
}

// Timeout bounds every execution of the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

func (q *QueryBuilder[T]) buildSelect() *bun.SelectQuery {
	query := q.db.NewSelect().Model((*T)(nil))
	for _, c := range q.columnExprs {
		query = query.ColumnExpr(c.query, c.args...)
	}
	for _, j := range q.joins {
		query = query.Join(j.join, j.args...)
	}
	query = applyWheres(query, q.wheres)
	for _, o := range q.orders {
		query = query.OrderExpr("? "+string(o.direction), bun.Ident(o.column))
	}
	if q.limitVal > 0 {
		query = query.Limit(q.limitVal)
	}
	if q.offsetVal > 0 {
		query = query.Offset(q.offsetVal)
	}
	if q.forUpdate {
		query = query.For("UPDATE")
	}
	return query
}

func applyWheres[Q interface{ Where(string, ...any) Q }](query Q, wheres []whereClause) Q {
	for _, w := range wheres {
		query = query.Where(w.query, w.args...)
	}
	return query
}
