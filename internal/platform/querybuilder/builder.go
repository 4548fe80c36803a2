// Package querybuilder renders the small subset of PostgreSQL the
// repositories need, with numbered placeholders.
package querybuilder

import (
	"errors"
	"strconv"
	"strings"
)

// sqlWriter accumulates a statement and its positional arguments.
type sqlWriter struct {
	strings.Builder
	args []any
}

func (w *sqlWriter) bind(v any) {
	w.args = append(w.args, v)
	w.WriteByte('$')
	w.WriteString(strconv.Itoa(len(w.args)))
}

// expand writes expr, binding one argument per '?'. Extra '?' are kept.
func (w *sqlWriter) expand(expr string, exprArgs []any) {
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			w.bind(exprArgs[next])
			next++
			continue
		}
		w.WriteByte(expr[i])
	}
}

func (w *sqlWriter) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			w.WriteString(" WHERE ")
		} else {
			w.WriteString(" AND ")
		}
		c.writeTo(w)
	}
}

func (w *sqlWriter) suffix(s string) {
	if s == "" {
		return
	}
	w.WriteByte(' ')
	w.WriteString(s)
}

func (w *sqlWriter) result() (string, []any, error) {
	return w.String(), w.args, nil
}

type Condition interface {
	writeTo(w *sqlWriter)
}

type comparison struct {
	column string
	op     string
	value  any
}

func (c comparison) writeTo(w *sqlWriter) {
	w.WriteString(c.column)
	w.WriteString(" " + c.op + " ")
	w.bind(c.value)
}

func Eq(column string, value any) Condition  { return comparison{column, "=", value} }
func Lte(column string, value any) Condition { return comparison{column, "<=", value} }
func Gte(column string, value any) Condition { return comparison{column, ">=", value} }

type idList struct {
	column string
	ids    []int64
}

// InInt64 matches column against a list of ids. An empty list matches nothing.
func InInt64(column string, ids []int64) Condition {
	return idList{column: column, ids: ids}
}

func (c idList) writeTo(w *sqlWriter) {
	if len(c.ids) == 0 {
		w.WriteString("1=0")
		return
	}
	w.WriteString(c.column + " IN (")
	for i, id := range c.ids {
		if i > 0 {
			w.WriteString(", ")
		}
		w.bind(id)
	}
	w.WriteByte(')')
}

type nullCheck string

func IsNull(column string) Condition { return nullCheck(column) }

func (c nullCheck) writeTo(w *sqlWriter) {
	w.WriteString(string(c) + " IS NULL")
}

type rawExpr struct {
	expr string
	args []any
}

// Expr embeds a raw fragment; each '?' binds the next argument.
func Expr(expr string, args ...any) Condition {
	return rawExpr{expr: expr, args: args}
}

func (c rawExpr) writeTo(w *sqlWriter) {
	w.expand(c.expr, c.args)
}

type anyOf []Condition

// Or joins conditions with OR inside parentheses.
func Or(conditions ...Condition) Condition {
	return anyOf(conditions)
}

func (c anyOf) writeTo(w *sqlWriter) {
	if len(c) == 0 {
		w.WriteString("1=0")
		return
	}
	w.WriteByte('(')
	for i, inner := range c {
		if i > 0 {
			w.WriteString(" OR ")
		}
		inner.writeTo(w)
	}
	w.WriteByte(')')
}

type SelectBuilder struct {
	columns   []string
	table     string
	where     []Condition
	orderBy   []string
	limit     int
	forUpdate bool
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

// ForUpdate locks the selected rows until the transaction ends.
func (b *SelectBuilder) ForUpdate() *SelectBuilder {
	b.forUpdate = true
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, errors.New("querybuilder: select needs columns")
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("querybuilder: select needs a table")
	}

	w := &sqlWriter{}
	w.WriteString("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	w.where(b.where)
	if len(b.orderBy) > 0 {
		w.WriteString(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.WriteString(" LIMIT " + strconv.Itoa(b.limit))
	}
	if b.forUpdate {
		w.WriteString(" FOR UPDATE")
	}
	return w.result()
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = columns
	return b
}

// Values appends one row; call it repeatedly for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, values)
	return b
}

// Suffix is appended verbatim, typically RETURNING or ON CONFLICT.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("querybuilder: insert needs a table")
	case len(b.columns) == 0:
		return "", nil, errors.New("querybuilder: insert needs columns")
	case len(b.rows) == 0:
		return "", nil, errors.New("querybuilder: insert needs at least one row")
	}

	w := &sqlWriter{args: make([]any, 0, len(b.rows)*len(b.columns))}
	w.WriteString("INSERT INTO " + b.table + " (" + strings.Join(b.columns, ", ") + ") VALUES ")
	for r, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, errors.New("querybuilder: insert row " + strconv.Itoa(r) + " has " +
				strconv.Itoa(len(row)) + " values for " + strconv.Itoa(len(b.columns)) + " columns")
		}
		if r > 0 {
			w.WriteString(", ")
		}
		w.WriteByte('(')
		for c, v := range row {
			if c > 0 {
				w.WriteString(", ")
			}
			w.bind(v)
		}
		w.WriteByte(')')
	}
	w.suffix(b.suffix)
	return w.result()
}

type assignment struct {
	column string
	value  any
}

type UpdateBuilder struct {
	table  string
	sets   []assignment
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("querybuilder: update needs a table")
	case len(b.sets) == 0:
		return "", nil, errors.New("querybuilder: update needs at least one column")
	}

	w := &sqlWriter{}
	w.WriteString("UPDATE " + b.table + " SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(s.column + " = ")
		if expr, ok := s.value.(rawExpr); ok {
			expr.writeTo(w)
			continue
		}
		w.bind(s.value)
	}
	w.where(b.where)
	w.suffix(b.suffix)
	return w.result()
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to build a DELETE without conditions.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("querybuilder: delete needs a table")
	case len(b.where) == 0:
		return "", nil, errors.New("querybuilder: delete without where is not allowed")
	}

	w := &sqlWriter{}
	w.WriteString("DELETE FROM " + b.table)
	w.where(b.where)
	return w.result()
}
