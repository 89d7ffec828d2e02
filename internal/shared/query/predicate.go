package query

import (
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
)

// Operator is a comparison understood by the predicate builder.
type Operator string

const (
	OpEq     Operator = "eq"
	OpNe     Operator = "ne"
	OpLt     Operator = "lt"
	OpLte    Operator = "lte"
	OpGt     Operator = "gt"
	OpGte    Operator = "gte"
	OpLike   Operator = "like"
	OpIn     Operator = "in"
	OpIsNull Operator = "is_null"
)

var operatorSQL = map[Operator]string{
	OpEq:   "=",
	OpNe:   "<>",
	OpLt:   "<",
	OpLte:  "<=",
	OpGt:   ">",
	OpGte:  ">=",
	OpLike: "LIKE",
	OpIn:   "IN",
}

// Predicate is a single (field, operator, value) condition.
type Predicate struct {
	Field string
	Op    Operator
	Value any
}

// Eq is shorthand for an equality predicate.
func Eq(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpEq, Value: value}
}

// Contains builds a LIKE predicate matching value anywhere.
func Contains(field, value string) Predicate {
	return Predicate{Field: field, Op: OpLike, Value: "%" + escapeLike(value) + "%"}
}

// Fields whitelists logical field names. A field mapped to several
// columns matches when any of them does.
type Fields map[string][]string

// Predicates is a conjunction of predicates.
type Predicates []Predicate

// Scope folds the predicates into a GORM scope. Unknown fields and
// operators are rejected before any SQL is built.
func (ps Predicates) Scope(fields Fields) (func(*gorm.DB) *gorm.DB, error) {
	clauses := make([]clause, 0, len(ps))
	for _, p := range ps {
		columns, ok := fields[p.Field]
		if !ok || len(columns) == 0 {
			return nil, fmt.Errorf("unknown filter field %q", p.Field)
		}
		c, err := buildClause(columns, p)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, c)
	}

	return func(db *gorm.DB) *gorm.DB {
		for _, c := range clauses {
			db = db.Where(c.sql, c.args...)
		}
		return db
	}, nil
}

type clause struct {
	sql  string
	args []any
}

func buildClause(columns []string, p Predicate) (clause, error) {
	if p.Op == OpIsNull {
		isNull, _ := p.Value.(bool)
		expr := "IS NOT NULL"
		if isNull {
			expr = "IS NULL"
		}
		parts := make([]string, len(columns))
		for i, col := range columns {
			parts[i] = col + " " + expr
		}
		return clause{sql: joinOr(parts)}, nil
	}

	sqlOp, ok := operatorSQL[p.Op]
	if !ok {
		return clause{}, fmt.Errorf("unsupported operator %q for field %q", p.Op, p.Field)
	}

	if p.Op == OpIn {
		v := reflect.ValueOf(p.Value)
		if v.Kind() != reflect.Slice || v.Len() == 0 {
			return clause{}, fmt.Errorf("operator in on %q requires a non-empty slice", p.Field)
		}
	}

	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		if p.Op == OpIn {
			parts[i] = fmt.Sprintf("%s IN ?", col)
		} else if p.Op == OpLike {
			parts[i] = fmt.Sprintf("%s LIKE ? ESCAPE '\\'", col)
		} else {
			parts[i] = fmt.Sprintf("%s %s ?", col, sqlOp)
		}
		args[i] = p.Value
	}
	return clause{sql: joinOr(parts), args: args}, nil
}

func joinOr(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
