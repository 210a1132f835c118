// Package filter implements search domains: boolean trees of field
// comparisons that can be evaluated against an in-memory record or compiled
// into a parameterised SQL WHERE clause.
//
// A nil operand compares against NULL: Eq(f, nil) is "f IS NULL" and
// Ne(f, nil) is "f IS NOT NULL".
package filter

import (
	"fmt"
	"strings"
	"time"
)

// Record is anything whose fields can be read by name.
type Record interface {
	Field(name string) (any, bool)
}

// Op is a comparison operator.
type Op string

const (
	OpEq Op = "="
	OpNe Op = "!="
	OpIn Op = "in"
)

// Expr is a node of a search domain.
type Expr interface {
	// Match evaluates the expression against r. Unknown fields never match.
	Match(r Record) bool
	writeSQL(b *builder) error
}

// Term compares a single field with a value.
type Term struct {
	Field string
	Op    Op
	Value any
}

type andExpr []Expr

type orExpr []Expr

// Eq matches records whose field equals v.
func Eq(field string, v any) Expr { return Term{Field: field, Op: OpEq, Value: v} }

// Ne matches records whose field differs from v. A null field differs from
// every non-nil value.
func Ne(field string, v any) Expr { return Term{Field: field, Op: OpNe, Value: v} }

// In matches records whose field equals one of values. An empty list
// matches nothing.
func In(field string, values ...any) Expr { return Term{Field: field, Op: OpIn, Value: values} }

// And matches records matched by every operand. And() matches everything.
func And(exprs ...Expr) Expr { return andExpr(exprs) }

// Or matches records matched by at least one operand. Or() matches nothing.
func Or(exprs ...Expr) Expr { return orExpr(exprs) }

func (e andExpr) Match(r Record) bool {
	for _, x := range e {
		if !x.Match(r) {
			return false
		}
	}
	return true
}

func (e orExpr) Match(r Record) bool {
	for _, x := range e {
		if x.Match(r) {
			return true
		}
	}
	return false
}

func (t Term) Match(r Record) bool {
	got, ok := r.Field(t.Field)
	if !ok {
		return false
	}
	got = normalize(got)
	switch t.Op {
	case OpEq:
		return equal(got, normalize(t.Value))
	case OpNe:
		return !equal(got, normalize(t.Value))
	case OpIn:
		for _, v := range t.values() {
			if got != nil && equal(got, normalize(v)) {
				return true
			}
		}
		return false
	}
	return false
}

func (t Term) values() []any {
	vs, _ := t.Value.([]any)
	return vs
}

func (t Term) String() string {
	return fmt.Sprintf("(%q, %q, %v)", t.Field, t.Op, t.Value)
}

// normalize folds integer and pointer variants into comparable values.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case *int64:
		if x == nil {
			return nil
		}
		return *x
	case *string:
		if x == nil {
			return nil
		}
		return *x
	}
	return v
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

// Columns maps domain field names to SQL column expressions. Fields absent
// from the map are rejected during compilation.
type Columns map[string]string

// ToSQL compiles e into a WHERE clause body using pgx-style placeholders
// numbered from firstArg, and returns the clause with its arguments.
func ToSQL(e Expr, cols Columns, firstArg int) (string, []any, error) {
	b := &builder{cols: cols, next: firstArg}
	if err := e.writeSQL(b); err != nil {
		return "", nil, err
	}
	return b.sb.String(), b.args, nil
}

type builder struct {
	sb   strings.Builder
	args []any
	cols Columns
	next int
}

func (b *builder) placeholder(v any) string {
	b.args = append(b.args, v)
	p := fmt.Sprintf("$%d", b.next)
	b.next++
	return p
}

func (e andExpr) writeSQL(b *builder) error {
	return writeJoined(b, []Expr(e), " AND ", "TRUE")
}

func (e orExpr) writeSQL(b *builder) error {
	return writeJoined(b, []Expr(e), " OR ", "FALSE")
}

func writeJoined(b *builder, exprs []Expr, sep, empty string) error {
	if len(exprs) == 0 {
		b.sb.WriteString(empty)
		return nil
	}
	b.sb.WriteString("(")
	for i, x := range exprs {
		if i > 0 {
			b.sb.WriteString(sep)
		}
		if err := x.writeSQL(b); err != nil {
			return err
		}
	}
	b.sb.WriteString(")")
	return nil
}

func (t Term) writeSQL(b *builder) error {
	col, ok := b.cols[t.Field]
	if !ok {
		return fmt.Errorf("filter: unknown field %q", t.Field)
	}
	v := normalize(t.Value)
	switch t.Op {
	case OpEq:
		if v == nil {
			b.sb.WriteString(col + " IS NULL")
			return nil
		}
		b.sb.WriteString(col + " = " + b.placeholder(v))
	case OpNe:
		if v == nil {
			b.sb.WriteString(col + " IS NOT NULL")
			return nil
		}
		p := b.placeholder(v)
		b.sb.WriteString("(" + col + " <> " + p + " OR " + col + " IS NULL)")
	case OpIn:
		vs := t.values()
		if len(vs) == 0 {
			b.sb.WriteString("FALSE")
			return nil
		}
		ps := make([]string, 0, len(vs))
		for _, x := range vs {
			ps = append(ps, b.placeholder(normalize(x)))
		}
		b.sb.WriteString(col + " IN (" + strings.Join(ps, ", ") + ")")
	default:
		return fmt.Errorf("filter: unsupported operator %q", t.Op)
	}
	return nil
}
