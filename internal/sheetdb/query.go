package sheetdb

import (
	"fmt"
	"strings"
)

// Builder assembles a textual query for the visualization dialect. Columns are
// addressed by sheet letter ("B", "H", ...). Predicates are joined with AND;
// a predicate that is never added is never compiled, so an empty builder
// selects every data row. All string literals pass through Quote.
type Builder struct {
	sel     []string
	count   bool
	where   []string
	group   []string
	order   string
	limit   int
	offset  int
	noMatch bool
}

// NewQuery returns an empty query builder selecting all columns.
func NewQuery() *Builder {
	return &Builder{limit: -1, offset: -1}
}

// Select replaces the select clause with explicit columns or aggregate
// expressions such as "sum(H)".
func (b *Builder) Select(cols ...string) *Builder {
	b.sel = cols
	b.count = false
	return b
}

// SelectCount selects a single count aggregate over the given column.
func (b *Builder) SelectCount(col string) *Builder {
	b.sel = []string{fmt.Sprintf("count(%s)", col)}
	b.count = true
	return b
}

// WhereEq adds an equality predicate on a string column.
func (b *Builder) WhereEq(col, val string) *Builder {
	b.where = append(b.where, fmt.Sprintf("%s = %s", col, Quote(val)))
	return b
}

// WhereNotEq adds an inequality predicate on a string column.
func (b *Builder) WhereNotEq(col, val string) *Builder {
	b.where = append(b.where, fmt.Sprintf("%s != %s", col, Quote(val)))
	return b
}

// WhereContainsFold adds a case-insensitive substring predicate.
func (b *Builder) WhereContainsFold(col, val string) *Builder {
	b.where = append(b.where, fmt.Sprintf("lower(%s) contains %s", col, Quote(strings.ToLower(val))))
	return b
}

// WhereGTE adds a lower-bound predicate. Dates are stored as ISO strings, so
// lexicographic comparison matches chronological order.
func (b *Builder) WhereGTE(col, val string) *Builder {
	b.where = append(b.where, fmt.Sprintf("%s >= %s", col, Quote(val)))
	return b
}

// WhereLTE adds an upper-bound predicate.
func (b *Builder) WhereLTE(col, val string) *Builder {
	b.where = append(b.where, fmt.Sprintf("%s <= %s", col, Quote(val)))
	return b
}

// WhereAnyOf adds a membership predicate: the column must equal one of the
// given values. An empty value set matches no rows at all, never all rows.
func (b *Builder) WhereAnyOf(col string, vals []string) *Builder {
	if len(vals) == 0 {
		b.noMatch = true
		return b
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%s = %s", col, Quote(v))
	}
	b.where = append(b.where, "("+strings.Join(parts, " or ")+")")
	return b
}

// WhereEqAnyCol adds a predicate matching the value against any of the given
// columns (used to match an account id on either side of a transaction).
func (b *Builder) WhereEqAnyCol(cols []string, val string) *Builder {
	if len(cols) == 0 {
		b.noMatch = true
		return b
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%s = %s", c, Quote(val))
	}
	b.where = append(b.where, "("+strings.Join(parts, " or ")+")")
	return b
}

// GroupBy adds a group by clause.
func (b *Builder) GroupBy(cols ...string) *Builder {
	b.group = cols
	return b
}

// OrderBy adds an order by clause on one column.
func (b *Builder) OrderBy(col string, desc bool) *Builder {
	b.order = col
	if desc {
		b.order += " desc"
	}
	return b
}

// Limit caps the number of returned rows. Negative means no limit.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// Offset skips the first n rows. Negative means no offset.
func (b *Builder) Offset(n int) *Builder {
	b.offset = n
	return b
}

// MatchesNothing reports whether a predicate was built from an empty value
// set, in which case executing the query is pointless.
func (b *Builder) MatchesNothing() bool {
	return b.noMatch
}

// String compiles the query.
func (b *Builder) String() string {
	var sb strings.Builder

	sb.WriteString("select ")
	if len(b.sel) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(b.sel, ", "))
	}

	where := b.where
	if b.noMatch {
		// Compiled guard for the empty membership case: selecting where the
		// id column equals two different literals can never hold.
		where = append([]string{`A is null and A is not null`}, where...)
	}
	if len(where) > 0 {
		sb.WriteString(" where ")
		sb.WriteString(strings.Join(where, " and "))
	}

	if len(b.group) > 0 {
		sb.WriteString(" group by ")
		sb.WriteString(strings.Join(b.group, ", "))
	}
	if b.order != "" {
		sb.WriteString(" order by ")
		sb.WriteString(b.order)
	}
	if b.limit >= 0 {
		fmt.Fprintf(&sb, " limit %d", b.limit)
	}
	if b.offset > 0 {
		fmt.Fprintf(&sb, " offset %d", b.offset)
	}

	return sb.String()
}

// Quote renders a string literal for the query dialect. The dialect offers no
// escape sequence inside a quoted literal, so quote characters, backslashes
// and control characters are stripped from the value before quoting.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' || r < 0x20 {
			continue
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}
