package glasses

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter is a single search clause. Clauses are combined with AND.
type Filter interface {
	clause(bind func(v any) string) string
}

// Column is a filterable text column of the glasses table.
type Column string

const (
	ColumnName         Column = "g.name"
	ColumnColor        Column = "g.color"
	ColumnModel        Column = "g.model"
	ColumnManufacturer Column = "g.manufacturer"
)

// AnyOf matches glasses whose column equals one of Values, ignoring case.
type AnyOf struct {
	Column Column
	Values []string
}

func (f AnyOf) clause(bind func(v any) string) string {
	values := make([]string, 0, len(f.Values))
	for _, v := range f.Values {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, strings.ToLower(v))
		}
	}
	if len(values) == 0 {
		return ""
	}
	return fmt.Sprintf("lower(%s) = ANY(%s)", f.Column, bind(values))
}

// PriceBetween bounds the price inclusively. A nil bound is open.
type PriceBetween struct {
	From *decimal.Decimal
	To   *decimal.Decimal
}

func (f PriceBetween) clause(bind func(v any) string) string {
	var parts []string
	if f.From != nil {
		parts = append(parts, "g.price >= "+bind(f.From.String())+"::numeric")
	}
	if f.To != nil {
		parts = append(parts, "g.price <= "+bind(f.To.String())+"::numeric")
	}
	return strings.Join(parts, " AND ")
}

// InCategories matches glasses attached to at least one of the categories.
type InCategories struct {
	IDs []string
}

func (f InCategories) clause(bind func(v any) string) string {
	if len(f.IDs) == 0 {
		return ""
	}
	return "EXISTS (SELECT 1 FROM glasses_categories gc WHERE gc.glasses_id = g.id AND gc.category_id::text = ANY(" + bind(f.IDs) + "))"
}

type notDeleted struct{}

func (notDeleted) clause(func(v any) string) string { return "NOT g.is_deleted" }

// Where renders the filters as a WHERE clause with positional args.
// Filters that render empty are skipped.
func Where(filters []Filter) (string, []any) {
	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	var parts []string
	for _, f := range filters {
		if c := f.clause(bind); c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}
