package types

import (
	"fmt"

	"gorm.io/gorm/clause"
)

type CommonFilterOperator string

const (
	CommonFilterOperatorEq    CommonFilterOperator = "eq"
	CommonFilterOperatorNotEq CommonFilterOperator = "not_eq"
	CommonFilterOperatorLt    CommonFilterOperator = "lt"
	CommonFilterOperatorLte   CommonFilterOperator = "lte"
	CommonFilterOperatorGt    CommonFilterOperator = "gt"
	CommonFilterOperatorGte   CommonFilterOperator = "gte"
	CommonFilterOperatorRange CommonFilterOperator = "range"
	CommonFilterOperatorIn    CommonFilterOperator = "in"
)

type CommonFilter struct {
	Field    string               `json:"field"`
	Operator CommonFilterOperator `json:"operator"`
	Values   []any                `json:"values"`
}

// Build constructs a GORM expression. Field must already be a trusted column name.
func (f *CommonFilter) Build(builder clause.Builder) {
	if len(f.Values) == 0 {
		return
	}
	value := f.Values[0]
	column := clause.Column{Name: f.Field, Raw: false}

	switch f.Operator {
	case CommonFilterOperatorEq:
		clause.Eq{Column: column, Value: value}.Build(builder)
	case CommonFilterOperatorNotEq:
		clause.Neq{Column: column, Value: value}.Build(builder)
	case CommonFilterOperatorLt:
		clause.Lt{Column: column, Value: value}.Build(builder)
	case CommonFilterOperatorLte:
		clause.Lte{Column: column, Value: value}.Build(builder)
	case CommonFilterOperatorGt:
		clause.Gt{Column: column, Value: value}.Build(builder)
	case CommonFilterOperatorGte:
		clause.Gte{Column: column, Value: value}.Build(builder)
	case CommonFilterOperatorRange:
		if len(f.Values) < 2 {
			return
		}
		clause.And(clause.Gte{Column: column, Value: f.Values[0]}, clause.Lte{Column: column, Value: f.Values[1]}).Build(builder)
	case CommonFilterOperatorIn:
		clause.IN{Column: column, Values: f.Values}.Build(builder)
	}
}

func (op CommonFilterOperator) valid() bool {
	switch op {
	case CommonFilterOperatorEq, CommonFilterOperatorNotEq, CommonFilterOperatorLt, CommonFilterOperatorLte,
		CommonFilterOperatorGt, CommonFilterOperatorGte, CommonFilterOperatorRange, CommonFilterOperatorIn:
		return true
	}
	return false
}

// FiltersWhere ANDs a list of filters into a single clause.Expression.
type FiltersWhere struct{ Filters []*CommonFilter }

func (w FiltersWhere) Build(builder clause.Builder) {
	if len(w.Filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, f := range w.Filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		f.Build(builder)
	}
}

// Whitelist maps request field names to table columns.
type Whitelist map[string]string

// Resolve checks every filter against w and returns copies pointing at the real columns.
func (w Whitelist) Resolve(filters []*CommonFilter) ([]*CommonFilter, error) {
	out := make([]*CommonFilter, 0, len(filters))
	for _, f := range filters {
		if f == nil {
			continue
		}
		column, ok := w[f.Field]
		if !ok {
			return nil, fmt.Errorf("unsupported filter field %q", f.Field)
		}
		if !f.Operator.valid() {
			return nil, fmt.Errorf("unsupported filter operator %q", f.Operator)
		}
		if len(f.Values) == 0 {
			return nil, fmt.Errorf("filter %q has no values", f.Field)
		}
		if f.Operator == CommonFilterOperatorRange && len(f.Values) < 2 {
			return nil, fmt.Errorf("range filter %q needs two values", f.Field)
		}
		out = append(out, &CommonFilter{Field: column, Operator: f.Operator, Values: f.Values})
	}
	return out, nil
}
