package query

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
)

// apply renders the validated spec onto q: base joins, AND-combined
// filters, and the free-text term expanded to an OR across the declared
// search surface.
func (e *Entity) apply(q *gorm.DB, spec Spec) (*gorm.DB, error) {
	if err := e.Validate(spec); err != nil {
		return nil, err
	}

	for _, j := range e.BaseJoins {
		q = q.Joins(j)
	}

	for _, f := range spec.Filters {
		fld := e.Fields[f.Field]
		if f.Op == OpLike {
			q = q.Where("LOWER("+fld.Column+") LIKE LOWER(?)", "%"+f.Value+"%")
			continue
		}
		q = q.Where(fld.Column+" "+operators[f.Op]+" ?", f.Value)
	}

	if spec.Search != "" {
		term := "%" + spec.Search + "%"
		var (
			conds []string
			args  []any
		)
		for _, col := range e.SearchColumns {
			conds = append(conds, "LOWER("+col+") LIKE LOWER(?)")
			args = append(args, term)
		}
		for _, j := range e.SearchJoins {
			q = q.Joins(j.Clause)
			for _, col := range j.Columns {
				conds = append(conds, "LOWER("+col+") LIKE LOWER(?)")
				args = append(args, term)
			}
		}
		if len(conds) > 0 {
			q = q.Where(strings.Join(conds, " OR "), args...)
		}
	}

	return q, nil
}

// Run validates and applies spec over base and returns one page of T plus
// the total matching count. Relationship joins can multiply rows, so both
// the count and the page are deduplicated by primary key. base may carry
// caller scope (role restrictions, preloads) but must target T's table.
func Run[T any](ctx context.Context, base *gorm.DB, e *Entity, spec Spec) (Page[T], error) {
	q, err := e.apply(base.WithContext(ctx).Model(new(T)), spec)
	if err != nil {
		return Page[T]{}, err
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Distinct(e.Table + ".id").Count(&total).Error; err != nil {
		return Page[T]{}, apperr.Internal(err, "count records")
	}

	// SELECT DISTINCT requires ordering columns in the select list, so a
	// sort column living on a joined table is selected alongside the
	// entity's own columns. The primary key is the stable tie-breaker.
	sel := []any{e.Table + ".*"}
	order := e.Table + ".id"
	if spec.SortBy != "" {
		col := e.Fields[spec.SortBy].Column
		dir := " ASC"
		if spec.SortDesc {
			dir = " DESC"
		}
		order = col + dir + ", " + e.Table + ".id"
		if !strings.HasPrefix(col, e.Table+".") {
			sel = append(sel, col)
		}
	}

	var items []T
	err = q.Session(&gorm.Session{}).
		Distinct(sel...).
		Order(order).
		Offset((spec.Page - 1) * spec.Limit).
		Limit(spec.Limit).
		Find(&items).Error
	if err != nil {
		return Page[T]{}, apperr.Internal(err, "fetch records")
	}

	return NewPage(items, spec.Page, spec.Limit, total), nil
}
