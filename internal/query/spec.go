// Package query implements the generic filter/sort/pagination/search engine
// shared by every list endpoint. A Spec is validated against an explicit
// per-entity field registry before any storage is touched; an invalid spec
// is never partially applied.
package query

import (
	"strconv"
	"strings"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
)

type Operator string

const (
	OpEq   Operator = "eq"
	OpNe   Operator = "ne"
	OpGt   Operator = "gt"
	OpLt   Operator = "lt"
	OpGte  Operator = "gte"
	OpLte  Operator = "lte"
	OpLike Operator = "like" // case-insensitive substring, string fields only
)

var operators = map[Operator]string{
	OpEq:  "=",
	OpNe:  "<>",
	OpGt:  ">",
	OpLt:  "<",
	OpGte: ">=",
	OpLte: "<=",
	// OpLike is rendered separately
}

const (
	DefaultLimit = 5
	MaxLimit     = 100
)

type Filter struct {
	Field string
	Op    Operator
	Value string
}

// Spec is the normalized query request. Filters combine with AND; Search
// expands to an OR across the entity's declared string fields and is ANDed
// with the filter set.
type Spec struct {
	Filters   []Filter
	SortBy    string
	SortDesc  bool
	Page      int
	Limit     int
	Search    string
}

// Raw holds untrusted query-string inputs before normalization.
type Raw struct {
	Filters   string // comma list of field-op-value tokens
	SortBy    string
	SortOrder string // "asc" (default) or "desc"
	Page      string
	Limit     string
	Search    string
}

// ParseSpec normalizes raw inputs. Shape errors (malformed filter token,
// unknown operator, out-of-range page/limit, bad sort order) fail here;
// allow-list checks happen against the entity registry in Validate.
func ParseSpec(raw Raw) (Spec, error) {
	spec := Spec{
		SortBy: strings.TrimSpace(raw.SortBy),
		Page:   1,
		Limit:  DefaultLimit,
		Search: strings.TrimSpace(raw.Search),
	}

	if raw.Filters != "" {
		for _, token := range strings.Split(raw.Filters, ",") {
			// Field and operator never contain dashes; everything after the
			// second dash is the value, so uuids and dates pass through.
			parts := strings.SplitN(token, "-", 3)
			if len(parts) != 3 {
				return Spec{}, apperr.Validationf("malformed filter %q, expected field-op-value", token)
			}
			f := Filter{
				Field: strings.TrimSpace(parts[0]),
				Op:    Operator(strings.TrimSpace(parts[1])),
				Value: strings.TrimSpace(parts[2]),
			}
			if _, ok := operators[f.Op]; !ok && f.Op != OpLike {
				return Spec{}, apperr.Validationf("unsupported filter operator %q", f.Op)
			}
			spec.Filters = append(spec.Filters, f)
		}
	}

	switch strings.ToLower(strings.TrimSpace(raw.SortOrder)) {
	case "", "asc":
	case "desc":
		spec.SortDesc = true
	default:
		return Spec{}, apperr.Validationf("sort order must be asc or desc, got %q", raw.SortOrder)
	}

	if raw.Page != "" {
		p, err := strconv.Atoi(raw.Page)
		if err != nil {
			return Spec{}, apperr.Validationf("page must be an integer, got %q", raw.Page)
		}
		spec.Page = p
	}
	if spec.Page < 1 {
		return Spec{}, apperr.Validationf("page must be >= 1, got %d", spec.Page)
	}

	if raw.Limit != "" {
		l, err := strconv.Atoi(raw.Limit)
		if err != nil {
			return Spec{}, apperr.Validationf("limit must be an integer, got %q", raw.Limit)
		}
		spec.Limit = l
	}
	if spec.Limit < 1 || spec.Limit > MaxLimit {
		return Spec{}, apperr.Validationf("limit must be between 1 and %d, got %d", MaxLimit, spec.Limit)
	}

	return spec, nil
}
