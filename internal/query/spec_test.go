package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
)

func TestParseSpec_Defaults(t *testing.T) {
	spec, err := ParseSpec(Raw{})
	require.NoError(t, err)
	require.Equal(t, 1, spec.Page)
	require.Equal(t, DefaultLimit, spec.Limit)
	require.Empty(t, spec.Filters)
	require.Empty(t, spec.SortBy)
	require.False(t, spec.SortDesc)
}

func TestParseSpec_Filters(t *testing.T) {
	spec, err := ParseSpec(Raw{Filters: "status-eq-booked,start_time-gte-2026-03-01"})
	require.NoError(t, err)
	require.Len(t, spec.Filters, 2)
	require.Equal(t, Filter{Field: "status", Op: OpEq, Value: "booked"}, spec.Filters[0])
	require.Equal(t, "start_time", spec.Filters[1].Field)
	require.Equal(t, OpGte, spec.Filters[1].Op)
	require.Equal(t, "2026-03-01", spec.Filters[1].Value, "dashes inside the value must survive")
}

func TestParseSpec_UUIDValue(t *testing.T) {
	id := "0b9fbe1e-6f3a-4c6a-9f2e-0a4c1d2e3f4a"
	spec, err := ParseSpec(Raw{Filters: "doctor_id-eq-" + id})
	require.NoError(t, err)
	require.Len(t, spec.Filters, 1)
	require.Equal(t, Filter{Field: "doctor_id", Op: OpEq, Value: id}, spec.Filters[0])
}

func TestParseSpec_SortOrder(t *testing.T) {
	spec, err := ParseSpec(Raw{SortBy: "start_time", SortOrder: "desc"})
	require.NoError(t, err)
	require.Equal(t, "start_time", spec.SortBy)
	require.True(t, spec.SortDesc)
}

func TestParseSpec_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  Raw
	}{
		{"malformed filter", Raw{Filters: "statusbooked"}},
		{"unknown operator", Raw{Filters: "status-between-booked"}},
		{"bad sort order", Raw{SortBy: "status", SortOrder: "sideways"}},
		{"page not a number", Raw{Page: "one"}},
		{"page below one", Raw{Page: "0"}},
		{"limit not a number", Raw{Limit: "many"}},
		{"limit below one", Raw{Limit: "0"}},
		{"limit above max", Raw{Limit: "101"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSpec(tc.raw)
			require.Error(t, err)
			require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestEntityValidate(t *testing.T) {
	e := Appointments()

	require.NoError(t, e.Validate(Spec{
		Filters: []Filter{{Field: "status", Op: OpLike, Value: "book"}},
		SortBy:  "start_time",
	}))

	err := e.Validate(Spec{Filters: []Filter{{Field: "secret", Op: OpEq, Value: "x"}}})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = e.Validate(Spec{Filters: []Filter{{Field: "slot_id", Op: OpLike, Value: "x"}}})
	require.Error(t, err, "like must be rejected on non-string fields")

	err = e.Validate(Spec{SortBy: "secret"})
	require.Error(t, err)
}
