package query

import (
	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
)

// FieldKind distinguishes string columns, which are the only ones the
// substring operator and free-text search may touch.
type FieldKind int

const (
	KindOther FieldKind = iota
	KindString
)

type Field struct {
	Column string // qualified column the field maps to
	Kind   FieldKind
}

// Join is a relationship searched by the free-text term. The join is only
// added when a search term is present so plain filtered lists stay flat.
type Join struct {
	Clause  string
	Columns []string // string columns on the joined table
}

// Entity is the per-entity registry entry: the filter/sort allow-list and
// the declared search surface, defined once at startup. The allow-list and
// the column accessor are the same source of truth.
type Entity struct {
	Table string

	// BaseJoins are always applied; fields and search columns may
	// reference the joined tables.
	BaseJoins []string

	Fields map[string]Field

	// SearchColumns are string columns on the entity itself (or a base
	// join) included in free-text search.
	SearchColumns []string

	SearchJoins []Join
}

// Validate checks a spec against the allow-list. It must pass before any
// part of the spec is applied.
func (e *Entity) Validate(spec Spec) error {
	for _, f := range spec.Filters {
		fld, ok := e.Fields[f.Field]
		if !ok {
			return apperr.Validationf("unknown filter field %q", f.Field)
		}
		if f.Op == OpLike && fld.Kind != KindString {
			return apperr.Validationf("operator like requires a string field, %q is not", f.Field)
		}
	}
	if spec.SortBy != "" {
		if _, ok := e.Fields[spec.SortBy]; !ok {
			return apperr.Validationf("unknown sort field %q", spec.SortBy)
		}
	}
	return nil
}

// Registry of the queryable entities. Field names are the wire-level names
// accepted in filter and sort parameters.

func Appointments() *Entity {
	return &Entity{
		Table: "appointments",
		BaseJoins: []string{
			"JOIN slots ON slots.id = appointments.slot_id",
		},
		Fields: map[string]Field{
			"doctor_id":  {Column: "appointments.doctor_id"},
			"patient_id": {Column: "appointments.patient_id"},
			"slot_id":    {Column: "appointments.slot_id"},
			"status":     {Column: "appointments.status", Kind: KindString},
			"start_time": {Column: "slots.start_time"},
		},
		SearchColumns: []string{"appointments.status", "slots.notes"},
		SearchJoins: []Join{
			{
				Clause:  "LEFT JOIN doctors ON doctors.id = appointments.doctor_id",
				Columns: []string{"doctors.speciality"},
			},
		},
	}
}

func Slots() *Entity {
	return &Entity{
		Table: "slots",
		Fields: map[string]Field{
			"doctor_id":  {Column: "slots.doctor_id"},
			"start_time": {Column: "slots.start_time"},
			"end_time":   {Column: "slots.end_time"},
			"is_booked":  {Column: "slots.is_booked"},
			"notes":      {Column: "slots.notes", Kind: KindString},
		},
		SearchColumns: []string{"slots.notes"},
		SearchJoins: []Join{
			{
				Clause:  "LEFT JOIN doctors ON doctors.id = slots.doctor_id",
				Columns: []string{"doctors.speciality"},
			},
			{
				Clause:  "LEFT JOIN appointments ON appointments.slot_id = slots.id",
				Columns: []string{"appointments.status"},
			},
		},
	}
}

func Doctors() *Entity {
	return &Entity{
		Table: "doctors",
		Fields: map[string]Field{
			"user_id":    {Column: "doctors.user_id"},
			"speciality": {Column: "doctors.speciality", Kind: KindString},
		},
		SearchColumns: []string{"doctors.speciality"},
		SearchJoins: []Join{
			{
				Clause: "LEFT JOIN users ON users.id = doctors.user_id",
				Columns: []string{
					"users.username", "users.first_name", "users.last_name",
					"users.email", "users.phone",
				},
			},
			{
				Clause:  "LEFT JOIN slots ON slots.doctor_id = doctors.id",
				Columns: []string{"slots.notes"},
			},
			{
				Clause:  "LEFT JOIN appointments ON appointments.doctor_id = doctors.id",
				Columns: []string{"appointments.status"},
			},
		},
	}
}

func Patients() *Entity {
	return &Entity{
		Table: "patients",
		Fields: map[string]Field{
			"user_id": {Column: "patients.user_id"},
		},
		SearchJoins: []Join{
			{
				Clause: "LEFT JOIN users ON users.id = patients.user_id",
				Columns: []string{
					"users.username", "users.first_name", "users.last_name",
					"users.email", "users.phone",
				},
			},
			{
				Clause:  "LEFT JOIN appointments ON appointments.patient_id = patients.id",
				Columns: []string{"appointments.status"},
			},
		},
	}
}
