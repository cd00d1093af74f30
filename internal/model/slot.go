package model

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a one-hour availability window owned by a doctor.
//
// The composite unique index on (doctor_id, start_time) is the storage-level
// guard against duplicate generation; IsBooked is true iff exactly one
// non-cancelled appointment references the slot, and only appointment
// lifecycle transitions may flip it.
type Slot struct {
	Base

	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_slots_doctor_start" json:"doctor_id"`
	StartTime time.Time `gorm:"not null;index;uniqueIndex:idx_slots_doctor_start" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	IsBooked  bool      `gorm:"not null;default:false;index" json:"is_booked"`
	Notes     string    `gorm:"type:text" json:"notes"`

	Doctor      *Doctor      `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"doctor,omitempty"`
	Appointment *Appointment `gorm:"foreignKey:SlotID" json:"-"`
}
