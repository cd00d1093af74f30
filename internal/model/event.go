package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Audit event type.
type EventType string

const (
	EventTypeAppointmentBooked    EventType = "appointment_booked"
	EventTypeAppointmentCancelled EventType = "appointment_cancelled"
	EventTypeAppointmentUpdated   EventType = "appointment_updated"
	EventTypeSlotsGenerated       EventType = "slots_generated"
)

// events, the audit trail of lifecycle transitions
type Event struct {
	Base

	EventType EventType `gorm:"type:varchar(64);not null;index" json:"event_type"`

	UserID        *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id,omitempty"`

	Details datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`

	User        *User        `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}
