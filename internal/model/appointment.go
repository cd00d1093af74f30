package model

import "github.com/google/uuid"

// Appointment lifecycle status. Booked is the initial state; cancelled and
// completed are terminal.
type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// appointments
type Appointment struct {
	Base

	DoctorID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	SlotID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"slot_id"`
	Status    AppointmentStatus `gorm:"type:varchar(32);not null;index" json:"status"`

	// Set once the booking confirmation has actually been delivered.
	IsMailSent bool      `gorm:"not null;default:false" json:"is_mail_sent"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`

	Doctor  *Doctor  `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"doctor,omitempty"`
	Patient *Patient `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"patient,omitempty"`
	Slot    *Slot    `gorm:"foreignKey:SlotID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"slot,omitempty"`
}

// Active reports whether the appointment still holds its slot.
func (a *Appointment) Active() bool {
	return a.Status != AppointmentStatusCancelled
}
