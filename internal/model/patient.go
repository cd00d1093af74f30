package model

import "github.com/google/uuid"

// Patient is the subject-side participant who books appointments.
type Patient struct {
	Base

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	User         *User         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
