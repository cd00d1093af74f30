package model

import "github.com/google/uuid"

// Doctor is the provider-side participant. Owns slots; bound to a user
// profile by foreign key, removed together with it.
type Doctor struct {
	Base

	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Speciality string    `gorm:"type:varchar(255)" json:"speciality"`

	User         *User         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	Slots        []Slot        `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
