package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and modification metadata shared by every
// entity. Embedded rather than inherited; GORM promotes the fields and the
// BeforeCreate hook onto each model.
type Base struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	ModifiedAt time.Time  `gorm:"not null;autoUpdateTime" json:"modified_at"`
	ModifiedBy *uuid.UUID `gorm:"type:uuid" json:"modified_by,omitempty"`
}

// BeforeCreate assigns the primary key application-side so the models work
// identically against Postgres and the SQLite test fixtures.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
