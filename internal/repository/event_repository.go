package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
)

// EventRepository appends to the audit trail. Events are written inside the
// transaction that performs the transition they describe.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	WithTx(tx *gorm.DB) EventRepository
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) WithTx(tx *gorm.DB) EventRepository {
	return &GormEventRepository{db: tx}
}

func (r *GormEventRepository) Create(ctx context.Context, event *model.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return apperr.Internal(err, "create event")
	}
	return nil
}
