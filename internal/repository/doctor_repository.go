package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
)

type DoctorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
	// ListAll returns every doctor; used by the slot generation sweep.
	ListAll(ctx context.Context) ([]model.Doctor, error)
	WithTx(tx *gorm.DB) DoctorRepository
}

type GormDoctorRepository struct {
	db *gorm.DB
}

func NewGormDoctorRepository(db *gorm.DB) *GormDoctorRepository {
	return &GormDoctorRepository{db: db}
}

func (r *GormDoctorRepository) WithTx(tx *gorm.DB) DoctorRepository {
	return &GormDoctorRepository{db: tx}
}

func (r *GormDoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var d model.Doctor
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("doctor %s does not exist", id)
		}
		return nil, apperr.Internal(err, "get doctor")
	}
	return &d, nil
}

func (r *GormDoctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	var d model.Doctor
	if err := r.db.WithContext(ctx).First(&d, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("no doctor profile for user %s", userID)
		}
		return nil, apperr.Internal(err, "get doctor by user")
	}
	return &d, nil
}

func (r *GormDoctorRepository) ListAll(ctx context.Context) ([]model.Doctor, error) {
	var doctors []model.Doctor
	if err := r.db.WithContext(ctx).Find(&doctors).Error; err != nil {
		return nil, apperr.Internal(err, "list doctors")
	}
	return doctors, nil
}
