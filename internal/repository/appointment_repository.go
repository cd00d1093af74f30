package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
)

type AppointmentRepository interface {
	// GetByID finds an appointment with its slot loaded.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// Create inserts a new appointment row.
	Create(ctx context.Context, appt *model.Appointment) error
	// MarkMailSent records that the booking confirmation was delivered.
	MarkMailSent(ctx context.Context, id uuid.UUID) error
	// CountActiveBySlot counts non-cancelled appointments for a slot.
	CountActiveBySlot(ctx context.Context, slotID uuid.UUID) (int64, error)
	// WithTx rebinds the repository to a transaction handle.
	WithTx(tx *gorm.DB) AppointmentRepository
}

type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) WithTx(tx *gorm.DB) AppointmentRepository {
	return &GormAppointmentRepository{db: tx}
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appt model.Appointment
	err := r.db.WithContext(ctx).
		Preload("Slot").
		First(&appt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("appointment %s does not exist", id)
		}
		return nil, apperr.Internal(err, "get appointment")
	}
	return &appt, nil
}

func (r *GormAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	if err := r.db.WithContext(ctx).Create(appt).Error; err != nil {
		return apperr.Internal(err, "create appointment")
	}
	return nil
}

func (r *GormAppointmentRepository) MarkMailSent(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("is_mail_sent", true).Error
	if err != nil {
		return apperr.Internal(err, "mark mail sent")
	}
	return nil
}

func (r *GormAppointmentRepository) CountActiveBySlot(ctx context.Context, slotID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("slot_id = ?", slotID).
		Where("status <> ?", model.AppointmentStatusCancelled).
		Count(&n).Error
	if err != nil {
		return 0, apperr.Internal(err, "count active appointments")
	}
	return n, nil
}
