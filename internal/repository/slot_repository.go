package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
)

type SlotRepository interface {
	// GetByID finds a slot.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error)
	// ListAvailable returns a doctor's unbooked slots ordered by start
	// time, optionally bounded.
	ListAvailable(ctx context.Context, doctorID uuid.UUID, from, to *time.Time) ([]model.Slot, error)
	// ListByDoctor returns all of a doctor's slots within a range.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]model.Slot, error)
	// CreateBatch inserts slots, silently skipping (doctor, start_time)
	// pairs that already exist. Returns the number actually created.
	CreateBatch(ctx context.Context, slots []model.Slot) (int64, error)
	// Update persists slot field changes.
	Update(ctx context.Context, slot *model.Slot) error
	// WithTx rebinds the repository to a transaction handle.
	WithTx(tx *gorm.DB) SlotRepository
}

type GormSlotRepository struct {
	db *gorm.DB
}

func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

func (r *GormSlotRepository) WithTx(tx *gorm.DB) SlotRepository {
	return &GormSlotRepository{db: tx}
}

func (r *GormSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	var slot model.Slot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("slot %s does not exist", id)
		}
		return nil, apperr.Internal(err, "get slot")
	}
	return &slot, nil
}

func (r *GormSlotRepository) ListAvailable(
	ctx context.Context,
	doctorID uuid.UUID,
	from, to *time.Time,
) ([]model.Slot, error) {
	q := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Where("is_booked = ?", false)

	if from != nil {
		q = q.Where("start_time >= ?", *from)
	}
	if to != nil {
		q = q.Where("end_time <= ?", *to)
	}

	var slots []model.Slot
	if err := q.Order("start_time ASC").Find(&slots).Error; err != nil {
		return nil, apperr.Internal(err, "list available slots")
	}
	return slots, nil
}

func (r *GormSlotRepository) ListByDoctor(
	ctx context.Context,
	doctorID uuid.UUID,
	from, to time.Time,
) ([]model.Slot, error) {
	var slots []model.Slot
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, apperr.Internal(err, "list doctor slots")
	}
	return slots, nil
}

func (r *GormSlotRepository) CreateBatch(ctx context.Context, slots []model.Slot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	// The unique index on (doctor_id, start_time) is the real duplicate
	// guard; concurrent generation runs land here and only one insert per
	// pair survives.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "start_time"}},
			DoNothing: true,
		}).
		Create(&slots)
	if res.Error != nil {
		return 0, apperr.Internal(res.Error, "create slots")
	}
	return res.RowsAffected, nil
}

func (r *GormSlotRepository) Update(ctx context.Context, slot *model.Slot) error {
	if err := r.db.WithContext(ctx).Save(slot).Error; err != nil {
		return apperr.Internal(err, "update slot")
	}
	return nil
}
