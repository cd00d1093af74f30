package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/auth"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/config"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/query"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/repository"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/schedule"
)

// SlotDuration is the fixed length of every generated slot.
const SlotDuration = time.Hour

// SlotService owns slot generation and doctor-side slot management.
type SlotService struct {
	db      *gorm.DB
	slots   repository.SlotRepository
	doctors repository.DoctorRepository
	events  repository.EventRepository
	cfg     config.SlotConfig
	loc     *time.Location
	log     *zap.Logger

	// now is swappable in tests.
	now func() time.Time
}

func NewSlotService(
	db *gorm.DB,
	slots repository.SlotRepository,
	doctors repository.DoctorRepository,
	events repository.EventRepository,
	cfg config.SlotConfig,
	loc *time.Location,
	log *zap.Logger,
) *SlotService {
	return &SlotService{
		db:      db,
		slots:   slots,
		doctors: doctors,
		events:  events,
		cfg:     cfg,
		loc:     loc,
		log:     log,
		now:     time.Now,
	}
}

// GenerateSlots populates the rolling window of hourly slots for one doctor
// and returns how many were actually created. Already-existing and
// already-started hours are skipped, so the sweep is idempotent and safe to
// run concurrently: the (doctor, start_time) unique index resolves races.
func (s *SlotService) GenerateSlots(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return 0, err
	}

	now := s.now().In(s.loc)
	var candidates []model.Slot
	for day := 0; day < s.cfg.WindowDays; day++ {
		workday := schedule.WorkdayRange(now.AddDate(0, 0, day), s.cfg.WorkdayStartHour, s.cfg.WorkdayEndHour, s.loc)
		ranges, err := schedule.SplitToSlots(workday, SlotDuration)
		if err != nil {
			return 0, apperr.Internal(err, "split workday")
		}
		for _, tr := range ranges {
			if !tr.Start.After(now) {
				continue
			}
			candidates = append(candidates, model.Slot{
				DoctorID:  doctorID,
				StartTime: tr.Start.UTC(),
				EndTime:   tr.End.UTC(),
			})
		}
	}

	created, err := s.slots.CreateBatch(ctx, candidates)
	if err != nil {
		return 0, err
	}

	if created > 0 {
		details, _ := json.Marshal(map[string]any{
			"doctor_id": doctorID,
			"created":   created,
		})
		event := &model.Event{
			EventType: model.EventTypeSlotsGenerated,
			Details:   datatypes.JSON(details),
		}
		if err := s.events.Create(ctx, event); err != nil {
			s.log.Warn("slot generation audit event failed",
				zap.String("doctor_id", doctorID.String()), zap.Error(err))
		}
	}

	return created, nil
}

// GenerateForAllDoctors runs the generation sweep over every doctor. A
// failure for one doctor is logged and does not stop the sweep.
func (s *SlotService) GenerateForAllDoctors(ctx context.Context) (int64, error) {
	doctors, err := s.doctors.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, d := range doctors {
		created, err := s.GenerateSlots(ctx, d.ID)
		if err != nil {
			s.log.Error("slot generation failed",
				zap.String("doctor_id", d.ID.String()), zap.Error(err))
			continue
		}
		total += created
	}

	s.log.Info("slot generation sweep finished",
		zap.Int("doctors", len(doctors)), zap.Int64("created", total))
	return total, nil
}

// AvailableSlots lists a doctor's unbooked slots, optionally bounded.
func (s *SlotService) AvailableSlots(
	ctx context.Context,
	doctorID uuid.UUID,
	from, to *time.Time,
) ([]model.Slot, error) {
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.slots.ListAvailable(ctx, doctorID, from, to)
}

// OwnSlots lists the calling doctor's slots through the query engine, so
// filters, sorting, search and pagination all apply.
func (s *SlotService) OwnSlots(
	ctx context.Context,
	actor auth.Identity,
	spec query.Spec,
) (query.Page[model.Slot], error) {
	doctor, err := s.doctors.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return query.Page[model.Slot]{}, err
	}

	base := s.db.Where("slots.doctor_id = ?", doctor.ID)
	return query.Run[model.Slot](ctx, base, query.Slots(), spec)
}

// SlotUpdate carries the fields a doctor may change on an own slot.
type SlotUpdate struct {
	StartTime *time.Time
	EndTime   *time.Time
	Notes     *string
}

// UpdateOwnSlot applies a doctor's changes to one of their slots. Times on
// a booked slot are frozen; a retimed slot must not overlap the doctor's
// other slots that day.
func (s *SlotService) UpdateOwnSlot(
	ctx context.Context,
	actor auth.Identity,
	slotID uuid.UUID,
	upd SlotUpdate,
) (*model.Slot, error) {
	doctor, err := s.doctors.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot.DoctorID != doctor.ID {
		return nil, apperr.Forbiddenf("slot %s belongs to another doctor", slotID)
	}

	retimed := upd.StartTime != nil || upd.EndTime != nil
	if retimed {
		if slot.IsBooked {
			return nil, apperr.Conflictf("slot %s is booked, its times cannot change", slotID)
		}

		start, end := slot.StartTime, slot.EndTime
		if upd.StartTime != nil {
			start = upd.StartTime.UTC()
		}
		if upd.EndTime != nil {
			end = upd.EndTime.UTC()
		}
		tr, err := schedule.NewTimeRange(start, end)
		if err != nil {
			return nil, apperr.Validationf("slot end time must be after start time")
		}
		if !tr.Start.After(s.now()) {
			return nil, apperr.Validationf("slot start time must be in the future")
		}

		dayStart := time.Date(tr.Start.Year(), tr.Start.Month(), tr.Start.Day(), 0, 0, 0, 0, time.UTC)
		existing, err := s.slots.ListByDoctor(ctx, doctor.ID, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		var others []schedule.TimeRange
		for _, sl := range existing {
			if sl.ID == slot.ID {
				continue
			}
			others = append(others, schedule.TimeRange{Start: sl.StartTime, End: sl.EndTime})
		}
		if overlap, _ := schedule.HasOverlap(tr, others); overlap {
			return nil, apperr.Conflictf("slot would overlap an existing slot of doctor %s", doctor.ID)
		}

		slot.StartTime = tr.Start
		slot.EndTime = tr.End
	}

	if upd.Notes != nil {
		slot.Notes = *upd.Notes
	}
	slot.ModifiedBy = &actor.UserID

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}
