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
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/notify"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/query"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/repository"
)

// AppointmentService owns the appointment lifecycle: booking, cancellation
// and completion, each with its slot-state side effects and audit trail.
type AppointmentService struct {
	db       *gorm.DB
	appts    repository.AppointmentRepository
	slots    repository.SlotRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	users    repository.UserRepository
	events   repository.EventRepository
	notifier notify.Notifier
	log      *zap.Logger

	now func() time.Time
}

func NewAppointmentService(
	db *gorm.DB,
	appts repository.AppointmentRepository,
	slots repository.SlotRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	users repository.UserRepository,
	events repository.EventRepository,
	notifier notify.Notifier,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		db:       db,
		appts:    appts,
		slots:    slots,
		doctors:  doctors,
		patients: patients,
		users:    users,
		events:   events,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Book claims a slot for a patient and creates the appointment. The claim
// is a conditional update on is_booked inside the transaction, so of any
// number of concurrent bookings for the same slot exactly one commits and
// the rest fail with a conflict.
func (s *AppointmentService) Book(
	ctx context.Context,
	actor auth.Identity,
	slotID uuid.UUID,
	forPatient *uuid.UUID,
) (*model.Appointment, error) {
	var patient *model.Patient
	switch actor.Role {
	case model.RolePatient:
		own, err := s.patients.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if forPatient != nil && *forPatient != own.ID {
			return nil, apperr.Forbiddenf("patients may only book for themselves")
		}
		patient = own
	case model.RoleAdmin:
		if forPatient == nil {
			return nil, apperr.Validationf("patient_id is required when booking as admin")
		}
		p, err := s.patients.GetByID(ctx, *forPatient)
		if err != nil {
			return nil, err
		}
		patient = p
	default:
		return nil, apperr.Forbiddenf("role %s cannot book appointments", actor.Role)
	}

	var (
		appt *model.Appointment
		slot *model.Slot
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		slot, err = s.slots.WithTx(tx).GetByID(ctx, slotID)
		if err != nil {
			return err
		}
		if !slot.StartTime.After(s.now().UTC()) {
			return apperr.Validationf("slot %s has already started", slotID)
		}

		res := tx.Model(&model.Slot{}).
			Where("id = ? AND is_booked = ?", slotID, false).
			Updates(map[string]any{"is_booked": true, "modified_by": actor.UserID})
		if res.Error != nil {
			return apperr.Internal(res.Error, "claim slot")
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("slot %s is already booked", slotID)
		}

		appt = &model.Appointment{
			Base:      model.Base{ModifiedBy: &actor.UserID},
			DoctorID:  slot.DoctorID,
			PatientID: patient.ID,
			SlotID:    slot.ID,
			Status:    model.AppointmentStatusBooked,
			CreatedBy: actor.UserID,
		}
		if err := s.appts.WithTx(tx).Create(ctx, appt); err != nil {
			return err
		}

		return s.recordEvent(ctx, tx, model.EventTypeAppointmentBooked, actor.UserID, appt.ID, map[string]any{
			"slot_id":    slot.ID,
			"doctor_id":  slot.DoctorID,
			"patient_id": patient.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	go s.dispatchConfirmation(appt.ID, patient.ID, slot)
	return appt, nil
}

// Cancel releases an active appointment and frees its slot. Only the
// owning patient (or an admin) may cancel, and only before the slot has
// started; past appointments go through the administrative path.
func (s *AppointmentService) Cancel(
	ctx context.Context,
	actor auth.Identity,
	apptID uuid.UUID,
) (*model.Appointment, error) {
	appt, err := s.appts.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOn(ctx, actor, appt); err != nil {
		return nil, err
	}
	if appt.Slot != nil && !appt.Slot.StartTime.After(s.now().UTC()) {
		return nil, apperr.Conflictf("appointment %s cannot be cancelled after its slot has started", apptID)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Appointment{}).
			Where("id = ? AND status = ?", apptID, model.AppointmentStatusBooked).
			Updates(map[string]any{"status": model.AppointmentStatusCancelled, "modified_by": actor.UserID})
		if res.Error != nil {
			return apperr.Internal(res.Error, "cancel appointment")
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("appointment %s is not active", apptID)
		}

		err := tx.Model(&model.Slot{}).
			Where("id = ?", appt.SlotID).
			Updates(map[string]any{"is_booked": false, "modified_by": actor.UserID}).Error
		if err != nil {
			return apperr.Internal(err, "release slot")
		}

		return s.recordEvent(ctx, tx, model.EventTypeAppointmentCancelled, actor.UserID, appt.ID, map[string]any{
			"slot_id": appt.SlotID,
		})
	})
	if err != nil {
		return nil, err
	}

	appt.Status = model.AppointmentStatusCancelled
	appt.ModifiedBy = &actor.UserID
	return appt, nil
}

// UpdateStatus moves an appointment to a terminal state on behalf of an
// administrator. Completion is only valid once the slot has started. An
// administrative cancellation frees the slot when it still lies in the
// future; a past slot's booked flag is left as-is.
func (s *AppointmentService) UpdateStatus(
	ctx context.Context,
	actor auth.Identity,
	apptID uuid.UUID,
	status model.AppointmentStatus,
) (*model.Appointment, error) {
	switch status {
	case model.AppointmentStatusCancelled, model.AppointmentStatusCompleted:
	default:
		return nil, apperr.Validationf("status must move to cancelled or completed, got %q", status)
	}

	appt, err := s.appts.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}

	slotStarted := appt.Slot != nil && !appt.Slot.StartTime.After(s.now().UTC())
	if status == model.AppointmentStatusCompleted && !slotStarted {
		return nil, apperr.Conflictf("appointment %s cannot be completed before its slot starts", apptID)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Appointment{}).
			Where("id = ? AND status = ?", apptID, model.AppointmentStatusBooked).
			Updates(map[string]any{"status": status, "modified_by": actor.UserID})
		if res.Error != nil {
			return apperr.Internal(res.Error, "update appointment status")
		}
		if res.RowsAffected == 0 {
			return apperr.Conflictf("appointment %s is not active", apptID)
		}

		if status == model.AppointmentStatusCancelled && !slotStarted {
			err := tx.Model(&model.Slot{}).
				Where("id = ?", appt.SlotID).
				Updates(map[string]any{"is_booked": false, "modified_by": actor.UserID}).Error
			if err != nil {
				return apperr.Internal(err, "release slot")
			}
		}

		return s.recordEvent(ctx, tx, model.EventTypeAppointmentUpdated, actor.UserID, appt.ID, map[string]any{
			"status": status,
		})
	})
	if err != nil {
		return nil, err
	}

	appt.Status = status
	appt.ModifiedBy = &actor.UserID
	return appt, nil
}

// History pages through the caller's past and cancelled appointments.
func (s *AppointmentService) History(
	ctx context.Context,
	actor auth.Identity,
	spec query.Spec,
) (query.Page[model.Appointment], error) {
	base, err := s.scopedBase(ctx, actor)
	if err != nil {
		return query.Page[model.Appointment]{}, err
	}
	base = base.Where(
		"slots.start_time <= ? OR appointments.status = ?",
		s.now().UTC(), model.AppointmentStatusCancelled,
	)
	return query.Run[model.Appointment](ctx, base, query.Appointments(), spec)
}

// Upcoming pages through the caller's active future appointments.
func (s *AppointmentService) Upcoming(
	ctx context.Context,
	actor auth.Identity,
	spec query.Spec,
) (query.Page[model.Appointment], error) {
	base, err := s.scopedBase(ctx, actor)
	if err != nil {
		return query.Page[model.Appointment]{}, err
	}
	base = base.
		Where("slots.start_time > ?", s.now().UTC()).
		Where("appointments.status = ?", model.AppointmentStatusBooked)
	return query.Run[model.Appointment](ctx, base, query.Appointments(), spec)
}

// All pages through every appointment; admin-only surface.
func (s *AppointmentService) All(
	ctx context.Context,
	spec query.Spec,
) (query.Page[model.Appointment], error) {
	return query.Run[model.Appointment](ctx, s.db.Preload("Slot"), query.Appointments(), spec)
}

// scopedBase restricts appointment queries to what the actor may see:
// patients their own, doctors those on their slots, admins everything.
func (s *AppointmentService) scopedBase(ctx context.Context, actor auth.Identity) (*gorm.DB, error) {
	base := s.db.Preload("Slot")
	switch actor.Role {
	case model.RolePatient:
		p, err := s.patients.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		return base.Where("appointments.patient_id = ?", p.ID), nil
	case model.RoleDoctor:
		d, err := s.doctors.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		return base.Where("appointments.doctor_id = ?", d.ID), nil
	case model.RoleAdmin:
		return base, nil
	default:
		return nil, apperr.Forbiddenf("role %s cannot list appointments", actor.Role)
	}
}

func (s *AppointmentService) authorizeOn(ctx context.Context, actor auth.Identity, appt *model.Appointment) error {
	switch actor.Role {
	case model.RoleAdmin:
		return nil
	case model.RolePatient:
		p, err := s.patients.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if p.ID != appt.PatientID {
			return apperr.Forbiddenf("appointment %s belongs to another patient", appt.ID)
		}
		return nil
	default:
		return apperr.Forbiddenf("role %s cannot cancel appointment %s", actor.Role, appt.ID)
	}
}

func (s *AppointmentService) recordEvent(
	ctx context.Context,
	tx *gorm.DB,
	eventType model.EventType,
	userID, apptID uuid.UUID,
	details map[string]any,
) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return apperr.Internal(err, "marshal event details")
	}
	return s.events.WithTx(tx).Create(ctx, &model.Event{
		EventType:     eventType,
		UserID:        &userID,
		AppointmentID: &apptID,
		Details:       datatypes.JSON(payload),
	})
}

// dispatchConfirmation sends the booking confirmation off the request path.
// Delivery is best-effort; only a successful send flips is_mail_sent.
func (s *AppointmentService) dispatchConfirmation(apptID, patientID uuid.UUID, slot *model.Slot) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	patient, err := s.patients.GetByID(ctx, patientID)
	if err == nil {
		err = s.sendConfirmation(ctx, apptID, patient, slot)
	}
	if err != nil {
		s.log.Warn("booking confirmation not delivered",
			zap.String("appointment_id", apptID.String()), zap.Error(err))
		return
	}

	if err := s.appts.MarkMailSent(ctx, apptID); err != nil {
		s.log.Warn("mark mail sent failed",
			zap.String("appointment_id", apptID.String()), zap.Error(err))
	}
}

func (s *AppointmentService) sendConfirmation(
	ctx context.Context,
	apptID uuid.UUID,
	patient *model.Patient,
	slot *model.Slot,
) error {
	patientUser, err := s.users.GetByID(ctx, patient.UserID)
	if err != nil {
		return err
	}
	doctor, err := s.doctors.GetByID(ctx, slot.DoctorID)
	if err != nil {
		return err
	}
	doctorUser, err := s.users.GetByID(ctx, doctor.UserID)
	if err != nil {
		return err
	}

	return s.notifier.SendBookingConfirmation(ctx, notify.BookingConfirmation{
		AppointmentID: apptID,
		PatientName:   patientUser.FirstName + " " + patientUser.LastName,
		DoctorName:    doctorUser.FirstName + " " + doctorUser.LastName,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		Recipient:     patientUser.Email,
	})
}
