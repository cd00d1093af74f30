package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/query"
)

func TestBook_Success(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)
	slot := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)

	appt, err := svc.Book(context.Background(), patientActor(patient), slot.ID, nil)
	require.NoError(t, err)
	require.Equal(t, model.AppointmentStatusBooked, appt.Status)
	require.Equal(t, doctor.ID, appt.DoctorID)
	require.Equal(t, patient.ID, appt.PatientID)
	require.Equal(t, patient.UserID, appt.CreatedBy)

	var stored model.Slot
	require.NoError(t, db.First(&stored, "id = ?", slot.ID).Error)
	require.True(t, stored.IsBooked)

	var events int64
	require.NoError(t, db.Model(&model.Event{}).
		Where("event_type = ?", model.EventTypeAppointmentBooked).
		Where("appointment_id = ?", appt.ID).
		Count(&events).Error)
	require.EqualValues(t, 1, events)
}

func TestBook_SlotAlreadyBooked(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)
	slot := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), true)

	_, err := svc.Book(context.Background(), patientActor(patient), slot.ID, nil)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestBook_PastSlot(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)
	slot := seedSlot(t, db, doctor.ID, testNow.Add(-time.Hour), false)

	_, err := svc.Book(context.Background(), patientActor(patient), slot.ID, nil)
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestBook_UnknownSlot(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	patient := seedPatient(t, db)

	_, err := svc.Book(context.Background(), patientActor(patient), uuid.New(), nil)
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestBook_DoctorForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	slot := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)

	_, err := svc.Book(context.Background(), doctorActor(doctor), slot.ID, nil)
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestBook_AdminForPatient(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)
	slot := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)
	admin := adminActor(t, db)

	appt, err := svc.Book(context.Background(), admin, slot.ID, &patient.ID)
	require.NoError(t, err)
	require.Equal(t, patient.ID, appt.PatientID)
	require.Equal(t, admin.UserID, appt.CreatedBy)

	// Admin bookings without a target patient are rejected.
	other := seedSlot(t, db, doctor.ID, testNow.Add(3*time.Hour), false)
	_, err = svc.Book(context.Background(), admin, other.ID, nil)
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestBook_ConcurrentSingleWinner(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patientA := seedPatient(t, db)
	patientB := seedPatient(t, db)
	slot := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.Book(context.Background(), patientActor(patientA), slot.ID, nil)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.Book(context.Background(), patientActor(patientB), slot.ID, nil)
	}()
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
			lost++
		}
	}
	require.Equal(t, 1, won)
	require.Equal(t, 1, lost)

	var active int64
	require.NoError(t, db.Model(&model.Appointment{}).
		Where("slot_id = ?", slot.ID).
		Where("status <> ?", model.AppointmentStatusCancelled).
		Count(&active).Error)
	require.EqualValues(t, 1, active)
}

func TestCancel_ReleasesSlot(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)
	slot := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)

	appt, err := svc.Book(context.Background(), patientActor(patient), slot.ID, nil)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), patientActor(patient), appt.ID)
	require.NoError(t, err)
	require.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)

	var stored model.Slot
	require.NoError(t, db.First(&stored, "id = ?", slot.ID).Error)
	require.False(t, stored.IsBooked, "cancel must release the slot")

	// The freed slot is immediately bookable again.
	other := seedPatient(t, db)
	_, err = svc.Book(context.Background(), patientActor(other), slot.ID, nil)
	require.NoError(t, err)
}

func TestCancel_Twice(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)
	slot := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)

	appt, err := svc.Book(context.Background(), patientActor(patient), slot.ID, nil)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), patientActor(patient), appt.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), patientActor(patient), appt.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCancel_OtherPatientForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	owner := seedPatient(t, db)
	intruder := seedPatient(t, db)
	slot := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)

	appt, err := svc.Book(context.Background(), patientActor(owner), slot.ID, nil)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), patientActor(intruder), appt.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	var stored model.Slot
	require.NoError(t, db.First(&stored, "id = ?", slot.ID).Error)
	require.True(t, stored.IsBooked)
}

func TestCancel_AfterSlotStart(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)
	slot := seedSlot(t, db, doctor.ID, testNow.Add(-time.Hour), true)

	appt := &model.Appointment{
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		SlotID:    slot.ID,
		Status:    model.AppointmentStatusBooked,
		CreatedBy: patient.UserID,
	}
	require.NoError(t, db.Create(appt).Error)

	_, err := svc.Cancel(context.Background(), patientActor(patient), appt.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestUpdateStatus_CompletionTimeGate(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)
	admin := adminActor(t, db)

	future := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)
	appt, err := svc.Book(context.Background(), patientActor(patient), future.ID, nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), admin, appt.ID, model.AppointmentStatusCompleted)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	past := seedSlot(t, db, doctor.ID, testNow.Add(-2*time.Hour), true)
	pastAppt := &model.Appointment{
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		SlotID:    past.ID,
		Status:    model.AppointmentStatusBooked,
		CreatedBy: patient.UserID,
	}
	require.NoError(t, db.Create(pastAppt).Error)

	completed, err := svc.UpdateStatus(context.Background(), admin, pastAppt.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, model.AppointmentStatusCompleted, completed.Status)

	// Completion consumes the slot; it stays booked.
	var stored model.Slot
	require.NoError(t, db.First(&stored, "id = ?", past.ID).Error)
	require.True(t, stored.IsBooked)

	// Terminal states reject further transitions.
	_, err = svc.UpdateStatus(context.Background(), admin, pastAppt.ID, model.AppointmentStatusCompleted)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestUpdateStatus_AdminCancel(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)
	admin := adminActor(t, db)

	// Future slot: admin cancellation frees it.
	future := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)
	appt, err := svc.Book(context.Background(), patientActor(patient), future.ID, nil)
	require.NoError(t, err)

	cancelled, err := svc.UpdateStatus(context.Background(), admin, appt.ID, model.AppointmentStatusCancelled)
	require.NoError(t, err)
	require.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)

	var stored model.Slot
	require.NoError(t, db.First(&stored, "id = ?", future.ID).Error)
	require.False(t, stored.IsBooked)

	// Past slot: the appointment can still be cancelled, the slot is left
	// as-is since its window has closed.
	past := seedSlot(t, db, doctor.ID, testNow.Add(-2*time.Hour), true)
	pastAppt := &model.Appointment{
		DoctorID:  doctor.ID,
		PatientID: patient.ID,
		SlotID:    past.ID,
		Status:    model.AppointmentStatusBooked,
		CreatedBy: patient.UserID,
	}
	require.NoError(t, db.Create(pastAppt).Error)

	_, err = svc.UpdateStatus(context.Background(), admin, pastAppt.ID, model.AppointmentStatusCancelled)
	require.NoError(t, err)

	var pastStored model.Slot
	require.NoError(t, db.First(&pastStored, "id = ?", past.ID).Error)
	require.True(t, pastStored.IsBooked)

	// Cancelled is terminal for the administrative path too.
	_, err = svc.UpdateStatus(context.Background(), admin, pastAppt.ID, model.AppointmentStatusCompleted)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestUpdateStatus_RejectsBooked(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)
	admin := adminActor(t, db)
	slot := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)

	appt, err := svc.Book(context.Background(), patientActor(patient), slot.ID, nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), admin, appt.ID, model.AppointmentStatusBooked)
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestHistoryAndUpcoming(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)

	pastSlot := seedSlot(t, db, doctor.ID, testNow.Add(-3*time.Hour), true)
	past := &model.Appointment{
		DoctorID: doctor.ID, PatientID: patient.ID, SlotID: pastSlot.ID,
		Status: model.AppointmentStatusCompleted, CreatedBy: patient.UserID,
	}
	require.NoError(t, db.Create(past).Error)

	futureSlot := seedSlot(t, db, doctor.ID, testNow.Add(3*time.Hour), false)
	upcoming, err := svc.Book(context.Background(), patientActor(patient), futureSlot.ID, nil)
	require.NoError(t, err)

	cancelledSlot := seedSlot(t, db, doctor.ID, testNow.Add(4*time.Hour), false)
	toCancel, err := svc.Book(context.Background(), patientActor(patient), cancelledSlot.ID, nil)
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), patientActor(patient), toCancel.ID)
	require.NoError(t, err)

	// Another patient's appointment must never leak into the lists.
	other := seedPatient(t, db)
	otherSlot := seedSlot(t, db, doctor.ID, testNow.Add(5*time.Hour), false)
	_, err = svc.Book(context.Background(), patientActor(other), otherSlot.ID, nil)
	require.NoError(t, err)

	spec, err := query.ParseSpec(query.Raw{})
	require.NoError(t, err)

	history, err := svc.History(context.Background(), patientActor(patient), spec)
	require.NoError(t, err)
	require.EqualValues(t, 2, history.Total)
	ids := map[uuid.UUID]bool{}
	for _, a := range history.Items {
		ids[a.ID] = true
	}
	require.True(t, ids[past.ID])
	require.True(t, ids[toCancel.ID])

	up, err := svc.Upcoming(context.Background(), patientActor(patient), spec)
	require.NoError(t, err)
	require.EqualValues(t, 1, up.Total)
	require.Equal(t, upcoming.ID, up.Items[0].ID)
}

func TestDoctorScopedLists(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	docA := seedDoctor(t, db, "cardiology")
	docB := seedDoctor(t, db, "dermatology")
	patient := seedPatient(t, db)

	slotA := seedSlot(t, db, docA.ID, testNow.Add(2*time.Hour), false)
	slotB := seedSlot(t, db, docB.ID, testNow.Add(2*time.Hour), false)
	_, err := svc.Book(context.Background(), patientActor(patient), slotA.ID, nil)
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), patientActor(patient), slotB.ID, nil)
	require.NoError(t, err)

	spec, err := query.ParseSpec(query.Raw{})
	require.NoError(t, err)

	page, err := svc.Upcoming(context.Background(), doctorActor(docA), spec)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, docA.ID, page.Items[0].DoctorID)
}

func TestAll_AdminSeesEverything(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patientA := seedPatient(t, db)
	patientB := seedPatient(t, db)

	slotA := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)
	slotB := seedSlot(t, db, doctor.ID, testNow.Add(3*time.Hour), false)
	_, err := svc.Book(context.Background(), patientActor(patientA), slotA.ID, nil)
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), patientActor(patientB), slotB.ID, nil)
	require.NoError(t, err)

	spec, err := query.ParseSpec(query.Raw{})
	require.NoError(t, err)

	page, err := svc.All(context.Background(), spec)
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)
}

// Booking invariant: a slot is booked iff it has exactly one active
// appointment. Exercised across a book/cancel/rebook sequence.
func TestSlotInvariantAcrossLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newAppointmentService(t, db)
	doctor := seedDoctor(t, db, "cardiology")
	patient := seedPatient(t, db)
	slot := seedSlot(t, db, doctor.ID, testNow.Add(2*time.Hour), false)

	checkInvariant := func() {
		t.Helper()
		var stored model.Slot
		require.NoError(t, db.First(&stored, "id = ?", slot.ID).Error)
		var active int64
		require.NoError(t, db.Model(&model.Appointment{}).
			Where("slot_id = ?", slot.ID).
			Where("status <> ?", model.AppointmentStatusCancelled).
			Count(&active).Error)
		if stored.IsBooked {
			require.EqualValues(t, 1, active)
		} else {
			require.EqualValues(t, 0, active)
		}
	}

	checkInvariant()

	appt, err := svc.Book(context.Background(), patientActor(patient), slot.ID, nil)
	require.NoError(t, err)
	checkInvariant()

	_, err = svc.Cancel(context.Background(), patientActor(patient), appt.ID)
	require.NoError(t, err)
	checkInvariant()

	_, err = svc.Book(context.Background(), patientActor(patient), slot.ID, nil)
	require.NoError(t, err)
	checkInvariant()
}
