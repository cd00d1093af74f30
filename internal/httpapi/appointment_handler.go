package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
)

type bookAppointmentRequest struct {
	SlotID uuid.UUID `json:"slot_id" validate:"required"`

	// Only meaningful for admins booking on a patient's behalf.
	PatientID *uuid.UUID `json:"patient_id"`
}

type updateAppointmentRequest struct {
	Status string `json:"status" validate:"required,oneof=cancelled completed"`
}

// POST /api/v1/appointments/book
func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	var req bookAppointmentRequest
	if err := s.decode(r, &req); err != nil {
		fail(w, s.log, err)
		return
	}

	appt, err := s.appts.Book(r.Context(), identity(r), req.SlotID, req.PatientID)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	ok(w, http.StatusCreated, "appointment booked", appt)
}

// POST /api/v1/appointments/{appointmentID}/cancel
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	apptID, err := uuidParam(r, "appointmentID")
	if err != nil {
		fail(w, s.log, err)
		return
	}

	appt, err := s.appts.Cancel(r.Context(), identity(r), apptID)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	ok(w, http.StatusOK, "appointment cancelled", appt)
}

// PATCH /api/v1/appointments/{appointmentID}
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	apptID, err := uuidParam(r, "appointmentID")
	if err != nil {
		fail(w, s.log, err)
		return
	}
	var req updateAppointmentRequest
	if err := s.decode(r, &req); err != nil {
		fail(w, s.log, err)
		return
	}

	appt, err := s.appts.UpdateStatus(r.Context(), identity(r), apptID, model.AppointmentStatus(req.Status))
	if err != nil {
		fail(w, s.log, err)
		return
	}
	ok(w, http.StatusOK, "appointment updated", appt)
}

// GET /api/v1/appointments/me/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	spec, err := querySpec(r)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	page, err := s.appts.History(r.Context(), identity(r), spec)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	okPage(w, "appointment history", page)
}

// GET /api/v1/appointments/me/upcoming
func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	spec, err := querySpec(r)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	page, err := s.appts.Upcoming(r.Context(), identity(r), spec)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	okPage(w, "upcoming appointments", page)
}

// GET /api/v1/appointments
func (s *Server) handleAllAppointments(w http.ResponseWriter, r *http.Request) {
	spec, err := querySpec(r)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	page, err := s.appts.All(r.Context(), spec)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	okPage(w, "appointments", page)
}
