package httpapi

import (
	"net/http"
	"time"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/service"
)

type updateSlotRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Notes     *string    `json:"notes" validate:"omitempty,max=1000"`
}

// GET /api/v1/doctors/{doctorID}/slots
func (s *Server) handleAvailableSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuidParam(r, "doctorID")
	if err != nil {
		fail(w, s.log, err)
		return
	}
	from, err := timeQuery(r, "from")
	if err != nil {
		fail(w, s.log, err)
		return
	}
	to, err := timeQuery(r, "to")
	if err != nil {
		fail(w, s.log, err)
		return
	}

	slots, err := s.slots.AvailableSlots(r.Context(), doctorID, from, to)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	ok(w, http.StatusOK, "available slots", slots)
}

// GET /api/v1/doctor-slots/me
func (s *Server) handleOwnSlots(w http.ResponseWriter, r *http.Request) {
	spec, err := querySpec(r)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	page, err := s.slots.OwnSlots(r.Context(), identity(r), spec)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	okPage(w, "doctor slots", page)
}

// PATCH /api/v1/doctor-slots/{slotID}
func (s *Server) handleUpdateSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := uuidParam(r, "slotID")
	if err != nil {
		fail(w, s.log, err)
		return
	}
	var req updateSlotRequest
	if err := s.decode(r, &req); err != nil {
		fail(w, s.log, err)
		return
	}

	slot, err := s.slots.UpdateOwnSlot(r.Context(), identity(r), slotID, service.SlotUpdate{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		fail(w, s.log, err)
		return
	}
	ok(w, http.StatusOK, "slot updated", slot)
}
