package httpapi

import (
	"net/http"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/service"
)

type updateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
	Email     *string `json:"email" validate:"omitempty,email,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,len=10,numeric"`
}

// GET /api/v1/doctors
func (s *Server) handleListDoctors(w http.ResponseWriter, r *http.Request) {
	spec, err := querySpec(r)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	page, err := s.directory.ListDoctors(r.Context(), spec)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	okPage(w, "doctors", page)
}

// GET /api/v1/patients
func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	spec, err := querySpec(r)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	page, err := s.directory.ListPatients(r.Context(), spec)
	if err != nil {
		fail(w, s.log, err)
		return
	}
	okPage(w, "patients", page)
}

// GET /api/v1/patients/me
func (s *Server) handlePatientProfile(w http.ResponseWriter, r *http.Request) {
	patient, err := s.directory.PatientProfile(r.Context(), identity(r))
	if err != nil {
		fail(w, s.log, err)
		return
	}
	ok(w, http.StatusOK, "patient profile", patient)
}

// PATCH /api/v1/patients/me
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := s.decode(r, &req); err != nil {
		fail(w, s.log, err)
		return
	}

	patient, err := s.directory.UpdatePatientProfile(r.Context(), identity(r), service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		fail(w, s.log, err)
		return
	}
	ok(w, http.StatusOK, "patient profile updated", patient)
}
