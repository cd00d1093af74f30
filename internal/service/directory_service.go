package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/auth"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/query"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/repository"
)

// DirectoryService serves the doctor directory and patient profiles.
type DirectoryService struct {
	db       *gorm.DB
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	users    repository.UserRepository
}

func NewDirectoryService(
	db *gorm.DB,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	users repository.UserRepository,
) *DirectoryService {
	return &DirectoryService{db: db, doctors: doctors, patients: patients, users: users}
}

// ListDoctors pages through the doctor directory. Free-text search covers
// speciality and the linked user profile.
func (s *DirectoryService) ListDoctors(ctx context.Context, spec query.Spec) (query.Page[model.Doctor], error) {
	return query.Run[model.Doctor](ctx, s.db.Preload("User"), query.Doctors(), spec)
}

// ListPatients pages through patients; admin-only surface.
func (s *DirectoryService) ListPatients(ctx context.Context, spec query.Spec) (query.Page[model.Patient], error) {
	return query.Run[model.Patient](ctx, s.db.Preload("User"), query.Patients(), spec)
}

// PatientProfile returns the calling patient's profile with the user loaded.
func (s *DirectoryService) PatientProfile(ctx context.Context, actor auth.Identity) (*model.Patient, error) {
	patient, err := s.patients.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, patient.UserID)
	if err != nil {
		return nil, err
	}
	patient.User = user
	return patient, nil
}

// ProfileUpdate carries the contact fields a patient may change.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

// UpdatePatientProfile applies contact changes to the calling patient's
// linked user record.
func (s *DirectoryService) UpdatePatientProfile(
	ctx context.Context,
	actor auth.Identity,
	upd ProfileUpdate,
) (*model.Patient, error) {
	patient, err := s.patients.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, patient.UserID)
	if err != nil {
		return nil, err
	}

	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	user.ModifiedBy = &actor.UserID

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	patient.User = user
	return patient, nil
}
