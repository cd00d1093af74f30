package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/auth"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/config"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/notify"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection pins every caller, transactions included, to the same
	// in-memory database and serializes concurrent access.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, model.AutoMigrate(db))
	return db
}

var userSeq int

func seedUser(t *testing.T, db *gorm.DB, role model.Role) *model.User {
	t.Helper()
	userSeq++
	u := &model.User{
		Username:  fmt.Sprintf("user%d", userSeq),
		FirstName: fmt.Sprintf("First%d", userSeq),
		LastName:  fmt.Sprintf("Last%d", userSeq),
		Email:     fmt.Sprintf("user%d@example.com", userSeq),
		Phone:     fmt.Sprintf("9%09d", userSeq),
		Role:      role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedDoctor(t *testing.T, db *gorm.DB, speciality string) *model.Doctor {
	t.Helper()
	u := seedUser(t, db, model.RoleDoctor)
	d := &model.Doctor{UserID: u.ID, Speciality: speciality}
	require.NoError(t, db.Create(d).Error)
	return d
}

func seedPatient(t *testing.T, db *gorm.DB) *model.Patient {
	t.Helper()
	u := seedUser(t, db, model.RolePatient)
	p := &model.Patient{UserID: u.ID}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedSlot(t *testing.T, db *gorm.DB, doctorID uuid.UUID, start time.Time, booked bool) *model.Slot {
	t.Helper()
	s := &model.Slot{
		DoctorID:  doctorID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		IsBooked:  booked,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func patientActor(p *model.Patient) auth.Identity {
	return auth.Identity{UserID: p.UserID, Role: model.RolePatient}
}

func doctorActor(d *model.Doctor) auth.Identity {
	return auth.Identity{UserID: d.UserID, Role: model.RoleDoctor}
}

func adminActor(t *testing.T, db *gorm.DB) auth.Identity {
	t.Helper()
	u := seedUser(t, db, model.RoleAdmin)
	return auth.Identity{UserID: u.ID, Role: model.RoleAdmin}
}

// testNow is the frozen clock the service tests run against.
var testNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func newSlotService(t *testing.T, db *gorm.DB, cfg config.SlotConfig) *SlotService {
	t.Helper()
	svc := NewSlotService(
		db,
		repository.NewGormSlotRepository(db),
		repository.NewGormDoctorRepository(db),
		repository.NewGormEventRepository(db),
		cfg,
		time.UTC,
		zap.NewNop(),
	)
	svc.now = func() time.Time { return testNow }
	return svc
}

func newAppointmentService(t *testing.T, db *gorm.DB) *AppointmentService {
	t.Helper()
	svc := NewAppointmentService(
		db,
		repository.NewGormAppointmentRepository(db),
		repository.NewGormSlotRepository(db),
		repository.NewGormDoctorRepository(db),
		repository.NewGormPatientRepository(db),
		repository.NewGormUserRepository(db),
		repository.NewGormEventRepository(db),
		notify.NopNotifier{},
		zap.NewNop(),
	)
	svc.now = func() time.Time { return testNow }
	return svc
}
