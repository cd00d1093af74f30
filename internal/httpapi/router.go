package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/auth"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/query"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/service"
)

type Server struct {
	slots     *service.SlotService
	appts     *service.AppointmentService
	directory *service.DirectoryService
	verifier  *auth.TokenVerifier
	validate  *validator.Validate
	log       *zap.Logger
}

func NewServer(
	slots *service.SlotService,
	appts *service.AppointmentService,
	directory *service.DirectoryService,
	verifier *auth.TokenVerifier,
	log *zap.Logger,
) *Server {
	return &Server{
		slots:     slots,
		appts:     appts,
		directory: directory,
		verifier:  verifier,
		validate:  validator.New(),
		log:       log,
	}
}

func (s *Server) Router(rateLimitPerMinute int) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(rateLimitPerMinute, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		ok(w, http.StatusOK, "ok", nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/doctors", s.handleListDoctors)
		r.Get("/doctors/{doctorID}/slots", s.handleAvailableSlots)

		r.Route("/doctor-slots", func(r chi.Router) {
			r.Use(s.requireRole(model.RoleDoctor))
			r.Get("/me", s.handleOwnSlots)
			r.Patch("/{slotID}", s.handleUpdateSlot)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.With(s.requireRole(model.RolePatient, model.RoleAdmin)).Post("/book", s.handleBook)
			r.Post("/{appointmentID}/cancel", s.handleCancel)
			r.With(s.requireRole(model.RoleAdmin)).Patch("/{appointmentID}", s.handleUpdateStatus)
			r.Get("/me/history", s.handleHistory)
			r.Get("/me/upcoming", s.handleUpcoming)
			r.With(s.requireRole(model.RoleAdmin)).Get("/", s.handleAllAppointments)
		})

		r.Route("/patients", func(r chi.Router) {
			r.With(s.requireRole(model.RoleAdmin)).Get("/", s.handleListPatients)
			r.With(s.requireRole(model.RolePatient)).Get("/me", s.handlePatientProfile)
			r.With(s.requireRole(model.RolePatient)).Patch("/me", s.handleUpdateProfile)
		})
	})

	return r
}

// querySpec extracts the generic list parameters shared by every paginated
// endpoint.
func querySpec(r *http.Request) (query.Spec, error) {
	q := r.URL.Query()
	return query.ParseSpec(query.Raw{
		Filters:   q.Get("filters"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Page:      q.Get("page"),
		Limit:     q.Get("limit"),
		Search:    q.Get("search"),
	})
}
