package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/auth"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/model"
)

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// authenticate resolves the bearer token to an identity and stores it on
// the request context. Every /api/v1 route sits behind this.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || raw == "" {
			fail(w, s.log, apperr.Unauthenticatedf("missing bearer token"))
			return
		}
		id, err := s.verifier.Verify(raw)
		if err != nil {
			fail(w, s.log, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), id)))
	})
}

// requireRole gates a route to the given roles.
func (s *Server) requireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, okID := auth.IdentityFrom(r.Context())
			if !okID {
				fail(w, s.log, apperr.Unauthenticatedf("missing identity"))
				return
			}
			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			fail(w, s.log, apperr.Forbiddenf("role %s is not allowed here", id.Role))
		})
	}
}
