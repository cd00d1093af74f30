// Package httpapi is the HTTP transport: routing, identity middleware,
// request decoding and the uniform response envelope.
package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/apperr"
	"github.com/slayer-yash/medical-appointment-booking-system/internal/query"
)

// APIResponse is the envelope every endpoint answers with. TotalRecords and
// CurrentPage are only set on paginated list responses.
type APIResponse struct {
	Success      bool   `json:"success"`
	StatusCode   int    `json:"status_code"`
	Message      string `json:"message"`
	TotalRecords *int64 `json:"total_records,omitempty"`
	CurrentPage  *int   `json:"current_page,omitempty"`
	Data         any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func ok(w http.ResponseWriter, status int, message string, data any) {
	respond(w, status, APIResponse{
		Success:    true,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

func okPage[T any](w http.ResponseWriter, message string, page query.Page[T]) {
	respond(w, http.StatusOK, APIResponse{
		Success:      true,
		StatusCode:   http.StatusOK,
		Message:      message,
		TotalRecords: &page.Total,
		CurrentPage:  &page.Page,
		Data:         page.Items,
	})
}

// fail writes the error envelope. Internal causes are logged but never
// exposed to clients.
func fail(w http.ResponseWriter, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
	respond(w, status, APIResponse{
		Success:    false,
		StatusCode: status,
		Message:    apperr.Message(err),
	})
}
