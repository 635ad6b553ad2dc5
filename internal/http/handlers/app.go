package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"kovil/internal/dashboard"
	"kovil/internal/domain"
	"kovil/internal/donation"
	"kovil/internal/donor"
	"kovil/internal/importer"
	"kovil/internal/infra"
	"kovil/internal/infra/credentials"
	"kovil/internal/middleware"
	"kovil/internal/receipt"
)

const maxJSONBody = 1 << 20

type App struct {
	Config      *infra.Config
	Logger      zerolog.Logger
	Location    *time.Location
	Donations   *donation.Service
	Receipts    *receipt.Allocator
	Donors      *donor.Aggregator
	Dashboard   *dashboard.Service
	Importer    *importer.Pipeline
	Credentials *credentials.Store
	Sessions    *middleware.Sessions
	// Ping reports storage reachability for the health check; nil means
	// the store is in-process.
	Ping func(ctx context.Context) error
}

type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorResponse{Error: errCode, Message: message})
}

// fail maps err onto a status code. notFound is the message used for
// domain.ErrNotFound; anything unrecognized is logged and reported as a 500.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		verr *domain.ValidationError
		derr *domain.DuplicateReceiptError
		werr *credentials.WeakPasswordError
	)
	switch {
	case errors.As(err, &verr):
		a.json(w, http.StatusBadRequest, errorResponse{Error: "validation_failed", Message: "Invalid donation data", Details: verr.Reasons})
	case errors.As(err, &derr):
		a.error(w, http.StatusConflict, "duplicate_receipt", derr.Error())
	case errors.Is(err, domain.ErrDuplicateReceipt):
		a.error(w, http.StatusConflict, "duplicate_receipt", "Receipt number already exists")
	case errors.As(err, &werr):
		a.json(w, http.StatusBadRequest, errorResponse{Error: "weak_password", Message: "Password does not meet security requirements", Details: werr.Reasons})
	case errors.Is(err, domain.ErrNotFound):
		if notFound == "" {
			notFound = "Not found"
		}
		a.error(w, http.StatusNotFound, "not_found", notFound)
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
	case errors.Is(err, importer.ErrNoData):
		a.error(w, http.StatusBadRequest, "no_data", "No data found in file")
	case errors.Is(err, importer.ErrUnsupportedType):
		a.error(w, http.StatusBadRequest, "unsupported_file", "Only CSV and Excel files are allowed")
	case errors.Is(err, importer.ErrTooLarge):
		a.error(w, http.StatusRequestEntityTooLarge, "file_too_large", "File is too large")
	default:
		a.Logger.Error().Err(err).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "Internal server error")
	}
}

// decode reads a JSON body of at most maxJSONBody bytes into v.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid payload: %v", err))
		return false
	}
	return true
}

func (a *App) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.UTC
}
