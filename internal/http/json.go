package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"memorizer/internal/core"
	"memorizer/internal/ledger"
	applog "memorizer/internal/log"
)

type errorBody struct {
	Error string `json:"error"`
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.LogError(r.Context(), "Failed to encode response", err, applog.ComponentHTTP, "encode")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorBody{Error: msg})
}

// validationMessage reports the first failing field by its JSON name.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err.Error()
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

// statusFor maps domain and storage errors to a status and a client-facing message.
func statusFor(err error) (int, string) {
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, validationMessage(err)
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound, ledger.ErrNotFound.Error()
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrUnknownEntryKind), core.IsValidation(err):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeServiceError logs the cause of a 500 and answers with the JSON error body.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		applog.LogError(r.Context(), "Ledger operation failed", err, applog.ComponentHTTP, op)
	}
	writeError(w, r, status, msg)
}
