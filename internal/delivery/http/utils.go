package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// respondJSON отправляет JSON ответ
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to marshal response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondData отправляет успешный ответ
func respondData(w http.ResponseWriter, code int, data interface{}) {
	respondJSON(w, code, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// respondError отправляет JSON ответ с ошибкой
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// statusFor переводит класс доменной ошибки в HTTP статус
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError отправляет ошибку сервиса.
// Непредвиденные ошибки логируются и скрываются от клиента.
func respondDomainError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	kind := domain.KindOf(err)

	if kind == domain.KindUnexpected {
		log.Error("Unexpected error", map[string]interface{}{
			"error":      err.Error(),
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": chiMiddleware.GetReqID(r.Context()),
		})
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	body := map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) && len(validationErr.Details) > 0 {
		body["details"] = validationErr.Details
	}

	respondJSON(w, statusFor(kind), body)
}

// parseID извлекает UUID из параметра пути
func parseID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(param, "uuid", "invalid "+param)
	}
	return id, nil
}

// parseFloatQuery читает обязательный числовой query параметр
func parseFloatQuery(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, domain.NewValidationError(name, "required", name+" is required")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.NewValidationError(name, "number", name+" must be a number")
	}
	return value, nil
}

// parseIntQuery читает необязательный целый query параметр
func parseIntQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "number", name+" must be an integer")
	}
	return value, nil
}
