package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/validate"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/frontandrew/fleetflow/internal/usecase/fleet"
	"github.com/google/uuid"
)

// TripHandler обрабатывает запросы к рейсам
type TripHandler struct {
	tripService TripService
	logger      logger.Logger
}

// NewTripHandler создает новый handler
func NewTripHandler(tripService TripService, logger logger.Logger) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// ListTrips возвращает рейсы с подтянутыми машиной и водителем
// GET /api/trips?vehicleId=&driverId=&status=Dispatched,On Trip
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter repository.TripFilter
	if raw := query.Get("vehicleId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondDomainError(w, r, h.logger, domain.NewValidationError("vehicleId", "uuid", "invalid vehicleId"))
			return
		}
		filter.VehicleID = &id
	}
	if raw := query.Get("driverId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondDomainError(w, r, h.logger, domain.NewValidationError("driverId", "uuid", "invalid driverId"))
			return
		}
		filter.DriverID = &id
	}
	if raw := query.Get("status"); raw != "" {
		for _, status := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, domain.TripStatus(strings.TrimSpace(status)))
		}
	}

	trips, err := h.tripService.ListTrips(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, trips)
}

// GetTrip GET /api/trips/{id}
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	trip, err := h.tripService.GetTrip(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, trip)
}

// CreateTrip создает рейс (или черновик) после проверки правил диспетчеризации
// POST /api/trips
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req fleet.CreateTripRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	trip, err := h.tripService.CreateTrip(r.Context(), &req)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusCreated, trip)
}

// UpdateTrip правит черновик
// PUT /api/trips/{id}
func (h *TripHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	var req fleet.UpdateTripRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	trip, err := h.tripService.UpdateTrip(r.Context(), id, &req)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, trip)
}

// DispatchTrip POST /api/trips/{id}/dispatch
func (h *TripHandler) DispatchTrip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tripService.DispatchTrip)
}

// StartTrip POST /api/trips/{id}/start
func (h *TripHandler) StartTrip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tripService.StartTrip)
}

// CancelTrip POST /api/trips/{id}/cancel
func (h *TripHandler) CancelTrip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tripService.CancelTrip)
}

// CompleteTrip завершает рейс; тело с finalOdometer необязательно
// POST /api/trips/{id}/complete
func (h *TripHandler) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	var req fleet.CompleteTripRequest
	if r.ContentLength != 0 {
		if err := validate.Decode(w, r, &req); err != nil {
			respondDomainError(w, r, h.logger, err)
			return
		}
	}

	trip, err := h.tripService.CompleteTrip(r.Context(), id, &req)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, trip)
}

func (h *TripHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id uuid.UUID) (*domain.Trip, error),
) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	trip, err := apply(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, trip)
}
