package http

import (
	"net/http"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/validate"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/frontandrew/fleetflow/internal/usecase/fleet"
)

// statusRequest - тело запроса смены статуса
type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// VehicleHandler обрабатывает запросы к машинам
type VehicleHandler struct {
	vehicleService VehicleService
	logger         logger.Logger
}

// NewVehicleHandler создает новый handler
func NewVehicleHandler(vehicleService VehicleService, logger logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		logger:         logger,
	}
}

// ListVehicles возвращает парк, опционально по статусу
// GET /api/vehicles?status=Available
func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	filter := repository.VehicleFilter{
		Status: domain.VehicleStatus(r.URL.Query().Get("status")),
	}

	vehicles, err := h.vehicleService.ListVehicles(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, vehicles)
}

// ListAvailable возвращает машины со статусом Available
// GET /api/vehicles/available
func (h *VehicleHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicleService.ListAvailableVehicles(r.Context())
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, vehicles)
}

// Suggest ранжирует свободные машины под вес груза
// GET /api/vehicles/suggest?weight=4000
func (h *VehicleHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	weight, err := parseFloatQuery(r, "weight")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	suggestions, err := h.vehicleService.SuggestVehicles(r.Context(), weight)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, suggestions)
}

// GetVehicle возвращает машину по ID
// GET /api/vehicles/{id}
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	vehicle, err := h.vehicleService.GetVehicle(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, vehicle)
}

// CreateVehicle регистрирует машину
// POST /api/vehicles
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req fleet.CreateVehicleRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(r.Context(), &req)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusCreated, vehicle)
}

// UpdateVehicle обновляет паспортные данные машины
// PUT /api/vehicles/{id}
func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	var req fleet.UpdateVehicleRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(r.Context(), id, &req)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, vehicle)
}

// SetStatus переключает машину между Available и Idle
// PATCH /api/vehicles/{id}/status
func (h *VehicleHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	var req statusRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	vehicle, err := h.vehicleService.SetVehicleStatus(r.Context(), id, domain.VehicleStatus(req.Status))
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, vehicle)
}

// DeleteVehicle удаляет машину
// DELETE /api/vehicles/{id}
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	if err := h.vehicleService.DeleteVehicle(r.Context(), id); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Vehicle deleted",
	})
}
