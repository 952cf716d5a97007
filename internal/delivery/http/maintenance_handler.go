package http

import (
	"net/http"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/validate"
	"github.com/frontandrew/fleetflow/internal/repository"
	"github.com/frontandrew/fleetflow/internal/usecase/fleet"
	"github.com/google/uuid"
)

// MaintenanceHandler обрабатывает заявки на ремонт
type MaintenanceHandler struct {
	maintenanceService MaintenanceService
	logger             logger.Logger
}

// NewMaintenanceHandler создает новый handler
func NewMaintenanceHandler(maintenanceService MaintenanceService, logger logger.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

// ListMaintenance GET /api/maintenance?vehicleId=&open=true
func (h *MaintenanceHandler) ListMaintenance(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.MaintenanceFilter{
		OpenOnly: query.Get("open") == "true",
	}
	if raw := query.Get("vehicleId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondDomainError(w, r, h.logger, domain.NewValidationError("vehicleId", "uuid", "invalid vehicleId"))
			return
		}
		filter.VehicleID = &id
	}

	logs, err := h.maintenanceService.ListMaintenance(r.Context(), filter)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, logs)
}

// GetMaintenance GET /api/maintenance/{id}
func (h *MaintenanceHandler) GetMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	log, err := h.maintenanceService.GetMaintenance(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, log)
}

// LogMaintenance открывает заявку; машина уходит в сервис
// POST /api/maintenance
func (h *MaintenanceHandler) LogMaintenance(w http.ResponseWriter, r *http.Request) {
	var req fleet.LogMaintenanceRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	log, err := h.maintenanceService.LogMaintenance(r.Context(), &req)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusCreated, log)
}

// UpdateStatus PATCH /api/maintenance/{id}/status
func (h *MaintenanceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	var req fleet.UpdateMaintenanceStatusRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	log, err := h.maintenanceService.UpdateMaintenanceStatus(r.Context(), id, req.Status)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, log)
}

// Resolve POST /api/maintenance/{id}/resolve
func (h *MaintenanceHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	log, err := h.maintenanceService.ResolveMaintenance(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, log)
}
