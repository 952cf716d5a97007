package http

import (
	"net/http"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/validate"
	"github.com/frontandrew/fleetflow/internal/usecase/fleet"
)

// DriverHandler обрабатывает запросы к водителям
type DriverHandler struct {
	driverService DriverService
	logger        logger.Logger
}

// NewDriverHandler создает новый handler
func NewDriverHandler(driverService DriverService, logger logger.Logger) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		logger:        logger,
	}
}

// ListDrivers GET /api/drivers
func (h *DriverHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.driverService.ListDrivers(r.Context())
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, drivers)
}

// GetDriver GET /api/drivers/{id}
func (h *DriverHandler) GetDriver(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	driver, err := h.driverService.GetDriver(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, driver)
}

// CreateDriver POST /api/drivers
func (h *DriverHandler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var req fleet.CreateDriverRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	driver, err := h.driverService.CreateDriver(r.Context(), &req)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusCreated, driver)
}

// UpdateDriver PUT /api/drivers/{id}
func (h *DriverHandler) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	var req fleet.UpdateDriverRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	driver, err := h.driverService.UpdateDriver(r.Context(), id, &req)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, driver)
}

// SetStatus меняет статус водителя (On Duty / Off Duty / Suspended)
// PATCH /api/drivers/{id}/status
func (h *DriverHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
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

	driver, err := h.driverService.SetDriverStatus(r.Context(), id, domain.DriverStatus(req.Status))
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, driver)
}

// DeleteDriver DELETE /api/drivers/{id}
func (h *DriverHandler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	if err := h.driverService.DeleteDriver(r.Context(), id); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Driver deleted",
	})
}
