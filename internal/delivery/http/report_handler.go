package http

import (
	"net/http"

	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/usecase/analytics"
)

const defaultCostliestLimit = 5

// ReportHandler отдает уведомления и аналитику
type ReportHandler struct {
	alertService     AlertService
	analyticsService AnalyticsService
	logger           logger.Logger
}

// NewReportHandler создает новый handler
func NewReportHandler(alertService AlertService, analyticsService AnalyticsService, logger logger.Logger) *ReportHandler {
	return &ReportHandler{
		alertService:     alertService,
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// ListAlerts пересчитывает ленту уведомлений
// GET /api/alerts
func (h *ReportHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.ListAlerts(r.Context())
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, alerts)
}

// KPIs GET /api/analytics/kpis
func (h *ReportHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.analyticsService.KPIs(r.Context())
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, kpis)
}

// Monthly возвращает помесячную сводку; ?format=csv отдает выгрузку
// GET /api/analytics/monthly
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	rows, err := h.analyticsService.Monthly(r.Context())
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="fleet-monthly.csv"`)
		w.WriteHeader(http.StatusOK)
		if err := analytics.WriteMonthlyCSV(w, rows); err != nil {
			h.logger.Error("Failed to write CSV export", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return
	}

	respondData(w, http.StatusOK, rows)
}

// ROI GET /api/analytics/roi
func (h *ReportHandler) ROI(w http.ResponseWriter, r *http.Request) {
	rows, err := h.analyticsService.ROI(r.Context())
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, rows)
}

// FuelEfficiency GET /api/analytics/fuel-efficiency
func (h *ReportHandler) FuelEfficiency(w http.ResponseWriter, r *http.Request) {
	trend, err := h.analyticsService.FuelEfficiency(r.Context())
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, trend)
}

// Costliest GET /api/analytics/costliest?limit=5
func (h *ReportHandler) Costliest(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntQuery(r, "limit", defaultCostliestLimit)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	rows, err := h.analyticsService.Costliest(r.Context(), limit)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, rows)
}
