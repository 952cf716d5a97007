package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/usecase/analytics"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestReportHandler_Monthly тестирует JSON и CSV выгрузку
func TestReportHandler_Monthly(t *testing.T) {
	margin := 0.5
	rows := []analytics.MonthlySummary{
		{Month: "2026-04", CompletedTrips: 2, Revenue: 600, FuelCost: 200, MaintenanceCost: 100, NetProfit: 300, Margin: &margin},
		{Month: "2026-05", CompletedTrips: 0},
	}

	t.Run("JSON", func(t *testing.T) {
		mockService := new(MockReportService)
		mockService.On("Monthly", mock.Anything).Return(rows, nil)

		handler := NewReportHandler(mockService, mockService, logger.NewNoop())
		rr := httptest.NewRecorder()

		handler.Monthly(rr, newJSONRequest(t, http.MethodGet, "/api/analytics/monthly", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		data := decodeResponse(t, rr)["data"].([]interface{})
		assert.Len(t, data, 2)
		assert.Nil(t, data[1].(map[string]interface{})["margin"])
		mockService.AssertExpectations(t)
	})

	t.Run("CSV", func(t *testing.T) {
		mockService := new(MockReportService)
		mockService.On("Monthly", mock.Anything).Return(rows, nil)

		handler := NewReportHandler(mockService, mockService, logger.NewNoop())
		rr := httptest.NewRecorder()

		handler.Monthly(rr, newJSONRequest(t, http.MethodGet, "/api/analytics/monthly?format=csv", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")
		lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
		assert.Len(t, lines, 3)
		assert.Equal(t, "2026-04,2,600.00,200.00,100.00,300.00,0.5000", lines[1])
		assert.Equal(t, "2026-05,0,0.00,0.00,0.00,0.00,", lines[2])
	})
}

// TestReportHandler_Feeds тестирует уведомления и отчеты
func TestReportHandler_Feeds(t *testing.T) {
	t.Run("уведомления", func(t *testing.T) {
		mockService := new(MockReportService)
		mockService.On("ListAlerts", mock.Anything).Return([]domain.Alert{{
			ID:       "license:" + uuid.NewString(),
			Category: domain.AlertLicense,
			Severity: domain.SeverityCritical,
			Action:   "Suspend Driver",
		}}, nil)

		handler := NewReportHandler(mockService, mockService, logger.NewNoop())
		rr := httptest.NewRecorder()

		handler.ListAlerts(rr, newJSONRequest(t, http.MethodGet, "/api/alerts", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		data := decodeResponse(t, rr)["data"].([]interface{})
		assert.Equal(t, "critical", data[0].(map[string]interface{})["severity"])
	})

	t.Run("недостаточно данных для тренда", func(t *testing.T) {
		mockService := new(MockReportService)
		mockService.On("FuelEfficiency", mock.Anything).Return(analytics.FuelEfficiencyTrend{
			Status:         analytics.TrendInsufficientData,
			Points:         []analytics.EfficiencyPoint{},
			RequiredMonths: analytics.MinTrendMonths,
		}, nil)

		handler := NewReportHandler(mockService, mockService, logger.NewNoop())
		rr := httptest.NewRecorder()

		handler.FuelEfficiency(rr, newJSONRequest(t, http.MethodGet, "/api/analytics/fuel-efficiency", nil))

		data := decodeResponse(t, rr)["data"].(map[string]interface{})
		assert.Equal(t, "insufficient_data", data["status"])
		assert.Equal(t, float64(3), data["requiredMonths"])
	})

	t.Run("лимит по умолчанию", func(t *testing.T) {
		mockService := new(MockReportService)
		mockService.On("Costliest", mock.Anything, defaultCostliestLimit).Return([]analytics.VehicleCost{}, nil)

		handler := NewReportHandler(mockService, mockService, logger.NewNoop())
		rr := httptest.NewRecorder()

		handler.Costliest(rr, newJSONRequest(t, http.MethodGet, "/api/analytics/costliest", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("некорректный лимит", func(t *testing.T) {
		handler := NewReportHandler(new(MockReportService), new(MockReportService), logger.NewNoop())
		rr := httptest.NewRecorder()

		handler.Costliest(rr, newJSONRequest(t, http.MethodGet, "/api/analytics/costliest?limit=ten", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("сбой хранилища", func(t *testing.T) {
		mockService := new(MockReportService)
		mockService.On("KPIs", mock.Anything).Return(analytics.KPIs{}, errors.New("mongo: no reachable servers"))

		handler := NewReportHandler(mockService, mockService, logger.NewNoop())
		rr := httptest.NewRecorder()

		handler.KPIs(rr, newJSONRequest(t, http.MethodGet, "/api/analytics/kpis", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Internal server error", decodeResponse(t, rr)["error"])
	})
}
