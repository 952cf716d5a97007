package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/frontandrew/fleetflow/internal/domain"
	"github.com/frontandrew/fleetflow/internal/usecase/analytics"
	"github.com/frontandrew/fleetflow/internal/usecase/dispatch"
	"github.com/frontandrew/fleetflow/internal/usecase/fleet"
	"github.com/google/uuid"
)

// mutate выполняет изменяющий запрос и помечает снимок устаревшим
func (c *Client) mutate(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.call(ctx, method, path, body, out); err != nil {
		return err
	}
	c.markStale()
	return nil
}

// CreateVehicle регистрирует машину
func (c *Client) CreateVehicle(ctx context.Context, req *fleet.CreateVehicleRequest) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := c.mutate(ctx, http.MethodPost, "/api/vehicles", req, &vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// SuggestVehicles возвращает машины, подходящие под вес груза
func (c *Client) SuggestVehicles(ctx context.Context, weight float64) ([]dispatch.Suggestion, error) {
	query := url.Values{"weight": {fmt.Sprintf("%g", weight)}}
	var suggestions []dispatch.Suggestion
	if err := c.call(ctx, http.MethodGet, "/api/vehicles/suggest?"+query.Encode(), nil, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// CreateDriver регистрирует водителя
func (c *Client) CreateDriver(ctx context.Context, req *fleet.CreateDriverRequest) (*domain.Driver, error) {
	var driver domain.Driver
	if err := c.mutate(ctx, http.MethodPost, "/api/drivers", req, &driver); err != nil {
		return nil, err
	}
	return &driver, nil
}

// CreateTrip создает рейс; Draft оставляет его черновиком
func (c *Client) CreateTrip(ctx context.Context, req *fleet.CreateTripRequest) (*domain.Trip, error) {
	var trip domain.Trip
	if err := c.mutate(ctx, http.MethodPost, "/api/trips", req, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// DispatchTrip переводит черновик в Dispatched
func (c *Client) DispatchTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	return c.tripIntent(ctx, id, "dispatch", nil)
}

// StartTrip переводит рейс в On Trip
func (c *Client) StartTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	return c.tripIntent(ctx, id, "start", nil)
}

// CompleteTrip завершает рейс; finalOdometer необязателен
func (c *Client) CompleteTrip(ctx context.Context, id uuid.UUID, finalOdometer *float64) (*domain.Trip, error) {
	return c.tripIntent(ctx, id, "complete", &fleet.CompleteTripRequest{FinalOdometer: finalOdometer})
}

// CancelTrip отменяет рейс
func (c *Client) CancelTrip(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	return c.tripIntent(ctx, id, "cancel", nil)
}

func (c *Client) tripIntent(ctx context.Context, id uuid.UUID, action string, body interface{}) (*domain.Trip, error) {
	var trip domain.Trip
	if err := c.mutate(ctx, http.MethodPost, "/api/trips/"+id.String()+"/"+action, body, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// LogMaintenance открывает заявку на ремонт
func (c *Client) LogMaintenance(ctx context.Context, req *fleet.LogMaintenanceRequest) (*domain.MaintenanceLog, error) {
	var log domain.MaintenanceLog
	if err := c.mutate(ctx, http.MethodPost, "/api/maintenance", req, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// ResolveMaintenance закрывает заявку
func (c *Client) ResolveMaintenance(ctx context.Context, id uuid.UUID) (*domain.MaintenanceLog, error) {
	var log domain.MaintenanceLog
	if err := c.mutate(ctx, http.MethodPost, "/api/maintenance/"+id.String()+"/resolve", nil, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// CreateExpense сохраняет расходы по рейсу
func (c *Client) CreateExpense(ctx context.Context, req *fleet.CreateExpenseRequest) (*domain.Expense, error) {
	var expense domain.Expense
	if err := c.mutate(ctx, http.MethodPost, "/api/expenses", req, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// KPIs возвращает сводные показатели парка
func (c *Client) KPIs(ctx context.Context) (*analytics.KPIs, error) {
	var kpis analytics.KPIs
	if err := c.call(ctx, http.MethodGet, "/api/analytics/kpis", nil, &kpis); err != nil {
		return nil, err
	}
	return &kpis, nil
}

// FuelEfficiency возвращает тренд; при нехватке данных Status = insufficient_data
func (c *Client) FuelEfficiency(ctx context.Context) (*analytics.FuelEfficiencyTrend, error) {
	var trend analytics.FuelEfficiencyTrend
	if err := c.call(ctx, http.MethodGet, "/api/analytics/fuel-efficiency", nil, &trend); err != nil {
		return nil, err
	}
	return &trend, nil
}
