package client

import (
	"context"
	"net/http"
	"time"

	"github.com/frontandrew/fleetflow/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Snapshot - локальная копия коллекций на момент FetchedAt.
// Stale выставляется после любой мутации через клиент и снимается только Refresh.
type Snapshot struct {
	Vehicles    []*domain.Vehicle
	Drivers     []*domain.Driver
	Trips       []*domain.Trip
	Maintenance []*domain.MaintenanceLog
	Expenses    []*domain.Expense
	Alerts      []domain.Alert
	FetchedAt   time.Time
	Stale       bool
}

// Refresh загружает все коллекции и ленту уведомлений параллельно
// и целиком заменяет снимок. При ошибке снимок не меняется.
func (c *Client) Refresh(ctx context.Context) error {
	var next Snapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.call(ctx, http.MethodGet, "/api/vehicles", nil, &next.Vehicles) })
	g.Go(func() error { return c.call(ctx, http.MethodGet, "/api/drivers", nil, &next.Drivers) })
	g.Go(func() error { return c.call(ctx, http.MethodGet, "/api/trips", nil, &next.Trips) })
	g.Go(func() error { return c.call(ctx, http.MethodGet, "/api/maintenance", nil, &next.Maintenance) })
	g.Go(func() error { return c.call(ctx, http.MethodGet, "/api/expenses", nil, &next.Expenses) })
	g.Go(func() error { return c.call(ctx, http.MethodGet, "/api/alerts", nil, &next.Alerts) })

	if err := g.Wait(); err != nil {
		return err
	}
	next.FetchedAt = time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	next.Alerts = c.visibleAlerts(next.Alerts)
	c.snapshot = next
	return nil
}

// Snapshot возвращает копию текущего снимка
func (c *Client) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.snapshot
	s.Vehicles = append([]*domain.Vehicle(nil), s.Vehicles...)
	s.Drivers = append([]*domain.Driver(nil), s.Drivers...)
	s.Trips = append([]*domain.Trip(nil), s.Trips...)
	s.Maintenance = append([]*domain.MaintenanceLog(nil), s.Maintenance...)
	s.Expenses = append([]*domain.Expense(nil), s.Expenses...)
	s.Alerts = append([]domain.Alert(nil), s.Alerts...)
	return s
}

// DismissAlert скрывает уведомление локально до конца сессии.
// Сервер об этом не знает: при следующем пересчете уведомление снова придет и будет отфильтровано.
func (c *Client) DismissAlert(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dismissed[id] = true

	before := len(c.snapshot.Alerts)
	c.snapshot.Alerts = c.visibleAlerts(c.snapshot.Alerts)
	return len(c.snapshot.Alerts) < before
}

// visibleAlerts отбрасывает скрытые уведомления; вызывается под mu
func (c *Client) visibleAlerts(alerts []domain.Alert) []domain.Alert {
	visible := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if !c.dismissed[a.ID] {
			visible = append(visible, a)
		}
	}
	return visible
}

// markStale помечает снимок устаревшим
func (c *Client) markStale() {
	c.mu.Lock()
	c.snapshot.Stale = true
	c.mu.Unlock()
}
