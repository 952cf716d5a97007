package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry - отдельный реестр метрик API
	Registry = prometheus.NewRegistry()

	// HTTPRequests считает запросы по методу, маршруту и статусу
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration - длительность запросов в секундах
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// TripTransitions считает переходы рейсов по целевому статусу
	TripTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fleet_trip_transitions_total", Help: "Trip lifecycle transitions by target status."},
		[]string{"status"},
	)

	// DispatchRejections считает отказы валидатора по причине
	DispatchRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fleet_dispatch_rejections_total", Help: "Rejected trip intents by reason."},
		[]string{"reason"},
	)

	// VehicleStatusChanges считает смены статуса машин
	VehicleStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fleet_vehicle_status_changes_total", Help: "Vehicle status changes by from/to status."},
		[]string{"from", "to"},
	)

	// PanicsRecovered считает перехваченные panic по маршруту
	PanicsRecovered = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_panics_recovered_total", Help: "Handler panics recovered by route."},
		[]string{"path"},
	)

	// CacheLookups считает обращения к кэшу по результату: hit, miss, error
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fleet_cache_lookups_total", Help: "Cache lookups by entity and result."},
		[]string{"entity", "result"},
	)
)

var regOnce sync.Once

// Register регистрирует коллекторы в Registry; повторный вызов безопасен
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(TripTransitions)
		Registry.MustRegister(DispatchRejections)
		Registry.MustRegister(VehicleStatusChanges)
		Registry.MustRegister(CacheLookups)
		Registry.MustRegister(PanicsRecovered)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler отдает метрики в формате Prometheus
func Handler() http.Handler {
	Register()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
