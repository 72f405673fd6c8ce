package health

import (
	"foodorder_server/services"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthRoutesManager struct {
	healthService *services.HealthService
	metrics       *services.DomainMetrics
}

func NewHealthRoutesManager(healthService *services.HealthService, metrics *services.DomainMetrics) *HealthRoutesManager {
	return &HealthRoutesManager{
		healthService: healthService,
		metrics:       metrics,
	}
}

func (hrm *HealthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/health/server", hrm.GetServerHealth)
	r.Get("/health/database", hrm.GetDatabaseHealth)
	r.Get("/health/cache", hrm.GetCacheHealth)

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	// Register Prometheus metrics
	prometheus.MustRegister(HttpDuration, HttpRequests, HttpInFlight)
	if hrm.metrics != nil {
		hrm.metrics.Register(prometheus.DefaultRegisterer)
	}
}
