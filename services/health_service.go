package services

import (
	"context"
	"foodorder_server/database"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

var uptimeStart time.Time

func init() {
	uptimeStart = time.Now()
}

type serverHealthStatus struct {
	Uptime         float64   `json:"uptime"`        // in seconds
	CurrentTime    time.Time `json:"current_time"`  // server current time
	ServiceAlive   bool      `json:"service_alive"` // always true if service is running
	RamStats       *RamStats `json:"ram_stats"`
	MessagingLive  bool      `json:"messaging_live"` // false in simulated mode
	ActiveSessions int       `json:"active_sessions,omitempty"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type dependencyHealthStatus struct {
	Connected      bool           `json:"connected"`
	LastChecked    time.Time      `json:"last_checked"`
	ResponseTimeMs int64          `json:"response_time_ms"`
	Stats          map[string]any `json:"stats,omitempty"`
}

type HealthService struct {
	logger    *gecho.Logger
	db        *database.DB
	cache     *CacheService
	messaging *MessagingService
	sessions  SessionStore
}

func NewHealthService(logger *gecho.Logger, db *database.DB, cache *CacheService, messaging *MessagingService, sessions SessionStore) *HealthService {
	return &HealthService{
		logger:    logger,
		db:        db,
		cache:     cache,
		messaging: messaging,
		sessions:  sessions,
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	freeMB := totalMB - usedMB
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      freeMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	status := serverHealthStatus{
		Uptime:       time.Since(uptimeStart).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		RamStats:     getRamStats(),
	}
	if hs.messaging != nil {
		status.MessagingLive = !hs.messaging.Simulated()
	}
	if mem, ok := hs.sessions.(*MemorySessionStore); ok {
		status.ActiveSessions = mem.Len()
	}
	return status
}

func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (dependencyHealthStatus, error) {
	start := time.Now()
	err := hs.db.Health(ctx)

	status := dependencyHealthStatus{
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		hs.logger.Error("Database health check failed", gecho.Field("error", err))
	}
	return status, err
}

func (hs *HealthService) GetCacheHealthStatus(ctx context.Context) (dependencyHealthStatus, error) {
	start := time.Now()
	err := hs.cache.Ping(ctx)

	status := dependencyHealthStatus{
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
		Stats:          hs.cache.GetConnectionStats(),
	}
	if err != nil {
		hs.logger.Error("Cache health check failed", gecho.Field("error", err))
	}
	return status, err
}
