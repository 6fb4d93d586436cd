package controllers

import (
	"context"
	"fmt"
	"net/http"
	"talentpay/internal/providers"
	"time"
)

const healthPingTimeout = 2 * time.Second

// Pinger is the part of the store the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	store     Pinger
	logger    providers.Logger
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Storage       string  `json:"storage"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Storage:       "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	if err := hc.store.Ping(ctx); err != nil {
		hc.logger.Warnf(providers.TypeGet, "Health check: storage unavailable: %s", err)
		resp.Status = "degraded"
		resp.Storage = "unavailable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(store Pinger, logger providers.Logger) *HealthController {
	return &HealthController{
		store:     store,
		logger:    logger,
		startTime: time.Now(),
	}
}
