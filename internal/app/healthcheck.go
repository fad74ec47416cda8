package app

import (
	"context"
	"net/http"
	"time"

	"github.com/metinatakli/cinema-room-scheduling/api"
)

const (
	healthUp   = "UP"
	healthDown = "DOWN"

	healthcheckTimeout = 2 * time.Second
)

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
	defer cancel()

	resp := api.HealthcheckResponse{
		Status: healthUp,
		SystemInfo: api.SystemInfo{
			Version:     version,
			Environment: app.config.Env,
		},
		Checks: map[string]string{
			"database": healthUp,
			"redis":    healthUp,
		},
	}

	if err := app.db.Ping(ctx); err != nil {
		logger.Warn("database healthcheck failed", "error", err)
		resp.Checks["database"] = healthDown
		resp.Status = healthDown
	}

	if err := app.redis.Ping(ctx).Err(); err != nil {
		logger.Warn("redis healthcheck failed", "error", err)
		resp.Checks["redis"] = healthDown
		resp.Status = healthDown
	}

	status := http.StatusOK
	if resp.Status == healthDown {
		status = http.StatusServiceUnavailable
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
