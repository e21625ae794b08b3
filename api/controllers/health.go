package controllers

import (
	"context"
	"net/http"

	"github.com/kandangops/kandang-backend/api/responses"
	"github.com/kandangops/kandang-backend/pkg/config"
	"github.com/kandangops/kandang-backend/pkg/logger"
)

// Pinger is anything the readiness probe checks connectivity against.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kandang-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports per-dependency connectivity. Optional dependencies
// passed as nil are reported as disabled, not failing.
func HealthReady(cfg *config.Config, logg *logger.Logger, ledger, cache, storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kandang-Env", cfg.App.Env)
		ctx := r.Context()

		checks := map[string]string{}
		ready := true

		check := func(name string, p Pinger) {
			if p == nil {
				checks[name] = "disabled"
				return
			}
			if err := p.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(ctx, "readiness check failed: "+name, err)
				}
				checks[name] = "down"
				ready = false
				return
			}
			checks[name] = "ok"
		}

		check("ledger", ledger)
		check("cache", cache)
		check("storage", storage)

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
