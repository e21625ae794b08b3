package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kandangops/kandang-backend/api/controllers"
	"github.com/kandangops/kandang-backend/api/middleware"
	"github.com/kandangops/kandang-backend/internal/intake"
	"github.com/kandangops/kandang-backend/internal/recon"
	"github.com/kandangops/kandang-backend/internal/receipts"
	"github.com/kandangops/kandang-backend/pkg/config"
	"github.com/kandangops/kandang-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	ledgerPinger controllers.Pinger,
	cachePinger controllers.Pinger,
	storagePinger controllers.Pinger,
	intakeService intake.Service,
	reconService recon.Service,
	receiptService receipts.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ledgerPinger, cachePinger, storagePinger))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/deliveries", func(r chi.Router) {
			r.Get("/", controllers.ListDeliveries(intakeService, logg))
			r.Post("/", controllers.SubmitDelivery(intakeService, logg))
		})
		r.Route("/dispatches", func(r chi.Router) {
			r.Get("/", controllers.ListDispatches(intakeService, logg))
			r.Post("/", controllers.SubmitDispatch(intakeService, logg))
		})
		r.Route("/reconciliation", func(r chi.Router) {
			r.Get("/orders", controllers.OrderStatus(reconService, logg))
			r.Get("/vendors", controllers.VendorSummary(reconService, logg))
			r.Get("/summary", controllers.StockSummary(reconService, logg))
			r.Get("/daily", controllers.DailyArrivals(reconService, logg))
		})
		r.Post("/receipts", controllers.UploadReceipt(receiptService, logg))
	})

	return r
}
