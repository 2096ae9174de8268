package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ovenmade/bakemart-backend/api/controllers"
	cashbackcontrollers "github.com/ovenmade/bakemart-backend/api/controllers/cashbacks"
	couponcontrollers "github.com/ovenmade/bakemart-backend/api/controllers/coupons"
	dashboardcontrollers "github.com/ovenmade/bakemart-backend/api/controllers/dashboard"
	ordercontrollers "github.com/ovenmade/bakemart-backend/api/controllers/orders"
	"github.com/ovenmade/bakemart-backend/api/middleware"
	"github.com/ovenmade/bakemart-backend/internal/coupons"
	"github.com/ovenmade/bakemart-backend/internal/orders"
	"github.com/ovenmade/bakemart-backend/internal/revenue"
	"github.com/ovenmade/bakemart-backend/internal/wallet"
	"github.com/ovenmade/bakemart-backend/pkg/config"
	"github.com/ovenmade/bakemart-backend/pkg/logger"
	"github.com/ovenmade/bakemart-backend/pkg/metrics"
	"github.com/ovenmade/bakemart-backend/pkg/redis"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics

	Pingers map[string]controllers.Pinger

	Orders  orders.Service
	Coupons coupons.Service
	Wallet  wallet.Service
	Revenue revenue.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})
	r.Get("/healthz", controllers.HealthLive(cfg))

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Registry))
	}

	var otpLimiter redis.Limiter
	if deps.Redis != nil {
		otpLimiter = deps.Redis
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordercontrollers.Create(deps.Orders, logg))
			r.Get("/", ordercontrollers.List(deps.Orders, logg))
			r.With(middleware.RequireRole(logg, "agent")).
				Get("/agent-pool", ordercontrollers.AgentPool(deps.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(deps.Orders, logg))
			r.With(middleware.OTPRateLimit(cfg.OTP, otpLimiter, logg)).
				Patch("/{orderId}", ordercontrollers.Transition(deps.Orders, logg))
			r.Post("/{orderId}/cancel", ordercontrollers.Cancel(deps.Orders, logg))
		})

		r.Post("/coupons/preview", couponcontrollers.Preview(deps.Coupons, logg))

		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, "vendor"))
			r.Get("/financial", dashboardcontrollers.Vendor(deps.Revenue, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, "admin"))
			r.Get("/dashboard", dashboardcontrollers.Admin(deps.Revenue, logg))
			r.Post("/orders/{orderId}/cancel", ordercontrollers.ResolveCancellation(deps.Orders, logg))
			r.Route("/cashbacks", func(r chi.Router) {
				r.Get("/", cashbackcontrollers.List(deps.Wallet, logg))
				r.Post("/{requestId}/approve", cashbackcontrollers.Approve(deps.Wallet, logg))
			})
		})
	})

	return r
}
