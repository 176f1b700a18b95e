package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dosada05/arena-admin/handlers"
	"github.com/Dosada05/arena-admin/middleware"
	"github.com/Dosada05/arena-admin/models"
)

// Config carries everything the router needs besides the handlers.
type Config struct {
	JWTSecret   string
	CORSOrigins []string
	LoginLimit  *middleware.IPRateLimiter
	Registry    *prometheus.Registry
}

// SetupRoutes mounts the REST API on router. Events are served under both
// /api/matches and /matches; older admin builds use the unprefixed path.
func SetupRoutes(
	router chi.Router,
	cfg Config,
	authHandler *handlers.AuthHandler,
	eventHandler *handlers.EventHandler,
	walletHandler *handlers.WalletHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.Registry != nil {
		router.Use(middleware.NewMetrics(cfg.Registry).Handler)
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
	}

	authenticate := middleware.Authenticate(cfg.JWTSecret)
	adminOnly := middleware.Authorize(models.RoleAdmin)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Get("/ws/events", webSocketHandler.ServeWs)

	events := func(r chi.Router) {
		r.Get("/", eventHandler.List)
		r.Get("/{eventID}", eventHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", eventHandler.Create)
			r.Put("/{eventID}", eventHandler.Update)
			r.Delete("/{eventID}", eventHandler.Delete)
			r.Post("/{eventID}/banner", eventHandler.UploadBanner)
		})
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if cfg.LoginLimit != nil {
					r.Use(middleware.RateLimit(cfg.LoginLimit))
				}
				r.Post("/login", authHandler.Login)
				r.Post("/register", authHandler.Register)
			})
			r.With(authenticate).Get("/me", authHandler.Me)
		})

		r.Route("/matches", events)

		r.Route("/wallet", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/balance", walletHandler.Balance)
			r.With(adminOnly).Post("/credit", walletHandler.Credit)
		})

		r.Route("/deposits", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", walletHandler.RequestDeposit)
			r.Route("/admin", func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/pending", walletHandler.PendingDeposits)
				r.Post("/approve/{depositID}", walletHandler.ApproveDeposit)
				r.Post("/reject/{depositID}", walletHandler.RejectDeposit)
			})
		})

		r.Route("/withdrawals", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", walletHandler.RequestWithdrawal)
			r.Route("/admin", func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/pending", walletHandler.PendingWithdrawals)
				r.Post("/approve/{withdrawalID}", walletHandler.ApproveWithdrawal)
				r.Post("/reject/{withdrawalID}", walletHandler.RejectWithdrawal)
			})
		})
	})

	router.Route("/matches", events)
}
