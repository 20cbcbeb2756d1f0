package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/eventpass/internal/auth"
	"github.com/geocoder89/eventpass/internal/cache"
	"github.com/geocoder89/eventpass/internal/config"
	"github.com/geocoder89/eventpass/internal/http/handlers"
	"github.com/geocoder89/eventpass/internal/http/middlewares"
	"github.com/geocoder89/eventpass/internal/notifications"
	"github.com/geocoder89/eventpass/internal/observability"
	"github.com/geocoder89/eventpass/internal/repo/postgres"
	"github.com/geocoder89/eventpass/internal/ticket"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps carries everything the router wires together. Registry may be nil in
// tests; the /metrics endpoint is then skipped.
type Deps struct {
	Log      *slog.Logger
	Pool     *pgxpool.Pool
	Prom     *observability.Prom
	Registry *prometheus.Registry
	Cache    *cache.EventsCache
	Tickets  *ticket.Generator
	Notifier notifications.Notifier
}

func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware([]string{"*"}))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(otelgin.Middleware("eventpass"))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if deps.Pool != nil {
			if err := deps.Pool.Ping(ctx); err != nil {
				return err
			}
		}

		return deps.Cache.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	// wire up repositories

	eventsRepo := postgres.NewEventsRepo(deps.Pool, deps.Prom)
	registrationsRepo := postgres.NewRegistrationsRepo(deps.Pool, deps.Prom)
	usersRepo := postgres.NewUsersRepo(deps.Pool, deps.Prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	authMW := middlewares.NewAuthMiddleware(jwtManager)

	eventsHandler := handlers.NewEventsHandler(eventsRepo, deps.Cache)
	registrationsHandler := handlers.NewRegistrationsHandler(
		registrationsRepo, eventsRepo, deps.Tickets, deps.Notifier, deps.Cache, deps.Prom, deps.Log,
	)
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager)

	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)
	registerLimiter := middlewares.NewRateLimiter(30, time.Minute)

	api := r.Group("/api", middlewares.RequireJSON())

	api.POST("/auth/signup", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.SignUp)
	api.POST("/auth/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)

	api.GET("/events", eventsHandler.ListEvents)
	api.GET("/events/:id", eventsHandler.GetEventByID)
	api.POST("/events", authMW.RequireAuth(), authMW.RequireRole("admin"), eventsHandler.CreateEvent)
	api.PUT("/events/:id", authMW.RequireAuth(), authMW.RequireRole("admin"), eventsHandler.UpdateEvent)
	api.DELETE("/events/:id", authMW.RequireAuth(), authMW.RequireRole("admin"), eventsHandler.DeleteEvent)

	api.POST("/registrations",
		authMW.RequireAuth(),
		registerLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP),
		registrationsHandler.Register,
	)

	return r
}
