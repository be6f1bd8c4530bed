package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/notehub/internal/auth"
	"github.com/geocoder89/notehub/internal/cache"
	"github.com/geocoder89/notehub/internal/config"
	"github.com/geocoder89/notehub/internal/http/handlers"
	"github.com/geocoder89/notehub/internal/http/middlewares"
	"github.com/geocoder89/notehub/internal/observability"
	"github.com/geocoder89/notehub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "notehub"

// NewRouter wires the postgres-backed stores and builds the engine.
func NewRouter(log *slog.Logger, pool *pgxpool.Pool, store cache.Store, cfg config.Config) *gin.Engine {
	reg := prometheus.NewRegistry()
	metrics := observability.NewProm(reg)

	usersRepo := postgres.NewUsersRepo(pool, metrics)
	notesRepo := postgres.NewNotesRepo(pool, metrics)

	pingDB := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	var pingCache func() error

	if r, ok := store.(*cache.Redis); ok {
		pingCache = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()

			return r.Ping(ctx)
		}
	}

	return newRouter(log, usersRepo, notesRepo, store, metrics, reg, cfg, pingDB, pingCache)
}

// NewRouterWithStores builds the engine over caller-supplied stores. Used by
// tests and DB-less dev mode with the in-memory repos.
func NewRouterWithStores(log *slog.Logger, users handlers.UserStore, notes handlers.NoteStore, store cache.Store, cfg config.Config) *gin.Engine {
	reg := prometheus.NewRegistry()
	metrics := observability.NewProm(reg)

	return newRouter(log, users, notes, store, metrics, reg, cfg, nil, nil)
}

func newRouter(
	log *slog.Logger,
	users handlers.UserStore,
	notes handlers.NoteStore,
	store cache.Store,
	metrics *observability.Prom,
	reg *prometheus.Registry,
	cfg config.Config,
	pingDB func() error,
	pingCache func() error,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware, outermost first

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(metrics.GinHandleMiddleware())

	// health + metrics

	h := handlers.NewHealthHandler(pingDB, pingCache)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// auth routes, limited by IP since there is no identity yet

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())
	authHandler := handlers.NewAuthHandler(users, jwtManager)

	authLimiter := middlewares.NewRateLimiter(20, time.Minute)

	r.POST("/register", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Register)
	r.POST("/login", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)

	// note routes, all behind the bearer-token guard

	notesHandler := handlers.NewNotesHandler(notes, store, metrics)
	authMiddleware := middlewares.NewAuthMiddleware(jwtManager)
	notesLimiter := middlewares.NewRateLimiter(120, time.Minute)

	grp := r.Group("/notes", authMiddleware.RequireAuth(), notesLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))

	grp.GET("", notesHandler.ListNotes)
	grp.POST("", notesHandler.CreateNote)
	grp.GET("/:id", notesHandler.GetNote)
	grp.PUT("/:id", notesHandler.UpdateNote)
	grp.DELETE("/:id", notesHandler.DeleteNote)

	return r
}
