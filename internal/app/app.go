package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vadim/tweetlab/internal/auth"
	"github.com/vadim/tweetlab/internal/config"
	httpcontroller "github.com/vadim/tweetlab/internal/controller/http"
	"github.com/vadim/tweetlab/internal/database"
	gendao "github.com/vadim/tweetlab/internal/domain/generation/dao"
	genpolicy "github.com/vadim/tweetlab/internal/domain/generation/policy"
	genservice "github.com/vadim/tweetlab/internal/domain/generation/service"
	stylecache "github.com/vadim/tweetlab/internal/domain/style/cache"
	styledao "github.com/vadim/tweetlab/internal/domain/style/dao"
	stylepolicy "github.com/vadim/tweetlab/internal/domain/style/policy"
	styleservice "github.com/vadim/tweetlab/internal/domain/style/service"
	tweetdao "github.com/vadim/tweetlab/internal/domain/tweet/dao"
	tweetpolicy "github.com/vadim/tweetlab/internal/domain/tweet/policy"
	"github.com/vadim/tweetlab/internal/domain/tweet/scheduler"
	tweetservice "github.com/vadim/tweetlab/internal/domain/tweet/service"
	userdao "github.com/vadim/tweetlab/internal/domain/user/dao"
	userpolicy "github.com/vadim/tweetlab/internal/domain/user/policy"
	userservice "github.com/vadim/tweetlab/internal/domain/user/service"
	"github.com/vadim/tweetlab/internal/httpx/response"
	"github.com/vadim/tweetlab/internal/httpx/upstream/anthropic"
	"github.com/vadim/tweetlab/internal/httpx/upstream/nitter"
	"github.com/vadim/tweetlab/internal/metrics"
	"github.com/vadim/tweetlab/internal/scoring"
	"github.com/vadim/tweetlab/internal/storage"
)

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger
	metrics    *metrics.Collector

	// Infrastructure
	pg    *pgxpool.Pool
	redis *redis.Client
	store *storage.S3Storage

	// Domain
	issuer           *auth.Issuer
	engine           *scoring.Engine
	userPolicy       *userpolicy.Policy
	tweetPolicy      *tweetpolicy.Policy
	stylePolicy      *stylepolicy.Policy
	generationPolicy *genpolicy.Policy
	scraper          *nitter.Client

	// Scheduler for posting due tweets
	scheduler *scheduler.Scheduler
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	collector := metrics.New()

	// Initialize router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(collector.Middleware)
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	app := &App{
		cfg:     cfg,
		router:  r,
		logger:  logger,
		metrics: collector,
	}

	if err := app.initInfrastructure(ctx); err != nil {
		app.closeInfrastructure()
		return nil, fmt.Errorf("initializing infrastructure: %w", err)
	}

	if err := app.initDomains(); err != nil {
		app.closeInfrastructure()
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	if err := app.registerRoutes(); err != nil {
		app.closeInfrastructure()
		return nil, fmt.Errorf("registering routes: %w", err)
	}

	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if cfg.Scheduler.Enabled {
		app.scheduler = scheduler.New(app.tweetPolicy, cfg.Scheduler.Spec, logger)
	}

	return app, nil
}

// initInfrastructure connects Postgres, Redis and object storage
func (a *App) initInfrastructure(ctx context.Context) error {
	if a.cfg.Database.PostgresDSN == "" {
		return errors.New("DATABASE_URL is required")
	}

	pool, err := database.NewPostgresPool(ctx, a.cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	a.pg = pool

	if a.cfg.Database.Migrate {
		version, err := database.Migrate(ctx, pool)
		if err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		a.logger.Info("database migrated", "version", version)
	}

	if a.cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			// The cache is optional; style prompts fall back to Postgres.
			a.logger.Warn("redis unavailable, style cache disabled", "addr", a.cfg.Redis.Addr, "error", err)
			client.Close()
		} else {
			a.redis = client
		}
	}

	if a.cfg.S3.Enabled {
		store, err := storage.NewS3Storage(a.cfg.S3)
		if err != nil {
			return fmt.Errorf("creating s3 storage: %w", err)
		}
		a.store = store
	}

	return nil
}

// initDomains wires DAO, service and policy layers
func (a *App) initDomains() error {
	lex := scoring.Default()
	if path := a.cfg.Scoring.LexiconPath; path != "" {
		loaded, err := scoring.Load(path)
		if err != nil {
			return fmt.Errorf("loading lexicon: %w", err)
		}
		lex = loaded
	}
	a.engine = scoring.New(lex,
		scoring.WithLocation(a.cfg.Scoring.Location()),
		scoring.WithObserver(a.metrics),
	)
	a.logger.Info("scoring engine ready", "lexicon", lex.Version, "timezone", a.cfg.Scoring.Timezone)

	// Users and sessions
	a.issuer = auth.NewIssuer(a.cfg.Auth.JWTSecret, a.cfg.Auth.SessionTTL)
	users := userservice.New(userdao.NewUserPostgres(a.pg), a.cfg.Auth.BcryptCost)
	a.userPolicy = userpolicy.New(users, a.issuer)

	// Saved tweets
	tweets := tweetservice.New(tweetdao.NewTweetPostgres(a.pg))
	var store tweetpolicy.ObjectStore
	if a.store != nil {
		store = a.store
	}
	a.tweetPolicy = tweetpolicy.New(tweets, a.engine, a.userPolicy, tweetpolicy.NewLogPoster(a.logger), store, a.logger).
		WithBatch(a.cfg.Scheduler.Batch)

	// Style analysis
	var cache stylepolicy.PromptCache
	if a.redis != nil {
		cache = stylecache.NewPromptCache(a.redis, a.cfg.Redis.StyleTTL)
	}
	a.stylePolicy = stylepolicy.New(styleservice.NewAnalyzer(lex), styledao.NewStylePostgres(a.pg), cache, a.logger)

	// Generation
	llm := anthropic.New(
		anthropic.WithBaseURL(a.cfg.LLM.BaseURL),
		anthropic.WithAPIKey(a.cfg.LLM.APIKey),
		anthropic.WithModel(a.cfg.LLM.Model),
		anthropic.WithTimeout(a.cfg.LLM.Timeout),
		anthropic.WithCircuitBreaker(a.cfg.LLM.BreakerFailures, a.cfg.LLM.BreakerWindow, a.cfg.LLM.BreakerDelay),
		anthropic.WithObserver(a.metrics),
	)
	if !llm.Configured() {
		a.logger.Warn("ANTHROPIC_API_KEY is not set, generation endpoints will fail")
	}
	a.generationPolicy = genpolicy.New(
		anthropic.NewGenerator(llm),
		genservice.NewPromptBuilder(nil),
		a.engine,
		a.userPolicy,
		a.stylePolicy,
		gendao.NewUsagePostgres(a.pg),
		a.logger,
	)

	a.scraper = nitter.New(
		nitter.WithInstances(a.cfg.Scraper.Instances...),
		nitter.WithTimeout(a.cfg.Scraper.Timeout),
		nitter.WithLogger(a.logger),
	)

	return nil
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() error {
	a.router.Get("/healthz", a.healthHandler)
	a.router.Get("/readyz", a.readyHandler)
	a.router.Handle("/metrics", a.metrics.Handler())

	swaggerHandler, err := httpcontroller.NewSwaggerHandler("Tweetlab API", httpcontroller.OpenAPISpec)
	if err != nil {
		return err
	}
	swaggerHandler.RegisterRoutes(a.router)

	a.router.Route("/api/v1", func(r chi.Router) {
		httpcontroller.NewAccountHandler(a.userPolicy).RegisterRoutes(r, a.issuer)
		httpcontroller.NewScoringHandler(a.engine, a.userPolicy).RegisterRoutes(r, a.issuer)
		httpcontroller.NewGenerationHandler(a.generationPolicy).RegisterRoutes(r, a.issuer)
		httpcontroller.NewStyleHandler(a.stylePolicy).RegisterRoutes(r, a.issuer)
		httpcontroller.NewTweetHandler(a.tweetPolicy).RegisterRoutes(r, a.issuer)
		httpcontroller.NewScrapeHandler(a.scraper).RegisterRoutes(r)
	})

	return nil
}

// healthHandler handles health check requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// readyHandler reports ready once Postgres answers
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.pg.Ping(ctx); err != nil {
		a.logger.Warn("readiness check failed", "error", err)
		response.ServiceUnavailable(w, "database unavailable")
		return
	}

	response.OK(w, map[string]string{"status": "ready"})
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
	}

	// Channel to receive errors from server
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := a.httpServer.Shutdown(shutdownCtx)
	a.closeInfrastructure()
	if err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}

func (a *App) closeInfrastructure() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis", "error", err)
		}
	}
	if a.pg != nil {
		a.pg.Close()
	}
}
