package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/trip-service/internal/application/calendar"
	"github.com/baechuer/trip-service/internal/application/catalog"
	"github.com/baechuer/trip-service/internal/application/trip"
	"github.com/baechuer/trip-service/internal/config"
	rediscache "github.com/baechuer/trip-service/internal/infrastructure/caching/redis"
	"github.com/baechuer/trip-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/trip-service/internal/infrastructure/memory"
	rabbitpub "github.com/baechuer/trip-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/trip-service/internal/logger"
	"github.com/baechuer/trip-service/internal/transport/http/handlers"
	authmw "github.com/baechuer/trip-service/internal/transport/http/middleware"
	"github.com/baechuer/trip-service/internal/transport/http/router"
)

// sysClock implements trip.Clock using system time.
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// store is everything the services need from a storage backend. Both the
// postgres repo and the in-memory store satisfy it.
type store interface {
	trip.TripRepo
	trip.UserRepo
	calendar.TripSource
	catalog.Repo
}

// App holds all dependencies for the service.
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB

	Repo      *postgres.Repo
	Cache     *rediscache.Client
	Publisher trip.EventPublisher

	rabbit *rabbitpub.Publisher
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var db *sql.DB
	if cfg.StoreDriver == config.StorePostgres {
		db, err = openDB(cfg.DatabaseURL)
		if err != nil {
			zlog.Fatal().Err(err).Msg("db init failed")
		}
		defer db.Close()
	}

	app, err := NewApp(cfg, db)
	if err != nil {
		zlog.Fatal().Err(err).Msg("app init failed")
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DBAutoMigrate && app.Repo != nil {
		mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := app.Repo.Migrate(mctx)
		cancel()
		if err != nil {
			zlog.Fatal().Err(err).Msg("migrate failed")
		}
		zlog.Info().Msg("schema migrated")
	}

	workerDone := app.StartBackground(ctx)

	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreDriver).Msg("listening")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("server crashed")
		}
	}()

	<-ctx.Done()
	zlog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("graceful shutdown failed")
	}
	if workerDone != nil {
		select {
		case <-workerDone:
		case <-shutdownCtx.Done():
			zlog.Warn().Msg("outbox worker did not stop in time")
		}
	}
}

func openDB(dsn string) (*sql.DB, error) {
	if u, err := url.Parse(dsn); err == nil {
		zlog.Info().
			Str("db_user", u.User.Username()).
			Str("db_host", u.Host).
			Str("db_db", u.Path).
			Msg("db config loaded")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewApp wires the service. A nil db selects the in-memory store seeded with
// demo data.
func NewApp(cfg *config.Config, db *sql.DB) (*App, error) {
	app := &App{Config: cfg, DB: db}

	// 1) Infrastructure
	var st store
	if db != nil {
		app.Repo = postgres.New(db)
		st = app.Repo
	} else {
		mem := memory.New()
		seedDemo(mem)
		st = mem
		zlog.Warn().Msg("using in-memory store: data is lost on restart")
	}

	var (
		tripCache trip.Cache
		calCache  calendar.Cache
	)
	if cfg.RedisURL != "" {
		c, err := rediscache.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable: caching disabled")
		} else {
			app.Cache = c
			tripCache, calCache = c, c
			zlog.Info().Msg("redis cache ready")
		}
	}

	app.Publisher = trip.NoopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.rabbit = p
		app.Publisher = p
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: domain events will not be published")
	}

	// 2) Application
	tripSvc := trip.New(st, st, sysClock{}, tripCache, cfg.CacheTTLDetails)
	calSvc := calendar.New(st, calCache, cfg.CacheTTLCalendar)
	catSvc := catalog.New(st)

	// 3) Transport
	httpHandler := router.New(
		handlers.NewTripsHandler(tripSvc),
		handlers.NewCalendarHandler(calSvc),
		handlers.NewCatalogHandler(catSvc),
		authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer),
		handlers.NewHealthHandler(),
		cfg,
	)

	// 4) Server
	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return app, nil
}

// StartBackground launches the outbox relay and returns a channel closed when
// it stops. It only runs against postgres; the in-memory store keeps its
// outbox for inspection and the returned channel is nil.
func (a *App) StartBackground(ctx context.Context) <-chan struct{} {
	if a.Repo == nil || !a.Config.OutboxEnabled {
		return nil
	}
	done := a.Repo.StartOutboxWorker(ctx, a.Publisher, a.Config.OutboxInterval, a.Config.OutboxBatch)
	zlog.Info().Dur("interval", a.Config.OutboxInterval).Msg("outbox worker started")
	return done
}

func (a *App) Close() {
	if a.rabbit != nil {
		_ = a.rabbit.Close()
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
}
