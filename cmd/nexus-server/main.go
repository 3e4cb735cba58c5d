package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Behrad-Mahdavi/NexusOs/internal/api"
	"github.com/Behrad-Mahdavi/NexusOs/internal/auth"
	"github.com/Behrad-Mahdavi/NexusOs/internal/config"
	"github.com/Behrad-Mahdavi/NexusOs/internal/events"
	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
	"github.com/Behrad-Mahdavi/NexusOs/internal/services"
	"github.com/Behrad-Mahdavi/NexusOs/internal/storage"
	"github.com/Behrad-Mahdavi/NexusOs/internal/timer"
	"github.com/Behrad-Mahdavi/NexusOs/internal/tracker"
	"github.com/Behrad-Mahdavi/NexusOs/migrations"
)

const (
	shutdownTimeout = 30 * time.Second
	eventsChannel   = "nexus:events"
)

// repository is the storage surface main needs beyond storage.Repository
type repository interface {
	storage.Repository
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("starting nexus-server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"storage", cfg.Database.Backend,
		"redis", cfg.Redis.Enabled(),
		"timezone", cfg.Heuristics.Timezone,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	registry := services.NewRegistry()

	repo, err := openRepository(initCtx, cfg, registry)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}

	// Redis backs timer state, revoked tokens and cross-instance events
	// when configured; otherwise everything stays in process memory.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisProvider, err := services.NewRedisProvider(initCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to create redis provider", "error", err)
			os.Exit(1)
		}
		registry.Register("redis", redisProvider)
		redisClient = redisProvider.Client()
	}

	slog.Info("service providers registered", "providers", registry.List())

	var (
		timerStore  timer.Store          = timer.NewMemoryStore()
		revocations auth.RevocationStore = auth.NewMemoryRevocationStore(time.Now)
		hub                              = events.NewHub()
		publisher   events.Publisher     = hub
		relay       *events.RedisRelay
	)
	if redisClient != nil {
		timerStore = timer.NewRedisStore(redisClient, "nexus:timer:")
		revocations = auth.NewRedisRevocationStore(redisClient, "nexus:revoked:")
		relay = events.NewRedisRelay(redisClient, eventsChannel, hub)
		publisher = relay
	}

	// Auth
	tokens := auth.NewTokenManager(auth.TokenConfig{
		SecretKey: cfg.Auth.JWTSecret,
		TTL:       cfg.Auth.AccessTokenTTL,
		Issuer:    cfg.Auth.Issuer,
	})
	authService := auth.NewService(repo, auth.NewPasswordHasher(), tokens, revocations)
	authService.OnSignOut(func(userID string) {
		publisher.Publish(userID, events.Event{Type: events.SessionEnded, At: time.Now().UTC()})
	})

	// Focus timer
	timerService := timer.NewService(timerStore, repo, cfg.Timer.DefaultDuration)
	timerService.OnChange(func(userID string, st timer.State) {
		publisher.Publish(userID, events.Event{
			Type:   events.TimerChanged,
			Entity: "timer",
			At:     time.Now().UTC(),
			Data:   st.ViewAt(timerService.Now()),
		})
	})
	timerService.OnComplete(func(userID string, session models.FocusSession) {
		publisher.Publish(userID, events.Event{
			Type:   events.FocusSessionSaved,
			Entity: "focus_session",
			ID:     session.ID,
			At:     time.Now().UTC(),
			Data:   session,
		})
	})

	trackerService := tracker.NewService(repo, publisher, tracker.Options{
		Settings:        cfg.Heuristics.Settings(),
		Location:        cfg.Heuristics.Location(),
		FocusWindowDays: cfg.Heuristics.FocusWindowDays,
	})

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start background workers
	timer.NewFinalizer(timerService, cfg.Timer.FinalizeInterval).Start(ctx)
	if relay != nil {
		go func() {
			if err := relay.Run(ctx); err != nil {
				slog.Error("event relay stopped", "error", err)
			}
		}()
	}

	// Setup HTTP server
	server := api.NewServer(cfg.Server, authService, trackerService, timerService, hub, registry)
	httpServer := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     server.Router(),
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: the event stream is long-lived
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"nexus-server": func(ctx context.Context) error {
				slog.Info("shutting down gracefully...")

				// Stop background workers and end open event streams
				cancel()
				hub.Close()

				if err := httpServer.Shutdown(ctx); err != nil {
					slog.Error("HTTP server shutdown error", "error", err)
				}
				if err := repo.Close(); err != nil {
					slog.Error("storage close error", "error", err)
				}
				return registry.CloseAll()
			},
		},
	)

	exitCode := <-wait
	slog.Info("nexus-server stopped", "exit_code", exitCode)
	os.Exit(exitCode)
}

// openRepository connects the configured storage backend, migrating the
// schema first when enabled, and registers its readiness checks
func openRepository(ctx context.Context, cfg *config.Config, registry *services.Registry) (repository, error) {
	if cfg.Database.Backend == config.BackendMemory {
		slog.Warn("using in-memory storage; records are lost on restart")
		repo := storage.NewMemoryRepository()
		registry.Register("storage", services.NewPingProvider("memory", repo.Ping))
		return repo, nil
	}

	if cfg.Database.AutoMigrate {
		var source fs.FS = migrations.FS
		if cfg.Database.MigrationsDir != "" {
			source = nil
		}
		slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
		if err := storage.MigrateFromDSN(ctx, cfg.Database.DSN, source, cfg.Database.MigrationsDir); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	repo, err := storage.NewPostgresRepository(ctx, storage.PostgresConfig{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: int32(cfg.Database.MaxOpenConns),
		MaxIdleConns: int32(cfg.Database.MaxIdleConns),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database repository: %w", err)
	}

	postgresProvider, err := services.NewPostgresProvider(ctx, cfg.Database.DSN)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to create postgres provider: %w", err)
	}
	registry.Register("postgres", postgresProvider)
	slog.Info("database connected successfully", "host", postgresProvider.Host())

	return repo, nil
}
