// Command pizzavox is the main entry point for the pizzavox ordering server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/pizzavox/pizzavox/internal/catalog"
	"github.com/pizzavox/pizzavox/internal/config"
	"github.com/pizzavox/pizzavox/internal/conversation"
	"github.com/pizzavox/pizzavox/internal/events"
	"github.com/pizzavox/pizzavox/internal/health"
	"github.com/pizzavox/pizzavox/internal/httpapi"
	"github.com/pizzavox/pizzavox/internal/lexicon"
	"github.com/pizzavox/pizzavox/internal/observe"
	"github.com/pizzavox/pizzavox/internal/orderstore"
	"github.com/pizzavox/pizzavox/internal/parser"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// A local .env is optional; environment variables referenced by the config
	// (database passwords and the like) may come from anywhere.
	_ = godotenv.Load()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "pizzavox: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "pizzavox: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("pizzavox starting",
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Metrics ───────────────────────────────────────────────────────────────
	metricsShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise metrics", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsShutdown(shutdownCtx); err != nil {
			slog.Warn("metrics shutdown error", "err", err)
		}
	}()

	var checkers []health.Checker

	// ── Catalog and order storage ─────────────────────────────────────────────
	var (
		menu   catalog.MenuStore
		orders orderstore.Store
	)
	if cfg.Postgres.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			slog.Error("failed to create postgres pool", "err", err)
			return 1
		}
		defer pool.Close()

		pgCatalog := catalog.NewPostgresCatalog(pool)
		pgOrders := orderstore.NewPostgresStore(pool)
		if err := pgCatalog.Migrate(ctx); err != nil {
			slog.Error("catalog migration failed", "err", err)
			return 1
		}
		if err := pgOrders.Migrate(ctx); err != nil {
			slog.Error("order store migration failed", "err", err)
			return 1
		}
		menu = pgCatalog
		orders = pgOrders
		checkers = append(checkers, health.Postgres(pool))
		slog.Info("postgres connected")
	} else {
		slog.Warn("no postgres DSN configured, using in-memory storage")
		menu = catalog.NewMemCatalog()
		orders = orderstore.NewMemStore()
	}

	// ── Conversation state store ──────────────────────────────────────────────
	var states conversation.Store
	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.Error("invalid redis URL", "err", err)
			return 1
		}
		client := redis.NewClient(redisOpts)
		defer client.Close()

		var storeOpts []conversation.RedisOption
		if ttl := cfg.Conversation.TTL.Std(); ttl > 0 {
			storeOpts = append(storeOpts, conversation.WithTTL(ttl))
		}
		states = conversation.NewRedisStore(client, storeOpts...)
		checkers = append(checkers, health.Redis(client))
		slog.Info("redis connected", "ttl", cfg.Conversation.TTL.Std())
	} else {
		slog.Warn("no redis URL configured, conversation state is process-local")
		states = conversation.NewMemStore()
	}

	// ── Event publisher (optional) ────────────────────────────────────────────
	var publisher events.Publisher = events.Noop{}
	if cfg.NATS.URL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Error("failed to connect to NATS", "err", err)
			return 1
		}
		defer natsPub.Close()
		publisher = natsPub
		checkers = append(checkers, health.NATS(natsPub.Conn()))
		slog.Info("nats connected", "url", cfg.NATS.URL)
	}

	// ── Parser and conversation machine ───────────────────────────────────────
	utteranceParser := parser.New(menu,
		parser.WithNameMatcher(lexicon.NewMatcher(lexicon.WithMinScore(cfg.Matcher.NameThreshold))),
		parser.WithIngredientMatcher(lexicon.NewMatcher(lexicon.WithMinScore(cfg.Matcher.IngredientThreshold))),
	)

	machine, err := conversation.NewMachine(conversation.Config{
		Parser:  utteranceParser,
		Catalog: menu,
		Orders:  orders,
		States:  states,
		Events:  publisher,
	})
	if err != nil {
		slog.Error("failed to initialise conversation machine", "err", err)
		return 1
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	api, err := httpapi.New(httpapi.Config{
		Machine: machine,
		Catalog: menu,
		Menu:    menu,
		Health:  health.New(checkers...),
	})
	if err != nil {
		slog.Error("failed to initialise HTTP server", "err", err)
		return 1
	}

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("server ready — press Ctrl+C to shut down", "addr", cfg.Server.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", cfg.Server.ListenAddr, err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()

		slog.Info("shutdown signal received, stopping…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	slog.Info("goodbye")
	return 0
}

// newLogger builds the process-wide slog logger at the configured level.
func newLogger(level config.LogLevel) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level.SlogLevel(),
	}))
}
