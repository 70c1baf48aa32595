package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"betelgeuse-console/internal/audit"
	auditmemory "betelgeuse-console/internal/audit/store/memory"
	auditpostgres "betelgeuse-console/internal/audit/store/postgres"
	"betelgeuse-console/internal/backend"
	"betelgeuse-console/internal/console/metrics"
	"betelgeuse-console/internal/dispatch"
	"betelgeuse-console/internal/lockout"
	"betelgeuse-console/internal/notify"
	"betelgeuse-console/internal/platform/config"
	"betelgeuse-console/internal/platform/httpserver"
	"betelgeuse-console/internal/platform/logger"
	"betelgeuse-console/internal/platform/redis"
	"betelgeuse-console/internal/poller"
	"betelgeuse-console/internal/session"
	"betelgeuse-console/internal/web"
)

const auditInboxSize = 256

// main wires dependencies and supervises the long-running pieces: the HTTP
// server, the view pollers, and the audit worker. Everything stops together
// when the process receives SIGINT or SIGTERM.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("console exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Session store: Redis when configured, otherwise in-process memory.
	var sessionStore session.Store
	var memorySessions *session.InMemoryStore
	redisClient, err := redis.New(ctx, cfg.Redis())
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessionStore = session.NewRedisStore(redisClient)
		log.Info("sessions stored in redis")
	} else {
		memorySessions = session.NewInMemoryStore()
		sessionStore = memorySessions
		log.Info("sessions stored in memory")
	}

	codec := session.NewTokenCodec(cfg.SessionSigningKey)
	sessions := session.NewManager(sessionStore, codec, cfg.SessionTTL, log)
	if cfg.InsecureCookies {
		sessions = sessions.WithInsecureCookies()
	}

	api := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout, log)
	center := notify.NewCenter()

	// Action audit trail: durable in Postgres when configured, otherwise an
	// in-memory ring for dev setups.
	var trail audit.Store
	if cfg.PostgresURL != "" {
		pgStore, err := auditpostgres.New(ctx, cfg.PostgresURL)
		if err != nil {
			return err
		}
		defer pgStore.Close()
		trail = pgStore
		log.Info("action audit stored in postgres")
	} else {
		trail = auditmemory.NewInMemoryStore()
		log.Info("action audit stored in memory")
	}
	publisher := audit.NewPublisher(auditInboxSize, log)
	worker := audit.NewWorker(trail, publisher.Inbox(), log)

	loginGuard := lockout.New(
		lockout.NewInMemoryStore(),
		cfg.LockoutThreshold,
		cfg.LockoutDuration,
		log,
		lockout.WithMetrics(m),
	)

	dashboard := poller.New("dashboard", cfg.DashboardPollInterval, api.GetDashboardStats, log,
		poller.WithNotifier[*backend.DashboardStats](center),
		poller.WithMetrics[*backend.DashboardStats](m),
	)
	status := poller.New("system_status", cfg.StatusPollInterval, api.GetSystemStatus, log,
		poller.WithNotifier[*backend.SystemStatus](center),
		poller.WithMetrics[*backend.SystemStatus](m),
	)
	operators := poller.New("operators", cfg.DashboardPollInterval, api.ListOperators, log,
		poller.WithNotifier[[]backend.Operator](center),
		poller.WithMetrics[[]backend.Operator](m),
	)

	dispatcher := dispatch.New(center, publisher, log, m)

	handlers := web.NewHandlers(web.Config{
		Backend:    api,
		Sessions:   sessions,
		Lockout:    loginGuard,
		Notify:     center,
		Dispatcher: dispatcher,
		Auditor:    publisher,
		Trail:      trail,
		Logger:     log,
		Dashboard:  dashboard,
		Status:     status,
		Operators:  operators,
	})

	srv := httpserver.New(cfg.Addr, web.NewRouter(handlers))

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error { return dashboard.Run(groupCtx) })
	group.Go(func() error { return status.Run(groupCtx) })
	group.Go(func() error { return operators.Run(groupCtx) })
	group.Go(func() error { return worker.Run(groupCtx) })

	if memorySessions != nil {
		group.Go(func() error {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-groupCtx.Done():
					return groupCtx.Err()
				case <-ticker.C:
					m.SetActiveSessions(memorySessions.Len())
				}
			}
		})
	}

	group.Go(func() error {
		log.Info("console listening", "addr", cfg.Addr, "backend", cfg.BackendBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return httpserver.Shutdown(srv)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("console stopped")
	return nil
}
