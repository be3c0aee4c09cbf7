package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"dialbook/internal/audit"
	"dialbook/internal/authz"
	"dialbook/internal/directory"
	"dialbook/internal/directory/store"
	"dialbook/internal/domain"
	"dialbook/internal/membership"
	"dialbook/internal/platform/config"
	"dialbook/internal/platform/httpserver"
	"dialbook/internal/platform/logger"
	"dialbook/internal/platform/metrics"
	platformredis "dialbook/internal/platform/redis"
	"dialbook/internal/ratelimit"
	"dialbook/internal/resolver"
	httptransport "dialbook/internal/transport/http"
	"dialbook/internal/transport/telegram"
)

// main wires high-level dependencies and keeps the process lifecycle small.
// Business logic lives in the internal packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var recordStore directory.RecordStore
	switch cfg.StoreBackend {
	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		recordStore = store.NewPostgres(db)
	default:
		recordStore = store.NewFileStore(cfg.DBFile)
	}
	if err := recordStore.EnsureInitialized(ctx); err != nil {
		log.Error("initialize record store", "error", err)
		os.Exit(1)
	}

	bot := telegram.NewClient(cfg.BotToken)
	gate := membership.New(bot, cfg.Channel, membership.WithLogger(log))
	owner := authz.New(domain.Identity(cfg.OwnerID))
	numverify := resolver.NewNumverify(cfg.NumverifyBaseURL, cfg.NumverifyKey,
		resolver.WithTimeout(cfg.ResolveTimeout))

	auditStore := audit.NewMemoryStore()
	var publisherOpts []audit.PublisherOption
	var worker *audit.Worker
	sink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
	if err != nil {
		log.Error("connect audit sink", "error", err)
		os.Exit(1)
	}
	if sink != nil {
		defer sink.Close()
		outbox := make(chan audit.Event, 256)
		publisherOpts = append(publisherOpts, audit.WithOutbox(outbox))
		worker = audit.NewWorker(sink, outbox, log)
	}
	publisher := audit.NewPublisher(auditStore, publisherOpts...)

	service, err := directory.New(recordStore, gate, owner, numverify,
		directory.WithLogger(log),
		directory.WithMetrics(m),
		directory.WithAuditPublisher(publisher),
	)
	if err != nil {
		log.Error("build directory service", "error", err)
		os.Exit(1)
	}

	window := ratelimit.Window{Limit: cfg.LookupRateLimit, Period: cfg.LookupRatePer}
	var limiter ratelimit.Limiter = ratelimit.NewMemory(window)
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		limiter = ratelimit.NewRedis(redisClient.Client, window, log)
	}

	handler := telegram.NewHandler(service, bot, gate, cfg.Channel,
		telegram.WithLimiter(limiter),
		telegram.WithLogger(log),
	)
	poller := telegram.NewPoller(bot, handler, log)

	adminHandler := httptransport.NewHandler(recordStore, log)
	router := httptransport.NewRouter(adminHandler, m, cfg.AdminToken, log)
	srv := httpserver.New(cfg.AdminAddr, router)

	log.Info("starting dialbook",
		"store", cfg.StoreBackend, "admin_addr", cfg.AdminAddr, "channel", cfg.Channel)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return poller.Run(ctx) })
	g.Go(func() error { return httpserver.Run(ctx, srv, 10*time.Second) })
	if worker != nil {
		g.Go(func() error { return worker.Run(ctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
