package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apphandler "expenseai/internal/application/handler"
	"expenseai/internal/application/lock"
	appservice "expenseai/internal/application/service"
	appstore "expenseai/internal/application/store"
	"expenseai/internal/catalog"
	"expenseai/internal/chatbot"
	"expenseai/internal/decision"
	"expenseai/internal/decision/eligibility"
	decisionhandler "expenseai/internal/decision/handler"
	decisionmetrics "expenseai/internal/decision/metrics"
	"expenseai/internal/decision/trust"
	disbhandler "expenseai/internal/disbursement/handler"
	"expenseai/internal/disbursement/publisher"
	disbservice "expenseai/internal/disbursement/service"
	disbstore "expenseai/internal/disbursement/store"
	"expenseai/internal/health"
	"expenseai/internal/platform/config"
	"expenseai/internal/platform/jwttoken"
	"expenseai/internal/platform/kafka"
	"expenseai/internal/platform/metrics"
	"expenseai/internal/platform/postgres"
	redisclient "expenseai/internal/platform/redis"
	rlmw "expenseai/internal/ratelimit/middleware"
	rlstore "expenseai/internal/ratelimit/store"
	schemehandler "expenseai/internal/scheme/handler"
	schemeservice "expenseai/internal/scheme/service"
	schemestore "expenseai/internal/scheme/store"
	"expenseai/internal/seed"
	userhandler "expenseai/internal/user/handler"
	userservice "expenseai/internal/user/service"
	userstore "expenseai/internal/user/store"
	"expenseai/pkg/platform/circuit"
	"expenseai/pkg/platform/middleware/admin"
	authmw "expenseai/pkg/platform/middleware/auth"
	"expenseai/pkg/platform/middleware/metadata"
	"expenseai/pkg/platform/middleware/request"
	"expenseai/pkg/platform/middleware/requesttime"
	"expenseai/pkg/platform/tx"
)

const (
	lockPrefix      = "expenseai:lock:"
	rateLimitPrefix = "expenseai:ratelimit:"
)

// app is the assembled process: the HTTP handler plus everything that has to
// be closed on shutdown, in reverse order of creation.
type app struct {
	router  http.Handler
	closers []func(ctx context.Context)
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
}

type stores struct {
	users        userservice.Store
	schemes      schemeservice.Store
	applications appservice.Store
	expenses     disbservice.Store
	txRunner     tx.Runner
}

// build wires every module. Postgres, Redis and Kafka are each optional; the
// in-process fallbacks keep a single replica fully functional.
func build(ctx context.Context, cfg config.Server, log *slog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}
	hc := health.NewHandler(log)

	st, db, err := openStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if db != nil {
		a.closers = append(a.closers, func(context.Context) { _ = db.Close() })
		hc.WithProbe("database", db.PingContext)
	}

	var locker lock.Locker = lock.NewLocal()
	var limits rlmw.Store = rlstore.NewInMemory()
	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		a.closers = append(a.closers, func(context.Context) { _ = rdb.Close() })
		hc.WithProbe("redis", rdb.Health)
		locker = lock.NewRedis(rdb.Client, lockPrefix)
		limits = rlstore.NewRedis(rdb.Client, rateLimitPrefix)
		log.Info("decision lock and rate limits backed by redis")
	}

	producer, err := kafka.NewProducer(ctx, cfg.Kafka, log)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	platformMetrics := metrics.NewWithRegisterer(reg)
	decisionMetrics := decisionmetrics.NewWithRegisterer(reg)

	users := userservice.New(st.users,
		userservice.WithLogger(log),
		userservice.WithMetrics(platformMetrics),
	)
	schemes, err := schemeservice.New(st.schemes, cfg.Scheme.CacheSize, schemeservice.WithLogger(log))
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	if err := seed.New(schemes, users, log, platformMetrics).Run(ctx, cat); err != nil {
		a.close(ctx)
		return nil, err
	}

	disbOpts := []disbservice.Option{
		disbservice.WithLogger(log),
		disbservice.WithMetrics(decisionMetrics),
	}
	if producer != nil {
		a.closers = append(a.closers, producer.Close)
		breaker := circuit.New("expense-events", circuit.WithFailureThreshold(5), circuit.WithCooldown(30*time.Second))
		disbOpts = append(disbOpts, disbservice.WithPublisher(publisher.New(producer, publisher.WithBreaker(breaker))))
		log.Info("expense events enabled", "topic", producer.Topic())
	}
	disbursement := disbservice.New(st.expenses, users, cat.Bundle, disbOpts...)

	applications := appservice.New(st.applications, disbursement,
		appservice.WithLogger(log),
		appservice.WithMetrics(decisionMetrics),
		appservice.WithLocker(locker),
		appservice.WithTxRunner(st.txRunner),
	)

	evaluator := eligibility.New(cfg.Models.EligibilityPath, log)
	scorer := trust.New(cfg.Models.TrustPath, log)
	decisions := decision.NewService(schemes, applications, evaluator, scorer,
		decision.WithLogger(log),
		decision.WithMetrics(decisionMetrics),
	)
	log.Info("scoring configured", "eligibility", evaluator.Variant(), "trust", scorer.Variant())

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(log))
	r.Use(request.Recovery(log))

	requests := cfg.RateLimit.Requests
	if cfg.RateLimit.Disabled {
		requests = 0
		log.Info("rate limiting disabled")
	}
	limiter := rlmw.New(limits, requests, cfg.RateLimit.Window, log)
	limited := func(class string, register func(chi.Router)) {
		r.Group(func(r chi.Router) {
			r.Use(limiter.RateLimit(class))
			register(r)
		})
	}

	hc.Register(r)
	limited("chatbot", chatbot.NewHandler(log).Register)
	limited("register", userhandler.New(users, log).Register)
	limited("decision", decisionhandler.New(decisions, log).Register)
	limited("read", disbhandler.New(disbursement, log).Register)
	limited("read", schemehandler.New(schemes, log).Register)

	appHTTP := apphandler.New(applications, log)
	limited("read", appHTTP.Register)
	limited("proposal", func(r chi.Router) {
		if cfg.JWTSigningKey == "" {
			log.Warn("JWT_SIGNING_KEY not set, /submit-proposal is unauthenticated")
			appHTTP.RegisterDecisions(r)
			return
		}
		tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, jwttoken.Issuer, jwttoken.Audience)
		r.Use(authmw.RequireRole(tokens.ForMiddleware(), jwttoken.RoleGovernment, log))
		appHTTP.RegisterDecisions(r)
	})

	r.With(admin.RequireToken(cfg.MetricsToken, log)).
		Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	a.router = r
	return a, nil
}

func openStores(ctx context.Context, cfg config.Server, log *slog.Logger) (*stores, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set, using in-memory stores")
		return &stores{
			users:        userstore.NewInMemory(),
			schemes:      schemestore.NewInMemory(),
			applications: appstore.NewInMemory(),
			expenses:     disbstore.NewInMemory(),
			txRunner:     tx.NopRunner{},
		}, nil, nil
	}

	db, err := postgres.Open(ctx, postgres.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return &stores{
		users:        userstore.NewPostgres(db),
		schemes:      schemestore.NewPostgres(db),
		applications: appstore.NewPostgres(db),
		expenses:     disbstore.NewPostgres(db),
		txRunner:     newDecisionPostgresTx(db),
	}, db, nil
}
