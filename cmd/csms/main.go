// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains csms main function to start the central system
// service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/absmach/csms/chargepoints"
	cpcache "github.com/absmach/csms/chargepoints/cache"
	cpmiddleware "github.com/absmach/csms/chargepoints/middleware"
	cppostgres "github.com/absmach/csms/chargepoints/postgres"
	"github.com/absmach/csms/commands"
	cmdmiddleware "github.com/absmach/csms/commands/middleware"
	cmdnats "github.com/absmach/csms/commands/nats"
	cmdpostgres "github.com/absmach/csms/commands/postgres"
	"github.com/absmach/csms/datum"
	"github.com/absmach/csms/logger"
	"github.com/absmach/csms/pkg/messaging"
	natspub "github.com/absmach/csms/pkg/messaging/nats"
	pgclient "github.com/absmach/csms/pkg/postgres"
	"github.com/absmach/csms/pkg/prometheus"
	"github.com/absmach/csms/pkg/ticker"
	"github.com/absmach/csms/pkg/uuid"
	"github.com/absmach/csms/sessions"
	sessmiddleware "github.com/absmach/csms/sessions/middleware"
	sesspostgres "github.com/absmach/csms/sessions/postgres"
	"github.com/absmach/csms/writers/influxdb"
	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/jmoiron/sqlx"
	broker "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	migrate "github.com/rubenv/sql-migrate"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

const (
	svcName     = "csms"
	envPrefixDB = "CSMS_DB_"
	defDB       = "csms"

	instructionsSubject = "csms.instructions"
)

type config struct {
	LogLevel       string        `env:"CSMS_LOG_LEVEL"        envDefault:"info"`
	HTTPPort       string        `env:"CSMS_HTTP_PORT"        envDefault:"8190"`
	BrokerURL      string        `env:"CSMS_BROKER_URL"       envDefault:"nats://localhost:4222"`
	RedisURL       string        `env:"CSMS_CACHE_URL"        envDefault:"redis://localhost:6379/0"`
	CacheKeepalive time.Duration `env:"CSMS_CACHE_KEEPALIVE"  envDefault:"10m"`
	InfluxURL      string        `env:"CSMS_INFLUX_URL"       envDefault:"http://localhost:8086"`
	InfluxToken    string        `env:"CSMS_INFLUX_TOKEN"     envDefault:""`
	InfluxOrg      string        `env:"CSMS_INFLUX_ORG"       envDefault:"csms"`
	InfluxBucket   string        `env:"CSMS_INFLUX_BUCKET"    envDefault:"datums"`
	Horizon        time.Duration `env:"CSMS_SESSION_HORIZON"  envDefault:"720h"`
	DispatchWait   time.Duration `env:"CSMS_DISPATCH_TIMEOUT" envDefault:"30s"`
	Workers        int           `env:"CSMS_DISPATCH_WORKERS" envDefault:"16"`
	MaxScale       int           `env:"CSMS_DATUM_MAX_SCALE"  envDefault:"1"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	lgr, err := logger.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err)
	}

	var exitCode int
	defer logger.ExitWithError(&exitCode)

	dbConfig := pgclient.Config{Name: defDB}
	if err := env.ParseWithOptions(&dbConfig, env.Options{Prefix: envPrefixDB}); err != nil {
		lgr.Error(err.Error())
		exitCode = 1
		return
	}
	db, err := pgclient.Setup(dbConfig, migrations())
	if err != nil {
		lgr.Error(err.Error())
		exitCode = 1
		return
	}
	defer db.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		lgr.Error(fmt.Sprintf("failed to parse cache URL: %s", err))
		exitCode = 1
		return
	}
	cacheClient := redis.NewClient(redisOpts)
	defer cacheClient.Close()

	natsConn, err := broker.Connect(cfg.BrokerURL)
	if err != nil {
		lgr.Error(fmt.Sprintf("failed to connect to broker: %s", err))
		exitCode = 1
		return
	}
	defer natsConn.Close()

	publisher, err := natspub.NewPublisher(ctx, cfg.BrokerURL)
	if err != nil {
		lgr.Error(fmt.Sprintf("failed to create publisher: %s", err))
		exitCode = 1
		return
	}
	defer publisher.Close()

	influxClient := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	defer influxClient.Close()
	store := influxdb.NewRepository(influxClient, influxdb.RepoConfig{
		Bucket: cfg.InfluxBucket,
		Org:    cfg.InfluxOrg,
	})

	registry := commands.NewRegistry()
	dispatcher := newDispatcher(cfg, registry, natsConn, lgr)
	defer dispatcher.Stop()

	devices := newChargePoints(db, dbConfig, cacheClient, cfg, dispatcher, lgr)
	defer devices.Stop()

	tick := ticker.NewTicker(cfg.Horizon / 4)
	defer tick.Stop()
	sessionSvc := newSessions(db, dbConfig, cfg, devices, store, publisher, tick, lgr)
	sessionSvc.Start()
	defer sessionSvc.Stop()

	database := pgclient.NewDatabase(db, dbConfig, otel.Tracer(svcName))
	instructions := cmdpostgres.NewRepository(database)
	bridge := commands.NewBridge(dispatcher, devices, instructions, lgr)
	sub, err := subscribeInstructions(ctx, natsConn, bridge, instructions, lgr)
	if err != nil {
		lgr.Error(fmt.Sprintf("failed to subscribe to instructions: %s", err))
		exitCode = 1
		return
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			lgr.Warn("failed to unsubscribe from instructions", slog.Any("error", err))
		}
	}()

	mux := chi.NewRouter()
	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"pass"}`)); err != nil {
			lgr.Warn("failed to write health response", slog.Any("error", err))
		}
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: mux}

	g.Go(func() error {
		lgr.Info(svcName + " HTTP server listening on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		lgr.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

// subscribeInstructions feeds charge point instructions published on the
// broker through the bridge. Instructions the bridge does not claim are
// left for other consumers.
func subscribeInstructions(ctx context.Context, conn *broker.Conn, bridge *commands.Bridge, instructions commands.InstructionRepository, lgr *slog.Logger) (*broker.Subscription, error) {
	return conn.Subscribe(instructionsSubject, func(msg *broker.Msg) {
		var in commands.Instruction
		if err := json.Unmarshal(msg.Data, &in); err != nil {
			lgr.Warn("failed to decode instruction", slog.Any("error", err))
			return
		}
		if in.ID == "" {
			id, err := uuid.New().ID()
			if err != nil {
				lgr.Warn("failed to assign instruction ID", slog.Any("error", err))
				return
			}
			in.ID = id
		}
		in.State = commands.Received
		if err := instructions.Save(ctx, in); err != nil {
			lgr.Warn("failed to save instruction", slog.String("instruction_id", in.ID), slog.Any("error", err))
			return
		}

		in, claimed := bridge.Intercept(ctx, in)
		if !claimed {
			return
		}
		go bridge.Forward(ctx, in)
	})
}

func migrations() migrate.MemoryMigrationSource {
	all := []*migrate.Migration{}
	all = append(all, cppostgres.Migration().Migrations...)
	all = append(all, sesspostgres.Migration().Migrations...)
	all = append(all, cmdpostgres.Migration().Migrations...)

	return migrate.MemoryMigrationSource{Migrations: all}
}

func newDispatcher(cfg config, registry *commands.Registry, natsConn *broker.Conn, lgr *slog.Logger) commands.Service {
	handler := cmdnats.NewHandler(natsConn, cfg.DispatchWait)
	svc := commands.New(registry, handler, uuid.New(), cfg.Workers, lgr)
	svc = cmdmiddleware.NewLoggingMiddleware(lgr, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "commands")
	svc = cmdmiddleware.NewMetricsMiddleware(counter, latency, svc)

	return svc
}

func newChargePoints(db *sqlx.DB, dbConfig pgclient.Config, cacheClient *redis.Client, cfg config, dispatcher commands.Service, lgr *slog.Logger) chargepoints.Service {
	database := pgclient.NewDatabase(db, dbConfig, otel.Tracer(svcName))
	repo := cppostgres.NewRepository(database)
	connectors := cppostgres.NewConnectorRepository(database)
	settings := cppostgres.NewSettingsRepository(database)
	cache := cpcache.NewCache(cacheClient, cfg.CacheKeepalive)
	reader := commands.NewConfigReader(dispatcher)

	svc := chargepoints.New(repo, connectors, settings, cache, reader, lgr)
	svc = cpmiddleware.NewLoggingMiddleware(lgr, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "charge_points")
	svc = cpmiddleware.NewMetricsMiddleware(counter, latency, svc)

	return svc
}

func newSessions(db *sqlx.DB, dbConfig pgclient.Config, cfg config, devices chargepoints.Service, store datum.Repository, publisher messaging.Publisher, tick ticker.Ticker, lgr *slog.Logger) sessions.Service {
	database := pgclient.NewDatabase(db, dbConfig, otel.Tracer(svcName))
	repo := sesspostgres.NewRepository(database)
	readings := sesspostgres.NewReadingRepository(database)
	tokens := sesspostgres.NewTokenRepository(database)
	auth := sessions.NewAuthorizer(tokens)

	svc := sessions.New(repo, readings, auth, devices, store, publisher, uuid.New(), tick, cfg.Horizon, cfg.MaxScale, lgr)
	svc = sessmiddleware.NewLoggingMiddleware(lgr, svc)
	counter, latency := prometheus.MakeMetrics(svcName, "sessions")
	svc = sessmiddleware.NewMetricsMiddleware(counter, latency, svc)

	return svc
}
