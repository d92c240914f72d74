package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	"github.com/CelestialBrain/sms-scheduler/internal/api/handlers/account"
	customerhandler "github.com/CelestialBrain/sms-scheduler/internal/api/handlers/customer"
	messagehandler "github.com/CelestialBrain/sms-scheduler/internal/api/handlers/message"
	"github.com/CelestialBrain/sms-scheduler/internal/api/router"
	"github.com/CelestialBrain/sms-scheduler/internal/api/server"
	"github.com/CelestialBrain/sms-scheduler/internal/config"
	"github.com/CelestialBrain/sms-scheduler/internal/poller"
	custrepo "github.com/CelestialBrain/sms-scheduler/internal/repository/customer"
	msgrepo "github.com/CelestialBrain/sms-scheduler/internal/repository/message"
	"github.com/CelestialBrain/sms-scheduler/internal/sender"
	custsvc "github.com/CelestialBrain/sms-scheduler/internal/service/customer"
	msgsvc "github.com/CelestialBrain/sms-scheduler/internal/service/message"
	"github.com/CelestialBrain/sms-scheduler/internal/stream"
	"github.com/CelestialBrain/sms-scheduler/internal/wakeup"
	"github.com/CelestialBrain/sms-scheduler/pkg/semaphore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zlog.Init()
	cfg := config.Must()
	val := validator.New()

	var (
		db        *dbpg.DB
		msgStore  msgrepo.Store
		custStore custrepo.Store
	)

	switch cfg.Storage.Driver {
	case "postgres":
		opts := &dbpg.Options{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}

		slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
		for _, s := range cfg.Database.Slaves {
			slaveDSNs = append(slaveDSNs, s.DSN())
		}

		var err error
		db, err = dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
		}

		msgStore = msgrepo.NewPostgresStore(db)
		custStore = custrepo.NewPostgresStore(db)
	case "memory", "":
		zlog.Logger.Warn().Msg("using in-memory storage; messages are lost on restart")
		msgStore = msgrepo.NewMemoryStore()
		custStore = custrepo.NewMemoryStore()
	default:
		zlog.Logger.Fatal().Str("driver", cfg.Storage.Driver).Msg("unknown storage driver")
	}

	statusStream := stream.New()

	svcOpts := msgsvc.Options{
		Customers: custStore,
		Strategy:  cfg.Retry,
		SoonSpan:  cfg.Scheduler.SoonSpan,
	}

	if cfg.Redis.Enabled() {
		rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.Database)
		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		svcOpts.Cache = rdb
	}

	// The early-wake broker is an optional capability. When it is missing
	// the poller still runs on its regular ticker, so a connection failure
	// is logged and tolerated rather than fatal.
	var (
		wakeCh      <-chan struct{}
		closeBroker func()
	)

	if cfg.RabbitMQ.Enabled() {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Retries, cfg.RabbitMQ.Pause)
		if err != nil {
			zlog.Logger.Warn().Err(err).Msg("early-wake broker unavailable; continuing with ticker only")
		} else {
			ch, err := conn.Channel()
			if err != nil {
				zlog.Logger.Warn().Err(err).Msg("failed to open broker channel; continuing with ticker only")
				_ = conn.Close()
			} else {
				waker, err := wakeup.New(ch, int32(cfg.Scheduler.WakeDelay.Milliseconds()), cfg.Retry)
				if err != nil {
					zlog.Logger.Warn().Err(err).Msg("failed to declare wake queues; continuing with ticker only")
					_ = ch.Close()
					_ = conn.Close()
				} else {
					wakeCh = waker.Wakes()
					svcOpts.Waker = waker
					go waker.Run(ctx)

					closeBroker = func() {
						if err := ch.Close(); err != nil {
							zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
						}
						if err := conn.Close(); err != nil {
							zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
						}
					}
				}
			}
		}
	}

	var (
		snd            sender.Sender
		accountHandler *account.Handler
	)

	if cfg.Gateway.APIKey != "" {
		client := semaphore.NewClient(cfg.Gateway.APIKey, cfg.Gateway.BaseURL)

		acc, err := client.GetAccount(ctx)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to verify gateway credentials")
		}
		zlog.Logger.Info().
			Str("account", acc.AccountName).
			Str("credit_balance", acc.CreditBalance.String()).
			Msg("gateway credentials verified")

		snd = sender.NewGatewaySender(client, cfg.Gateway.SenderName, cfg.Gateway.AlwaysPriority)
		accountHandler = account.NewHandler(client)
	} else {
		zlog.Logger.Warn().Msg("no gateway configured; all deliveries will fail until a sender is supplied")
		snd = sender.NewCallbackSender(nil)
	}

	messageService := msgsvc.NewService(msgStore, statusStream, svcOpts)
	customerService := custsvc.NewService(custStore)

	// Keep the status cache in step with poller-driven transitions, which
	// bypass the service layer.
	if svcOpts.Cache != nil {
		statusStream.Subscribe(messageService.CacheRefresher(ctx))
	}

	p := poller.New(msgStore, snd, statusStream, cfg.Scheduler.Interval, wakeCh)
	if err := p.Start(ctx); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to start poller")
	}

	msgHandler := messagehandler.NewHandler(messageService, val)
	custHandler := customerhandler.NewHandler(customerService, val)

	r := router.New(msgHandler, custHandler, accountHandler)
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	if err := p.Stop(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to stop poller")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	if db != nil {
		if err := db.Master.Close(); err != nil {
			zlog.Logger.Printf("failed to close master DB: %v", err)
		}

		for i, slave := range db.Slaves {
			if err := slave.Close(); err != nil {
				zlog.Logger.Printf("failed to close slave DB %d: %v", i, err)
			}
		}
	}

	if closeBroker != nil {
		closeBroker()
	}
}
