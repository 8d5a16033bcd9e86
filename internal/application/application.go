package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"saltmarket/internal/config"
	"saltmarket/internal/domain/service/deal"
	"saltmarket/internal/domain/service/landowner"
	"saltmarket/internal/domain/service/negotiation"
	"saltmarket/internal/domain/service/notification"
	"saltmarket/internal/infrastructure/dispatch"
	"saltmarket/internal/infrastructure/notifier"
	"saltmarket/internal/infrastructure/persistence"
	"saltmarket/internal/infrastructure/prediction"
	"saltmarket/internal/server"
	"saltmarket/internal/worker"
	"saltmarket/pkg/application/connectors"
	"saltmarket/pkg/application/modules"
	"saltmarket/pkg/logx"
	"saltmarket/pkg/middlewarex"
)

const logFieldMaxLen = 4096

// Run wires the marketplace together and blocks until the context is
// cancelled or a module fails.
func Run(ctx context.Context) error { //nolint:funlen
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db.PingContext: %w", err)
	}

	rd := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := rd.Client(ctx)
	defer rd.Close(ctx)

	asynqClient := asynq.NewClientFromRedisClient(redisClient)

	dealRepo := persistence.NewDealRepository(db)
	offerRepo := persistence.NewOfferRepository(db)
	notificationRepo := persistence.NewNotificationRepository(db)
	landownerRepo := persistence.NewLandownerRepository(db)

	predictionClient := prediction.NewClient(cfg.Prediction.BaseURL).
		WithTimeout(cfg.Prediction.Timeout)

	dispatcher := dispatch.NewAsynqDispatcher(asynqClient)

	notificationService := notification.NewService(notificationRepo).
		WithRetention(cfg.Market.NotificationRetention)
	dealService := deal.NewService(dealRepo, offerRepo, landownerRepo, dispatcher)
	negotiationService := negotiation.NewService(dealRepo, offerRepo, landownerRepo, dispatcher)
	landownerService := landowner.NewService(landownerRepo, dealRepo, predictionClient)

	deliverer := worker.NewNotificationDeliverer(notificationService)

	if cfg.Bot.Enabled() {
		opsBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		if err := opsBot.SendText(ctx, "saltmarket started, ops alerts enabled"); err != nil {
			logger(ctx).Warn("ops bot ping failed", logx.Error(err))
		}

		deliverer = deliverer.WithOpsAlerts(opsBot)
	}

	retention := worker.NewRetentionWorker(notificationService, cfg.Market.PruneInterval)

	httpServer := newHTTPServer(cfg, dealService, negotiationService, notificationService, landownerService)

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, httpServer)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.Metrics.ListenAddress}.Run(ctx, g)

	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqQueues{dispatch.QueueNotifications: 1},
		modules.AsynqHandler{
			Pattern: dispatch.TypeNotificationDeliver,
			Handle:  deliverer.HandleDeliver,
		},
	)

	g.Go(func() error {
		return retention.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func newHTTPServer(
	cfg config.Config,
	dealService *deal.Service,
	negotiationService *negotiation.Service,
	notificationService *notification.Service,
	landownerService *landowner.Service,
) *http.Server {
	srv := server.NewServer(
		server.NewOfferServer(dealService, landownerService, cfg.Market.HighDemandThreshold),
		server.NewDealServer(dealService),
		server.NewNegotiationServer(negotiationService),
		server.NewNotificationServer(notificationService),
		server.NewLandownerServer(landownerService),
	)

	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	srv.RegisterRoutes(router)

	return &http.Server{ //nolint:exhaustruct
		Addr:         cfg.HTTP.ListenAddress,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
}
