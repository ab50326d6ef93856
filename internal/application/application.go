package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/mymmrac/telego"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"ltd_tracker/internal/config"
	"ltd_tracker/internal/domain/service/deal"
	"ltd_tracker/internal/domain/service/query"
	"ltd_tracker/internal/infrastructure/metrics"
	"ltd_tracker/internal/infrastructure/notifier"
	"ltd_tracker/internal/infrastructure/persistence"
	"ltd_tracker/internal/infrastructure/queue"
	"ltd_tracker/internal/server"
	"ltd_tracker/internal/transport/bot"
	"ltd_tracker/internal/transport/bot/handler"
	"ltd_tracker/internal/worker"
	"ltd_tracker/pkg/application/connectors"
	"ltd_tracker/pkg/application/modules"
	"ltd_tracker/pkg/logx"
	"ltd_tracker/pkg/middlewarex"
)

const httpServerReadHeaderTimeout = 5 * time.Second

// Application держит подключения, которые нужно закрыть при остановке.
type Application struct {
	cfg      config.Config
	postgres *connectors.Postgres
	redis    *connectors.Redis
}

func New(cfg config.Config) *Application {
	return &Application{
		cfg: cfg,
		postgres: &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		},
		redis: &connectors.Redis{
			Address:            cfg.Redis.Address,
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		},
	}
}

// Run поднимает все модули и блокируется до отмены ctx или до ошибки
// любого из них.
func (a *Application) Run(ctx context.Context) error {
	defer a.postgres.Close(ctx)
	defer a.redis.Close(ctx)

	logger(ctx).Info(
		"application starting",
		slog.String(logx.FieldAppName, a.cfg.App.Name),
		slog.String(logx.FieldAppVersion, a.cfg.App.Version),
	)

	store := deal.NewStore()

	collector, err := metrics.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("metrics.NewCollector: %w", err)
	}

	unsubscribe := store.Subscribe(collector.Observe)
	defer unsubscribe()

	syncer, err := a.syncer(ctx, store)
	if err != nil {
		return err
	}

	if syncer != nil {
		if err := syncer.Restore(ctx); err != nil {
			return fmt.Errorf("syncer.Restore: %w", err)
		}
	}

	engine := query.NewCachedEngine(store).WithTTL(a.cfg.Query.CacheTTL)

	g, ctx := errgroup.WithContext(ctx)

	if syncer != nil {
		g.Go(func() error {
			return syncer.Run(ctx)
		})
	}

	modules.ProbeServer{
		Name:          a.cfg.App.Name,
		Version:       a.cfg.App.Version,
		ListenAddress: a.cfg.Probe.ListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: a.cfg.Metrics.ListenAddress,
	}.Run(ctx, g)

	modules.HTTPServer{
		ShutdownTimeout: a.cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, a.httpServer(ctx, store, engine))

	if a.cfg.NeedsTelegram() {
		if err := a.runTelegram(ctx, g, store, engine, collector); err != nil {
			return err
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("application stopped: %w", err)
	}

	logger(ctx).Info("application stopped")

	return nil
}

func (a *Application) syncer(ctx context.Context, store *deal.Store) (*persistence.Syncer, error) {
	var repo persistence.Repository

	switch a.cfg.Storage.Backend {
	case config.StoragePostgres:
		db, err := a.postgres.Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("postgres.Client: %w", err)
		}

		repo = persistence.NewPostgresRepository(db)
	case config.StorageRedis:
		client, err := a.redis.Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("redis.Client: %w", err)
		}

		repo = persistence.NewRedisRepository(client).WithKey(a.cfg.Redis.Key)
	default:
		logger(ctx).Warn("deals are kept in memory only")
		return nil, nil //nolint:nilnil
	}

	return persistence.NewSyncer(repo, store), nil
}

func (a *Application) httpServer(ctx context.Context, store *deal.Store, engine *query.CachedEngine) *http.Server {
	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.RequestLogging(masker, a.cfg.Log.FieldMaxLen),
		middlewarex.ResponseLogging(masker, a.cfg.Log.FieldMaxLen),
		middlewarex.Recovery,
	)

	server.NewServer(server.NewDealServer(store, engine)).RegisterRoutes(router)

	return &http.Server{
		//nolint:exhaustruct
		Addr:              a.cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
}

func (a *Application) runTelegram(
	ctx context.Context,
	g *errgroup.Group,
	store *deal.Store,
	engine *query.CachedEngine,
	collector *metrics.Collector,
) error {
	tgBot, err := telego.NewBot(a.cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("telego.NewBot: %w", err)
	}

	if a.cfg.Bot.Enabled {
		b := bot.New(tgBot, handler.New(store, engine), a.cfg.Bot.ChatID)

		g.Go(func() error {
			return b.Run(ctx)
		})
	}

	if !a.cfg.Reminder.Enabled {
		return nil
	}

	telegramSink := notifier.NewTelegramBot(tgBot, a.cfg.Bot.ChatID)

	var sink worker.ReminderSink = telegramSink

	if a.cfg.Reminder.Sink == config.ReminderSinkAsynq {
		asynqServer := modules.AsynqServer{
			RedisUsername: a.cfg.Redis.Username,
			RedisPassword: a.cfg.Redis.Password,
			RedisAddress:  a.cfg.Redis.Address,
			RedisDB:       a.cfg.Redis.DatabaseNumber,
		}

		client := asynq.NewClient(asynqServer.RedisClientOpt())
		g.Go(func() error {
			<-ctx.Done()
			return client.Close()
		})

		sink = queue.NewEnqueuer(client).WithQueue(a.cfg.Reminder.Queue)

		asynqServer.Run(ctx, g, modules.AsynqQueues{a.cfg.Reminder.Queue: 1}, modules.AsynqHandler{
			Pattern: queue.TypeRefundReminder,
			Handle:  queue.NewHandler(telegramSink).ProcessTask,
		})
	}

	watcher := worker.NewRefundWatcher(engine, sink).
		WithInterval(a.cfg.Reminder.Interval).
		WithHorizon(a.cfg.Reminder.Horizon).
		WithObserver(collector)

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("watcher.Start: %w", err)
	}

	// Stop дожидается завершения текущей проверки.
	g.Go(func() error {
		<-ctx.Done()
		watcher.Stop()

		return nil
	})

	return nil
}
