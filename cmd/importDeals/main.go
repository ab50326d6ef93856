package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ltd_tracker/internal/config"
	"ltd_tracker/internal/domain/service/deal"
	"ltd_tracker/internal/importer"
	"ltd_tracker/internal/infrastructure/persistence"
	"ltd_tracker/pkg/application/connectors"
	"ltd_tracker/pkg/contextx"
	"ltd_tracker/pkg/logx"
)

// go run ./cmd/importDeals deals.json
//
// Сделки из файла добавляются к уже сохранённым в STORAGE_BACKEND. Если хоть
// одна сделка невалидна, хранилище не меняется.

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logx.New(os.Stdout, slog.LevelInfo, false)
	ctx = contextx.WithLogger(ctx, log)

	if len(os.Args) < 2 { //nolint:mnd
		log.Error("usage: importDeals <deals.json>")
		os.Exit(2) //nolint:gocritic,mnd
	}

	if err := run(ctx, os.Args[1]); err != nil {
		log.Error("import failed", logx.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	repo, closeRepo, err := repository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	inputs, err := importer.Read(f)
	if err != nil {
		return fmt.Errorf("importer.Read: %w", err)
	}

	store := deal.NewStore()

	if err := persistence.NewSyncer(repo, store).Restore(ctx); err != nil {
		return fmt.Errorf("syncer.Restore: %w", err)
	}

	added, err := importer.Admit(store, inputs)
	if err != nil {
		return fmt.Errorf("importer.Admit: %w", err)
	}

	if err := repo.Save(ctx, store.ListDeals()); err != nil {
		return fmt.Errorf("repo.Save: %w", err)
	}

	contextx.LoggerFromContextOrDefault(ctx).Info(
		"deals imported",
		slog.String(logx.FieldStorage, repo.Name()),
		slog.Int(logx.FieldDealsCount, len(added)),
	)

	return nil
}

func repository(ctx context.Context, cfg config.Config) (persistence.Repository, func(), error) {
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}

		db, err := pg.Client(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres.Client: %w", err)
		}

		return persistence.NewPostgresRepository(db), func() { pg.Close(ctx) }, nil
	case config.StorageRedis:
		rd := &connectors.Redis{
			Address:        cfg.Redis.Address,
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			DatabaseNumber: cfg.Redis.DatabaseNumber,
			PoolSize:       1,
		}

		client, err := rd.Client(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("redis.Client: %w", err)
		}

		return persistence.NewRedisRepository(client).WithKey(cfg.Redis.Key), func() { rd.Close(ctx) }, nil
	default:
		return nil, nil, errors.New("STORAGE_BACKEND=memory keeps nothing, use postgres or redis")
	}
}
