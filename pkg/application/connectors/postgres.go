package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"ltd_tracker/pkg/logx"
)

type Postgres struct {
	value           *sqlx.DB
	err             error
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	init            sync.Once
}

// Client подключается к базе при первом вызове и дальше возвращает то же
// подключение (или ту же ошибку).
func (p *Postgres) Client(ctx context.Context) (*sqlx.DB, error) {
	p.init.Do(func() {
		db, err := sqlx.ConnectContext(ctx, "pgx", p.DSN)
		if err != nil {
			p.err = fmt.Errorf("sqlx.ConnectContext: %w", err)
			return
		}

		db.SetMaxOpenConns(p.MaxOpenConns)
		db.SetMaxIdleConns(p.MaxIdleConns)
		db.SetConnMaxLifetime(p.ConnMaxLifetime)

		p.value = db

		logger(ctx).Info("postgres connected", slog.String("database", p.database()))
	})

	return p.value, p.err
}

func (p *Postgres) Close(ctx context.Context) {
	if p.value == nil {
		return
	}

	if err := p.value.Close(); err != nil {
		logger(ctx).Error("postgresClient.Close", logx.Error(err))
	}

	logger(ctx).Info("postgres disconnected", slog.String("database", p.database()))
}

func (p *Postgres) database() string {
	u, err := url.Parse(p.DSN)
	if err != nil {
		return "unknown"
	}

	return lo.CoalesceOrEmpty(strings.TrimPrefix(u.Path, "/"), "unknown")
}
