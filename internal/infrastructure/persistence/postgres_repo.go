package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ltd_tracker/internal/domain"
	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/pkg/errcodes"
)

// PostgresRepository хранит снимок коллекции в таблице deals.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Load возвращает сделки в порядке коллекции.
func (r *PostgresRepository) Load(ctx context.Context) ([]entity.Deal, error) {
	query := `
		SELECT id, position, name, marketplace, price, purchase_date, refund_window,
		       refund_deadline, expiry_date, category, status, favorite, description,
		       notes, created_at, updated_at
		FROM deals
		ORDER BY position ASC`

	var schemas []dealSchema
	if err := r.db.SelectContext(ctx, &schemas, query); err != nil {
		return nil, domain.WrapError(err, errcodes.SnapshotLoadFailed, "failed to load deals")
	}

	deals := make([]entity.Deal, 0, len(schemas))
	for i := range schemas {
		deals = append(deals, schemas[i].toDomain())
	}

	return deals, nil
}

// Save атомарно заменяет содержимое таблицы снимком.
func (r *PostgresRepository) Save(ctx context.Context, deals []entity.Deal) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM deals`); err != nil {
			return domain.WrapError(err, errcodes.SnapshotSaveFailed, "failed to clear deals")
		}

		if len(deals) == 0 {
			return nil
		}

		schemas := make([]dealSchema, 0, len(deals))
		for i, d := range deals {
			schemas = append(schemas, fromDeal(d, i))
		}

		query := `
			INSERT INTO deals (
				id, position, name, marketplace, price, purchase_date, refund_window,
				refund_deadline, expiry_date, category, status, favorite, description,
				notes, created_at, updated_at
			) VALUES (
				:id, :position, :name, :marketplace, :price, :purchase_date, :refund_window,
				:refund_deadline, :expiry_date, :category, :status, :favorite, :description,
				:notes, :created_at, :updated_at
			)`

		if _, err := tx.NamedExecContext(ctx, query, schemas); err != nil {
			return domain.WrapError(err, errcodes.SnapshotSaveFailed, "failed to insert deals")
		}

		return nil
	})
}

func (r *PostgresRepository) Name() string {
	return "postgres"
}
