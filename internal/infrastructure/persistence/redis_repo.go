package persistence

import (
	"context"
	"errors"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"ltd_tracker/internal/domain"
	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/pkg/errcodes"
)

const defaultRedisKey = "ltd_tracker:deals"

// RedisRepository хранит снимок целиком одним JSON-значением.
type RedisRepository struct {
	client *redis.Client
	key    string
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{
		client: client,
		key:    defaultRedisKey,
	}
}

func (r *RedisRepository) WithKey(key string) *RedisRepository {
	r.key = key
	return r
}

// Load возвращает пустую коллекцию, если снимок ещё не сохранялся.
func (r *RedisRepository) Load(ctx context.Context) ([]entity.Deal, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []entity.Deal{}, nil
	}

	if err != nil {
		return nil, domain.WrapError(err, errcodes.SnapshotLoadFailed, "failed to read snapshot")
	}

	var deals []entity.Deal
	if err := jsoniter.Unmarshal(raw, &deals); err != nil {
		return nil, domain.WrapError(err, errcodes.SnapshotLoadFailed, "failed to decode snapshot")
	}

	return deals, nil
}

func (r *RedisRepository) Save(ctx context.Context, deals []entity.Deal) error {
	raw, err := jsoniter.Marshal(deals)
	if err != nil {
		return domain.WrapError(err, errcodes.SnapshotSaveFailed, "failed to encode snapshot")
	}

	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return domain.WrapError(err, errcodes.SnapshotSaveFailed, "failed to write snapshot")
	}

	return nil
}

func (r *RedisRepository) Name() string {
	return "redis"
}
