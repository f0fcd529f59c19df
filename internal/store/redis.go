package store

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	keyGamePrefix = "fpc:games:"
	keyGameIndex  = "fpc:games:index"
)

// RedisRepository stores games as JSON values plus a sorted-set index on
// save time for Recent.
type RedisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func keyGame(id string) string { return keyGamePrefix + strings.TrimSpace(id) }

func (r *RedisRepository) Save(ctx context.Context, g *SavedGame) error {
	if err := normalize(g); err != nil {
		return err
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, keyGame(g.ID), raw, 0).Err(); err != nil {
		return err
	}
	return r.rdb.ZAdd(ctx, keyGameIndex, redis.Z{
		Score:  float64(g.SavedAt.UnixMilli()),
		Member: g.ID,
	}).Err()
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*SavedGame, error) {
	raw, err := r.rdb.Get(ctx, keyGame(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var g SavedGame
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *RedisRepository) Recent(ctx context.Context, limit int) ([]*SavedGame, error) {
	if limit <= 0 {
		limit = 10
	}
	ids, err := r.rdb.ZRevRange(ctx, keyGameIndex, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*SavedGame, 0, len(ids))
	for _, id := range ids {
		g, err := r.Get(ctx, id)
		if err == ErrNotFound {
			// index entry outlived the value; drop it
			_ = r.rdb.ZRem(ctx, keyGameIndex, id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	n, err := r.rdb.Del(ctx, keyGame(id)).Result()
	if err != nil {
		return err
	}
	_ = r.rdb.ZRem(ctx, keyGameIndex, id).Err()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisRepository) Close() error { return r.rdb.Close() }
