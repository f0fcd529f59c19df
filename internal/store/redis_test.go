package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisRepo(t *testing.T) *RedisRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisRepository(rdb)
}

func TestRedisSaveGet(t *testing.T) {
	repo := newRedisRepo(t)
	ctx := context.Background()

	g := sample("", time.Time{})
	if err := repo.Save(ctx, g); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Pgn4 != g.Pgn4 || got.Yellow != "Cara" {
		t.Fatalf("stored game mismatch: %+v", got)
	}
	if _, err := repo.Get(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("get missing = %v, want ErrNotFound", err)
	}
}

func TestRedisRecentOrder(t *testing.T) {
	repo := newRedisRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Save(ctx, sample(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	games, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(games) != 2 || games[0].ID != "c" || games[1].ID != "b" {
		t.Fatalf("recent returned %d games, first=%s", len(games), games[0].ID)
	}
}

func TestRedisDelete(t *testing.T) {
	repo := newRedisRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sample("x", time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, "x"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "x"); err != ErrNotFound {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
	// The index entry is gone too.
	games, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("recent after delete returned %d games", len(games))
	}
}
