package rankcache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

func TestInvalidateContestRank(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	if err := mr.Set("contest:rank:9", "cached leaderboard"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cache := NewCache(client, nopLogger{})
	if err := cache.InvalidateContestRank(context.Background(), 9); err != nil {
		t.Fatalf("InvalidateContestRank() error = %v", err)
	}
	if mr.Exists("contest:rank:9") {
		t.Error("cached leaderboard still present")
	}

	// deleting an absent key is not a failure
	if err := cache.InvalidateContestRank(context.Background(), 404); err != nil {
		t.Errorf("InvalidateContestRank() on missing key = %v", err)
	}
}
