package xp

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	LeaderboardKey = "xp:leaderboard"
	EventsKey      = "xp:events"

	// streamMaxLen caps the event stream; older entries are trimmed.
	streamMaxLen = 10000
)

// RedisAwarder keeps running totals in a sorted set and appends every award
// to a stream. Both writes go out in one MULTI/EXEC.
type RedisAwarder struct {
	rdb *redis.Client
}

func NewRedisAwarder(rdb *redis.Client) *RedisAwarder {
	return &RedisAwarder{rdb: rdb}
}

func (r *RedisAwarder) Award(ctx context.Context, a Award) error {
	if err := a.validate(); err != nil {
		return err
	}
	pts := a.Event.Points()

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, LeaderboardKey, float64(pts), a.UserID)
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: EventsKey,
			MaxLen: streamMaxLen,
			Approx: true,
			Values: map[string]any{
				"user_id": a.UserID,
				"event":   string(a.Event),
				"game_id": a.GameID,
				"points":  pts,
			},
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("awarding %s to %s: %w", a.Event, a.UserID, err)
	}
	return nil
}

// Total returns a user's accumulated points, zero if they have none.
func (r *RedisAwarder) Total(ctx context.Context, userID string) (int64, error) {
	score, err := r.rdb.ZScore(ctx, LeaderboardKey, userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int64(score), nil
}
