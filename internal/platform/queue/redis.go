package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return rdb, nil
}

// TallyQueue is the Redis list of place ids whose vote counts are stale.
type TallyQueue struct {
	rdb  *redis.Client
	name string
}

func NewTallyQueue(rdb *redis.Client, name string) *TallyQueue {
	return &TallyQueue{rdb: rdb, name: name}
}

func (q *TallyQueue) Name() string { return q.name }

func (q *TallyQueue) Enqueue(ctx context.Context, placeID string) error {
	if err := q.rdb.LPush(ctx, q.name, placeID).Err(); err != nil {
		return fmt.Errorf("failed to push place %s to tally queue: %w", placeID, err)
	}
	return nil
}
