package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Outbox forwards emitted results to downstream consumers.
type Outbox interface {
	Publish(ctx context.Context, rec ResultRecord) error
}

// RedisOutbox appends results to a Redis stream.
type RedisOutbox struct {
	client *redis.Client
	stream string
}

func NewRedisOutbox(client *redis.Client, stream string) *RedisOutbox {
	return &RedisOutbox{client: client, stream: stream}
}

func (o *RedisOutbox) Publish(ctx context.Context, rec ResultRecord) error {
	data, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	err = o.client.XAdd(ctx, &redis.XAddArgs{
		Stream: o.stream,
		Values: map[string]any{
			"resultId": rec.ID,
			"playId":   rec.PlayID,
			"gameId":   rec.GameID,
			"gameType": string(rec.GameType),
			"mode":     string(rec.Mode),
			"result":   string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("appending to %s: %w", o.stream, err)
	}
	return nil
}
