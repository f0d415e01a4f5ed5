package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// EnrichJob asks the metadata extractor to fill in a saved URL's title,
// favicon and screenshot.
type EnrichJob struct {
	URLID       string
	WorkspaceID string
	URL         string
}

type EnrichQueue interface {
	Enqueue(ctx context.Context, job EnrichJob) error
}

type RedisEnrichQueue struct {
	client *redis.Client
	stream string
}

func NewRedisEnrichQueue(client *redis.Client, stream string) *RedisEnrichQueue {
	return &RedisEnrichQueue{client: client, stream: stream}
}

func (q *RedisEnrichQueue) Enqueue(ctx context.Context, job EnrichJob) error {
	_, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{
			"type":         "enrich",
			"url_id":       job.URLID,
			"workspace_id": job.WorkspaceID,
			"url":          job.URL,
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("enqueue enrich job: %w", err)
	}
	return nil
}

// NopEnrichQueue drops jobs; used when Redis is disabled.
type NopEnrichQueue struct{}

func (NopEnrichQueue) Enqueue(context.Context, EnrichJob) error { return nil }
