package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// HistoryRepository tracks which product ids were already shown to a user.
// Stored as a Redis set per user with a sliding TTL.
type HistoryRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewHistoryRepository(client *redis.Client, ttl time.Duration) *HistoryRepository {
	return &HistoryRepository{
		client: client,
		ttl:    ttl,
	}
}

func historyKey(userID string) string {
	return fmt.Sprintf("history:shown:%s", userID)
}

// GetShownSet returns the shown-set for a user as a membership map.
func (r *HistoryRepository) GetShownSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	ids, err := r.client.SMembers(ctx, historyKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read shown set: %w", err)
	}

	shown := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		shown[id] = struct{}{}
	}

	return shown, nil
}

// RecordShown adds ids to the user's shown-set and refreshes its TTL.
func (r *HistoryRepository) RecordShown(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	key := historyKey(userID)

	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		members = append(members, id)
	}

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key, members...)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record shown items: %w", err)
	}

	return nil
}
