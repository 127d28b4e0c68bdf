package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"auctionbay/internal/model"
)

const (
	// NotificationPrefix is the key prefix for per-user notification feeds
	NotificationPrefix = "notifications:user:"

	// NotificationCap bounds the feed length per user
	NotificationCap = 50

	// NotificationTTL expires feeds of inactive users (30 days)
	NotificationTTL = 30 * 24 * time.Hour
)

// NotificationFeed is a bounded per-user notification list, newest first.
// Workers push into it; the HTTP layer only reads. Entries are best-effort:
// a lost notification is acceptable, a stale feed is not, hence the cap and
// TTL.
type NotificationFeed interface {
	// Push prepends a notification to the user's feed, trimming to the cap.
	Push(ctx context.Context, userID int64, n model.Notification) error

	// List returns up to limit notifications, newest first.
	List(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
}

// RedisNotificationFeed implements NotificationFeed on Redis lists.
type RedisNotificationFeed struct {
	client *redis.Client
}

func NewNotificationFeed(client *redis.Client) NotificationFeed {
	return &RedisNotificationFeed{client: client}
}

func notificationKey(userID int64) string {
	return fmt.Sprintf("%s%d", NotificationPrefix, userID)
}

// Push uses a pipeline: LPUSH + LTRIM (maintain cap) + EXPIRE (refresh TTL).
func (c *RedisNotificationFeed) Push(ctx context.Context, userID int64, n model.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	key := notificationKey(userID)
	pipe := c.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, NotificationCap-1)
	pipe.Expire(ctx, key, NotificationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}

func (c *RedisNotificationFeed) List(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > NotificationCap {
		limit = NotificationCap
	}

	items, err := c.client.LRange(ctx, notificationKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]model.Notification, 0, len(items))
	for _, item := range items {
		var n model.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			continue // skip malformed entries
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
