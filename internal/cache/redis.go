package cache

import (
	"context"
	"fmt"
	"time"

	"hospital-or-scheduling/internal/config"
	"hospital-or-scheduling/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseSrc deletes a hold only while it still carries the caller's token,
// so an expired hold that another request has since taken is left alone.
const releaseSrc = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

var releaseScript = redis.NewScript(releaseSrc)

// SlotCache holds short-lived booking claims on room slots so duplicate
// booking requests are turned away before they reach the database.
type SlotCache struct {
	client *redis.Client
}

func NewSlotCache(cfg config.RedisConfig) *SlotCache {
	return &SlotCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

// AcquireSlotLock claims a slot for ttl. The returned token identifies this
// claim and must be passed back to ReleaseSlotLock.
func (c *SlotCache) AcquireSlotLock(ctx context.Context, roomID uint, date models.Date, start models.ClockTime, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, slotLockKey(roomID, date, start), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (c *SlotCache) ReleaseSlotLock(ctx context.Context, roomID uint, date models.Date, start models.ClockTime, token string) error {
	return releaseScript.Run(ctx, c.client, []string{slotLockKey(roomID, date, start)}, token).Err()
}

func (c *SlotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *SlotCache) Close() error {
	return c.client.Close()
}

func slotLockKey(roomID uint, date models.Date, start models.ClockTime) string {
	return fmt.Sprintf("lock:or:%d:%s:%02d%02d", roomID, date, start.Hour(), start.Minute())
}
