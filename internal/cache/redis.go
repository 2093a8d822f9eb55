package cache

import (
	"SchoolLicensing/internal/config"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "webhook:event:"

// EventGuard remembers processed gateway event ids so a redelivered event
// is acknowledged without running fulfillment again.
type EventGuard struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewEventGuard connects to Redis; it returns nil, nil when the guard is
// disabled in config.
func NewEventGuard(conf *config.Config, log *slog.Logger) (*EventGuard, error) {
	if !conf.Redis.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewEventGuardWithClient(client, time.Duration(conf.Redis.EventTTL)*time.Hour, log), nil
}

func NewEventGuardWithClient(client *redis.Client, ttl time.Duration, log *slog.Logger) *EventGuard {
	return &EventGuard{
		client: client,
		ttl:    ttl,
		log:    log.With(sl.Module("cache.events")),
	}
}

// Seen records the event id and reports whether it had been recorded before.
func (g *EventGuard) Seen(ctx context.Context, eventID string) (bool, error) {
	if g == nil || eventID == "" {
		return false, nil
	}

	stored, err := g.client.SetNX(ctx, eventKeyPrefix+eventID, time.Now().Unix(), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	if !stored {
		g.log.With(slog.String("event_id", eventID)).Debug("duplicate event")
	}
	return !stored, nil
}

// Forget drops the event id so a failed event can be processed on redelivery.
func (g *EventGuard) Forget(ctx context.Context, eventID string) error {
	if g == nil || eventID == "" {
		return nil
	}
	if err := g.client.Del(ctx, eventKeyPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (g *EventGuard) Close() error {
	if g == nil {
		return nil
	}
	return g.client.Close()
}
