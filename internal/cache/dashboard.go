package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/restotrack-io/backend-go/internal/config"
	"github.com/restotrack-io/backend-go/internal/domain"
)

const (
	dashboardKeyPrefix = "ops:dashboard"
	scanBatchSize      = 100
)

// DashboardCache keeps recomputed ops dashboards for a short TTL, keyed by
// the filter that produced them. The engine recomputes from source records
// on every call; this only shaves repeated recomputation off hot filters.
type DashboardCache interface {
	Get(ctx context.Context, filter domain.Filter) (*domain.OpsDashboard, bool, error)
	Set(ctx context.Context, filter domain.Filter, dashboard *domain.OpsDashboard) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context, filter domain.Filter) (*domain.OpsDashboard, bool, error) {
	key := buildDashboardKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard domain.OpsDashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode ops dashboard cache: %w", err)
	}

	return &dashboard, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, filter domain.Filter, dashboard *domain.OpsDashboard) error {
	key := buildDashboardKey(filter)
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode ops dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) Get(ctx context.Context, filter domain.Filter) (*domain.OpsDashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, filter domain.Filter, dashboard *domain.OpsDashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildDashboardKey(filter domain.Filter) string {
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, filterHash(filter))
}

func filterHash(filter domain.Filter) string {
	parts := []string{}

	if filter.Brand != "" {
		parts = append(parts, "brand="+strings.ToLower(strings.TrimSpace(filter.Brand)))
	}
	if filter.Outlet != "" {
		parts = append(parts, "outlet="+strings.ToLower(strings.TrimSpace(filter.Outlet)))
	}
	if !filter.From.IsZero() {
		parts = append(parts, "from="+filter.From.Format("2006-01-02"))
	}
	if !filter.To.IsZero() {
		parts = append(parts, "to="+filter.To.Format("2006-01-02"))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	raw := strings.Join(parts, "|")
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
