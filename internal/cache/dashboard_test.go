package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restotrack-io/backend-go/internal/domain"
)

func TestFilterHashStability(t *testing.T) {
	f := domain.Filter{Brand: "Bistro", Outlet: "Downtown", From: domain.ParseDate("2026-01-01")}

	assert.Equal(t, filterHash(f), filterHash(f))
	assert.Equal(t, "default", filterHash(domain.Filter{}))
}

func TestFilterHashDistinguishesFilters(t *testing.T) {
	a := domain.Filter{Brand: "Bistro"}
	b := domain.Filter{Brand: "Diner"}
	c := domain.Filter{Outlet: "Bistro"}

	assert.NotEqual(t, filterHash(a), filterHash(b))
	assert.NotEqual(t, filterHash(a), filterHash(c))
}

func TestNoopDashboardCache(t *testing.T) {
	c := NewNoopDashboardCache()
	ctx := context.Background()
	f := domain.Filter{Brand: "Bistro"}

	require.NoError(t, c.Set(ctx, f, &domain.OpsDashboard{}))

	_, ok, err := c.Get(ctx, f)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.InvalidateAll(ctx))
}
