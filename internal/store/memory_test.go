package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restotrack-io/backend-go/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []domain.SalesRecord{{Brand: "Bistro", NetSales: 100}}
	require.NoError(t, s.Write(ctx, CollectionSales, in))

	var out []domain.SalesRecord
	require.NoError(t, s.Read(ctx, CollectionSales, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Bistro", out[0].Brand)
	assert.Equal(t, 100.0, out[0].NetSales.Float())
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()

	var out []domain.SalesRecord
	err := s.Read(context.Background(), CollectionSales, &out)
	require.Error(t, err)
	assert.IsType(t, ErrNotFound{}, err)
}

func TestLoadDatasetBestEffort(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// Only two collections exist; the rest must come back empty, not fail
	require.NoError(t, s.Write(ctx, CollectionSales, []domain.SalesRecord{{NetSales: 42}}))
	require.NoError(t, s.Write(ctx, CollectionInventory, []domain.InventoryItem{{ItemCode: "FLR"}}))

	ds := LoadDataset(ctx, s)
	require.NotNil(t, ds)
	assert.Len(t, ds.Sales, 1)
	assert.Len(t, ds.Inventory, 1)
	assert.Empty(t, ds.Purchases)
	assert.Empty(t, ds.Recipes)
	assert.Empty(t, ds.ReconciliationInputs)
}

func TestLoadDatasetToleratesMalformedRows(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// Amount fields with garbage coerce to 0 on decode
	require.NoError(t, s.Write(ctx, CollectionSales, []map[string]any{
		{"brand": "Bistro", "netSales": "not a number"},
	}))

	ds := LoadDataset(ctx, s)
	require.Len(t, ds.Sales, 1)
	assert.Equal(t, 0.0, ds.Sales[0].NetSales.Float())
}
