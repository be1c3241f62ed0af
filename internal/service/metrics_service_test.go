package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restotrack-io/backend-go/internal/config"
	"github.com/restotrack-io/backend-go/internal/domain"
	"github.com/restotrack-io/backend-go/internal/store"
)

func testThresholds() config.ThresholdConfig {
	return config.ThresholdConfig{
		FoodCostPctLimit:   35,
		LaborPctLimit:      30,
		EBITDAWindowMonths: 3,
		VarianceCostLimit:  15,
		VariancePctLimit:   10,
	}
}

func seedStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, store.CollectionSales, []domain.SalesRecord{
		{Date: domain.NewDate(2026, 1, 10), NetSales: 1000},
	}))
	require.NoError(t, s.Write(ctx, store.CollectionPurchases, []domain.PurchaseRecord{
		{Date: domain.NewDate(2026, 1, 11), TotalCost: 400},
	}))
	require.NoError(t, s.Write(ctx, store.CollectionLabor, []domain.LaborRecord{
		{Date: domain.NewDate(2026, 1, 12), LaborCost: 250},
	}))
	require.NoError(t, s.Write(ctx, store.CollectionInventory, []domain.InventoryItem{
		{ItemCode: "FLR", Name: "Flour", Unit: "kg", UnitCost: 2},
	}))
	require.NoError(t, s.Write(ctx, store.CollectionRecipes, []domain.Recipe{
		{ID: "r1", MenuItem: "Margherita", Lines: []domain.RecipeLine{{InventoryCode: "FLR", QtyPerPortion: 0.3}}},
	}))
	require.NoError(t, s.Write(ctx, store.CollectionMenuSales, []domain.MenuSalesFact{
		{MenuItem: "Margherita", UnitsSold: 100},
	}))
	require.NoError(t, s.Write(ctx, store.CollectionReconciliationInputs, []domain.ReconciliationInput{
		{ItemCode: "FLR", StartQty: 100, ActualQty: 60},
	}))

	return s
}

func TestDashboardEndToEnd(t *testing.T) {
	svc := NewMetricsService(seedStore(t), nil, testThresholds())

	dashboard, err := svc.Dashboard(context.Background(), domain.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 40.0, dashboard.Kpis.CogsPercentOfSales)
	assert.Equal(t, 25.0, dashboard.Kpis.LaborPercentOfSales)
	assert.Equal(t, 350.0, dashboard.Kpis.EBITDA)

	require.Len(t, dashboard.Variances, 1)
	row := dashboard.Variances[0]
	assert.Equal(t, 70.0, row.TheoreticalQty)
	assert.Equal(t, -10.0, row.VarianceQty)
	assert.Equal(t, -20.0, row.VarianceCost)
	require.NotNil(t, row.VariancePct)
	assert.InDelta(t, -14.3, *row.VariancePct, 0.1)

	// Food cost 40% over the 35% default limit, variance cost -20 over the
	// 15 limit, variance pct -14.3 over the 10 limit
	assert.Len(t, dashboard.Alerts, 3)
}

func TestKpisWithScopeFilter(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, store.CollectionSales, []domain.SalesRecord{
		{Outlet: "Downtown", NetSales: 100},
		{Outlet: "Airport", NetSales: 900},
		{NetSales: 50}, // applies to all outlets
	}))

	svc := NewMetricsService(s, nil, testThresholds())
	snap := svc.Kpis(ctx, domain.Filter{Outlet: "Downtown"})
	assert.Equal(t, 150.0, snap.TotalSales)
}

func TestRulesFallBackToDefaults(t *testing.T) {
	svc := NewMetricsService(store.NewMemoryStore(), nil, testThresholds())

	rules := svc.Rules(context.Background())
	require.Len(t, rules, 5)
	for _, rule := range rules {
		assert.True(t, rule.Enabled, "default rule %s should be enabled", rule.ID)
	}
}

func TestSaveReconciliationInputUpserts(t *testing.T) {
	s := store.NewMemoryStore()
	svc := NewMetricsService(s, nil, testThresholds())
	ctx := context.Background()

	// Lazy create on first edit
	require.NoError(t, svc.SaveReconciliationInput(ctx, domain.ReconciliationInput{
		ItemCode: "FLR", StartQty: 100,
	}))
	// Update in place for the same composite key
	require.NoError(t, svc.SaveReconciliationInput(ctx, domain.ReconciliationInput{
		ItemCode: "FLR", StartQty: 120,
	}))
	// Same code under a different outlet is a distinct input
	require.NoError(t, svc.SaveReconciliationInput(ctx, domain.ReconciliationInput{
		ItemCode: "FLR", Outlet: "Airport", StartQty: 30,
	}))

	var inputs []domain.ReconciliationInput
	require.NoError(t, s.Read(ctx, store.CollectionReconciliationInputs, &inputs))
	require.Len(t, inputs, 2)
	assert.Equal(t, 120.0, inputs[0].StartQty.Float())
}

func TestEmitActionItemsAppends(t *testing.T) {
	svc := NewMetricsService(seedStore(t), nil, testThresholds())
	ctx := context.Background()

	first, err := svc.EmitActionItems(ctx, domain.Filter{})
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := svc.EmitVarianceActionItems(ctx, domain.Filter{})
	require.NoError(t, err)
	require.NotEmpty(t, second)

	stored, err := svc.ActionItems(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, len(first)+len(second))
}

func TestVariancesOnlyExceeding(t *testing.T) {
	svc := NewMetricsService(seedStore(t), nil, testThresholds())
	ctx := context.Background()

	all := svc.Variances(ctx, domain.Filter{}, false)
	require.Len(t, all, 1)

	// |varianceCost| = 20 >= 15, so the row survives the threshold filter
	exceeding := svc.Variances(ctx, domain.Filter{}, true)
	require.Len(t, exceeding, 1)
}

func TestDefaultAlertRulesCoverEveryMetric(t *testing.T) {
	rules := DefaultAlertRules(testThresholds())

	metrics := make(map[domain.MetricType]bool, len(rules))
	for _, rule := range rules {
		metrics[rule.Metric] = true
	}
	assert.True(t, metrics[domain.MetricFoodCostPct])
	assert.True(t, metrics[domain.MetricLaborPct])
	assert.True(t, metrics[domain.MetricEBITDANegativeMonths])
	assert.True(t, metrics[domain.MetricVarianceCost])
	assert.True(t, metrics[domain.MetricVariancePct])
}
