package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restotrack-io/backend-go/internal/domain"
)

func TestReconcileFlourScenario(t *testing.T) {
	items := []domain.InventoryItem{{ItemCode: "FLR", Name: "Flour", Unit: "kg", UnitCost: 2}}
	usage := map[string]float64{"FLR": 30}
	inputs := map[domain.ItemKey]domain.ReconciliationInput{
		{ItemCode: "FLR"}: {ItemCode: "FLR", StartQty: 100, ActualQty: 60},
	}

	rows := Reconcile(items, usage, inputs, domain.Filter{})
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 70.0, row.TheoreticalQty)
	assert.Equal(t, -10.0, row.VarianceQty)
	assert.Equal(t, -20.0, row.VarianceCost)
	require.NotNil(t, row.VariancePct)
	assert.InDelta(t, -14.2857, *row.VariancePct, 0.001)
}

func TestReconcileMissingInputDefaultsToZero(t *testing.T) {
	items := []domain.InventoryItem{{ItemCode: "TOM", Name: "Tomato", UnitCost: 3}}
	usage := map[string]float64{"TOM": 5}

	rows := Reconcile(items, usage, nil, domain.Filter{})
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 0.0, row.StartQty)
	assert.Equal(t, 0.0, row.ActualQty)
	assert.Equal(t, -5.0, row.TheoreticalQty)
	assert.Equal(t, 5.0, row.VarianceQty)
	assert.Equal(t, 15.0, row.VarianceCost)
}

func TestReconcileVariancePctUndefinedOnZeroTheoretical(t *testing.T) {
	items := []domain.InventoryItem{{ItemCode: "FLR", UnitCost: 2}}

	// startQty 0, no usage: theoreticalQty is exactly 0
	rows := Reconcile(items, nil, nil, domain.Filter{})
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].TheoreticalQty)
	assert.Nil(t, rows[0].VariancePct, "percentage of zero must be undefined, not 0 or Inf")
}

func TestReconcileRowCountMatchesFilteredItems(t *testing.T) {
	items := []domain.InventoryItem{
		{ItemCode: "A", Brand: "Bistro", Outlet: "Downtown"},
		{ItemCode: "B", Brand: "Bistro", Outlet: "Airport"},
		{ItemCode: "C"}, // applies to all
		{ItemCode: "D", Brand: "Diner", Outlet: "Downtown"},
	}

	rows := Reconcile(items, nil, nil, domain.Filter{Brand: "Bistro", Outlet: "Downtown"})
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].ItemCode)
	assert.Equal(t, "C", rows[1].ItemCode)
}

func TestReconcilePreservesInputOrder(t *testing.T) {
	items := []domain.InventoryItem{
		{ItemCode: "Z"}, {ItemCode: "A"}, {ItemCode: "M"},
	}

	rows := Reconcile(items, nil, nil, domain.Filter{})
	require.Len(t, rows, 3)
	assert.Equal(t, "Z", rows[0].ItemCode)
	assert.Equal(t, "A", rows[1].ItemCode)
	assert.Equal(t, "M", rows[2].ItemCode)
}

func TestReconcileKeysInputsByFullIdentity(t *testing.T) {
	items := []domain.InventoryItem{{ItemCode: "FLR", Brand: "Bistro", Outlet: "Downtown", UnitCost: 1}}
	inputs := map[domain.ItemKey]domain.ReconciliationInput{
		// Same code, different outlet: must not be picked up
		{ItemCode: "FLR", Brand: "Bistro", Outlet: "Airport"}: {ItemCode: "FLR", StartQty: 50, ActualQty: 50},
	}

	rows := Reconcile(items, nil, inputs, domain.Filter{})
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].StartQty)
}

func TestFilterVariancesThresholdOr(t *testing.T) {
	pct := func(v float64) *float64 { return &v }
	rows := []domain.VarianceRow{
		{ItemCode: "A", VarianceCost: -60, VariancePct: pct(-2)},  // cost side
		{ItemCode: "B", VarianceCost: 10, VariancePct: pct(15)},   // pct side
		{ItemCode: "C", VarianceCost: 10, VariancePct: pct(2)},    // neither
		{ItemCode: "D", VarianceCost: 10, VariancePct: nil},       // undefined pct never triggers pct side
		{ItemCode: "E", VarianceCost: 50, VariancePct: nil},       // boundary: >= triggers
	}

	filtered := FilterVariances(rows, 50, 10)
	require.Len(t, filtered, 3)
	assert.Equal(t, "A", filtered[0].ItemCode)
	assert.Equal(t, "B", filtered[1].ItemCode)
	assert.Equal(t, "E", filtered[2].ItemCode)
}
