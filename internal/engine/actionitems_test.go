package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restotrack-io/backend-go/internal/domain"
)

func TestActionItemsFromAlerts(t *testing.T) {
	alerts := []domain.Alert{
		{RuleID: "fc", Metric: domain.MetricFoodCostPct, Message: "food cost is 40.0% of sales, above the 35.0% limit"},
		{RuleID: "eb", Metric: domain.MetricEBITDANegativeMonths, Outlet: "Downtown", Message: "sustained losses"},
	}

	items := ActionItemsFromAlerts(alerts, EmitContext{Brand: "Bistro", Outlet: "Downtown"})
	require.Len(t, items, 2)

	assert.Equal(t, "Purchasing", items[0].Area)
	assert.Equal(t, domain.ActionStatusOpen, items[0].Status)
	assert.Equal(t, domain.ActionPriorityHigh, items[0].Priority)
	assert.Contains(t, items[0].Body, "Bistro / Downtown")
	assert.Contains(t, items[0].Body, "food cost")

	assert.Equal(t, "Finance", items[1].Area)
	assert.Contains(t, items[1].Title, "Downtown")

	// Fresh identifier per emission
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestActionItemsFromVariancesBodyFigures(t *testing.T) {
	pct := -14.3
	rows := []domain.VarianceRow{{
		ItemCode:       "FLR",
		ItemName:       "Flour",
		Unit:           "kg",
		TheoreticalQty: 70,
		ActualQty:      60,
		VarianceQty:    -10,
		VarianceCost:   -20,
		VariancePct:    &pct,
	}}

	items := ActionItemsFromVariances(rows, EmitContext{Period: "2026-01-01 to 2026-01-31"})
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "Inventory", item.Area)
	assert.Equal(t, "Recount Flour", item.Title)
	assert.Contains(t, item.Body, "theoretical 70.00 kg")
	assert.Contains(t, item.Body, "counted 60.00 kg")
	assert.Contains(t, item.Body, "variance -10.00 kg")
	assert.Contains(t, item.Body, "-14.3%")
	assert.Contains(t, item.Body, "period 2026-01-01 to 2026-01-31")
	assert.Contains(t, item.Body, "all outlets")
}

func TestActionItemsNotDeduplicated(t *testing.T) {
	rows := []domain.VarianceRow{{ItemCode: "FLR", ItemName: "Flour"}}

	first := ActionItemsFromVariances(rows, EmitContext{})
	second := ActionItemsFromVariances(rows, EmitContext{})

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].Body, second[0].Body)
}
