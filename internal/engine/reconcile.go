package engine

import (
	"github.com/restotrack-io/backend-go/internal/domain"
)

// Reconcile combines theoretical usage with the user-entered start/actual
// counts and returns one variance row per inventory item passing the
// brand/outlet filter, in input order. Items without a reconciliation
// input default both quantities to 0 and still get a row.
func Reconcile(items []domain.InventoryItem, usage map[string]float64, inputs map[domain.ItemKey]domain.ReconciliationInput, f domain.Filter) []domain.VarianceRow {
	rows := make([]domain.VarianceRow, 0, len(items))

	for _, item := range items {
		if !f.MatchScope(item.Brand, item.Outlet) {
			continue
		}

		key := domain.ItemKey{ItemCode: item.ItemCode, Brand: item.Brand, Outlet: item.Outlet}
		in := inputs[key]

		row := domain.VarianceRow{
			ItemCode:         item.ItemCode,
			ItemName:         item.Name,
			Unit:             item.Unit,
			UnitCost:         item.UnitCost.Float(),
			TheoreticalUsage: usage[item.ItemCode],
			StartQty:         in.StartQty.Float(),
			ActualQty:        in.ActualQty.Float(),
			Note:             in.Note,
		}

		row.TheoreticalQty = row.StartQty - row.TheoreticalUsage
		row.VarianceQty = row.ActualQty - row.TheoreticalQty
		row.VarianceCost = row.VarianceQty * row.UnitCost

		// Percentage-of-zero is not applicable: leave VariancePct unset
		// rather than reporting 0% or Inf
		if row.TheoreticalQty != 0 {
			p := row.VarianceQty / row.TheoreticalQty * 100
			row.VariancePct = &p
		}

		rows = append(rows, row)
	}

	return rows
}

// FilterVariances keeps the rows worth attention: absolute variance cost
// at or above costThreshold, or a defined variance percent at or above
// pctThreshold. The two limits are independent (OR). Non-positive
// thresholds disable their side of the check.
func FilterVariances(rows []domain.VarianceRow, costThreshold, pctThreshold float64) []domain.VarianceRow {
	filtered := make([]domain.VarianceRow, 0, len(rows))
	for _, row := range rows {
		if exceedsThresholds(row, costThreshold, pctThreshold) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func exceedsThresholds(row domain.VarianceRow, costThreshold, pctThreshold float64) bool {
	if costThreshold > 0 && abs(row.VarianceCost) >= costThreshold {
		return true
	}
	if pctThreshold > 0 && row.VariancePct != nil && abs(*row.VariancePct) >= pctThreshold {
		return true
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
