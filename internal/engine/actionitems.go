package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/restotrack-io/backend-go/internal/domain"
)

// EmitContext carries the scope stamped onto generated action items.
type EmitContext struct {
	Brand  string
	Outlet string
	Period string
}

func (c EmitContext) scope() string {
	scope := c.Brand
	if c.Outlet != "" {
		if scope != "" {
			scope += " / "
		}
		scope += c.Outlet
	}
	if scope == "" {
		scope = "all outlets"
	}
	return scope
}

// ActionItemsFromAlerts turns triggered alerts into open tasks. Pure
// templating: the same alert set yields the same items, modulo the fresh
// id and timestamp per emission. Nothing here deduplicates against
// previously emitted items; the tracking collection owns that.
func ActionItemsFromAlerts(alerts []domain.Alert, ctx EmitContext) []domain.ActionItem {
	now := time.Now().UTC()
	items := make([]domain.ActionItem, 0, len(alerts))

	for _, a := range alerts {
		item := domain.ActionItem{
			ID:        uuid.NewString(),
			Status:    domain.ActionStatusOpen,
			Priority:  domain.ActionPriorityHigh,
			Source:    string(a.Metric),
			CreatedAt: now,
		}

		switch a.Metric {
		case domain.MetricFoodCostPct:
			item.Area = "Purchasing"
			item.Title = "Review food cost"
		case domain.MetricLaborPct:
			item.Area = "Staffing"
			item.Title = "Review labor cost"
		case domain.MetricEBITDANegativeMonths:
			item.Area = "Finance"
			item.Title = fmt.Sprintf("Investigate sustained losses at %s", a.Outlet)
		default:
			item.Area = "Inventory"
			item.Title = fmt.Sprintf("Investigate stock variance for %s", a.ItemCode)
		}

		item.Body = fmt.Sprintf("[%s] %s", ctx.scope(), a.Message)
		if ctx.Period != "" {
			item.Body += fmt.Sprintf(" (period %s)", ctx.Period)
		}

		items = append(items, item)
	}

	return items
}

// ActionItemsFromVariances materializes reconciliation variances directly
// into counting tasks, with the theoretical/actual/variance figures spelled
// out in the narrative body.
func ActionItemsFromVariances(rows []domain.VarianceRow, ctx EmitContext) []domain.ActionItem {
	now := time.Now().UTC()
	items := make([]domain.ActionItem, 0, len(rows))

	for _, row := range rows {
		body := fmt.Sprintf(
			"[%s] %s (%s): theoretical %.2f %s, counted %.2f %s, variance %.2f %s worth %.2f",
			ctx.scope(), row.ItemName, row.ItemCode,
			row.TheoreticalQty, row.Unit,
			row.ActualQty, row.Unit,
			row.VarianceQty, row.Unit,
			row.VarianceCost,
		)
		if row.VariancePct != nil {
			body += fmt.Sprintf(" (%.1f%%)", *row.VariancePct)
		}
		if ctx.Period != "" {
			body += fmt.Sprintf(" (period %s)", ctx.Period)
		}

		items = append(items, domain.ActionItem{
			ID:        uuid.NewString(),
			Area:      "Inventory",
			Title:     fmt.Sprintf("Recount %s", row.ItemName),
			Body:      body,
			Status:    domain.ActionStatusOpen,
			Priority:  domain.ActionPriorityHigh,
			Source:    "reconciliation",
			CreatedAt: now,
		})
	}

	return items
}
