package engine

import (
	"fmt"
	"sort"

	"github.com/restotrack-io/backend-go/internal/domain"
)

// EvaluateAlerts applies every enabled rule against the snapshot, the
// variance rows and the per-outlet EBITDA history. Output is one alert per
// (rule, triggering entity) pair; the same item or outlet may appear under
// several rules. Disabled rules are skipped before any evaluation.
func EvaluateAlerts(rules []domain.AlertRule, snap domain.KpiSnapshot, rows []domain.VarianceRow, history map[string][]domain.MonthlyEBITDA) []domain.Alert {
	alerts := make([]domain.Alert, 0)

	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}

		switch rule.Metric {
		case domain.MetricFoodCostPct:
			if snap.CogsPercentOfSales > rule.Threshold {
				alerts = append(alerts, domain.Alert{
					RuleID:    rule.ID,
					Metric:    rule.Metric,
					Value:     snap.CogsPercentOfSales,
					Threshold: rule.Threshold,
					Message:   fmt.Sprintf("food cost is %.1f%% of sales, above the %.1f%% limit", snap.CogsPercentOfSales, rule.Threshold),
				})
			}

		case domain.MetricLaborPct:
			if snap.LaborPercentOfSales > rule.Threshold {
				alerts = append(alerts, domain.Alert{
					RuleID:    rule.ID,
					Metric:    rule.Metric,
					Value:     snap.LaborPercentOfSales,
					Threshold: rule.Threshold,
					Message:   fmt.Sprintf("labor is %.1f%% of sales, above the %.1f%% limit", snap.LaborPercentOfSales, rule.Threshold),
				})
			}

		case domain.MetricEBITDANegativeMonths:
			alerts = append(alerts, evaluateEBITDAStreaks(rule, history)...)

		case domain.MetricVarianceCost:
			pctCompanion := 0.0
			if rule.PctThreshold != nil {
				pctCompanion = *rule.PctThreshold
			}
			for _, row := range rows {
				if !exceedsThresholds(row, rule.Threshold, pctCompanion) {
					continue
				}
				alerts = append(alerts, domain.Alert{
					RuleID:    rule.ID,
					Metric:    rule.Metric,
					ItemCode:  row.ItemCode,
					Value:     row.VarianceCost,
					Threshold: rule.Threshold,
					Message:   fmt.Sprintf("%s variance of %.2f %s costs %.2f", row.ItemName, row.VarianceQty, row.Unit, row.VarianceCost),
				})
			}

		case domain.MetricVariancePct:
			for _, row := range rows {
				if row.VariancePct == nil || abs(*row.VariancePct) < rule.Threshold {
					continue
				}
				alerts = append(alerts, domain.Alert{
					RuleID:    rule.ID,
					Metric:    rule.Metric,
					ItemCode:  row.ItemCode,
					Value:     *row.VariancePct,
					Threshold: rule.Threshold,
					Message:   fmt.Sprintf("%s is %.1f%% off its theoretical stock level", row.ItemName, *row.VariancePct),
				})
			}
		}
	}

	return alerts
}

// evaluateEBITDAStreaks triggers per outlet when the trailing run of
// EBITDA-negative months reaches the rule's window. One non-negative month
// fully resets the streak; the series is assumed month-ascending.
func evaluateEBITDAStreaks(rule domain.AlertRule, history map[string][]domain.MonthlyEBITDA) []domain.Alert {
	if rule.WindowMonths <= 0 {
		return nil
	}

	outlets := make([]string, 0, len(history))
	for outlet := range history {
		outlets = append(outlets, outlet)
	}
	sort.Strings(outlets)

	var alerts []domain.Alert
	for _, outlet := range outlets {
		streak := 0
		for _, m := range history[outlet] {
			if m.EBITDA < 0 {
				streak++
			} else {
				streak = 0
			}
		}
		if streak < rule.WindowMonths {
			continue
		}
		alerts = append(alerts, domain.Alert{
			RuleID:    rule.ID,
			Metric:    rule.Metric,
			Outlet:    outlet,
			Value:     float64(streak),
			Threshold: float64(rule.WindowMonths),
			Message:   fmt.Sprintf("outlet %q has had negative EBITDA for %d consecutive months", outlet, streak),
		})
	}
	return alerts
}
