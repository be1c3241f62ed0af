package domain

import "time"

// MetricType is the closed set of conditions an alert rule can watch.
// The evaluator dispatches on it exhaustively; unknown values are inert.
type MetricType string

const (
	MetricFoodCostPct          MetricType = "foodCostPct"
	MetricLaborPct             MetricType = "laborPct"
	MetricEBITDANegativeMonths MetricType = "ebitdaNegativeMonths"
	MetricVarianceCost         MetricType = "varianceCost"
	MetricVariancePct          MetricType = "variancePct"
)

// AlertRule is one user-configurable threshold condition.
//
// Threshold carries the primary limit for the rule's metric. For
// varianceCost rules, PctThreshold optionally adds a percent limit that
// triggers independently (OR, not AND). WindowMonths only applies to
// ebitdaNegativeMonths.
type AlertRule struct {
	ID           string     `json:"id"`
	Metric       MetricType `json:"metric"`
	Threshold    float64    `json:"threshold"`
	PctThreshold *float64   `json:"pctThreshold,omitempty"`
	WindowMonths int        `json:"windowMonths,omitempty"`
	Enabled      bool       `json:"enabled"`
}

// Alert is one triggered (rule, entity) pair. The same outlet or item may
// appear under multiple rules; no cross-rule deduplication happens.
type Alert struct {
	RuleID    string     `json:"ruleId"`
	Metric    MetricType `json:"metric"`
	Brand     string     `json:"brand,omitempty"`
	Outlet    string     `json:"outlet,omitempty"`
	ItemCode  string     `json:"itemCode,omitempty"`
	Value     float64    `json:"value"`
	Threshold float64    `json:"threshold"`
	Message   string     `json:"message"`
}

const (
	ActionStatusOpen   = "Open"
	ActionPriorityHigh = "High"
)

// ActionItem is one task materialized from a triggered alert or a variance
// row, handed to the caller for append-only persistence. Re-emission is
// not deduplicated; the tracking layer owns that.
type ActionItem struct {
	ID        string    `json:"id"`
	Area      string    `json:"area"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}
