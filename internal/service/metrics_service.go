package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/restotrack-io/backend-go/internal/cache"
	"github.com/restotrack-io/backend-go/internal/config"
	"github.com/restotrack-io/backend-go/internal/domain"
	"github.com/restotrack-io/backend-go/internal/engine"
	"github.com/restotrack-io/backend-go/internal/store"
)

// MetricsService wires the record store, the computation engine and the
// dashboard cache together. Every metric is recomputed from the source
// collections on each call; the cache only short-circuits identical
// filters inside its TTL.
type MetricsService struct {
	store      store.RecordStore
	cache      cache.DashboardCache
	thresholds config.ThresholdConfig
}

func NewMetricsService(rs store.RecordStore, cacheImpl cache.DashboardCache, thresholds config.ThresholdConfig) *MetricsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &MetricsService{store: rs, cache: cacheImpl, thresholds: thresholds}
}

// Kpis computes the financial snapshot for the filtered view.
func (s *MetricsService) Kpis(ctx context.Context, f domain.Filter) domain.KpiSnapshot {
	ds := store.LoadDataset(ctx, s.store)
	return s.kpis(ds, f)
}

// Dashboard computes (or serves from cache) the full ops dashboard.
func (s *MetricsService) Dashboard(ctx context.Context, f domain.Filter) (*domain.OpsDashboard, error) {
	if dashboard, ok, err := s.cache.Get(ctx, f); err == nil && ok {
		return dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("ops dashboard: cache get failed")
	}

	dashboard := s.compute(ctx, f)

	if err := s.cache.Set(ctx, f, dashboard); err != nil {
		log.Warn().Err(err).Msg("ops dashboard: cache set failed")
	}

	return dashboard, nil
}

// EBITDAHistory returns the per-outlet monthly EBITDA series.
func (s *MetricsService) EBITDAHistory(ctx context.Context, f domain.Filter) map[string][]domain.MonthlyEBITDA {
	ds := store.LoadDataset(ctx, s.store)
	return engine.MonthlyEBITDAByOutlet(ds, f)
}

// Variances reconciles inventory for the filtered view. With onlyExceeding
// set, rows inside the configured cost and percent thresholds are dropped.
func (s *MetricsService) Variances(ctx context.Context, f domain.Filter, onlyExceeding bool) []domain.VarianceRow {
	ds := store.LoadDataset(ctx, s.store)
	rows := s.reconcile(ds, f)
	if onlyExceeding {
		rows = engine.FilterVariances(rows, s.thresholds.VarianceCostLimit, s.thresholds.VariancePctLimit)
	}
	return rows
}

// Alerts evaluates the configured rules against the filtered view.
func (s *MetricsService) Alerts(ctx context.Context, f domain.Filter) []domain.Alert {
	ds := store.LoadDataset(ctx, s.store)
	return engine.EvaluateAlerts(
		s.rules(ctx),
		s.kpis(ds, f),
		s.reconcile(ds, f),
		engine.MonthlyEBITDAByOutlet(ds, f),
	)
}

// Rules returns the stored alert rules, falling back to the configured
// defaults when none have been saved yet.
func (s *MetricsService) Rules(ctx context.Context) []domain.AlertRule {
	return s.rules(ctx)
}

// SaveRules replaces the stored rule set and drops cached dashboards.
func (s *MetricsService) SaveRules(ctx context.Context, rules []domain.AlertRule) error {
	if err := s.store.Write(ctx, store.CollectionAlertRules, rules); err != nil {
		return fmt.Errorf("save alert rules: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// SaveReconciliationInput upserts one per-item count, creating the input
// lazily on first edit. Inputs are keyed by (itemCode, brand, outlet) and
// never deleted here.
func (s *MetricsService) SaveReconciliationInput(ctx context.Context, in domain.ReconciliationInput) error {
	var inputs []domain.ReconciliationInput
	if err := s.store.Read(ctx, store.CollectionReconciliationInputs, &inputs); err != nil {
		if _, ok := err.(store.ErrNotFound); !ok {
			return fmt.Errorf("load reconciliation inputs: %w", err)
		}
	}

	replaced := false
	for i, existing := range inputs {
		if existing.Key() == in.Key() {
			inputs[i] = in
			replaced = true
			break
		}
	}
	if !replaced {
		inputs = append(inputs, in)
	}

	if err := s.store.Write(ctx, store.CollectionReconciliationInputs, inputs); err != nil {
		return fmt.Errorf("save reconciliation inputs: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// EmitActionItems materializes the current alerts into open tasks and
// appends them to the tracking collection. Emission is not deduplicated
// against earlier runs; callers decide when to emit.
func (s *MetricsService) EmitActionItems(ctx context.Context, f domain.Filter) ([]domain.ActionItem, error) {
	emitCtx := engine.EmitContext{Brand: f.Brand, Outlet: f.Outlet, Period: periodLabel(f)}
	items := engine.ActionItemsFromAlerts(s.Alerts(ctx, f), emitCtx)
	if err := s.appendActionItems(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// EmitVarianceActionItems materializes threshold-exceeding variance rows
// into counting tasks and appends them to the tracking collection.
func (s *MetricsService) EmitVarianceActionItems(ctx context.Context, f domain.Filter) ([]domain.ActionItem, error) {
	emitCtx := engine.EmitContext{Brand: f.Brand, Outlet: f.Outlet, Period: periodLabel(f)}
	items := engine.ActionItemsFromVariances(s.Variances(ctx, f, true), emitCtx)
	if err := s.appendActionItems(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// ActionItems lists everything emitted so far.
func (s *MetricsService) ActionItems(ctx context.Context) ([]domain.ActionItem, error) {
	var items []domain.ActionItem
	if err := s.store.Read(ctx, store.CollectionActionItems, &items); err != nil {
		if _, ok := err.(store.ErrNotFound); ok {
			return []domain.ActionItem{}, nil
		}
		return nil, fmt.Errorf("load action items: %w", err)
	}
	return items, nil
}

func (s *MetricsService) compute(ctx context.Context, f domain.Filter) *domain.OpsDashboard {
	ds := store.LoadDataset(ctx, s.store)
	snap := s.kpis(ds, f)
	rows := s.reconcile(ds, f)
	history := engine.MonthlyEBITDAByOutlet(ds, f)

	return &domain.OpsDashboard{
		Filter:        f,
		Kpis:          snap,
		EBITDAHistory: history,
		Variances:     rows,
		Alerts:        engine.EvaluateAlerts(s.rules(ctx), snap, rows, history),
	}
}

func (s *MetricsService) kpis(ds *domain.Dataset, f domain.Filter) domain.KpiSnapshot {
	var (
		sales     []domain.SalesRecord
		purchases []domain.PurchaseRecord
		waste     []domain.WasteRecord
		overhead  []domain.OverheadRecord
		labor     []domain.LaborRecord
	)

	for _, r := range ds.Sales {
		if f.Match(r.Date, r.Brand, r.Outlet) {
			sales = append(sales, r)
		}
	}
	for _, r := range ds.Purchases {
		if f.Match(r.Date, r.Brand, r.Outlet) {
			purchases = append(purchases, r)
		}
	}
	for _, r := range ds.Waste {
		if f.Match(r.Date, r.Brand, r.Outlet) {
			waste = append(waste, r)
		}
	}
	for _, r := range ds.Overhead {
		if f.Match(r.Date, r.Brand, r.Outlet) {
			overhead = append(overhead, r)
		}
	}
	for _, r := range ds.Labor {
		if f.Match(r.Date, r.Brand, r.Outlet) {
			labor = append(labor, r)
		}
	}

	return engine.ComputeKPIs(sales, purchases, waste, overhead, labor)
}

func (s *MetricsService) reconcile(ds *domain.Dataset, f domain.Filter) []domain.VarianceRow {
	var menuSales []domain.MenuSalesFact
	for _, fact := range ds.MenuSales {
		if f.MatchScope(fact.Brand, fact.Outlet) {
			menuSales = append(menuSales, fact)
		}
	}

	var waste []domain.WasteRecord
	for _, w := range ds.Waste {
		if f.MatchScope(w.Brand, w.Outlet) {
			waste = append(waste, w)
		}
	}

	usage := engine.ResolveUsage(ds.Recipes, menuSales, waste, ds.Inventory, f.From, f.To)

	inputs := make(map[domain.ItemKey]domain.ReconciliationInput, len(ds.ReconciliationInputs))
	for _, in := range ds.ReconciliationInputs {
		inputs[in.Key()] = in
	}

	return engine.Reconcile(ds.Inventory, usage, inputs, f)
}

func (s *MetricsService) rules(ctx context.Context) []domain.AlertRule {
	var rules []domain.AlertRule
	err := s.store.Read(ctx, store.CollectionAlertRules, &rules)
	if err != nil {
		if _, ok := err.(store.ErrNotFound); !ok {
			log.Warn().Err(err).Msg("alert rules unavailable, using defaults")
		}
	}
	if len(rules) == 0 {
		return DefaultAlertRules(s.thresholds)
	}
	return rules
}

func (s *MetricsService) appendActionItems(ctx context.Context, items []domain.ActionItem) error {
	if len(items) == 0 {
		return nil
	}

	existing, err := s.ActionItems(ctx)
	if err != nil {
		return err
	}
	if err := s.store.Write(ctx, store.CollectionActionItems, append(existing, items...)); err != nil {
		return fmt.Errorf("append action items: %w", err)
	}
	return nil
}

func (s *MetricsService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("ops dashboard: cache invalidation failed")
	}
}

func periodLabel(f domain.Filter) string {
	switch {
	case !f.From.IsZero() && !f.To.IsZero():
		return f.From.Format("2006-01-02") + " to " + f.To.Format("2006-01-02")
	case !f.From.IsZero():
		return "from " + f.From.Format("2006-01-02")
	case !f.To.IsZero():
		return "until " + f.To.Format("2006-01-02")
	default:
		return ""
	}
}

// DefaultAlertRules builds the out-of-the-box rule set from the configured
// threshold limits.
func DefaultAlertRules(t config.ThresholdConfig) []domain.AlertRule {
	pct := t.VariancePctLimit
	return []domain.AlertRule{
		{ID: "food-cost-pct", Metric: domain.MetricFoodCostPct, Threshold: t.FoodCostPctLimit, Enabled: true},
		{ID: "labor-pct", Metric: domain.MetricLaborPct, Threshold: t.LaborPctLimit, Enabled: true},
		{ID: "ebitda-negative-months", Metric: domain.MetricEBITDANegativeMonths, WindowMonths: t.EBITDAWindowMonths, Enabled: true},
		{ID: "variance-cost", Metric: domain.MetricVarianceCost, Threshold: t.VarianceCostLimit, PctThreshold: &pct, Enabled: true},
		{ID: "variance-pct", Metric: domain.MetricVariancePct, Threshold: t.VariancePctLimit, Enabled: true},
	}
}
