package engine

import (
	"sort"
	"strings"

	"github.com/restotrack-io/backend-go/internal/domain"
)

// overheadBucket classifies an overhead row by its category text.
type overheadBucket int

const (
	bucketOperating overheadBucket = iota
	bucketDepreciationAmortization
	bucketInterestTax
)

func classifyOverhead(category string) overheadBucket {
	c := strings.ToLower(category)
	if strings.Contains(c, "deprec") || strings.Contains(c, "amort") {
		return bucketDepreciationAmortization
	}
	if strings.Contains(c, "interest") || strings.Contains(c, "tax") {
		return bucketInterestTax
	}
	return bucketOperating
}

// pct returns n/d expressed as a percentage, with a zero denominator
// defined as 0 rather than an error or Inf.
func pct(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d * 100
}

// ComputeKPIs reduces the raw collections into one financial snapshot.
// Malformed amounts have already been coerced to 0 on decode, so the
// computation is total: it never fails and never produces NaN.
func ComputeKPIs(sales []domain.SalesRecord, purchases []domain.PurchaseRecord, waste []domain.WasteRecord, overhead []domain.OverheadRecord, labor []domain.LaborRecord) domain.KpiSnapshot {
	var snap domain.KpiSnapshot

	// 1. Straight sums over the designated monetary field of each collection
	for _, r := range sales {
		snap.TotalSales += r.NetSales.Float()
	}
	for _, r := range purchases {
		snap.TotalPurchases += r.TotalCost.Float()
	}
	for _, r := range waste {
		snap.TotalWaste += r.Cost.Float()
	}
	for _, r := range labor {
		snap.TotalLabor += r.LaborCost.Float()
	}

	// 2. Split overhead into D&A, interest/tax and operating opex by
	// substring match on the category field
	for _, r := range overhead {
		amount := r.Amount.Float()
		snap.TotalOpex += amount
		switch classifyOverhead(r.Category) {
		case bucketDepreciationAmortization:
			snap.DepreciationAmortization += amount
		case bucketInterestTax:
			snap.InterestTax += amount
		default:
			snap.OperatingOpex += amount
		}
	}

	// 3. Profitability identities
	snap.EBITDA = snap.TotalSales - snap.TotalPurchases - snap.OperatingOpex - snap.TotalLabor
	snap.NetProfit = snap.EBITDA - snap.DepreciationAmortization - snap.InterestTax

	// 4. Percentages, defined as 0 on a zero denominator
	snap.WastePercent = pct(snap.TotalWaste, snap.TotalPurchases)
	snap.LaborPercentOfSales = pct(snap.TotalLabor, snap.TotalSales)
	snap.CogsPercentOfSales = pct(snap.TotalPurchases, snap.TotalSales)

	return snap
}

type monthlyAccumulator struct {
	sales         float64
	purchases     float64
	operatingOpex float64
	labor         float64
}

func (m *monthlyAccumulator) ebitda() float64 {
	return m.sales - m.purchases - m.operatingOpex - m.labor
}

// MonthlyEBITDAByOutlet buckets the dated transactional rows by (outlet,
// month) and computes each bucket's EBITDA. Months come back ascending per
// outlet, which is the shape the negative-streak alert expects. Undated
// rows are skipped: they have no month to land in.
func MonthlyEBITDAByOutlet(ds *domain.Dataset, f domain.Filter) map[string][]domain.MonthlyEBITDA {
	buckets := make(map[string]map[string]*monthlyAccumulator)

	get := func(outlet string, date domain.Date) *monthlyAccumulator {
		if date.IsZero() {
			return nil
		}
		month := date.Month()
		if buckets[outlet] == nil {
			buckets[outlet] = make(map[string]*monthlyAccumulator)
		}
		if buckets[outlet][month] == nil {
			buckets[outlet][month] = &monthlyAccumulator{}
		}
		return buckets[outlet][month]
	}

	for _, r := range ds.Sales {
		if !f.Match(r.Date, r.Brand, r.Outlet) {
			continue
		}
		if acc := get(r.Outlet, r.Date); acc != nil {
			acc.sales += r.NetSales.Float()
		}
	}
	for _, r := range ds.Purchases {
		if !f.Match(r.Date, r.Brand, r.Outlet) {
			continue
		}
		if acc := get(r.Outlet, r.Date); acc != nil {
			acc.purchases += r.TotalCost.Float()
		}
	}
	for _, r := range ds.Labor {
		if !f.Match(r.Date, r.Brand, r.Outlet) {
			continue
		}
		if acc := get(r.Outlet, r.Date); acc != nil {
			acc.labor += r.LaborCost.Float()
		}
	}
	for _, r := range ds.Overhead {
		if !f.Match(r.Date, r.Brand, r.Outlet) {
			continue
		}
		// Only operating opex enters EBITDA
		if classifyOverhead(r.Category) != bucketOperating {
			continue
		}
		if acc := get(r.Outlet, r.Date); acc != nil {
			acc.operatingOpex += r.Amount.Float()
		}
	}

	history := make(map[string][]domain.MonthlyEBITDA, len(buckets))
	for outlet, months := range buckets {
		series := make([]domain.MonthlyEBITDA, 0, len(months))
		for month, acc := range months {
			series = append(series, domain.MonthlyEBITDA{Month: month, EBITDA: acc.ebitda()})
		}
		sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })
		history[outlet] = series
	}
	return history
}
