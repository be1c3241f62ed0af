package domain

// KpiSnapshot is the aggregate financial picture for one filtered view.
// Pure function of the input rows; recomputed on every call, never stored.
type KpiSnapshot struct {
	TotalSales               float64 `json:"totalSales"`
	TotalPurchases           float64 `json:"totalPurchases"`
	TotalWaste               float64 `json:"totalWaste"`
	TotalOpex                float64 `json:"totalOpex"`
	TotalLabor               float64 `json:"totalLabor"`
	OperatingOpex            float64 `json:"operatingOpex"`
	DepreciationAmortization float64 `json:"depreciationAmortization"`
	InterestTax              float64 `json:"interestTax"`
	EBITDA                   float64 `json:"ebitda"`
	NetProfit                float64 `json:"netProfit"`
	WastePercent             float64 `json:"wastePercent"`
	LaborPercentOfSales      float64 `json:"laborPercentOfSales"`
	CogsPercentOfSales       float64 `json:"cogsPercentOfSales"`
}

// MonthlyEBITDA is one month of a per-outlet EBITDA history, months in
// "2006-01" form.
type MonthlyEBITDA struct {
	Month  string  `json:"month"`
	EBITDA float64 `json:"ebitda"`
}

// Dataset is every source collection materialized in memory. The engine
// reads it; the record store adapter owns loading it.
type Dataset struct {
	Sales                []SalesRecord         `json:"sales"`
	Purchases            []PurchaseRecord      `json:"purchases"`
	Waste                []WasteRecord         `json:"waste"`
	Labor                []LaborRecord         `json:"labor"`
	Overhead             []OverheadRecord      `json:"overhead"`
	Inventory            []InventoryItem       `json:"inventory"`
	Recipes              []Recipe              `json:"recipes"`
	MenuSales            []MenuSalesFact       `json:"menuSales"`
	ReconciliationInputs []ReconciliationInput `json:"reconciliationInputs"`
}

// OpsDashboard bundles everything the dashboard view renders.
type OpsDashboard struct {
	Filter        Filter                     `json:"filter"`
	Kpis          KpiSnapshot                `json:"kpis"`
	EBITDAHistory map[string][]MonthlyEBITDA `json:"ebitdaHistory"`
	Variances     []VarianceRow              `json:"variances"`
	Alerts        []Alert                    `json:"alerts"`
}
