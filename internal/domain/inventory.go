package domain

import "strings"

// InventoryItem is a stockable ingredient. Unique per (itemCode, brand,
// outlet) combination within a filtered view.
type InventoryItem struct {
	ItemCode string `json:"itemCode"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	UnitCost Amount `json:"unitCost"`
	Brand    string `json:"brand"`
	Outlet   string `json:"outlet"`
}

// RecipeLine maps one ingredient into a plated portion.
type RecipeLine struct {
	InventoryCode string `json:"inventoryCode"`
	QtyPerPortion Amount `json:"qtyPerPortion"`
	Unit          string `json:"unit"`
}

// Recipe links a menu item name (the join key to sales facts) to its
// ingredient lines. A recipe with no lines contributes zero usage.
type Recipe struct {
	ID       string       `json:"id"`
	MenuItem string       `json:"menuItem"`
	Lines    []RecipeLine `json:"lines"`
}

// MenuSalesFact is the externally aggregated units-sold figure for one
// menu item over the reporting period.
type MenuSalesFact struct {
	MenuItem  string `json:"menuItem"`
	UnitsSold Amount `json:"unitsSold"`
	Brand     string `json:"brand"`
	Outlet    string `json:"outlet"`
}

const itemKeySep = "::"

// ItemKey identifies a reconciliation input by (itemCode, brand, outlet).
// Empty segments are valid and distinguish "unset" from a real value. The
// rendered form itemCode::brand::outlet is a storage compatibility
// requirement; external consumers key stored inputs by that string.
type ItemKey struct {
	ItemCode string
	Brand    string
	Outlet   string
}

func (k ItemKey) String() string {
	return k.ItemCode + itemKeySep + k.Brand + itemKeySep + k.Outlet
}

// ParseItemKey inverts ItemKey.String. Keys with fewer than three segments
// fill the missing ones with empty strings.
func ParseItemKey(s string) ItemKey {
	parts := strings.SplitN(s, itemKeySep, 3)
	var k ItemKey
	if len(parts) > 0 {
		k.ItemCode = parts[0]
	}
	if len(parts) > 1 {
		k.Brand = parts[1]
	}
	if len(parts) > 2 {
		k.Outlet = parts[2]
	}
	return k
}

// ReconciliationInput is the user-entered start/actual count for one item.
// Created lazily on first edit and never deleted automatically.
type ReconciliationInput struct {
	ItemCode  string `json:"itemCode"`
	Brand     string `json:"brand"`
	Outlet    string `json:"outlet"`
	StartQty  Amount `json:"startQty"`
	ActualQty Amount `json:"actualQty"`
	Note      string `json:"note"`
}

// Key returns the composite identity of the input.
func (in ReconciliationInput) Key() ItemKey {
	return ItemKey{ItemCode: in.ItemCode, Brand: in.Brand, Outlet: in.Outlet}
}

// VarianceRow is the computed theoretical-vs-actual position of one item.
// VariancePct is nil when TheoreticalQty is 0: percentage-of-zero is not
// applicable, and callers must not read it as 0% variance.
type VarianceRow struct {
	ItemCode         string   `json:"itemCode"`
	ItemName         string   `json:"itemName"`
	Unit             string   `json:"unit"`
	UnitCost         float64  `json:"unitCost"`
	TheoreticalUsage float64  `json:"theoreticalUsage"`
	StartQty         float64  `json:"startQty"`
	ActualQty        float64  `json:"actualQty"`
	TheoreticalQty   float64  `json:"theoreticalQty"`
	VarianceQty      float64  `json:"varianceQty"`
	VarianceCost     float64  `json:"varianceCost"`
	VariancePct      *float64 `json:"variancePct,omitempty"`
	Note             string   `json:"note,omitempty"`
}
