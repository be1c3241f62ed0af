package domain

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

// Amount is a monetary amount or quantity coming from user-entered rows.
// Decoding is tolerant: numbers, numeric strings (thousands separators
// allowed) and anything else coerce to 0 instead of failing, so a dirty
// row can never break an aggregation pass.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if data[0] == '"' {
		s := strings.TrimSpace(strings.Trim(string(data), `"`))
		s = strings.ReplaceAll(s, ",", "")
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*a = 0
			return nil
		}
		*a = Amount(v)
		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

// Float returns the coerced value.
func (a Amount) Float() float64 { return float64(a) }

const dateLayout = "2006-01-02"

// Date is a civil date attached to a transactional row. The zero value
// means "undated" and is accepted as valid input (e.g. waste rows without
// a date). Decoding tolerates empty and malformed values.
type Date struct {
	time.Time
}

// NewDate builds a Date truncated to day precision.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "2006-01-02" or RFC3339; anything else yields a zero Date.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Date{t.UTC().Truncate(24 * time.Hour)}
	}
	return Date{}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	*d = ParseDate(strings.Trim(string(data), `"`))
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// Month renders the calendar month the date falls in, "2006-01".
func (d Date) Month() string {
	return d.Format("2006-01")
}

// Within reports whether the date falls inside [from, to]. Zero bounds are
// open; a zero date is inside any range (undated rows are never excluded
// by a date filter).
func (d Date) Within(from, to Date) bool {
	if d.IsZero() {
		return true
	}
	if !from.IsZero() && d.Before(from.Time) {
		return false
	}
	if !to.IsZero() && d.After(to.Time) {
		return false
	}
	return true
}

// SalesRecord is one sales row as entered by the operator. Empty Brand or
// Outlet means the row applies to all brands/outlets.
type SalesRecord struct {
	Date     Date   `json:"date"`
	Brand    string `json:"brand"`
	Outlet   string `json:"outlet"`
	NetSales Amount `json:"netSales"`
}

type PurchaseRecord struct {
	Date      Date   `json:"date"`
	Brand     string `json:"brand"`
	Outlet    string `json:"outlet"`
	Supplier  string `json:"supplier"`
	ItemCode  string `json:"itemCode"`
	Qty       Amount `json:"qty"`
	TotalCost Amount `json:"totalCost"`
}

// WasteRecord may reference inventory by code or only by free-text item
// name; the usage resolver joins by code first and falls back to a unique
// name match.
type WasteRecord struct {
	Date     Date   `json:"date"`
	Brand    string `json:"brand"`
	Outlet   string `json:"outlet"`
	ItemCode string `json:"itemCode"`
	ItemName string `json:"itemName"`
	Qty      Amount `json:"qty"`
	Cost     Amount `json:"cost"`
	Reason   string `json:"reason"`
}

type LaborRecord struct {
	Date      Date   `json:"date"`
	Brand     string `json:"brand"`
	Outlet    string `json:"outlet"`
	Staff     string `json:"staff"`
	LaborCost Amount `json:"laborCost"`
}

type OverheadRecord struct {
	Date     Date   `json:"date"`
	Brand    string `json:"brand"`
	Outlet   string `json:"outlet"`
	Category string `json:"category"`
	Amount   Amount `json:"amount"`
}

// Filter narrows records to a brand/outlet/date-range view. Empty fields
// match everything; a record with an empty brand/outlet matches any filter
// (it applies to all).
type Filter struct {
	Brand  string `json:"brand"`
	Outlet string `json:"outlet"`
	From   Date   `json:"from"`
	To     Date   `json:"to"`
}

// MatchScope reports whether a record's brand/outlet pair falls inside the
// filter's scope.
func (f Filter) MatchScope(brand, outlet string) bool {
	if f.Brand != "" && brand != "" && brand != f.Brand {
		return false
	}
	if f.Outlet != "" && outlet != "" && outlet != f.Outlet {
		return false
	}
	return true
}

// Match reports whether a dated record falls inside the filter.
func (f Filter) Match(date Date, brand, outlet string) bool {
	return f.MatchScope(brand, outlet) && date.Within(f.From, f.To)
}
