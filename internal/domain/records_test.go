package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountCoercion(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    float64
	}{
		{"plain number", `{"netSales": 1250.5}`, 1250.5},
		{"numeric string", `{"netSales": "980"}`, 980},
		{"string with thousands separator", `{"netSales": "1,234.50"}`, 1234.5},
		{"garbage string", `{"netSales": "n/a"}`, 0},
		{"null", `{"netSales": null}`, 0},
		{"missing", `{}`, 0},
		{"empty string", `{"netSales": ""}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r SalesRecord
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &r))
			assert.Equal(t, tt.want, r.NetSales.Float())
		})
	}
}

func TestDateParsing(t *testing.T) {
	assert.Equal(t, "2026-03-15", ParseDate("2026-03-15").Format("2006-01-02"))
	assert.True(t, ParseDate("").IsZero())
	assert.True(t, ParseDate("not a date").IsZero())
	assert.False(t, ParseDate("2026-03-15T10:30:00Z").IsZero())
}

func TestDateWithin(t *testing.T) {
	from := NewDate(2026, 1, 1)
	to := NewDate(2026, 1, 31)

	assert.True(t, NewDate(2026, 1, 15).Within(from, to))
	assert.False(t, NewDate(2026, 2, 1).Within(from, to))
	assert.False(t, NewDate(2025, 12, 31).Within(from, to))

	// Undated rows are never excluded by a date filter
	assert.True(t, Date{}.Within(from, to))

	// Open bounds
	assert.True(t, NewDate(2030, 6, 1).Within(from, Date{}))
	assert.True(t, NewDate(2020, 6, 1).Within(Date{}, to))
}

func TestItemKeyRoundTrip(t *testing.T) {
	key := ItemKey{ItemCode: "FLR", Brand: "Bistro", Outlet: "Downtown"}
	assert.Equal(t, "FLR::Bistro::Downtown", key.String())
	assert.Equal(t, key, ParseItemKey(key.String()))
}

func TestItemKeyEmptySegments(t *testing.T) {
	// Empty segments are valid and must survive the round trip: they
	// distinguish "unset" from a real value
	key := ItemKey{ItemCode: "FLR"}
	assert.Equal(t, "FLR::::", key.String())
	assert.Equal(t, key, ParseItemKey("FLR::::"))

	assert.Equal(t, ItemKey{ItemCode: "FLR"}, ParseItemKey("FLR"))
}

func TestFilterMatchScope(t *testing.T) {
	f := Filter{Brand: "Bistro", Outlet: "Downtown"}

	assert.True(t, f.MatchScope("Bistro", "Downtown"))
	assert.False(t, f.MatchScope("Diner", "Downtown"))
	assert.False(t, f.MatchScope("Bistro", "Airport"))

	// Records with empty brand/outlet apply to all
	assert.True(t, f.MatchScope("", ""))
	assert.True(t, f.MatchScope("Bistro", ""))

	// Empty filter matches everything
	assert.True(t, Filter{}.MatchScope("Diner", "Airport"))
}
