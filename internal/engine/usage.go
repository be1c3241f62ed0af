package engine

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/restotrack-io/backend-go/internal/domain"
)

// ResolveUsage computes expected consumption per inventory code for the
// given date range: recipe lines multiplied by menu units sold, plus
// manual waste quantities. Only codes with a non-zero contribution appear
// in the result.
//
// Waste rows without an inventory code fall back to an exact item-name
// match against the inventory list and are added only when the match is
// unique. Zero or multiple candidates drop the row silently; that
// undercounts true usage and is a known data-quality gap, logged at debug
// level only.
func ResolveUsage(recipes []domain.Recipe, menuSales []domain.MenuSalesFact, waste []domain.WasteRecord, items []domain.InventoryItem, from, to domain.Date) map[string]float64 {
	usage := make(map[string]float64)

	// 1. Units sold per menu item name; duplicate names accumulate
	unitsByMenuItem := make(map[string]float64, len(menuSales))
	for _, fact := range menuSales {
		name := strings.TrimSpace(fact.MenuItem)
		if name == "" {
			continue
		}
		unitsByMenuItem[name] += fact.UnitsSold.Float()
	}

	// 2. Recipe lines scaled by units sold. Recipes pointing at a menu
	// item that never sold (or sold a non-positive amount) contribute
	// nothing; lines without an inventory code are skipped.
	for _, recipe := range recipes {
		units := unitsByMenuItem[strings.TrimSpace(recipe.MenuItem)]
		if units <= 0 {
			continue
		}
		for _, line := range recipe.Lines {
			code := strings.TrimSpace(line.InventoryCode)
			if code == "" {
				continue
			}
			usage[code] += line.QtyPerPortion.Float() * units
		}
	}

	// 3. Manual waste, joined by code or by unique item-name match.
	// Undated rows are always in range.
	codesByName := make(map[string][]string)
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		codesByName[name] = append(codesByName[name], item.ItemCode)
	}

	for _, w := range waste {
		if !w.Date.Within(from, to) {
			continue
		}
		if code := strings.TrimSpace(w.ItemCode); code != "" {
			usage[code] += w.Qty.Float()
			continue
		}
		candidates := codesByName[strings.TrimSpace(w.ItemName)]
		if len(candidates) != 1 {
			log.Debug().
				Str("itemName", w.ItemName).
				Int("candidates", len(candidates)).
				Msg("waste row dropped: no unique inventory match")
			continue
		}
		usage[candidates[0]] += w.Qty.Float()
	}

	// 4. Strip codes whose contributions cancelled out to zero
	for code, qty := range usage {
		if qty == 0 {
			delete(usage, code)
		}
	}

	return usage
}
