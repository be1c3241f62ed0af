package store

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/restotrack-io/backend-go/internal/domain"
)

// Collection names. Each holds one whole JSON-encoded slice of records;
// the engine never reads or writes rows individually.
const (
	CollectionSales                = "sales"
	CollectionPurchases            = "purchases"
	CollectionWaste                = "waste"
	CollectionLabor                = "labor"
	CollectionOverhead             = "overhead"
	CollectionInventory            = "inventory"
	CollectionRecipes              = "recipes"
	CollectionMenuSales            = "menu_sales"
	CollectionReconciliationInputs = "reconciliation_inputs"
	CollectionAlertRules           = "alert_rules"
	CollectionActionItems          = "action_items"
)

// ErrNotFound is returned by Read when a collection has never been written.
type ErrNotFound struct {
	Collection string
}

func (e ErrNotFound) Error() string {
	return "collection not found: " + e.Collection
}

// RecordStore reads and writes whole named collections. The computation
// core stays persistence-agnostic behind this interface; implementations
// exist for memory and Postgres.
type RecordStore interface {
	// Read decodes the named collection into dest. Returns ErrNotFound
	// when the collection has never been written.
	Read(ctx context.Context, collection string, dest any) error
	// Write replaces the named collection.
	Write(ctx context.Context, collection string, v any) error
}

// LoadDataset materializes every source collection. Best effort: a missing
// collection yields an empty slice and anything else is logged and skipped,
// because KPI display must stay available on whatever data there is.
func LoadDataset(ctx context.Context, rs RecordStore) *domain.Dataset {
	ds := &domain.Dataset{}

	read := func(collection string, dest any) {
		err := rs.Read(ctx, collection, dest)
		if err == nil {
			return
		}
		if _, ok := err.(ErrNotFound); ok {
			return
		}
		log.Warn().Err(err).Str("collection", collection).Msg("collection unavailable, computing without it")
	}

	read(CollectionSales, &ds.Sales)
	read(CollectionPurchases, &ds.Purchases)
	read(CollectionWaste, &ds.Waste)
	read(CollectionLabor, &ds.Labor)
	read(CollectionOverhead, &ds.Overhead)
	read(CollectionInventory, &ds.Inventory)
	read(CollectionRecipes, &ds.Recipes)
	read(CollectionMenuSales, &ds.MenuSales)
	read(CollectionReconciliationInputs, &ds.ReconciliationInputs)

	return ds
}
