package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked product. The storefront only reads it; stock
// levels are managed elsewhere.
type InventoryItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// InventoryRepository is the port for inventory persistence.
type InventoryRepository interface {
	// GetItem returns ErrNotFound when no item has the given id.
	GetItem(ctx context.Context, id int64) (*InventoryItem, error)
	ListItems(ctx context.Context) ([]InventoryItem, error)
	// UpsertItem inserts the item or, when an item with the same name exists,
	// overwrites its price and quantity. It returns the item id.
	UpsertItem(ctx context.Context, item InventoryItem) (int64, error)
}
