package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CartLine is one row of a user's cart. Name, Price and InventoryQuantity are
// filled from the joined inventory row on reads.
type CartLine struct {
	ID                int64           `json:"id"`
	InventoryID       int64           `json:"inventoryId"`
	UserID            int64           `json:"userId"`
	Quantity          int             `json:"quantity"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int             `json:"inventoryQuantity"`
}

// Subtotal is the line price times the carted quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartRepository is the port for cart persistence. Every operation is scoped
// to a user so that ownership and existence are checked by the same query.
type CartRepository interface {
	// FindLineForItem returns the user's line for an inventory item or
	// ErrNotFound.
	FindLineForItem(ctx context.Context, userID, inventoryID int64) (*CartLine, error)
	// GetLine returns the user's line by id joined with the current stock, or
	// ErrNotFound if it does not exist or belongs to someone else.
	GetLine(ctx context.Context, userID, cartID int64) (*CartLine, error)
	ListLines(ctx context.Context, userID int64) ([]CartLine, error)

	InsertLine(ctx context.Context, userID, inventoryID int64, quantity int) (int64, error)
	IncrementLine(ctx context.Context, userID, inventoryID int64, quantity int) error
	SetLineQuantity(ctx context.Context, userID, cartID int64, quantity int) error
	// DeleteLine returns the number of rows removed.
	DeleteLine(ctx context.Context, userID, cartID int64) (int64, error)
	ClearCart(ctx context.Context, userID int64) error
}
