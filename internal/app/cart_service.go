package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var (
	// ErrItemNotFound indicates that the referenced inventory item is absent.
	ErrItemNotFound = errors.New("item not found")
	// ErrCartLineNotFound indicates that the cart line is absent or belongs to
	// another user.
	ErrCartLineNotFound = errors.New("cart item not found")
	// ErrInsufficientStock indicates that the requested quantity exceeds the
	// item's current stock.
	ErrInsufficientStock = errors.New("not enough inventory")
)

// AddResult tells whether AddToCart created a line or grew an existing one.
type AddResult int

// AddToCart outcomes.
const (
	LineCreated AddResult = iota + 1
	LineIncremented
)

// Cart is a user's cart with its total price.
type Cart struct {
	Lines []domain.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

// CartService encapsulates the cart use cases.
//
// Stock is re-checked on every mutation but the check and the write are not
// atomic: two concurrent requests can both pass the check.
type CartService struct {
	inventory domain.InventoryRepository
	carts     domain.CartRepository
}

// NewCartService creates a CartService.
func NewCartService(inventory domain.InventoryRepository, carts domain.CartRepository) *CartService {
	return &CartService{inventory: inventory, carts: carts}
}

// AddToCart adds quantity of an inventory item to the user's cart. An existing
// line for the item is incremented; the resulting total is not re-checked
// against stock.
func (s *CartService) AddToCart(ctx context.Context, userID, inventoryID int64, quantity int) (AddResult, error) {
	if quantity <= 0 {
		return 0, ErrInvalidInput
	}

	item, err := s.inventory.GetItem(ctx, inventoryID)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, ErrItemNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get item: %w", err)
	}
	if quantity > item.Quantity {
		return 0, ErrInsufficientStock
	}

	_, err = s.carts.FindLineForItem(ctx, userID, inventoryID)
	switch {
	case err == nil:
		if err := s.carts.IncrementLine(ctx, userID, inventoryID, quantity); err != nil {
			return 0, fmt.Errorf("increment cart line: %w", err)
		}
		return LineIncremented, nil
	case errors.Is(err, domain.ErrNotFound):
		if _, err := s.carts.InsertLine(ctx, userID, inventoryID, quantity); err != nil {
			return 0, fmt.Errorf("insert cart line: %w", err)
		}
		return LineCreated, nil
	default:
		return 0, fmt.Errorf("find cart line: %w", err)
	}
}

// UpdateLine overwrites the quantity of one of the user's lines. A quantity
// of zero or less removes the line.
func (s *CartService) UpdateLine(ctx context.Context, userID, cartID int64, quantity int) error {
	line, err := s.carts.GetLine(ctx, userID, cartID)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrCartLineNotFound
	}
	if err != nil {
		return fmt.Errorf("get cart line: %w", err)
	}
	if quantity > line.InventoryQuantity {
		return ErrInsufficientStock
	}

	if quantity > 0 {
		if err := s.carts.SetLineQuantity(ctx, userID, cartID, quantity); err != nil {
			return fmt.Errorf("set cart line quantity: %w", err)
		}
		return nil
	}
	if _, err := s.carts.DeleteLine(ctx, userID, cartID); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

// RemoveLine deletes one of the user's lines. Lines that do not exist and
// lines owned by another user are both reported as ErrCartLineNotFound.
func (s *CartService) RemoveLine(ctx context.Context, userID, cartID int64) error {
	n, err := s.carts.DeleteLine(ctx, userID, cartID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if n != 1 {
		return ErrCartLineNotFound
	}
	return nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	if err := s.carts.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// GetCart returns the user's lines and their total.
func (s *CartService) GetCart(ctx context.Context, userID int64) (*Cart, error) {
	lines, err := s.carts.ListLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return &Cart{Lines: lines, Total: total}, nil
}

// ListInventory returns every inventory item.
func (s *CartService) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.inventory.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}
