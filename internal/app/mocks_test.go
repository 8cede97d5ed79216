package app

import (
	"context"

	"storefront/internal/domain"
)

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	createFn        func(ctx context.Context, username, passwordHash string) (*domain.User, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

type mockInventoryRepo struct {
	getFn    func(ctx context.Context, id int64) (*domain.InventoryItem, error)
	listFn   func(ctx context.Context) ([]domain.InventoryItem, error)
	upsertFn func(ctx context.Context, item domain.InventoryItem) (int64, error)
}

func (m *mockInventoryRepo) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockInventoryRepo) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockInventoryRepo) UpsertItem(ctx context.Context, item domain.InventoryItem) (int64, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, item)
	}
	return 1, nil
}

// mockCartRepo fails loudly on any call that a test did not expect.
type mockCartRepo struct {
	findFn      func(ctx context.Context, userID, inventoryID int64) (*domain.CartLine, error)
	getFn       func(ctx context.Context, userID, cartID int64) (*domain.CartLine, error)
	listFn      func(ctx context.Context, userID int64) ([]domain.CartLine, error)
	insertFn    func(ctx context.Context, userID, inventoryID int64, quantity int) (int64, error)
	incrementFn func(ctx context.Context, userID, inventoryID int64, quantity int) error
	setFn       func(ctx context.Context, userID, cartID int64, quantity int) error
	deleteFn    func(ctx context.Context, userID, cartID int64) (int64, error)
	clearFn     func(ctx context.Context, userID int64) error
}

func (m *mockCartRepo) FindLineForItem(ctx context.Context, userID, inventoryID int64) (*domain.CartLine, error) {
	if m.findFn != nil {
		return m.findFn(ctx, userID, inventoryID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCartRepo) GetLine(ctx context.Context, userID, cartID int64) (*domain.CartLine, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, cartID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCartRepo) ListLines(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockCartRepo) InsertLine(ctx context.Context, userID, inventoryID int64, quantity int) (int64, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, userID, inventoryID, quantity)
	}
	panic("unexpected InsertLine")
}

func (m *mockCartRepo) IncrementLine(ctx context.Context, userID, inventoryID int64, quantity int) error {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, userID, inventoryID, quantity)
	}
	panic("unexpected IncrementLine")
}

func (m *mockCartRepo) SetLineQuantity(ctx context.Context, userID, cartID int64, quantity int) error {
	if m.setFn != nil {
		return m.setFn(ctx, userID, cartID, quantity)
	}
	panic("unexpected SetLineQuantity")
}

func (m *mockCartRepo) DeleteLine(ctx context.Context, userID, cartID int64) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, cartID)
	}
	panic("unexpected DeleteLine")
}

func (m *mockCartRepo) ClearCart(ctx context.Context, userID int64) error {
	if m.clearFn != nil {
		return m.clearFn(ctx, userID)
	}
	return nil
}
