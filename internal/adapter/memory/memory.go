// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/session"
)

// DB implements an in-memory database storage.
type DB struct {
	mu        sync.Mutex
	users     []*domain.User
	inventory map[int64]domain.InventoryItem
	cart      map[int64]domain.CartLine

	userIDCounter      int64
	inventoryIDCounter int64
	cartIDCounter      int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		inventory: make(map[int64]domain.InventoryItem),
		cart:      make(map[int64]domain.CartLine),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.InventoryRepository = (*DB)(nil)
var _ domain.CartRepository = (*DB)(nil)
var _ session.Store = (*SessionStore)(nil)
var _ session.Sweeper = (*SessionStore)(nil)

// Ping always succeeds.
func (db *DB) Ping(ctx context.Context) error {
	return nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, domain.ErrDuplicateUsername
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	cp := *u
	return &cp, nil
}

// --- InventoryRepository ---

// GetItem returns an inventory item by id.
func (db *DB) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	item, ok := db.inventory[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

// ListItems returns all inventory items ordered by id.
func (db *DB) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.InventoryItem, 0, len(db.inventory))
	for _, item := range db.inventory {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpsertItem inserts an item or updates the one with the same name.
func (db *DB) UpsertItem(ctx context.Context, item domain.InventoryItem) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for id, existing := range db.inventory {
		if existing.Name == item.Name {
			item.ID = id
			db.inventory[id] = item
			return id, nil
		}
	}
	db.inventoryIDCounter++
	item.ID = db.inventoryIDCounter
	db.inventory[item.ID] = item
	return item.ID, nil
}

// SetStock overwrites an item's quantity, standing in for the external stock
// management that owns inventory.
func (db *DB) SetStock(ctx context.Context, id int64, quantity int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	item, ok := db.inventory[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.Quantity = quantity
	db.inventory[id] = item
	return nil
}

// --- CartRepository ---

// joinLine fills the inventory columns of a cart line. Caller holds db.mu.
func (db *DB) joinLine(l domain.CartLine) domain.CartLine {
	if item, ok := db.inventory[l.InventoryID]; ok {
		l.Name = item.Name
		l.Price = item.Price
		l.InventoryQuantity = item.Quantity
	}
	return l
}

// FindLineForItem returns the user's line for an inventory item.
func (db *DB) FindLineForItem(ctx context.Context, userID, inventoryID int64) (*domain.CartLine, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, l := range db.cart {
		if l.UserID == userID && l.InventoryID == inventoryID {
			joined := db.joinLine(l)
			return &joined, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetLine returns the user's line by id.
func (db *DB) GetLine(ctx context.Context, userID, cartID int64) (*domain.CartLine, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	l, ok := db.cart[cartID]
	if !ok || l.UserID != userID {
		return nil, domain.ErrNotFound
	}
	joined := db.joinLine(l)
	return &joined, nil
}

// ListLines returns the user's lines ordered by id.
func (db *DB) ListLines(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := []domain.CartLine{}
	for _, l := range db.cart {
		if l.UserID == userID {
			out = append(out, db.joinLine(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// InsertLine adds a cart line.
func (db *DB) InsertLine(ctx context.Context, userID, inventoryID int64, quantity int) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.cartIDCounter++
	id := db.cartIDCounter
	db.cart[id] = domain.CartLine{ID: id, UserID: userID, InventoryID: inventoryID, Quantity: quantity}
	return id, nil
}

// IncrementLine adds quantity to the user's line for an inventory item.
func (db *DB) IncrementLine(ctx context.Context, userID, inventoryID int64, quantity int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for id, l := range db.cart {
		if l.UserID == userID && l.InventoryID == inventoryID {
			l.Quantity += quantity
			db.cart[id] = l
		}
	}
	return nil
}

// SetLineQuantity overwrites the quantity of the user's line.
func (db *DB) SetLineQuantity(ctx context.Context, userID, cartID int64, quantity int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if l, ok := db.cart[cartID]; ok && l.UserID == userID {
		l.Quantity = quantity
		db.cart[cartID] = l
	}
	return nil
}

// DeleteLine removes the user's line and reports how many rows went away.
func (db *DB) DeleteLine(ctx context.Context, userID, cartID int64) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if l, ok := db.cart[cartID]; ok && l.UserID == userID {
		delete(db.cart, cartID)
		return 1, nil
	}
	return 0, nil
}

// ClearCart removes all of the user's lines.
func (db *DB) ClearCart(ctx context.Context, userID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for id, l := range db.cart {
		if l.UserID == userID {
			delete(db.cart, id)
		}
	}
	return nil
}

// --- session.Store ---

type sessionEntry struct {
	data      session.Data
	expiresAt time.Time
}

// SessionStore keeps sessions in a map.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	now      func() time.Time
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

// Get returns the session for token unless it is missing or expired.
func (s *SessionStore) Get(ctx context.Context, token string) (session.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return session.Data{}, session.ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, token)
		return session.Data{}, session.ErrNotFound
	}
	return e.data, nil
}

// Set stores a session.
func (s *SessionStore) Set(ctx context.Context, token string, data session.Data, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = sessionEntry{data: data, expiresAt: expiresAt}
	return nil
}

// Delete deletes a session.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (s *SessionStore) DeleteExpired(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, v := range s.sessions {
		if now.After(v.expiresAt) {
			delete(s.sessions, k)
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
