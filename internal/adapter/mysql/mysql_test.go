package mysql

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/session"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("MYSQL_DSN not set")
	}

	db, err := Open(dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(context.Background())
	require.NoError(t, err)

	for _, table := range []string{"cart", "inventory", "users", "sessions"} {
		_, err := db.sql.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
	return db
}

func TestUsers(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, err := db.Create(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = db.Create(ctx, "alice", "again")
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	got, err := db.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt), "returned %v, stored %v", u.CreatedAt, got.CreatedAt)

	_, err = db.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpsertItemReturnsExistingID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.UpsertItem(ctx, domain.InventoryItem{Name: "mug", Price: decimal.RequireFromString("9.99"), Quantity: 10})
	require.NoError(t, err)
	again, err := db.UpsertItem(ctx, domain.InventoryItem{Name: "mug", Price: decimal.RequireFromString("7.50"), Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	items, err := db.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
	assert.True(t, decimal.RequireFromString("7.50").Equal(items[0].Price))
}

func TestCartLines(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	alice, err := db.Create(ctx, "alice", "hash")
	require.NoError(t, err)
	bob, err := db.Create(ctx, "bob", "hash")
	require.NoError(t, err)
	itemID, err := db.UpsertItem(ctx, domain.InventoryItem{Name: "mug", Price: decimal.RequireFromString("2.50"), Quantity: 5})
	require.NoError(t, err)

	lineID, err := db.InsertLine(ctx, alice.ID, itemID, 2)
	require.NoError(t, err)
	require.NoError(t, db.IncrementLine(ctx, alice.ID, itemID, 2))

	line, err := db.FindLineForItem(ctx, alice.ID, itemID)
	require.NoError(t, err)
	assert.Equal(t, lineID, line.ID)
	assert.Equal(t, 4, line.Quantity)
	assert.Equal(t, 5, line.InventoryQuantity)

	_, err = db.FindLineForItem(ctx, bob.ID, itemID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := db.DeleteLine(ctx, bob.ID, lineID)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, db.SetLineQuantity(ctx, alice.ID, lineID, 1))
	line, err = db.GetLine(ctx, alice.ID, lineID)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	require.NoError(t, db.ClearCart(ctx, alice.ID))
	lines, err := db.ListLines(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestSessionStore(t *testing.T) {
	db := openTestDB(t)
	store := NewSessionStore(db)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tok", session.Data{}, time.Now().Add(time.Hour)))
	require.NoError(t, store.Set(ctx, "tok", session.Data{LoggedIn: true, UserID: 3}, time.Now().Add(time.Hour)))

	data, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, session.Data{LoggedIn: true, UserID: 3}, data)

	require.NoError(t, store.Set(ctx, "old", session.Data{}, time.Now().Add(-time.Hour)))
	_, err = store.Get(ctx, "old")
	assert.ErrorIs(t, err, session.ErrNotFound)
	require.NoError(t, store.DeleteExpired(ctx))

	require.NoError(t, store.Delete(ctx, "tok"))
	_, err = store.Get(ctx, "tok")
	assert.ErrorIs(t, err, session.ErrNotFound)
}
