package postgres

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/domain"
)

const cartLineColumns = `c.id, c.inventory_id, c.user_id, c.quantity,
	COALESCE(i.name, ''), COALESCE(i.price, 0), COALESCE(i.quantity, 0)`

type scanner interface {
	Scan(dest ...any) error
}

func scanCartLine(row scanner) (*domain.CartLine, error) {
	var l domain.CartLine
	err := row.Scan(&l.ID, &l.InventoryID, &l.UserID, &l.Quantity, &l.Name, &l.Price, &l.InventoryQuantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// FindLineForItem returns the user's line for an inventory item.
func (d *DB) FindLineForItem(ctx context.Context, userID, inventoryID int64) (*domain.CartLine, error) {
	return scanCartLine(d.sql.QueryRowContext(ctx,
		`SELECT `+cartLineColumns+`
		FROM inventory i
		LEFT JOIN cart c ON c.inventory_id = i.id
		WHERE i.id = $1 AND c.user_id = $2
		ORDER BY c.id LIMIT 1`,
		inventoryID, userID,
	))
}

// GetLine returns the user's line by id, joined with the item's stock.
func (d *DB) GetLine(ctx context.Context, userID, cartID int64) (*domain.CartLine, error) {
	return scanCartLine(d.sql.QueryRowContext(ctx,
		`SELECT `+cartLineColumns+`
		FROM cart c
		LEFT JOIN inventory i ON c.inventory_id = i.id
		WHERE c.id = $1 AND c.user_id = $2`,
		cartID, userID,
	))
}

// ListLines returns the user's lines ordered by id.
func (d *DB) ListLines(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+cartLineColumns+`
		FROM cart c
		LEFT JOIN inventory i ON c.inventory_id = i.id
		WHERE c.user_id = $1
		ORDER BY c.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.CartLine{}
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// InsertLine adds a cart line.
func (d *DB) InsertLine(ctx context.Context, userID, inventoryID int64, quantity int) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO cart (inventory_id, quantity, user_id) VALUES ($1, $2, $3) RETURNING id",
		inventoryID, quantity, userID,
	).Scan(&id)
	return id, err
}

// IncrementLine adds quantity to the user's line for an inventory item.
func (d *DB) IncrementLine(ctx context.Context, userID, inventoryID int64, quantity int) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE cart SET quantity = quantity + $1 WHERE inventory_id = $2 AND user_id = $3",
		quantity, inventoryID, userID,
	)
	return err
}

// SetLineQuantity overwrites the quantity of the user's line.
func (d *DB) SetLineQuantity(ctx context.Context, userID, cartID int64, quantity int) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE cart SET quantity = $1 WHERE id = $2 AND user_id = $3",
		quantity, cartID, userID,
	)
	return err
}

// DeleteLine removes the user's line and reports how many rows went away.
func (d *DB) DeleteLine(ctx context.Context, userID, cartID int64) (int64, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM cart WHERE id = $1 AND user_id = $2", cartID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearCart removes all of the user's lines.
func (d *DB) ClearCart(ctx context.Context, userID int64) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM cart WHERE user_id = $1", userID)
	return err
}
