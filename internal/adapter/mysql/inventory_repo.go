package mysql

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/domain"
)

// GetItem returns an inventory item by id.
func (d *DB) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, name, price, quantity FROM inventory WHERE id = ?", id,
	).Scan(&item.ID, &item.Name, &item.Price, &item.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns all inventory items ordered by id.
func (d *DB) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT id, name, price, quantity FROM inventory ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.InventoryItem{}
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// UpsertItem inserts an item or overwrites price and quantity of the item
// with the same name. LAST_INSERT_ID(id) makes the existing row's id come
// back through LastInsertId on the update path.
func (d *DB) UpsertItem(ctx context.Context, item domain.InventoryItem) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO inventory (name, price, quantity) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id), price = VALUES(price), quantity = VALUES(quantity)`,
		item.Name, item.Price, item.Quantity,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
