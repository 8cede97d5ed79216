// Package seed loads inventory items from a YAML file into the inventory
// repository.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"storefront/internal/domain"
)

// Item is one inventory entry as written in the seed file. Price is kept as
// a string so that values like 9.99 are parsed exactly.
type Item struct {
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Quantity int    `yaml:"quantity"`
}

// File is the top-level seed document.
type File struct {
	Items []Item `yaml:"items"`
}

// Upserter is the part of domain.InventoryRepository the seeder needs.
type Upserter interface {
	UpsertItem(ctx context.Context, item domain.InventoryItem) (int64, error)
}

// Load reads and validates a seed file.
func Load(path string) ([]domain.InventoryItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a seed document.
func Parse(data []byte) ([]domain.InventoryItem, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	seen := make(map[string]bool, len(f.Items))
	items := make([]domain.InventoryItem, 0, len(f.Items))
	for i, it := range f.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("item %d: name is required", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("item %d: duplicate name %q", i, name)
		}
		seen[name] = true

		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("item %q: invalid price %q: %w", name, it.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("item %q: price must not be negative", name)
		}
		if it.Quantity < 0 {
			return nil, fmt.Errorf("item %q: quantity must not be negative", name)
		}
		items = append(items, domain.InventoryItem{Name: name, Price: price, Quantity: it.Quantity})
	}
	return items, nil
}

// Apply upserts every item and returns how many were written.
func Apply(ctx context.Context, repo Upserter, items []domain.InventoryItem) (int, error) {
	var errs []error
	n := 0
	for _, item := range items {
		if _, err := repo.UpsertItem(ctx, item); err != nil {
			errs = append(errs, fmt.Errorf("upsert %q: %w", item.Name, err))
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}
