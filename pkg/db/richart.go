package db

import (
	"context"
	"fmt"
)

type RichartRepo struct {
	db *DB
}

func NewRichartRepo(db *DB) *RichartRepo {
	return &RichartRepo{db}
}

func (rr *RichartRepo) SaveProducts(ctx context.Context, products []*Product) error {
	if len(products) == 0 {
		return nil
	}
	_, err := rr.db.ModelContext(ctx, &products).
		OnConflict("(store, sku) DO UPDATE").
		Set("name = EXCLUDED.name, description = EXCLUDED.description, category = EXCLUDED.category, package = EXCLUDED.package, updated_at = NOW()").
		Insert()
	if err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

func (rr *RichartRepo) SaveBranchProducts(ctx context.Context, items []*BranchProduct) error {
	if len(items) == 0 {
		return nil
	}
	_, err := rr.db.ModelContext(ctx, &items).
		OnConflict("(product_id, branch) DO UPDATE").
		Set("price = EXCLUDED.price, stock = EXCLUDED.stock, updated_at = NOW()").
		Insert()
	if err != nil {
		return fmt.Errorf("save branch products: %w", err)
	}
	return nil
}
