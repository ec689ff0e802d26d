package db

import (
	"context"
	"fmt"
)

type CatalogRepo struct {
	db *DB
}

func NewCatalogRepo(db *DB) *CatalogRepo {
	return &CatalogRepo{db}
}

// SaveRecord upserts on (store, sku, branch_id) so a re-crawl refreshes
// price and stock instead of duplicating rows.
func (cr *CatalogRepo) SaveRecord(ctx context.Context, rec *CatalogRecord) error {
	_, err := cr.db.ModelContext(ctx, rec).
		OnConflict("(store, sku, branch_id) DO UPDATE").
		Set("price = EXCLUDED.price, stock = EXCLUDED.stock, updated_at = NOW()").
		Insert()
	if err != nil {
		return fmt.Errorf("save catalog record: %w", err)
	}
	return nil
}

func (cr *CatalogRepo) CountRecords(ctx context.Context, store string) (int, error) {
	q := cr.db.ModelContext(ctx, (*CatalogRecord)(nil))
	if store != "" {
		q = q.Where("store = ?", store)
	}
	return q.Count()
}

func (cr *CatalogRepo) RecordsForSKU(ctx context.Context, store, sku string) (CatalogRecords, error) {
	var recs CatalogRecords
	err := cr.db.ModelContext(ctx, &recs).
		Where("store = ?", store).
		Where("sku = ?", sku).
		Select()
	if err != nil {
		return nil, err
	}
	return recs, nil
}
