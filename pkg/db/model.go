package db

import (
	"time"
)

// CatalogRecord is one emitted crawl unit, scoped to a single
// (store, sku, branch) triple. Price and stock are always set, bare
// records never reach the database.
type CatalogRecord struct {
	ID          int       `pg:"id,pk"`
	Store       string    `pg:"store,notnull"`
	SKU         string    `pg:"sku,notnull"`
	BranchID    int       `pg:"branch_id,notnull"`
	SourceURL   string    `pg:"source_url"`
	Barcodes    string    `pg:"barcodes"`
	Brand       string    `pg:"brand"`
	Description string    `pg:"description"`
	Name        string    `pg:"name"`
	Package     string    `pg:"package"`
	ImageURLs   string    `pg:"image_urls"`
	Category    string    `pg:"category"`
	Price       float64   `pg:"price"`
	Stock       int       `pg:"stock"`
	CreatedAt   time.Time `pg:"created_at"`
	UpdatedAt   time.Time `pg:"updated_at"`
}

type CatalogRecords []CatalogRecord

// BySKU groups records by sku, branches of the same product end up together.
func (rr CatalogRecords) BySKU() map[string]CatalogRecords {
	m := make(map[string]CatalogRecords)
	for _, r := range rr {
		m[r.SKU] = append(m[r.SKU], r)
	}
	return m
}

// Product is one normalized row from a flat product catalog file.
type Product struct {
	ID          int       `pg:"id,pk"`
	Store       string    `pg:"store,notnull"`
	SKU         string    `pg:"sku,notnull"`
	Barcodes    string    `pg:"barcodes"`
	Brand       string    `pg:"brand"`
	Description string    `pg:"description"`
	Name        string    `pg:"name"`
	Package     string    `pg:"package"`
	ImageURL    string    `pg:"image_url"`
	Category    string    `pg:"category"`
	CreatedAt   time.Time `pg:"created_at"`
	UpdatedAt   time.Time `pg:"updated_at"`
}

// BranchProduct is aggregated price/stock for one (product, branch) pair
// loaded from a flat prices file.
type BranchProduct struct {
	ID        int       `pg:"id,pk"`
	ProductID string    `pg:"product_id,notnull"`
	Branch    string    `pg:"branch,notnull"`
	Price     float64   `pg:"price"`
	Stock     int       `pg:"stock"`
	CreatedAt time.Time `pg:"created_at"`
	UpdatedAt time.Time `pg:"updated_at"`
}
