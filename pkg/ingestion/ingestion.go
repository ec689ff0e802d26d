// Package ingestion loads flat catalog exports into the relational store:
// a pipe-separated products file and a per-branch prices/stock file. Plain
// tabular work, no crawling involved.
package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"grocery-catalog-crawlers/pkg/db"
	"grocery-catalog-crawlers/pkg/logger"
)

type Config struct {
	Store        string
	ProductsPath string
	PricesPath   string
	// Branches to keep from the prices file, others are skipped.
	Branches    []string
	CategorySep string
}

func (c Config) withDefaults() Config {
	if c.Store == "" {
		c.Store = "Richart's"
	}
	if c.CategorySep == "" {
		c.CategorySep = "|"
	}
	return c
}

// ProductStore receives the normalized rows.
type ProductStore interface {
	SaveProducts(ctx context.Context, products []*db.Product) error
	SaveBranchProducts(ctx context.Context, items []*db.BranchProduct) error
}

type Ingestor struct {
	logger logger.Logger
	store  ProductStore
	cfg    Config
}

func NewIngestor(lg logger.Logger, store ProductStore, cfg Config) *Ingestor {
	return &Ingestor{
		logger: lg,
		store:  store,
		cfg:    cfg.withDefaults(),
	}
}

// Run ingests the products file and then the prices file.
func (i *Ingestor) Run(ctx context.Context) error {
	products, err := i.ingestProducts(ctx)
	if err != nil {
		return fmt.Errorf("ingest products: %w", err)
	}
	branches, err := i.ingestPrices(ctx)
	if err != nil {
		return fmt.Errorf("ingest prices: %w", err)
	}
	i.logger.Printf("Ingestion finished - %d products, %d branch rows", products, branches)
	return nil
}

func (i *Ingestor) ingestProducts(ctx context.Context) (int, error) {
	rows, err := readTable(i.cfg.ProductsPath)
	if err != nil {
		return 0, err
	}

	products := make([]*db.Product, 0, len(rows))
	for _, row := range rows {
		p := &db.Product{
			Store:       i.cfg.Store,
			SKU:         normalizeText(row["sku"]),
			Barcodes:    normalizeText(row["barcodes"]),
			Brand:       normalizeText(row["brand"]),
			Description: normalizeText(row["description"]),
			Name:        normalizeText(row["name"]),
			ImageURL:    normalizeText(row["image_url"]),
			Category: joinCategories(i.cfg.CategorySep,
				normalizeText(row["category"]),
				normalizeText(row["sub_category"]),
				normalizeText(row["sub_sub_category"])),
		}
		// Source files ship plenty of unnamed rows.
		if p.Name == "" {
			p.Name = p.Description
		}
		p.Package = packageUnit(p.Description)
		products = append(products, p)
	}

	if err := i.store.SaveProducts(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}

func (i *Ingestor) ingestPrices(ctx context.Context) (int, error) {
	rows, err := readTable(i.cfg.PricesPath)
	if err != nil {
		return 0, err
	}

	keep := make(map[string]bool, len(i.cfg.Branches))
	for _, b := range i.cfg.Branches {
		keep[strings.ToLower(b)] = true
	}

	type key struct {
		sku, branch string
	}
	agg := make(map[key]*db.BranchProduct)
	order := make([]key, 0, len(rows))

	for _, row := range rows {
		branch := normalizeText(row["branch"])
		if len(keep) > 0 && !keep[branch] {
			continue
		}
		stock, err := strconv.Atoi(strings.TrimSpace(row["stock"]))
		if err != nil || stock <= 0 {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row["price"]), 64)
		if err != nil {
			continue
		}
		// The prices file renames sku to product_id on the way in.
		k := key{sku: normalizeText(row["sku"]), branch: branch}
		item, ok := agg[k]
		if !ok {
			agg[k] = &db.BranchProduct{
				ProductID: k.sku,
				Branch:    k.branch,
				Price:     price,
				Stock:     stock,
			}
			order = append(order, k)
			continue
		}
		// Duplicate (sku, branch) rows collapse to min price, summed stock.
		if price < item.Price {
			item.Price = price
		}
		item.Stock += stock
	}

	items := make([]*db.BranchProduct, 0, len(order))
	for _, k := range order {
		items = append(items, agg[k])
	}
	if err := i.store.SaveBranchProducts(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// readTable reads a pipe-separated file into one map per row, keyed by
// lowercased header names.
func readTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '|'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row of %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
