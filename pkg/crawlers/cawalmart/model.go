package cawalmart

import (
	"strings"
	"time"

	"grocery-catalog-crawlers/pkg/db"
)

// BranchConfig identifies a physical store location. Price and stock are
// looked up against each configured branch independently.
type BranchConfig struct {
	ID        int
	Latitude  float64
	Longitude float64
}

type Config struct {
	Store          string
	RootURL        string
	APIURL         string
	CategorySep    string
	BarcodeSep     string
	AllowedDomains []string
	CookieFile     string
	Proxies        []string
	Branches       []BranchConfig
}

func (c Config) withDefaults() Config {
	if c.Store == "" {
		c.Store = "Walmart"
	}
	if c.APIURL == "" {
		c.APIURL = "https://www.walmart.ca/api/product-page/find-in-store?latitude=%v&longitude=%v&lang=en&upc=%s"
	}
	if c.CategorySep == "" {
		c.CategorySep = "|"
	}
	if c.BarcodeSep == "" {
		c.BarcodeSep = ","
	}
	return c
}

// Record is one catalog unit scoped to a single (product, branch) pair.
// It starts bare (no price/stock) at product-page parse time and becomes
// complete once a branch lookup succeeds. Only complete records are saved.
type Record struct {
	SKU         string
	SourceURL   string
	Store       string
	Barcodes    []string
	Brand       string
	Description string
	Name        string
	Package     string
	ImageURLs   []string
	Category    string

	BranchID int
	Price    *float64
	Stock    *int
}

func (r *Record) Complete() bool {
	return r.Price != nil && r.Stock != nil
}

// CanonicalBarcode is the lookup key for the find-in-store API.
func (r *Record) CanonicalBarcode() string {
	if len(r.Barcodes) == 0 {
		return ""
	}
	return r.Barcodes[0]
}

// Clone returns a deep copy. Every branch lookup owns its own copy of the
// bare record, so enriching one branch never touches another's.
func (r *Record) Clone() *Record {
	cp := *r
	cp.Barcodes = append([]string(nil), r.Barcodes...)
	cp.ImageURLs = append([]string(nil), r.ImageURLs...)
	if r.Price != nil {
		p := *r.Price
		cp.Price = &p
	}
	if r.Stock != nil {
		s := *r.Stock
		cp.Stock = &s
	}
	return &cp
}

// Model converts a complete record into its storage row.
func (r *Record) Model(barcodeSep string) *db.CatalogRecord {
	m := &db.CatalogRecord{
		Store:       r.Store,
		SKU:         r.SKU,
		BranchID:    r.BranchID,
		SourceURL:   r.SourceURL,
		Barcodes:    strings.Join(r.Barcodes, barcodeSep),
		Brand:       r.Brand,
		Description: r.Description,
		Name:        r.Name,
		Package:     r.Package,
		ImageURLs:   strings.Join(r.ImageURLs, ","),
		Category:    r.Category,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if r.Price != nil {
		m.Price = *r.Price
	}
	if r.Stock != nil {
		m.Stock = *r.Stock
	}
	return m
}

// CrawlContext is carried on each branch lookup request and handed back
// unchanged to its response handler. One instance per (product, branch),
// never shared between in-flight lookups.
type CrawlContext struct {
	Record *Record
	Branch BranchConfig
}
