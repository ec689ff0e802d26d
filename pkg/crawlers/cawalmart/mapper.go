package cawalmart

import (
	"fmt"
	"strings"
)

// BuildRecord derives a bare record from a decoded page state. Pure
// transform, no network and no mutation of the state.
func BuildRecord(state *PageState, sourceURL string, cfg Config) (*Record, error) {
	sku := state.Product.ActiveSkuID

	detail, ok := state.Entities.SKUs[sku]
	if !ok {
		return nil, fmt.Errorf("sku %q: %w", sku, ErrMissingEntity)
	}

	category, err := joinCategories(state, cfg.CategorySep)
	if err != nil {
		return nil, fmt.Errorf("sku %q: %w", sku, err)
	}

	images := make([]string, 0, len(detail.Images))
	for _, img := range detail.Images {
		images = append(images, img.Large.URL)
	}

	return &Record{
		SKU:         sku,
		SourceURL:   sourceURL,
		Store:       cfg.Store,
		Barcodes:    append([]string(nil), detail.UPC...),
		Brand:       detail.Brand.Name,
		Description: strings.ReplaceAll(detail.LongDescription, "<br>", ""),
		Name:        detail.Name,
		Package:     state.Product.Item.Description,
		ImageURLs:   images,
		Category:    category,
	}, nil
}

// joinCategories joins the first primary hierarchy's display names in
// document order, root first.
func joinCategories(state *PageState, sep string) (string, error) {
	primaries := state.Product.Item.PrimaryCategories
	if len(primaries) == 0 || len(primaries[0].Hierarchy) == 0 {
		return "", ErrMissingCategory
	}
	names := make([]string, 0, len(primaries[0].Hierarchy))
	for _, level := range primaries[0].Hierarchy {
		names = append(names, level.DisplayName.En)
	}
	return strings.Join(names, sep), nil
}
