package cawalmart

import (
	"fmt"
	"strings"

	"github.com/titanous/json5"
)

// StateMarker prefixes the one script on a product page that declares the
// server-rendered state object.
const StateMarker = "window.__PRELOADED_STATE__="

// PageState is the typed slice of the preloaded state object the crawler
// cares about. The upstream blob is a JavaScript object literal, not strict
// JSON: unquoted keys, single quotes and trailing commas all appear, which
// is why decoding goes through json5 instead of encoding/json.
type PageState struct {
	Product  ProductState `json:"product"`
	Entities EntityState  `json:"entities"`
}

type ProductState struct {
	ActiveSkuID string    `json:"activeSkuId"`
	Item        ItemState `json:"item"`
}

type ItemState struct {
	// Description is the unit-of-sale blurb, distinct from the per-sku
	// long description.
	Description       string              `json:"description"`
	PrimaryCategories []CategoryHierarchy `json:"primaryCategories"`
}

type CategoryHierarchy struct {
	Hierarchy []CategoryLevel `json:"hierarchy"`
}

type CategoryLevel struct {
	DisplayName LocalizedName `json:"displayName"`
}

type LocalizedName struct {
	En string `json:"en"`
}

type EntityState struct {
	SKUs map[string]SKUDetail `json:"skus"`
}

type SKUDetail struct {
	UPC             []string     `json:"upc"`
	Brand           BrandState   `json:"brand"`
	LongDescription string       `json:"longDescription"`
	Name            string       `json:"name"`
	Images          []ImageState `json:"images"`
}

type BrandState struct {
	Name string `json:"name"`
}

type ImageState struct {
	Large ImageVariant `json:"large"`
}

type ImageVariant struct {
	URL string `json:"url"`
}

// HasStateMarker reports whether a script's text declares the state object.
func HasStateMarker(script string) bool {
	return strings.HasPrefix(strings.TrimSpace(script), StateMarker)
}

// DecodeState strips the marker and the trailing statement terminator and
// decodes the remaining object literal into a PageState.
func DecodeState(script string) (*PageState, error) {
	text := strings.TrimSpace(script)
	if !strings.HasPrefix(text, StateMarker) {
		return nil, ErrStateMarkerNotFound
	}
	text = strings.TrimPrefix(text, StateMarker)
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")

	var state PageState
	if err := json5.Unmarshal([]byte(text), &state); err != nil {
		return nil, fmt.Errorf("decode state literal: %w", err)
	}
	return &state, nil
}
