package cawalmart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeState(t *testing.T) {
	script := `window.__PRELOADED_STATE__={
		product: {
			activeSkuId: '123',
			item: {
				description: "Sold individually",
				primaryCategories: [
					{hierarchy: [
						{displayName: {en: "Produce"}},
						{displayName: {en: "Fruit"}},
						{displayName: {en: "Citrus"}},
					]},
				],
			},
		},
		entities: {
			skus: {
				"123": {
					upc: ["00012345", "00012346"],
					brand: {name: 'Acme'},
					longDescription: "<br>Fresh fruit",
					name: "Apple",
					images: [{large: {url: "https://img.example.com/1-large.jpg"}}],
				},
			},
		},
	};`

	state, err := DecodeState(script)
	require.NoError(t, err)

	assert.Equal(t, "123", state.Product.ActiveSkuID)
	assert.Equal(t, "Sold individually", state.Product.Item.Description)
	require.Len(t, state.Product.Item.PrimaryCategories, 1)
	assert.Len(t, state.Product.Item.PrimaryCategories[0].Hierarchy, 3)

	detail, ok := state.Entities.SKUs["123"]
	require.True(t, ok)
	assert.Equal(t, []string{"00012345", "00012346"}, detail.UPC)
	assert.Equal(t, "Acme", detail.Brand.Name)
	assert.Equal(t, "Apple", detail.Name)
	require.Len(t, detail.Images, 1)
	assert.Equal(t, "https://img.example.com/1-large.jpg", detail.Images[0].Large.URL)
}

func TestDecodeStateMarkerMissing(t *testing.T) {
	_, err := DecodeState(`window.dataLayer = [];`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStateMarkerNotFound))
}

func TestDecodeStateBadLiteral(t *testing.T) {
	_, err := DecodeState(`window.__PRELOADED_STATE__={product: {activeSkuId:};`)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrStateMarkerNotFound))
}

func TestHasStateMarker(t *testing.T) {
	assert.True(t, HasStateMarker("  window.__PRELOADED_STATE__={}"))
	assert.False(t, HasStateMarker("window.__OTHER_STATE__={}"))
	assert.False(t, HasStateMarker(""))
}
