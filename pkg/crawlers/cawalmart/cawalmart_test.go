package cawalmart

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"grocery-catalog-crawlers/pkg/db"
	"grocery-catalog-crawlers/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	recs []*db.CatalogRecord
}

func (m *memStore) SaveRecord(_ context.Context, rec *db.CatalogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memStore) records() []*db.CatalogRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*db.CatalogRecord(nil), m.recs...)
}

func (m *memStore) bySKUAndBranch() map[string]*db.CatalogRecord {
	out := make(map[string]*db.CatalogRecord)
	for _, r := range m.records() {
		out[fmt.Sprintf("%s/%d", r.SKU, r.BranchID)] = r
	}
	return out
}

const appleState = `window.__PRELOADED_STATE__={
	product: {
		activeSkuId: '123',
		item: {
			description: 'Sold individually',
			primaryCategories: [
				{hierarchy: [
					{displayName: {en: 'Produce'}},
					{displayName: {en: 'Fruit'}},
				]},
			],
		},
	},
	entities: {
		skus: {
			'123': {
				upc: ['00012345'],
				brand: {name: 'Acme'},
				longDescription: '<br>Fresh fruit',
				name: 'Apple',
				images: [{large: {url: 'https://img.example.com/apple.jpg'}}],
			},
		},
	},
};`

const juiceState = `window.__PRELOADED_STATE__={
	product: {
		activeSkuId: '456',
		item: {
			description: 'Carton of 1L',
			primaryCategories: [
				{hierarchy: [{displayName: {en: 'Drinks'}}]},
			],
		},
	},
	entities: {
		skus: {
			'456': {
				upc: ['00099999'],
				brand: {name: 'Acme'},
				longDescription: 'Orange juice',
				name: 'Juice',
				images: [],
			},
		},
	},
};`

// newCatalogSite serves a two-page listing, two product pages and a
// find-in-store endpoint whose answers depend on the upc and latitude.
func newCatalogSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	page := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = fmt.Fprint(w, body)
		}
	}

	mux.HandleFunc("/listing/1", page(`<html><body>
		<a class="product-link" href="/product/apple">Apple</a>
		<a class="product-link" href="/product/juice">Juice</a>
		<a id="loadmore" href="/listing/2">Load more</a>
	</body></html>`))

	// Last page: repeats a known product, no load-more control.
	mux.HandleFunc("/listing/2", page(`<html><body>
		<a class="product-link" href="/product/apple">Apple</a>
	</body></html>`))

	mux.HandleFunc("/product/apple", page(`<html><head><script>window.dataLayer=[]</script>
		<script>`+appleState+`</script></head><body></body></html>`))
	mux.HandleFunc("/product/juice", page(`<html><head>
		<script>`+juiceState+`</script></head><body></body></html>`))

	mux.HandleFunc("/find-in-store", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		upc := r.URL.Query().Get("upc")
		lat := r.URL.Query().Get("latitude")

		switch {
		case upc == "00012345" && lat == "43.1":
			// Branch 1 carries the apple, a decoy entry comes first.
			fmt.Fprint(w, `{"info":[
				{"id":9,"sellPrice":0.99,"availableToSellQty":1},
				{"id":1,"sellPrice":1.99,"availableToSellQty":40}
			]}`)
		case upc == "00012345":
			// Branch 2 is absent from the list entirely.
			fmt.Fprint(w, `{"info":[{"id":9,"sellPrice":0.99,"availableToSellQty":1}]}`)
		case upc == "00099999" && lat == "43.1":
			// Branch 1 matched but the entry has no price.
			fmt.Fprint(w, `{"info":[{"id":1,"availableToSellQty":5}]}`)
		default:
			fmt.Fprint(w, `{"info":[{"id":2,"sellPrice":3.50,"availableToSellQty":7}]}`)
		}
	})

	return httptest.NewServer(mux)
}

func testConfig(ts *httptest.Server) Config {
	return Config{
		Store:   "Walmart",
		RootURL: ts.URL + "/listing/1",
		APIURL:  ts.URL + "/find-in-store?latitude=%v&longitude=%v&upc=%s",
		Branches: []BranchConfig{
			{ID: 1, Latitude: 43.1, Longitude: -79.1},
			{ID: 2, Latitude: 48.2, Longitude: -89.2},
		},
	}
}

func TestCatalogParse(t *testing.T) {
	ts := newCatalogSite(t)
	defer ts.Close()

	store := &memStore{}
	c := NewCrawler(logger.NewLogger(false), store, nil, testConfig(ts))

	require.NoError(t, c.CatalogParse(context.Background()))

	recs := store.bySKUAndBranch()
	require.Len(t, recs, 2, "one record per successfully enriched (product, branch) pair")

	apple := recs["123/1"]
	require.NotNil(t, apple, "apple should be enriched for branch 1")
	assert.Equal(t, "Walmart", apple.Store)
	assert.Equal(t, 1.99, apple.Price)
	assert.Equal(t, 40, apple.Stock)
	assert.Equal(t, "Fresh fruit", apple.Description)
	assert.Equal(t, "Produce|Fruit", apple.Category)
	assert.Equal(t, "00012345", apple.Barcodes)
	assert.Equal(t, "https://img.example.com/apple.jpg", apple.ImageURLs)
	assert.Equal(t, ts.URL+"/product/apple", apple.SourceURL)

	juice := recs["456/2"]
	require.NotNil(t, juice, "juice should be enriched for branch 2")
	assert.Equal(t, 3.50, juice.Price)
	assert.Equal(t, 7, juice.Stock)
	assert.Equal(t, "Drinks", juice.Category)

	assert.Nil(t, recs["123/2"], "no-match branch emits nothing")
	assert.Nil(t, recs["456/1"], "incomplete entry emits nothing")

	assert.EqualValues(t, 2, c.Emitted())
	assert.EqualValues(t, 2, c.Dropped(), "one no-match drop and one incomplete drop")
}

func TestCatalogParseSkipsBrokenProduct(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/listing/1", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body>
			<a class="product-link" href="/product/broken">Broken</a>
		</body></html>`)
	})
	// No state script at all: the product is dropped, the crawl survives.
	mux.HandleFunc("/product/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><p>new page design</p></body></html>`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := &memStore{}
	c := NewCrawler(logger.NewLogger(false), store, nil, testConfig(ts))

	require.NoError(t, c.CatalogParse(context.Background()))
	assert.Empty(t, store.records())
	assert.EqualValues(t, 1, c.Dropped())
}

func TestProductParse(t *testing.T) {
	ts := newCatalogSite(t)
	defer ts.Close()

	store := &memStore{}
	c := NewCrawler(logger.NewLogger(false), store, nil, testConfig(ts))

	require.NoError(t, c.ProductParse(context.Background(), ts.URL+"/product/apple"))

	recs := store.bySKUAndBranch()
	require.Len(t, recs, 1)
	require.NotNil(t, recs["123/1"])
}

func TestCatalogParseNoRoot(t *testing.T) {
	c := NewCrawler(logger.NewLogger(false), &memStore{}, nil, Config{})
	require.Error(t, c.CatalogParse(context.Background()))
}
