package crawlers

import "context"

type (
	// Crawlerer is the common interface for store catalog crawlers.
	Crawlerer interface {
		// CatalogParse walks a category listing root to exhaustion and
		// persists one record per enriched (product, branch) pair.
		CatalogParse(ctx context.Context) error
		// ProductParse handles a single product page, typically a task
		// taken off the queue.
		ProductParse(ctx context.Context, url string) error
	}
)
