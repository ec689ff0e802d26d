package cawalmart

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"grocery-catalog-crawlers/pkg/crawlers"
	"grocery-catalog-crawlers/pkg/db"
	"grocery-catalog-crawlers/pkg/logger"
	"grocery-catalog-crawlers/pkg/rabbitmq"
	"grocery-catalog-crawlers/pkg/session"

	"github.com/gocolly/colly/v2"
)

const ctxKeyCrawl = "crawl"

// RecordStore receives every complete record. Bare records never reach it.
type RecordStore interface {
	SaveRecord(ctx context.Context, rec *db.CatalogRecord) error
}

type Crawler struct {
	logger    logger.Logger
	collector *colly.Collector
	store     RecordStore
	rmq       *rabbitmq.Client
	cfg       Config

	emitted atomic.Int64
	dropped atomic.Int64
}

var _ crawlers.Crawlerer = (*Crawler)(nil)

// NewCrawler builds a crawler around the given configuration. The rabbitmq
// client is optional: when present, discovered product pages are published
// as tasks instead of followed inline.
func NewCrawler(lg logger.Logger, store RecordStore, rmq *rabbitmq.Client, cfg Config) *Crawler {
	cfg = cfg.withDefaults()

	opts := []colly.CollectorOption{
		colly.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36"),
		colly.IgnoreRobotsTxt(),
		colly.Async(true),
	}
	if len(cfg.AllowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(cfg.AllowedDomains...))
	}
	collector := colly.NewCollector(opts...)

	_ = collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 8,
		Delay:       100 * time.Millisecond,
		RandomDelay: 50 * time.Millisecond,
	})
	collector.SetRequestTimeout(30 * time.Second)

	if len(cfg.Proxies) > 0 {
		switcher, err := session.RoundRobinProxy(cfg.Proxies...)
		if err != nil {
			lg.Errorf("Proxy setup failed - %v", err)
		} else {
			collector.SetProxyFunc(switcher)
		}
	}

	c := &Crawler{
		logger:    lg,
		collector: collector,
		store:     store,
		rmq:       rmq,
		cfg:       cfg,
	}

	if cfg.CookieFile != "" {
		cookies, err := session.LoadCookies(cfg.CookieFile)
		if err != nil {
			lg.Errorf("Load cookies failed - %v", err)
		} else if err := collector.SetCookies(cfg.RootURL, cookies); err != nil {
			lg.Errorf("Set cookies failed - %v", err)
		}
	}

	return c
}

// Emitted reports how many records were handed to the store so far.
func (c *Crawler) Emitted() int64 { return c.emitted.Load() }

// Dropped reports how many products or (product, branch) units were dropped.
func (c *Crawler) Dropped() int64 { return c.dropped.Load() }

// CatalogParse crawls the configured listing root: follows every discovered
// product link, follows the load-more control until a page has none, and
// fans each parsed product out to every configured branch. Already visited
// locations are never followed twice within a run.
func (c *Crawler) CatalogParse(ctx context.Context) error {
	if c.cfg.RootURL == "" {
		return errors.New("no listing root configured")
	}

	listing := c.collector.Clone()
	products := c.collector.Clone()
	api := c.collector.Clone()

	listing.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		c.logger.Printf("Listing url - %s", r.URL.String())
	})

	listing.OnHTML(`a.product-link`, func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" {
			return
		}
		if c.rmq != nil {
			task := &rabbitmq.Task{Store: c.cfg.Store, URL: link}
			if err := c.rmq.PublishTask(ctx, rabbitmq.ProductQueue, task); err != nil {
				c.logger.Errorf("Publish product task failed %s - %v", link, err)
			}
			return
		}
		if err := products.Visit(link); err != nil && !errors.As(err, new(*colly.AlreadyVisitedError)) {
			c.logger.Errorf("Visit product failed %s - %v", link, err)
		}
	})

	// Pagination is sequential by nature, the next page is only knowable
	// from the current response.
	listing.OnHTML(`a#loadmore`, func(e *colly.HTMLElement) {
		next := e.Request.AbsoluteURL(e.Attr("href"))
		if next == "" {
			return
		}
		if err := listing.Visit(next); err != nil && !errors.As(err, new(*colly.AlreadyVisitedError)) {
			c.logger.Errorf("Visit next page failed %s - %v", next, err)
		}
	})

	listing.OnError(func(r *colly.Response, err error) {
		c.logger.Errorf("Listing request failed %s - %v", r.Request.URL, err)
	})

	c.productHandlers(ctx, products, api)
	c.apiHandlers(ctx, api)

	if err := listing.Visit(c.cfg.RootURL); err != nil {
		return fmt.Errorf("visit listing root: %w", err)
	}

	listing.Wait()
	products.Wait()
	api.Wait()

	c.logger.Printf("Catalog crawl finished - emitted %d, dropped %d", c.Emitted(), c.Dropped())
	return nil
}

// ProductParse handles a single product page outside a listing walk.
func (c *Crawler) ProductParse(ctx context.Context, url string) error {
	products := c.collector.Clone()
	api := c.collector.Clone()

	c.productHandlers(ctx, products, api)
	c.apiHandlers(ctx, api)

	if err := products.Visit(url); err != nil {
		return fmt.Errorf("visit product page: %w", err)
	}
	products.Wait()
	api.Wait()
	return nil
}

func (c *Crawler) productHandlers(ctx context.Context, products, api *colly.Collector) {
	products.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		c.logger.Printf("Product url - %s", r.URL.String())
	})

	products.OnHTML(`script`, func(e *colly.HTMLElement) {
		if !HasStateMarker(e.Text) {
			return
		}
		u := e.Request.URL.String()
		e.Request.Ctx.Put("state_seen", "1")

		state, err := DecodeState(e.Text)
		if err != nil {
			c.drop(u, &ExtractionError{URL: u, Err: err})
			return
		}
		rec, err := BuildRecord(state, u, c.cfg)
		if err != nil {
			c.drop(u, err)
			return
		}
		c.enrich(ctx, api, rec)
	})

	// No script carried the marker at all: page shape changed.
	products.OnScraped(func(r *colly.Response) {
		if r.Ctx.Get("state_seen") == "" {
			u := r.Request.URL.String()
			c.drop(u, &ExtractionError{URL: u, Err: ErrStateMarkerNotFound})
		}
	})

	products.OnError(func(r *colly.Response, err error) {
		c.drop(r.Request.URL.String(), err)
	})
}

// enrich spawns one branch lookup per configured branch. Each request
// carries its own deep copy of the bare record so concurrent lookups stay
// independent.
func (c *Crawler) enrich(ctx context.Context, api *colly.Collector, bare *Record) {
	key := bare.CanonicalBarcode()
	if key == "" {
		c.drop(bare.SourceURL, fmt.Errorf("sku %q has no barcode to look up", bare.SKU))
		return
	}

	for _, branch := range c.cfg.Branches {
		if ctx.Err() != nil {
			return
		}
		cctx := &CrawlContext{Record: bare.Clone(), Branch: branch}
		u := fmt.Sprintf(c.cfg.APIURL, branch.Latitude, branch.Longitude, key)

		rctx := colly.NewContext()
		rctx.Put(ctxKeyCrawl, cctx)
		if err := api.Request("GET", u, nil, rctx, nil); err != nil && !errors.As(err, new(*colly.AlreadyVisitedError)) {
			c.drop(u, err)
		}
	}
}

func (c *Crawler) apiHandlers(ctx context.Context, api *colly.Collector) {
	api.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		c.logger.Printf("Availability url - %s", r.URL.String())
	})

	api.OnResponse(func(r *colly.Response) {
		cctx, ok := r.Ctx.GetAny(ctxKeyCrawl).(*CrawlContext)
		if !ok {
			return
		}
		rec, err := ResolveAvailability(cctx, r.Body)
		if err != nil {
			c.drop(r.Request.URL.String(), err)
			return
		}
		if err := c.store.SaveRecord(ctx, rec.Model(c.cfg.BarcodeSep)); err != nil {
			c.logger.Errorf("Save record failed sku %s branch %d - %v", rec.SKU, rec.BranchID, err)
			return
		}
		c.emitted.Add(1)
		c.logger.Printf("Emitted sku %s branch %d", rec.SKU, rec.BranchID)
	})

	api.OnError(func(r *colly.Response, err error) {
		c.drop(r.Request.URL.String(), err)
	})
}

func (c *Crawler) drop(url string, err error) {
	c.dropped.Add(1)
	c.logger.Errorf("Dropped %s - %v", url, err)
}
