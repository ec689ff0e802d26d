package app

import (
	"context"

	"grocery-catalog-crawlers/pkg/api"
	"grocery-catalog-crawlers/pkg/crawlers/cawalmart"
	"grocery-catalog-crawlers/pkg/db"
	"grocery-catalog-crawlers/pkg/ingestion"
	"grocery-catalog-crawlers/pkg/logger"
	"grocery-catalog-crawlers/pkg/rabbitmq"

	"github.com/go-pg/pg/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type Config struct {
	Walmart   cawalmart.Config
	Ingestion ingestion.Config
}

type App struct {
	db *db.DB
	logger.Logger

	catalogRepo *db.CatalogRepo
	richartRepo *db.RichartRepo

	rmq *rabbitmq.Client

	Walmart  *cawalmart.Crawler
	Ingestor *ingestion.Ingestor

	walmartServer *cawalmart.Server
	ingestServer  *ingestion.Server
}

func New(dbc *pg.DB, lg logger.Logger, rmq *rabbitmq.Client, cfg Config) *App {
	a := App{
		db:     db.New(dbc, lg),
		Logger: lg,
		rmq:    rmq,
	}

	a.catalogRepo = db.NewCatalogRepo(a.db)
	a.richartRepo = db.NewRichartRepo(a.db)

	a.Walmart = cawalmart.NewCrawler(lg, a.catalogRepo, rmq, cfg.Walmart)
	a.Ingestor = ingestion.NewIngestor(lg, a.richartRepo, cfg.Ingestion)

	a.walmartServer = cawalmart.NewServer(lg, a.catalogRepo, rmq, a.Walmart)
	a.ingestServer = ingestion.NewServer(lg, a.Ingestor)

	return &a
}

// ConsumeProductTasks blocks feeding queued product pages to the crawler.
// No-op without a queue client.
func (a *App) ConsumeProductTasks(ctx context.Context) error {
	if a.rmq == nil {
		return nil
	}
	return a.rmq.ConsumeTasks(ctx, rabbitmq.ProductQueue, func(t *rabbitmq.Task) error {
		return a.Walmart.ProductParse(ctx, t.URL)
	})
}

// Serve starts the control API.
func (a *App) Serve(addr string) error {
	api.SwaggerInfo()

	e := echo.New()
	e.HideBanner = true
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	g := e.Group("/api")
	g.POST("/cawalmart/crawl", a.walmartServer.Crawl)
	g.POST("/cawalmart/crawl-product", a.walmartServer.CrawlProduct)
	g.GET("/cawalmart/records", a.walmartServer.Records)
	g.POST("/richart/ingest", a.ingestServer.Ingest)

	return e.Start(addr)
}
