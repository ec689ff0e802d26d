package cawalmart

import (
	"context"
	"net/http"

	"grocery-catalog-crawlers/pkg/db"
	"grocery-catalog-crawlers/pkg/logger"
	"grocery-catalog-crawlers/pkg/rabbitmq"

	"github.com/labstack/echo/v4"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

type Server struct {
	logger  logger.Logger
	repo    *db.CatalogRepo
	rmq     *rabbitmq.Client
	crawler *Crawler
}

func NewServer(lg logger.Logger, repo *db.CatalogRepo, rmq *rabbitmq.Client, crawler *Crawler) *Server {
	return &Server{
		logger:  lg,
		repo:    repo,
		rmq:     rmq,
		crawler: crawler,
	}
}

// Crawl запускает полный обход каталога
// @Summary Crawl the configured catalog listing
// @Description Walks the listing root, parses every product and enriches it per branch
// @Tags cawalmart
// @Accept json
// @Produce json
// @Success 200 {object} Response
// @Router /api/cawalmart/crawl [post]
func (s *Server) Crawl(c echo.Context) error {
	if err := s.crawler.CatalogParse(context.Background()); err != nil {
		return c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Catalog crawl finished",
	})
}

// CrawlProduct ставит в очередь разбор одной страницы товара
// @Summary Parse a single product page
// @Description Enqueues the page when a queue is configured, parses inline otherwise
// @Tags cawalmart
// @Accept json
// @Produce json
// @Param url query string true "Product page URL"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /api/cawalmart/crawl-product [post]
func (s *Server) CrawlProduct(c echo.Context) error {
	u := c.QueryParam("url")
	if u == "" {
		return c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: "url query parameter is required",
		})
	}

	if s.rmq != nil {
		task := &rabbitmq.Task{Store: s.crawler.cfg.Store, URL: u}
		if err := s.rmq.PublishTask(c.Request().Context(), rabbitmq.ProductQueue, task); err != nil {
			return c.JSON(http.StatusInternalServerError, Response{
				Success: false,
				Message: err.Error(),
			})
		}
		return c.JSON(http.StatusOK, Response{
			Success: true,
			Message: "Product task enqueued",
		})
	}

	if err := s.crawler.ProductParse(c.Request().Context(), u); err != nil {
		return c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Product parsed",
	})
}

// Records возвращает количество сохраненных записей каталога
// @Summary Count emitted catalog records
// @Tags cawalmart
// @Produce json
// @Success 200 {object} Response
// @Router /api/cawalmart/records [get]
func (s *Server) Records(c echo.Context) error {
	count, err := s.repo.CountRecords(c.Request().Context(), s.crawler.cfg.Store)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "ok",
		Count:   count,
	})
}
