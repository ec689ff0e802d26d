package ingestion

import (
	"net/http"

	"grocery-catalog-crawlers/pkg/logger"

	"github.com/labstack/echo/v4"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Server struct {
	logger   logger.Logger
	ingestor *Ingestor
}

func NewServer(lg logger.Logger, ingestor *Ingestor) *Server {
	return &Server{logger: lg, ingestor: ingestor}
}

// Ingest запускает загрузку плоских файлов
// @Summary Ingest the flat product and prices files
// @Tags ingestion
// @Accept json
// @Produce json
// @Success 200 {object} Response
// @Router /api/richart/ingest [post]
func (s *Server) Ingest(c echo.Context) error {
	if err := s.ingestor.Run(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Ingestion finished",
	})
}
