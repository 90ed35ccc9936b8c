package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/dto"
)

const welcomeMessage = "Welcome to the Daily Motivational Quotes API"

// IndexHandler serves the root documentation payload and /health.
type IndexHandler struct {
	documentation string
}

// NewIndexHandler creates an index handler that links to documentationURL.
func NewIndexHandler(documentationURL string) *IndexHandler {
	return &IndexHandler{documentation: documentationURL}
}

// Index handles GET /.
func (h *IndexHandler) Index(c *gin.Context) {
	dto.Write(c, http.StatusOK, dto.NewSuccess(dto.IndexResponse{
		Message: welcomeMessage,
		Endpoints: map[string]string{
			"health":           "/health",
			"random_quote":     "/api/v1/quote",
			"quote_of_the_day": "/api/v1/qotd",
			"list_quotes":      "/api/v1/quotes",
		},
		Documentation: h.documentation,
	}, ""))
}

// Health handles GET /health. It always answers 200.
func (h *IndexHandler) Health(c *gin.Context) {
	dto.Write(c, http.StatusOK, dto.NewSuccess(dto.HealthResponse{Status: "ok"}, ""))
}
