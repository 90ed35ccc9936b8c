package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/dto"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/app"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/domain"
)

// Failure messages the quote endpoints produce themselves.
const (
	msgPagingNotIntegers = "limit and offset must be integers"
	msgTextAuthorNeeded  = "text and author are required"
	msgInvalidBody       = "request body must be a JSON object"
	msgBlankFields       = "text and author must not be blank"
	msgQuoteDeleted      = "Quote deleted"
)

// DefaultListLimit is the page size used when a request omits limit.
const DefaultListLimit = 10

// QuoteService is the part of app.QuoteService the handlers use.
type QuoteService interface {
	Random(ctx context.Context) (*domain.Quote, error)
	QuoteOfTheDay(ctx context.Context) (*domain.Quote, error)
	List(ctx context.Context, limit, offset int) (*app.QuotePage, error)
	Get(ctx context.Context, id int64) (*domain.Quote, error)
	Create(ctx context.Context, draft domain.QuoteDraft) (*domain.Quote, error)
	Update(ctx context.Context, id int64, patch domain.QuotePatch) (*domain.Quote, error)
	Delete(ctx context.Context, id int64) error
}

// QuoteHandler handles the /api/v1 quote endpoints.
type QuoteHandler struct {
	service      QuoteService
	defaultLimit int
}

// NewQuoteHandler creates a quote handler. A defaultLimit below 1 falls
// back to DefaultListLimit.
func NewQuoteHandler(service QuoteService, defaultLimit int) *QuoteHandler {
	if defaultLimit < 1 {
		defaultLimit = DefaultListLimit
	}

	return &QuoteHandler{
		service:      service,
		defaultLimit: defaultLimit,
	}
}

// Random handles GET /api/v1/quote.
func (h *QuoteHandler) Random(c *gin.Context) {
	h.single(c, h.service.Random)
}

// QuoteOfTheDay handles GET /api/v1/qotd.
func (h *QuoteHandler) QuoteOfTheDay(c *gin.Context) {
	h.single(c, h.service.QuoteOfTheDay)
}

func (h *QuoteHandler) single(c *gin.Context, fetch func(context.Context) (*domain.Quote, error)) {
	quote, err := fetch(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	dto.Write(c, http.StatusOK, dto.NewSuccess(dto.FromQuote(quote), ""))
}

// List handles GET /api/v1/quotes?limit=&offset=.
func (h *QuoteHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if err := dto.BindQuery(c, &query); err != nil {
		dto.Fail(c, dto.ErrorCodeValidation, msgPagingNotIntegers)
		return
	}

	limit, offset := query.Resolve(h.defaultLimit)

	page, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	dto.Write(c, http.StatusOK, dto.NewSuccess(
		dto.NewQuoteList(page.Quotes, page.Total, page.Limit, page.Offset), ""))
}

// Get handles GET /api/v1/quotes/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	quote, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	dto.Write(c, http.StatusOK, dto.NewSuccess(dto.FromQuote(quote), ""))
}

// Create handles POST /api/v1/quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.Write(c, http.StatusBadRequest,
			dto.NewFailure(dto.ErrorCodeValidation, msgTextAuthorNeeded, detailsOrNil(err)))

		return
	}

	quote, err := h.service.Create(c.Request.Context(), req.Draft())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	dto.Write(c, http.StatusCreated, dto.NewSuccess(dto.FromQuote(quote), ""))
}

// Update handles PUT /api/v1/quotes/:id. Absent fields keep their value.
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req dto.UpdateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		msg := msgInvalidBody
		details := detailsOrNil(err)
		if details != nil {
			msg = msgBlankFields
		}

		dto.Write(c, http.StatusBadRequest, dto.NewFailure(dto.ErrorCodeValidation, msg, details))

		return
	}

	quote, err := h.service.Update(c.Request.Context(), id, req.Patch())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	dto.Write(c, http.StatusOK, dto.NewSuccess(dto.FromQuote(quote), ""))
}

// Delete handles DELETE /api/v1/quotes/:id.
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	dto.Write(c, http.StatusOK, dto.NewSuccess(dto.DeleteResponse{ID: id, Message: msgQuoteDeleted}, ""))
}

// RegisterReadRoutes registers the public quote routes.
func (h *QuoteHandler) RegisterReadRoutes(rg gin.IRoutes) {
	rg.GET("/quote", h.Random)
	rg.GET("/qotd", h.QuoteOfTheDay)
	rg.GET("/quotes", h.List)
	rg.GET("/quotes/:id", h.Get)
}

// RegisterAdminRoutes registers the quote routes that modify the collection.
func (h *QuoteHandler) RegisterAdminRoutes(rg gin.IRoutes) {
	rg.POST("/quotes", h.Create)
	rg.PUT("/quotes/:id", h.Update)
	rg.DELETE("/quotes/:id", h.Delete)
}

// quoteID parses the :id path parameter. On failure it writes the 400
// response and returns false.
func quoteID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		dto.HandleError(c, domain.NewValidationErrorWithValue("id", "must be a positive integer", raw))
		return 0, false
	}

	return id, true
}

func detailsOrNil(err error) map[string]string {
	details := dto.ValidationErrors(err)
	if len(details) == 0 {
		return nil
	}

	return details
}
