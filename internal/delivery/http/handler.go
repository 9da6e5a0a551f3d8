package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prodlens/backend/internal/domain"
	"github.com/prodlens/backend/internal/mockdata"
	"github.com/prodlens/backend/internal/usecase"
)

// ProductUsecase is the product behavior the handlers depend on
type ProductUsecase interface {
	Summarize(ctx context.Context, userID string, in domain.ProductInput) (*usecase.SummarizeResult, error)
	Compare(ctx context.Context, userID string, items []domain.ProductInput, criteria domain.Criteria) (*usecase.CompareResult, error)
	Suggest(ctx context.Context, userID string, items []domain.ProductInput, criteria domain.Criteria) (*usecase.CompareResult, error)
	SummaryHistory(ctx context.Context, userID string) ([]domain.ProductSummary, error)
	ComparisonHistory(ctx context.Context, userID string) ([]domain.ProductComparison, error)
}

// Handler holds dependencies for product HTTP handlers
type Handler struct {
	products ProductUsecase
}

// NewHandler creates a new HTTP handler
func NewHandler(products ProductUsecase) *Handler {
	return &Handler{products: products}
}

// rankRequest is the body of compare and suggest calls
type rankRequest struct {
	Items    []domain.ProductInput `json:"items"`
	Criteria domain.Criteria       `json:"criteria"`
}

// suggestResponse trims a comparison down to the best pick
type suggestResponse struct {
	ID       string                 `json:"id"`
	Best     *domain.BestPick       `json:"best"`
	Compared []domain.ScoredProduct `json:"compared"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ping answers the product route liveness probe
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "route": "products"})
}

// Summarize handles POST /api/products/summarize. An empty body is a manual
// item with every field defaulted.
func (h *Handler) Summarize(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.products.Summarize(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		respondError(c, err, msgSummarizeFailed)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Compare handles POST /api/products/compare
func (h *Handler) Compare(c *gin.Context) {
	req, ok := bindRankRequest(c, usecase.MinCompareItems, msgNeedTwoProducts)
	if !ok {
		return
	}

	result, err := h.products.Compare(c.Request.Context(), currentUserID(c), req.Items, req.Criteria)
	if err != nil {
		respondRankError(c, err, msgNeedTwoProducts, msgCompareFailed)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Suggest handles POST /api/products/suggest
func (h *Handler) Suggest(c *gin.Context) {
	req, ok := bindRankRequest(c, usecase.MinSuggestItems, msgNeedOneProduct)
	if !ok {
		return
	}

	result, err := h.products.Suggest(c.Request.Context(), currentUserID(c), req.Items, req.Criteria)
	if err != nil {
		respondRankError(c, err, msgNeedOneProduct, msgSuggestFailed)
		return
	}
	c.JSON(http.StatusOK, suggestResponse{
		ID:       result.ID,
		Best:     result.Summary.Best,
		Compared: result.Compared,
	})
}

// Mock returns the embedded demo products
func (h *Handler) Mock(c *gin.Context) {
	products, err := mockdata.Products()
	if err != nil {
		respondError(c, err, msgMockProductsMissing)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// SummaryHistory lists the caller's summaries, newest first
func (h *Handler) SummaryHistory(c *gin.Context) {
	items, err := h.products.SummaryHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondHistoryError(c, err, msgLoadSummaries)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ComparisonHistory lists the caller's comparisons, newest first
func (h *Handler) ComparisonHistory(c *gin.Context) {
	items, err := h.products.ComparisonHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondHistoryError(c, err, msgLoadComparisons)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// bindRankRequest decodes the body and enforces the item minimum before any
// normalization starts. A malformed body counts as an empty item list.
func bindRankRequest(c *gin.Context, minItems int, tooFew string) (rankRequest, bool) {
	var req rankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = rankRequest{}
	}
	if len(req.Items) < minItems {
		respondMessage(c, http.StatusBadRequest, tooFew)
		return req, false
	}
	return req, true
}

func respondRankError(c *gin.Context, err error, tooFew, failed string) {
	if errors.Is(err, domain.ErrValidation) {
		respondMessage(c, http.StatusBadRequest, tooFew)
		return
	}
	requestLogger(c).Warn("ranking failed", zap.Error(err))
	respondMessage(c, http.StatusInternalServerError, failed)
}

func respondHistoryError(c *gin.Context, err error, failed string) {
	if errors.Is(err, domain.ErrUnauthorized) {
		respondMessage(c, http.StatusUnauthorized, msgNoToken)
		return
	}
	requestLogger(c).Error("history lookup failed", zap.Error(err))
	respondMessage(c, http.StatusInternalServerError, failed)
}
