package api

import (
	"errors"
	"log"
	"net/http"

	"FareSentinel/internal/calculator"
	"FareSentinel/internal/collector"
	"FareSentinel/internal/model"
	"FareSentinel/internal/notifier"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CompareRequest carries two months of caller-supplied cells.
type CompareRequest struct {
	Current []model.PriceCell `json:"current"`
	Next    []model.PriceCell `json:"next"`
}

// ComparisonResponse is the JSON shape for a comparison and its rendered text.
type ComparisonResponse struct {
	Comparison  *model.Comparison `json:"comparison"`
	CurrentText string            `json:"current_text"`
	NextText    string            `json:"next_text"`
	VerdictText string            `json:"verdict_text"`
	Report      string            `json:"report"`
}

// Handler serves fare comparisons over HTTP.
type Handler struct {
	Collector *collector.Collector
	Parser    *calculator.PriceParser
	Formatter notifier.Formatter
}

// NewRouter builds the gin engine. col may be nil, in which case only caller-supplied comparisons are served.
func NewRouter(col *collector.Collector, parser *calculator.PriceParser, f notifier.Formatter) *gin.Engine {
	if parser == nil {
		parser = calculator.NewPriceParser()
	}
	h := &Handler{Collector: col, Parser: parser, Formatter: f}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1 := r.Group("/api/v1")
	v1.GET("/comparison", h.Comparison)
	v1.POST("/compare", h.Compare)
	return r
}

// WithCORS wraps the router with CORS handling for the given origins (all origins when empty).
func WithCORS(r http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return cors.AllowAll().Handler(r)
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)
}

// Comparison handles GET /api/v1/comparison by reading the configured calendar source.
func (h *Handler) Comparison(c *gin.Context) {
	if h.Collector == nil {
		writeError(c, http.StatusServiceUnavailable, "NO_SOURCE", "no calendar source configured")
		return
	}
	cmp, err := h.Collector.Collect(c.Request.Context())
	if err != nil {
		if errors.Is(err, collector.ErrInvalidMonthIndex) {
			log.Printf("[ERROR] comparison: %v", err)
			writeError(c, http.StatusInternalServerError, "INVALID_MONTH_INDEX", err.Error())
			return
		}
		log.Printf("[WARN] comparison: %v", err)
		writeError(c, http.StatusBadGateway, "SOURCE_UNAVAILABLE", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.respond(cmp))
}

// Compare handles POST /api/v1/compare over caller-supplied cells.
func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	c.JSON(http.StatusOK, h.respond(calculator.CompareMonths(h.Parser, req.Current, req.Next)))
}

func (h *Handler) respond(cmp *model.Comparison) ComparisonResponse {
	return ComparisonResponse{
		Comparison:  cmp,
		CurrentText: h.Formatter.FormatResult(cmp.Current),
		NextText:    h.Formatter.FormatResult(cmp.Next),
		VerdictText: h.Formatter.FormatVerdict(cmp),
		Report:      h.Formatter.FormatReport(cmp),
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
