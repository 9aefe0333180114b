package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradebook/internal/domain/dto"
	"github.com/guttosm/tradebook/internal/domain/models"
	"github.com/guttosm/tradebook/internal/middleware"
	"github.com/guttosm/tradebook/internal/report"
	"github.com/guttosm/tradebook/internal/service"
)

const queryDateLayout = "2006-01-02"

// Handler provides HTTP handlers for settled trades and daily reports.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters
//   - Delegate to the settlement service
//   - Translate domain results into response DTOs or rendered reports
type Handler struct {
	svc         service.SettlementService
	defaultDate func() time.Time
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.SettlementService): service used for querying settled data.
//   - defaultDate (func() time.Time): date used when a request omits "date";
//     nil means today in UTC.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.SettlementService, defaultDate func() time.Time) *Handler {
	if defaultDate == nil {
		defaultDate = func() time.Time { return time.Now().UTC() }
	}
	return &Handler{svc: svc, defaultDate: defaultDate}
}

// parseDate reads the optional "date" query parameter as a UTC calendar date.
func (h *Handler) parseDate(c *gin.Context) (time.Time, error) {
	s := strings.TrimSpace(c.Query("date"))
	if s == "" {
		d := h.defaultDate()
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(queryDateLayout, s)
}

// ListTrades handles GET /api/v1/trades requests.
//
// Query Parameters:
//   - date (string, optional): settlement date in YYYY-MM-DD; defaults to the last trading day.
//   - view (string, optional): report section label (e.g. "PEW", "Actual PEW").
//   - type (string, optional): BUY or SELL.
//
// ListTrades godoc
// @Summary      List settled trades
// @Description  Returns the trades settled on a date, optionally filtered by view and side
// @Tags         trades
// @Produce      json
// @Param        date  query     string  false  "Settlement date in YYYY-MM-DD" example(2025-09-15)
// @Param        view  query     string  false  "Report view label" example(PEW)
// @Param        type  query     string  false  "BUY or SELL" example(BUY)
// @Success      200   {object}  dto.TradesResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse   "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse   "Not Found"
// @Failure      500   {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/trades [get]
func (h *Handler) ListTrades(c *gin.Context) {
	date, err := h.parseDate(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD", err)
		return
	}

	var side models.TransactionType
	if s := c.Query("type"); s != "" {
		var ok bool
		if side, ok = models.ParseTransactionType(s); !ok {
			middleware.AbortWithError(c, http.StatusBadRequest, "invalid type, expected BUY or SELL", nil)
			return
		}
	}

	trades, err := h.svc.ListTrades(c.Request.Context(), date, strings.TrimSpace(c.Query("view")))
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to fetch trades", err)
		return
	}

	if side != "" {
		filtered := trades[:0:0]
		for _, t := range trades {
			if t.TransactionType == side {
				filtered = append(filtered, t)
			}
		}
		trades = filtered
	}
	if len(trades) == 0 {
		middleware.AbortWithError(c, http.StatusNotFound, "no trades found", nil)
		return
	}

	c.JSON(http.StatusOK, dto.NewTradesResponse(date.Format(queryDateLayout), trades))
}

// GetReport handles GET /api/v1/report requests.
//
// Query Parameters:
//   - date (string, optional): settlement date in YYYY-MM-DD; defaults to the last trading day.
//   - format (string, optional): "text" (default, the daily file) or "html".
//
// GetReport godoc
// @Summary      Daily settlement report
// @Description  Re-renders the daily settlement file from stored trades
// @Tags         report
// @Produce      plain
// @Produce      html
// @Param        date    query     string  false  "Settlement date in YYYY-MM-DD" example(2025-09-15)
// @Param        format  query     string  false  "text or html" Enums(text, html)
// @Success      200     {string}  string             "Report"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Not Found"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/report [get]
func (h *Handler) GetReport(c *gin.Context) {
	date, err := h.parseDate(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD", err)
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", "text"))
	if format != "text" && format != "html" {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid format, expected text or html", nil)
		return
	}

	doc, err := h.svc.RenderReport(c.Request.Context(), date)
	if errors.Is(err, service.ErrNotSettled) {
		middleware.AbortWithError(c, http.StatusNotFound, "no settlement for date", err)
		return
	}
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to render report", err)
		return
	}

	if format == "text" {
		c.Header("Content-Disposition", `inline; filename="`+date.Format("02-Jan-2006")+`.txt"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc.Report))
		return
	}

	page, err := report.RenderHTML(*doc)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to render report", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
