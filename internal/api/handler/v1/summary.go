package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidmood/kidmood-api/internal/api/handler/v1/response"
	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/service"
)

type SummaryService interface {
	Summarize(ctx context.Context, identity domain.Identity, from, to time.Time) domain.Summary
	CSV(ctx context.Context, identity domain.Identity, from, to time.Time) ([]byte, error)
	Text(ctx context.Context, identity domain.Identity, from, to time.Time) service.SummaryText
}

type SummaryHandler struct {
	svc SummaryService
}

func NewSummaryHandler(svc SummaryService) *SummaryHandler {
	return &SummaryHandler{
		svc: svc,
	}
}

// HandleWeeklySummary godoc
// @Summary      Aggregate the caller's scope into buckets and a time series
// @Tags         summary
// @Produce      json
// @Security     BearerAuth
// @Param        from   query     string false "start date (YYYY-MM-DD or RFC3339)"
// @Param        to     query     string false "end date (YYYY-MM-DD or RFC3339)"
// @Success      200    {object}  domain.Summary
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Router       /summary/weekly [get]
func (h *SummaryHandler) HandleWeeklySummary(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	from, to, err := dateRangeFromQuery(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ctx.JSON(http.StatusOK, h.svc.Summarize(ctx.Request.Context(), identity, from, to))
}

// HandleSummaryText godoc
// @Summary      Prose summary of the caller's scope
// @Tags         summary
// @Produce      json
// @Security     BearerAuth
// @Param        from   query     string false "start date (YYYY-MM-DD or RFC3339)"
// @Param        to     query     string false "end date (YYYY-MM-DD or RFC3339)"
// @Success      200    {object}  service.SummaryText
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Router       /summary/text [get]
func (h *SummaryHandler) HandleSummaryText(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	from, to, err := dateRangeFromQuery(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ctx.JSON(http.StatusOK, h.svc.Text(ctx.Request.Context(), identity, from, to))
}

// HandleCSVExport godoc
// @Summary      Export the caller's time series as CSV
// @Tags         summary
// @Produce      text/csv
// @Security     BearerAuth
// @Param        from   query     string false "start date (YYYY-MM-DD or RFC3339)"
// @Param        to     query     string false "end date (YYYY-MM-DD or RFC3339)"
// @Success      200    {string}  string
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Router       /summary/export.csv [get]
func (h *SummaryHandler) HandleCSVExport(ctx *gin.Context) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return
	}

	from, to, err := dateRangeFromQuery(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	csvData, err := h.svc.CSV(ctx.Request.Context(), identity, from, to)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="checkins.csv"`)
	ctx.Data(http.StatusOK, "text/csv", csvData)
}
