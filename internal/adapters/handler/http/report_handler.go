package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
)

type ReportHandler struct {
	svc *services.ReportService
}

func NewReportHandler(svc *services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// RegisterRoutes mounts the report endpoints. The static /habits/report
// path wins over /habits/:id.
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/habits/report", h.Weekly)

	reports := router.Group("/reports")
	{
		reports.GET("", h.ListArchived)
		reports.GET("/:date", h.GetArchived)
	}
}

func (h *ReportHandler) Weekly(c *gin.Context) {
	var ref *domain.Date
	if raw := c.Query("date"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		ref = &d
	}

	batch, err := h.svc.GenerateWeekly(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report":      batch.Reports,
		"report_date": batch.ReportDate,
	})
}

func (h *ReportHandler) ListArchived(c *gin.Context) {
	dates, err := h.svc.ArchivedDates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dates": dates,
		"total": len(dates),
	})
}

func (h *ReportHandler) GetArchived(c *gin.Context) {
	date, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	batch, err := h.svc.Archived(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, batch)
}
