package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"danakita/internal/repository"
	"danakita/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FinancialReportHandler struct {
	reports      *service.ReportService
	transparency *service.TransparencyService
	reportRepo   *repository.ReportRepository
}

func NewFinancialReportHandler(reports *service.ReportService, transparency *service.TransparencyService, reportRepo *repository.ReportRepository) *FinancialReportHandler {
	return &FinancialReportHandler{reports: reports, transparency: transparency, reportRepo: reportRepo}
}

func (h *FinancialReportHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	list, total, err := h.reportRepo.ListPublic(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "total": total, "page": page})
}

// Get returns one report with its computed insights.
func (h *FinancialReportHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid report id"})
		return
	}
	rep, err := h.reports.ReportByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"report":   rep,
		"insights": h.reports.Insights(rep),
	}})
}

func (h *FinancialReportHandler) Transparency(c *gin.Context) {
	view, err := h.transparency.GetTransparencyView(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to build transparency view"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": view})
}

func (h *FinancialReportHandler) MonthlyTrend(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid year"})
		return
	}
	points, err := h.reports.MonthlyTrend(year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to build monthly trend"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": points})
}

func (h *FinancialReportHandler) CampaignBreakdown(c *gin.Context) {
	rows, err := h.reportRepo.CampaignBreakdown()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to build campaign breakdown"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}

// Generate creates a new report snapshot for a period (admin only).
// Dates accept RFC 3339 or plain YYYY-MM-DD.
func (h *FinancialReportHandler) Generate(c *gin.Context) {
	var req struct {
		PeriodStart string `json:"period_start" binding:"required"`
		PeriodEnd   string `json:"period_end" binding:"required"`
		CampaignID  *uint  `json:"campaign_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "period_start and period_end required"})
		return
	}
	start, err := parseDate(req.PeriodStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid period_start"})
		return
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid period_end"})
		return
	}
	rep, err := h.reports.GenerateReport(start, end, req.CampaignID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to generate report"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": rep})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}
