package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "aidat/internal/errors"
	"aidat/internal/pagination"
	"aidat/internal/services"
)

// FiscalPeriodHandler handles fiscal-period requests.
type FiscalPeriodHandler struct {
	periodService services.FiscalPeriodServicer
	auditService  services.AuditServicer
}

// NewFiscalPeriodHandler creates a new FiscalPeriodHandler.
func NewFiscalPeriodHandler(periodService services.FiscalPeriodServicer, auditService services.AuditServicer) *FiscalPeriodHandler {
	return &FiscalPeriodHandler{periodService: periodService, auditService: auditService}
}

// CreatePeriodRequest represents the request payload for creating a fiscal period.
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// CreatePeriod handles the creation of a new fiscal period
// @Summary     Create a fiscal period
// @Description Create a new fiscal period for a site. Periods are labels for filtering the ledger, never replay boundaries.
// @Tags        periods
// @Accept      json
// @Produce     json
// @Param       id      path int                 true "Site ID"
// @Param       request body CreatePeriodRequest true "Fiscal period details"
// @Success     201 {object} models.FiscalPeriod "Period created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Site not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/periods [post]
func (h *FiscalPeriodHandler) CreatePeriod(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, err := parseDate("start_date", req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseDate("end_date", req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := h.periodService.CreatePeriod(siteID, req.Name, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "CREATE_PERIOD", "fiscal_period", period.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"period": period})
}

// GetSitePeriods handles the retrieval of a site's fiscal periods
// @Summary     List fiscal periods
// @Description Get a paginated list of fiscal periods for a site
// @Tags        periods
// @Accept      json
// @Produce     json
// @Param       id        path  int true  "Site ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.FiscalPeriod] "Paginated periods"
// @Failure     404 {object} ErrorResponse "Site not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/periods [get]
func (h *FiscalPeriodHandler) GetSitePeriods(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.periodService.GetSitePeriods(siteID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPeriodByID handles the retrieval of a specific fiscal period
// @Summary     Get fiscal period by ID
// @Description Get a specific fiscal period by ID for a site
// @Tags        periods
// @Accept      json
// @Produce     json
// @Param       id        path int true "Site ID"
// @Param       period_id path int true "Fiscal period ID"
// @Success     200 {object} models.FiscalPeriod "Period details"
// @Failure     400 {object} ErrorResponse "Invalid period ID"
// @Failure     404 {object} ErrorResponse "Period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/periods/{period_id} [get]
func (h *FiscalPeriodHandler) GetPeriodByID(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "period_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := h.periodService.GetPeriodByID(siteID, periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": period})
}
