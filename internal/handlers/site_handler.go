package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "aidat/internal/errors"
	"aidat/internal/pagination"
	"aidat/internal/services"
)

// SiteHandler handles site-related requests.
type SiteHandler struct {
	siteService  services.SiteServicer
	auditService services.AuditServicer
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(siteService services.SiteServicer, auditService services.AuditServicer) *SiteHandler {
	return &SiteHandler{siteService: siteService, auditService: auditService}
}

// CreateSiteRequest represents the request payload for creating a site.
type CreateSiteRequest struct {
	Name              string `json:"name" binding:"required,min=1,max=100"`
	Description       string `json:"description" binding:"max=500"`
	ReportingCurrency string `json:"reporting_currency" binding:"omitempty,iso4217"`
}

// UpdateSiteRequest represents the request payload for updating a site.
// The reporting currency is fixed at creation and cannot be changed here.
type UpdateSiteRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// CreateSite handles the creation of a new site
// @Summary     Create a site
// @Description Create a new residential site with its reporting currency
// @Tags        sites
// @Accept      json
// @Produce     json
// @Param       request body CreateSiteRequest true "Site details"
// @Success     201 {object} models.Site "Site created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites [post]
func (h *SiteHandler) CreateSite(c *gin.Context) {
	var req CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	site, err := h.siteService.CreateSite(req.Name, req.Description, req.ReportingCurrency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(site.ID, "CREATE_SITE", "site", site.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "reporting_currency": site.ReportingCurrency})

	c.JSON(http.StatusCreated, gin.H{"site": site})
}

// GetSites handles the retrieval of all sites
// @Summary     List sites
// @Description Get a paginated list of sites
// @Tags        sites
// @Accept      json
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Site] "Paginated sites"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites [get]
func (h *SiteHandler) GetSites(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.siteService.GetSites(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSiteByID handles the retrieval of a specific site
// @Summary     Get site by ID
// @Description Get a specific site by ID
// @Tags        sites
// @Accept      json
// @Produce     json
// @Param       id path int true "Site ID"
// @Success     200 {object} models.Site "Site details"
// @Failure     400 {object} ErrorResponse "Invalid site ID"
// @Failure     404 {object} ErrorResponse "Site not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id} [get]
func (h *SiteHandler) GetSiteByID(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	site, err := h.siteService.GetSiteByID(siteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"site": site})
}

// UpdateSite handles updating a site's details
// @Summary     Update site
// @Description Update a site's name and description. The reporting currency is immutable.
// @Tags        sites
// @Accept      json
// @Produce     json
// @Param       id path int true "Site ID"
// @Param       request body UpdateSiteRequest true "Updated site details"
// @Success     200 {object} models.Site "Updated site"
// @Failure     400 {object} ErrorResponse "Invalid input or site ID"
// @Failure     404 {object} ErrorResponse "Site not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id} [put]
func (h *SiteHandler) UpdateSite(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	site, err := h.siteService.UpdateSite(siteID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "UPDATE_SITE", "site", siteID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"site": site})
}
