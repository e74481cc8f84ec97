package services

import (
	"errors"

	"gorm.io/gorm"

	"aidat/internal/config"
	apperrors "aidat/internal/errors"
	"aidat/internal/models"
	"aidat/internal/pagination"
)

// siteService handles site-related business logic.
type siteService struct {
	db *gorm.DB
}

// NewSiteService creates a new SiteServicer.
func NewSiteService(db *gorm.DB) SiteServicer {
	return &siteService{db: db}
}

// CreateSite creates a new managed site.
func (s *siteService) CreateSite(name, description, reportingCurrency string) (*models.Site, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "site name is required")
	}

	if reportingCurrency == "" {
		reportingCurrency = config.Get().DefaultReportingCurrency
	}

	site := &models.Site{
		Name:              name,
		Description:       description,
		ReportingCurrency: reportingCurrency,
	}

	if err := s.db.Create(site).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return site, nil
}

// GetSites retrieves a paginated list of sites.
func (s *siteService) GetSites(page pagination.PageRequest) (*pagination.PageResponse[models.Site], error) {
	page.Defaults()

	base := s.db.Model(&models.Site{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var sites []models.Site
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&sites).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(sites, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetSiteByID retrieves a site by ID.
func (s *siteService) GetSiteByID(siteID uint) (*models.Site, error) {
	var site models.Site
	if err := s.db.First(&site, siteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSiteNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &site, nil
}

// UpdateSite updates a site's name and description. The reporting currency
// is immutable after creation: changing it would silently re-denominate
// every historical reporting amount.
func (s *siteService) UpdateSite(siteID uint, name, description string) (*models.Site, error) {
	site, err := s.GetSiteByID(siteID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	updates["description"] = description

	if err := s.db.Model(site).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return site, nil
}
