package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "aidat/internal/errors"
	"aidat/internal/models"
	"aidat/internal/pagination"
)

// fiscalPeriodService handles fiscal-period business logic.
type fiscalPeriodService struct {
	db *gorm.DB
}

// NewFiscalPeriodService creates a new FiscalPeriodServicer.
func NewFiscalPeriodService(db *gorm.DB) FiscalPeriodServicer {
	return &fiscalPeriodService{db: db}
}

// CreatePeriod creates a fiscal period for a site.
func (s *fiscalPeriodService) CreatePeriod(siteID uint, name string, startDate, endDate time.Time) (*models.FiscalPeriod, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period name is required")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start and end dates are required")
	}
	if !endDate.After(startDate) {
		return nil, apperrors.ErrInvalidPeriodSpan
	}

	period := &models.FiscalPeriod{
		SiteID:    siteID,
		Name:      name,
		StartDate: startDate,
		EndDate:   endDate,
		IsActive:  true,
	}

	if err := s.db.Create(period).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return period, nil
}

// GetSitePeriods retrieves a paginated list of a site's fiscal periods.
func (s *fiscalPeriodService) GetSitePeriods(siteID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FiscalPeriod], error) {
	page.Defaults()

	base := s.db.Model(&models.FiscalPeriod{}).Where("site_id = ?", siteID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var periods []models.FiscalPeriod
	if err := base.Scopes(pagination.Paginate(page)).Order("start_date DESC").Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(periods, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPeriodByID retrieves a fiscal period by ID for a specific site.
func (s *fiscalPeriodService) GetPeriodByID(siteID, periodID uint) (*models.FiscalPeriod, error) {
	var period models.FiscalPeriod
	if err := s.db.Where("id = ? AND site_id = ?", periodID, siteID).First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &period, nil
}
