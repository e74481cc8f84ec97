package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "aidat/internal/errors"
	"aidat/internal/ledger"
	"aidat/internal/logger"
	"aidat/internal/models"
	"aidat/internal/pagination"
)

// unitService handles unit and debt-ledger business logic.
type unitService struct {
	db          *gorm.DB
	siteService SiteServicer
}

// NewUnitService creates a new UnitServicer.
func NewUnitService(db *gorm.DB, siteService SiteServicer) UnitServicer {
	return &unitService{db: db, siteService: siteService}
}

// CreateUnit creates a residential unit for a site.
func (s *unitService) CreateUnit(siteID uint, block, number, ownerName, ownerPhone, currency string, openingBalance decimal.Decimal) (*models.Unit, error) {
	if number == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unit number is required")
	}

	site, err := s.siteService.GetSiteByID(siteID)
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = site.ReportingCurrency
	}

	unit := &models.Unit{
		SiteID:         siteID,
		Block:          block,
		Number:         number,
		OwnerName:      ownerName,
		OwnerPhone:     ownerPhone,
		Currency:       currency,
		OpeningBalance: openingBalance,
		IsActive:       true,
	}

	if err := s.db.Create(unit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return unit, nil
}

// GetSiteUnits retrieves a paginated list of a site's units.
func (s *unitService) GetSiteUnits(siteID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Unit], error) {
	page.Defaults()

	base := s.db.Model(&models.Unit{}).Where("site_id = ?", siteID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var units []models.Unit
	if err := base.Scopes(pagination.Paginate(page)).Order("block, number").Find(&units).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(units, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetUnitByID retrieves a unit by ID for a specific site.
func (s *unitService) GetUnitByID(siteID, unitID uint) (*models.Unit, error) {
	var unit models.Unit
	if err := s.db.Where("id = ? AND site_id = ?", unitID, siteID).First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnitNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &unit, nil
}

// AddDue accrues a charge against a unit's debt ledger.
func (s *unitService) AddDue(siteID, unitID uint, input DueInput) (*models.DueItem, error) {
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.DueDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due date is required")
	}

	unit, err := s.GetUnitByID(siteID, unitID)
	if err != nil {
		return nil, err
	}
	if input.Currency == "" {
		input.Currency = unit.Currency
	}

	due := &models.DueItem{
		UnitID:         unit.ID,
		FiscalPeriodID: input.FiscalPeriodID,
		Description:    input.Description,
		Amount:         input.Amount,
		Currency:       input.Currency,
		DueDate:        input.DueDate,
	}

	if err := s.db.Create(due).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return due, nil
}

// GetUnitDues retrieves a paginated list of a unit's due items.
func (s *unitService) GetUnitDues(siteID, unitID uint, page pagination.PageRequest) (*pagination.PageResponse[models.DueItem], error) {
	if _, err := s.GetUnitByID(siteID, unitID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.DueItem{}).Where("unit_id = ?", unitID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var dues []models.DueItem
	if err := base.Scopes(pagination.Paginate(page)).Order("due_date DESC").Find(&dues).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(dues, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RecordPayment applies a credit to a unit's debt ledger. When an account is
// given, the same database transaction also posts an income entry on the
// site ledger, so the two records always appear together in the next replay.
func (s *unitService) RecordPayment(siteID, unitID uint, input PaymentInput) (*models.UnitPayment, error) {
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.PaymentDate.IsZero() {
		input.PaymentDate = time.Now()
	}

	unit, err := s.GetUnitByID(siteID, unitID)
	if err != nil {
		return nil, err
	}
	if input.Currency == "" {
		input.Currency = unit.Currency
	}
	if !input.DebtRate.IsPositive() {
		input.DebtRate = decimal.NewFromInt(1)
	}
	if !input.ReportingRate.IsPositive() {
		input.ReportingRate = decimal.NewFromInt(1)
	}

	var account *models.Account
	if input.AccountID != nil {
		var a models.Account
		if err := s.db.Where("id = ? AND site_id = ?", *input.AccountID, siteID).First(&a).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrAccountNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if !a.IsActive {
			return nil, apperrors.ErrAccountInactive
		}
		// The ledger entry books the payment in the account's native
		// currency; a mismatched payment would silently book a foreign
		// amount under the wrong currency.
		if input.Currency != a.Currency {
			return nil, apperrors.ErrPaymentCurrencyMismatch
		}
		account = &a
	}

	payment := &models.UnitPayment{
		UnitID:      unit.ID,
		AccountID:   input.AccountID,
		Description: input.Description,
		Amount:      input.Amount,
		Currency:    input.Currency,
		DebtRate:    input.DebtRate,
		PaymentDate: input.PaymentDate,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if account != nil {
			entry := &models.Transaction{
				SiteID:       siteID,
				AccountID:    account.ID,
				UnitID:       &unit.ID,
				Type:         models.TransactionTypeIncome,
				Description:  input.Description,
				Amount:       input.Amount,
				Currency:     account.Currency,
				ExchangeRate: input.ReportingRate,
				EntryDate:    input.PaymentDate,
			}
			if err := tx.Create(entry).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// GetStatement builds the resident statement for a unit: the chronological
// merge of dues and payments with running balances, in the unit's debt
// currency. Recomputed in full on every read.
func (s *unitService) GetStatement(siteID, unitID uint) (*StatementView, error) {
	site, err := s.siteService.GetSiteByID(siteID)
	if err != nil {
		return nil, err
	}
	unit, err := s.GetUnitByID(siteID, unitID)
	if err != nil {
		return nil, err
	}

	var dues []models.DueItem
	if err := s.db.Where("unit_id = ?", unitID).Order("id").Find(&dues).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var payments []models.UnitPayment
	if err := s.db.Where("unit_id = ?", unitID).Order("id").Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	dueLines := make([]ledger.DueLine, 0, len(dues))
	for _, d := range dues {
		dueLines = append(dueLines, ledger.DueLine{
			ID:          d.ID,
			Description: d.Description,
			Amount:      d.Amount,
			Currency:    d.Currency,
			DueDate:     d.DueDate,
			CreatedAt:   d.CreatedAt,
		})
	}
	paymentLines := make([]ledger.PaymentLine, 0, len(payments))
	for _, p := range payments {
		paymentLines = append(paymentLines, ledger.PaymentLine{
			ID:          p.ID,
			Description: p.Description,
			Amount:      p.Amount,
			Currency:    p.Currency,
			Rate:        p.DebtRate,
			PaymentDate: p.PaymentDate,
			CreatedAt:   p.CreatedAt,
		})
	}

	rows, summary, warnings := ledger.BuildStatement(unit.OpeningBalance, unit.Currency, site.ReportingCurrency, dueLines, paymentLines)

	if warnings.DefaultedRates > 0 || warnings.CurrencyMismatches > 0 {
		logger.Get().Warnw("statement data-quality issues",
			"site_id", siteID,
			"unit_id", unitID,
			"defaulted_rates", warnings.DefaultedRates,
			"currency_mismatches", warnings.CurrencyMismatches,
		)
	}

	return &StatementView{
		UnitID:       unit.ID,
		DebtCurrency: unit.Currency,
		Rows:         rows,
		Summary:      summary,
		Warnings:     warnings,
	}, nil
}
