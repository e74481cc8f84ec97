package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "aidat/internal/errors"
	"aidat/internal/models"
	"aidat/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new bank or cash account for a site.
//
// The initial balance and initial rate are recorded once and become the
// replay seed for all future balance computations; no current-balance column
// is written now or later.
func (s *accountService) CreateAccount(siteID uint, name, description string, accountType models.AccountType, currency string, initialBalance, initialRate decimal.Decimal) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if accountType != models.AccountTypeBank && accountType != models.AccountTypeCash {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account type must be bank or cash")
	}
	if initialBalance.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance cannot be negative")
	}

	if currency == "" {
		currency = "TRY"
	}
	if !initialRate.IsPositive() {
		initialRate = decimal.NewFromInt(1)
	}

	account := &models.Account{
		SiteID:         siteID,
		Name:           name,
		Type:           accountType,
		Description:    description,
		Currency:       currency,
		InitialBalance: initialBalance,
		InitialRate:    initialRate,
		IsActive:       true,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// GetSiteAccounts retrieves a paginated list of a site's accounts. Inactive
// accounts are excluded unless includeInactive is set; balance replay always
// fetches them separately because deactivation never erases history.
func (s *accountService) GetSiteAccounts(siteID uint, page pagination.PageRequest, includeInactive bool) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{}).Where("site_id = ?", siteID)
	if !includeInactive {
		base = base.Where("is_active = ?", true)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID for a specific site. Inactive
// accounts are returned too; callers that must reject them (new
// transactions) check IsActive explicitly.
func (s *accountService) GetAccountByID(siteID, accountID uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND site_id = ?", accountID, siteID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates an existing account's mutable fields. Currency,
// initial balance, and initial rate are immutable: editing them would
// rewrite the meaning of the entire transaction history.
func (s *accountService) UpdateAccount(siteID, accountID uint, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(siteID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", account.ID).First(account).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeactivateAccount soft-disables an account. Its historical transactions
// remain part of every balance replay; only new transactions are blocked.
func (s *accountService) DeactivateAccount(siteID, accountID uint) error {
	account, err := s.GetAccountByID(siteID, accountID)
	if err != nil {
		return err
	}

	if err := s.db.Model(account).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
