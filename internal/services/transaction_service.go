package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "aidat/internal/errors"
	"aidat/internal/models"
	"aidat/internal/uuid"
)

// transactionService handles transaction-related business logic.
//
// No method here ever touches a stored balance: creating, editing, or
// deleting a transaction changes only the rows, and every balance shown to
// users is recomputed from the full history on the next read. That is what
// makes edits and deletes safe without compensating balance writes.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

// CreateEntry records a new income or expense entry on a site's ledger.
func (s *transactionService) CreateEntry(siteID uint, input EntryInput) (*models.Transaction, error) {
	if input.Type != models.TransactionTypeIncome && input.Type != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.AccountID == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}

	account, err := s.accountService.GetAccountByID(siteID, input.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	if input.EntryDate.IsZero() {
		input.EntryDate = time.Now()
	}
	if !input.ExchangeRate.IsPositive() {
		input.ExchangeRate = decimal.NewFromInt(1)
	}

	transaction := &models.Transaction{
		SiteID:         siteID,
		FiscalPeriodID: input.FiscalPeriodID,
		CategoryID:     input.CategoryID,
		AccountID:      account.ID,
		UnitID:         input.UnitID,
		Type:           input.Type,
		Description:    input.Description,
		Amount:         input.Amount,
		// The entry moves money in the account's own currency; the rate
		// converts it into the site's reporting currency and is frozen at
		// entry time.
		Currency:     account.Currency,
		ExchangeRate: input.ExchangeRate,
		EntryDate:    input.EntryDate,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// CreateTransfer records a transfer between two accounts as two linked legs
// sharing a transfer group ID, written in one database transaction so a
// partial pair can never be committed.
//
// Same-currency transfers produce a transfer in/out pair. When the accounts
// hold different currencies the legs become an expense/income pair whose
// native amounts differ by the conversion rate (FX transfer).
func (s *transactionService) CreateTransfer(siteID uint, input TransferInput) ([]models.Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.FromAccountID == input.ToAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}

	from, err := s.accountService.GetAccountByID(siteID, input.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountService.GetAccountByID(siteID, input.ToAccountID)
	if err != nil {
		return nil, err
	}
	if !from.IsActive || !to.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	crossCurrency := from.Currency != to.Currency
	if crossCurrency && !input.ConversionRate.IsPositive() {
		return nil, apperrors.ErrMissingTransferRate
	}

	if input.EntryDate.IsZero() {
		input.EntryDate = time.Now()
	}
	if !input.FromReportingRate.IsPositive() {
		input.FromReportingRate = decimal.NewFromInt(1)
	}
	if !input.ToReportingRate.IsPositive() {
		input.ToReportingRate = decimal.NewFromInt(1)
	}

	group := uuid.New()

	outLeg := models.Transaction{
		SiteID:         siteID,
		FiscalPeriodID: input.FiscalPeriodID,
		AccountID:      from.ID,
		TransferGroup:  group,
		Description:    input.Description,
		Amount:         input.Amount,
		Currency:       from.Currency,
		ExchangeRate:   input.FromReportingRate,
		EntryDate:      input.EntryDate,
	}
	inLeg := models.Transaction{
		SiteID:         siteID,
		FiscalPeriodID: input.FiscalPeriodID,
		AccountID:      to.ID,
		TransferGroup:  group,
		Description:    input.Description,
		Amount:         input.Amount,
		Currency:       to.Currency,
		ExchangeRate:   input.ToReportingRate,
		EntryDate:      input.EntryDate,
	}

	if crossCurrency {
		outLeg.Type = models.TransactionTypeExpense
		inLeg.Type = models.TransactionTypeIncome
		inLeg.Amount = input.Amount.Mul(input.ConversionRate)
	} else {
		outLeg.Type = models.TransactionTypeTransfer
		outLeg.Direction = models.TransferDirectionOut
		inLeg.Type = models.TransactionTypeTransfer
		inLeg.Direction = models.TransferDirectionIn
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&outLeg).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Create(&inLeg).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return []models.Transaction{outLeg, inLeg}, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific site.
func (s *transactionService) GetTransactionByID(siteID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND site_id = ?", transactionID, siteID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateEntry edits an income or expense entry. Transfer legs cannot be
// edited one-sided; the pair must be deleted and re-created so the two
// native amounts stay linked by their rate.
func (s *transactionService) UpdateEntry(siteID, transactionID uint, fields EntryUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(siteID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.TransferGroup != "" {
		return nil, apperrors.ErrTransferLegNotEditable
	}

	updates := make(map[string]interface{})
	if fields.Amount != nil {
		if !fields.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *fields.Amount
	}
	if fields.ExchangeRate != nil {
		if !fields.ExchangeRate.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "exchange rate must be greater than zero")
		}
		updates["exchange_rate"] = *fields.ExchangeRate
	}
	if fields.CategoryID != nil {
		updates["category_id"] = *fields.CategoryID
	}
	if fields.FiscalPeriodID != nil {
		updates["fiscal_period_id"] = *fields.FiscalPeriodID
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.EntryDate != nil && !fields.EntryDate.IsZero() {
		updates["entry_date"] = *fields.EntryDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", transaction.ID).First(transaction).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return transaction, nil
}

// DeleteTransaction deletes a transaction. Deleting one leg of a transfer
// deletes the whole group, so an orphaned leg can never be left behind.
func (s *transactionService) DeleteTransaction(siteID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(siteID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if transaction.TransferGroup != "" {
			if err := tx.Where("site_id = ? AND transfer_group = ?", siteID, transaction.TransferGroup).
				Delete(&models.Transaction{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return nil
		}
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
