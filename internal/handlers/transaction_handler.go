package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "aidat/internal/errors"
	"aidat/internal/models"
	"aidat/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateEntryRequest represents the request payload for creating an income or
// expense entry. ExchangeRate is the native-to-reporting rate captured at
// entry time; it defaults to 1 and is ignored for reporting-currency accounts.
type CreateEntryRequest struct {
	AccountID      uint            `json:"account_id" binding:"required"`
	CategoryID     *uint           `json:"category_id"`
	FiscalPeriodID *uint           `json:"fiscal_period_id"`
	UnitID         *uint           `json:"unit_id"`
	Type           string          `json:"type" binding:"required,transaction_type"`
	Amount         decimal.Decimal `json:"amount"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	Description    string          `json:"description" binding:"max=500"`
	EntryDate      *string         `json:"entry_date"`
}

// CreateTransferRequest represents the request payload for creating a
// two-legged transfer between accounts. Amount is in the source account's
// currency; conversion_rate is required when the accounts hold different
// currencies.
type CreateTransferRequest struct {
	FromAccountID     uint            `json:"from_account_id" binding:"required"`
	ToAccountID       uint            `json:"to_account_id" binding:"required"`
	Amount            decimal.Decimal `json:"amount"`
	ConversionRate    decimal.Decimal `json:"conversion_rate"`
	FromReportingRate decimal.Decimal `json:"from_reporting_rate"`
	ToReportingRate   decimal.Decimal `json:"to_reporting_rate"`
	FiscalPeriodID    *uint           `json:"fiscal_period_id"`
	Description       string          `json:"description" binding:"max=500"`
	EntryDate         *string         `json:"entry_date"`
}

// UpdateEntryRequest represents the request payload for updating an entry.
// Transfer legs cannot be edited; delete and recreate the transfer instead.
type UpdateEntryRequest struct {
	CategoryID     *uint            `json:"category_id"`
	FiscalPeriodID *uint            `json:"fiscal_period_id"`
	Amount         *decimal.Decimal `json:"amount"`
	ExchangeRate   *decimal.Decimal `json:"exchange_rate"`
	Description    *string          `json:"description" binding:"omitempty,max=500"`
	EntryDate      *string          `json:"entry_date"`
}

// CreateEntry handles the creation of a new income or expense entry
// @Summary     Create an entry
// @Description Record an income or expense entry against an account. Balances are never stored; the next read replays the full history.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id      path int                true "Site ID"
// @Param       request body CreateEntryRequest true "Entry details"
// @Success     201 {object} models.Transaction "Entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/transactions [post]
func (h *TransactionHandler) CreateEntry(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entryDate, err := parseOptionalDate("entry_date", req.EntryDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.transactionService.CreateEntry(siteID, services.EntryInput{
		AccountID:      req.AccountID,
		CategoryID:     req.CategoryID,
		FiscalPeriodID: req.FiscalPeriodID,
		UnitID:         req.UnitID,
		Type:           models.TransactionType(req.Type),
		Amount:         req.Amount,
		ExchangeRate:   req.ExchangeRate,
		Description:    req.Description,
		EntryDate:      entryDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "CREATE_TRANSACTION", "transaction", entry.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount": req.Amount.String(), "account_id": req.AccountID})

	c.JSON(http.StatusCreated, gin.H{"transaction": entry})
}

// CreateTransfer handles the creation of a new transfer
// @Summary     Create a transfer
// @Description Move money between two accounts of a site. Produces two legs sharing a transfer group; cross-currency transfers record the conversion on the receiving leg.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id      path int                   true "Site ID"
// @Param       request body CreateTransferRequest true "Transfer details"
// @Success     201 {object} models.Transaction "Transfer legs created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/transactions/transfer [post]
func (h *TransactionHandler) CreateTransfer(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entryDate, err := parseOptionalDate("entry_date", req.EntryDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	legs, err := h.transactionService.CreateTransfer(siteID, services.TransferInput{
		FromAccountID:     req.FromAccountID,
		ToAccountID:       req.ToAccountID,
		Amount:            req.Amount,
		ConversionRate:    req.ConversionRate,
		FromReportingRate: req.FromReportingRate,
		ToReportingRate:   req.ToReportingRate,
		FiscalPeriodID:    req.FiscalPeriodID,
		Description:       req.Description,
		EntryDate:         entryDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "CREATE_TRANSFER", "transaction", legs[0].ID, c.ClientIP(),
		map[string]interface{}{
			"from_account_id": req.FromAccountID,
			"to_account_id":   req.ToAccountID,
			"amount":          req.Amount.String(),
		})

	c.JSON(http.StatusCreated, gin.H{"transactions": legs})
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID for a site
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id             path int true "Site ID"
// @Param       transaction_id path int true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/transactions/{transaction_id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "transaction_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(siteID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateEntry handles updating an income or expense entry
// @Summary     Update entry
// @Description Update an income or expense entry. Transfer legs are rejected; delete and recreate the transfer instead.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id             path int                true "Site ID"
// @Param       transaction_id path int                true "Transaction ID"
// @Param       request        body UpdateEntryRequest true "Updated entry details"
// @Success     200 {object} models.Transaction "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input or transfer leg"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/transactions/{transaction_id} [put]
func (h *TransactionHandler) UpdateEntry(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "transaction_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.EntryUpdateFields{
		CategoryID:     req.CategoryID,
		FiscalPeriodID: req.FiscalPeriodID,
		Amount:         req.Amount,
		ExchangeRate:   req.ExchangeRate,
		Description:    req.Description,
	}
	if req.EntryDate != nil && *req.EntryDate != "" {
		parsed, parseErr := parseDate("entry_date", *req.EntryDate)
		if parseErr != nil {
			respondWithError(c, parseErr)
			return
		}
		fields.EntryDate = &parsed
	}

	transaction, err := h.transactionService.UpdateEntry(siteID, transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "UPDATE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete transaction
// @Description Delete a transaction. Deleting a transfer leg removes the whole transfer group so no unpaired leg is left behind.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id             path int true "Site ID"
// @Param       transaction_id path int true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/transactions/{transaction_id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "transaction_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(siteID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
