package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "aidat/internal/errors"
	"aidat/internal/models"
	"aidat/internal/pagination"
	"aidat/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, auditService: auditService}
}

// CreateAccountRequest represents the request payload for creating an account.
// InitialRate is the native-to-reporting conversion rate captured at account
// creation and defaults to 1 when omitted.
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=100"`
	Description    string          `json:"description" binding:"max=500"`
	Type           string          `json:"type" binding:"required,account_type"`
	Currency       string          `json:"currency" binding:"omitempty,iso4217"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	InitialRate    decimal.Decimal `json:"initial_rate"`
}

// UpdateAccountRequest represents the request payload for updating an account.
// Currency, initial balance, and initial rate are immutable once the account
// has been created.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// ListAccountsQuery represents query parameters for listing accounts.
type ListAccountsQuery struct {
	pagination.PageRequest
	IncludeInactive bool `form:"include_inactive"`
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Create a new bank or cash account for a site
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id      path int                  true "Site ID"
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Site not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(
		siteID,
		req.Name,
		req.Description,
		models.AccountType(req.Type),
		req.Currency,
		req.InitialBalance,
		req.InitialRate,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "CREATE_ACCOUNT", "account", account.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "type": req.Type, "currency": account.Currency})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetSiteAccounts handles the retrieval of a site's accounts
// @Summary     List site accounts
// @Description Get a paginated list of accounts for a site. Deactivated accounts are hidden unless include_inactive is set.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id               path  int  true  "Site ID"
// @Param       page             query int  false "Page number (default 1)"
// @Param       page_size        query int  false "Items per page (default 20, max 100)"
// @Param       include_inactive query bool false "Include deactivated accounts"
// @Success     200 {object} pagination.PageResponse[models.Account] "Paginated accounts"
// @Failure     404 {object} ErrorResponse "Site not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/accounts [get]
func (h *AccountHandler) GetSiteAccounts(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListAccountsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.accountService.GetSiteAccounts(siteID, query.PageRequest, query.IncludeInactive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountByID handles the retrieval of a specific account
// @Summary     Get account by ID
// @Description Get a specific account by ID for a site
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id         path int true "Site ID"
// @Param       account_id path int true "Account ID"
// @Success     200 {object} models.Account "Account details"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/accounts/{account_id} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(siteID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount handles updating an account
// @Summary     Update account
// @Description Update an account's name, description, or active flag. Currency and initial balance are immutable.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id         path int                  true "Site ID"
// @Param       account_id path int                  true "Account ID"
// @Param       request    body UpdateAccountRequest true "Updated account details"
// @Success     200 {object} models.Account "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input or account ID"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/accounts/{account_id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpdateAccount(siteID, accountID, services.AccountUpdateFields{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "UPDATE_ACCOUNT", "account", accountID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeactivateAccount handles deactivating an account
// @Summary     Deactivate account
// @Description Deactivate an account so it no longer accepts new transactions. Its history remains part of every replay.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Param       id         path int true "Site ID"
// @Param       account_id path int true "Account ID"
// @Success     204 "Account deactivated"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/accounts/{account_id} [delete]
func (h *AccountHandler) DeactivateAccount(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "account_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeactivateAccount(siteID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "DEACTIVATE_ACCOUNT", "account", accountID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
