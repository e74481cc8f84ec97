package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "aidat/internal/errors"
	"aidat/internal/models"
	"aidat/internal/services"
)

// LedgerHandler serves the recomputed balance read models. Every request
// replays the site's full history from scratch.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// LedgerQuery represents query parameters for the ledger view. Filters are
// applied after the full-history replay, so running balances stay correct.
type LedgerQuery struct {
	FiscalPeriodID *uint   `form:"fiscal_period_id"`
	AccountID      *uint   `form:"account_id"`
	Type           *string `form:"type" binding:"omitempty,oneof=income expense transfer"`
	Search         string  `form:"search"`
}

// GetBalances handles the balance report for a site
// @Summary     Get site balances
// @Description Get every account's recomputed native balance plus the site-wide balance in the reporting currency
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       id path int true "Site ID"
// @Success     200 {object} services.BalanceReport "Balance report"
// @Failure     400 {object} ErrorResponse "Invalid site ID"
// @Failure     404 {object} ErrorResponse "Site not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/balances [get]
func (h *LedgerHandler) GetBalances(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.ledgerService.GetBalances(siteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetLedger handles the annotated ledger view for a site
// @Summary     Get site ledger
// @Description Get the chronological annotated ledger with running balances. Period, account, type, and search filters narrow the view after replay.
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       id               path  int    true  "Site ID"
// @Param       fiscal_period_id query int    false "Filter by fiscal period"
// @Param       account_id       query int    false "Filter by account"
// @Param       type             query string false "Filter by type (income, expense, transfer)"
// @Param       search           query string false "Case-insensitive description search"
// @Success     200 {object} services.LedgerView "Ledger view"
// @Failure     400 {object} ErrorResponse "Invalid site ID or filters"
// @Failure     404 {object} ErrorResponse "Site not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/ledger [get]
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query LedgerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.LedgerFilter{
		FiscalPeriodID: query.FiscalPeriodID,
		AccountID:      query.AccountID,
		Search:         query.Search,
	}
	if query.Type != nil {
		t := models.TransactionType(*query.Type)
		filter.Type = &t
	}

	view, err := h.ledgerService.GetLedger(siteID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetReconciliation handles the conservation check report for a site
// @Summary     Get reconciliation report
// @Description Check that the replayed global balance equals the opening balance plus the signed sum of all entries, and report data-quality counters
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       id path int true "Site ID"
// @Success     200 {object} services.ReconciliationReport "Reconciliation report"
// @Failure     400 {object} ErrorResponse "Invalid site ID"
// @Failure     404 {object} ErrorResponse "Site not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/reconciliation [get]
func (h *LedgerHandler) GetReconciliation(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.ledgerService.GetReconciliation(siteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
