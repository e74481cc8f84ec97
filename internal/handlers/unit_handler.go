package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "aidat/internal/errors"
	"aidat/internal/pagination"
	"aidat/internal/services"
)

// UnitHandler handles unit and debt-ledger requests.
type UnitHandler struct {
	unitService  services.UnitServicer
	auditService services.AuditServicer
}

// NewUnitHandler creates a new UnitHandler.
func NewUnitHandler(unitService services.UnitServicer, auditService services.AuditServicer) *UnitHandler {
	return &UnitHandler{unitService: unitService, auditService: auditService}
}

// CreateUnitRequest represents the request payload for creating a unit.
// Currency is the unit's debt-ledger currency and defaults to the site's
// reporting currency. A positive opening balance is debt carried over from
// before the system was adopted.
type CreateUnitRequest struct {
	Block          string          `json:"block" binding:"max=20"`
	Number         string          `json:"number" binding:"required,min=1,max=20"`
	OwnerName      string          `json:"owner_name" binding:"max=100"`
	OwnerPhone     string          `json:"owner_phone" binding:"max=30"`
	Currency       string          `json:"currency" binding:"omitempty,iso4217"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// AddDueRequest represents the request payload for accruing a due item.
type AddDueRequest struct {
	FiscalPeriodID *uint           `json:"fiscal_period_id"`
	Description    string          `json:"description" binding:"max=500"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency" binding:"omitempty,iso4217"`
	DueDate        string          `json:"due_date" binding:"required"`
}

// RecordPaymentRequest represents the request payload for recording a unit
// payment. DebtRate converts between the payment currency and the unit's debt
// currency (foreign units per local unit); it defaults to 1 for same-currency
// payments. When account_id is set, reporting_rate is the paying account's
// native-to-reporting rate for the mirrored ledger entry.
type RecordPaymentRequest struct {
	AccountID     *uint           `json:"account_id"`
	Description   string          `json:"description" binding:"max=500"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" binding:"omitempty,iso4217"`
	DebtRate      decimal.Decimal `json:"debt_rate"`
	ReportingRate decimal.Decimal `json:"reporting_rate"`
	PaymentDate   *string         `json:"payment_date"`
}

// CreateUnit handles the creation of a new unit
// @Summary     Create a unit
// @Description Create a residential unit with its own debt ledger
// @Tags        units
// @Accept      json
// @Produce     json
// @Param       id      path int               true "Site ID"
// @Param       request body CreateUnitRequest true "Unit details"
// @Success     201 {object} models.Unit "Unit created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Site not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/units [post]
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	unit, err := h.unitService.CreateUnit(siteID, req.Block, req.Number, req.OwnerName, req.OwnerPhone, req.Currency, req.OpeningBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "CREATE_UNIT", "unit", unit.ID, c.ClientIP(),
		map[string]interface{}{"block": req.Block, "number": req.Number, "currency": unit.Currency})

	c.JSON(http.StatusCreated, gin.H{"unit": unit})
}

// GetSiteUnits handles the retrieval of a site's units
// @Summary     List units
// @Description Get a paginated list of units for a site
// @Tags        units
// @Accept      json
// @Produce     json
// @Param       id        path  int true  "Site ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Unit] "Paginated units"
// @Failure     404 {object} ErrorResponse "Site not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/units [get]
func (h *UnitHandler) GetSiteUnits(c *gin.Context) {
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

	result, err := h.unitService.GetSiteUnits(siteID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUnitByID handles the retrieval of a specific unit
// @Summary     Get unit by ID
// @Description Get a specific unit by ID for a site
// @Tags        units
// @Accept      json
// @Produce     json
// @Param       id      path int true "Site ID"
// @Param       unit_id path int true "Unit ID"
// @Success     200 {object} models.Unit "Unit details"
// @Failure     400 {object} ErrorResponse "Invalid unit ID"
// @Failure     404 {object} ErrorResponse "Unit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/units/{unit_id} [get]
func (h *UnitHandler) GetUnitByID(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	unitID, err := parsePathID(c, "unit_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	unit, err := h.unitService.GetUnitByID(siteID, unitID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// AddDue handles accruing a due item against a unit
// @Summary     Add a due
// @Description Accrue a charge (monthly dues, special assessment) against a unit's debt ledger
// @Tags        units
// @Accept      json
// @Produce     json
// @Param       id      path int           true "Site ID"
// @Param       unit_id path int           true "Unit ID"
// @Param       request body AddDueRequest true "Due details"
// @Success     201 {object} models.DueItem "Due created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Unit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/units/{unit_id}/dues [post]
func (h *UnitHandler) AddDue(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	unitID, err := parsePathID(c, "unit_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := parseDate("due_date", req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	due, err := h.unitService.AddDue(siteID, unitID, services.DueInput{
		FiscalPeriodID: req.FiscalPeriodID,
		Description:    req.Description,
		Amount:         req.Amount,
		Currency:       req.Currency,
		DueDate:        dueDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "ADD_DUE", "due_item", due.ID, c.ClientIP(),
		map[string]interface{}{"unit_id": unitID, "amount": req.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"due": due})
}

// GetUnitDues handles the retrieval of a unit's due items
// @Summary     List unit dues
// @Description Get a paginated list of due items for a unit
// @Tags        units
// @Accept      json
// @Produce     json
// @Param       id        path  int true  "Site ID"
// @Param       unit_id   path  int true  "Unit ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.DueItem] "Paginated dues"
// @Failure     404 {object} ErrorResponse "Unit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/units/{unit_id}/dues [get]
func (h *UnitHandler) GetUnitDues(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	unitID, err := parsePathID(c, "unit_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.unitService.GetUnitDues(siteID, unitID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RecordPayment handles recording a unit payment
// @Summary     Record a payment
// @Description Apply a credit to a unit's debt ledger. When account_id is set the same database transaction posts a matching income entry on the site ledger.
// @Tags        units
// @Accept      json
// @Produce     json
// @Param       id      path int                  true "Site ID"
// @Param       unit_id path int                  true "Unit ID"
// @Param       request body RecordPaymentRequest true "Payment details"
// @Success     201 {object} models.UnitPayment "Payment recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Unit or account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/units/{unit_id}/payments [post]
func (h *UnitHandler) RecordPayment(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	unitID, err := parsePathID(c, "unit_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	paymentDate, err := parseOptionalDate("payment_date", req.PaymentDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	payment, err := h.unitService.RecordPayment(siteID, unitID, services.PaymentInput{
		AccountID:     req.AccountID,
		Description:   req.Description,
		Amount:        req.Amount,
		Currency:      req.Currency,
		DebtRate:      req.DebtRate,
		ReportingRate: req.ReportingRate,
		PaymentDate:   paymentDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(siteID, "RECORD_PAYMENT", "unit_payment", payment.ID, c.ClientIP(),
		map[string]interface{}{"unit_id": unitID, "amount": req.Amount.String(), "currency": payment.Currency})

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// GetStatement handles the resident statement for a unit
// @Summary     Get unit statement
// @Description Get the chronological statement of dues and payments with running balances in the unit's debt currency. Recomputed in full on every read.
// @Tags        units
// @Accept      json
// @Produce     json
// @Param       id      path int true "Site ID"
// @Param       unit_id path int true "Unit ID"
// @Success     200 {object} services.StatementView "Unit statement"
// @Failure     400 {object} ErrorResponse "Invalid unit ID"
// @Failure     404 {object} ErrorResponse "Unit not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sites/{id}/units/{unit_id}/statement [get]
func (h *UnitHandler) GetStatement(c *gin.Context) {
	siteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	unitID, err := parsePathID(c, "unit_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	statement, err := h.unitService.GetStatement(siteID, unitID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, statement)
}
