package services

import (
	"time"

	"github.com/shopspring/decimal"

	"aidat/internal/ledger"
	"aidat/internal/models"
	"aidat/internal/pagination"
)

// SiteServicer defines the contract for site-related business logic.
type SiteServicer interface {
	CreateSite(name, description, reportingCurrency string) (*models.Site, error)
	GetSites(page pagination.PageRequest) (*pagination.PageResponse[models.Site], error)
	GetSiteByID(siteID uint) (*models.Site, error)
	UpdateSite(siteID uint, name, description string) (*models.Site, error)
}

// AccountUpdateFields holds optional account fields for partial updates.
type AccountUpdateFields struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(siteID uint, name, description string, accountType models.AccountType, currency string, initialBalance, initialRate decimal.Decimal) (*models.Account, error)
	GetSiteAccounts(siteID uint, page pagination.PageRequest, includeInactive bool) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(siteID, accountID uint) (*models.Account, error)
	UpdateAccount(siteID, accountID uint, fields AccountUpdateFields) (*models.Account, error)
	DeactivateAccount(siteID, accountID uint) error
}

// FiscalPeriodServicer defines the contract for fiscal-period business logic.
type FiscalPeriodServicer interface {
	CreatePeriod(siteID uint, name string, startDate, endDate time.Time) (*models.FiscalPeriod, error)
	GetSitePeriods(siteID uint, page pagination.PageRequest) (*pagination.PageResponse[models.FiscalPeriod], error)
	GetPeriodByID(siteID, periodID uint) (*models.FiscalPeriod, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(siteID uint, name string, categoryType models.CategoryType, description string) (*models.Category, error)
	GetSiteCategories(siteID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(siteID, categoryID uint) (*models.Category, error)
	UpdateCategory(siteID, categoryID uint, name, description string) (*models.Category, error)
	DeleteCategory(siteID, categoryID uint) error
}

// EntryInput carries the fields for a new income or expense entry.
type EntryInput struct {
	AccountID      uint
	CategoryID     *uint
	FiscalPeriodID *uint
	UnitID         *uint
	Type           models.TransactionType
	Amount         decimal.Decimal
	Currency       string
	ExchangeRate   decimal.Decimal
	Description    string
	EntryDate      time.Time
}

// EntryUpdateFields holds optional entry fields for partial updates.
type EntryUpdateFields struct {
	CategoryID     *uint
	FiscalPeriodID *uint
	Amount         *decimal.Decimal
	ExchangeRate   *decimal.Decimal
	Description    *string
	EntryDate      *time.Time
}

// TransferInput carries the fields for a new two-legged transfer.
//
// Amount is in the source account's currency. ConversionRate converts the
// sent amount into the destination account's currency and is required when
// the two accounts hold different currencies (FX transfer). The reporting
// rates are the native-to-reporting rates captured on each leg, defaulting
// to 1 for reporting-currency legs.
type TransferInput struct {
	FromAccountID     uint
	ToAccountID       uint
	Amount            decimal.Decimal
	ConversionRate    decimal.Decimal
	FromReportingRate decimal.Decimal
	ToReportingRate   decimal.Decimal
	FiscalPeriodID    *uint
	Description       string
	EntryDate         time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateEntry(siteID uint, input EntryInput) (*models.Transaction, error)
	CreateTransfer(siteID uint, input TransferInput) ([]models.Transaction, error)
	GetTransactionByID(siteID, transactionID uint) (*models.Transaction, error)
	UpdateEntry(siteID, transactionID uint, fields EntryUpdateFields) (*models.Transaction, error)
	DeleteTransaction(siteID, transactionID uint) error
}

// AccountBalance is one account's recomputed balance for display.
type AccountBalance struct {
	AccountID uint               `json:"account_id"`
	Name      string             `json:"name"`
	Type      models.AccountType `json:"type"`
	Currency  string             `json:"currency"`
	Balance   decimal.Decimal    `json:"balance"`
	IsActive  bool               `json:"is_active"`
}

// BalanceReport is the site-wide balance read model.
type BalanceReport struct {
	ReportingCurrency string             `json:"reporting_currency"`
	OpeningBalance    decimal.Decimal    `json:"opening_balance"`
	GlobalBalance     decimal.Decimal    `json:"global_balance"`
	Accounts          []AccountBalance   `json:"accounts"`
	Warnings          ledger.Warnings    `json:"warnings"`
	Stats             ledger.IngestStats `json:"ingest_stats"`
}

// LedgerFilter narrows the ledger view after replay.
type LedgerFilter struct {
	FiscalPeriodID *uint
	AccountID      *uint
	Type           *models.TransactionType
	Search         string
}

// LedgerView is the period/type-filtered annotated ledger for tabular display.
type LedgerView struct {
	ReportingCurrency string                  `json:"reporting_currency"`
	Entries           []ledger.AnnotatedEntry `json:"entries"`
	Warnings          ledger.Warnings         `json:"warnings"`
	Stats             ledger.IngestStats      `json:"ingest_stats"`
}

// ReconciliationReport surfaces the conservation check and data-quality
// counters for a site.
type ReconciliationReport struct {
	ReportingCurrency string             `json:"reporting_currency"`
	Reconciled        bool               `json:"reconciled"`
	Drift             decimal.Decimal    `json:"drift"`
	GlobalBalance     decimal.Decimal    `json:"global_balance"`
	OpeningBalance    decimal.Decimal    `json:"opening_balance"`
	Warnings          ledger.Warnings    `json:"warnings"`
	Stats             ledger.IngestStats `json:"ingest_stats"`
}

// LedgerServicer exposes the recomputed balance read models. Every call
// re-fetches the full history and replays it from scratch; stored balances
// are never trusted or patched incrementally.
type LedgerServicer interface {
	GetBalances(siteID uint) (*BalanceReport, error)
	GetLedger(siteID uint, filter LedgerFilter) (*LedgerView, error)
	GetReconciliation(siteID uint) (*ReconciliationReport, error)
}

// DueInput carries the fields for a new due item.
type DueInput struct {
	FiscalPeriodID *uint
	Description    string
	Amount         decimal.Decimal
	Currency       string
	DueDate        time.Time
}

// PaymentInput carries the fields for a new unit payment. When AccountID is
// set the payment also posts an income entry on that account's site ledger
// in the same database transaction.
type PaymentInput struct {
	AccountID     *uint
	Description   string
	Amount        decimal.Decimal
	Currency      string
	DebtRate      decimal.Decimal
	ReportingRate decimal.Decimal
	PaymentDate   time.Time
}

// StatementView is the per-unit resident statement read model.
type StatementView struct {
	UnitID       uint                     `json:"unit_id"`
	DebtCurrency string                   `json:"debt_currency"`
	Rows         []ledger.StatementRow    `json:"rows"`
	Summary      ledger.StatementSummary  `json:"summary"`
	Warnings     ledger.StatementWarnings `json:"warnings"`
}

// UnitServicer defines the contract for unit and debt-ledger business logic.
type UnitServicer interface {
	CreateUnit(siteID uint, block, number, ownerName, ownerPhone, currency string, openingBalance decimal.Decimal) (*models.Unit, error)
	GetSiteUnits(siteID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Unit], error)
	GetUnitByID(siteID, unitID uint) (*models.Unit, error)
	AddDue(siteID, unitID uint, input DueInput) (*models.DueItem, error)
	GetUnitDues(siteID, unitID uint, page pagination.PageRequest) (*pagination.PageResponse[models.DueItem], error)
	RecordPayment(siteID, unitID uint, input PaymentInput) (*models.UnitPayment, error)
	GetStatement(siteID, unitID uint) (*StatementView, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(siteID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
