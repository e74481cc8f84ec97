package services

import (
	"gorm.io/gorm"

	apperrors "aidat/internal/errors"
	"aidat/internal/ledger"
	"aidat/internal/logger"
	"aidat/internal/models"
)

// ledgerService exposes the recomputed balance read models.
//
// Every call fetches the FULL transaction history and replays it from the
// accounts' initial balances. Fetching a period-filtered subset here would
// be a correctness bug: opening balances from prior periods would vanish.
// Period and type filters are applied to the annotated result afterwards.
type ledgerService struct {
	db          *gorm.DB
	siteService SiteServicer
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB, siteService SiteServicer) LedgerServicer {
	return &ledgerService{db: db, siteService: siteService}
}

// replaySite loads a site's accounts and full history and replays it.
func (s *ledgerService) replaySite(siteID uint) (*models.Site, []models.Account, ledger.Result, ledger.IngestStats, error) {
	site, err := s.siteService.GetSiteByID(siteID)
	if err != nil {
		return nil, nil, ledger.Result{}, ledger.IngestStats{}, err
	}

	// Inactive accounts stay in the replay seed: deactivation only blocks
	// new transactions, never erases history.
	var accounts []models.Account
	if err := s.db.Where("site_id = ?", siteID).Find(&accounts).Error; err != nil {
		return nil, nil, ledger.Result{}, ledger.IngestStats{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.db.Where("site_id = ?", siteID).
		Order("id").
		Find(&transactions).Error; err != nil {
		return nil, nil, ledger.Result{}, ledger.IngestStats{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	states := make([]ledger.AccountState, 0, len(accounts))
	for _, a := range accounts {
		states = append(states, ledger.AccountState{
			ID:             a.ID,
			Currency:       a.Currency,
			InitialBalance: a.InitialBalance,
			InitialRate:    a.InitialRate,
			IsActive:       a.IsActive,
		})
	}

	records := make([]ledger.Record, 0, len(transactions))
	for _, t := range transactions {
		records = append(records, ledger.Record{
			ID:             t.ID,
			Type:           string(t.Type),
			Direction:      string(t.Direction),
			TransferGroup:  t.TransferGroup,
			AccountID:      t.AccountID,
			FiscalPeriodID: t.FiscalPeriodID,
			CategoryID:     t.CategoryID,
			Description:    t.Description,
			Amount:         t.Amount,
			Currency:       t.Currency,
			ExchangeRate:   t.ExchangeRate,
			EntryDate:      t.EntryDate,
			CreatedAt:      t.CreatedAt,
		})
	}

	entries, stats := ledger.Ingest(records)
	result := ledger.Replay(states, entries, site.ReportingCurrency)

	if stats.Skipped > 0 || result.Warnings.Any() {
		logger.Get().Warnw("ledger data-quality issues",
			"site_id", siteID,
			"skipped_records", stats.Skipped,
			"defaulted_rates", result.Warnings.DefaultedRates,
			"orphan_accounts", result.Warnings.OrphanAccounts,
			"unpaired_transfer_legs", result.Warnings.UnpairedTransferLegs,
		)
	}
	if !result.Reconciled {
		logger.Get().Errorw("ledger reconciliation alert: global balance drifted",
			"site_id", siteID,
			"drift", result.Drift.String(),
		)
	}

	return site, accounts, result, stats, nil
}

// GetBalances returns every account's recomputed native balance plus the
// site-wide reporting-currency balance.
func (s *ledgerService) GetBalances(siteID uint) (*BalanceReport, error) {
	site, accounts, result, stats, err := s.replaySite(siteID)
	if err != nil {
		return nil, err
	}

	report := &BalanceReport{
		ReportingCurrency: site.ReportingCurrency,
		OpeningBalance:    result.OpeningBalance,
		GlobalBalance:     result.GlobalBalance,
		Accounts:          make([]AccountBalance, 0, len(accounts)),
		Warnings:          result.Warnings,
		Stats:             stats,
	}

	for _, a := range accounts {
		report.Accounts = append(report.Accounts, AccountBalance{
			AccountID: a.ID,
			Name:      a.Name,
			Type:      a.Type,
			Currency:  a.Currency,
			Balance:   result.AccountBalances[a.ID],
			IsActive:  a.IsActive,
		})
	}

	return report, nil
}

// GetLedger returns the annotated ledger rows for tabular display, filtered
// by fiscal period, account, type, and free-text search. Filtering happens
// after replay and leaves the balance snapshots untouched.
func (s *ledgerService) GetLedger(siteID uint, filter LedgerFilter) (*LedgerView, error) {
	site, _, result, stats, err := s.replaySite(siteID)
	if err != nil {
		return nil, err
	}

	entries := ledger.FilterEntries(result.Entries, ledger.Filter{
		FiscalPeriodID: filter.FiscalPeriodID,
		AccountID:      filter.AccountID,
		Search:         filter.Search,
	})

	// The type filter matches the operation the user performed, not the
	// bookkeeping kind: FX transfer legs are persisted as an expense/income
	// pair but carry a transfer group, so they show under "transfer" and
	// stay out of "income"/"expense".
	if filter.Type != nil {
		var match func(ledger.AnnotatedEntry) bool
		switch *filter.Type {
		case models.TransactionTypeIncome:
			match = func(e ledger.AnnotatedEntry) bool {
				return e.Kind == ledger.KindIncome && e.TransferGroup == ""
			}
		case models.TransactionTypeExpense:
			match = func(e ledger.AnnotatedEntry) bool {
				return e.Kind == ledger.KindExpense && e.TransferGroup == ""
			}
		case models.TransactionTypeTransfer:
			match = func(e ledger.AnnotatedEntry) bool {
				return e.Kind == ledger.KindTransferIn || e.Kind == ledger.KindTransferOut || e.TransferGroup != ""
			}
		default:
			return nil, apperrors.ErrInvalidTransactionType
		}

		kept := make([]ledger.AnnotatedEntry, 0, len(entries))
		for _, e := range entries {
			if match(e) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	return &LedgerView{
		ReportingCurrency: site.ReportingCurrency,
		Entries:           entries,
		Warnings:          result.Warnings,
		Stats:             stats,
	}, nil
}

// GetReconciliation returns the conservation check and data-quality counts.
func (s *ledgerService) GetReconciliation(siteID uint) (*ReconciliationReport, error) {
	site, _, result, stats, err := s.replaySite(siteID)
	if err != nil {
		return nil, err
	}

	return &ReconciliationReport{
		ReportingCurrency: site.ReportingCurrency,
		Reconciled:        result.Reconciled,
		Drift:             result.Drift,
		GlobalBalance:     result.GlobalBalance,
		OpeningBalance:    result.OpeningBalance,
		Warnings:          result.Warnings,
		Stats:             stats,
	}, nil
}
