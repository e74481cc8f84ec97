package ledger

import "github.com/shopspring/decimal"

// ReportingAmount converts a native amount into the reporting currency using
// the rate captured on the transaction at entry time.
//
// When the native currency already is the reporting currency the amount is
// returned unchanged and any stray stored rate is ignored. A missing or
// non-positive rate on a foreign-currency amount is treated as 1.0 so the
// row still participates in the replay; the returned flag reports that the
// fail-safe default was used, for data-quality accounting.
func ReportingAmount(amount decimal.Decimal, currency string, rate decimal.Decimal, reportingCurrency string) (decimal.Decimal, bool) {
	if currency == "" || currency == reportingCurrency {
		return amount, false
	}
	if !rate.IsPositive() {
		return amount, true
	}
	return amount.Mul(rate), false
}

// EffectiveCredit converts a unit payment into the unit's debt-ledger
// currency.
//
// The operator enters the debt rate as foreign-currency units per one local
// (reporting) currency unit. The direction of the conversion is decided by
// which side is the debt currency:
//
//   - payment in the local currency against a foreign-currency debt:
//     credit = amount x rate (e.g. 3700 TRY x 0.027 = 99.90 EUR);
//   - payment in a foreign currency against a local-currency debt:
//     credit = amount / rate;
//   - currencies equal: credit = amount, rate ignored.
//
// Operators rely on this exact direction to avoid order-of-magnitude
// mistakes, so it must match the help text shown next to the rate field.
// A missing or non-positive rate falls back to 1.0 and is flagged.
func EffectiveCredit(amount decimal.Decimal, paymentCurrency string, rate decimal.Decimal, debtCurrency, reportingCurrency string) (decimal.Decimal, bool) {
	if paymentCurrency == "" || paymentCurrency == debtCurrency {
		return amount, false
	}

	defaulted := false
	if !rate.IsPositive() {
		rate = decimal.NewFromInt(1)
		defaulted = true
	}

	if debtCurrency != reportingCurrency && paymentCurrency == reportingCurrency {
		return amount.Mul(rate), defaulted
	}
	if debtCurrency == reportingCurrency && paymentCurrency != reportingCurrency {
		return amount.Div(rate), defaulted
	}

	// Both sides foreign: the rate converts payment currency to debt
	// currency directly.
	return amount.Mul(rate), defaulted
}
