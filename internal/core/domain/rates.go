package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRate is one published quote: the home-currency buy and sell price
// per Unit units of the currency. Immutable once ingested.
type CurrencyRate struct {
	Name     string          `json:"name"`
	Code     string          `json:"code"`
	Unit     int             `json:"unit"` // rate is quoted per this many units, always > 0
	BuyRate  decimal.Decimal `json:"buyRate"`
	SellRate decimal.Decimal `json:"sellRate"`
}

// RateTable is an immutable snapshot of currency quotes valid for a single
// quotation date. Tables are created once per date by ingestion and retained
// indefinitely for lookback queries.
type RateTable struct {
	QuotationDate   time.Time      `json:"quotationDate"`
	PublicationDate time.Time      `json:"publicationDate"`
	Currencies      []CurrencyRate `json:"currencies"`
}

// FindCurrency returns the rate entry for the given code, matching
// case-insensitively with ASCII folding so the result does not depend on the
// host locale.
func (t *RateTable) FindCurrency(code string) (CurrencyRate, bool) {
	for _, rate := range t.Currencies {
		if strings.EqualFold(rate.Code, code) {
			return rate, true
		}
	}
	return CurrencyRate{}, false
}

// RateSource supplies the active rate table to wallet operations. It is
// implemented by the exchange rate repository; lookups may fail with
// apperrors.ErrRatesUnavailable when the lookback window is exhausted.
type RateSource interface {
	FindMostRecentRates(ctx context.Context) (*RateTable, error)
}
