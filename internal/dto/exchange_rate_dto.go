package dto

import (
	"github.com/shopspring/decimal"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
)

// CurrencyRateResponse is one quote of a published rate table.
type CurrencyRateResponse struct {
	Name     string          `json:"name"`
	Code     string          `json:"code"`
	Unit     int             `json:"unit"`
	BuyRate  decimal.Decimal `json:"buyRate"`
	SellRate decimal.Decimal `json:"sellRate"`
}

// RateTableResponse defines the data returned for a rate table.
type RateTableResponse struct {
	QuotationDate   string                 `json:"quotationDate"`
	PublicationDate string                 `json:"publicationDate"`
	Currencies      []CurrencyRateResponse `json:"currencies"`
}

// ToRateTableResponse converts a domain rate table to its API shape.
func ToRateTableResponse(table *domain.RateTable) RateTableResponse {
	currencies := make([]CurrencyRateResponse, len(table.Currencies))
	for i, rate := range table.Currencies {
		currencies[i] = CurrencyRateResponse{
			Name:     rate.Name,
			Code:     rate.Code,
			Unit:     rate.Unit,
			BuyRate:  rate.BuyRate,
			SellRate: rate.SellRate,
		}
	}
	return RateTableResponse{
		QuotationDate:   table.QuotationDate.Format("2006-01-02"),
		PublicationDate: table.PublicationDate.Format("2006-01-02"),
		Currencies:      currencies,
	}
}
