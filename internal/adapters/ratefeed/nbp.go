// Package ratefeed downloads published exchange rate tables from the NBP
// (Narodowy Bank Polski) XML feed and maps them to the domain model.
package ratefeed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
	portsrepo "github.com/walletledger/wallet_ledger_app/internal/core/ports/repositories"
	"golang.org/x/text/encoding/charmap"
)

// DefaultFeedURL is the NBP "table C" feed carrying buy and sell rates.
const DefaultFeedURL = "https://static.nbp.pl/dane/kursy/xml/LastC.xml"

const feedDateLayout = "2006-01-02"

// NBPClient fetches the latest published rate table over HTTP.
type NBPClient struct {
	url        string
	httpClient *http.Client
}

// NewNBPClient creates a feed client for the given URL, falling back to
// DefaultFeedURL when empty.
func NewNBPClient(url string) *NBPClient {
	if url == "" {
		url = DefaultFeedURL
	}
	return &NBPClient{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Ensure implementation matches the outbound port
var _ portsrepo.RateFeed = (*NBPClient)(nil)

// rateTableXML mirrors the NBP table document. Rates are kept as strings
// here; the feed quotes them with a comma decimal separator.
type rateTableXML struct {
	XMLName         xml.Name          `xml:"tabela_kursow"`
	QuotationDate   string            `xml:"data_notowania"`
	PublicationDate string            `xml:"data_publikacji"`
	Positions       []ratePositionXML `xml:"pozycja"`
}

type ratePositionXML struct {
	Name     string `xml:"nazwa_waluty"`
	Unit     int    `xml:"przelicznik"`
	Code     string `xml:"kod_waluty"`
	BuyRate  string `xml:"kurs_kupna"`
	SellRate string `xml:"kurs_sprzedazy"`
}

// FetchLatestRates downloads and parses the most recently published table.
func (c *NBPClient) FetchLatestRates(ctx context.Context) (*domain.RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rate feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	return parseRateTable(resp.Body)
}

func parseRateTable(r io.Reader) (*domain.RateTable, error) {
	decoder := xml.NewDecoder(r)
	// The NBP feed is published in ISO-8859-2.
	decoder.CharsetReader = charsetReader

	var doc rateTableXML
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode rate feed XML: %w", err)
	}

	quotationDate, err := time.Parse(feedDateLayout, doc.QuotationDate)
	if err != nil {
		return nil, fmt.Errorf("invalid quotation date %q: %w", doc.QuotationDate, err)
	}
	publicationDate, err := time.Parse(feedDateLayout, doc.PublicationDate)
	if err != nil {
		return nil, fmt.Errorf("invalid publication date %q: %w", doc.PublicationDate, err)
	}

	currencies := make([]domain.CurrencyRate, 0, len(doc.Positions))
	for _, pos := range doc.Positions {
		buyRate, err := parseDecimal(pos.BuyRate)
		if err != nil {
			return nil, fmt.Errorf("invalid buy rate %q for %s: %w", pos.BuyRate, pos.Code, err)
		}
		sellRate, err := parseDecimal(pos.SellRate)
		if err != nil {
			return nil, fmt.Errorf("invalid sell rate %q for %s: %w", pos.SellRate, pos.Code, err)
		}
		currencies = append(currencies, domain.CurrencyRate{
			Name:     pos.Name,
			Code:     pos.Code,
			Unit:     pos.Unit,
			BuyRate:  buyRate,
			SellRate: sellRate,
		})
	}

	return &domain.RateTable{
		QuotationDate:   quotationDate,
		PublicationDate: publicationDate,
		Currencies:      currencies,
	}, nil
}

// parseDecimal parses a numeric string that may use either a dot or a comma
// as its decimal separator. The fallback is deterministic and independent of
// any host locale: parse as-is first, then retry with the comma normalized
// to a dot.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err == nil {
		return d, nil
	}
	return decimal.NewFromString(strings.Replace(s, ",", ".", 1))
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "iso-8859-2":
		return charmap.ISO8859_2.NewDecoder().Reader(input), nil
	case "utf-8", "":
		return input, nil
	default:
		return nil, fmt.Errorf("unsupported feed charset %q", charset)
	}
}
