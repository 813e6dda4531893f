package models

import (
	"github.com/shopspring/decimal"

	apperrors "eosoracle/internal/errors"
	"eosoracle/internal/ledger"
)

// SecuritiesTable is the contract table holding securities and their last price.
const SecuritiesTable = "securities"

// PriceDecimals is the number of fractional digits rendered for prices.
const PriceDecimals = 8

// Security represents a tradable instrument tracked by the oracle.
type Security struct {
	SecurityID    uint64       `json:"securityId"`
	Symbol        string       `json:"symbol"`
	ExchangeName  string       `json:"exchangeName"`
	SecurityType  SecurityType `json:"securityType"`
	QuoteCurrency string       `json:"quoteCurrency"`
}

// Price is the last traded price of a security.
type Price struct {
	Timestamp       uint64       `json:"timestamp"`
	SecurityID      uint64       `json:"securityId"`
	Symbol          string       `json:"symbol"`
	ExchangeName    string       `json:"exchangeName"`
	SecurityType    SecurityType `json:"securityType"`
	QuoteCurrency   string       `json:"quoteCurrency"`
	LastTradedPrice string       `json:"lastTradedPrice"`
}

// SecurityRow is a row of the securities table as returned by the ledger.
type SecurityRow struct {
	Key           ledger.Uint64   `json:"key"`
	Symbol        string          `json:"symbol"`
	ExchangeName  string          `json:"exchange_name"`
	QuoteCurrency string          `json:"quote_currency"`
	SecurityType  ledger.Uint64   `json:"security_type"`
	Price         decimal.Decimal `json:"price"`
	TimeStamp     ledger.Uint64   `json:"time_stamp"`
}

// ToSecurity reshapes the row, translating the type index to its key.
func (r *SecurityRow) ToSecurity() (Security, error) {
	securityType, err := SecurityTypeFromIndex(uint64(r.SecurityType))
	if err != nil {
		return Security{}, err
	}
	return Security{
		SecurityID:    uint64(r.Key),
		Symbol:        r.Symbol,
		ExchangeName:  r.ExchangeName,
		SecurityType:  securityType,
		QuoteCurrency: r.QuoteCurrency,
	}, nil
}

// ToPrice reshapes the row into its last price. A zero price means no price
// was ever recorded.
func (r *SecurityRow) ToPrice() (Price, error) {
	if r.Price.IsZero() {
		return Price{}, apperrors.ErrNoPriceRecorded
	}
	security, err := r.ToSecurity()
	if err != nil {
		return Price{}, err
	}
	return Price{
		Timestamp:       uint64(r.TimeStamp),
		SecurityID:      security.SecurityID,
		Symbol:          security.Symbol,
		ExchangeName:    security.ExchangeName,
		SecurityType:    security.SecurityType,
		QuoteCurrency:   security.QuoteCurrency,
		LastTradedPrice: r.Price.StringFixed(PriceDecimals),
	}, nil
}
