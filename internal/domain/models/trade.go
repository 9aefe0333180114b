package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the side of an order.
type TransactionType string

const (
	Buy  TransactionType = "BUY"
	Sell TransactionType = "SELL"
)

// ParseTransactionType normalizes a broker side. ok is false for anything other
// than BUY or SELL.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, true
	case Sell:
		return Sell, true
	default:
		return "", false
	}
}

// AggregatedTrade is one logical order after its fills were reconciled.
//
// Fields:
//   - Date: the run's as-of date, identical for every trade of a run.
//   - SecurityID: trading symbol with the venue suffix removed (e.g. "TCS").
//   - Price: price attributed to the order by the attribution policy.
//   - Quantity: summed filled shares, halved for shared views.
//   - ExchangeCode: "N" for NSE, "B" for any other venue.
//   - RefID: broker order id.
//   - TradeTime: calendar date of the attributed fill; zero when unknown.
//   - TradeType: broker product type, passed through.
type AggregatedTrade struct {
	Date            time.Time       `json:"date"`
	ClientCode      string          `json:"client_code"`
	View            string          `json:"view"`
	TransactionType TransactionType `json:"transaction_type"`
	SecurityID      string          `json:"security_id"`
	Price           decimal.Decimal `json:"price"`
	Quantity        decimal.Decimal `json:"quantity"`
	ExchangeCode    string          `json:"exchange_code"`
	RefID           string          `json:"ref_id"`
	TradeTime       time.Time       `json:"trade_time"`
	TradeType       string          `json:"trade_type"`
	IsActive        bool            `json:"is_active"`
}

// Notional returns price × quantity.
func (t AggregatedTrade) Notional() decimal.Decimal {
	return t.Price.Mul(t.Quantity)
}
