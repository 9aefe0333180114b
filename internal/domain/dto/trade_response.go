package dto

import "github.com/guttosm/tradebook/internal/domain/models"

// TradeResponse is one settled trade as exposed by GET /api/v1/trades.
//
// Price and Quantity are decimal strings so no precision is lost in transit.
type TradeResponse struct {
	View            string `json:"view" example:"PEW"`
	ClientCode      string `json:"client_code" example:"W1573"`
	TransactionType string `json:"transaction_type" example:"BUY"`
	SecurityID      string `json:"security_id" example:"TCS"`
	Price           string `json:"price" example:"3450.5"`
	Quantity        string `json:"quantity" example:"5"`
	ExchangeCode    string `json:"exchange_code" example:"N"`
	RefID           string `json:"ref_id" example:"250915000123456"`
	TradeDate       string `json:"trade_date,omitempty" example:"2025-09-15"`
	TradeType       string `json:"trade_type" example:"DELIVERY"`
}

// TradesResponse wraps the trades of one settlement date.
type TradesResponse struct {
	Date   string          `json:"date" example:"2025-09-15"`
	Count  int             `json:"count" example:"1"`
	Trades []TradeResponse `json:"trades"`
}

// NewTradesResponse maps domain trades to the API contract.
func NewTradesResponse(date string, trades []models.AggregatedTrade) TradesResponse {
	out := TradesResponse{Date: date, Count: len(trades), Trades: make([]TradeResponse, 0, len(trades))}
	for _, t := range trades {
		tr := TradeResponse{
			View:            t.View,
			ClientCode:      t.ClientCode,
			TransactionType: string(t.TransactionType),
			SecurityID:      t.SecurityID,
			Price:           t.Price.String(),
			Quantity:        t.Quantity.String(),
			ExchangeCode:    t.ExchangeCode,
			RefID:           t.RefID,
			TradeType:       t.TradeType,
		}
		if !t.TradeTime.IsZero() {
			tr.TradeDate = t.TradeTime.Format("2006-01-02")
		}
		out.Trades = append(out.Trades, tr)
	}
	return out
}
