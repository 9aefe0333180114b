package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString holds a scalar JSON value as text. The broker sends some numeric
// fields as strings and others as bare numbers, sometimes both for the same key
// across API versions.
type FlexString string

// UnmarshalJSON accepts a JSON string or any bare scalar (number, bool) verbatim.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(b)
	return nil
}

// String returns the trimmed text value.
func (f FlexString) String() string { return strings.TrimSpace(string(f)) }

// Value is String for optional fields; a nil f yields "".
func (f *FlexString) Value() string {
	if f == nil {
		return ""
	}
	return f.String()
}

// ExecutionRecord is one fill as returned by the broker order book.
//
// Every field is decoded leniently so that one odd record (a rejected order with
// "averageprice":"" for instance) never fails the whole book. The first six are
// required for completed fills; a nil pointer means the key was missing or null.
//
// Example payload element:
//
//	{
//	  "status": "complete",
//	  "filledshares": "5",
//	  "transactiontype": "BUY",
//	  "orderid": "250915000123456",
//	  "tradingsymbol": "TCS-EQ",
//	  "exchange": "NSE",
//	  "averageprice": 3450.5,
//	  "exchtime": "15-Sep-2025 10:14:03",
//	  "producttype": "DELIVERY"
//	}
type ExecutionRecord struct {
	Status          *FlexString `json:"status"`
	FilledShares    *FlexString `json:"filledshares"`
	TransactionType *FlexString `json:"transactiontype"`
	OrderID         *FlexString `json:"orderid"`
	TradingSymbol   *FlexString `json:"tradingsymbol"`
	Exchange        *FlexString `json:"exchange"`
	AveragePrice    *FlexString `json:"averageprice"`
	ExecutionTime   *FlexString `json:"exchtime"`
	ProductType     *FlexString `json:"producttype"`
}

// OrderBook is the broker envelope around a list of execution records.
type OrderBook struct {
	Status    bool              `json:"status"`
	Message   string            `json:"message"`
	ErrorCode string            `json:"errorcode"`
	Data      []ExecutionRecord `json:"data"`
}

// Text returns a pointer to v as a FlexString. Handy for building records in code.
func Text(v string) *FlexString {
	f := FlexString(v)
	return &f
}
