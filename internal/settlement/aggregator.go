// Package settlement turns a broker order book into the daily settlement
// report: completed fills are grouped into orders, reconciled, split for
// shared accounts, sorted, totalled and rendered.
//
// The package is pure. It does no I/O and keeps no state between calls, so an
// Aggregator can be shared across goroutines.
package settlement

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/tradebook/internal/domain/models"
)

const (
	// ReportDateLayout is the date format used on report lines and file names.
	ReportDateLayout = "02-Jan-2006"

	execTimeLayout  = "02-Jan-2006 15:04:05"
	completeStatus  = "complete"
	equitySuffix    = "-EQ"
	primaryExchange = "NSE"
)

var two = decimal.NewFromInt(2)

// Aggregator settles one account view at a time.
type Aggregator struct {
	policy AttributionPolicy
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithAttribution sets the attribution policy for multi-fill orders.
func WithAttribution(p AttributionPolicy) Option {
	return func(a *Aggregator) { a.policy = p }
}

// New returns an Aggregator using LastFill attribution unless overridden.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{policy: LastFill}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Policy returns the configured attribution policy.
func (a *Aggregator) Policy() AttributionPolicy { return a.policy }

// Result is the outcome of settling one account view.
type Result struct {
	View      models.AccountView
	Report    string
	Buys      []models.AggregatedTrade
	Sells     []models.AggregatedTrade
	BuyTotal  decimal.Decimal
	SellTotal decimal.Decimal
	// Warnings holds *EmptyResultWarning values; they never abort a run.
	Warnings []error
}

// fill is a validated, completed execution.
type fill struct {
	orderID     string
	shares      decimal.Decimal
	symbol      string
	exchange    string
	price       decimal.Decimal
	execTime    string
	productType string
}

type orderGroup struct {
	orderID string
	fills   []fill
}

// bucket groups fills by order id, remembering first-appearance order.
type bucket struct {
	order  []string
	groups map[string]*orderGroup
}

func newBucket() *bucket {
	return &bucket{groups: make(map[string]*orderGroup)}
}

func (b *bucket) add(f fill) {
	g, ok := b.groups[f.orderID]
	if !ok {
		g = &orderGroup{orderID: f.orderID}
		b.groups[f.orderID] = g
		b.order = append(b.order, f.orderID)
	}
	g.fills = append(g.fills, f)
}

// Aggregate filters, groups, reconciles, sorts, totals and renders one view.
//
// asOf is the run date; only its calendar date is used. The only error returned
// is *MalformedRecordError.
func (a *Aggregator) Aggregate(records []models.ExecutionRecord, view models.AccountView, asOf time.Time) (*Result, error) {
	date := truncateToDate(asOf)
	buys, sells := newBucket(), newBucket()

	for i := range records {
		f, side, ok, err := eligibleFill(i, &records[i])
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if side == models.Buy {
			buys.add(f)
		} else {
			sells.add(f)
		}
	}

	res := &Result{
		View:  view,
		Buys:  a.reconcileAll(buys, models.Buy, view, date),
		Sells: a.reconcileAll(sells, models.Sell, view, date),
	}
	SortBySecurity(res.Buys)
	SortBySecurity(res.Sells)

	res.BuyTotal = Total(res.Buys, view.IsShared)
	res.SellTotal = Total(res.Sells, view.IsShared)
	res.Report = RenderTrades(date, res.Buys, res.Sells, view.IsShared)

	if len(res.Buys) == 0 {
		res.Warnings = append(res.Warnings, &EmptyResultWarning{Type: models.Buy})
	}
	if len(res.Sells) == 0 {
		res.Warnings = append(res.Warnings, &EmptyResultWarning{Type: models.Sell})
	}
	return res, nil
}

// eligibleFill validates one record. ok=false means the record is silently
// excluded (not complete, no positive fill, or an unknown side).
func eligibleFill(idx int, r *models.ExecutionRecord) (fill, models.TransactionType, bool, error) {
	orderID := ""
	if r.OrderID != nil {
		orderID = r.OrderID.String()
	}
	if r.Status == nil {
		return fill{}, "", false, &MalformedRecordError{OrderID: orderID, Index: idx, Field: "status"}
	}
	if r.Status.String() != completeStatus {
		return fill{}, "", false, nil
	}

	required := []struct {
		key string
		val *models.FlexString
	}{
		{"filledshares", r.FilledShares},
		{"transactiontype", r.TransactionType},
		{"orderid", r.OrderID},
		{"tradingsymbol", r.TradingSymbol},
		{"exchange", r.Exchange},
	}
	for _, f := range required {
		if f.val == nil {
			return fill{}, "", false, &MalformedRecordError{OrderID: orderID, Index: idx, Field: f.key}
		}
	}

	shares, ok := parseShares(r.FilledShares.String())
	if !ok {
		return fill{}, "", false, nil
	}
	side, ok := models.ParseTransactionType(r.TransactionType.String())
	if !ok {
		return fill{}, "", false, nil
	}

	return fill{
		orderID:     orderID,
		shares:      shares,
		symbol:      r.TradingSymbol.String(),
		exchange:    r.Exchange.String(),
		price:       parsePrice(r.AveragePrice.Value()),
		execTime:    r.ExecutionTime.Value(),
		productType: r.ProductType.Value(),
	}, side, true, nil
}

// parseShares reads the leading integer of s. Leading blanks and a sign are
// allowed and parsing stops at the first non-digit, so "10abc" is 10 and
// "1e3" is 1. No digits, or a count that is not positive, is rejected.
func parseShares(s string) (decimal.Decimal, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || neg {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s[:end])
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// parsePrice reads an average price; anything unparseable counts as zero.
func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a *Aggregator) reconcileAll(b *bucket, side models.TransactionType, view models.AccountView, date time.Time) []models.AggregatedTrade {
	out := make([]models.AggregatedTrade, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, a.reconcile(b.groups[id], side, view, date))
	}
	return out
}

// reconcile collapses the fills of one order into a single trade.
func (a *Aggregator) reconcile(g *orderGroup, side models.TransactionType, view models.AccountView, date time.Time) models.AggregatedTrade {
	qty := decimal.Zero
	for _, f := range g.fills {
		qty = qty.Add(f.shares)
	}

	src := g.fills[len(g.fills)-1]
	if a.policy == FirstFill {
		src = g.fills[0]
	}
	price := src.price
	if a.policy == WeightedAverage {
		price = weightedPrice(g.fills, qty)
	}

	if view.IsShared {
		qty = qty.Div(two)
	}

	return models.AggregatedTrade{
		Date:            date,
		ClientCode:      view.ClientCode,
		View:            view.Label,
		TransactionType: side,
		SecurityID:      SecurityID(src.symbol),
		Price:           price,
		Quantity:        qty,
		ExchangeCode:    ExchangeCode(src.exchange),
		RefID:           g.orderID,
		TradeTime:       parseTradeDate(src.execTime),
		TradeType:       src.productType,
		IsActive:        true,
	}
}

func weightedPrice(fills []fill, qty decimal.Decimal) decimal.Decimal {
	if qty.IsZero() {
		return decimal.Zero
	}
	notional := decimal.Zero
	for _, f := range fills {
		notional = notional.Add(f.price.Mul(f.shares))
	}
	return notional.Div(qty)
}

// SecurityID strips a trailing "-EQ" series suffix from a trading symbol.
// Only the suffix is removed; "-EQ" elsewhere in the symbol is kept.
func SecurityID(symbol string) string {
	return strings.TrimSuffix(strings.TrimSpace(symbol), equitySuffix)
}

// ExchangeCode maps the primary venue to "N" and every other venue to "B".
func ExchangeCode(exchange string) string {
	if strings.TrimSpace(exchange) == primaryExchange {
		return "N"
	}
	return "B"
}

// parseTradeDate returns the calendar date of an exchange timestamp, or the zero
// time when the timestamp is empty or malformed.
func parseTradeDate(s string) time.Time {
	t, err := time.Parse(execTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SortBySecurity orders trades by security id, keeping insertion order on ties.
func SortBySecurity(trades []models.AggregatedTrade) {
	slices.SortStableFunc(trades, func(a, b models.AggregatedTrade) int {
		return strings.Compare(a.SecurityID, b.SecurityID)
	})
}

// Total sums price × quantity. Shared views store halved quantities, so the
// sum is doubled back to the combined notional of both linked accounts.
func Total(trades []models.AggregatedTrade, shared bool) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range trades {
		sum = sum.Add(t.Notional())
	}
	if shared {
		sum = sum.Mul(two)
	}
	return sum
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
