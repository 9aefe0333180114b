package settlement

import (
	"strings"
	"time"

	"github.com/guttosm/tradebook/internal/domain/models"
)

const (
	buyHeader     = "Buy Data ==========="
	buyTotalRule  = "======TOTAL BUY======"
	sellHeader    = "Sell Data ==========="
	sellTotalRule = "======TOTAL SELL======"
	sectionRule   = "============="
)

// RenderTrades renders the fixed text block for one view. Trades must already
// be sorted; quantities are expected halved when shared is true.
//
// Layout:
//
//	Buy Data ===========
//	15-Sep-2025,TCS,3450.5,10
//	======TOTAL BUY======
//	69010
//	Sell Data ===========
//	...
//	======TOTAL SELL======
//	0
func RenderTrades(asOf time.Time, buys, sells []models.AggregatedTrade, shared bool) string {
	date := asOf.Format(ReportDateLayout)

	var sb strings.Builder
	sb.WriteString(buyHeader + "\n")
	writeLines(&sb, date, buys)
	sb.WriteString("\n" + buyTotalRule + "\n")
	sb.WriteString(Total(buys, shared).String())
	sb.WriteString("\n" + sellHeader + "\n")
	writeLines(&sb, date, sells)
	sb.WriteString("\n" + sellTotalRule + "\n")
	sb.WriteString(Total(sells, shared).String())
	return sb.String()
}

func writeLines(sb *strings.Builder, date string, trades []models.AggregatedTrade) {
	for i, t := range trades {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(date)
		sb.WriteByte(',')
		sb.WriteString(t.SecurityID)
		sb.WriteByte(',')
		sb.WriteString(t.Price.String())
		sb.WriteByte(',')
		sb.WriteString(t.Quantity.String())
	}
}

// Section is one labelled block of the daily file.
type Section struct {
	Label  string
	Report string
}

// ComposeDaily joins view blocks under "=============<label>=============" headers,
// in the order given.
func ComposeDaily(sections []Section) string {
	var sb strings.Builder
	for i, s := range sections {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(sectionRule + s.Label + sectionRule + "\n")
		sb.WriteString(s.Report)
	}
	return sb.String()
}
