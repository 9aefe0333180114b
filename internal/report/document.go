package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

const title = "Trade Settlement Report"

// AccountOrders is the number of orders seen for one account.
type AccountOrders struct {
	Label      string
	ClientCode string
	Orders     int
}

// Summary holds the headline counts shown above the report.
type Summary struct {
	Accounts []AccountOrders
	Buys     int
	Sells    int
}

// Document is a composed daily report plus the data needed to present it.
type Document struct {
	Date        time.Time
	GeneratedAt time.Time
	Summary     Summary
	Report      string
}

// Subject returns the one-line title of the document.
func Subject(doc Document) string {
	return fmt.Sprintf("%s - %s", title, doc.Date.Format(fileLayout))
}

// PlainText renders the document as a plain-text message body.
func PlainText(doc Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s for %s\n\n", title, doc.Date.Format(fileLayout))
	sb.WriteString("Summary:\n")
	for _, a := range doc.Summary.Accounts {
		fmt.Fprintf(&sb, "- %s Orders: %d\n", a.Label, a.Orders)
	}
	fmt.Fprintf(&sb, "- Buy Transactions: %d\n", doc.Summary.Buys)
	fmt.Fprintf(&sb, "- Sell Transactions: %d\n", doc.Summary.Sells)
	sb.WriteString("\nDetailed Report:\n")
	sb.WriteString(doc.Report)
	sb.WriteString("\n\n---\n")
	fmt.Fprintf(&sb, "Generated at %s\n", doc.GeneratedAt.UTC().Format(time.RFC3339))
	return sb.String()
}

var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Subject}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.header { background-color: #f4f4f4; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
.section { margin-bottom: 20px; }
.pre-formatted { background-color: #f8f8f8; padding: 15px; border-radius: 5px; font-family: monospace; white-space: pre-wrap; }
</style>
</head>
<body>
<div class="header">
<h1>{{.Title}}</h1>
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Generated:</strong> {{.Generated}}</p>
<p><strong>Accounts:</strong>{{range $i, $a := .Doc.Summary.Accounts}}{{if $i}} &amp;{{end}} {{$a.Label}} ({{$a.ClientCode}}){{end}}</p>
</div>
<div class="section">
<h2>Summary</h2>
<ul>
{{- range .Doc.Summary.Accounts}}
<li><strong>{{.Label}} Orders:</strong> {{.Orders}}</li>
{{- end}}
<li><strong>Buy Transactions:</strong> {{.Doc.Summary.Buys}}</li>
<li><strong>Sell Transactions:</strong> {{.Doc.Summary.Sells}}</li>
</ul>
</div>
<div class="section">
<h2>Detailed Report</h2>
<div class="pre-formatted">{{.Doc.Report}}</div>
</div>
</body>
</html>
`))

// RenderHTML renders the document as an HTML page. The report text is
// escaped and kept pre-formatted.
func RenderHTML(doc Document) (string, error) {
	var buf bytes.Buffer
	err := htmlTmpl.Execute(&buf, struct {
		Title     string
		Subject   string
		Date      string
		Generated string
		Doc       Document
	}{
		Title:     title,
		Subject:   Subject(doc),
		Date:      doc.Date.Format(fileLayout),
		Generated: doc.GeneratedAt.UTC().Format(time.RFC1123),
		Doc:       doc,
	})
	if err != nil {
		return "", fmt.Errorf("render html report: %w", err)
	}
	return buf.String(), nil
}
