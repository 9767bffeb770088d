package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/RedeemBot_Go/internal/domain"
)

var (
	printer = message.NewPrinter(language.English)
	titler  = cases.Title(language.English)
)

// formatAmount renders a USD amount with grouping, e.g. $1,234.50
func formatAmount(d decimal.Decimal) string {
	return printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func formatUnits(n int64) string {
	return printer.Sprintf("%d", n)
}

// methodName is the human name of a payout method, e.g. "Game Code"
func methodName(m domain.PayoutMethod) string {
	return titler.String(strings.ReplaceAll(string(m), "_", " "))
}

// emailData is everything a template may show. Secret fields are only filled
// for the method that needs them.
type emailData struct {
	RequestID string
	Method    string
	Amount    string
	SettledAt string
	Card      *domain.CardPayload
	Last4     string
	Country   string
	Code      string
	Units     string
	ExpiresAt string
	Reference string
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif">
<h2>Your {{.Method}} withdrawal of {{.Amount}} is complete</h2>
{{template "body" .}}
<p style="color:#888">Request {{.RequestID}}, settled {{.SettledAt}}</p>
</body>
</html>{{end}}`

var bodies = map[domain.PayoutMethod]string{
	domain.MethodCard: `{{define "body"}}<div style="background:#f8f9fa;padding:20px;border-radius:10px">
<p><strong>Card number:</strong> {{.Card.Number}}</p>
<p><strong>Expiry:</strong> {{.Card.Expiry}}</p>
<p><strong>CVV:</strong> {{.Card.CVV}}</p>
<p><strong>Value:</strong> {{.Amount}}</p>
{{if .Country}}<p><strong>Country:</strong> {{.Country}}</p>{{end}}
</div>
<p style="color:#dc3545;font-weight:bold">Keep these details private. Never share them with anyone.</p>{{end}}`,

	domain.MethodGameCode: `{{define "body"}}<div style="background:#f8f9fa;padding:20px;border-radius:10px">
<p><strong>Code:</strong> {{.Code}}</p>
<p><strong>Currency units:</strong> {{.Units}}</p>
{{if .ExpiresAt}}<p><strong>Redeem before:</strong> {{.ExpiresAt}}</p>{{end}}
</div>{{end}}`,

	domain.MethodCashRail: `{{define "body"}}<p>{{.Amount}} was sent to your mobile wallet.</p>
{{if .Reference}}<p><strong>Reference:</strong> {{.Reference}}</p>{{end}}{{end}}`,
}

var subjects = map[domain.PayoutMethod]string{
	domain.MethodCard:     SubjectCard,
	domain.MethodGameCode: SubjectGameCode,
	domain.MethodCashRail: SubjectCashRail,
}

// templates holds one parsed layout+body set per payout method
type templates map[domain.PayoutMethod]*template.Template

func parseTemplates() templates {
	out := make(templates, len(bodies))
	for method, body := range bodies {
		t := template.Must(template.New(string(method)).Parse(layout))
		out[method] = template.Must(t.Parse(body))
	}
	return out
}

func (t templates) render(method domain.PayoutMethod, data emailData) (string, string, error) {
	tmpl, ok := t[method]
	if !ok {
		return "", "", fmt.Errorf("%s: %s", ErrMsgNoTemplate, method)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", "", fmt.Errorf(ErrFmtRenderTemplate, method, err)
	}
	return subjects[method], buf.String(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
