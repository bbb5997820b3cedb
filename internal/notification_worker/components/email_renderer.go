package components

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/notification_worker/service"
)

type emailTemplate struct {
	subject string
	body    *template.Template
}

const layout = `<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#1f2937">
{{template "content" .}}
<p style="color:#6b7280;font-size:12px">This message was sent automatically by the swim training booking system.</p>
</body></html>`

var contentTemplates = map[notification.Kind]struct {
	subject string
	content string
}{
	notification.KindBalanceAdjusted: {
		subject: "Your credit balance was updated",
		content: `{{define "content"}}<p>Hello {{.Name}},</p>
<p>Your credit balance was changed by <strong>{{index .Data "amount"}} &euro;</strong>.</p>
{{with index .Data "description"}}<p>Note: {{.}}</p>{{end}}
<p>Your new balance is <strong>{{index .Data "new_balance"}} &euro;</strong>.</p>{{end}}`,
	},
	notification.KindLedgerReconciliationRequired: {
		subject: "Action required: balance saved without a transaction record",
		content: `{{define "content"}}<p>A balance adjustment for {{index .Data "client_name"}} ({{index .Data "client_email"}}) was stored but its transaction record could not be written.</p>
<ul>
<li>Amount: {{index .Data "amount"}} &euro;</li>
<li>New balance: {{index .Data "new_balance"}} &euro;</li>
<li>Reconciliation report: {{index .Data "report_id"}}</li>
</ul>
<p>Please reconcile the transaction history manually.</p>{{end}}`,
	},
	notification.KindLedgerAuditMismatch: {
		subject: "Ledger audit found a balance mismatch",
		content: `{{define "content"}}<p>The nightly ledger audit found a mismatch for {{index .Data "client_name"}} ({{index .Data "client_email"}}).</p>
<ul>
<li>Stored balance: {{index .Data "stored_balance"}} &euro;</li>
<li>Balance after the newest transaction: {{index .Data "ledger_balance"}} &euro;</li>
<li>Reconciliation report: {{index .Data "report_id"}}</li>
</ul>{{end}}`,
	},
}

// TemplateRenderer renders notification emails from the built-in templates.
// Admin kinds are addressed to the admin mailbox instead of the event recipient.
type TemplateRenderer struct {
	templates    map[notification.Kind]emailTemplate
	adminAddress string
}

func NewTemplateRenderer(adminAddress string) (*TemplateRenderer, error) {
	base, err := template.New("layout").Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email layout: %w", err)
	}

	templates := make(map[notification.Kind]emailTemplate, len(contentTemplates))
	for kind, def := range contentTemplates {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone email layout: %w", err)
		}
		tmpl, err := clone.Parse(def.content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s email template: %w", kind, err)
		}
		templates[kind] = emailTemplate{subject: def.subject, body: tmpl}
	}

	return &TemplateRenderer{templates: templates, adminAddress: adminAddress}, nil
}

type templateData struct {
	Name string
	Data map[string]string
}

func (r *TemplateRenderer) Render(event *notification.Event) (*service.Email, error) {
	tmpl, ok := r.templates[event.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", notification.ErrUnknownKind, event.Kind)
	}

	to := event.Recipient
	if event.Kind.IsAdminKind() {
		to = r.adminAddress
	}
	if to == "" {
		return nil, fmt.Errorf("notification %s has no recipient", event.EventID)
	}

	name := event.RecipientName
	if name == "" {
		name = "there"
	}

	var buf bytes.Buffer
	if err := tmpl.body.Execute(&buf, templateData{Name: name, Data: event.Data}); err != nil {
		return nil, fmt.Errorf("failed to render %s email: %w", event.Kind, err)
	}

	return &service.Email{
		To:      to,
		Subject: tmpl.subject,
		HTML:    buf.String(),
		Text:    plainText(tmpl.subject, event.Data),
	}, nil
}

// plainText is the fallback body for clients that do not render HTML
func plainText(subject string, data map[string]string) string {
	var b strings.Builder
	b.WriteString(subject)
	b.WriteString("\n\n")
	for _, key := range []string{
		notification.DataClientName,
		notification.DataAmount,
		notification.DataNewBalance,
		notification.DataStoredBalance,
		notification.DataLedgerBalance,
		notification.DataDescription,
		notification.DataReportID,
	} {
		if v, ok := data[key]; ok && v != "" {
			fmt.Fprintf(&b, "%s: %s\n", strings.ReplaceAll(key, "_", " "), v)
		}
	}
	return b.String()
}
