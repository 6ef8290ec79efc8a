package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// Branding carries the brand metadata shown in every email.
type Branding struct {
	Name    string
	URL     string
	Domain  string
	LogoCID string
}

// TemplateData is the input of both renderers. Rendering reads nothing but
// this struct.
type TemplateData struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Subject   string
	Message   string
	Brand     Branding
	Year      int
}

var templateFuncs = template.FuncMap{
	"nl2br": nl2br,
}

// Palette: sky-500 brand, slate text, slate-200 borders, slate-50 background.
const baseTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charSet="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{template "title" .}}</title>
  <style>
    body { margin:0; padding:0; background:#f8fafc; -webkit-font-smoothing:antialiased; }
    table { border-collapse:collapse; }
    img { border:0; outline:none; text-decoration:none; display:block; }
    a { color:#0ea5e9; text-decoration:none; }
    .container { width:100%; padding:24px 0; }
    .card { max-width:640px; margin:0 auto; background:#fff; border:1px solid #e2e8f0; border-radius:16px; overflow:hidden; }
    .header { padding:20px 24px; border-bottom:1px solid #e2e8f0; background:#fff; }
    .title { font-family: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Ubuntu, Cantarell, Noto Sans, Arial; font-weight:800; font-size:24px; color:#0f172a; margin:0 0 8px 0; }
    .muted { color:#475569; font-size:14px; line-height:20px; margin:0; }
    .content { padding:28px 24px; color:#0f172a; font-size:16px; line-height:24px; font-family: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Ubuntu, Cantarell, Noto Sans, Arial; }
    .btn { display:inline-block; background:#0ea5e9; color:#fff !important; text-decoration:none; padding:12px 18px; border-radius:10px; font-weight:700; }
    .footer { text-align:center; color:#475569; font-size:12px; padding:18px 8px; }
    .pill { display:inline-block; padding:4px 10px; border-radius:9999px; background:#f8fafc; color:#475569; font-size:12px; }
    @media (prefers-color-scheme: dark) {
      body { background:#0b1220 }
      .card { background:#0f172a; border-color:#1e293b }
      .header { background:#0f172a; border-color:#1e293b }
      .title, .content { color:#e2e8f0 }
      .muted, .footer { color:#94a3b8 }
      .pill { background:#0b1220; color:#94a3b8 }
    }
  </style>
</head>
<body>
  <div style="display:none;opacity:0;color:transparent;height:0;width:0;overflow:hidden;visibility:hidden;">
    {{template "preview" .}}
  </div>

  <div class="container">
    <table class="card" role="presentation" width="100%">
      <tr>
        <td class="header">
          <table role="presentation" width="100%">
            <tr>
              <td style="vertical-align:middle;">
                <img src="cid:{{.Brand.LogoCID}}" width="150" alt="{{.Brand.Name}}" />
              </td>
              <td style="text-align:right; vertical-align:middle;">
                <span class="pill">{{.Brand.Domain}}</span>
              </td>
            </tr>
          </table>
        </td>
      </tr>

      <tr>
        <td class="content">
          {{template "body" .}}
        </td>
      </tr>

      <tr>
        <td class="footer">
          &copy; {{.Year}} {{.Brand.Name}}. All rights reserved.
        </td>
      </tr>
    </table>
  </div>
</body>
</html>`

const customerAutoReplyTemplate = `
{{define "title"}}We got your request{{end}}
{{define "preview"}}Thanks! We received your message and will reply shortly.{{end}}
{{define "body"}}
    <h1 class="title" style="color:#0ea5e9;">Thanks, {{.FirstName}}! We received your message.</h1>
    <p class="muted" style="margin:8px 0 20px 0;">Subject: {{.Subject}}</p>

    <p style="margin:0 0 18px 0;">Our support team will review your request and reply shortly. If it&rsquo;s urgent, you can call us any time.</p>

    <p style="margin:22px 0 26px 0;">
      <a class="btn" href="{{.Brand.URL}}" target="_blank" rel="noopener">Visit {{.Brand.Name}}</a>
    </p>

    <p class="muted" style="margin-top:16px;">
      You&rsquo;re receiving this email because you contacted {{.Brand.Name}}.
      If this wasn&rsquo;t you, you can ignore this message.
    </p>
{{end}}`

const internalLeadTemplate = `
{{define "title"}}New inquiry{{end}}
{{define "preview"}}New website inquiry from {{.FirstName}} {{.LastName}}{{end}}
{{define "body"}}
    <h1 class="title">New contact form submission</h1>
    <p class="muted" style="margin-top:8px;">{{.Brand.Name}} website lead</p>

    <table role="presentation" width="100%" style="margin:18px 0;border:1px solid #e2e8f0;border-radius:12px;">
      <tr><td style="padding:12px 16px;"><strong>Name:</strong> {{.FirstName}} {{.LastName}}</td></tr>
      <tr><td style="padding:12px 16px;"><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
      {{- if .Phone}}
      <tr><td style="padding:12px 16px;"><strong>Phone:</strong> {{.Phone}}</td></tr>
      {{- end}}
      <tr><td style="padding:12px 16px;"><strong>Subject:</strong> {{.Subject}}</td></tr>
      <tr><td style="padding:12px 16px;"><strong>Message:</strong><br/>{{nl2br .Message}}</td></tr>
    </table>

    <p style="margin-top:10px;">
      <a class="btn" href="mailto:{{.Email}}?subject=Re:%20{{.Subject}}">Reply to customer</a>
    </p>
{{end}}`

var (
	customerTemplate = mustCompose("customer_auto_reply", customerAutoReplyTemplate)
	internalTemplate = mustCompose("internal_lead", internalLeadTemplate)
)

func mustCompose(name, blocks string) *template.Template {
	t := template.Must(template.New(name).Funcs(templateFuncs).Parse(baseTemplate))
	return template.Must(t.Parse(blocks))
}

// RenderCustomerAutoReply renders the auto-reply sent to the submitter.
func RenderCustomerAutoReply(data TemplateData) (string, error) {
	return render(customerTemplate, data)
}

// RenderInternalLead renders the lead notification sent to the inbox.
func RenderInternalLead(data TemplateData) (string, error) {
	return render(internalTemplate, data)
}

func render(t *template.Template, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// nl2br escapes s and turns its line breaks into <br/>.
func nl2br(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br/>"))
}
