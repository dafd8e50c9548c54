// Admin HTTP handler.
//
// GET /admin/submissions renders every stored submission as an HTML table,
// newest first. Authentication is enforced by middleware.BasicAuth on the
// route group; this handler assumes an authenticated caller.
package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tbourn/go-contact-backend/internal/services"
)

// AdminPageCSP is the Content-Security-Policy for the admin page: the inline
// stylesheet and nothing else.
const AdminPageCSP = "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"

var adminPage = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Submissions</title>
<style>
body{font-family:system-ui,sans-serif;margin:2rem;color:#222}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #ccc;padding:.4rem .6rem;text-align:left;vertical-align:top}
th{background:#f4f4f4}
td.msg{white-space:pre-wrap}
.muted{color:#777}
</style>
</head>
<body>
<h1>Submissions</h1>
<p>{{.Summary}} <span class="muted">(source: {{.Source}})</span></p>
{{- if .Rows}}
<table>
<thead><tr><th>#</th>{{if .ShowID}}<th>ID</th>{{end}}<th>Name</th><th>Email</th><th>Message</th><th>Timestamp</th></tr></thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.N}}</td>{{if $.ShowID}}<td>{{.ID}}</td>{{end}}<td>{{.Name}}</td><td>{{.Email}}</td><td class="msg">{{.Message}}</td><td>{{.Timestamp}}</td></tr>
{{- end}}
</tbody>
</table>
{{- else}}
<p class="muted">No submissions yet.</p>
{{- end}}
</body>
</html>
`))

type adminRow struct {
	N         int
	ID        uint
	Name      string
	Email     string
	Message   string
	Timestamp string
}

type adminView struct {
	Summary string
	Source  string
	ShowID  bool
	Rows    []adminRow
}

// summaryLine renders "Showing N submissions" with locale digit grouping.
func summaryLine(n int) string {
	p := message.NewPrinter(language.English)
	if n == 1 {
		return p.Sprintf("Showing %d submission", n)
	}
	return p.Sprintf("Showing %d submissions", n)
}

// AdminSubmissions godoc
// @ID          adminSubmissions
// @Summary     HTML view of all submissions
// @Description Newest first. Reads the secondary store when available, otherwise the backup file.
// @Tags        Admin
// @Produce     html
// @Security    BasicAuth
// @Success     200  {string}  string                  "HTML page"
// @Failure     401  {object}  handlers.ErrorResponse  "Authentication required"
// @Router      /admin/submissions [get]
func (h *Handlers) AdminSubmissions(c *gin.Context) {
	v := h.svc.AdminRows(c.Request.Context())

	data := adminView{
		Summary: summaryLine(len(v.Rows)),
		Source:  "backup file",
		ShowID:  v.Source == services.SourceDB,
		Rows:    make([]adminRow, 0, len(v.Rows)),
	}
	if data.ShowID {
		data.Source = "database"
	}
	for i, s := range v.Rows {
		data.Rows = append(data.Rows, adminRow{
			N:         i + 1,
			ID:        s.ID,
			Name:      s.Name,
			Email:     s.Email,
			Message:   s.Message,
			Timestamp: s.Timestamp,
		})
	}

	c.Render(http.StatusOK, render.HTML{Template: adminPage, Name: "admin", Data: data})
}
