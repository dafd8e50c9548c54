package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tbourn/go-contact-backend/internal/domain"
	"github.com/tbourn/go-contact-backend/internal/services"
)

func TestAdminSubmissions_EscapesEveryField(t *testing.T) {
	hostile := `<script>alert("x")</script> & 'q'`
	svc := &stubSvc{view: services.AdminView{
		Source: services.SourceBackup,
		Rows: []domain.Submission{{
			Name:      hostile,
			Email:     hostile,
			Message:   hostile,
			Timestamp: hostile,
		}},
	}}

	w := serve(newRouter(svc), httptest.NewRequest(http.MethodGet, "/admin/submissions", nil))
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("admin = %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	body := w.Body.String()
	if strings.Contains(body, "<script>") {
		t.Fatalf("raw markup rendered: %s", body)
	}
	escaped := `&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; &#39;q&#39;`
	if n := strings.Count(body, escaped); n != 4 {
		t.Fatalf("expected 4 escaped cells, found %d in %s", n, body)
	}
}

func TestAdminSubmissions_NumbersRowsAndShowsIDsFromDB(t *testing.T) {
	svc := &stubSvc{view: services.AdminView{
		Source: services.SourceDB,
		Rows: []domain.Submission{
			{ID: 42, Name: "newest"},
			{ID: 7, Name: "oldest"},
		},
	}}

	body := serve(newRouter(svc), httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)).Body.String()
	for _, want := range []string{
		"Showing 2 submissions",
		"source: database",
		"<th>ID</th>",
		"<tr><td>1</td><td>42</td><td>newest</td>",
		"<tr><td>2</td><td>7</td><td>oldest</td>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in %s", want, body)
		}
	}
}

func TestSummaryLine_GroupsDigits(t *testing.T) {
	cases := map[int]string{
		0:       "Showing 0 submissions",
		1:       "Showing 1 submission",
		1234567: "Showing 1,234,567 submissions",
	}
	for n, want := range cases {
		if got := summaryLine(n); got != want {
			t.Fatalf("summaryLine(%d) = %q; want %q", n, got, want)
		}
	}
}
