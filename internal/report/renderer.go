// Package report renders printable documents for borrowing records and
// extension requests.  Output is self-contained HTML suitable for the
// browser's print dialog; no external assets are referenced.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/iliyamo/library-portal/internal/repository"
)

const dateLayout = "2006-01-02"

// ContentType is the MIME type of every rendered report.
const ContentType = "text/html; charset=utf-8"

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format(dateLayout) },
	"dateptr": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format(dateLayout)
	},
}

var borrowingTmpl = template.Must(template.New("borrowing").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Borrowing Record {{.Record.Sequence}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin-top: 1em; }
th, td { border: 1px solid #999; padding: 6px 10px; text-align: left; }
th { background: #eee; }
.meta td { border: none; padding: 2px 10px 2px 0; }
</style>
</head>
<body>
<h1>Borrowing Record {{.Record.Sequence}}</h1>
<table class="meta">
<tr><td>Book</td><td>{{.Record.BookTitle}} by {{.Record.BookAuthor}}</td></tr>
<tr><td>Status</td><td>{{.Record.Status}}</td></tr>
<tr><td>Borrowed</td><td>{{date .Record.BorrowDate}}</td></tr>
<tr><td>Due</td><td>{{date .Record.ExpectedReturnDate}}</td></tr>
<tr><td>Current expiry</td><td>{{dateptr .Record.CurrentExpiryDate}}</td></tr>
<tr><td>Extensions granted</td><td>{{.Record.ExtensionCount}}</td></tr>
</table>
{{if .Requests}}
<h2>Extension Requests</h2>
<table>
<tr><th>Reference</th><th>Requested</th><th>Original expiry</th><th>Requested expiry</th><th>Days</th><th>Status</th></tr>
{{range .Requests}}
<tr><td>{{.Name}}</td><td>{{date .RequestDate}}</td><td>{{date .OriginalExpiryDate}}</td><td>{{date .RequestedExpiryDate}}</td><td>{{.ExtensionDays}}</td><td>{{.Status}}</td></tr>
{{end}}
</table>
{{end}}
<p>Generated {{.GeneratedAt}}</p>
</body>
</html>
`))

var extensionTmpl = template.Must(template.New("extension").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Extension Request {{.Request.Name}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; margin-top: 1em; }
td { padding: 4px 12px 4px 0; }
</style>
</head>
<body>
<h1>Extension Request {{.Request.Name}}</h1>
<table>
<tr><td>Borrowing record</td><td>{{.Request.BorrowingSequence}}</td></tr>
<tr><td>Member</td><td>{{.Request.MemberName}}</td></tr>
<tr><td>Book</td><td>{{.Request.BookTitle}}</td></tr>
<tr><td>Submitted</td><td>{{date .Request.RequestDate}}</td></tr>
<tr><td>Original expiry</td><td>{{date .Request.OriginalExpiryDate}}</td></tr>
<tr><td>Requested expiry</td><td>{{date .Request.RequestedExpiryDate}}</td></tr>
<tr><td>Extension days</td><td>{{.Request.ExtensionDays}}</td></tr>
{{if .Request.RequestReason}}<tr><td>Reason</td><td>{{.Request.RequestReason}}</td></tr>{{end}}
<tr><td>Status</td><td>{{.Request.Status}}</td></tr>
{{if .Request.ReviewerName}}<tr><td>Reviewed by</td><td>{{.Request.ReviewerName}}</td></tr>{{end}}
<tr><td>Review date</td><td>{{dateptr .Request.ReviewDate}}</td></tr>
{{if .Request.NewExpiryDate}}<tr><td>New expiry</td><td>{{dateptr .Request.NewExpiryDate}}</td></tr>{{end}}
{{if .Request.RejectionReason}}<tr><td>Rejection reason</td><td>{{.Request.RejectionReason}}</td></tr>{{end}}
</table>
<p>Generated {{.GeneratedAt}}</p>
</body>
</html>
`))

// RenderBorrowing produces the printable view of a borrowing record and
// its extension history.
func RenderBorrowing(rec repository.BorrowingDetail, requests []repository.ExtensionDetail) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Record      repository.BorrowingDetail
		Requests    []repository.ExtensionDetail
		GeneratedAt string
	}{rec, requests, time.Now().UTC().Format(time.RFC3339)}
	if err := borrowingTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render borrowing report: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderExtension produces the printable view of a single request.
func RenderExtension(req repository.ExtensionDetail) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Request     repository.ExtensionDetail
		GeneratedAt string
	}{req, time.Now().UTC().Format(time.RFC3339)}
	if err := extensionTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render extension report: %w", err)
	}
	return buf.Bytes(), nil
}
