// Package export writes reports in the formats supported by the export
// command and the HTTP API: markdown, HTML and XLSX.
package export

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/renderer"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format is an export format.
type Format string

const (
	Markdown Format = "md"
	HTML     Format = "html"
	XLSX     Format = "xlsx"
)

// ParseFormat parses a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(s), ".")); f {
	case Markdown, HTML, XLSX:
		return f, nil
	case "markdown":
		return Markdown, nil
	case "htm":
		return HTML, nil
	default:
		return "", fmt.Errorf("unknown export format %q, want one of md, html, xlsx", s)
	}
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case HTML:
		return "text/html; charset=utf-8"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Write writes report to w in format f.
func Write(w io.Writer, report *tradebook.Report, f Format) error {
	switch f {
	case Markdown:
		_, err := io.WriteString(w, renderer.ReportMarkdown(report))
		return err
	case HTML:
		return WriteHTML(w, "Reconciliation Report", renderer.ReportMarkdown(report))
	case XLSX:
		return WriteXLSX(w, report)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// WriteHTML converts markdown to a standalone HTML document.
func WriteHTML(w io.Writer, title, markdown string) error {
	var body strings.Builder
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return fmt.Errorf("converting markdown to HTML: %w", err)
	}
	_, err := fmt.Fprintf(w, htmlPage, html.EscapeString(title), body.String())
	return err
}

const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1em; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.6em; }
td { text-align: right; }
td:first-child { text-align: left; }
</style>
</head>
<body>
%s</body>
</html>
`
