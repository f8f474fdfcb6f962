// Package renderer turns derived rows and statistics into markdown, and
// markdown into HTML.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.md
var templates embed.FS

// ReportOptions holds configuration for rendering a report.
type ReportOptions struct {
	SkipPCA        bool // Do not render the principal component section.
	SkipBenchmarks bool // Do not render the benchmarks section.
}

// RenderReport renders the Report struct to a markdown string.
func RenderReport(r *Report, opts ReportOptions) string {
	partials := map[string]string{
		"report_title":      "report_title.md",
		"report_summary":    "report_summary.md",
		"report_funds":      "report_funds.md",
		"report_allocation": "report_allocation.md",
	}
	// An empty file name results in an empty template.
	partials["report_benchmarks"] = ""
	if !opts.SkipBenchmarks {
		partials["report_benchmarks"] = "report_benchmarks.md"
	}
	partials["report_pca"] = ""
	if !opts.SkipPCA {
		partials["report_pca"] = "report_pca.md"
	}
	return renderTemplate("report", "report.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, "templates/"+file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// HTML converts markdown into a standalone HTML page.
func HTML(title, markdown string) (string, error) {
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := conv.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("cannot convert markdown to html: %w", err)
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", template.HTMLEscapeString(title))
	b.WriteString("<style>body{font-family:sans-serif;max-width:60em;margin:auto}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.2em .6em}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
