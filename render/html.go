package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// HTML renders the print/preview page used for download and email attachments.
type HTML struct {
	tmpl *template.Template
}

func NewHTML() (*HTML, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/invoice.html")
	if err != nil {
		return nil, fmt.Errorf("parsing invoice template: %w", err)
	}
	return &HTML{tmpl: tmpl}, nil
}

func (h *HTML) Render(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "invoice.html", doc); err != nil {
		return nil, fmt.Errorf("rendering invoice %s: %w", doc.Number, err)
	}
	return buf.Bytes(), nil
}

func (h *HTML) ContentType() string { return "text/html; charset=utf-8" }

func (h *HTML) Extension() string { return ".html" }
