// Package delivery renders invoices and sends them to customers.
package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/satheeshds/invoicing/audit"
	"github.com/satheeshds/invoicing/mail"
	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/render"
	"github.com/satheeshds/invoicing/store"
)

// Source loads what a document is built from.
type Source interface {
	GetInvoice(ctx context.Context, id string) (models.Invoice, error)
	GetCompany(ctx context.Context, id string) (models.Company, error)
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
}

// Service renders and emails invoices.
type Service struct {
	source   Source
	renderer render.Renderer
	sender   mail.Sender
	audit    *audit.Log
	logger   *slog.Logger
}

func NewService(source Source, renderer render.Renderer, sender mail.Sender, log *audit.Log, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, renderer: renderer, sender: sender, audit: log, logger: logger}
}

// File is a rendered document.
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Render builds and renders the invoice's document. A customer or company that no longer
// exists leaves its block blank; any other lookup failure is returned.
func (s *Service) Render(ctx context.Context, invoiceID string) (File, error) {
	inv, err := s.source.GetInvoice(ctx, invoiceID)
	if err != nil {
		return File{}, err
	}
	return s.render(ctx, inv)
}

func (s *Service) render(ctx context.Context, inv models.Invoice) (File, error) {
	var company models.Company
	if inv.CompanyID != "" {
		c, err := s.source.GetCompany(ctx, inv.CompanyID)
		switch {
		case err == nil:
			company = c
		case store.IsNotFound(err):
			s.logger.Warn("seller not found for invoice", "invoice_id", inv.ID, "company_id", inv.CompanyID)
		default:
			return File{}, fmt.Errorf("loading seller for invoice %s: %w", inv.ID, err)
		}
	}
	var customer *models.Customer
	if inv.CustomerID != "" {
		c, err := s.source.GetCustomer(ctx, inv.CustomerID)
		switch {
		case err == nil:
			customer = &c
		case store.IsNotFound(err):
			s.logger.Warn("buyer not found for invoice", "invoice_id", inv.ID, "customer_id", inv.CustomerID)
		default:
			return File{}, fmt.Errorf("loading buyer for invoice %s: %w", inv.ID, err)
		}
	}

	doc, err := render.Build(inv, company, customer)
	if err != nil {
		return File{}, err
	}
	content, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return File{}, err
	}
	return File{
		Filename:    inv.InvoiceNumber + s.renderer.Extension(),
		ContentType: s.renderer.ContentType(),
		Content:     content,
	}, nil
}

// EmailRequest addresses an invoice email. An empty To falls back to the customer's email.
type EmailRequest struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Email renders the invoice, sends it as an attachment and records email_sent. The audit
// write is best-effort: once the mail is out, a failed history write is only logged.
func (s *Service) Email(ctx context.Context, invoiceID string, req EmailRequest) error {
	inv, err := s.source.GetInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	file, err := s.render(ctx, inv)
	if err != nil {
		return err
	}

	to := req.To
	if len(to) == 0 && inv.CustomerID != "" {
		if c, err := s.source.GetCustomer(ctx, inv.CustomerID); err == nil && c.Email != nil && *c.Email != "" {
			to = []string{*c.Email}
		}
	}
	if len(to) == 0 {
		return &RecipientError{InvoiceID: invoiceID}
	}

	subject := req.Subject
	if subject == "" {
		subject = fmt.Sprintf("Invoice %s", inv.InvoiceNumber)
	}
	body := req.Body
	if body == "" {
		body = fmt.Sprintf("Please find attached invoice %s for a total of %s.", inv.InvoiceNumber, inv.Total)
	}

	err = s.sender.Send(ctx, mail.Message{
		To:          to,
		Subject:     subject,
		Body:        body,
		Attachments: []mail.Attachment{{Filename: file.Filename, Content: file.Content}},
	})
	if err != nil {
		return &SendError{InvoiceID: invoiceID, Err: err}
	}

	s.audit.RecordBestEffort(ctx, invoiceID, models.AuditEmailSent, nil, nil, map[string]any{
		"to":      strings.Join(to, ","),
		"subject": subject,
	})
	return nil
}

// RecipientError means no address was given and the customer has none.
type RecipientError struct {
	InvoiceID string
}

func (e *RecipientError) Error() string {
	return fmt.Sprintf("no recipient for invoice %s", e.InvoiceID)
}

// SendError wraps a mail delivery failure.
type SendError struct {
	InvoiceID string
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("emailing invoice %s: %v", e.InvoiceID, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
