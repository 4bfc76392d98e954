package invoicing

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Sequence hands out the next invoice counter for a company. Implementations must perform
// the read-increment-write atomically and persist the result.
type Sequence interface {
	Next(ctx context.Context, companyID string) (shortCode string, counter int64, err error)
}

// Numbering assigns the human-readable number of a new invoice.
type Numbering interface {
	Assign(ctx context.Context, seq Sequence, companyID, invoiceID string, now time.Time) (string, error)
}

// FormatNumber builds {shortCode}-{YYYY}{MM}-{counter}, the counter padded to four digits.
func FormatNumber(shortCode string, now time.Time, counter int64) string {
	return fmt.Sprintf("%s-%04d%02d-%04d", shortCode, now.Year(), int(now.Month()), counter)
}

// Sequential numbers invoices per company from the company's counter.
type Sequential struct{}

func (Sequential) Assign(ctx context.Context, seq Sequence, companyID, _ string, now time.Time) (string, error) {
	code, counter, err := seq.Next(ctx, companyID)
	if err != nil {
		return "", err
	}
	return FormatNumber(code, now, counter), nil
}

// Opaque derives a display number from the invoice id and never touches the counter.
type Opaque struct {
	Prefix string
}

func (o Opaque) Assign(_ context.Context, _ Sequence, _, invoiceID string, _ time.Time) (string, error) {
	prefix := o.Prefix
	if prefix == "" {
		prefix = "INV"
	}
	id := strings.ToUpper(strings.ReplaceAll(invoiceID, "-", ""))
	if len(id) > 8 {
		id = id[:8]
	}
	return prefix + "-" + id, nil
}

// NewNumbering returns the strategy named by kind ("sequential" or "opaque").
func NewNumbering(kind string) (Numbering, error) {
	switch kind {
	case "", "sequential":
		return Sequential{}, nil
	case "opaque":
		return Opaque{}, nil
	}
	return nil, fmt.Errorf("unknown invoice numbering %q", kind)
}
