package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "INVOICE_NUMBERING", "SMTP_HOST", "SMTP_PORT"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "duckdb", cfg.DBDriver)
	assert.Equal(t, "./data/invoicing.duckdb", cfg.DBPath)
	assert.Equal(t, "sequential", cfg.InvoiceNumbering)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL is required")

	t.Setenv("DB_DRIVER", "sqlite")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_DRIVER must be one of")

	t.Setenv("DB_DRIVER", "duckdb")
	t.Setenv("INVOICE_NUMBERING", "random")
	_, err = Load()
	assert.ErrorContains(t, err, "INVOICE_NUMBERING")

	t.Setenv("INVOICE_NUMBERING", "opaque")
	t.Setenv("SMTP_PORT", "abc")
	_, err = Load()
	assert.ErrorContains(t, err, "SMTP_PORT")
}
