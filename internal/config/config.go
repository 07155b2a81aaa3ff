// Package config loads server settings from a .env file and the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/mmynk/invoicer/internal/currency"
	"github.com/mmynk/invoicer/internal/invoice"
	"github.com/mmynk/invoicer/internal/models"
)

// Numbering schemes for new invoices.
const (
	NumberingSequence = "sequence"
	NumberingUUID     = "uuid"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Invoice  InvoiceConfig
}

type AppConfig struct {
	Port     string
	LogLevel string
}

type DatabaseConfig struct {
	Path string
}

// JWTConfig enables bearer-token auth when Secret is set.
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type InvoiceConfig struct {
	Numbering    string
	NumberWidth  int
	Currency     string
	TaxRate      decimal.Decimal
	PaymentTerms string
	Terms        string
}

// Load reads envFile (ignored when missing) and the environment.
// Environment variables win over the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		slog.Debug("config file not read, using environment", "file", envFile, "error", err)
	}

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PATH", "./data/invoices.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("INVOICE_NUMBERING", NumberingSequence)
	v.SetDefault("INVOICE_NUMBER_WIDTH", 4)
	v.SetDefault("INVOICE_DEFAULT_CURRENCY", currency.DefaultCode)
	v.SetDefault("INVOICE_DEFAULT_TAX_RATE", "10")
	v.SetDefault("INVOICE_DEFAULT_PAYMENT_TERMS", invoice.DefaultPaymentTerms)
	v.SetDefault("INVOICE_DEFAULT_TERMS", invoice.DefaultTerms)

	taxRate, err := decimal.NewFromString(strings.TrimSpace(v.GetString("INVOICE_DEFAULT_TAX_RATE")))
	if err != nil {
		return nil, fmt.Errorf("invalid INVOICE_DEFAULT_TAX_RATE: %w", err)
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("invalid INVOICE_DEFAULT_TAX_RATE: must not be negative")
	}

	numbering := strings.ToLower(strings.TrimSpace(v.GetString("INVOICE_NUMBERING")))
	if numbering != NumberingSequence && numbering != NumberingUUID {
		return nil, fmt.Errorf("invalid INVOICE_NUMBERING %q: want %s or %s", numbering, NumberingSequence, NumberingUUID)
	}

	return &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("DB_PATH"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Expiry: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Invoice: InvoiceConfig{
			Numbering:    numbering,
			NumberWidth:  v.GetInt("INVOICE_NUMBER_WIDTH"),
			Currency:     currency.Normalize(v.GetString("INVOICE_DEFAULT_CURRENCY")),
			TaxRate:      taxRate,
			PaymentTerms: v.GetString("INVOICE_DEFAULT_PAYMENT_TERMS"),
			Terms:        v.GetString("INVOICE_DEFAULT_TERMS"),
		},
	}, nil
}

// Defaults converts the invoice settings into the values new drafts start with.
func (c InvoiceConfig) Defaults() invoice.Defaults {
	return invoice.Defaults{
		Currency:     c.Currency,
		TaxRate:      c.TaxRate,
		PaymentTerms: c.PaymentTerms,
		Terms:        c.Terms,
		Headers:      models.DefaultHeaderSchema(),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
