package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RateMapping represents one section title to hourly rate rule.
type RateMapping struct {
	Match string `yaml:"match"`
	Rate  string `yaml:"rate"`
}

// InvoiceDefaults represents the invoice fields not derivable from the
// workfile.
type InvoiceDefaults struct {
	Unit string `yaml:"unit"`
	VAT  string `yaml:"vat"`
}

// RatesConfig represents the complete rates configuration file.
type RatesConfig struct {
	DefaultRate string          `yaml:"default_rate"`
	Rates       []RateMapping   `yaml:"rates"`
	Invoice     InvoiceDefaults `yaml:"invoice"`
}

type rateRule struct {
	match string
	rate  decimal.Decimal
}

// Rates resolves section titles to hourly rates and carries the invoice
// defaults.
type Rates struct {
	defaultRate decimal.Decimal
	rules       []rateRule
	invoiceUnit string
	invoiceVAT  decimal.Decimal
}

// DefaultRates returns a resolver that maps every title to the given rate.
func DefaultRates(rate decimal.Decimal) *Rates {
	return &Rates{
		defaultRate: rate,
		invoiceUnit: "heures",
		invoiceVAT:  decimal.Zero,
	}
}

// LoadRates creates a Rates resolver from a YAML configuration file. The
// fallback rate applies when the file sets no default of its own.
func LoadRates(configPath string, fallback decimal.Decimal) (*Rates, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates file: %w", err)
	}

	var config RatesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	rates := DefaultRates(fallback)

	if config.DefaultRate != "" {
		rates.defaultRate, err = decimal.NewFromString(config.DefaultRate)
		if err != nil {
			return nil, fmt.Errorf("invalid default_rate %q: %w", config.DefaultRate, err)
		}
	}

	for _, m := range config.Rates {
		rate, err := decimal.NewFromString(m.Rate)
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q for match %q: %w", m.Rate, m.Match, err)
		}
		rates.rules = append(rates.rules, rateRule{match: m.Match, rate: rate})
	}

	if config.Invoice.Unit != "" {
		rates.invoiceUnit = config.Invoice.Unit
	}
	if config.Invoice.VAT != "" {
		rates.invoiceVAT, err = decimal.NewFromString(config.Invoice.VAT)
		if err != nil {
			return nil, fmt.Errorf("invalid invoice vat %q: %w", config.Invoice.VAT, err)
		}
	}

	return rates, nil
}

// RateFor returns the hourly rate for a section title. An exact match wins
// over a substring match; without any match the default rate applies.
func (r *Rates) RateFor(title string) decimal.Decimal {
	for _, rule := range r.rules {
		if rule.match == title {
			return rule.rate
		}
	}
	for _, rule := range r.rules {
		if strings.Contains(title, rule.match) {
			return rule.rate
		}
	}
	return r.defaultRate
}

// InvoiceUnit returns the billing unit for invoice items.
func (r *Rates) InvoiceUnit() string {
	return r.invoiceUnit
}

// InvoiceVAT returns the VAT percentage for invoice items.
func (r *Rates) InvoiceVAT() decimal.Decimal {
	return r.invoiceVAT
}
