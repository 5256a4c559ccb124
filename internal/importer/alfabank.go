package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/settle/internal/model"
)

// AlfaParser parses Alfa-Bank "movement list" CSV exports.
type AlfaParser struct {
	currencies model.CurrencyAliases
}

// NewAlfaParser returns a parser resolving currency codes through aliases.
// A nil map uses the default aliases.
func NewAlfaParser(aliases model.CurrencyAliases) *AlfaParser {
	if aliases == nil {
		aliases = model.DefaultCurrencyAliases()
	}
	return &AlfaParser{currencies: aliases}
}

const (
	alfaDateFormat  = "02.01.06"
	alfaMinFields   = 8
	alfaColAccount  = 1
	alfaColCurrency = 2
	alfaColDate     = 3
	alfaColRef      = 4
	alfaColDesc     = 5
	alfaColIncome   = 6
	alfaColOutgoing = 7
)

// Format returns the parser name.
func (p *AlfaParser) Format() string { return "alfabank" }

// Parse reads a semicolon-delimited export. The header row is skipped.
func (p *AlfaParser) Parse(r io.Reader) (*model.Collection, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1 // rows end with a trailing ';'
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading alfabank CSV: %w", err)
	}

	if len(records) <= 1 {
		return model.NewCollection(), nil
	}

	txns := make([]model.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		txn, err := p.parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return model.NewCollection(txns...), nil
}

func (p *AlfaParser) parseRow(rec []string) (model.Transaction, error) {
	if len(rec) < alfaMinFields {
		return model.Transaction{}, fmt.Errorf("expected at least %d fields, got %d", alfaMinFields, len(rec))
	}

	date, err := time.Parse(alfaDateFormat, strings.TrimSpace(rec[alfaColDate]))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[alfaColDate], err)
	}

	income, err := parseAmount(rec[alfaColIncome])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing income %q: %w", rec[alfaColIncome], err)
	}
	outgoing, err := parseAmount(rec[alfaColOutgoing])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing outgoing %q: %w", rec[alfaColOutgoing], err)
	}
	if !income.IsZero() && !outgoing.IsZero() {
		return model.Transaction{}, fmt.Errorf("both income %s and outgoing %s are set", income, outgoing)
	}

	direction, amount := model.DirectionIn, income
	if income.IsZero() {
		direction, amount = model.DirectionOut, outgoing
	}

	code := strings.TrimSpace(rec[alfaColCurrency])
	if len(code) != 3 {
		return model.Transaction{}, fmt.Errorf("invalid currency code %q", code)
	}

	return model.NewTransaction(model.TransactionParams{
		Date:        date,
		Account:     strings.TrimSpace(rec[alfaColAccount]),
		Direction:   direction,
		Amount:      model.NewMoney(amount, p.currencies.Resolve(code)),
		Description: rec[alfaColDesc],
		Reference:   strings.TrimSpace(rec[alfaColRef]),
	})
}

// parseAmount accepts both "1480,50" and "1480.50"; empty means zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
