// Package description extracts identifying fields from bank-supplied
// transaction descriptions. Banks describe a card payment twice: a terse
// hold line when the payment is authorized and a longer committed line when
// it settles. Descriptions in neither layout (interest, transfers) are
// reported as unparseable rather than as errors.
package description

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/settle/internal/model"
)

// ErrBadDate is returned when a committed description embeds an impossible date.
var ErrBadDate = errors.New("malformed description date")

const descDateFormat = "02.01.06"

var committedRe = regexp.MustCompile(`^` +
	`(?P<card>\d+\++\d+)\s+` +
	`(?P<code>[\dA-Z]+)? *[/\\]` +
	`(?P<path>.+?)\s+` +
	`(?P<commit_date>\d\d\.\d\d\.\d\d)\s+` +
	`(?P<hold_date>\d\d\.\d\d\.\d\d)\s+` +
	`(?P<sum>[\d.]+)\s+` +
	`(?P<currency>[A-Z]{3})\s+` +
	`(?:\(Apple Pay.+?\)\s*)?` +
	`(?P<extra_code>[A-Z\d]+)` +
	`$`)

var holdRe = regexp.MustCompile(`^` +
	`(?:(?P<code>[\dA-Z]+)_? )?` +
	`[A-Z]{2} ` +
	`(?P<company>(?:[A-Z\d]+ )?[^>]+)?` +
	`(?:>(?P<city>.+)?)? ` +
	`\d{2}\.\d{2}\.\d{2} ` +
	`\d{2}\.\d{2}\.\d{2} ` +
	`(?P<sum>[\d.]+) ` +
	`(?P<currency>[A-Z]{3}) ` +
	`(?P<card>[\d+]+)` +
	`(?: \(Apple Pay.+?\))?` +
	`$`)

// Committed holds the fields of a settled-payment description.
type Committed struct {
	Card     string
	Code     string // empty when the bank omitted the merchant code
	Path     string // slash-delimited merchant path, e.g. `643\MOSKVA\WHEELY`
	Company  string // last path segment
	HoldDate time.Time
	Amount   model.Money
}

// Hold holds the fields of an authorization description.
type Hold struct {
	Code    string
	Card    string
	Company string
	Amount  model.Money
}

// Parser matches the two description layouts.
type Parser struct {
	currencies model.CurrencyAliases
}

// NewParser returns a Parser that resolves currency codes through aliases.
// A nil map falls back to the default aliases.
func NewParser(aliases model.CurrencyAliases) *Parser {
	if aliases == nil {
		aliases = model.DefaultCurrencyAliases()
	}
	return &Parser{currencies: aliases}
}

// ExtractCommitted parses a committed-style description. It returns nil
// with no error when the text is not in that layout.
func (p *Parser) ExtractCommitted(text string) (*Committed, error) {
	m := submatches(committedRe, text)
	if m == nil {
		return nil, nil
	}

	holdDate, err := time.Parse(descDateFormat, m["hold_date"])
	if err != nil {
		return nil, fmt.Errorf("%w: hold date %q: %v", ErrBadDate, m["hold_date"], err)
	}
	amount, err := p.money(m["sum"], m["currency"])
	if err != nil {
		return nil, err
	}

	path := m["path"]
	sections := strings.Split(strings.ReplaceAll(path, "/", `\`), `\`)

	return &Committed{
		Card:     m["card"],
		Code:     m["code"],
		Path:     path,
		Company:  sections[len(sections)-1],
		HoldDate: holdDate,
		Amount:   amount,
	}, nil
}

// ExtractHold parses a hold-style description, returning nil when the text
// is not in that layout.
func (p *Parser) ExtractHold(text string) (*Hold, error) {
	m := submatches(holdRe, text)
	if m == nil {
		return nil, nil
	}

	amount, err := p.money(m["sum"], m["currency"])
	if err != nil {
		return nil, err
	}

	return &Hold{
		Code:    m["code"],
		Card:    m["card"],
		Company: m["company"],
		Amount:  amount,
	}, nil
}

func (p *Parser) money(sum, currency string) (model.Money, error) {
	// Banks print sub-unit amounts without the leading zero: ".81".
	if strings.HasPrefix(sum, ".") {
		sum = "0" + sum
	}
	amount, err := decimal.NewFromString(sum)
	if err != nil {
		return model.Money{}, fmt.Errorf("parsing sum %q: %w", sum, err)
	}
	return model.NewMoney(amount, p.currencies.Resolve(currency)), nil
}

func submatches(re *regexp.Regexp, text string) map[string]string {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	out := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if name != "" {
			out[name] = match[i]
		}
	}
	return out
}
