package model

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTransaction is returned when a transaction is built from incomplete data.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Direction is the side of the account a transaction moves money on.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// HoldReference is the sentinel some exports use in place of an empty reference.
const HoldReference = "HOLD"

// TransactionParams holds the fields needed to build a Transaction.
type TransactionParams struct {
	ID          uuid.UUID // optional; a new one is generated when zero
	Date        time.Time
	Account     string
	Direction   Direction
	Amount      Money
	Description string
	Reference   string // "" or HoldReference for a hold
}

// Transaction is one bank record. It is read-only once built: every field
// is unexported and there are no setters.
type Transaction struct {
	id          uuid.UUID
	date        time.Time
	account     string
	direction   Direction
	amount      Money
	description string
	reference   string
	hash        [sha256.Size]byte
}

// NewTransaction validates params and returns a Transaction.
func NewTransaction(p TransactionParams) (Transaction, error) {
	if p.Date.IsZero() {
		return Transaction{}, fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if p.Direction != DirectionIn && p.Direction != DirectionOut {
		return Transaction{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidTransaction, p.Direction)
	}
	if p.Amount.Currency == "" {
		return Transaction{}, fmt.Errorf("%w: missing currency", ErrInvalidTransaction)
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	ref := p.Reference
	if ref == HoldReference {
		ref = ""
	}

	t := Transaction{
		id:          id,
		date:        truncateDay(p.Date),
		account:     p.Account,
		direction:   p.Direction,
		amount:      p.Amount,
		description: p.Description,
		reference:   ref,
	}
	t.hash = t.hashData()
	return t, nil
}

// ID returns the identifier assigned at creation.
func (t Transaction) ID() uuid.UUID { return t.id }

// Date returns the transaction day (midnight UTC).
func (t Transaction) Date() time.Time { return t.date }

// Account returns the account identifier.
func (t Transaction) Account() string { return t.account }

// Direction returns in or out.
func (t Transaction) Direction() Direction { return t.direction }

// Amount returns the stored amount.
func (t Transaction) Amount() Money { return t.amount }

// Description returns the raw bank description.
func (t Transaction) Description() string { return t.description }

// Reference returns the settlement reference, or "" for a hold.
func (t Transaction) Reference() string { return t.reference }

// IsHold reports whether the transaction is still an authorization.
func (t Transaction) IsHold() bool { return t.reference == "" }

// IsCommitted reports whether the transaction has settled.
func (t Transaction) IsCommitted() bool { return t.reference != "" }

// EqualData reports whether both transactions carry the same date, amount,
// direction, reference, description and account. Identifiers are ignored.
func (t Transaction) EqualData(other Transaction) bool {
	return t.hash == other.hash
}

func (t Transaction) hashData() [sha256.Size]byte {
	fields := []string{
		t.date.Format(time.DateOnly),
		t.amount.Amount.String(),
		t.amount.Currency,
		string(t.direction),
		t.reference,
		t.description,
		t.account,
	}
	// Unit separator keeps field boundaries unambiguous.
	return sha256.Sum256([]byte(strings.Join(fields, "\x1f")))
}

func truncateDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
