package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Collection is an ordered, immutable set of transactions. Every operation
// that narrows it returns a new Collection and leaves the receiver intact.
type Collection struct {
	txns []Transaction
}

// NewCollection returns a Collection holding a copy of txns.
func NewCollection(txns ...Transaction) *Collection {
	return &Collection{txns: slices.Clone(txns)}
}

// Len returns the number of transactions.
func (c *Collection) Len() int { return len(c.txns) }

// IsEmpty reports whether the collection has no transactions.
func (c *Collection) IsEmpty() bool { return len(c.txns) == 0 }

// Transactions returns a copy of the members in order.
func (c *Collection) Transactions() []Transaction {
	return slices.Clone(c.txns)
}

// First returns the first member, if any.
func (c *Collection) First() (Transaction, bool) {
	if len(c.txns) == 0 {
		return Transaction{}, false
	}
	return c.txns[0], true
}

// Filter returns the members for which keep returns true.
func (c *Collection) Filter(keep func(Transaction) bool) *Collection {
	var out []Transaction
	for _, t := range c.txns {
		if keep(t) {
			out = append(out, t)
		}
	}
	return &Collection{txns: out}
}

// Without returns the collection minus the transaction with the given ID.
func (c *Collection) Without(id uuid.UUID) *Collection {
	return c.Filter(func(t Transaction) bool { return t.ID() != id })
}

// Holds returns the members that have no reference.
func (c *Collection) Holds() *Collection {
	return c.Filter(Transaction.IsHold)
}

// Committed returns the members that carry a reference.
func (c *Collection) Committed() *Collection {
	return c.Filter(Transaction.IsCommitted)
}

// FindByData returns the first member data-equal to needle.
func (c *Collection) FindByData(needle Transaction) (Transaction, bool) {
	for _, t := range c.txns {
		if t.EqualData(needle) {
			return t, true
		}
	}
	return Transaction{}, false
}

// FindByReference returns the first member with the given reference.
func (c *Collection) FindByReference(ref string) (Transaction, bool) {
	for _, t := range c.txns {
		if t.Reference() == ref {
			return t, true
		}
	}
	return Transaction{}, false
}

// FirstDay returns the earliest date among the members.
func (c *Collection) FirstDay() (time.Time, bool) {
	if len(c.txns) == 0 {
		return time.Time{}, false
	}
	first := c.txns[0].Date()
	for _, t := range c.txns[1:] {
		if t.Date().Before(first) {
			first = t.Date()
		}
	}
	return first, true
}

// Since returns the members dated on or after day.
func (c *Collection) Since(day time.Time) *Collection {
	return c.Filter(func(t Transaction) bool { return !t.Date().Before(day) })
}
