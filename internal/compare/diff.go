package compare

import (
	"slices"

	"github.com/google/uuid"

	"github.com/cleared-dev/settle/internal/model"
)

// Update pairs a stored hold with the committed transaction it settled into.
type Update struct {
	CurrentID   uuid.UUID
	Transaction model.Transaction
}

// Summary counts the outcome categories of a Diff.
type Summary struct {
	NewHold      int `yaml:"new_hold" json:"new_hold"`
	NewCommitted int `yaml:"new_committed" json:"new_committed"`
	Updated      int `yaml:"updated" json:"updated"`
	Deleted      int `yaml:"deleted" json:"deleted"`
}

// IsEmpty reports whether nothing changed.
func (s Summary) IsEmpty() bool {
	return s == Summary{}
}

// Diff is the result of reconciling two snapshots. It is assembled by the
// Comparator and read-only for callers: accessors return copies.
type Diff struct {
	same         int
	newHold      []model.Transaction
	newCommitted []model.Transaction
	updated      []Update
	deleted      []uuid.UUID
	mode         MatchMode
}

// Same returns the number of transactions present unchanged in both snapshots.
func (d *Diff) Same() int { return d.same }

// NewHold returns holds that first appear in the new snapshot.
func (d *Diff) NewHold() []model.Transaction { return slices.Clone(d.newHold) }

// NewCommitted returns committed transactions with no stored hold.
func (d *Diff) NewCommitted() []model.Transaction { return slices.Clone(d.newCommitted) }

// Updated returns holds that settled into committed transactions.
func (d *Diff) Updated() []Update { return slices.Clone(d.updated) }

// Deleted returns identifiers of stored holds that were cancelled.
func (d *Diff) Deleted() []uuid.UUID { return slices.Clone(d.deleted) }

// Mode returns the match mode of the pass that produced the diff.
func (d *Diff) Mode() MatchMode { return d.mode }

// Summary returns the four outcome counts.
func (d *Diff) Summary() Summary {
	return Summary{
		NewHold:      len(d.newHold),
		NewCommitted: len(d.newCommitted),
		Updated:      len(d.updated),
		Deleted:      len(d.deleted),
	}
}

// IsEmpty reports whether the diff carries no changes.
func (d *Diff) IsEmpty() bool { return d.Summary().IsEmpty() }

func (d *Diff) addSame() { d.same++ }

func (d *Diff) addNew(t model.Transaction) {
	if t.IsHold() {
		d.newHold = append(d.newHold, t)
		return
	}
	d.newCommitted = append(d.newCommitted, t)
}

// removeNew drops the first new entry data-equal to t, if any.
func (d *Diff) removeNew(t model.Transaction) {
	list := &d.newCommitted
	if t.IsHold() {
		list = &d.newHold
	}
	for i, n := range *list {
		if n.EqualData(t) {
			*list = slices.Delete(*list, i, i+1)
			return
		}
	}
}

func (d *Diff) addUpdated(currentID uuid.UUID, t model.Transaction) {
	d.updated = append(d.updated, Update{CurrentID: currentID, Transaction: t})
}

func (d *Diff) addDeleted(currentID uuid.UUID) {
	d.deleted = append(d.deleted, currentID)
}
