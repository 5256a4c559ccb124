// Package compare reconciles two snapshots of an account's transaction
// history. A hold (authorization) in the older snapshot is matched to the
// committed entry it settled into in the newer one; whatever cannot be
// explained is either reported as new, treated as a cancelled hold, or
// rejected with an error for manual review.
package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/settle/internal/description"
	"github.com/cleared-dev/settle/internal/model"
)

var (
	// ErrVanishedCommitted means a settled transaction is missing from the newer snapshot.
	ErrVanishedCommitted = errors.New("committed transactions disappeared")
	// ErrAmbiguousMatch means a committed transaction fits several distinct holds.
	ErrAmbiguousMatch = errors.New("committed transaction matches more than one hold")
	// ErrUnreconciled means stored holds are left over even under relaxed matching.
	ErrUnreconciled = errors.New("transactions left unreconciled")
)

const (
	// Settlements with these reference prefixes are known to drop out of
	// later exports and are not treated as data loss.
	vanishingRefPrefix = "B"
	// Only card payments are eligible for the card-only rescue match.
	cardRefPrefix = "CRD_"
)

// Comparator computes the Diff between two snapshots.
type Comparator struct {
	parser *description.Parser
}

// New returns a Comparator. A nil parser uses the default currency aliases.
func New(parser *description.Parser) *Comparator {
	if parser == nil {
		parser = description.NewParser(nil)
	}
	return &Comparator{parser: parser}
}

// Option configures a single Diff call.
type Option func(*run)

// WithObserver reports progress events of the call to o.
func WithObserver(o Observer) Option {
	return func(r *run) {
		if o != nil {
			r.obs = o
		}
	}
}

// Diff reconciles current (the stored snapshot) against next (the fresh
// one). The first pass matches in normal mode; if it leaves stored holds
// unexplained while producing new committed transactions, the whole
// comparison is repeated once in soft mode, and as a last resort a single
// leftover hold may be paired with a single new card payment by card alone.
// Any error means the batch needs manual review and no diff is returned.
func (c *Comparator) Diff(current, next *model.Collection, opts ...Option) (*Diff, error) {
	r := &run{parser: c.parser, obs: nopObserver{}}
	for _, opt := range opts {
		opt(r)
	}

	diff, leftover, err := r.pass(current, next, ModeNormal)
	if err != nil {
		return nil, err
	}
	if leftover == nil {
		return diff, nil
	}

	r.obs.Observe(Event{
		Kind:    EventSoftRetry,
		Mode:    ModeSoft,
		Message: fmt.Sprintf("found %d disappeared transactions, retrying in soft mode", leftover.Len()),
		Count:   leftover.Len(),
	})
	diff, leftover, err = r.pass(current, next, ModeSoft)
	if err != nil {
		return nil, err
	}
	if leftover == nil {
		return diff, nil
	}
	return r.rescue(diff, leftover)
}

type run struct {
	parser *description.Parser
	obs    Observer
}

// pass runs the algorithm once under mode. It returns a non-nil leftover
// collection when stored holds remain and new committed transactions were
// found, which calls for escalation.
func (r *run) pass(current, next *model.Collection, mode MatchMode) (*Diff, *model.Collection, error) {
	diff := &Diff{mode: mode}
	firstDay, ok := next.FirstDay()
	if !ok {
		return diff, nil, nil
	}
	current = current.Since(firstDay)

	for _, n := range next.Transactions() {
		var (
			stored model.Transaction
			found  bool
		)
		if n.IsHold() {
			stored, found = current.FindByData(n)
		} else {
			stored, found = current.FindByReference(n.Reference())
		}
		if found {
			current = current.Without(stored.ID())
			next = next.Without(n.ID())
			diff.addSame()
		}
	}
	r.obs.Observe(Event{
		Kind:    EventExactPass,
		Mode:    mode,
		Message: fmt.Sprintf("after exact pass: current %d, new %d", current.Len(), next.Len()),
		Count:   diff.same,
	})

	for _, h := range next.Holds().Transactions() {
		diff.addNew(h)
		next = next.Without(h.ID())
	}
	r.obs.Observe(Event{Kind: EventNewHolds, Mode: mode, Count: len(diff.newHold)})

	var lost []string
	for _, t := range current.Committed().Transactions() {
		if strings.HasPrefix(t.Reference(), vanishingRefPrefix) {
			r.obs.Observe(Event{
				Kind:         EventVanishedSkipped,
				Mode:         mode,
				Message:      "skip disappeared transaction " + t.Reference(),
				Transactions: []model.Transaction{t},
			})
			current = current.Without(t.ID())
			continue
		}
		lost = append(lost, t.Reference())
	}
	if len(lost) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrVanishedCommitted, strings.Join(lost, ", "))
	}

	for _, c := range next.Transactions() {
		hold, ok, err := r.matchHold(current, c, mode)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			current = current.Without(hold.ID())
			diff.addUpdated(hold.ID(), c)
		} else {
			diff.addNew(c)
		}
	}

	if current.IsEmpty() {
		return diff, nil, nil
	}
	if len(diff.newCommitted) > 0 {
		return diff, current, nil
	}

	// Nothing new settled, so the remaining holds were cancelled.
	r.obs.Observe(Event{
		Kind:         EventHoldsDeleted,
		Mode:         mode,
		Message:      fmt.Sprintf("delete %d hold transactions", current.Len()),
		Count:        current.Len(),
		Transactions: current.Transactions(),
	})
	for _, t := range current.Transactions() {
		diff.addDeleted(t.ID())
	}
	return diff, nil, nil
}

// rescue handles the soft-mode leftovers: exactly one stored hold and
// exactly one new outgoing card payment may still be paired by card.
func (r *run) rescue(diff *Diff, leftover *model.Collection) (*Diff, error) {
	var cardPayments []model.Transaction
	for _, t := range diff.newCommitted {
		if t.Direction() == model.DirectionOut && strings.HasPrefix(t.Reference(), cardRefPrefix) {
			cardPayments = append(cardPayments, t)
		}
	}

	hold, _ := leftover.First()
	if len(cardPayments) != 1 || leftover.Len() != 1 {
		r.obs.Observe(Event{
			Kind:         EventUnreconciled,
			Mode:         ModeSoft,
			Message:      fmt.Sprintf("%d disappeared, %d new card payments", leftover.Len(), len(cardPayments)),
			Count:        leftover.Len(),
			Transactions: append(leftover.Transactions(), cardPayments...),
		})
		return nil, fmt.Errorf("%w: %d disappeared transactions in soft mode", ErrUnreconciled, leftover.Len())
	}

	committed := cardPayments[0]
	r.obs.Observe(Event{
		Kind:         EventExtraSoft,
		Mode:         ModeExtraSoft,
		Message:      "trying card-only match for " + committed.Reference(),
		Transactions: []model.Transaction{hold, committed},
	})
	same, err := r.same(committed, hold, ModeExtraSoft)
	if err != nil {
		return nil, err
	}
	if !same {
		return nil, fmt.Errorf("%w: %q does not match %s even by card", ErrUnreconciled, hold.Description(), committed.Reference())
	}
	diff.addUpdated(hold.ID(), committed)
	diff.removeNew(committed)
	return diff, nil
}

// matchHold finds the single stored hold that committed settled from.
func (r *run) matchHold(current *model.Collection, committed model.Transaction, mode MatchMode) (model.Transaction, bool, error) {
	var matched []model.Transaction
	for _, hold := range current.Transactions() {
		same, err := r.same(committed, hold, mode)
		if err != nil {
			return model.Transaction{}, false, err
		}
		if same {
			matched = append(matched, hold)
		}
	}

	switch {
	case len(matched) == 0:
		return model.Transaction{}, false, nil
	case len(matched) == 1 || interchangeable(matched):
		return matched[0], true, nil
	case mode == ModeNormal:
		r.obs.Observe(Event{
			Kind:         EventHardRetry,
			Mode:         ModeHard,
			Message:      fmt.Sprintf("%s matches %d holds, retrying in hard mode", committed.Reference(), len(matched)),
			Count:        len(matched),
			Transactions: matched,
		})
		return r.matchHold(current, committed, ModeHard)
	default:
		return model.Transaction{}, false, fmt.Errorf("%w: %s matches %d holds in %s mode",
			ErrAmbiguousMatch, committed.Reference(), len(matched), mode)
	}
}

// interchangeable reports whether all holds share account, date, amount
// and description, so picking any of them is equivalent.
func interchangeable(holds []model.Transaction) bool {
	first := holds[0]
	for _, h := range holds[1:] {
		if h.Account() != first.Account() ||
			!h.Date().Equal(first.Date()) ||
			!h.Amount().SameAs(first.Amount()) ||
			h.Description() != first.Description() {
			return false
		}
	}
	return true
}

// same decides whether hold and committed describe the same payment under mode.
func (r *run) same(committed, hold model.Transaction, mode MatchMode) (bool, error) {
	if committed.Direction() != hold.Direction() {
		return false, nil
	}

	ci, err := r.parser.ExtractCommitted(committed.Description())
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", committed.Reference(), err)
	}
	hi, err := r.parser.ExtractHold(hold.Description())
	if err != nil {
		return false, fmt.Errorf("parsing hold %s: %w", hold.ID(), err)
	}

	// The card number is never relaxed. Two unparseable descriptions both
	// carry no card and fall through to the amount comparison.
	if committedCard(ci) != holdCard(hi) {
		return false, nil
	}
	if mode == ModeExtraSoft {
		return true, nil
	}

	if ci != nil && hi != nil {
		if mode != ModeSoft && ci.Code != "" && hi.Code != "" && ci.Code != hi.Code {
			return false, nil
		}
		if mode == ModeHard && !hold.Date().Equal(ci.HoldDate) {
			return false, nil
		}
		return ci.Amount.SameAs(hi.Amount), nil
	}

	if committed.Amount().SameAs(hold.Amount()) {
		return true, nil
	}
	if mode == ModeSoft {
		return convertedNearlyEqual(committed, ci, hold), nil
	}
	return false, nil
}

// convertedNearlyEqual accepts a 1% difference between the booked amounts
// when the payment was made in a currency other than the account's, so the
// settlement used a different exchange rate than the hold. The booked
// amounts themselves must share a currency.
func convertedNearlyEqual(committed model.Transaction, ci *description.Committed, hold model.Transaction) bool {
	if ci == nil || ci.Amount.Currency == committed.Amount().Currency {
		return false
	}
	near, err := committed.Amount().NearlyEqual(hold.Amount())
	return err == nil && near
}

func committedCard(c *description.Committed) string {
	if c == nil {
		return ""
	}
	return c.Card
}

func holdCard(h *description.Hold) string {
	if h == nil {
		return ""
	}
	return h.Card
}
