package compare

import "github.com/cleared-dev/settle/internal/model"

// EventKind identifies a notable step of a comparator run.
type EventKind string

const (
	// EventExactPass reports how many pairs matched exactly.
	EventExactPass EventKind = "exact_pass"
	// EventNewHolds reports holds that first appeared in the newer snapshot.
	EventNewHolds EventKind = "new_holds"
	// EventVanishedSkipped reports a tolerated missing "B" settlement.
	EventVanishedSkipped EventKind = "vanished_skipped"
	// EventHardRetry reports an ambiguous match retried in hard mode.
	EventHardRetry EventKind = "hard_retry"
	// EventSoftRetry reports the comparison restarting in soft mode.
	EventSoftRetry EventKind = "soft_retry"
	// EventExtraSoft reports the card-only rescue attempt.
	EventExtraSoft EventKind = "extra_soft"
	// EventHoldsDeleted reports leftover holds classified as cancelled.
	EventHoldsDeleted EventKind = "holds_deleted"
	// EventUnreconciled reports leftovers that no mode could explain.
	EventUnreconciled EventKind = "unreconciled"
)

// Event describes one step. Count and Transactions are filled in where
// they mean something for the kind.
type Event struct {
	Kind         EventKind
	Mode         MatchMode
	Message      string
	Count        int
	Transactions []model.Transaction
}

// Observer receives progress events from a comparator run.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
