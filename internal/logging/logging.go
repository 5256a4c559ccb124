// Package logging builds the CLI logger and adapts it to comparator events.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/settle/internal/compare"
)

// New returns a text logger writing to w at the named level.
func New(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l, nil
}

// NewObserver reports comparator events to log. Pass statistics go to
// debug; escalations, skipped vanishings and deletions go to warn.
func NewObserver(log logrus.FieldLogger) compare.Observer {
	return compare.ObserverFunc(func(e compare.Event) {
		entry := log.WithFields(logrus.Fields{
			"event": string(e.Kind),
			"mode":  e.Mode.String(),
		})
		if e.Count > 0 {
			entry = entry.WithField("count", e.Count)
		}
		if refs := references(e); len(refs) > 0 {
			entry = entry.WithField("refs", refs)
		}

		msg := e.Message
		if msg == "" {
			msg = string(e.Kind)
		}

		switch e.Kind {
		case compare.EventExactPass, compare.EventNewHolds:
			entry.Debug(msg)
		case compare.EventUnreconciled:
			entry.Error(msg)
		default:
			entry.Warn(msg)
		}
	})
}

func references(e compare.Event) []string {
	var refs []string
	for _, t := range e.Transactions {
		if t.IsHold() {
			refs = append(refs, "hold:"+t.ID().String())
			continue
		}
		refs = append(refs, t.Reference())
	}
	return refs
}
