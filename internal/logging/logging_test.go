package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/settle/internal/compare"
	"github.com/cleared-dev/settle/internal/model"
)

func jsonLogger(t *testing.T, buf *bytes.Buffer) *logrus.Logger {
	t.Helper()
	l, err := New("debug", buf)
	require.NoError(t, err)
	l.SetFormatter(&logrus.JSONFormatter{DisableTimestamp: true})
	return l
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("warn", &buf)
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "time=")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("loud", &bytes.Buffer{})
	assert.ErrorContains(t, err, "log level")
}

func TestObserver_Levels(t *testing.T) {
	tests := []struct {
		kind  compare.EventKind
		level string
	}{
		{compare.EventExactPass, "debug"},
		{compare.EventNewHolds, "debug"},
		{compare.EventVanishedSkipped, "warning"},
		{compare.EventHardRetry, "warning"},
		{compare.EventSoftRetry, "warning"},
		{compare.EventExtraSoft, "warning"},
		{compare.EventHoldsDeleted, "warning"},
		{compare.EventUnreconciled, "error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			var buf bytes.Buffer
			NewObserver(jsonLogger(t, &buf)).Observe(compare.Event{Kind: tt.kind, Mode: compare.ModeNormal})

			got := lines(t, &buf)
			require.Len(t, got, 1)
			assert.Equal(t, tt.level, got[0]["level"])
			assert.Equal(t, string(tt.kind), got[0]["event"])
			assert.Equal(t, string(tt.kind), got[0]["msg"])
			assert.Equal(t, "normal", got[0]["mode"])
			assert.NotContains(t, got[0], "count")
		})
	}
}

func TestObserver_Fields(t *testing.T) {
	hold, err := model.NewTransaction(model.TransactionParams{
		Date:      time.Date(2018, 2, 28, 0, 0, 0, 0, time.UTC),
		Direction: model.DirectionOut,
		Amount:    model.NewMoney(decimal.NewFromInt(1), "RUB"),
	})
	require.NoError(t, err)
	payment, err := model.NewTransaction(model.TransactionParams{
		Date:      time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC),
		Direction: model.DirectionOut,
		Amount:    model.NewMoney(decimal.NewFromInt(1), "RUB"),
		Reference: "CRD_8U9I0O",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	NewObserver(jsonLogger(t, &buf)).Observe(compare.Event{
		Kind:         compare.EventExtraSoft,
		Mode:         compare.ModeExtraSoft,
		Message:      "trying card-only match",
		Count:        2,
		Transactions: []model.Transaction{hold, payment},
	})

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "trying card-only match", got[0]["msg"])
	assert.Equal(t, "extra_soft", got[0]["mode"])
	assert.EqualValues(t, 2, got[0]["count"])
	assert.Equal(t, []any{"hold:" + hold.ID().String(), "CRD_8U9I0O"}, got[0]["refs"])
}

func TestObserver_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("info", &buf)
	require.NoError(t, err)

	obs := NewObserver(l)
	obs.Observe(compare.Event{Kind: compare.EventExactPass, Mode: compare.ModeNormal})
	assert.Empty(t, buf.String())

	obs.Observe(compare.Event{Kind: compare.EventSoftRetry, Mode: compare.ModeSoft, Message: "retrying in soft mode"})
	assert.Contains(t, buf.String(), "retrying in soft mode")
}
