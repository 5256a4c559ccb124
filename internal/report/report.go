// Package report renders a compare.Diff for people and for other tools.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/settle/internal/compare"
	"github.com/cleared-dev/settle/internal/model"
)

// Header is the CSV header written by WriteCSV.
const Header = "kind,current_id,id,date,account,direction,amount,currency,reference,description"

// Row kinds.
const (
	KindNewHold      = "new_hold"
	KindNewCommitted = "new_committed"
	KindUpdated      = "updated"
	KindDeleted      = "deleted"
)

const (
	numFields  = 10
	dateFormat = "2006-01-02"
	colKind    = 0
	colCurID   = 1
	colID      = 2
	colDate    = 3
	colAccount = 4
	colDir     = 5
	colAmount  = 6
	colCurr    = 7
	colRef     = 8
	colDesc    = 9
)

// WriteText writes a human-readable listing of diff.
func WriteText(w io.Writer, diff *compare.Diff) error {
	var b strings.Builder
	s := diff.Summary()

	fmt.Fprintf(&b, "mode: %s\n", diff.Mode())
	fmt.Fprintf(&b, "unchanged: %d\n", diff.Same())

	fmt.Fprintf(&b, "new holds: %d\n", s.NewHold)
	for _, t := range diff.NewHold() {
		writeTextLine(&b, t)
	}
	fmt.Fprintf(&b, "new committed: %d\n", s.NewCommitted)
	for _, t := range diff.NewCommitted() {
		writeTextLine(&b, t)
	}
	fmt.Fprintf(&b, "updated: %d\n", s.Updated)
	for _, u := range diff.Updated() {
		fmt.Fprintf(&b, "  %s ->\n", u.CurrentID)
		b.WriteString("  ")
		writeTextLine(&b, u.Transaction)
	}
	fmt.Fprintf(&b, "deleted: %d\n", s.Deleted)
	for _, id := range diff.Deleted() {
		fmt.Fprintf(&b, "  %s\n", id)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTextLine(b *strings.Builder, t model.Transaction) {
	ref := t.Reference()
	if ref == "" {
		ref = model.HoldReference
	}
	fmt.Fprintf(b, "  %s  %-3s  %12s %s  %-14s  %s\n",
		t.Date().Format(dateFormat), t.Direction(), t.Amount().Amount.StringFixed(2), t.Amount().Currency, ref, t.Description())
}

// WriteSummaryYAML writes the four diff counters as a YAML document.
func WriteSummaryYAML(w io.Writer, s compare.Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return enc.Close()
}

// WriteCSV writes every changed transaction of diff as one row, header
// included. Deleted rows carry only the stored transaction id.
func WriteCSV(w io.Writer, diff *compare.Diff) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	var rows [][]string
	for _, t := range diff.NewHold() {
		rows = append(rows, MarshalRow(KindNewHold, uuid.Nil, &t))
	}
	for _, t := range diff.NewCommitted() {
		rows = append(rows, MarshalRow(KindNewCommitted, uuid.Nil, &t))
	}
	for _, u := range diff.Updated() {
		rows = append(rows, MarshalRow(KindUpdated, u.CurrentID, &u.Transaction))
	}
	for _, id := range diff.Deleted() {
		rows = append(rows, MarshalRow(KindDeleted, id, nil))
	}

	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRow converts one diff entry to a CSV row. currentID is the stored
// transaction the entry replaces or removes; t is nil for deletions.
func MarshalRow(kind string, currentID uuid.UUID, t *model.Transaction) []string {
	row := make([]string, numFields)
	row[colKind] = kind
	if currentID != uuid.Nil {
		row[colCurID] = currentID.String()
	}
	if t == nil {
		return row
	}

	row[colID] = t.ID().String()
	row[colDate] = t.Date().Format(dateFormat)
	row[colAccount] = t.Account()
	row[colDir] = string(t.Direction())
	row[colAmount] = t.Amount().Amount.StringFixed(2)
	row[colCurr] = t.Amount().Currency
	row[colRef] = t.Reference()
	row[colDesc] = t.Description()
	return row
}
