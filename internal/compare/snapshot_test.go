package compare_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/settle/internal/compare"
	"github.com/cleared-dev/settle/internal/importer"
	"github.com/cleared-dev/settle/internal/model"
)

const (
	beforeFile = "movementList_2018-02-28_18-15-23.csv"
	afterFile  = "movementList_2018-03-01_09-00-00.csv"
)

func loadSnapshot(t *testing.T, name string) *model.Collection {
	t.Helper()
	txns, err := importer.LoadFile(
		filepath.Join("../../testdata/alfabank", name),
		importer.NewAlfaParser(nil),
		importer.EncodingAuto,
	)
	require.NoError(t, err)
	return txns
}

func TestSnapshots_Unchanged(t *testing.T) {
	before := loadSnapshot(t, beforeFile)

	diff, err := compare.New(nil).Diff(before, loadSnapshot(t, beforeFile))
	require.NoError(t, err)
	assert.Equal(t, compare.Summary{}, diff.Summary())
	assert.Equal(t, 2, diff.Same())
	assert.True(t, diff.IsEmpty())
}

func TestSnapshots_HoldSettles(t *testing.T) {
	before := loadSnapshot(t, beforeFile)
	after := loadSnapshot(t, afterFile)

	diff, err := compare.New(nil).Diff(before, after)
	require.NoError(t, err)
	assert.Equal(t, compare.Summary{Updated: 1}, diff.Summary())
	assert.Equal(t, compare.ModeNormal, diff.Mode())

	hold := before.Holds().Transactions()[0]
	updated := diff.Updated()
	require.Len(t, updated, 1)
	assert.Equal(t, hold.ID(), updated[0].CurrentID)
	assert.Equal(t, "CRD_8U9I0O", updated[0].Transaction.Reference())
}

func TestSnapshots_Chain(t *testing.T) {
	files, err := importer.Scan("../../testdata/alfabank/chain")
	require.NoError(t, err)
	require.Len(t, files, 3)

	want := []compare.Summary{
		{Updated: 1},
		{NewHold: 1},
	}

	c := compare.New(nil)
	current := loadSnapshot(t, filepath.Join("chain", files[0].Name))
	for i, f := range files[1:] {
		next := loadSnapshot(t, filepath.Join("chain", f.Name))
		diff, err := c.Diff(current, next)
		require.NoError(t, err, f.Name)
		assert.Equal(t, want[i], diff.Summary(), f.Name)
		current = next
	}
}
