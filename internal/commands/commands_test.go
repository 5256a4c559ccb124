package commands_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/settle/internal/commands"
	"github.com/cleared-dev/settle/internal/compare"
	"github.com/cleared-dev/settle/internal/config"
)

const fixtures = "../../testdata/alfabank"

var (
	before = filepath.Join(fixtures, "movementList_2018-02-28_18-15-23.csv")
	after  = filepath.Join(fixtures, "movementList_2018-03-01_09-00-00.csv")
)

func runSettle(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestInit_WritesConfig(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runSettle(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized settle project")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "alfabank", cfg.Importer.Format)

	info, err := os.Stat(filepath.Join(dir, "snapshots"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runSettle(t, "init", dir)
	require.NoError(t, err)

	_, _, err = runSettle(t, "init", dir)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = runSettle(t, "init", dir, "--force")
	assert.NoError(t, err)
}

func TestDiff_YAML(t *testing.T) {
	out, _, err := runSettle(t, "diff", before, after, "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "new_hold: 0\nnew_committed: 0\nupdated: 1\ndeleted: 0\n", out)
}

func TestDiff_Text(t *testing.T) {
	out, _, err := runSettle(t, "diff", before, after)
	require.NoError(t, err)
	assert.Contains(t, out, "mode: normal\n")
	assert.Contains(t, out, "unchanged: 1\n")
	assert.Contains(t, out, "updated: 1\n")
	assert.Contains(t, out, "CRD_8U9I0O")
}

func TestDiff_CSV(t *testing.T) {
	out, _, err := runSettle(t, "diff", before, after, "--format", "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "updated", records[1][0])
	assert.Equal(t, "CRD_8U9I0O", records[1][8])
}

func TestDiff_UnknownFormat(t *testing.T) {
	_, _, err := runSettle(t, "diff", before, after, "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestDiff_VanishedCommittedFails(t *testing.T) {
	// The newer export no longer carries CRD_8U9I0O.
	_, _, err := runSettle(t, "diff", after, before)
	require.Error(t, err)
	assert.ErrorIs(t, err, compare.ErrVanishedCommitted)
	assert.Contains(t, err.Error(), "CRD_8U9I0O")
}

func TestDiff_MissingFile(t *testing.T) {
	_, _, err := runSettle(t, "diff", before, filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorContains(t, err, "opening snapshot")
}

func TestDiff_ExplicitConfigMustExist(t *testing.T) {
	_, _, err := runSettle(t, "diff", before, after, "--config", filepath.Join(t.TempDir(), "settle.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiff_DebugLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	cfg := config.Default()
	cfg.Log.Level = "debug"
	require.NoError(t, config.Save(path, cfg))

	_, stderr, err := runSettle(t, "diff", before, after, "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "event=exact_pass")
	assert.Contains(t, stderr, "loaded snapshot")
}

func TestDiff_UnknownImporterFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	cfg := config.Default()
	cfg.Importer.Format = "sberbank"
	require.NoError(t, config.Save(path, cfg))

	_, _, err := runSettle(t, "diff", before, after, "--config", path)
	assert.ErrorContains(t, err, `unknown importer format "sberbank"`)
}

func TestChain(t *testing.T) {
	out, _, err := runSettle(t, "chain", filepath.Join(fixtures, "chain"))
	require.NoError(t, err)
	assert.Equal(t,
		"movementList_2018-03-01_09-00-00.csv: new_hold=0 new_committed=0 updated=1 deleted=0 mode=normal\n"+
			"movementList_2018-03-02_20-00-17.csv: new_hold=1 new_committed=0 updated=0 deleted=0 mode=normal\n",
		out)
}

func TestChain_NeedsTwoSnapshots(t *testing.T) {
	_, _, err := runSettle(t, "chain", t.TempDir())
	assert.ErrorContains(t, err, "need at least two snapshots")
}

func TestParse_Hold(t *testing.T) {
	out, _, err := runSettle(t, "parse", "23263612 RU PAYULLC vscale.io>g. Sa 18.02.28 18.02.28 1.00 RUR 111111++++++2222")
	require.NoError(t, err)
	assert.Contains(t, out, "23263612")
	assert.Contains(t, out, "card: 111111++++++2222")
	assert.Contains(t, out, "amount: RUB 1.00")
	assert.Contains(t, out, "committed: null")
}

func TestParse_Committed(t *testing.T) {
	out, _, err := runSettle(t, "parse", `111111++++++2222    23263612\RUS\g. Sa\PAYULLC vscale.io         01.03.18 28.02.18         1.00  RUR MCC4816`)
	require.NoError(t, err)
	assert.Contains(t, out, "hold: null")
	assert.Contains(t, out, "company: PAYULLC vscale.io")
	assert.Contains(t, out, "2018-02-28")
}

func TestParse_Unparseable(t *testing.T) {
	out, _, err := runSettle(t, "parse", "Interest payment")
	require.NoError(t, err)
	assert.Equal(t, "hold: null\ncommitted: null\n", out)
}

func TestVersion(t *testing.T) {
	out, _, err := runSettle(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none, built: unknown)")
}
