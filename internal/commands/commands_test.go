package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/commands"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/runlog"
	"github.com/cleared-dev/tally/internal/txnstore"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func runTally(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// newWorkspace runs tally init in a temp dir.
func newWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runTally(t, "init", dir)
	require.NoError(t, err)
	return dir
}

func copyFixture(t *testing.T, name, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func stageImport(t *testing.T, dir, fixture string) {
	t.Helper()
	copyFixture(t, fixture, filepath.Join(dir, "import", fixture))
}

func useDebtFixture(t *testing.T, dir string) {
	t.Helper()
	copyFixture(t, "debts.csv", filepath.Join(dir, accounts.RelPath))
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runTally(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized tally workspace")

	for _, d := range []string{"accounts", "import", filepath.Join("import", "processed"), "data", "logs", "reports"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "export", cfg.Ingest.DefaultFormat)

	svc, err := accounts.Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc.All(), 3)
}

func TestInit_Git(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--git")
	require.NoError(t, err)
	assert.True(t, gitops.IsRepo(dir))

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.True(t, cfg.Git.AutoCommit)

	stageImport(t, dir, "export.csv")
	out, err := runTally(t, "import", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Committed")

	log := exec.Command("git", "log", "--format=%s")
	log.Dir = dir
	history, err := log.Output()
	require.NoError(t, err)
	assert.Equal(t, "import: 4 transactions from 1 files\ninit: tally workspace\n", string(history))
}

func TestInit_RefusesExistingWorkspace(t *testing.T) {
	dir := newWorkspace(t)
	_, err := runTally(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCommands_RequireWorkspace(t *testing.T) {
	dir := t.TempDir()
	for _, args := range [][]string{
		{"import", "--repo", dir},
		{"subscriptions", "--repo", dir},
		{"debt", "plan", "--repo", dir},
		{"debt", "compare", "--repo", dir},
		{"debt", "accounts", "--repo", dir},
		{"debt", "--repo", dir},
		{"report", "--repo", dir},
		{"log", "--repo", dir},
	} {
		_, err := runTally(t, args...)
		require.Error(t, err, "%v", args)
		assert.Contains(t, err.Error(), "not a tally workspace", "%v", args)
	}
}

func TestImport_ExportFormat(t *testing.T) {
	dir := newWorkspace(t)
	stageImport(t, dir, "export.csv")

	out, err := runTally(t, "import", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "export.csv: parsed 7, kept 4, added 4, skipped 0")

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "export.csv"))
	assert.NoError(t, err, "file should be moved to processed")
	_, err = os.Stat(filepath.Join(dir, "import", "export.csv"))
	assert.True(t, os.IsNotExist(err))

	txns, err := txnstore.NewStore(dir).ReadAll()
	require.NoError(t, err)
	require.Len(t, txns, 4)
	assert.Equal(t, "2025-01-001", txns[0].ID)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "import", entries[0].Command)
	assert.Equal(t, entries[0].RunID, entries[1].RunID)
	assert.Equal(t, 4, entries[1].Count)
}

func TestImport_SkipsAlreadyStoredRows(t *testing.T) {
	dir := newWorkspace(t)
	stageImport(t, dir, "export.csv")
	_, err := runTally(t, "import", "--repo", dir)
	require.NoError(t, err)

	stageImport(t, dir, "export.csv")
	out, err := runTally(t, "import", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "added 0, skipped 4")

	txns, err := txnstore.NewStore(dir).ReadAll()
	require.NoError(t, err)
	assert.Len(t, txns, 4)
}

func TestImport_ChaseFormat(t *testing.T) {
	dir := newWorkspace(t)
	stageImport(t, dir, "chase_checking.csv")

	out, err := runTally(t, "import", "--repo", dir, "--format", "chase")
	require.NoError(t, err)
	// The PayPal transfer is ignored and the deposit is income.
	assert.Contains(t, out, "chase_checking.csv: parsed 6, kept 4, added 4")
}

func TestImport_UnknownFormat(t *testing.T) {
	dir := newWorkspace(t)
	_, err := runTally(t, "import", "--repo", dir, "--format", "ofx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "ofx"`)
	assert.Contains(t, err.Error(), "chase, export")
}

func TestImport_NoFiles(t *testing.T) {
	dir := newWorkspace(t)
	out, err := runTally(t, "import", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No CSV files")
}

func TestImport_BadFileLeftInPlace(t *testing.T) {
	dir := newWorkspace(t)
	bad := "Date,Name\n2025-01-01,Nope\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "bad.csv"), []byte(bad), 0o644))

	_, err := runTally(t, "import", "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.csv")

	_, err = os.Stat(filepath.Join(dir, "import", "bad.csv"))
	assert.NoError(t, err)
}

func TestImport_LogsFilesBeforeFailure(t *testing.T) {
	dir := newWorkspace(t)
	copyFixture(t, "export.csv", filepath.Join(dir, "import", "a_export.csv"))
	bad := "Date,Name\n2025-01-01,Nope\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "z_bad.csv"), []byte(bad), 0o644))

	_, err := runTally(t, "import", "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "z_bad.csv")

	// a_export.csv was stored and moved before z_bad.csv failed.
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "a_export.csv"))
	require.NoError(t, err)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "parse", entries[0].Action)
	assert.Equal(t, "a_export.csv", entries[0].Details)
	assert.Equal(t, "append", entries[1].Action)
	assert.Equal(t, 4, entries[1].Count)
}

const netflixCSV = `Date,Name,Amount,Category,Description,Account Name
2025-01-01,Netflix,15.99,Entertainment,NETFLIX.COM,Sapphire
2025-01-31,Netflix,15.99,Entertainment,NETFLIX.COM,Sapphire
2025-03-02,Netflix,15.99,Entertainment,NETFLIX.COM,Sapphire
2025-02-14,Trader Joe's,48.10,Groceries,TRADER JOE S,Sapphire
`

func TestSubscriptions(t *testing.T) {
	dir := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "netflix.csv"), []byte(netflixCSV), 0o644))
	_, err := runTally(t, "import", "--repo", dir)
	require.NoError(t, err)

	out, err := runTally(t, "subscriptions", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "recurring charges")
	assert.Contains(t, out, "Netflix")
	assert.Contains(t, out, "active subscriptions: 1")
	assert.NotContains(t, out, "Trader Joe")
}

func TestSubscriptions_Manual(t *testing.T) {
	dir := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "netflix.csv"), []byte(netflixCSV), 0o644))
	_, err := runTally(t, "import", "--repo", dir)
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Subscriptions = []config.Subscription{
		{Name: "Netflix Premium", Merchant: "Netflix", Amount: decimal.RequireFromString("22.99"), IntervalDays: 30},
		{Name: "Hulu", Merchant: "Hulu", Amount: decimal.RequireFromString("7.99"), IntervalDays: 30, EndDate: "2025-01-15", Cancelled: true},
	}
	require.NoError(t, config.Save(cfgPath, cfg))

	out, err := runTally(t, "subscriptions", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "--- manual subscriptions ---")
	assert.Contains(t, out, "Netflix Premium")
	assert.Contains(t, out, "ended 2025-01-15")
	assert.Contains(t, out, "tracked subscriptions: 1")
	assert.Contains(t, out, "combined monthly: $22.99")
}

func TestSubscriptions_Empty(t *testing.T) {
	dir := newWorkspace(t)
	out, err := runTally(t, "subs", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "no recurring patterns detected")
}

func TestSubscriptions_BadAsOf(t *testing.T) {
	dir := newWorkspace(t)
	_, err := runTally(t, "subscriptions", "--repo", dir, "--as-of", "03/01/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --as-of")
}

func TestDebtPlan_NoDebt(t *testing.T) {
	dir := newWorkspace(t)
	out, err := runTally(t, "debt", "plan", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No outstanding debt")
}

func TestDebtPlan(t *testing.T) {
	dir := newWorkspace(t)
	useDebtFixture(t, dir)

	out, err := runTally(t, "debt", "plan", "--repo", dir, "--budget", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "payoff plan (avalanche)")
	assert.Contains(t, out, "1. Capital One")
	assert.Contains(t, out, "projected interest")

	assert.NotContains(t, out, "Toyota", "paid-off accounts stay out of the plan")

	// Capital One has the smallest outstanding balance; the paid-off
	// auto loan must not take the surplus.
	out, err = runTally(t, "debt", "plan", "--repo", dir, "--budget", "1000", "--strategy", "snowball")
	require.NoError(t, err)
	assert.Contains(t, out, "payoff plan (snowball)")
	assert.Contains(t, out, "1. Capital One")
	assert.NotContains(t, out, "Toyota")
}

func TestDebtOverview(t *testing.T) {
	dir := newWorkspace(t)
	useDebtFixture(t, dir)
	stageImport(t, dir, "export.csv")
	_, err := runTally(t, "import", "--repo", dir)
	require.NoError(t, err)

	out, err := runTally(t, "debt", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "total debt: $22,450.00")
	assert.Contains(t, out, "payoff plan (avalanche)")
	assert.Contains(t, out, "credit utilization")
	assert.NotContains(t, out, "recurring charges")
	assert.NotContains(t, out, "TALLY FINANCIAL REPORT")
}

func TestDebtOverview_NoDebt(t *testing.T) {
	dir := newWorkspace(t)
	out, err := runTally(t, "debt", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "no outstanding debt")
}

func TestDebtAccounts(t *testing.T) {
	dir := newWorkspace(t)
	useDebtFixture(t, dir)

	out, err := runTally(t, "debt", "accounts", "--repo", dir)
	require.NoError(t, err)
	for _, want := range []string{
		"--- credit card ---",
		"Chase Credit Card",
		"Capital One",
		"--- student loan ---",
		"--- auto loan ---",
		"paid off",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "--- other ---")

	out, err = runTally(t, "debt", "accounts", "--repo", dir, "Capital One")
	require.NoError(t, err)
	assert.Contains(t, out, "--- Capital One ---")
	assert.Contains(t, out, "credit limit: $2,000.00")
	assert.Contains(t, out, "utilization: 90.0% high")
	assert.Contains(t, out, "interest rate: 24.99%")

	_, err = runTally(t, "debt", "accounts", "--repo", dir, "Amex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown account "Amex"`)
}

func TestDebtPlan_InvalidFlags(t *testing.T) {
	dir := newWorkspace(t)
	useDebtFixture(t, dir)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--strategy", "lottery"}, `unknown strategy "lottery"`},
		{[]string{"--budget", "lots"}, `invalid --budget "lots"`},
		{[]string{"--budget", "-5"}, "must not be negative"},
	}
	for _, tt := range tests {
		args := append([]string{"debt", "plan", "--repo", dir}, tt.args...)
		_, err := runTally(t, args...)
		require.Error(t, err, "%v", tt.args)
		assert.Contains(t, err.Error(), tt.want)
	}
}

func TestDebtCompare(t *testing.T) {
	dir := newWorkspace(t)
	useDebtFixture(t, dir)

	out, err := runTally(t, "debt", "compare", "--repo", dir, "--budget", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "strategy comparison")
	assert.Contains(t, out, "avalanche:")
	assert.Contains(t, out, "snowball:")
	assert.Contains(t, out, "recommended:")
}

func TestReport_Stdout(t *testing.T) {
	dir := newWorkspace(t)
	useDebtFixture(t, dir)
	stageImport(t, dir, "export.csv")
	_, err := runTally(t, "import", "--repo", dir)
	require.NoError(t, err)

	out, err := runTally(t, "report", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "TALLY FINANCIAL REPORT")
	assert.Contains(t, out, "as of: 2025-01-20")
	assert.Contains(t, out, "total debt: $22,450.00")
	assert.Contains(t, out, "Trader Joe's")
}

func TestReport_OutFile(t *testing.T) {
	dir := newWorkspace(t)
	outPath := filepath.Join(dir, "reports", "jan.txt")

	out, err := runTally(t, "report", "--repo", dir, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "====="))
	assert.Contains(t, string(data), "no outstanding debt")

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report", entries[0].Command)
	assert.Equal(t, "write_report", entries[0].Action)
	assert.Equal(t, outPath, entries[0].Details)
}

func TestLog(t *testing.T) {
	dir := newWorkspace(t)
	out, err := runTally(t, "log", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs logged")

	stageImport(t, dir, "export.csv")
	_, err = runTally(t, "import", "--repo", dir)
	require.NoError(t, err)
	_, err = runTally(t, "report", "--repo", dir, "--out", filepath.Join(dir, "reports", "r.txt"))
	require.NoError(t, err)

	out, err = runTally(t, "log", "--repo", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "import")
	assert.Contains(t, out, "write_report")

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	importRun := entries[0].RunID.String()

	out, err = runTally(t, "log", "--repo", dir, "--run", importRun)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, importRun))
	assert.Contains(t, out, "export.csv")
	assert.NotContains(t, out, "write_report")
}

func TestLog_BadRun(t *testing.T) {
	dir := newWorkspace(t)

	_, err := runTally(t, "log", "--repo", dir, "--run", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid --run "yesterday"`)

	_, err = runTally(t, "log", "--repo", dir, "--run", uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entries for run")
}

func TestVersionFlag(t *testing.T) {
	out, err := runTally(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "tally version")
}
