package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func TestNewService(t *testing.T) {
	svc := NewService(SampleAccounts())
	assert.Len(t, svc.All(), 3)
}

func TestGet(t *testing.T) {
	svc := NewService(SampleAccounts())

	acct, ok := svc.Get("Chase Credit Card")
	require.True(t, ok)
	assert.Equal(t, model.AccountTypeCreditCard, acct.Type)

	_, ok = svc.Get("Amex")
	assert.False(t, ok)

	_, ok = svc.Get("toyota auto loan")
	assert.False(t, ok, "names are case-sensitive")
}

func TestByType(t *testing.T) {
	svc := NewService(SampleAccounts())

	loans := svc.ByType(model.AccountTypeStudentLoan)
	require.Len(t, loans, 1)
	assert.Equal(t, "Student Loan (Dept Education)", loans[0].Name)

	assert.Empty(t, svc.ByType(model.AccountTypeOther))
}

func TestLoadFromTestdata(t *testing.T) {
	data, err := os.ReadFile("../../testdata/debts.csv")
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "accounts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, RelPath), data, 0o644))

	svc, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc.All(), 4)
	assert.Len(t, svc.ByType(model.AccountTypeCreditCard), 2)
	assert.Len(t, svc.Outstanding(), 3)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	accts := SampleAccounts()
	accts[0].Balance = dec("1200.00")
	require.NoError(t, NewService(accts).Save(dir))

	svc, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, svc.All(), 3)

	card, ok := svc.Get("Chase Credit Card")
	require.True(t, ok)
	assert.True(t, card.Balance.Equal(dec("1200")))

	outstanding := svc.Outstanding()
	require.Len(t, outstanding, 1)
	assert.Equal(t, "Chase Credit Card", outstanding[0].Name)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNoAccounts)
}
