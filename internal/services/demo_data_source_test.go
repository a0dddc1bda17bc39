package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-dashboard/internal/filter"
	"wallet-dashboard/internal/models"
)

var demoNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.Local)

func TestDemoDataSource_Reproducible(t *testing.T) {
	ctx := context.Background()
	a := NewDemoDataSource(WithDemoSeed(42), WithDemoNow(demoNow))
	b := NewDemoDataSource(WithDemoSeed(42), WithDemoNow(demoNow))

	userA, err := a.GetUser(ctx)
	require.NoError(t, err)
	userB, err := b.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, userA, userB)

	txnsA, err := a.GetTransactions(ctx)
	require.NoError(t, err)
	txnsB, err := b.GetTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, txnsA, txnsB)
}

func TestDemoDataSource_TransactionsAreValid(t *testing.T) {
	source := NewDemoDataSource(WithDemoSeed(7), WithDemoTransactionCount(40), WithDemoNow(demoNow))

	transactions, err := source.GetTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, transactions, 40)

	earliest := filter.NormalizeToDate(demoNow.AddDate(0, 0, -90))
	for i, txn := range transactions {
		assert.NoError(t, txn.Validate(), "transaction %d", i)
		assert.True(t, txn.Amount.IsPositive(), "transaction %d", i)

		parsed, ok := filter.ParseDate(txn.Date)
		require.True(t, ok, "transaction %d has unparseable date %q", i, txn.Date)
		assert.False(t, filter.NormalizeToDate(parsed).Before(earliest), "transaction %d", i)
		assert.False(t, parsed.After(demoNow), "transaction %d", i)

		if txn.IsDeposit() {
			assert.NotEmpty(t, txn.PaymentReference)
			require.NotNil(t, txn.Metadata)
			assert.NotEmpty(t, txn.Metadata.Name)
		} else {
			assert.Equal(t, models.TransactionTypeWithdrawal, txn.Type)
			assert.Nil(t, txn.Metadata)
		}
	}
}

func TestDemoDataSource_ReturnsCopies(t *testing.T) {
	source := NewDemoDataSource(WithDemoSeed(3), WithDemoNow(demoNow))
	ctx := context.Background()

	first, err := source.GetTransactions(ctx)
	require.NoError(t, err)
	first[0].Status = "tampered"
	for i := range first {
		if first[i].Metadata != nil {
			first[i].Metadata.Name = "tampered"
		}
	}

	second, err := source.GetTransactions(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", second[0].Status)
	for _, txn := range second {
		if txn.Metadata != nil {
			assert.NotEqual(t, "tampered", txn.Metadata.Name)
		}
	}
}

func TestDemoDataSource_WalletMatchesTransactions(t *testing.T) {
	source := NewDemoDataSource(WithDemoSeed(11), WithDemoNow(demoNow))
	ctx := context.Background()

	wallet, err := source.GetWallet(ctx)
	require.NoError(t, err)
	transactions, err := source.GetTransactions(ctx)
	require.NoError(t, err)

	assert.Equal(t, summarizeWallet(transactions), *wallet)
	assert.False(t, wallet.Balance.IsNegative())
	assert.True(t, wallet.LedgerBalance.Equal(wallet.Balance.Add(wallet.PendingPayout)))
}

func TestDemoDataSource_CanceledContext(t *testing.T) {
	source := NewDemoDataSource(WithDemoSeed(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.GetUser(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = source.GetWallet(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = source.GetTransactions(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDemoDate_CyclesFormats(t *testing.T) {
	when := time.Date(2022, 3, 1, 9, 30, 0, 0, time.Local)

	assert.Equal(t, "2022-03-01", demoDate(when, 0))
	assert.Equal(t, when.Format(time.RFC3339), demoDate(when, 1))
	assert.Equal(t, "Mar 1, 2022", demoDate(when, 2))

	parsed, ok := filter.ParseDate(demoDate(when, 3))
	require.True(t, ok)
	assert.True(t, parsed.Equal(when))
}
