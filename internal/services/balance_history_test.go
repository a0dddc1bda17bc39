package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-dashboard/internal/models"
)

func txn(kind, amount, date string) models.Transaction {
	return models.Transaction{
		Amount: decimal.RequireFromString(amount),
		Type:   kind,
		Status: models.TransactionStatusSuccessful,
		Date:   date,
	}
}

func pointValues(history *models.BalanceHistory) []string {
	values := make([]string, 0, len(history.Points))
	for _, p := range history.Points {
		values = append(values, p.Value.StringFixed(2))
	}
	return values
}

func TestBuildBalanceHistory_GroupsByDayInDateOrder(t *testing.T) {
	history := BuildBalanceHistory([]models.Transaction{
		txn(models.TransactionTypeDeposit, "100", "2022-03-05"),
		txn(models.TransactionTypeDeposit, "50", "2022-03-01T09:00:00"),
		txn(models.TransactionTypeWithdrawal, "20", "2022-03-01T18:30:00"),
		txn(models.TransactionTypeDeposit, "10", "Mar 3, 2022"),
	})

	require.Len(t, history.Points, 3)
	assert.Equal(t, "2022-03-01", history.Points[0].Date)
	assert.Equal(t, "Mar 1, 2022", history.Points[0].DisplayDate)
	assert.Equal(t, "2022-03-03", history.Points[1].Date)
	assert.Equal(t, "2022-03-05", history.Points[2].Date)
	assert.Equal(t, []string{"30.00", "40.00", "140.00"}, pointValues(history))
	assert.Equal(t, "Mar 1, 2022", history.RangeStart)
	assert.Equal(t, "Mar 5, 2022", history.RangeEnd)
}

func TestBuildBalanceHistory_ClampsAtZero(t *testing.T) {
	history := BuildBalanceHistory([]models.Transaction{
		txn(models.TransactionTypeWithdrawal, "100", "2022-03-01"),
		txn(models.TransactionTypeDeposit, "30", "2022-03-02"),
		txn(models.TransactionTypeDeposit, "100", "2022-03-03"),
	})

	// the running total is -100, -70, 30
	assert.Equal(t, []string{"0.00", "0.00", "30.00"}, pointValues(history))
}

func TestBuildBalanceHistory_SkipsUnparseableDates(t *testing.T) {
	history := BuildBalanceHistory([]models.Transaction{
		txn(models.TransactionTypeDeposit, "100", "garbage"),
		txn(models.TransactionTypeDeposit, "5", ""),
		txn(models.TransactionTypeDeposit, "7", "2022-03-02"),
	})

	require.Len(t, history.Points, 1)
	assert.Equal(t, []string{"7.00"}, pointValues(history))
}

func TestBuildBalanceHistory_Empty(t *testing.T) {
	history := BuildBalanceHistory(nil)

	assert.NotNil(t, history.Points)
	assert.Empty(t, history.Points)
	assert.Empty(t, history.RangeStart)
	assert.Empty(t, history.RangeEnd)
}

func TestBuildBalanceHistory_NonDepositTypesSubtract(t *testing.T) {
	history := BuildBalanceHistory([]models.Transaction{
		txn(models.TransactionTypeDeposit, "100", "2022-03-01"),
		txn("chargebacks", "25", "2022-03-01"),
	})

	assert.Equal(t, []string{"75.00"}, pointValues(history))
}
