package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-dashboard/internal/models"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"positive", "1234.5", "USD +1,234.50"},
		{"negative", "-300", "USD -300.00"},
		{"zero", "0", "USD 0.00"},
		{"rounds half up", "0.005", "USD +0.01"},
		{"millions", "2500000.126", "USD +2,500,000.13"},
		{"rounds to zero", "-0.001", "USD 0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "#0EA163", StatusColor(models.TransactionStatusSuccessful))
	assert.Equal(t, "#A77A07", StatusColor(models.TransactionStatusPending))
	assert.Equal(t, "#DC2626", StatusColor(models.TransactionStatusFailed))
	assert.Equal(t, "#56616B", StatusColor("reversed"))
}

func TestTransactionSummary(t *testing.T) {
	assert.Equal(t, "Your transactions for the selected filters", TransactionSummary(true))
	assert.Equal(t, "Your transactions for All Time", TransactionSummary(false))
}

func TestToDisplayTransactions_Deposit(t *testing.T) {
	rows := ToDisplayTransactions([]models.Transaction{{
		Amount:           decimal.NewFromInt(500),
		PaymentReference: "ref-1",
		Status:           models.TransactionStatusSuccessful,
		Type:             models.TransactionTypeDeposit,
		Date:             "2022-03-03",
		Metadata: &models.TransactionMetadata{
			Name:        "Roy Cash",
			ProductName: "Rich Dad Poor Dad",
		},
	}})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "ref-1", row.ID)
	assert.Equal(t, "Rich Dad Poor Dad", row.Title)
	assert.Equal(t, "Roy Cash", row.Description)
	assert.Equal(t, "USD +500.00", row.FormattedAmount)
	assert.True(t, row.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "March 03, 2022", row.Date)
	assert.Equal(t, "/call_received.svg", row.Icon)
	assert.Equal(t, "#E3FCF2", row.BgColor)
	assert.Equal(t, "Store Transaction", row.TypeLabel)
	assert.Equal(t, "Successful", row.StatusLabel)
	assert.Equal(t, "#0EA163", row.StatusColor)
}

func TestToDisplayTransactions_DepositFallbacks(t *testing.T) {
	rows := ToDisplayTransactions([]models.Transaction{{
		Amount: decimal.NewFromInt(10),
		Status: models.TransactionStatusPending,
		Type:   models.TransactionTypeDeposit,
		Date:   "2022-03-03",
	}})

	require.Len(t, rows, 1)
	assert.Equal(t, "transaction-0", rows[0].ID)
	assert.Equal(t, "Store Transaction", rows[0].Title)
	assert.Equal(t, "Customer", rows[0].Description)
}

func TestToDisplayTransactions_Withdrawal(t *testing.T) {
	rows := ToDisplayTransactions([]models.Transaction{
		{Amount: decimal.NewFromInt(1), Type: models.TransactionTypeDeposit, Status: models.TransactionStatusSuccessful, Date: "2022-03-01"},
		{Amount: decimal.NewFromInt(300), Type: models.TransactionTypeWithdrawal, Status: models.TransactionStatusPending, Date: "not a date"},
	})

	require.Len(t, rows, 2)
	row := rows[1]
	assert.Equal(t, "transaction-1", row.ID)
	assert.Equal(t, "Withdrawal", row.Title)
	assert.Equal(t, "Pending", row.Description)
	assert.Equal(t, "USD -300.00", row.FormattedAmount)
	assert.True(t, row.Amount.IsNegative())
	assert.Equal(t, "not a date", row.Date)
	assert.Equal(t, "/call_made.svg", row.Icon)
	assert.Equal(t, "#F9E3E0", row.BgColor)
	assert.Equal(t, "#A77A07", row.StatusColor)
}

func TestToDisplayTransactions_Empty(t *testing.T) {
	rows := ToDisplayTransactions(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
