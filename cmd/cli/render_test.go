package main

import (
	"bytes"
	"testing"

	"wallet-dashboard/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRenderTransactionsNoMatches(t *testing.T) {
	var buf bytes.Buffer

	renderTransactions(&buf, &models.TransactionList{
		Summary:   "Your transactions for the selected filters",
		Applied:   true,
		NoMatches: true,
		Items:     []models.DisplayTransaction{},
	})

	assert.Contains(t, buf.String(), "0 Transactions")
	assert.Contains(t, buf.String(), "No matching transaction found")
}

func TestRenderTransactionsRows(t *testing.T) {
	var buf bytes.Buffer

	renderTransactions(&buf, &models.TransactionList{
		Count:   1,
		Summary: "Your transactions for All Time",
		Items: []models.DisplayTransaction{{
			Title:           "Cash Withdrawal",
			Description:     "Pending",
			Amount:          decimal.NewFromInt(-300),
			FormattedAmount: "USD -300.00",
			Date:            "March 01, 2022",
			Status:          "pending",
			StatusColor:     "#A77A07",
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "Cash Withdrawal")
	assert.Contains(t, out, "USD -300.00")
	assert.Contains(t, out, "March 01, 2022")
	assert.Contains(t, out, "pending")
}

func TestFormatBalance(t *testing.T) {
	assert.Equal(t, "USD 1,234.57", formatBalance(decimal.RequireFromString("1234.567")))
	assert.Equal(t, "USD 0.00", formatBalance(decimal.Zero))
}

func TestRenderUser(t *testing.T) {
	var buf bytes.Buffer

	renderUser(&buf, &models.User{FirstName: "Olivier", LastName: "Jones", Email: "olivierjones@gmail.com"})

	assert.Contains(t, buf.String(), "Olivier Jones")
	assert.Contains(t, buf.String(), "(OJ)")
	assert.Contains(t, buf.String(), "olivierjones@gmail.com")
}
