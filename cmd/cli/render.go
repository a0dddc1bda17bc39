package main

import (
	"fmt"
	"io"

	"wallet-dashboard/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	headingStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	creditStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	debitStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	labelStyle     = lipgloss.NewStyle().Width(16)
	amountColumn   = lipgloss.NewStyle().Width(18).Align(lipgloss.Right)
	titleColumn    = lipgloss.NewStyle().Width(28)
	dateColumn     = lipgloss.NewStyle().Width(20)
	balancePrinter = message.NewPrinter(language.English)
)

func renderTransactions(w io.Writer, list *models.TransactionList) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%d Transactions", list.Count)))
	fmt.Fprintln(w, mutedStyle.Render(list.Summary))

	if list.NoMatches {
		fmt.Fprintln(w, "No matching transaction found for the selected filter")
		return
	}

	for _, row := range list.Items {
		amount := creditStyle
		if row.Amount.IsNegative() {
			amount = debitStyle
		}
		status := lipgloss.NewStyle().Foreground(lipgloss.Color(row.StatusColor))

		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			titleColumn.Render(row.Title),
			dateColumn.Render(row.Date),
			amountColumn.Render(amount.Render(row.FormattedAmount)),
			"  ",
			status.Render(statusText(row)),
		))
		fmt.Fprintln(w, mutedStyle.Render("  "+row.Description))
	}
}

func statusText(row models.DisplayTransaction) string {
	if row.StatusLabel != "" {
		return row.StatusLabel
	}
	return row.Status
}

func renderWallet(w io.Writer, wallet *models.Wallet) {
	fmt.Fprintln(w, headingStyle.Render("Wallet"))
	for _, line := range []struct {
		label string
		value decimal.Decimal
	}{
		{"Available", wallet.Balance},
		{"Ledger", wallet.LedgerBalance},
		{"Total payout", wallet.TotalPayout},
		{"Total revenue", wallet.TotalRevenue},
		{"Pending payout", wallet.PendingPayout},
	} {
		fmt.Fprintln(w, labelStyle.Render(line.label)+formatBalance(line.value))
	}
}

func renderUser(w io.Writer, user *models.User) {
	fmt.Fprintln(w, headingStyle.Render(user.FullName())+" "+mutedStyle.Render("("+user.Initials()+")"))
	fmt.Fprintln(w, user.Email)
}

func formatBalance(amount decimal.Decimal) string {
	return balancePrinter.Sprintf("%s %.2f", models.WalletCurrency, amount.Round(2).InexactFloat64())
}
