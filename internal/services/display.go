package services

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"wallet-dashboard/internal/filter"
	"wallet-dashboard/internal/models"
)

const (
	displayDateLayout = "January 02, 2006"

	depositIcon    = "/call_received.svg"
	withdrawalIcon = "/call_made.svg"
	depositBg      = "#E3FCF2"
	withdrawalBg   = "#F9E3E0"

	SummaryFiltered = "Your transactions for the selected filters"
	SummaryAllTime  = "Your transactions for All Time"
)

var statusColors = map[string]string{
	models.TransactionStatusSuccessful: "#0EA163",
	models.TransactionStatusPending:    "#A77A07",
	models.TransactionStatusFailed:     "#DC2626",
}

const defaultStatusColor = "#56616B"

var amountPrinter = message.NewPrinter(language.English)

// ToDisplayTransactions renders transactions as list rows, keeping their order
func ToDisplayTransactions(transactions []models.Transaction) []models.DisplayTransaction {
	rows := make([]models.DisplayTransaction, 0, len(transactions))
	for i := range transactions {
		rows = append(rows, toDisplayTransaction(&transactions[i], i))
	}
	return rows
}

func toDisplayTransaction(txn *models.Transaction, index int) models.DisplayTransaction {
	typeLabel, _ := filter.TypeLabel(txn.Type)
	statusLabel, _ := filter.StatusLabel(txn.Status)
	amount := txn.SignedAmount()

	row := models.DisplayTransaction{
		ID:              txn.Key(index),
		Type:            txn.Type,
		TypeLabel:       typeLabel,
		Amount:          amount,
		FormattedAmount: FormatAmount(amount),
		Date:            displayDate(txn.Date),
		Status:          txn.Status,
		StatusLabel:     statusLabel,
		StatusColor:     StatusColor(txn.Status),
	}

	if txn.IsDeposit() {
		row.Title = firstNonEmpty(txn.MetadataValue("product_name"), txn.MetadataValue("type"), typeLabel, "Deposit")
		row.Description = firstNonEmpty(txn.MetadataValue("name"), "Customer")
		row.Icon = depositIcon
		row.BgColor = depositBg
	} else {
		row.Title = firstNonEmpty(typeLabel, "Cash Withdrawal")
		row.Description = firstNonEmpty(statusLabel, txn.Status)
		row.Icon = withdrawalIcon
		row.BgColor = withdrawalBg
	}

	return row
}

// FormatAmount renders a signed amount as "USD +1,234.56", "USD -300.00" or "USD 0.00"
func FormatAmount(amount decimal.Decimal) string {
	amount = amount.Round(2)
	sign := ""
	switch amount.Sign() {
	case 1:
		sign = "+"
	case -1:
		sign = "-"
	}
	value := amount.Abs().InexactFloat64()
	return amountPrinter.Sprintf("%s %s%.2f", models.WalletCurrency, sign, value)
}

// StatusColor returns the colour used for a status code
func StatusColor(status string) string {
	if color, ok := statusColors[status]; ok {
		return color
	}
	return defaultStatusColor
}

// TransactionSummary is the heading shown above the transaction list
func TransactionSummary(applied bool) string {
	if applied {
		return SummaryFiltered
	}
	return SummaryAllTime
}

func displayDate(raw string) string {
	parsed, ok := filter.ParseDate(raw)
	if !ok {
		return raw
	}
	return parsed.Format(displayDateLayout)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
