package models

import "github.com/shopspring/decimal"

// WalletCurrency is implied by the API; every amount it returns is in US dollars
const WalletCurrency = "USD"

// Wallet holds the balance figures served by GET /wallet
type Wallet struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalPayout   decimal.Decimal `json:"total_payout"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PendingPayout decimal.Decimal `json:"pending_payout"`
	LedgerBalance decimal.Decimal `json:"ledger_balance"`
}
