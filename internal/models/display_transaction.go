package models

import "github.com/shopspring/decimal"

// DisplayTransaction is a view-ready transaction row
type DisplayTransaction struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	TypeLabel       string          `json:"type_label,omitempty"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	FormattedAmount string          `json:"formatted_amount"`
	Date            string          `json:"date"`
	Icon            string          `json:"icon"`
	BgColor         string          `json:"bg_color"`
	Status          string          `json:"status"`
	StatusLabel     string          `json:"status_label,omitempty"`
	StatusColor     string          `json:"status_color"`
}

// BalancePoint is one day on the balance-history chart
type BalancePoint struct {
	Date        string          `json:"date"`
	Value       decimal.Decimal `json:"value"`
	DisplayDate string          `json:"display_date"`
}
