package models

// TransactionList is the rendered transaction panel
type TransactionList struct {
	Count   int    `json:"count"`
	Summary string `json:"summary"`
	Applied bool   `json:"applied"`
	// NoMatches is set when an applied filter left nothing to show
	NoMatches bool                 `json:"no_matches"`
	Items     []DisplayTransaction `json:"items"`
}

// BalanceHistory is the data behind the balance chart
type BalanceHistory struct {
	Points     []BalancePoint `json:"points"`
	RangeStart string         `json:"range_start"`
	RangeEnd   string         `json:"range_end"`
}

// DashboardOverview is the header of the dashboard: who, how much and how many
type DashboardOverview struct {
	User              *User   `json:"user"`
	Wallet            *Wallet `json:"wallet"`
	TransactionCount  int     `json:"transaction_count"`
	FilteredCount     int     `json:"filtered_count"`
	ActiveFilterCount int     `json:"active_filter_count"`
}
