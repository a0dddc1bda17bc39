package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"wallet-dashboard/internal/filter"
	"wallet-dashboard/internal/models"
)

const (
	balanceDateLayout    = "2006-01-02"
	balanceDisplayLayout = "Jan 2, 2006"
)

type datedTransaction struct {
	day    time.Time
	amount decimal.Decimal
}

// BuildBalanceHistory turns transactions into one cumulative-balance point per
// calendar day, oldest first. Deposits add to the balance and every other type
// subtracts from it. The running balance is not allowed to go below zero on the
// chart. Transactions without a parseable date are left out.
func BuildBalanceHistory(transactions []models.Transaction) *models.BalanceHistory {
	dated := make([]datedTransaction, 0, len(transactions))
	for i := range transactions {
		parsed, ok := filter.ParseDate(transactions[i].Date)
		if !ok {
			continue
		}
		dated = append(dated, datedTransaction{
			day:    filter.NormalizeToDate(parsed),
			amount: transactions[i].SignedAmount(),
		})
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].day.Before(dated[j].day)
	})

	history := &models.BalanceHistory{Points: []models.BalancePoint{}}
	cumulative := decimal.Zero
	for i := 0; i < len(dated); {
		day := dated[i].day
		daily := decimal.Zero
		for ; i < len(dated) && dated[i].day.Equal(day); i++ {
			daily = daily.Add(dated[i].amount)
		}

		cumulative = cumulative.Add(daily)
		history.Points = append(history.Points, models.BalancePoint{
			Date:        day.Format(balanceDateLayout),
			Value:       decimal.Max(cumulative, decimal.Zero),
			DisplayDate: day.Format(balanceDisplayLayout),
		})
	}

	if n := len(history.Points); n > 0 {
		history.RangeStart = history.Points[0].DisplayDate
		history.RangeEnd = history.Points[n-1].DisplayDate
	}
	return history
}
