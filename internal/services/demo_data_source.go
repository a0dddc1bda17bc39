package services

import (
	"context"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-dashboard/internal/models"
)

const defaultDemoTransactions = 24

// DemoDataSource serves a generated user, wallet and transaction history so the
// dashboard can run without the remote API. The data is generated once; every call
// returns a copy of the same data set.
type DemoDataSource struct {
	user         models.User
	wallet       models.Wallet
	transactions []models.Transaction
}

// DemoOption configures a DemoDataSource
type DemoOption func(*demoSettings)

type demoSettings struct {
	seed  uint64
	count int
	now   time.Time
}

// WithDemoSeed makes the generated data reproducible. Zero picks a random seed.
func WithDemoSeed(seed uint64) DemoOption {
	return func(s *demoSettings) {
		s.seed = seed
	}
}

// WithDemoTransactionCount sets how many transactions are generated
func WithDemoTransactionCount(count int) DemoOption {
	return func(s *demoSettings) {
		s.count = count
	}
}

// WithDemoNow anchors the generated dates; transactions fall within 90 days before now
func WithDemoNow(now time.Time) DemoOption {
	return func(s *demoSettings) {
		s.now = now
	}
}

func NewDemoDataSource(opts ...DemoOption) *DemoDataSource {
	settings := demoSettings{count: defaultDemoTransactions, now: time.Now()}
	for _, opt := range opts {
		opt(&settings)
	}

	faker := gofakeit.New(settings.seed)
	transactions := generateTransactions(faker, settings.count, settings.now)

	return &DemoDataSource{
		user: models.User{
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Email:     faker.Email(),
		},
		wallet:       summarizeWallet(transactions),
		transactions: transactions,
	}
}

func (d *DemoDataSource) GetUser(ctx context.Context) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	user := d.user
	return &user, nil
}

func (d *DemoDataSource) GetWallet(ctx context.Context) (*models.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wallet := d.wallet
	return &wallet, nil
}

func (d *DemoDataSource) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.Transaction, len(d.transactions))
	for i, txn := range d.transactions {
		if txn.Metadata != nil {
			meta := *txn.Metadata
			txn.Metadata = &meta
		}
		out[i] = txn
	}
	return out, nil
}

var (
	demoStatuses = []string{
		models.TransactionStatusSuccessful,
		models.TransactionStatusSuccessful,
		models.TransactionStatusSuccessful,
		models.TransactionStatusPending,
		models.TransactionStatusFailed,
	}
	demoProductTypes = []string{"digital_product", "coffee", "webinar", "mentorship"}
)

func generateTransactions(faker *gofakeit.Faker, count int, now time.Time) []models.Transaction {
	start := now.AddDate(0, 0, -90)
	transactions := make([]models.Transaction, 0, count)

	for i := 0; i < count; i++ {
		when := faker.DateRange(start, now)
		txn := models.Transaction{
			Amount: decimal.NewFromFloat(faker.Price(5, 1500)).Round(2),
			Status: faker.RandomString(demoStatuses),
			Date:   demoDate(when, i),
		}

		// Roughly one in four transactions is a withdrawal.
		if faker.Number(1, 4) == 1 {
			txn.Type = models.TransactionTypeWithdrawal
		} else {
			txn.Type = models.TransactionTypeDeposit
			txn.PaymentReference = uuid.NewSHA1(uuid.NameSpaceOID, []byte(faker.UUID())).String()
			txn.Metadata = &models.TransactionMetadata{
				Name:        faker.FirstName() + " " + faker.LastName(),
				Type:        faker.RandomString(demoProductTypes),
				Email:       faker.Email(),
				Quantity:    faker.Number(1, 20),
				Country:     faker.Country(),
				ProductName: faker.ProductName(),
			}
		}

		transactions = append(transactions, txn)
	}

	return transactions
}

// demoDate renders dates in the mix of formats the real API is known to return
func demoDate(t time.Time, i int) string {
	switch i % 4 {
	case 1:
		return t.Format(time.RFC3339)
	case 2:
		return t.Format("Jan 2, 2006")
	case 3:
		return strconv.FormatInt(t.UnixMilli(), 10)
	default:
		return t.Format("2006-01-02")
	}
}

func summarizeWallet(transactions []models.Transaction) models.Wallet {
	var revenue, payout, pending decimal.Decimal
	for _, txn := range transactions {
		switch {
		case txn.Status == models.TransactionStatusSuccessful && txn.IsDeposit():
			revenue = revenue.Add(txn.Amount)
		case txn.Status == models.TransactionStatusSuccessful:
			payout = payout.Add(txn.Amount)
		case txn.Status == models.TransactionStatusPending && !txn.IsDeposit():
			pending = pending.Add(txn.Amount)
		}
	}

	balance := decimal.Max(revenue.Sub(payout), decimal.Zero)
	return models.Wallet{
		Balance:       balance,
		TotalPayout:   payout,
		TotalRevenue:  revenue,
		PendingPayout: pending,
		LedgerBalance: balance.Add(pending),
	}
}
