package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"wallet-dashboard/internal/cache"
	"wallet-dashboard/internal/config"
	"wallet-dashboard/internal/filter"
	"wallet-dashboard/internal/models"
	"wallet-dashboard/internal/services/service_mocks"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	source  *service_mocks.MockDataSourceInterface
	metrics *recordingMetrics
	store   *filter.Store

	mu  sync.Mutex
	now time.Time

	service *DashboardService
}

func (s *DashboardServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.source = service_mocks.NewMockDataSourceInterface(s.ctrl)
	s.metrics = newRecordingMetrics()

	s.now = time.Date(2022, 3, 15, 10, 0, 0, 0, time.Local)
	s.store = filter.NewStore(filter.WithClock(s.clock))

	s.service = NewDashboardService(
		s.source,
		s.store,
		s.metrics,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		DashboardOptions{
			Cache: config.CacheConfig{
				UserStaleTime:         5 * time.Minute,
				UserGCTime:            10 * time.Minute,
				WalletStaleTime:       2 * time.Minute,
				WalletGCTime:          5 * time.Minute,
				TransactionsStaleTime: time.Minute,
				TransactionsGCTime:    5 * time.Minute,
			},
			Clock: s.clock,
		},
	)
}

func (s *DashboardServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}

// recordingMetrics keeps every recorded value, keyed by metric name and the
// value of its first tag.
type recordingMetrics struct {
	mu       sync.Mutex
	counters map[string]int
	gauges   map[string]float64
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{counters: map[string]int{}, gauges: map[string]float64{}}
}

func metricKey(name string, tags map[string]string) string {
	if len(tags) != 1 {
		return name
	}
	for _, v := range tags {
		return name + "/" + v
	}
	return name
}

func (m *recordingMetrics) IncrementCounter(name string, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[metricKey(name, tags)]++
}

func (m *recordingMetrics) RecordProcessingTime(string, time.Duration) {}

func (m *recordingMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[metricKey(name, tags)] = value
}

func (m *recordingMetrics) counter(name, tag string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name+"/"+tag]
}

func (m *recordingMetrics) gauge(name, tag string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gauges[name+"/"+tag]
}

func (s *DashboardServiceTestSuite) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *DashboardServiceTestSuite) advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

func (s *DashboardServiceTestSuite) sampleTransactions() []models.Transaction {
	return []models.Transaction{
		{Amount: decimal.NewFromInt(500), Type: models.TransactionTypeDeposit, Status: models.TransactionStatusSuccessful, Date: "2022-03-03", PaymentReference: "a"},
		{Amount: decimal.NewFromInt(300), Type: models.TransactionTypeWithdrawal, Status: models.TransactionStatusPending, Date: "2022-03-10", PaymentReference: "b"},
		{Amount: decimal.NewFromInt(200), Type: models.TransactionTypeDeposit, Status: models.TransactionStatusFailed, Date: "2022-02-01", PaymentReference: "c"},
	}
}

func (s *DashboardServiceTestSuite) TestGetUser_CachedWhileFresh() {
	user := &models.User{FirstName: "Olivier", LastName: "Jones"}
	s.source.EXPECT().GetUser(gomock.Any()).Return(user, nil).Times(1)

	first, err := s.service.GetUser(context.Background())
	s.Require().NoError(err)
	s.advance(4 * time.Minute)
	second, err := s.service.GetUser(context.Background())
	s.Require().NoError(err)

	s.Equal("Olivier", first.FirstName)
	s.Equal(first, second)
}

func (s *DashboardServiceTestSuite) TestGetWallet_ErrorIsWrapped() {
	cause := &UpstreamError{Resource: ResourceWallet, Err: ErrUpstreamServer}
	s.source.EXPECT().GetWallet(gomock.Any()).Return(nil, cause)

	wallet, err := s.service.GetWallet(context.Background())

	s.Nil(wallet)
	s.True(errors.Is(err, ErrDataUnavailable))
	s.True(errors.Is(err, ErrUpstreamServer))
	var upstreamErr *UpstreamError
	s.True(errors.As(err, &upstreamErr))
}

func (s *DashboardServiceTestSuite) TestGetOverview() {
	s.source.EXPECT().GetUser(gomock.Any()).Return(&models.User{FirstName: "Ada"}, nil)
	s.source.EXPECT().GetWallet(gomock.Any()).Return(&models.Wallet{Balance: decimal.NewFromInt(10)}, nil)
	s.source.EXPECT().GetTransactions(gomock.Any()).Return(s.sampleTransactions(), nil)

	s.store.SetSelectedTypes([]string{"Store Transaction"})
	s.store.ApplyFilters()

	overview, err := s.service.GetOverview(context.Background())

	s.Require().NoError(err)
	s.Equal("Ada", overview.User.FirstName)
	s.True(overview.Wallet.Balance.Equal(decimal.NewFromInt(10)))
	s.Equal(3, overview.TransactionCount)
	s.Equal(2, overview.FilteredCount)
	s.Equal(s.store.ActiveFilterCount(), overview.ActiveFilterCount)
}

func (s *DashboardServiceTestSuite) TestGetOverview_FailsWhenAnyResourceFails() {
	s.source.EXPECT().GetUser(gomock.Any()).Return(&models.User{}, nil).AnyTimes()
	s.source.EXPECT().GetWallet(gomock.Any()).Return(&models.Wallet{}, nil).AnyTimes()
	s.source.EXPECT().GetTransactions(gomock.Any()).Return(nil, ErrUpstreamTimeout)

	overview, err := s.service.GetOverview(context.Background())

	s.Nil(overview)
	s.True(errors.Is(err, ErrDataUnavailable))
	s.True(errors.Is(err, ErrUpstreamTimeout))
}

func (s *DashboardServiceTestSuite) TestGetTransactionList_NotApplied() {
	s.source.EXPECT().GetTransactions(gomock.Any()).Return(s.sampleTransactions(), nil)

	list, err := s.service.GetTransactionList(context.Background())

	s.Require().NoError(err)
	s.Equal(3, list.Count)
	s.False(list.Applied)
	s.False(list.NoMatches)
	s.Equal(SummaryAllTime, list.Summary)
	s.Equal([]string{"a", "b", "c"}, []string{list.Items[0].ID, list.Items[1].ID, list.Items[2].ID})
}

func (s *DashboardServiceTestSuite) TestGetTransactionList_AppliedDateRange() {
	s.source.EXPECT().GetTransactions(gomock.Any()).Return(s.sampleTransactions(), nil)

	start := time.Date(2022, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2022, 3, 5, 0, 0, 0, 0, time.Local)
	s.store.SetStartDate(&start)
	s.store.SetEndDate(&end)
	s.store.ApplyFilters()

	list, err := s.service.GetTransactionList(context.Background())

	s.Require().NoError(err)
	s.True(list.Applied)
	s.Equal(SummaryFiltered, list.Summary)
	s.Require().Len(list.Items, 1)
	s.Equal("a", list.Items[0].ID)
	s.Equal("USD +500.00", list.Items[0].FormattedAmount)
}

func (s *DashboardServiceTestSuite) TestGetTransactionList_AppliedWithoutMatches() {
	s.source.EXPECT().GetTransactions(gomock.Any()).Return(s.sampleTransactions(), nil)
	s.store.SetSelectedStatuses([]string{"Failed"})
	s.store.SetSelectedTypes([]string{"Withdrawals"})
	s.store.ApplyFilters()

	list, err := s.service.GetTransactionList(context.Background())

	s.Require().NoError(err)
	s.Equal(0, list.Count)
	s.True(list.NoMatches)
	s.NotNil(list.Items)
	s.Equal(2, s.metrics.counter(MetricFilterExcluded, string(filter.ReasonTypeMismatch)))
	s.Equal(1, s.metrics.counter(MetricFilterExcluded, string(filter.ReasonStatusMismatch)))
	s.Equal(0.0, s.metrics.gauge(MetricFilterTransactions, "kept"))
	s.Equal(3.0, s.metrics.gauge(MetricFilterTransactions, "excluded"))
}

func (s *DashboardServiceTestSuite) TestGetFilteredTransactions_Error() {
	s.source.EXPECT().GetTransactions(gomock.Any()).Return(nil, ErrUpstreamUnauthorized)

	transactions, err := s.service.GetFilteredTransactions(context.Background())

	s.Nil(transactions)
	s.True(errors.Is(err, ErrUpstreamUnauthorized))
}

func (s *DashboardServiceTestSuite) TestGetBalanceHistory_IgnoresFilter() {
	s.source.EXPECT().GetTransactions(gomock.Any()).Return(s.sampleTransactions(), nil)

	s.store.SetSelectedTypes([]string{"Withdrawals"})
	s.store.ApplyFilters()

	history, err := s.service.GetBalanceHistory(context.Background())

	s.Require().NoError(err)
	s.Require().Len(history.Points, 3)
	s.Equal("2022-02-01", history.Points[0].Date)
	s.Equal("400.00", history.Points[2].Value.StringFixed(2))
}

func (s *DashboardServiceTestSuite) TestFilters() {
	s.Same(s.store, s.service.Filters())
}

func (s *DashboardServiceTestSuite) TestCacheStates() {
	s.source.EXPECT().GetUser(gomock.Any()).Return(&models.User{}, nil)

	_, err := s.service.GetUser(context.Background())
	s.Require().NoError(err)

	states := s.service.CacheStates()
	s.Require().Len(states, 3)
	s.Equal(ResourceUser, states[0].Key)
	s.Equal(cache.StatusSuccess, states[0].Status)
	s.True(states[0].HasData)
	s.Equal(ResourceWallet, states[1].Key)
	s.Equal(cache.StatusIdle, states[1].Status)
	s.Equal(ResourceTransactions, states[2].Key)
}

func (s *DashboardServiceTestSuite) TestInvalidate_ForcesRefetch() {
	s.source.EXPECT().GetUser(gomock.Any()).Return(&models.User{FirstName: "Old"}, nil)
	s.source.EXPECT().GetUser(gomock.Any()).Return(&models.User{FirstName: "New"}, nil)

	_, err := s.service.GetUser(context.Background())
	s.Require().NoError(err)

	s.service.Invalidate()
	// stale data is served while the refresh runs in the background
	_, err = s.service.GetUser(context.Background())
	s.Require().NoError(err)
	s.service.user.Wait()

	user, err := s.service.GetUser(context.Background())
	s.Require().NoError(err)
	s.Equal("New", user.FirstName)
}

func (s *DashboardServiceTestSuite) TestCollectGarbage() {
	s.source.EXPECT().GetUser(gomock.Any()).Return(&models.User{}, nil)
	s.source.EXPECT().GetWallet(gomock.Any()).Return(&models.Wallet{}, nil)

	_, err := s.service.GetUser(context.Background())
	s.Require().NoError(err)
	_, err = s.service.GetWallet(context.Background())
	s.Require().NoError(err)

	s.advance(6 * time.Minute)
	s.Equal(1, s.service.CollectGarbage())

	s.advance(5 * time.Minute)
	s.Equal(1, s.service.CollectGarbage())
	s.Equal(0, s.service.CollectGarbage())
}
