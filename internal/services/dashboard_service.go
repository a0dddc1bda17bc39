package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"wallet-dashboard/internal/cache"
	"wallet-dashboard/internal/config"
	"wallet-dashboard/internal/filter"
	"wallet-dashboard/internal/models"
	"wallet-dashboard/internal/repositories"
)

// ErrDataUnavailable wraps every failure to obtain a resource from the data source
var ErrDataUnavailable = errors.New("dashboard data unavailable")

// DashboardOptions configures the caches in front of the data source
type DashboardOptions struct {
	Cache     config.CacheConfig
	Snapshots repositories.SnapshotRepositoryInterface
	Clock     func() time.Time
}

// DashboardService combines the cached resources with the filter store
type DashboardService struct {
	filters      *filter.Store
	user         *cache.Query[*models.User]
	wallet       *cache.Query[*models.Wallet]
	transactions *cache.Query[[]models.Transaction]
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
}

func NewDashboardService(
	source DataSourceInterface,
	filters *filter.Store,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	opts DashboardOptions,
) *DashboardService {
	cacheOptions := func(stale, gc time.Duration) cache.Options {
		return cache.Options{
			StaleTime: stale,
			GCTime:    gc,
			Clock:     opts.Clock,
			Logger:    logger,
			Recorder:  metrics,
			Snapshots: opts.Snapshots,
		}
	}

	return &DashboardService{
		filters: filters,
		user: cache.NewQuery(ResourceUser, source.GetUser,
			cacheOptions(opts.Cache.UserStaleTime, opts.Cache.UserGCTime)),
		wallet: cache.NewQuery(ResourceWallet, source.GetWallet,
			cacheOptions(opts.Cache.WalletStaleTime, opts.Cache.WalletGCTime)),
		transactions: cache.NewQuery(ResourceTransactions, source.GetTransactions,
			cacheOptions(opts.Cache.TransactionsStaleTime, opts.Cache.TransactionsGCTime)),
		metrics: metrics,
		logger:  logger,
	}
}

func (s *DashboardService) Filters() *filter.Store {
	return s.filters
}

func (s *DashboardService) GetUser(ctx context.Context) (*models.User, error) {
	user, err := s.user.Get(ctx)
	if err != nil {
		return nil, unavailable(ResourceUser, err)
	}
	return user, nil
}

func (s *DashboardService) GetWallet(ctx context.Context) (*models.Wallet, error) {
	wallet, err := s.wallet.Get(ctx)
	if err != nil {
		return nil, unavailable(ResourceWallet, err)
	}
	return wallet, nil
}

// GetOverview fetches the three resources concurrently. It fails if any of them fails.
func (s *DashboardService) GetOverview(ctx context.Context) (*models.DashboardOverview, error) {
	var (
		user         *models.User
		wallet       *models.Wallet
		transactions []models.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = s.GetUser(gctx)
		return err
	})
	g.Go(func() (err error) {
		wallet, err = s.GetWallet(gctx)
		return err
	})
	g.Go(func() (err error) {
		transactions, err = s.getTransactions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st, active := s.filters.View()
	return &models.DashboardOverview{
		User:              user,
		Wallet:            wallet,
		TransactionCount:  len(transactions),
		FilteredCount:     len(s.evaluate(ctx, transactions, st)),
		ActiveFilterCount: active,
	}, nil
}

// GetFilteredTransactions returns the API records that pass the current filter
func (s *DashboardService) GetFilteredTransactions(ctx context.Context) ([]models.Transaction, error) {
	transactions, err := s.getTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return s.evaluate(ctx, transactions, s.filters.Snapshot()), nil
}

// GetTransactionList renders the filtered transactions for the list panel
func (s *DashboardService) GetTransactionList(ctx context.Context) (*models.TransactionList, error) {
	transactions, err := s.getTransactions(ctx)
	if err != nil {
		return nil, err
	}

	st := s.filters.Snapshot()
	applied := st.IsApplied
	items := ToDisplayTransactions(s.evaluate(ctx, transactions, st))

	return &models.TransactionList{
		Count:     len(items),
		Summary:   TransactionSummary(applied),
		Applied:   applied,
		NoMatches: applied && len(items) == 0,
		Items:     items,
	}, nil
}

// GetBalanceHistory charts every fetched transaction; the filter does not apply to it
func (s *DashboardService) GetBalanceHistory(ctx context.Context) (*models.BalanceHistory, error) {
	transactions, err := s.getTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return BuildBalanceHistory(transactions), nil
}

// CacheStates reports the lifecycle of each cached resource
func (s *DashboardService) CacheStates() []cache.State {
	return []cache.State{
		s.user.State(),
		s.wallet.State(),
		s.transactions.State(),
	}
}

// Invalidate marks every cached resource stale
func (s *DashboardService) Invalidate() {
	s.user.Invalidate()
	s.wallet.Invalidate()
	s.transactions.Invalidate()
}

// CollectGarbage drops resources nobody has read within their retention window
// and returns how many were dropped.
func (s *DashboardService) CollectGarbage() int {
	dropped := 0
	for _, collected := range []bool{s.user.Collect(), s.wallet.Collect(), s.transactions.Collect()} {
		if collected {
			dropped++
		}
	}
	return dropped
}

func (s *DashboardService) getTransactions(ctx context.Context) ([]models.Transaction, error) {
	transactions, err := s.transactions.Get(ctx)
	if err != nil {
		return nil, unavailable(ResourceTransactions, err)
	}
	return transactions, nil
}

// evaluate runs the filter engine with st over a successfully fetched transaction set
func (s *DashboardService) evaluate(ctx context.Context, transactions []models.Transaction, st filter.State) []models.Transaction {
	kept := filter.Filter(transactions, st)

	s.metrics.IncrementCounter(MetricFilterEvaluated, map[string]string{
		"applied": strconv.FormatBool(st.IsApplied),
	})
	s.metrics.RecordGauge(MetricFilterTransactions, float64(len(kept)), map[string]string{"outcome": "kept"})
	s.metrics.RecordGauge(MetricFilterTransactions, float64(len(transactions)-len(kept)), map[string]string{"outcome": "excluded"})

	if st.IsApplied && len(kept) < len(transactions) {
		for i := range transactions {
			decision := filter.Decide(transactions[i], st)
			if decision.Included {
				continue
			}
			s.metrics.IncrementCounter(MetricFilterExcluded, map[string]string{"reason": string(decision.Reason)})
			s.logger.DebugContext(ctx, "transaction excluded by filter",
				"transaction", transactions[i].Key(i),
				"date", transactions[i].Date,
				"reason", string(decision.Reason),
			)
		}
	}

	return kept
}

func unavailable(resource string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, resource, err)
}
