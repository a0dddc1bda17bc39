package filter

import (
	"log/slog"
	"sync"
	"time"

	"wallet-dashboard/internal/models"
)

// Store is the single source of truth for the dashboard filter.
//
// Dimension families are mutually exclusive: setting a date bound clears the
// label selections and the quick preset, setting a label selection clears both
// date bounds and the quick preset. Nothing filters until ApplyFilters is called.
type Store struct {
	mu     sync.RWMutex
	state  State
	clock  func() time.Time
	logger *slog.Logger
	ready  bool
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithClock overrides the source of "now" used for presets and defaults
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithLogger sets the logger used to trace state transitions
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a store holding the default state
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = DefaultState(s.clock())
	s.ready = true
	return s
}

// SetStartDate sets the lower date bound (nil clears it)
func (s *Store) SetStartDate(d *time.Time) {
	s.mutate("set_start_date", func(st *State) {
		st.StartDate = copyTime(d)
		clearLabelFamily(st)
	})
}

// SetEndDate sets the upper date bound (nil clears it)
func (s *Store) SetEndDate(d *time.Time) {
	s.mutate("set_end_date", func(st *State) {
		st.EndDate = copyTime(d)
		clearLabelFamily(st)
	})
}

// SetSelectedTypes replaces the selected transaction-type labels
func (s *Store) SetSelectedTypes(labels []string) {
	s.mutate("set_selected_types", func(st *State) {
		st.SelectedTypes = uniqueLabels(labels)
		clearDateFamily(st)
	})
}

// SetSelectedStatuses replaces the selected transaction-status labels
func (s *Store) SetSelectedStatuses(labels []string) {
	s.mutate("set_selected_statuses", func(st *State) {
		st.SelectedStatuses = uniqueLabels(labels)
		clearDateFamily(st)
	})
}

// SetQuickFilter derives the date bounds from period relative to now and records
// the preset. Like the date setters it clears the label family. It does not apply
// the filter.
func (s *Store) SetQuickFilter(period QuickPeriod) error {
	s.mustBeReady()

	start, end, err := period.Range(s.clock())
	if err != nil {
		return err
	}

	s.mutate("set_quick_filter", func(st *State) {
		clearLabelFamily(st)
		st.StartDate = start
		st.EndDate = end
		st.QuickFilter = period
	})
	return nil
}

// ApplyFilters opens the applied gate. Calling it again has no further effect.
func (s *Store) ApplyFilters() {
	s.mutate("apply_filters", func(st *State) {
		st.IsApplied = true
	})
}

// ClearFilters restores the default last-7-days state with the gate closed
func (s *Store) ClearFilters() {
	s.mutate("clear_filters", func(st *State) {
		*st = DefaultState(s.clock())
	})
}

// ActiveFilterCount returns how many dimension families are in effect, from 0 to 3.
// Before the filter is applied the count is always zero.
func (s *Store) ActiveFilterCount() int {
	s.mustBeReady()

	s.mu.RLock()
	st := s.state.Clone()
	s.mu.RUnlock()

	return activeFilterCount(st, s.clock())
}

// View returns a copy of the current state together with its active filter
// count, both read under the same lock
func (s *Store) View() (State, int) {
	s.mustBeReady()

	s.mu.RLock()
	st := s.state.Clone()
	s.mu.RUnlock()

	return st, activeFilterCount(st, s.clock())
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mustBeReady()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// IsApplied reports whether the applied gate is open
func (s *Store) IsApplied() bool {
	s.mustBeReady()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsApplied
}

// FilterTransactions runs the predicate engine against the current state
func (s *Store) FilterTransactions(transactions []models.Transaction) []models.Transaction {
	return Filter(transactions, s.Snapshot())
}

func (s *Store) mutate(op string, fn func(*State)) {
	s.mustBeReady()

	s.mu.Lock()
	fn(&s.state)
	st := s.state.Clone()
	s.mu.Unlock()

	s.logger.Debug("filter state changed",
		"operation", op,
		"start_date", formatBound(st.StartDate),
		"end_date", formatBound(st.EndDate),
		"types", st.SelectedTypes,
		"statuses", st.SelectedStatuses,
		"quick_filter", string(st.QuickFilter),
		"is_applied", st.IsApplied,
	)
}

func clearLabelFamily(st *State) {
	st.SelectedTypes = []string{}
	st.SelectedStatuses = []string{}
	st.QuickFilter = QuickNone
}

func clearDateFamily(st *State) {
	st.StartDate = nil
	st.EndDate = nil
	st.QuickFilter = QuickNone
}

// mustBeReady panics when the store was not built with NewStore. Using filter
// operations without an initialized store is a programming error.
func (s *Store) mustBeReady() {
	if s == nil || !s.ready {
		panic("filter: store used before initialization; construct it with filter.NewStore")
	}
}

func activeFilterCount(st State, at time.Time) int {
	if !st.IsApplied {
		return 0
	}

	count := 0
	if hasCustomDateRange(st, at) {
		count++
	}
	if len(st.SelectedTypes) > 0 {
		count++
	}
	if len(st.SelectedStatuses) > 0 {
		count++
	}
	return count
}

// hasCustomDateRange compares an explicit date pair with the default window at
// day granularity. Without a pair, any preset other than the default counts.
func hasCustomDateRange(st State, at time.Time) bool {
	if st.StartDate != nil && st.EndDate != nil {
		def := DefaultState(at)
		return !SameDay(*st.StartDate, *def.StartDate) || !SameDay(*st.EndDate, *def.EndDate)
	}
	return st.QuickFilter != DefaultQuickPeriod
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
