package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"wallet-dashboard/internal/models"
	"wallet-dashboard/internal/repositories"
)

// Status is the lifecycle state of a cached resource
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Lookup results reported to the Recorder
const (
	LookupHit   = "hit"
	LookupStale = "stale"
	LookupMiss  = "miss"
)

const metricLookup = "cache.lookup"

// Recorder receives cache lookup counters
type Recorder interface {
	IncrementCounter(name string, tags map[string]string)
}

// Fetcher loads a fresh copy of the resource
type Fetcher[T any] func(ctx context.Context) (T, error)

// Options configures a Query
type Options struct {
	// StaleTime is how long fetched data counts as fresh
	StaleTime time.Duration
	// GCTime is how long unused data is retained before it is dropped
	GCTime time.Duration

	Clock     func() time.Time
	Logger    *slog.Logger
	Recorder  Recorder
	Snapshots repositories.SnapshotRepositoryInterface
}

// State describes the cached resource without exposing its data
type State struct {
	Key       string    `json:"key"`
	Status    Status    `json:"status"`
	HasData   bool      `json:"has_data"`
	IsStale   bool      `json:"is_stale"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
	Error     string    `json:"error,omitempty"`
}

// Query caches one remote resource. Fresh data is served from memory, stale data
// is served while a background refresh runs, and concurrent fetches of the same
// resource are collapsed into one.
type Query[T any] struct {
	key   string
	fetch Fetcher[T]
	opts  Options

	mu              sync.RWMutex
	data            T
	hasData         bool
	updatedAt       time.Time
	lastAccess      time.Time
	status          Status
	lastErr         error
	snapshotChecked bool

	group      singleflight.Group
	background sync.WaitGroup
}

func NewQuery[T any](key string, fetch Fetcher[T], opts Options) *Query[T] {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Query[T]{
		key:    key,
		fetch:  fetch,
		opts:   opts,
		status: StatusIdle,
	}
}

// Key returns the resource name
func (q *Query[T]) Key() string {
	return q.key
}

// Get returns the cached data, fetching it when nothing usable is cached.
// Stale data is returned immediately and refreshed in the background.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	now := q.opts.Clock()

	q.mu.Lock()
	q.collectLocked(now)
	q.lastAccess = now
	needSnapshot := !q.hasData && !q.snapshotChecked && q.opts.Snapshots != nil
	q.snapshotChecked = q.snapshotChecked || needSnapshot
	q.mu.Unlock()

	if needSnapshot {
		q.restoreSnapshot(ctx)
	}

	q.mu.RLock()
	data, hasData, fresh := q.data, q.hasData, q.isFreshLocked(now)
	q.mu.RUnlock()

	switch {
	case hasData && fresh:
		q.recordLookup(LookupHit)
		return data, nil
	case hasData:
		q.recordLookup(LookupStale)
		q.refreshInBackground(ctx)
		return data, nil
	default:
		q.recordLookup(LookupMiss)
		return q.load(ctx, false)
	}
}

// Refetch fetches the resource now, regardless of freshness
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	return q.load(ctx, true)
}

// Invalidate marks the cached data stale so the next Get refreshes it
func (q *Query[T]) Invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.updatedAt = time.Time{}
}

// Collect drops the cached data when it has not been read for GCTime
func (q *Query[T]) Collect() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.collectLocked(q.opts.Clock())
}

// State reports the resource lifecycle
func (q *Query[T]) State() State {
	now := q.opts.Clock()

	q.mu.RLock()
	defer q.mu.RUnlock()

	st := State{
		Key:       q.key,
		Status:    q.status,
		HasData:   q.hasData,
		IsStale:   q.hasData && !q.isFreshLocked(now),
		UpdatedAt: q.updatedAt,
	}
	if q.lastErr != nil {
		st.Error = q.lastErr.Error()
	}
	return st
}

// Wait blocks until background refreshes started so far have finished
func (q *Query[T]) Wait() {
	q.background.Wait()
}

// load fetches through the shared flight. Unless forced, a caller that lost the
// race to a flight which has since completed gets the fresh data instead.
func (q *Query[T]) load(ctx context.Context, force bool) (T, error) {
	result, err, _ := q.group.Do(q.key, func() (any, error) {
		if !force {
			if data, ok := q.freshData(); ok {
				return data, nil
			}
		}
		return q.fetchAndStore(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (q *Query[T]) refreshInBackground(ctx context.Context) {
	detached := context.WithoutCancel(ctx)

	q.background.Add(1)
	go func() {
		defer q.background.Done()

		_, err, shared := q.group.Do(q.key, func() (any, error) {
			return q.fetchAndStore(detached)
		})
		if err != nil && !shared {
			q.opts.Logger.WarnContext(detached, "background refresh failed",
				"resource", q.key,
				"error", err,
			)
		}
	}()
}

func (q *Query[T]) fetchAndStore(ctx context.Context) (T, error) {
	q.mu.Lock()
	q.status = StatusLoading
	q.mu.Unlock()

	data, err := q.fetch(ctx)
	fetchedAt := q.opts.Clock()

	q.mu.Lock()
	if err != nil {
		q.status = StatusError
		q.lastErr = err
		q.mu.Unlock()

		var zero T
		return zero, err
	}
	q.data = data
	q.hasData = true
	q.updatedAt = fetchedAt
	q.status = StatusSuccess
	q.lastErr = nil
	q.mu.Unlock()

	q.saveSnapshot(ctx, data, fetchedAt)
	return data, nil
}

func (q *Query[T]) restoreSnapshot(ctx context.Context) {
	snapshot, err := q.opts.Snapshots.Get(ctx, q.key)
	if err != nil {
		if !errors.Is(err, repositories.ErrSnapshotNotFound) {
			q.opts.Logger.WarnContext(ctx, "failed to load cache snapshot", "resource", q.key, "error", err)
		}
		return
	}

	var data T
	if err := json.Unmarshal(snapshot.Payload, &data); err != nil {
		q.opts.Logger.WarnContext(ctx, "discarding unreadable cache snapshot", "resource", q.key, "error", err)
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.hasData {
		return
	}
	q.data = data
	q.hasData = true
	q.updatedAt = snapshot.FetchedAt
	q.status = StatusSuccess

	q.opts.Logger.DebugContext(ctx, "restored cache snapshot",
		"resource", q.key,
		"fetched_at", snapshot.FetchedAt,
	)
}

func (q *Query[T]) saveSnapshot(ctx context.Context, data T, fetchedAt time.Time) {
	if q.opts.Snapshots == nil {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		q.opts.Logger.WarnContext(ctx, "failed to encode cache snapshot", "resource", q.key, "error", err)
		return
	}

	snapshot := &models.ResourceSnapshot{Key: q.key, Payload: payload, FetchedAt: fetchedAt}
	if err := q.opts.Snapshots.Save(ctx, snapshot); err != nil {
		q.opts.Logger.WarnContext(ctx, "failed to save cache snapshot", "resource", q.key, "error", fmt.Errorf("save %s: %w", q.key, err))
	}
}

func (q *Query[T]) freshData() (T, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.hasData && q.isFreshLocked(q.opts.Clock()) {
		return q.data, true
	}
	var zero T
	return zero, false
}

func (q *Query[T]) isFreshLocked(now time.Time) bool {
	return !q.updatedAt.IsZero() && now.Sub(q.updatedAt) < q.opts.StaleTime
}

func (q *Query[T]) collectLocked(now time.Time) bool {
	if !q.hasData || q.opts.GCTime <= 0 || q.lastAccess.IsZero() {
		return false
	}
	if now.Sub(q.lastAccess) <= q.opts.GCTime {
		return false
	}

	var zero T
	q.data = zero
	q.hasData = false
	q.updatedAt = time.Time{}
	q.status = StatusIdle
	q.lastErr = nil
	return true
}

func (q *Query[T]) recordLookup(result string) {
	if q.opts.Recorder == nil {
		return
	}
	q.opts.Recorder.IncrementCounter(metricLookup, map[string]string{
		"resource": q.key,
		"result":   result,
	})
}
