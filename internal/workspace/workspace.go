package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/core/aggregation"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/dashboard"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/observability"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/report"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/usertable"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/view"
	"github.com/google/uuid"
)

var (
	ErrNoDataset    = errors.New("no dataset loaded")
	ErrEmptyDataset = errors.New("dataset has no records")
	ErrNoMembers    = errors.New("members set is empty")
	ErrNoCounter    = errors.New("unknown counter")
)

// Options configures every workspace of a store.
type Options struct {
	Dashboard dashboard.Options
	Metrics   *observability.Metrics
}

// Status describes a workspace without its derived results.
type Status struct {
	ID          uuid.UUID           `json:"id" yaml:"id"`
	Source      string              `json:"source,omitempty" yaml:"source,omitempty"`
	Records     int                 `json:"records" yaml:"records"`
	ViewRecords int                 `json:"view_records" yaml:"view_records"`
	Members     int                 `json:"members" yaml:"members"`
	FirstDay    string              `json:"first_day,omitempty" yaml:"first_day,omitempty"`
	LastDay     string              `json:"last_day,omitempty" yaml:"last_day,omitempty"`
	Criteria    view.Criteria       `json:"criteria" yaml:"criteria"`
	Sort        usertable.SortState `json:"sort" yaml:"sort"`
	UpdatedAt   time.Time           `json:"updated_at" yaml:"updated_at"`
}

// Workspace holds one loaded dataset, its members list, the active filter
// and everything derived from the filtered view. Every mutation recomputes
// the view and swaps the derived results in whole under the lock, so readers
// never see a half-built dashboard. A failed mutation leaves the prior state.
type Workspace struct {
	ID   uuid.UUID
	opts Options

	mu        sync.RWMutex
	source    string
	dataset   []v1.UsageRecord
	days      []string
	members   view.MembersSet
	criteria  view.Criteria
	current   []v1.UsageRecord
	board     *dashboard.Dashboard
	table     *usertable.Table
	updatedAt time.Time
}

// New returns an empty workspace.
func New(id uuid.UUID, opts Options) *Workspace {
	return &Workspace{
		ID:        id,
		opts:      opts,
		members:   view.NewMembersSet(),
		board:     &dashboard.Dashboard{Charts: []dashboard.Chart{}},
		table:     usertable.New(opts.Dashboard.Catalog),
		updatedAt: time.Now().UTC(),
	}
}

type derived struct {
	current []v1.UsageRecord
	board   *dashboard.Dashboard
	rollups []aggregation.UserRollup
}

func (w *Workspace) derive(ctx context.Context, dataset []v1.UsageRecord, c view.Criteria, members view.MembersSet) (derived, error) {
	start := time.Now()
	current := view.Apply(dataset, c, members)
	board, err := dashboard.Build(ctx, current, w.opts.Dashboard)
	if err != nil {
		return derived{}, fmt.Errorf("building dashboard: %w", err)
	}
	d := derived{current: current, board: board, rollups: aggregation.UserRollups(current)}
	w.opts.Metrics.ObserveRebuild(time.Since(start))
	return d, nil
}

// commit must be called with mu held.
func (w *Workspace) commit(d derived) {
	w.current = d.current
	w.board = d.board
	w.table.Refresh(d.rollups)
	w.updatedAt = time.Now().UTC()
}

// LoadDataset replaces the dataset. The filter resets to the full day span;
// the members set and the user table sort are kept.
func (w *Workspace) LoadDataset(ctx context.Context, source string, records []v1.UsageRecord) (Status, error) {
	if len(records) == 0 {
		return Status{}, ErrEmptyDataset
	}
	days := view.DayBounds(records)
	first, last := view.Span(days)
	criteria := view.Criteria{From: first, To: last}

	w.mu.Lock()
	defer w.mu.Unlock()

	d, err := w.derive(ctx, records, criteria, w.members)
	if err != nil {
		return Status{}, err
	}
	w.source = source
	w.dataset = records
	w.days = days
	w.criteria = criteria
	w.commit(d)

	slog.Info("Dataset loaded", "workspace_id", w.ID, "source", source, "records", len(records), "first_day", first, "last_day", last)
	return w.statusLocked(), nil
}

// SetMembers replaces the members set and re-applies the filter.
func (w *Workspace) SetMembers(ctx context.Context, members view.MembersSet) (Status, error) {
	if members.Len() == 0 {
		return Status{}, ErrNoMembers
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dataset != nil && w.criteria.MembersOnly {
		d, err := w.derive(ctx, w.dataset, w.criteria, members)
		if err != nil {
			return Status{}, err
		}
		w.commit(d)
	}
	w.members = members
	slog.Info("Members loaded", "workspace_id", w.ID, "members", members.Len())
	return w.statusLocked(), nil
}

// ApplyFilters replaces the filter criteria.
func (w *Workspace) ApplyFilters(ctx context.Context, c view.Criteria) (Status, error) {
	c, err := c.Normalize()
	if err != nil {
		return Status{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.refilterLocked(ctx, c)
}

// ApplyQuickRange sets the day bounds from a named range and keeps the rest
// of the criteria.
func (w *Workspace) ApplyQuickRange(ctx context.Context, rng string) (Status, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dataset == nil {
		return Status{}, ErrNoDataset
	}
	from, to, err := view.QuickRange(w.days, rng)
	if err != nil {
		return Status{}, err
	}
	c := w.criteria
	c.From, c.To = from, to
	return w.refilterLocked(ctx, c)
}

// ApplyFiltersInRange replaces the filter criteria with the day bounds of c
// taken from a named quick range.
func (w *Workspace) ApplyFiltersInRange(ctx context.Context, c view.Criteria, rng string) (Status, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dataset == nil {
		return Status{}, ErrNoDataset
	}
	from, to, err := view.QuickRange(w.days, rng)
	if err != nil {
		return Status{}, err
	}
	c.From, c.To = from, to
	c, err = c.Normalize()
	if err != nil {
		return Status{}, err
	}
	return w.refilterLocked(ctx, c)
}

// ResetFilters clears the search and members-only flag and restores the full
// day span.
func (w *Workspace) ResetFilters(ctx context.Context) (Status, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	first, last := view.Span(w.days)
	return w.refilterLocked(ctx, view.Criteria{From: first, To: last})
}

func (w *Workspace) refilterLocked(ctx context.Context, c view.Criteria) (Status, error) {
	if w.dataset == nil {
		return Status{}, ErrNoDataset
	}
	d, err := w.derive(ctx, w.dataset, c, w.members)
	if err != nil {
		return Status{}, err
	}
	w.criteria = c
	w.commit(d)
	return w.statusLocked(), nil
}

// Status reports the workspace state.
func (w *Workspace) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.statusLocked()
}

func (w *Workspace) statusLocked() Status {
	first, last := view.Span(w.days)
	return Status{
		ID:          w.ID,
		Source:      w.source,
		Records:     len(w.dataset),
		ViewRecords: len(w.current),
		Members:     w.members.Len(),
		FirstDay:    first,
		LastDay:     last,
		Criteria:    w.criteria,
		Sort:        w.table.Sort(),
		UpdatedAt:   w.updatedAt,
	}
}

// Dashboard returns the dashboard of the current view. The result is never
// mutated after it is published.
func (w *Workspace) Dashboard() *dashboard.Dashboard {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.board
}

// RankUsers ranks the current view's users by a named counter.
func (w *Workspace) RankUsers(counter string, n int) ([]aggregation.Entry, error) {
	fn, ok := aggregation.Counters[counter]
	if !ok {
		return nil, fmt.Errorf("%w %q (one of %v)", ErrNoCounter, counter, aggregation.CounterNames())
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return aggregation.RankUsers(w.current, fn, n), nil
}

// UserRows returns the user table rows in the current sort order.
func (w *Workspace) UserRows() ([]usertable.Row, usertable.SortState) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.table.Rows(), w.table.Sort()
}

// SortUsers selects a user table column.
func (w *Workspace) SortUsers(col usertable.Column) (usertable.SortState, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.table.SortBy(col); err != nil {
		return w.table.Sort(), err
	}
	return w.table.Sort(), nil
}

// WriteUsersCSV exports the user table.
func (w *Workspace) WriteUsersCSV(out io.Writer) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.table.WriteCSV(out)
}

// Report composes a report of the current dashboard.
func (w *Workspace) Report(opts report.Options, now time.Time) (*report.Document, error) {
	return report.Compose(w.Dashboard(), opts, now)
}
