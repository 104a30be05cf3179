package projection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhi-singhs/copilot-metrics-analysis/internal/core/aggregation"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/dashboard"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/report"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/usertable"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/workspace"
	"github.com/google/uuid"
)

var (
	// ErrInvalidQuery marks request validation errors that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid query")
	ErrUnknownChart = errors.New("unknown chart")
)

// Service implements the read, filter and export side of a workspace.
type Service struct {
	store  *workspace.Store
	report report.Options
	topN   int
	nowFn  func() time.Time
}

// NewService creates a projection service. reportDefaults fills report labels
// the caller leaves empty; topN bounds rankings requested without n.
func NewService(store *workspace.Store, reportDefaults report.Options, topN int) *Service {
	if store == nil {
		panic("projection: store must not be nil")
	}
	if topN <= 0 {
		topN = 10
	}
	return &Service{
		store:  store,
		report: reportDefaults,
		topN:   topN,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func invalidQueryf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// Workspace resolves a workspace from its path parameter.
func (s *Service) Workspace(rawID string) (*workspace.Workspace, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, invalidQueryf("workspace id %q is not a UUID", rawID)
	}
	return s.store.Get(id)
}

// UpdateFilters applies req to the workspace view.
func (s *Service) UpdateFilters(ctx context.Context, w *workspace.Workspace, req FilterRequest) (workspace.Status, error) {
	var (
		status workspace.Status
		err    error
	)
	if req.Range != "" {
		status, err = w.ApplyFiltersInRange(ctx, req.Criteria(), req.Range)
	} else {
		status, err = w.ApplyFilters(ctx, req.Criteria())
	}
	if err != nil {
		return workspace.Status{}, err
	}
	slog.Info("Filters applied",
		"workspace_id", w.ID,
		"search", status.Criteria.Search,
		"from", status.Criteria.From,
		"to", status.Criteria.To,
		"members_only", status.Criteria.MembersOnly,
		"view_records", status.ViewRecords)
	return status, nil
}

// ApplyRange moves the day bounds to a quick range and keeps the rest of the
// criteria.
func (s *Service) ApplyRange(ctx context.Context, w *workspace.Workspace, req RangeRequest) (workspace.Status, error) {
	status, err := w.ApplyQuickRange(ctx, req.Range)
	if err != nil {
		return workspace.Status{}, err
	}
	slog.Info("Quick range applied", "workspace_id", w.ID, "range", req.Range, "from", status.Criteria.From, "to", status.Criteria.To)
	return status, nil
}

// Summary returns the summary metrics of the current view.
func (s *Service) Summary(w *workspace.Workspace) (SummaryResponse, error) {
	status := w.Status()
	if status.Records == 0 {
		return SummaryResponse{}, workspace.ErrNoDataset
	}
	summary := w.Dashboard().Summary
	return SummaryResponse{Summary: summary, Cards: summary.Cards(), Status: status}, nil
}

// Charts returns every chart of the current view, or only the one titled
// title when it is set.
func (s *Service) Charts(w *workspace.Workspace, title string) (ChartsResponse, error) {
	if w.Status().Records == 0 {
		return ChartsResponse{}, workspace.ErrNoDataset
	}
	d := w.Dashboard()
	if title == "" {
		return ChartsResponse{Charts: d.Charts}, nil
	}
	chart, ok := d.Chart(title)
	if !ok {
		return ChartsResponse{}, fmt.Errorf("%w %q", ErrUnknownChart, title)
	}
	return ChartsResponse{Charts: []dashboard.Chart{chart}}, nil
}

// RankUsers ranks users of the current view by a named counter.
func (s *Service) RankUsers(w *workspace.Workspace, q RankingQuery) (RankingResponse, error) {
	if q.Counter == "" {
		q.Counter = aggregation.CounterInteractions
	}
	if q.N < 0 {
		return RankingResponse{}, invalidQueryf("n must not be negative")
	}
	if q.N == 0 {
		q.N = s.topN
	}
	if w.Status().Records == 0 {
		return RankingResponse{}, workspace.ErrNoDataset
	}
	entries, err := w.RankUsers(q.Counter, q.N)
	if err != nil {
		return RankingResponse{}, err
	}
	return RankingResponse{Counter: q.Counter, Entries: entries}, nil
}

func (s *Service) Users(w *workspace.Workspace) UsersResponse {
	rows, state := w.UserRows()
	return UsersResponse{Columns: usertable.Columns, Sort: state, Rows: rows}
}

// SortUsers selects a user table column and returns the re-sorted table.
func (s *Service) SortUsers(w *workspace.Workspace, req SortRequest) (UsersResponse, error) {
	if _, err := w.SortUsers(req.Column); err != nil {
		return UsersResponse{}, err
	}
	return s.Users(w), nil
}

// UsersCSV renders the user table export and its download name.
func (s *Service) UsersCSV(w *workspace.Workspace) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := w.WriteUsersCSV(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), usertable.CSVFileName(s.nowFn()), nil
}

// Report composes the report of the current view.
func (s *Service) Report(w *workspace.Workspace, q ReportQuery) (*report.Document, error) {
	opts := s.report
	if q.Title != "" {
		opts.Title = q.Title
	}
	if q.Enterprise != "" {
		opts.Enterprise = q.Enterprise
	}
	if q.Org != "" {
		opts.Org = q.Org
	}
	doc, err := w.Report(opts, s.nowFn())
	if err != nil {
		return nil, err
	}
	slog.Info("Report composed", "workspace_id", w.ID, "file_name", doc.FileName, "sections", len(doc.Sections))
	return doc, nil
}
