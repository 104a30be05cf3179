package projection

import (
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/core/aggregation"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/dashboard"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/usertable"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/view"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/workspace"
)

// FilterRequest is the body of PUT /v1/workspaces/:id/filters. A non-empty
// Range replaces From and To.
type FilterRequest struct {
	Search      string `json:"search"`
	From        string `json:"from"`
	To          string `json:"to"`
	MembersOnly bool   `json:"members_only"`
	Range       string `json:"range"`
}

func (r FilterRequest) Criteria() view.Criteria {
	return view.Criteria{Search: r.Search, From: r.From, To: r.To, MembersOnly: r.MembersOnly}
}

// RangeRequest is the body of PUT /v1/workspaces/:id/filters/range.
type RangeRequest struct {
	Range string `json:"range" binding:"required"`
}

// RankingQuery holds the query parameters of the user ranking endpoint.
type RankingQuery struct {
	Counter string `form:"counter"`
	N       int    `form:"n"`
}

// ReportQuery overrides the configured report labels.
type ReportQuery struct {
	Title      string `form:"title"`
	Enterprise string `form:"enterprise"`
	Org        string `form:"org"`
}

type SortRequest struct {
	Column usertable.Column `json:"column" binding:"required"`
}

type SummaryResponse struct {
	Summary aggregation.Summary      `json:"summary"`
	Cards   []aggregation.MetricCard `json:"cards"`
	Status  workspace.Status         `json:"status"`
}

type ChartsResponse struct {
	Charts []dashboard.Chart `json:"charts"`
}

type RankingResponse struct {
	Counter string              `json:"counter"`
	Entries []aggregation.Entry `json:"entries"`
}

type UsersResponse struct {
	Columns []usertable.ColumnInfo `json:"columns"`
	Sort    usertable.SortState    `json:"sort"`
	Rows    []usertable.Row        `json:"rows"`
}
