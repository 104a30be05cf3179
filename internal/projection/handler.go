package projection

import (
	"errors"
	"log/slog"
	"net/http"

	httperr "github.com/abhi-singhs/copilot-metrics-analysis/internal/core/errors"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/report"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/usertable"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/view"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/workspace"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all projection API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	ws := r.Group("/v1/workspaces/:id")
	ws.GET("", s.HandleStatus)
	ws.PUT("/filters", s.HandleUpdateFilters)
	ws.DELETE("/filters", s.HandleResetFilters)
	ws.PUT("/filters/range", s.HandleApplyRange)
	ws.GET("/summary", s.HandleSummary)
	ws.GET("/charts", s.HandleCharts)
	ws.GET("/rankings/users", s.HandleRankUsers)
	ws.GET("/users", s.HandleUsers)
	ws.POST("/users/sort", s.HandleSortUsers)
	ws.GET("/users.csv", s.HandleUsersCSV)
	ws.GET("/report", s.HandleReport)
}

// HandleStatus handles GET /v1/workspaces/:id
func (s *Service) HandleStatus(c *gin.Context) {
	w, ok := s.bindWorkspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, w.Status())
}

// HandleUpdateFilters handles PUT /v1/workspaces/:id/filters
func (s *Service) HandleUpdateFilters(c *gin.Context) {
	w, ok := s.bindWorkspace(c)
	if !ok {
		return
	}
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid filter body",
			Details:   err.Error(),
		})
		return
	}

	status, err := s.UpdateFilters(c.Request.Context(), w, req)
	if err != nil {
		writeError(c, err, "Failed to apply filters")
		return
	}
	c.JSON(http.StatusOK, status)
}

// HandleApplyRange handles PUT /v1/workspaces/:id/filters/range
func (s *Service) HandleApplyRange(c *gin.Context) {
	w, ok := s.bindWorkspace(c)
	if !ok {
		return
	}
	var req RangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid range body",
			Details:   err.Error(),
		})
		return
	}

	status, err := s.ApplyRange(c.Request.Context(), w, req)
	if err != nil {
		writeError(c, err, "Failed to apply range")
		return
	}
	c.JSON(http.StatusOK, status)
}

// HandleResetFilters handles DELETE /v1/workspaces/:id/filters
func (s *Service) HandleResetFilters(c *gin.Context) {
	w, ok := s.bindWorkspace(c)
	if !ok {
		return
	}
	status, err := w.ResetFilters(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to reset filters")
		return
	}
	c.JSON(http.StatusOK, status)
}

// HandleSummary handles GET /v1/workspaces/:id/summary
func (s *Service) HandleSummary(c *gin.Context) {
	w, ok := s.bindWorkspace(c)
	if !ok {
		return
	}
	resp, err := s.Summary(w)
	if err != nil {
		writeError(c, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleCharts handles GET /v1/workspaces/:id/charts
// Query parameters: title
func (s *Service) HandleCharts(c *gin.Context) {
	w, ok := s.bindWorkspace(c)
	if !ok {
		return
	}
	resp, err := s.Charts(w, c.Query("title"))
	if err != nil {
		writeError(c, err, "Failed to build charts")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleRankUsers handles GET /v1/workspaces/:id/rankings/users
// Query parameters: counter, n
func (s *Service) HandleRankUsers(c *gin.Context) {
	w, ok := s.bindWorkspace(c)
	if !ok {
		return
	}
	var q RankingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}
	resp, err := s.RankUsers(w, q)
	if err != nil {
		writeError(c, err, "Failed to rank users")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleUsers handles GET /v1/workspaces/:id/users
func (s *Service) HandleUsers(c *gin.Context) {
	w, ok := s.bindWorkspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Users(w))
}

// HandleSortUsers handles POST /v1/workspaces/:id/users/sort
func (s *Service) HandleSortUsers(c *gin.Context) {
	w, ok := s.bindWorkspace(c)
	if !ok {
		return
	}
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid sort body",
			Details:   err.Error(),
		})
		return
	}
	resp, err := s.SortUsers(w, req)
	if err != nil {
		writeError(c, err, "Failed to sort users")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleUsersCSV handles GET /v1/workspaces/:id/users.csv
func (s *Service) HandleUsersCSV(c *gin.Context) {
	w, ok := s.bindWorkspace(c)
	if !ok {
		return
	}
	body, name, err := s.UsersCSV(w)
	if err != nil {
		writeError(c, err, "Failed to export users")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

// HandleReport handles GET /v1/workspaces/:id/report
// Query parameters: title, enterprise, org
func (s *Service) HandleReport(c *gin.Context) {
	w, ok := s.bindWorkspace(c)
	if !ok {
		return
	}
	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}
	doc, err := s.Report(w, q)
	if err != nil {
		writeError(c, err, "Failed to compose report")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Service) bindWorkspace(c *gin.Context) (*workspace.Workspace, bool) {
	w, err := s.Workspace(c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to resolve workspace")
		return nil, false
	}
	return w, true
}

// writeError maps service errors to the shared error envelope. fallback is
// the message of unexpected failures.
func writeError(c *gin.Context, err error, fallback string) {
	status, errorType, message := http.StatusInternalServerError, httperr.HttpInternalError, fallback
	switch {
	case errors.Is(err, ErrInvalidQuery),
		errors.Is(err, view.ErrInvalidCriteria),
		errors.Is(err, view.ErrInvalidRange),
		errors.Is(err, usertable.ErrUnknownColumn),
		errors.Is(err, workspace.ErrNoCounter):
		status, errorType, message = http.StatusBadRequest, httperr.HttpInvalidRequestError, "Invalid request"
	case errors.Is(err, workspace.ErrNotFound):
		status, errorType, message = http.StatusNotFound, httperr.HttpNotFoundError, "Workspace not found"
	case errors.Is(err, ErrUnknownChart):
		status, errorType, message = http.StatusNotFound, httperr.HttpNotFoundError, "Chart not found"
	case errors.Is(err, workspace.ErrNoDataset):
		status, errorType, message = http.StatusConflict, httperr.HttpNoDatasetError, "Upload a dataset first"
	case errors.Is(err, usertable.ErrNoRows),
		errors.Is(err, report.ErrNothingToReport):
		status, errorType, message = http.StatusUnprocessableEntity, httperr.HttpNoRowsError, "Nothing to export"
	}
	if status == http.StatusInternalServerError {
		slog.Error("Projection request failed", "route", c.FullPath(), "error", err)
	}
	c.JSON(status, httperr.ErrorResponse{
		ErrorType: errorType,
		Message:   message,
		Details:   err.Error(),
	})
}
