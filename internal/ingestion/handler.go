package ingestion

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	httperr "github.com/abhi-singhs/copilot-metrics-analysis/internal/core/errors"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/observability"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/workspace"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgBodyTooLarge   = "Request body exceeds maximum allowed size"
	msgLoadFailed     = "Failed to load dataset"
	msgBadWorkspaceID = "Workspace id must be a UUID"
	msgNoWorkspace    = "Workspace not found"
)

// ingestionError carries the structured HTTP error shape from a helper back to the handler.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// CreateWorkspaceHandler allocates an empty workspace.
func (s *Service) CreateWorkspaceHandler(c *gin.Context) {
	w := s.store.Create()
	slog.Info("Workspace created", "workspace_id", w.ID)
	c.JSON(http.StatusCreated, gin.H{"id": w.ID})
}

// DeleteWorkspaceHandler drops a workspace and everything loaded into it.
func (s *Service) DeleteWorkspaceHandler(c *gin.Context) {
	id, ierr := workspaceID(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}
	if err := s.store.Delete(id); err != nil {
		writeError(c, notFound())
		return
	}
	slog.Info("Workspace deleted", "workspace_id", id)
	c.Status(http.StatusNoContent)
}

// UploadDatasetHandler replaces the workspace dataset with the uploaded export.
func (s *Service) UploadDatasetHandler(c *gin.Context) {
	w, ierr := s.lookup(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	body, ierr := s.readBody(c, observability.UploadDataset)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	records, err := ParseRecords(string(body))
	if err != nil {
		writeError(c, s.uploadFailure(observability.UploadDataset, w.ID, err))
		return
	}

	source := c.DefaultQuery("name", "upload")
	status, err := w.LoadDataset(c.Request.Context(), source, records)
	if err != nil {
		slog.Error("Failed to load dataset", "workspace_id", w.ID, "error", err)
		s.metrics.RecordUpload(observability.UploadDataset, observability.ResultRejected, 0)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgLoadFailed,
		})
		return
	}

	s.metrics.RecordUpload(observability.UploadDataset, observability.ResultOK, len(records))
	c.JSON(http.StatusOK, gin.H{"records": len(records), "status": status})
}

// UploadMembersHandler replaces the workspace members set.
func (s *Service) UploadMembersHandler(c *gin.Context) {
	w, ierr := s.lookup(c)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	body, ierr := s.readBody(c, observability.UploadMembers)
	if ierr != nil {
		writeError(c, ierr)
		return
	}

	members, err := ParseMembers(string(body))
	if err != nil {
		writeError(c, s.uploadFailure(observability.UploadMembers, w.ID, err))
		return
	}

	status, err := w.SetMembers(c.Request.Context(), members)
	if err != nil {
		slog.Error("Failed to apply members", "workspace_id", w.ID, "error", err)
		s.metrics.RecordUpload(observability.UploadMembers, observability.ResultRejected, 0)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    err.Error(),
		})
		return
	}

	s.metrics.RecordUpload(observability.UploadMembers, observability.ResultOK, 0)
	c.JSON(http.StatusOK, gin.H{"members": members.Len(), "status": status})
}

func (s *Service) lookup(c *gin.Context) (*workspace.Workspace, *ingestionError) {
	id, ierr := workspaceID(c)
	if ierr != nil {
		return nil, ierr
	}
	w, err := s.store.Get(id)
	if err != nil {
		return nil, notFound()
	}
	return w, nil
}

// readBody reads the raw upload, rejecting bodies over the configured limit.
func (s *Service) readBody(c *gin.Context, kind string) ([]byte, *ingestionError) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	body, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(body)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "kind", kind, "size", len(body), "max", maxBytes)
		s.metrics.RecordUpload(kind, observability.ResultRejected, 0)
		return nil, &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    msgBodyTooLarge,
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}
	return body, nil
}

// uploadFailure maps a parse failure to its HTTP shape and counts it.
func (s *Service) uploadFailure(kind string, id uuid.UUID, err error) *ingestionError {
	var perr *ParseError
	switch {
	case errors.As(err, &perr):
		slog.Warn("Upload parse error", "kind", kind, "workspace_id", id, "line", perr.Line, "error", perr.Message)
		s.metrics.RecordUpload(kind, observability.ResultParseError, 0)
		var details interface{}
		if perr.Line > 0 {
			details = map[string]interface{}{"line": perr.Line}
		}
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpParseError,
			message:    perr.Error(),
			details:    details,
		}
	case errors.Is(err, ErrEmptyResult):
		slog.Warn("Upload produced no usable entries", "kind", kind, "workspace_id", id, "error", err)
		s.metrics.RecordUpload(kind, observability.ResultEmpty, 0)
		return &ingestionError{
			statusCode: http.StatusUnprocessableEntity,
			errorType:  httperr.HttpEmptyResultError,
			message:    err.Error(),
		}
	default:
		slog.Error("Upload failed", "kind", kind, "workspace_id", id, "error", err)
		s.metrics.RecordUpload(kind, observability.ResultRejected, 0)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    err.Error(),
		}
	}
}

func workspaceID(c *gin.Context) (uuid.UUID, *ingestionError) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRequestError,
			message:    msgBadWorkspaceID,
		}
	}
	return id, nil
}

func notFound() *ingestionError {
	return &ingestionError{
		statusCode: http.StatusNotFound,
		errorType:  httperr.HttpNotFoundError,
		message:    msgNoWorkspace,
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
