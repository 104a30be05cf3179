package ingestion

import (
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/observability"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/workspace"
	"github.com/gin-gonic/gin"
)

type Service struct {
	store            *workspace.Store
	metrics          *observability.Metrics
	maxBodySizeBytes int
}

func NewService(store *workspace.Store, metrics *observability.Metrics, maxBodySizeMB int) *Service {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 16
	}
	return &Service{
		store:            store,
		metrics:          metrics,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the workspace lifecycle and upload routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/workspaces", s.CreateWorkspaceHandler)
	r.DELETE("/v1/workspaces/:id", s.DeleteWorkspaceHandler)
	r.POST("/v1/workspaces/:id/dataset", s.UploadDatasetHandler)
	r.POST("/v1/workspaces/:id/members", s.UploadMembersHandler)
}
