package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/importer"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/progress"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/store"
)

// Handler API handler
type Handler struct {
	store       *store.Store
	pipeline    *importer.Pipeline
	broadcaster *progress.Broadcaster
	uploadDir   string
}

// NewHandler creates the API handler
func NewHandler(st *store.Store, pipeline *importer.Pipeline, broadcaster *progress.Broadcaster, uploadDir string) *Handler {
	return &Handler{
		store:       st,
		pipeline:    pipeline,
		broadcaster: broadcaster,
		uploadDir:   uploadDir,
	}
}

// RegisterRoutes registers the API routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// system status
	router.GET("/status", h.GetStatus)

	// spreadsheet ingestion
	router.POST("/upload", h.Upload)
	router.GET("/jobs/:id", h.GetJob)
	router.GET("/jobs/:id/events", h.JobEvents)
	router.GET("/imports", h.ListImports)

	// company criteria
	router.GET("/criteria", h.GetCriteria)
	router.PUT("/criteria", h.UpdateCriteria)

	// tender queries
	router.GET("/tenders", h.ListTenders)
	router.GET("/tenders/:id", h.GetTender)
	router.GET("/tenders/:id/changes", h.ListTenderChanges)

	// manual decisions
	router.POST("/tenders/:id/override", h.SetOverride)
	router.DELETE("/tenders/:id/override", h.ClearOverride)

	// re-classification
	router.POST("/tenders/:id/reanalyze", h.ReanalyzeTender)
	router.POST("/reanalyze", h.ReanalyzeAll)
}
