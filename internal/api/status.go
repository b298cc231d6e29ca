package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/store"
)

// StatusResponse system status response
type StatusResponse struct {
	Initialized     bool                 `json:"initialized"` // criteria configured and data present
	TotalTenders    int                  `json:"totalTenders"`
	GemCount        int                  `json:"gemCount"`
	NonGemCount     int                  `json:"nonGemCount"`
	StatusCounts    map[model.Status]int `json:"statusCounts"`
	CriteriaSet     bool                 `json:"criteriaSet"`
	LastImportTime  string               `json:"lastImportTime,omitempty"`
	LastImportFile  string               `json:"lastImportFile,omitempty"`
	RunningImports  int                  `json:"runningImports"`
}

// GetStatus returns a dashboard summary of the store
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	total, err := h.store.CountTenders(store.TenderQueryOptions{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	gem := model.SourceGem
	gemCount, err := h.store.CountTenders(store.TenderQueryOptions{Source: &gem})
	if err != nil {
		gemCount = 0
	}
	nonGem := model.SourceNonGem
	nonGemCount, err := h.store.CountTenders(store.TenderQueryOptions{Source: &nonGem})
	if err != nil {
		nonGemCount = 0
	}

	statusCounts, err := h.store.CountByStatus()
	if err != nil {
		statusCounts = map[model.Status]int{}
	}

	criteria, err := h.store.GetCriteria()
	criteriaSet := err == nil && criteria.TurnoverCr > 0 && len(criteria.ProjectTypes) > 0

	resp := StatusResponse{
		Initialized:  total > 0 && criteriaSet,
		TotalTenders: total,
		GemCount:     gemCount,
		NonGemCount:  nonGemCount,
		StatusCounts: statusCounts,
		CriteriaSet:  criteriaSet,
	}

	logs, err := h.store.ListImportLogs(20)
	if err == nil {
		running := 0
		for _, l := range logs {
			if l.Status == string(model.JobStatusRunning) {
				running++
			}
		}
		resp.RunningImports = running
		if len(logs) > 0 {
			resp.LastImportTime = logs[0].StartedAt.Format("2006-01-02 15:04:05")
			resp.LastImportFile = logs[0].Filename
		}
	}

	c.JSON(http.StatusOK, resp)
}
