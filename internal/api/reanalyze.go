package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReanalyzeTenderRequest per-tender reanalysis, optionally with corrected
// eligibility text (pasted from the tender PDF)
type ReanalyzeTenderRequest struct {
	EligibilityText string `json:"eligibilityText"`
}

// ReanalyzeTender re-runs classification for one tender
// POST /api/tenders/:id/reanalyze
func (h *Handler) ReanalyzeTender(c *gin.Context) {
	id, ok := h.tenderID(c)
	if !ok {
		return
	}

	var req ReanalyzeTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tender, err := h.pipeline.ReclassifyTender(id, req.EligibilityText)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tender == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tender not found"})
		return
	}

	c.JSON(http.StatusOK, newTenderView(tender, time.Now()))
}

// ReanalyzeAll starts a background job reclassifying every stored tender
// against the current criteria
// POST /api/reanalyze
func (h *Handler) ReanalyzeAll(c *gin.Context) {
	jobID := h.pipeline.StartReanalysis()
	c.JSON(http.StatusAccepted, gin.H{"jobId": jobID})
}
