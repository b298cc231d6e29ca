package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

// OverrideRequest manual eligibility decision
type OverrideRequest struct {
	Status  model.Status `json:"status" binding:"required"`
	Reason  string       `json:"reason"`
	Comment string       `json:"comment"`
}

var validOverrideStatuses = map[model.Status]bool{
	model.StatusEligible:     true,
	model.StatusNotEligible:  true,
	model.StatusNotRelevant:  true,
	model.StatusManualReview: true,
}

// SetOverride records a manual eligibility decision. The computed status is
// kept alongside; the override only shadows it.
// POST /api/tenders/:id/override
func (h *Handler) SetOverride(c *gin.Context) {
	id, ok := h.tenderID(c)
	if !ok {
		return
	}

	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !validOverrideStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid override status"})
		return
	}

	tender, err := h.store.GetTenderByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tender == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tender not found"})
		return
	}

	if err := h.store.SetOverride(id, true, req.Status, req.Reason, req.Comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tender.IsManualOverride = true
	tender.OverrideStatus = req.Status
	tender.OverrideReason = req.Reason
	tender.OverrideComment = req.Comment
	c.JSON(http.StatusOK, newTenderView(tender, time.Now()))
}

// ClearOverride removes the manual decision; the computed status takes
// effect again. The override fields stay as provenance.
// DELETE /api/tenders/:id/override
func (h *Handler) ClearOverride(c *gin.Context) {
	id, ok := h.tenderID(c)
	if !ok {
		return
	}

	tender, err := h.store.GetTenderByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tender == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tender not found"})
		return
	}

	if err := h.store.SetOverride(id, false, tender.OverrideStatus, tender.OverrideReason, tender.OverrideComment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tender.IsManualOverride = false
	c.JSON(http.StatusOK, newTenderView(tender, time.Now()))
}
