package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/classifier"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

// GetCriteria returns the stored company criteria
// GET /api/criteria
func (h *Handler) GetCriteria(c *gin.Context) {
	criteria, err := h.store.GetCriteria()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, criteria)
}

// UpdateCriteria replaces the company criteria. Applies to future jobs only:
// a running upload keeps the snapshot it loaded at start.
// PUT /api/criteria
func (h *Handler) UpdateCriteria(c *gin.Context) {
	var criteria model.CompanyCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := classifier.ValidateCriteria(criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.SetCriteria(criteria); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, criteria)
}
