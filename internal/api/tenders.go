package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/store"
)

// tenderView a record plus the derived fields clients filter on.
// effectiveStatus folds the manual override in; isDeadlineMissed is computed
// at read time and never stored.
type tenderView struct {
	*model.TenderRecord
	EffectiveStatus  model.Status `json:"effectiveStatus"`
	IsDeadlineMissed bool         `json:"isDeadlineMissed"`
}

func newTenderView(t *model.TenderRecord, now time.Time) tenderView {
	return tenderView{
		TenderRecord:     t,
		EffectiveStatus:  t.EffectiveStatus(),
		IsDeadlineMissed: t.IsDeadlineMissed(now),
	}
}

// ListTenders lists stored tenders with optional source/status/tag/missed
// filters
// GET /api/tenders?source=gem&status=eligible&tag=Software&missed=false&limit=50&offset=0
func (h *Handler) ListTenders(c *gin.Context) {
	opts := store.TenderQueryOptions{
		Limit:  50,
		Offset: 0,
	}

	var missed *bool
	if v := c.Query("missed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid missed flag"})
			return
		}
		missed = &b
	}

	if v := c.Query("source"); v != "" {
		source := model.Source(v)
		if source != model.SourceGem && source != model.SourceNonGem {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source"})
			return
		}
		opts.Source = &source
	}
	if v := c.Query("status"); v != "" {
		status := model.Status(v)
		opts.Status = &status
	}
	if v := c.Query("tag"); v != "" {
		tag := v
		opts.Tag = &tag
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		opts.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		opts.Offset = n
	}

	now := time.Now()

	// missed is derived from submissionDeadline at read time, so it cannot
	// go into the SQL filter; page in memory when it is requested
	if missed != nil {
		all := opts
		all.Limit = 0
		all.Offset = 0
		records, err := h.store.ListTenders(all)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		views := []tenderView{}
		for _, t := range records {
			if t.IsDeadlineMissed(now) != *missed {
				continue
			}
			views = append(views, newTenderView(t, now))
		}

		total := len(views)
		if opts.Offset < len(views) {
			views = views[opts.Offset:]
		} else {
			views = []tenderView{}
		}
		if opts.Limit > 0 && len(views) > opts.Limit {
			views = views[:opts.Limit]
		}

		c.JSON(http.StatusOK, gin.H{
			"tenders": views,
			"total":   total,
			"limit":   opts.Limit,
			"offset":  opts.Offset,
		})
		return
	}

	records, err := h.store.ListTenders(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := h.store.CountTenders(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	views := make([]tenderView, 0, len(records))
	for _, t := range records {
		views = append(views, newTenderView(t, now))
	}

	c.JSON(http.StatusOK, gin.H{
		"tenders": views,
		"total":   total,
		"limit":   opts.Limit,
		"offset":  opts.Offset,
	})
}

// GetTender returns one tender with its corrigendum change history
// GET /api/tenders/:id
func (h *Handler) GetTender(c *gin.Context) {
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

	changes, err := h.store.ListChangesByTender(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tender":  newTenderView(tender, time.Now()),
		"changes": changes,
	})
}

// ListTenderChanges returns the field-level corrigendum history
// GET /api/tenders/:id/changes
func (h *Handler) ListTenderChanges(c *gin.Context) {
	id, ok := h.tenderID(c)
	if !ok {
		return
	}

	changes, err := h.store.ListChangesByTender(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"changes": changes})
}

// tenderID parses the :id path param, writing the error response itself
func (h *Handler) tenderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tender id"})
		return 0, false
	}
	return id, true
}
