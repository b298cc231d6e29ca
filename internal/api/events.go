package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

// JobEvents streams a job's progress as SSE. Reconnecting clients get the
// latest snapshot replayed first, so a job that finished while they were
// away still delivers its terminal event.
// GET /api/jobs/:id/events
func (h *Handler) JobEvents(c *gin.Context) {
	jobID := c.Param("id")

	ch, cancel, ok := h.broadcaster.Subscribe(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job"})
		return
	}
	defer cancel()

	flusher, canFlush := c.Writer.(http.Flusher)
	if !canFlush {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	for {
		select {
		case <-c.Request.Context().Done():
			// client gone; the job keeps running
			return
		case snap := <-ch:
			eventData, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
			flusher.Flush()

			if snap.Type != model.EventProgress {
				return
			}
		}
	}
}

// GetJob returns the latest progress snapshot (poll fallback)
// GET /api/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	jobID := c.Param("id")

	snap, ok := h.broadcaster.Last(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job"})
		return
	}

	c.JSON(http.StatusOK, snap)
}
