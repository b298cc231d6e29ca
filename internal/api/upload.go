package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/importer"
)

// Upload accepts an .xlsx workbook and starts a background ingestion job.
// Responds with the job id immediately; progress streams separately.
// POST /api/upload
func (h *Handler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	uploadedFile := files[0]
	if !strings.HasSuffix(strings.ToLower(uploadedFile.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .xlsx files are supported"})
		return
	}

	tempFilePath := filepath.Join(h.uploadDir,
		fmt.Sprintf("upload_%d_%s", time.Now().UnixNano(), filepath.Base(uploadedFile.Filename)))
	if err := c.SaveUploadedFile(uploadedFile, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	jobID := h.pipeline.Start(importer.UploadOptions{
		FilePath:        tempFilePath,
		FileName:        uploadedFile.Filename,
		RemoveFileAfter: true,
	})

	c.JSON(http.StatusAccepted, gin.H{"jobId": jobID})
}
