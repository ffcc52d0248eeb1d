package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scanworks/passport-scanner/internal/batch"
	"github.com/scanworks/passport-scanner/internal/export"
)

// addFiles accepts one or more uploads under the multipart field "files"
// and enqueues them as pending items. The whole request is rejected if any
// file fails validation; partial adds make batch state confusing.
func (h *handlers) addFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.invalid(c, "multipart form required")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		h.invalid(c, "at least one file is required under field 'files'")
		return
	}

	type upload struct {
		content  []byte
		mimeType string
		filename string
	}
	uploads := make([]upload, 0, len(files))
	for _, fh := range files {
		content, mimeType, err := readUpload(fh)
		if err != nil {
			h.appError(c, err)
			return
		}
		uploads = append(uploads, upload{content, mimeType, fh.Filename})
	}

	sess := h.batch(c)
	added := make([]batch.ItemView, 0, len(uploads))
	for _, u := range uploads {
		view, err := sess.Add(u.filename, u.mimeType, u.content)
		if err != nil {
			h.appError(c, err)
			return
		}
		added = append(added, view)
	}
	c.JSON(http.StatusCreated, gin.H{"added": added, "count": len(added)})
}

func (h *handlers) removeFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.invalid(c, "invalid file id")
		return
	}
	if err := h.batch(c).Remove(id); err != nil {
		h.appError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// processBatch starts a run in the background and returns immediately;
// progress is observed through the status endpoint.
func (h *handlers) processBatch(c *gin.Context) {
	sess := h.batch(c)
	counters := sess.Counters()
	if counters.Processing {
		respondError(c, http.StatusConflict, "conflict", "batch is already processing")
		return
	}
	if counters.Pending == 0 {
		h.invalid(c, "no pending files to process")
		return
	}

	go func() {
		if err := h.deps.Scheduler.Run(h.deps.RunCtx, sess); err != nil {
			h.deps.Logger.Error("batch.run.error", "error", err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"started": true, "pending": counters.Pending})
}

func (h *handlers) batchStatus(c *gin.Context) {
	sess := h.batch(c)
	c.JSON(http.StatusOK, gin.H{
		"counters": sess.Counters(),
		"items":    sess.Items(),
	})
}

func (h *handlers) resetBatch(c *gin.Context) {
	if err := h.batch(c).Reset(); err != nil {
		h.appError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// exportBatch renders the completed scans as CSV or XLSX. The enhance
// parameter overrides the server default: 0 skips the AI pass, 1 requires
// it, absent means enhance whenever an enhancer is configured.
func (h *handlers) exportBatch(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		h.appError(c, err)
		return
	}
	var exportOpts []export.ExportOption
	switch c.Query("enhance") {
	case "":
	case "0", "false":
		exportOpts = append(exportOpts, export.WithoutEnhancement())
	case "1", "true":
		if !h.deps.Exporter.HasEnhancer() {
			h.invalid(c, "AI enhancement is not configured")
			return
		}
	default:
		h.invalid(c, "enhance must be 0 or 1")
		return
	}

	sess := h.batch(c)
	if sess.Counters().Processing {
		respondError(c, http.StatusConflict, "conflict", "batch is still processing")
		return
	}

	results := sess.CompletedResults()
	res, err := h.deps.Exporter.Export(c.Request.Context(), results, format, exportOpts...)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	c.Data(http.StatusOK, res.ContentType, res.Data)
}
