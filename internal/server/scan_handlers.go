package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scanworks/passport-scanner/constants"
	"github.com/scanworks/passport-scanner/internal/common"
	"github.com/scanworks/passport-scanner/internal/history"
)

// readUpload validates and buffers one uploaded file: extension and MIME
// must be in the allowed set, size capped before the scan collaborator
// ever sees the bytes.
func readUpload(fh *multipart.FileHeader) (content []byte, mimeType string, err error) {
	if fh.Size > constants.MaxUploadBytes {
		return nil, "", common.NewAppError(common.ErrInvalidInput,
			fmt.Sprintf("%s exceeds the %d MiB upload limit", fh.Filename, constants.MaxUploadBytes>>20), nil)
	}
	ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return nil, "", common.NewAppError(common.ErrInvalidInput,
			fmt.Sprintf("%s: unsupported file type %q", fh.Filename, ext), nil)
	}
	mimeType = constants.MIMEForExt(ext)

	// Browsers declare the real type per part; generic octet-stream uploads
	// fall through to the extension-derived type above.
	declared, _, _ := strings.Cut(fh.Header.Get("Content-Type"), ";")
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		if _, ok := constants.AllowedMIMETypes[declared]; !ok {
			return nil, "", common.NewAppError(common.ErrInvalidInput,
				fmt.Sprintf("%s: unsupported content type %q", fh.Filename, declared), nil)
		}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", common.WrapError(common.ErrInternal, "open upload", err)
	}
	defer func() { _ = f.Close() }()

	// LimitReader guards against a lying Content-Length.
	content, err = io.ReadAll(io.LimitReader(f, constants.MaxUploadBytes+1))
	if err != nil {
		return nil, "", common.WrapError(common.ErrInternal, "read upload", err)
	}
	if len(content) > constants.MaxUploadBytes {
		return nil, "", common.NewAppError(common.ErrInvalidInput,
			fmt.Sprintf("%s exceeds the %d MiB upload limit", fh.Filename, constants.MaxUploadBytes>>20), nil)
	}
	return content, mimeType, nil
}

// scanOne scans a single passport synchronously, outside any batch.
func (h *handlers) scanOne(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.invalid(c, "multipart field 'file' is required")
		return
	}
	content, mimeType, err := readUpload(fh)
	if err != nil {
		h.appError(c, err)
		return
	}

	raw, err := h.deps.Scanner.Scan(c.Request.Context(), content, mimeType)
	if err != nil {
		h.appError(c, common.WrapError(common.ErrInternal, "scan document", err))
		return
	}
	rec := h.deps.Norm.Record(raw)

	if h.deps.History != nil {
		if err := h.deps.History.RecordScan(c.Request.Context(), fh.Filename, rec); err != nil {
			h.deps.Logger.Warn("scan.history_record_error", "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": fh.Filename,
		"raw":      raw,
		"record":   rec,
	})
}

func (h *handlers) listHistory(c *gin.Context) {
	if h.deps.History == nil {
		respondError(c, http.StatusNotFound, "not_found", "history is not enabled")
		return
	}
	limit := 100
	if v := c.Query("limit"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &limit); err != nil {
			h.invalid(c, "limit must be an integer")
			return
		}
	}
	entries, err := h.deps.History.List(c.Request.Context(), limit)
	if err != nil {
		h.appError(c, err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
