package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scanworks/passport-scanner/internal/batch"
	"github.com/scanworks/passport-scanner/internal/common"
	"github.com/scanworks/passport-scanner/internal/export"
	"github.com/scanworks/passport-scanner/internal/history"
	"github.com/scanworks/passport-scanner/internal/normalize"
)

// Deps carries everything the HTTP surface needs. Server owns no business
// logic; it validates, delegates, and translates errors.
type Deps struct {
	Sessions  *Sessions
	Batches   *Batches
	Scheduler *batch.Scheduler
	Scanner   batch.Scanner
	Norm      *normalize.Normalizer
	Exporter  *export.Service
	History   *history.Store
	Logger    *slog.Logger
	// RunCtx outlives individual requests; batch runs started by a request
	// keep going after the request returns.
	RunCtx context.Context
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.RunCtx == nil {
		d.RunCtx = context.Background()
	}
	if d.Batches == nil {
		d.Batches = NewBatches(0, nil)
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = 16 << 20

	r.Use(
		RequestID(),
		Logging(d.Logger),
		Recovery(d.Logger),
	)

	h := &handlers{deps: d}

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	// Logging in while already logged in is a conflict; logout stays open
	// so a valid cookie can always be cleared.
	auth := api.Group("/auth")
	auth.POST("/login", RejectSession(d.Sessions), h.login)
	auth.POST("/logout", h.logout)

	authed := api.Group("")
	authed.Use(RequireSession(d.Sessions))
	authed.POST("/scan", h.scanOne)
	authed.POST("/batch/files", h.addFiles)
	authed.DELETE("/batch/files/:id", h.removeFile)
	authed.POST("/batch/process", h.processBatch)
	authed.GET("/batch/status", h.batchStatus)
	authed.POST("/batch/reset", h.resetBatch)
	authed.GET("/batch/export", h.exportBatch)
	authed.GET("/history", h.listHistory)

	return r
}

type handlers struct {
	deps Deps
}

func (h *handlers) appError(c *gin.Context, err error) {
	h.deps.Logger.Warn("http.error",
		"request_id", c.GetString(requestIDKey),
		"path", c.Request.URL.Path,
		"error", err,
	)
	respondAppError(c, err)
}

func (h *handlers) invalid(c *gin.Context, message string) {
	h.appError(c, common.NewAppError(common.ErrInvalidInput, message, nil))
}

// batch returns the calling session's batch, keyed by its cookie.
func (h *handlers) batch(c *gin.Context) *batch.Session {
	return h.deps.Batches.Get(c.GetString(sessionTokenKey))
}
