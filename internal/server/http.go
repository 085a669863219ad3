package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/label-tracker/constants"
	"github.com/joseph-ayodele/label-tracker/internal/common"
	"github.com/joseph-ayodele/label-tracker/internal/entity"
	"github.com/joseph-ayodele/label-tracker/internal/export"
	processor "github.com/joseph-ayodele/label-tracker/internal/pipeline"
	"github.com/joseph-ayodele/label-tracker/internal/schema"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxFilenameLen  = 255
)

// HTTPServer is the upload shell: upload a label, review the extracted record,
// save it explicitly, browse and export the history.
type HTTPServer struct {
	proc      *processor.Processor
	exporter  *export.Service
	uploads   *UploadCache
	logger    *slog.Logger
	maxUpload int64
	router    *gin.Engine
}

func NewHTTPServer(proc *processor.Processor, exporter *export.Service, uploads *UploadCache, maxUploadBytes int64, logger *slog.Logger) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	s := &HTTPServer{
		proc:      proc,
		exporter:  exporter,
		uploads:   uploads,
		logger:    logger,
		maxUpload: maxUploadBytes,
		router:    r,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router for an http.Server.
func (s *HTTPServer) Handler() http.Handler { return s.router }

func (s *HTTPServer) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/v1")
	v1.POST("/uploads", s.handleUpload)
	v1.GET("/uploads/:id", s.handleGetUpload)
	v1.POST("/uploads/:id/save", s.handleSaveUpload)
	v1.POST("/orders", s.handleCreateOrder)
	v1.GET("/orders", s.handleListOrders)
	v1.GET("/orders/export.xlsx", s.handleExport)
}

type uploadResponse struct {
	Upload
	processor.Result
}

func (s *HTTPServer) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.fail(c, http.StatusRequestEntityTooLarge, err)
			return
		}
		s.fail(c, http.StatusBadRequest, errors.New("multipart field \"file\" is required"))
		return
	}
	if err := common.NewValidator().Field("filename", fh.Filename, common.Required, common.MaxLength(maxFilenameLen)).Error(); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	if constants.MapExtToFormat(constants.NormalizeExt(filepath.Ext(fh.Filename))) == "" {
		s.fail(c, http.StatusBadRequest, errors.New("only pdf and txt documents are accepted"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	res, err := s.proc.ProcessBytes(ctx, fh.Filename, data)
	if err != nil {
		s.fail(c, common.HTTPStatus(err), err)
		return
	}
	up := s.uploads.Put(fh.Filename, res)
	common.LoggerFromContext(common.WithUploadID(ctx, up.ID), s.logger).Info("upload.extracted",
		"filename", fh.Filename,
		"bytes", len(data),
		"needs_review", res.NeedsReview,
	)
	c.JSON(http.StatusCreated, uploadResponse{Upload: *up, Result: res})
}

func (s *HTTPServer) handleGetUpload(c *gin.Context) {
	id, ok := s.uploadID(c)
	if !ok {
		return
	}
	up, ok := s.uploads.Get(id)
	if !ok {
		s.fail(c, http.StatusNotFound, errors.New("upload not found or expired"))
		return
	}
	c.JSON(http.StatusOK, uploadResponse{Upload: up, Result: up.Result})
}

// handleSaveUpload persists the record of a cached upload. Every call inserts a
// new row; a failed insert leaves the upload cached so the user can retry.
func (s *HTTPServer) handleSaveUpload(c *gin.Context) {
	id, ok := s.uploadID(c)
	if !ok {
		return
	}
	up, ok := s.uploads.Get(id)
	if !ok {
		s.fail(c, http.StatusNotFound, errors.New("upload not found or expired"))
		return
	}
	ctx := common.WithUploadID(c.Request.Context(), id)
	order, err := s.proc.Save(ctx, up.Result.Record)
	if err != nil {
		s.fail(c, common.HTTPStatus(err), err)
		return
	}
	s.uploads.MarkSaved(id)
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// uploadID returns the :id parameter, rejecting anything that is not an upload id.
func (s *HTTPServer) uploadID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := common.NewValidator().Field("upload_id", id, common.UUID).Error(); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return "", false
	}
	return id, true
}

func (s *HTTPServer) handleCreateOrder(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, s.maxUpload))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	rec, err := schema.DecodeRecord(body)
	if err != nil {
		s.fail(c, common.HTTPStatus(err), err)
		return
	}
	order, err := s.proc.Save(c.Request.Context(), rec)
	if err != nil {
		s.fail(c, common.HTTPStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (s *HTTPServer) handleListOrders(c *gin.Context) {
	orders, err := s.proc.List(c.Request.Context())
	if err != nil {
		s.fail(c, common.HTTPStatus(err), err)
		return
	}
	if orders == nil {
		orders = []*entity.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *HTTPServer) handleExport(c *gin.Context) {
	data, err := s.exporter.ExportOrdersXLSX(c.Request.Context())
	if err != nil {
		s.fail(c, common.HTTPStatus(err), err)
		return
	}
	name := "orders-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (s *HTTPServer) fail(c *gin.Context, status int, err error) {
	logger := common.LoggerFromContext(c.Request.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("http.failed", "path", c.FullPath(), "status", status, "error", err)
	} else {
		logger.Warn("http.rejected", "path", c.FullPath(), "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// requestLogger tags every request with an id and logs one line when it completes.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		if id := c.GetHeader("X-Request-ID"); id != "" {
			ctx = common.WithRequestID(ctx, id)
		}
		ctx, id := common.EnsureRequestID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", id)

		c.Next()

		logger.Info("http.request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
