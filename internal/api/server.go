// Package api exposes the interactive surface: thin wrappers around the same
// pipeline operations the batch command runs, plus one-off media analysis of
// uploaded files.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zemichael-addweb/s3-files-content-parser/internal/extract"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/models"
	"github.com/zemichael-addweb/s3-files-content-parser/internal/pipeline"
)

type Server struct {
	pipeline *pipeline.Pipeline
	prober   *extract.Prober
	scratch  string
	engine   *gin.Engine
}

func NewServer(p *pipeline.Pipeline, prober *extract.Prober, scratchDir string) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{pipeline: p, prober: prober, scratch: scratchDir, engine: gin.New()}
	s.engine.Use(gin.Recovery())

	group := s.engine.Group("/api/file-content")
	group.GET("/files", s.getFiles)
	group.GET("/extensions", s.getExtensions)
	group.POST("/process", s.processFile)
	group.POST("/retry", s.retryFile)
	group.POST("/batch", s.runBatch)
	group.POST("/analyze-media", s.analyzeMedia)

	return s
}

// Handler returns the routed handler, for serving and for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is canceled, then drains in-flight requests.
// A canceled context is the normal exit, reported as nil.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	slog.Info("HTTP server listening.", "port", port)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) getFiles(c *gin.Context) {
	files, err := s.pipeline.ListSupported(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error retrieving files: " + err.Error(),
		})
		return
	}
	if files == nil {
		files = []string{}
	}
	c.JSON(http.StatusOK, models.FilesResponse{Success: true, Files: files})
}

func (s *Server) getExtensions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"extensions": pipeline.SupportedExtensions(),
	})
}

func (s *Server) processFile(c *gin.Context) {
	s.runItem(c, s.pipeline.ProcessPath)
}

func (s *Server) retryFile(c *gin.Context) {
	s.runItem(c, s.pipeline.Retry)
}

func (s *Server) runItem(c *gin.Context, op func(ctx context.Context, path string) (models.ItemResult, error)) {
	var req models.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	res, err := op(c.Request.Context(), req.FilePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	status := http.StatusOK
	if res.Status == models.ItemFailed {
		status = http.StatusInternalServerError
	}
	c.JSON(status, models.ProcessResponse{
		Success: res.Status != models.ItemFailed,
		Results: []models.ItemResult{res},
	})
}

func (s *Server) runBatch(c *gin.Context) {
	summary, err := s.pipeline.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
			"summary": summary,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// analyzeMedia probes an uploaded file and returns its normalized metadata
// without touching the bucket or the record store.
func (s *Server) analyzeMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file is required: " + err.Error()})
		return
	}

	if err := os.MkdirAll(s.scratch, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	local := filepath.Join(s.scratch, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, local); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	defer os.Remove(local)

	metadata, err := s.prober.Analyze(c.Request.Context(), local)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "metadata": metadata})
}
