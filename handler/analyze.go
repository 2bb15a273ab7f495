package handler

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HiwarkhedePrasad/VakilAi/model"
	"github.com/HiwarkhedePrasad/VakilAi/service"
	"github.com/gin-gonic/gin"
)

type AnalyzeHandler struct {
	pipeline *service.Pipeline
	minio    *service.MinioService
	store    *service.AnalysisStore
}

func NewAnalyzeHandler(pipeline *service.Pipeline, minioSvc *service.MinioService) *AnalyzeHandler {
	return &AnalyzeHandler{
		pipeline: pipeline,
		minio:    minioSvc,
		store:    service.GetAnalysisStore(),
	}
}

// Analyze handles contract upload and runs the full analysis pipeline
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	// Get file from form
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	contentType := resolveContentType(header.Header.Get("Content-Type"), header.Filename)
	if !supportedContentType(contentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF, DOCX, TXT allowed"})
		return
	}

	jobID := newJobID(header.Filename)

	// Save upload to a temp file owned by this job
	tmp, err := os.CreateTemp("", "vakilai-*"+filepath.Ext(header.Filename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save upload: " + err.Error()})
		return
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save upload: " + err.Error()})
		return
	}
	tmp.Close()

	// Keep a copy of the original document in the object store, best-effort
	h.uploadSource(c.Request.Context(), jobID, header.Filename, tmpPath, contentType)

	job := model.NewAnalysisJob(jobID, header.Filename, tmpPath)
	h.pipeline.Run(c.Request.Context(), job, contentType)

	if job.Status == model.StatusFailed {
		// Parse failures stop before the analyze stage's cleanup
		os.Remove(tmpPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": job.Error})
		return
	}

	result := &model.AnalysisResult{
		JobID:        job.JobID,
		ContractName: job.FileName,
		AnalyzedAt:   time.Now().UTC(),
		Clauses:      job.Clauses,
	}
	h.store.Save(result)

	// Fire-and-forget persistence; a save failure never fails the job
	if h.minio != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.minio.SaveResult(ctx, result); err != nil {
				slog.Warn("failed to persist analysis result", "job_id", result.JobID, "error", err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// Get returns a stored analysis result
func (h *AnalyzeHandler) Get(c *gin.Context) {
	id := c.Param("id")

	result := h.store.Get(id)
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AnalyzeHandler) uploadSource(ctx context.Context, jobID, fileName, path, contentType string) {
	if h.minio == nil {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		slog.Warn("failed to reopen upload for object storage", "job_id", jobID, "error", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		slog.Warn("failed to stat upload for object storage", "job_id", jobID, "error", err)
		return
	}

	if err := h.minio.UploadSource(ctx, jobID, fileName, f, info.Size(), contentType); err != nil {
		slog.Warn("failed to store source document", "job_id", jobID, "error", err)
	}
}

// resolveContentType falls back to the file extension when the client sent
// nothing useful
func resolveContentType(declared, fileName string) string {
	if declared != "" && declared != "application/octet-stream" {
		// Strip parameters like "; charset=utf-8"
		if idx := strings.Index(declared, ";"); idx >= 0 {
			declared = declared[:idx]
		}
		return strings.TrimSpace(declared)
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return service.ContentTypePDF
	case ".docx":
		return service.ContentTypeDocx
	case ".txt":
		return service.ContentTypeText
	default:
		return declared
	}
}

func supportedContentType(contentType string) bool {
	switch contentType {
	case service.ContentTypePDF, service.ContentTypeDocx, service.ContentTypeText:
		return true
	default:
		return false
	}
}

// newJobID derives a stable job identifier from the file name and upload time
func newJobID(fileName string) string {
	sum := md5.Sum([]byte(fileName + time.Now().UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])
}
