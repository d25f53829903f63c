package httpapi

import (
	"errors"
	"net/http"
	"net/mail"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
	"github.com/nguyentantai21042004/lecture-notes/internal/pipeline"
	"github.com/nguyentantai21042004/lecture-notes/internal/render"
)

const statusPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Lecture Notes</title></head>
<body>
<h1>Lecture Notes</h1>
<p>The service is running. POST a lecture video to <code>/process</code> as multipart field <code>video</code>.</p>
</body>
</html>`

var allowedVideoExt = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".webm": true, ".avi": true, ".m4v": true,
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type API struct {
	cfg      Config
	pipeline pipeline.Pipeline
	logger   logger.Logger
}

func NewAPI(cfg Config, p pipeline.Pipeline, log logger.Logger) *API {
	return &API{cfg: cfg, pipeline: p, logger: log}
}

func registerRoutes(r *gin.Engine, api *API, limiter gin.HandlerFunc) {
	r.GET("/", api.handleIndex)
	r.GET("/health", api.handleHealth)
	r.POST("/process", limiter, api.handleProcess)
}

func (a *API) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(statusPage))
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleProcess(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("video")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.logger.Warn(ctx, "Upload rejected: body exceeds %d bytes", tooLarge.Limit)
			respondMessage(c, http.StatusRequestEntityTooLarge, "video file too large")
			return
		}
		respondMessage(c, http.StatusBadRequest, "missing video file")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedVideoExt[ext] {
		respondMessage(c, http.StatusBadRequest, "unsupported video format")
		return
	}

	email := strings.TrimSpace(c.PostForm("email"))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			respondMessage(c, http.StatusBadRequest, "invalid email address")
			return
		}
	}

	original := strings.TrimSuffix(filepath.Base(fileHeader.Filename), filepath.Ext(fileHeader.Filename))
	name := uploadName(original)
	dst := filepath.Join(a.cfg.UploadDir, name+ext)

	a.logger.Info(ctx, "Received upload: filename=%s size=%d -> %s", fileHeader.Filename, fileHeader.Size, dst)

	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		a.logger.Error(ctx, "Saving upload failed: %v", err)
		_ = os.Remove(dst)
		respondMessage(c, http.StatusInternalServerError, pipeline.UserMessage)
		return
	}

	res := a.pipeline.Run(ctx, pipeline.Job{
		VideoPath: dst,
		Name:      name,
		Title:     render.TitleFromName(original),
		Email:     email,
	})
	if !res.Success {
		respondMessage(c, http.StatusInternalServerError, pipeline.UserMessage)
		return
	}

	body := gin.H{
		"success":     true,
		"pdfUrl":      res.ArtifactURL,
		"provider":    res.Provider,
		"placeholder": res.Placeholder,
	}
	if res.DOCXURL != "" {
		body["docxUrl"] = res.DOCXURL
	}
	c.JSON(http.StatusOK, body)
}

// uploadName makes a storage-safe, collision-free name from the uploaded file name.
func uploadName(original string) string {
	base := strings.Trim(unsafeName.ReplaceAllString(original, "-"), "-")
	if len(base) > 60 {
		base = base[:60]
	}
	if base == "" {
		base = "lecture"
	}
	return base + "-" + uuid.NewString()[:8]
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
