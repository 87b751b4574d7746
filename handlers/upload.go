package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blogcms/encoding"
	"blogcms/upload"
)

// UploadHandler is the gateway between encoded payloads and the remote
// asset store. The asset is durable before the response returns; there is
// no rollback if the caller's subsequent document write fails.
type UploadHandler struct {
	uploader upload.Uploader
	maxBytes int64
}

func NewUploadHandler(uploader upload.Uploader, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploader: uploader, maxBytes: maxBytes}
}

type uploadImageRequest struct {
	File string `json:"file"`
}

// UploadImage accepts {"file": "<data URI>"} and responds with {"url": ...}.
// Every response body is well-formed JSON, including failures, so callers
// can parse uniformly.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	// Transport-layer cap; base64 inflates payloads by ~4/3 plus headroom
	// for the JSON envelope.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes*3/2+4096)

	var req uploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if req.File == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	// Defensive size check on the decoded payload; the client should have
	// rejected oversize files before calling.
	if size, err := encoding.DecodedSize(req.File); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	} else if size > h.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), req.File)
	if err != nil {
		log.Error().Err(err).Msg("asset upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
