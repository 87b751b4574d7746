package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blogcms/compose"
	"blogcms/database"
	"blogcms/models"
)

// PostFields is the writable subset of a post, as the store adapter takes it.
type PostFields = database.PostFields

// PostStore is the document store surface the handlers need. Implemented by
// database.PostRepo; tests substitute an in-memory fake.
type PostStore interface {
	Create(ctx context.Context, fields PostFields) (string, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	ListByCategory(ctx context.Context, category string) ([]models.Post, error)
	Update(ctx context.Context, id string, fields PostFields) error
	Delete(ctx context.Context, id string) error
}

// Handler carries the injected collaborators for the blog API. No package
// globals; everything is wired in main.
type Handler struct {
	store    PostStore
	resolver *compose.Resolver
}

func New(store PostStore, resolver *compose.Resolver) *Handler {
	return &Handler{store: store, resolver: resolver}
}

// writeSaveError maps resolver failures onto the error taxonomy: field
// validation and size limits are the caller's fault, provider failures are
// not, and the document is never written after any of them.
func writeSaveError(c *gin.Context, err error) {
	var ve *compose.ValidationError
	var ue *compose.UploadError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, compose.ErrTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds the maximum upload size"})
	case errors.As(err, &ue):
		c.JSON(http.StatusInternalServerError, gin.H{"error": ue.Message, "details": ue.Details})
	default:
		log.Error().Err(err).Msg("save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save post"})
	}
}
