package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blogcms/compose"
	"blogcms/models"
)

// PostRequest is the submitted form for both create and edit. CoverImage is
// empty, a pending data URI, or a URL carried over from a previous load;
// the resolver branches on that shape.
type PostRequest struct {
	Title      string `json:"title"`
	Category   string `json:"category"`
	CoverImage string `json:"coverImage"`
	Body       string `json:"body"`
}

func (req PostRequest) submission() compose.Submission {
	return compose.Submission{
		Title:      req.Title,
		Category:   req.Category,
		CoverInput: req.CoverImage,
		Body:       req.Body,
	}
}

func requestCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 30*time.Second)
}

// CreatePost resolves the cover image (upload first) and only then writes
// the document. A failed upload never reaches the store.
func (h *Handler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := req.submission()
	if err := h.resolver.Validate(compose.ModeCreate, sub); err != nil {
		writeSaveError(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	cover, err := h.resolver.ResolveCover(ctx, sub)
	if err != nil {
		writeSaveError(c, err)
		return
	}

	id, err := h.store.Create(ctx, PostFields{
		Title:      sub.Title,
		Category:   sub.Category,
		CoverImage: cover,
		Body:       sub.Body,
	})
	if err != nil {
		log.Error().Err(err).Msg("create post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	if n := len(compose.EmbeddedImages(sub.Body)); n > 0 {
		log.Debug().Str("id", id).Int("inlineImages", n).Msg("post body carries inline embeds")
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListPosts returns all posts newest-first, optionally filtered by category.
func (h *Handler) ListPosts(c *gin.Context) {
	ctx, cancel := requestCtx(c)
	defer cancel()

	category := c.Query("category")

	var posts []models.Post
	var err error
	if category == "" {
		posts, err = h.store.ListAll(ctx)
	} else {
		if !models.ValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		posts, err = h.store.ListByCategory(ctx, category)
	}
	if err != nil {
		log.Error().Err(err).Msg("list posts failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost returns one post, or a 404 body when the id was never created or
// was deleted. Absence is not a store error.
func (h *Handler) GetPost(c *gin.Context) {
	ctx, cancel := requestCtx(c)
	defer cancel()

	post, err := h.store.GetByID(ctx, c.Param("id"))
	if err != nil {
		log.Error().Err(err).Msg("get post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// UpdatePost edits a post. A carried-over cover URL is preserved verbatim;
// a fresh file replaces it; an empty field clears it. Last write wins when
// two sessions race — there is no version check.
func (h *Handler) UpdatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := req.submission()
	if err := h.resolver.Validate(compose.ModeEdit, sub); err != nil {
		writeSaveError(c, err)
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	id := c.Param("id")
	existing, err := h.store.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("update post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	cover, err := h.resolver.ResolveCover(ctx, sub)
	if err != nil {
		writeSaveError(c, err)
		return
	}

	err = h.store.Update(ctx, id, PostFields{
		Title:      sub.Title,
		Category:   sub.Category,
		CoverImage: cover,
		Body:       sub.Body,
	})
	if err != nil {
		log.Error().Err(err).Msg("update post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// DeletePost removes the document only. Previously uploaded assets (cover
// and inline) stay in the remote store; the leak is accepted.
func (h *Handler) DeletePost(c *gin.Context) {
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.store.Delete(ctx, c.Param("id")); err != nil {
		log.Error().Err(err).Msg("delete post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
