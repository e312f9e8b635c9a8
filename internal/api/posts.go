package api

import (
	"io"
	"net/http"

	"snapfeed/internal/apperrors"
	"snapfeed/internal/auth"
	"snapfeed/internal/posts"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	Service *posts.Service
}

func NewPostHandler(service *posts.Service) *PostHandler {
	return &PostHandler{Service: service}
}

// Upload handles POST /upload: multipart form with a required "file" part and
// an optional "caption" field. Returns the persisted post.
func (h *PostHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, apperrors.New(apperrors.Validation, "file is required"))
		return
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		respondError(c, apperrors.New(apperrors.Validation, "failed to read file"))
		return
	}

	caption := c.PostForm("caption")
	contentType := header.Header.Get("Content-Type")
	user := auth.CurrentUser(c)

	post, err := h.Service.Create(user, fileData, header.Filename, contentType, caption)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// Feed handles GET /feed: all posts newest-first with viewer annotations.
func (h *PostHandler) Feed(c *gin.Context) {
	user := auth.CurrentUser(c)

	feed, err := h.Service.Feed(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": feed})
}

// Delete handles DELETE /posts/:post_id with owner enforcement.
func (h *PostHandler) Delete(c *gin.Context) {
	user := auth.CurrentUser(c)

	if err := h.Service.Delete(user, c.Param("post_id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted"})
}
