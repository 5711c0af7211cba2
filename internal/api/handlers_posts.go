package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bmohak/echo/internal/services"
)

func (r *Router) timelineHandler(c *gin.Context) {
	items, err := r.feed.HomeTimeline(c.Request.Context(), c.GetInt64(ctxUserID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type createPostRequest struct {
	Content      string   `json:"content"`
	Media        []string `json:"media"`
	Privacy      string   `json:"privacy"`
	ParentPostID *int64   `json:"parentPostId"`
	QuoteID      *int64   `json:"quoteId"`
}

func (r *Router) createPostHandler(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid post payload")
		return
	}
	post, err := r.posts.Create(c.Request.Context(), services.CreatePostInput{
		AuthorID:     c.GetInt64(ctxUserID),
		Text:         req.Content,
		Media:        req.Media,
		Privacy:      req.Privacy,
		ParentPostID: req.ParentPostID,
		QuoteID:      req.QuoteID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

type deletePostRequest struct {
	PostID int64 `json:"postId" binding:"required"`
}

func (r *Router) deletePostHandler(c *gin.Context) {
	var req deletePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid delete payload")
		return
	}
	err := r.posts.Delete(c.Request.Context(), c.GetInt64(ctxUserID), c.GetBool(ctxIsAdmin), req.PostID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (r *Router) threadHandler(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	thread, err := r.feed.GetThread(c.Request.Context(), c.GetInt64(ctxUserID), postID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

func (r *Router) repliesHandler(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	replies, err := r.feed.GetReplies(c.Request.Context(), c.GetInt64(ctxUserID), postID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

type toggleRequest struct {
	PostID int64 `json:"postId" binding:"required"`
}

func (r *Router) toggleLikeHandler(c *gin.Context) {
	r.runToggle(c, "liked", r.interactions.ToggleLike)
}

func (r *Router) toggleDislikeHandler(c *gin.Context) {
	r.runToggle(c, "disliked", r.interactions.ToggleDislike)
}

func (r *Router) toggleRepostHandler(c *gin.Context) {
	r.runToggle(c, "reposted", r.interactions.ToggleRepost)
}

func (r *Router) runToggle(c *gin.Context, field string, toggle func(ctx context.Context, userID, postID int64) (bool, error)) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid toggle payload")
		return
	}
	state, err := toggle(c.Request.Context(), c.GetInt64(ctxUserID), req.PostID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{field: state})
}

// pathID parses a numeric path parameter, answering 400 itself on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
