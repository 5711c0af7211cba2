package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bmohak/echo/internal/services"
)

type followRequest struct {
	Username string `json:"username" binding:"required"`
}

func (r *Router) toggleFollowHandler(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid follow payload")
		return
	}
	following, err := r.interactions.ToggleFollow(c.Request.Context(), c.GetInt64(ctxUserID), req.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

func (r *Router) isFollowingHandler(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		badRequest(c, "username query parameter required")
		return
	}
	following, err := r.interactions.IsFollowing(c.Request.Context(), c.GetInt64(ctxUserID), username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFollowing": following})
}

func (r *Router) profileHandler(c *gin.Context) {
	profile, err := r.accounts.GetProfile(c.Request.Context(), c.Param("handle"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type editProfileRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Privacy  *string `json:"privacy"`
}

func (r *Router) editProfileHandler(c *gin.Context) {
	var req editProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid profile payload")
		return
	}
	user, err := r.accounts.EditProfile(c.Request.Context(), c.GetInt64(ctxUserID), c.Param("handle"), services.EditProfileInput{
		Username: req.Username,
		Bio:      req.Bio,
		Privacy:  req.Privacy,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (r *Router) profilePostsHandler(c *gin.Context) {
	r.listAuthorPosts(c, false)
}

func (r *Router) profileRepliesHandler(c *gin.Context) {
	r.listAuthorPosts(c, true)
}

func (r *Router) listAuthorPosts(c *gin.Context, repliesOnly bool) {
	target, ok := r.resolveHandle(c)
	if !ok {
		return
	}
	posts, err := r.feed.AuthorPosts(c.Request.Context(), c.GetInt64(ctxUserID), target, repliesOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (r *Router) profileRepostsHandler(c *gin.Context) {
	target, ok := r.resolveHandle(c)
	if !ok {
		return
	}
	items, err := r.feed.AuthorReposts(c.Request.Context(), c.GetInt64(ctxUserID), target)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reposts": items})
}

// resolveHandle maps the :handle path segment to a user id, answering 404
// itself when the user does not exist.
func (r *Router) resolveHandle(c *gin.Context) (int64, bool) {
	profile, err := r.accounts.GetProfile(c.Request.Context(), c.Param("handle"))
	if err != nil {
		writeError(c, err)
		return 0, false
	}
	return profile.User.ID, true
}

type reportRequest struct {
	PostID *int64 `json:"postId"`
	UserID *int64 `json:"userId"`
	Reason string `json:"reason" binding:"required"`
}

func (r *Router) reportHandler(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid report payload")
		return
	}
	err := r.accounts.Report(c.Request.Context(), c.GetInt64(ctxUserID), req.PostID, req.UserID, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reported": true})
}

func (r *Router) collegeHandler(c *gin.Context) {
	collegeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	college, members, err := r.accounts.GetCollege(c.Request.Context(), collegeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"college": college, "users": members})
}

func (r *Router) searchHandler(c *gin.Context) {
	results, err := r.search.Search(c.Request.Context(), c.GetInt64(ctxUserID), c.Query("q"), c.Query("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (r *Router) notificationsHandler(c *gin.Context) {
	items, unread, err := r.notify.Inbox(c.Request.Context(), c.GetInt64(ctxUserID))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "unread": unread})
}

type announcementRequest struct {
	Message string `json:"message" binding:"required"`
}

func (r *Router) announcementHandler(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid announcement payload")
		return
	}
	notif, err := r.notify.Announce(c.Request.Context(), c.GetInt64(ctxUserID), req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notification": notif})
}
