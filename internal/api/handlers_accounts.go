package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

func (r *Router) signupHandler(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid signup payload")
		return
	}
	user, err := r.accounts.Signup(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"userId": user.ID})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r *Router) loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid login payload")
		return
	}
	token, user, err := r.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (r *Router) checkUsernameHandler(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		badRequest(c, "username query parameter required")
		return
	}
	available, err := r.accounts.CheckUsername(c.Request.Context(), username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

type sendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (r *Router) sendVerificationHandler(c *gin.Context) {
	var req sendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid verification payload")
		return
	}
	code, err := r.accounts.SendVerification(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := gin.H{"sent": true}
	// mail delivery is out of scope; surface the code only in debug runs
	if r.cfg.Logging.Level == "DEBUG" {
		resp["code"] = code
	}
	c.JSON(http.StatusOK, resp)
}

type verifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

func (r *Router) verifyCodeHandler(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid verification payload")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": r.accounts.VerifyCode(req.Email, req.Code)})
}
