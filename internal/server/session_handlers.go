package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, "username and password are required")
		return
	}
	if !h.deps.Sessions.CheckCredentials(req.Username, req.Password) {
		respondError(c, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}

	token, err := h.deps.Sessions.Issue(req.Username)
	if err != nil {
		h.appError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, h.deps.Sessions.TTLSeconds(), "/", "", h.deps.Sessions.Secure(), true)
	c.JSON(http.StatusOK, gin.H{"ok": true, "username": req.Username})
}

func (h *handlers) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.deps.Sessions.Secure(), true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
