package http

import (
	"github.com/gin-gonic/gin"

	"github.com/badigital/ba-workflow/internal/application/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	created(c, user)
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, gin.H{"token": token, "user": user})
}

// Profile handles GET /api/auth/profile
func (h *Handlers) Profile(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, user)
}
