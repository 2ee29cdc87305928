package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/apperror"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Cookie *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, cookie *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookie: cookie}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// AuthResponse never carries the refresh token; that only travels in the cookie.
type AuthResponse struct {
	User        entity.PublicUser `json:"user"`
	AccessToken string            `json:"accessToken"`
}

type UserResponse struct {
	User entity.PublicUser `json:"user"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respond(c, http.StatusCreated, res)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respond(c, http.StatusOK, res)
}

// Refresh POST /api/auth/refresh (cookie)
func (h *AuthHandler) Refresh(c *gin.Context) {
	res, err := h.Svc.Refresh(c.Request.Context(), h.Cookie.Refresh(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respond(c, http.StatusOK, res)
}

// Logout POST /api/auth/logout (bearer)
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, ok := middleware.CurrentUser(c); ok {
		if err := h.Svc.Logout(c.Request.Context(), id.ID); err != nil {
			_ = c.Error(err)
			return
		}
	}
	h.Cookie.ClearRefresh(c)
	response.Message(c, http.StatusOK, "Logged out")
}

// Me GET /api/auth/me (bearer)
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(apperror.Unauthorized("Unauthorized"))
		return
	}
	u, err := h.Svc.Me(c.Request.Context(), id.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, UserResponse{User: *u})
}

func (h *AuthHandler) respond(c *gin.Context, status int, res *application.AuthResult) {
	h.Cookie.SetRefresh(c, res.RefreshToken)
	response.JSON(c, status, AuthResponse{User: res.User, AccessToken: res.AccessToken})
}
