package api

import (
	"log"
	"net/http"

	"snapfeed/internal/apperrors"
	"snapfeed/internal/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Users *auth.UserManager
}

func NewAuthHandler(users *auth.UserManager) *AuthHandler {
	return &AuthHandler{Users: users}
}

// Login exchanges form credentials (username holds the email) for a bearer
// token.
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")

	_, token, err := h.Users.Authenticate(email, password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Logout exists for client symmetry; bearer tokens are stateless so there is
// nothing to revoke server-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, err))
		return
	}

	user, err := h.Users.Register(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword always answers 202 so callers cannot probe which emails have
// accounts. The reset token is logged in place of outbound mail delivery.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, err))
		return
	}

	token, err := h.Users.ForgotPassword(req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if token != "" {
		log.Printf("Password reset token for %s: %s", req.Email, token)
	}

	c.Status(http.StatusAccepted)
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, err))
		return
	}

	if err := h.Users.ResetPassword(req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

type RequestVerifyTokenRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestVerifyToken mirrors ForgotPassword: always 202, token logged.
func (h *AuthHandler) RequestVerifyToken(c *gin.Context) {
	var req RequestVerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, err))
		return
	}

	token, err := h.Users.RequestVerifyToken(req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if token != "" {
		log.Printf("Verification token for %s: %s", req.Email, token)
	}

	c.Status(http.StatusAccepted)
}

type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, err))
		return
	}

	user, err := h.Users.Verify(req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
