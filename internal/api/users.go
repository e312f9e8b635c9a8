package api

import (
	"net/http"

	"snapfeed/internal/apperrors"
	"snapfeed/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	Users *auth.UserManager
}

func NewUserHandler(users *auth.UserManager) *UserHandler {
	return &UserHandler{Users: users}
}

type UserPatchRequest struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
	IsVerified  *bool   `json:"is_verified"`
}

func (r *UserPatchRequest) toPatch() auth.UserPatch {
	return auth.UserPatch{
		Email:       r.Email,
		Password:    r.Password,
		IsActive:    r.IsActive,
		IsSuperuser: r.IsSuperuser,
		IsVerified:  r.IsVerified,
	}
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, auth.CurrentUser(c))
}

// UpdateMe lets the authenticated user change email or password. The admin
// flags in the patch are ignored here.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UserPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, err))
		return
	}

	user, err := h.Users.UpdateUser(auth.CurrentUser(c).ID, req.toPatch(), false)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser returns any user's profile. Superuser only.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.requireSuperuserAndID(c)
	if !ok {
		return
	}

	user, err := h.Users.ByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser patches any user, including the admin-only flags. Superuser only.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.requireSuperuserAndID(c)
	if !ok {
		return
	}

	var req UserPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.Validation, err))
		return
	}

	user, err := h.Users.UpdateUser(id, req.toPatch(), true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes an account. Superuser only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.requireSuperuserAndID(c)
	if !ok {
		return
	}

	if err := h.Users.DeleteUser(id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) requireSuperuserAndID(c *gin.Context) (uuid.UUID, bool) {
	if !auth.CurrentUser(c).IsSuperuser {
		respondError(c, apperrors.New(apperrors.Forbidden, "superuser required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.New(apperrors.Validation, "malformed user id %q", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}
