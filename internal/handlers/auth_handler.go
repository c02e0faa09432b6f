package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/ratehub/store-rating-api/internal/audit"
	"github.com/ratehub/store-rating-api/internal/auth"
	"github.com/ratehub/store-rating-api/internal/httperr"
	"github.com/ratehub/store-rating-api/internal/httpresp"
	"github.com/ratehub/store-rating-api/internal/middleware"
	"github.com/ratehub/store-rating-api/internal/models"
	"github.com/ratehub/store-rating-api/internal/policy"
	"github.com/ratehub/store-rating-api/internal/store"
	"github.com/ratehub/store-rating-api/internal/validators"
)

type AuthHandler struct {
	store  store.Store
	issuer *auth.Issuer
	audit  *audit.Dispatcher
}

func NewAuthHandler(st store.Store, issuer *auth.Issuer, audit *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{store: st, issuer: issuer, audit: audit}
}

// --------- Requests ---------

type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Address  string `json:"address" binding:"max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if err := validators.CheckPassword(req.Password); err != nil {
		httperr.BadRequest(c, "weak_password", err.Error())
		return
	}

	role := policy.RoleUser
	if req.Role != "" {
		parsed, ok := policy.ParseRole(req.Role)
		if !ok {
			httperr.BadRequest(c, "invalid_role", "Role must be user, store_owner or admin")
			return
		}
		role = parsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err, "")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        validators.NormalizeEmail(req.Email),
		PasswordHash: string(hashed),
		Address:      req.Address,
		Role:         string(role),
		IsVerified:   true,
	}

	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			httperr.Conflict(c, "duplicate_email", "User already exists")
			return
		}
		writeError(c, err, "")
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Role)
	if err != nil {
		writeError(c, err, "")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "user_signed_up",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.Created(c, gin.H{
		"token":   token,
		"role":    user.Role,
		"message": "User created successfully",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), validators.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
			return
		}
		writeError(c, err, "")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
		return
	}

	// Role comes from the freshly read row, not from any older token.
	token, err := h.issuer.Issue(user.ID, user.Role)
	if err != nil {
		writeError(c, err, "")
		return
	}

	httpresp.OK(c, gin.H{
		"token":   token,
		"role":    user.Role,
		"message": "Login successful",
	})
}

// UpdatePassword requires re-proof of the current password; self-only.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if err := validators.CheckPassword(req.NewPassword); err != nil {
		httperr.BadRequest(c, "weak_password", err.Error())
		return
	}

	p := middleware.PrincipalFrom(c)
	user, err := h.store.GetUserByID(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err, "User not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		httperr.Write(c, http.StatusBadRequest, "invalid_current_password", "Current password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err, "")
		return
	}

	if err := h.store.UpdateUserPassword(c.Request.Context(), user.ID, string(hashed)); err != nil {
		writeError(c, err, "User not found")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "password_updated",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.Message(c, "Password updated successfully")
}
