package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/ratehub/store-rating-api/internal/audit"
	"github.com/ratehub/store-rating-api/internal/httperr"
	"github.com/ratehub/store-rating-api/internal/httpresp"
	"github.com/ratehub/store-rating-api/internal/middleware"
	"github.com/ratehub/store-rating-api/internal/models"
	"github.com/ratehub/store-rating-api/internal/policy"
	"github.com/ratehub/store-rating-api/internal/store"
	"github.com/ratehub/store-rating-api/internal/validators"
)

type UserHandler struct {
	store store.Store
	audit *audit.Dispatcher
}

func NewUserHandler(st store.Store, audit *audit.Dispatcher) *UserHandler {
	return &UserHandler{store: st, audit: audit}
}

// --------- Requests ---------

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Address  string `json:"address" binding:"max=500"`
}

type UpdateUserRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Address string `json:"address" binding:"max=500"`
	Role    string `json:"role"`
}

// --------- Handlers ---------

func (h *UserHandler) Profile(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	user, err := h.store.GetUserByID(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err, "User not found")
		return
	}
	httpresp.OK(c, gin.H{"user": user})
}

func (h *UserHandler) List(c *gin.Context) {
	if err := policy.Authorize(middleware.PrincipalFrom(c), policy.ActionListUsers); err != nil {
		writeError(c, err, "")
		return
	}

	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	httpresp.OK(c, gin.H{"users": users})
}

func (h *UserHandler) Stats(c *gin.Context) {
	if err := policy.Authorize(middleware.PrincipalFrom(c), policy.ActionViewUserStats); err != nil {
		writeError(c, err, "")
		return
	}

	stats, err := h.store.UserStats(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	httpresp.OK(c, gin.H{"stats": stats})
}

func (h *UserHandler) Search(c *gin.Context) {
	if err := policy.Authorize(middleware.PrincipalFrom(c), policy.ActionSearchUsers); err != nil {
		writeError(c, err, "")
		return
	}

	term := c.Query("q")
	if term == "" {
		httperr.BadRequest(c, "missing_query", "Search query is required")
		return
	}

	users, err := h.store.SearchUsers(c.Request.Context(), term)
	if err != nil {
		writeError(c, err, "")
		return
	}
	httpresp.OK(c, gin.H{"users": users})
}

func (h *UserHandler) GetByID(c *gin.Context) {
	if err := policy.Authorize(middleware.PrincipalFrom(c), policy.ActionViewUser); err != nil {
		writeError(c, err, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "User not found")
		return
	}
	httpresp.OK(c, gin.H{"user": user})
}

func (h *UserHandler) Create(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if err := policy.Authorize(p, policy.ActionCreateUser); err != nil {
		writeError(c, err, "")
		return
	}

	var req CreateUserRequest
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
		writeError(c, err, "")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "user_created",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.Created(c, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p := middleware.PrincipalFrom(c)
	if err := policy.CanUpdateUser(p, id); err != nil {
		writeError(c, err, "")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	existing, err := h.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "User not found")
		return
	}

	existing.Name = req.Name
	existing.Email = validators.NormalizeEmail(req.Email)
	existing.Address = req.Address

	// Only an admin may change a role.
	if req.Role != "" && p.Role == policy.RoleAdmin {
		role, valid := policy.ParseRole(req.Role)
		if !valid {
			httperr.BadRequest(c, "invalid_role", "Role must be user, store_owner or admin")
			return
		}
		existing.Role = string(role)
	}

	if err := h.store.UpdateUser(c.Request.Context(), existing); err != nil {
		writeError(c, err, "User not found")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "user_updated",
		Entity:   "user",
		EntityID: &id,
	})

	httpresp.OK(c, gin.H{
		"message": "User updated successfully",
		"user":    existing,
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	p := middleware.PrincipalFrom(c)
	if err := policy.CanDeleteUser(p, id); err != nil {
		var denied *policy.DeniedError
		// Self-deletion is a valid-principal bad request, not a role gap.
		if errors.As(err, &denied) && p.Role == policy.RoleAdmin {
			httperr.BadRequest(c, "self_delete_forbidden", denied.Reason)
			return
		}
		writeError(c, err, "")
		return
	}

	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		writeError(c, err, "User not found")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "user_deleted",
		Entity:   "user",
		EntityID: &id,
	})

	httpresp.Message(c, "User deleted successfully")
}
