package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ratehub/store-rating-api/internal/audit"
	"github.com/ratehub/store-rating-api/internal/httperr"
	"github.com/ratehub/store-rating-api/internal/httpresp"
	"github.com/ratehub/store-rating-api/internal/middleware"
	"github.com/ratehub/store-rating-api/internal/models"
	"github.com/ratehub/store-rating-api/internal/policy"
	"github.com/ratehub/store-rating-api/internal/store"
	"github.com/ratehub/store-rating-api/internal/validators"
)

type StoreHandler struct {
	store store.Store
	audit *audit.Dispatcher
}

func NewStoreHandler(st store.Store, audit *audit.Dispatcher) *StoreHandler {
	return &StoreHandler{store: st, audit: audit}
}

// --------- Requests ---------

type CreateStoreRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Address string `json:"address" binding:"required,min=5,max=500"`
	OwnerID uint   `json:"owner_id"`
}

type UpdateStoreRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Address string `json:"address" binding:"required,min=5,max=500"`
}

// --------- Handlers ---------

func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.store.ListStores(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	httpresp.OK(c, gin.H{"stores": stores})
}

// ForUser lists every store annotated with the caller's own rating.
func (h *StoreHandler) ForUser(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	stores, err := h.store.ListStoresWithUserRating(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err, "")
		return
	}
	httpresp.OK(c, gin.H{"stores": stores})
}

func (h *StoreHandler) MyStores(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	stores, err := h.store.ListStoresByOwner(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err, "")
		return
	}
	httpresp.OK(c, gin.H{"stores": stores})
}

// MyStore returns the caller's first store; owners usually have one.
func (h *StoreHandler) MyStore(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	stores, err := h.store.ListStoresByOwner(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err, "")
		return
	}
	if len(stores) == 0 {
		httperr.NotFound(c, "not_found", "No store found for this user")
		return
	}
	httpresp.OK(c, gin.H{"store": stores[0]})
}

func (h *StoreHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		httperr.BadRequest(c, "missing_query", "Search query is required")
		return
	}

	stores, err := h.store.SearchStores(c.Request.Context(), term)
	if err != nil {
		writeError(c, err, "")
		return
	}
	httpresp.OK(c, gin.H{"stores": stores})
}

func (h *StoreHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	row, err := h.store.GetStoreByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Store not found")
		return
	}
	httpresp.OK(c, gin.H{"store": row})
}

func (h *StoreHandler) Create(c *gin.Context) {
	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	p := middleware.PrincipalFrom(c)
	ownerID := req.OwnerID
	if p.Role != policy.RoleAdmin {
		// Non-admins always own the store they create.
		ownerID = p.UserID
	}

	owner, err := h.store.GetUserByID(c.Request.Context(), ownerID)
	if err != nil {
		httperr.BadRequest(c, "owner_not_found", "Store owner not found")
		return
	}

	ownerRole, _ := policy.ParseRole(owner.Role)
	if !ownerRole.CanOwnStore() {
		httperr.BadRequest(c, "invalid_owner_role", "Owner must be a store owner or admin")
		return
	}

	s := models.Store{
		Name:    req.Name,
		Email:   validators.NormalizeEmail(req.Email),
		Address: req.Address,
		OwnerID: ownerID,
	}

	if err := h.store.CreateStore(c.Request.Context(), &s); err != nil {
		writeError(c, err, "")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "store_created",
		Entity:   "store",
		EntityID: &s.ID,
	})

	httpresp.Created(c, gin.H{
		"message": "Store created successfully",
		"store":   s,
	})
}

func (h *StoreHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	existing, err := h.store.GetStoreByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Store not found")
		return
	}

	p := middleware.PrincipalFrom(c)
	if err := policy.CanManageStore(p, existing.OwnerID); err != nil {
		writeError(c, err, "")
		return
	}

	s := models.Store{
		ID:      id,
		Name:    req.Name,
		Email:   validators.NormalizeEmail(req.Email),
		Address: req.Address,
	}

	if err := h.store.UpdateStore(c.Request.Context(), &s); err != nil {
		writeError(c, err, "Store not found")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "store_updated",
		Entity:   "store",
		EntityID: &id,
	})

	httpresp.OK(c, gin.H{
		"message": "Store updated successfully",
		"store":   s,
	})
}

func (h *StoreHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := h.store.GetStoreByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Store not found")
		return
	}

	p := middleware.PrincipalFrom(c)
	if err := policy.CanManageStore(p, existing.OwnerID); err != nil {
		writeError(c, err, "")
		return
	}

	if err := h.store.DeleteStore(c.Request.Context(), id); err != nil {
		writeError(c, err, "Store not found")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &p.UserID,
		Action:   "store_deleted",
		Entity:   "store",
		EntityID: &id,
	})

	httpresp.Message(c, "Store deleted successfully")
}
