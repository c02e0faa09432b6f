package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ratehub/store-rating-api/internal/httpresp"
	"github.com/ratehub/store-rating-api/internal/middleware"
	"github.com/ratehub/store-rating-api/internal/policy"
	"github.com/ratehub/store-rating-api/internal/store"
	ucrating "github.com/ratehub/store-rating-api/internal/usecase/rating"
)

type RatingHandler struct {
	store    store.Store
	submitUC *ucrating.Submit
	deleteUC *ucrating.Delete
}

func NewRatingHandler(st store.Store, submitUC *ucrating.Submit, deleteUC *ucrating.Delete) *RatingHandler {
	return &RatingHandler{
		store:    st,
		submitUC: submitUC,
		deleteUC: deleteUC,
	}
}

// --------- Requests ---------

type SubmitRatingRequest struct {
	StoreID uint `json:"store_id" binding:"required"`
	Rating  int  `json:"rating" binding:"required"`
}

// --------- Handlers ---------

func (h *RatingHandler) List(c *gin.Context) {
	if err := policy.Authorize(middleware.PrincipalFrom(c), policy.ActionListRatings); err != nil {
		writeError(c, err, "")
		return
	}

	ratings, err := h.store.ListRatings(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	httpresp.OK(c, gin.H{"ratings": ratings})
}

func (h *RatingHandler) Stats(c *gin.Context) {
	if err := policy.Authorize(middleware.PrincipalFrom(c), policy.ActionViewRatingStats); err != nil {
		writeError(c, err, "")
		return
	}

	stats, err := h.store.SystemStats(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	httpresp.OK(c, gin.H{"stats": stats})
}

func (h *RatingHandler) MyRatings(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	ratings, err := h.store.ListRatingsByUser(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err, "")
		return
	}
	httpresp.OK(c, gin.H{"ratings": ratings})
}

// MyStoreRatings gives a store owner the ratings and aggregate for each
// store they own.
func (h *RatingHandler) MyStoreRatings(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if err := policy.Authorize(p, policy.ActionViewOwnStoreRatings); err != nil {
		writeError(c, err, "")
		return
	}

	ctx := c.Request.Context()
	stores, err := h.store.ListStoresByOwner(ctx, p.UserID)
	if err != nil {
		writeError(c, err, "")
		return
	}

	storeRatings := make([]gin.H, 0, len(stores))
	for _, s := range stores {
		ratings, err := h.store.ListRatingsByStore(ctx, s.ID)
		if err != nil {
			writeError(c, err, "")
			return
		}
		stats, err := h.store.StoreStats(ctx, s.ID)
		if err != nil {
			writeError(c, err, "")
			return
		}
		storeRatings = append(storeRatings, gin.H{
			"store":   s,
			"ratings": ratings,
			"stats":   stats,
		})
	}

	httpresp.OK(c, gin.H{"storeRatings": storeRatings})
}

func (h *RatingHandler) StoreRatings(c *gin.Context) {
	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetStoreByID(ctx, storeID); err != nil {
		writeError(c, err, "Store not found")
		return
	}

	ratings, err := h.store.ListRatingsByStore(ctx, storeID)
	if err != nil {
		writeError(c, err, "")
		return
	}
	stats, err := h.store.StoreStats(ctx, storeID)
	if err != nil {
		writeError(c, err, "")
		return
	}

	httpresp.OK(c, gin.H{
		"ratings": ratings,
		"stats":   stats,
	})
}

func (h *RatingHandler) Submit(c *gin.Context) {
	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	p := middleware.PrincipalFrom(c)
	result, err := h.submitUC.Execute(c.Request.Context(), ucrating.SubmitInput{
		UserID:  p.UserID,
		StoreID: req.StoreID,
		Value:   req.Rating,
	})
	if err != nil {
		writeError(c, err, "Store not found")
		return
	}

	message := "Rating submitted successfully"
	if result.WasUpdate {
		message = "Rating updated successfully"
	}
	httpresp.OK(c, gin.H{
		"message":  message,
		"rating":   result.Rating,
		"isUpdate": result.WasUpdate,
	})
}

func (h *RatingHandler) Delete(c *gin.Context) {
	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}

	p := middleware.PrincipalFrom(c)
	if _, err := h.deleteUC.Execute(c.Request.Context(), p.UserID, storeID); err != nil {
		writeError(c, err, "Rating not found")
		return
	}

	httpresp.Message(c, "Rating deleted successfully")
}
