package rating

import (
	"context"

	"github.com/ratehub/store-rating-api/internal/audit"
	"github.com/ratehub/store-rating-api/internal/models"
	"github.com/ratehub/store-rating-api/internal/store"
)

type Delete struct {
	store store.Store
	audit *audit.Dispatcher
}

func NewDelete(s store.Store, audit *audit.Dispatcher) *Delete {
	return &Delete{store: s, audit: audit}
}

// Execute removes the caller's rating for a store; only the rating's
// owner reaches this path.
func (uc *Delete) Execute(ctx context.Context, userID, storeID uint) (*models.Rating, error) {
	row, err := uc.store.DeleteRating(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "rating_deleted",
		Entity:   "rating",
		EntityID: &row.ID,
		Metadata: map[string]any{"store_id": storeID},
	})

	return row, nil
}
