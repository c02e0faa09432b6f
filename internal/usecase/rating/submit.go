package rating

import (
	"context"
	"errors"

	"github.com/ratehub/store-rating-api/internal/audit"
	domain "github.com/ratehub/store-rating-api/internal/domain/rating"
	"github.com/ratehub/store-rating-api/internal/models"
	"github.com/ratehub/store-rating-api/internal/store"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type SubmitInput struct {
	UserID  uint
	StoreID uint
	Value   int
}

type SubmitResult struct {
	Rating *models.Rating
	// WasUpdate reports whether an earlier rating for the pair was
	// replaced. Taken from the pre-upsert read; the write itself is a
	// single atomic upsert either way.
	WasUpdate bool
}

// ======================================================
// USE CASE
// ======================================================

type Submit struct {
	store store.Store
	audit *audit.Dispatcher
}

func NewSubmit(s store.Store, audit *audit.Dispatcher) *Submit {
	return &Submit{store: s, audit: audit}
}

func (uc *Submit) Execute(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if err := domain.ValidateValue(in.Value); err != nil {
		return nil, err
	}

	target, err := uc.store.GetStoreByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanRate(in.UserID, target.OwnerID); err != nil {
		return nil, err
	}

	_, err = uc.store.GetRating(ctx, in.UserID, in.StoreID)
	wasUpdate := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	row, err := uc.store.UpsertRating(ctx, in.UserID, in.StoreID, in.Value)
	if err != nil {
		return nil, err
	}

	action := "rating_submitted"
	if wasUpdate {
		action = "rating_updated"
	}
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   action,
		Entity:   "rating",
		EntityID: &row.ID,
		Metadata: map[string]any{"store_id": in.StoreID, "rating": in.Value},
	})

	return &SubmitResult{Rating: row, WasUpdate: wasUpdate}, nil
}
