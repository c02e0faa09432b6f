package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratehub/store-rating-api/internal/audit"
	"github.com/ratehub/store-rating-api/internal/httperr"
	"github.com/ratehub/store-rating-api/internal/infra/repository"
	"github.com/ratehub/store-rating-api/internal/models"
	"github.com/ratehub/store-rating-api/internal/policy"
	"github.com/ratehub/store-rating-api/internal/store"
)

type ratingFixture struct {
	store   *repository.MemoryStore
	submit  *Submit
	delete  *Delete
	ownerID uint
	raterID uint
	storeID uint
}

func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()
	ctx := context.Background()
	mem := repository.NewMemoryStore()

	owner := models.User{Name: "Owner", Email: "owner@example.com", PasswordHash: "x", Role: string(policy.RoleStoreOwner)}
	require.NoError(t, mem.CreateUser(ctx, &owner))

	rater := models.User{Name: "Rater", Email: "rater@example.com", PasswordHash: "x", Role: string(policy.RoleUser)}
	require.NoError(t, mem.CreateUser(ctx, &rater))

	shop := models.Store{Name: "Corner Shop", Email: "shop@example.com", Address: "1 Main St", OwnerID: owner.ID}
	require.NoError(t, mem.CreateStore(ctx, &shop))

	dispatcher := audit.NewDispatcher(audit.NewLogRecorder())
	return &ratingFixture{
		store:   mem,
		submit:  NewSubmit(mem, dispatcher),
		delete:  NewDelete(mem, dispatcher),
		ownerID: owner.ID,
		raterID: rater.ID,
		storeID: shop.ID,
	}
}

func TestSubmitCreatesThenUpdates(t *testing.T) {
	f := newRatingFixture(t)
	ctx := context.Background()

	first, err := f.submit.Execute(ctx, SubmitInput{UserID: f.raterID, StoreID: f.storeID, Value: 4})
	require.NoError(t, err)
	assert.False(t, first.WasUpdate)
	assert.Equal(t, 4, first.Rating.Value)

	second, err := f.submit.Execute(ctx, SubmitInput{UserID: f.raterID, StoreID: f.storeID, Value: 2})
	require.NoError(t, err)
	assert.True(t, second.WasUpdate)
	assert.Equal(t, 2, second.Rating.Value)
	assert.Equal(t, first.Rating.ID, second.Rating.ID, "resubmitting replaces the row, not adds one")

	rows, err := f.store.ListRatingsByStore(ctx, f.storeID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Value)
}

func TestSubmitRejectsOutOfRangeValue(t *testing.T) {
	f := newRatingFixture(t)
	ctx := context.Background()

	for _, v := range []int{0, 6, -1} {
		_, err := f.submit.Execute(ctx, SubmitInput{UserID: f.raterID, StoreID: f.storeID, Value: v})
		assert.True(t, httperr.IsBusiness(err, "invalid_rating_value"), "value %d", v)
	}

	rows, err := f.store.ListRatingsByStore(ctx, f.storeID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSubmitForbidsRatingOwnStore(t *testing.T) {
	f := newRatingFixture(t)

	_, err := f.submit.Execute(context.Background(), SubmitInput{UserID: f.ownerID, StoreID: f.storeID, Value: 5})
	assert.True(t, httperr.IsBusiness(err, "self_rating_forbidden"))
}

func TestSubmitMissingStore(t *testing.T) {
	f := newRatingFixture(t)

	_, err := f.submit.Execute(context.Background(), SubmitInput{UserID: f.raterID, StoreID: 999, Value: 3})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteRating(t *testing.T) {
	f := newRatingFixture(t)
	ctx := context.Background()

	_, err := f.submit.Execute(ctx, SubmitInput{UserID: f.raterID, StoreID: f.storeID, Value: 3})
	require.NoError(t, err)

	removed, err := f.delete.Execute(ctx, f.raterID, f.storeID)
	require.NoError(t, err)
	assert.Equal(t, 3, removed.Value)

	_, err = f.store.GetRating(ctx, f.raterID, f.storeID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteMissingRating(t *testing.T) {
	f := newRatingFixture(t)

	_, err := f.delete.Execute(context.Background(), f.raterID, f.storeID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
