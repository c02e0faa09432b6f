package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratehub/store-rating-api/internal/models"
	"github.com/ratehub/store-rating-api/internal/policy"
	"github.com/ratehub/store-rating-api/internal/store"
)

func seedUser(t *testing.T, m *MemoryStore, name, email string, role policy.Role) *models.User {
	t.Helper()
	u := models.User{Name: name, Email: email, PasswordHash: "x", Role: string(role)}
	require.NoError(t, m.CreateUser(context.Background(), &u))
	return &u
}

func seedStore(t *testing.T, m *MemoryStore, name, email string, ownerID uint) *models.Store {
	t.Helper()
	s := models.Store{Name: name, Email: email, Address: "42 High St", OwnerID: ownerID}
	require.NoError(t, m.CreateStore(context.Background(), &s))
	return &s
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	m := NewMemoryStore()
	seedUser(t, m, "First", "dup@example.com", policy.RoleUser)

	again := models.User{Name: "Second", Email: "DUP@example.com", PasswordHash: "x", Role: string(policy.RoleUser)}
	err := m.CreateUser(context.Background(), &again)
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestGetUserByEmailCaseInsensitive(t *testing.T) {
	m := NewMemoryStore()
	u := seedUser(t, m, "Casey", "casey@example.com", policy.RoleUser)

	got, err := m.GetUserByEmail(context.Background(), "Casey@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUpsertRatingKeepsOneRowPerPair(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	owner := seedUser(t, m, "Owner", "owner@example.com", policy.RoleStoreOwner)
	rater := seedUser(t, m, "Rater", "rater@example.com", policy.RoleUser)
	shop := seedStore(t, m, "Shop", "shop@example.com", owner.ID)

	first, err := m.UpsertRating(ctx, rater.ID, shop.ID, 5)
	require.NoError(t, err)

	second, err := m.UpsertRating(ctx, rater.ID, shop.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, second.Value)

	rows, err := m.ListRatingsByStore(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Value)
}

func TestStoreStats(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	owner := seedUser(t, m, "Owner", "owner@example.com", policy.RoleStoreOwner)
	shop := seedStore(t, m, "Shop", "shop@example.com", owner.ID)

	a := seedUser(t, m, "A", "a@example.com", policy.RoleUser)
	b := seedUser(t, m, "B", "b@example.com", policy.RoleUser)
	_, err := m.UpsertRating(ctx, a.ID, shop.ID, 5)
	require.NoError(t, err)
	_, err = m.UpsertRating(ctx, b.ID, shop.ID, 2)
	require.NoError(t, err)

	stats, err := m.StoreStats(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalRatings)
	assert.InDelta(t, 3.5, stats.AverageRating, 1e-9)
	assert.Equal(t, int64(1), stats.FiveStar)
	assert.Equal(t, int64(1), stats.TwoStar)
}

func TestStoreStatsNoRatings(t *testing.T) {
	m := NewMemoryStore()
	owner := seedUser(t, m, "Owner", "owner@example.com", policy.RoleStoreOwner)
	shop := seedStore(t, m, "Shop", "shop@example.com", owner.ID)

	stats, err := m.StoreStats(context.Background(), shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalRatings)
	assert.Equal(t, float64(0), stats.AverageRating)
}

func TestDeleteUserCascades(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	owner := seedUser(t, m, "Owner", "owner@example.com", policy.RoleStoreOwner)
	rater := seedUser(t, m, "Rater", "rater@example.com", policy.RoleUser)
	shop := seedStore(t, m, "Shop", "shop@example.com", owner.ID)

	_, err := m.UpsertRating(ctx, rater.ID, shop.ID, 4)
	require.NoError(t, err)

	// Deleting the owner removes the store and all its ratings.
	require.NoError(t, m.DeleteUser(ctx, owner.ID))

	_, err = m.GetStoreByID(ctx, shop.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	rows, err := m.ListRatingsByUser(ctx, rater.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDeleteRaterCascadesOwnRatings(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	owner := seedUser(t, m, "Owner", "owner@example.com", policy.RoleStoreOwner)
	rater := seedUser(t, m, "Rater", "rater@example.com", policy.RoleUser)
	shop := seedStore(t, m, "Shop", "shop@example.com", owner.ID)

	_, err := m.UpsertRating(ctx, rater.ID, shop.ID, 4)
	require.NoError(t, err)

	require.NoError(t, m.DeleteUser(ctx, rater.ID))

	stats, err := m.StoreStats(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalRatings)
}

func TestDeleteStoreCascadesRatings(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	owner := seedUser(t, m, "Owner", "owner@example.com", policy.RoleStoreOwner)
	rater := seedUser(t, m, "Rater", "rater@example.com", policy.RoleUser)
	shop := seedStore(t, m, "Shop", "shop@example.com", owner.ID)

	_, err := m.UpsertRating(ctx, rater.ID, shop.ID, 3)
	require.NoError(t, err)

	require.NoError(t, m.DeleteStore(ctx, shop.ID))

	rows, err := m.ListRatingsByUser(ctx, rater.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearchUsers(t *testing.T) {
	m := NewMemoryStore()
	seedUser(t, m, "Alice Anderson", "alice@example.com", policy.RoleUser)
	seedUser(t, m, "Bob Brown", "bob@shopmail.com", policy.RoleUser)

	out, err := m.SearchUsers(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Alice Anderson", out[0].Name)

	out, err = m.SearchUsers(context.Background(), "shopmail")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Bob Brown", out[0].Name)
}

func TestSearchStores(t *testing.T) {
	m := NewMemoryStore()
	owner := seedUser(t, m, "Owner", "owner@example.com", policy.RoleStoreOwner)
	seedStore(t, m, "Coffee Corner", "coffee@example.com", owner.ID)
	seedStore(t, m, "Book Nook", "books@example.com", owner.ID)

	out, err := m.SearchStores(context.Background(), "coffee")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Coffee Corner", out[0].Name)
}

func TestListStoresWithUserRating(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	owner := seedUser(t, m, "Owner", "owner@example.com", policy.RoleStoreOwner)
	rater := seedUser(t, m, "Rater", "rater@example.com", policy.RoleUser)
	rated := seedStore(t, m, "Rated", "rated@example.com", owner.ID)
	seedStore(t, m, "Unrated", "unrated@example.com", owner.ID)

	_, err := m.UpsertRating(ctx, rater.ID, rated.ID, 5)
	require.NoError(t, err)

	out, err := m.ListStoresWithUserRating(ctx, rater.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)

	byName := map[string]store.StoreWithStats{}
	for _, s := range out {
		byName[s.Name] = s
	}
	require.NotNil(t, byName["Rated"].UserRating)
	assert.Equal(t, 5, *byName["Rated"].UserRating)
	assert.Nil(t, byName["Unrated"].UserRating)
	assert.Equal(t, "Owner", byName["Rated"].OwnerName)
}

func TestUserStatsAndOwnerAnnotation(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	owner := seedUser(t, m, "Owner", "owner@example.com", policy.RoleStoreOwner)
	rater := seedUser(t, m, "Rater", "rater@example.com", policy.RoleUser)
	seedUser(t, m, "Root", "root@example.com", policy.RoleAdmin)
	shop := seedStore(t, m, "Shop", "shop@example.com", owner.ID)

	_, err := m.UpsertRating(ctx, rater.ID, shop.ID, 4)
	require.NoError(t, err)

	stats, err := m.UserStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.RegularUsers)
	assert.Equal(t, int64(1), stats.StoreOwners)
	assert.Equal(t, int64(1), stats.Admins)

	users, err := m.ListUsers(ctx)
	require.NoError(t, err)
	for _, u := range users {
		if u.ID == owner.ID {
			require.NotNil(t, u.StoreAverageRating)
			assert.InDelta(t, 4.0, *u.StoreAverageRating, 1e-9)
			require.NotNil(t, u.StoreTotalRatings)
			assert.Equal(t, int64(1), *u.StoreTotalRatings)
		} else {
			assert.Nil(t, u.StoreAverageRating)
		}
	}
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	m := NewMemoryStore()
	seedUser(t, m, "First", "first@example.com", policy.RoleUser)
	second := seedUser(t, m, "Second", "second@example.com", policy.RoleUser)

	second.Email = "first@example.com"
	err := m.UpdateUser(context.Background(), second)
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestSeedDemoUsers(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.SeedDemoUsers())

	admin, err := m.GetUserByEmail(context.Background(), "admin@demo.com")
	require.NoError(t, err)
	assert.Equal(t, string(policy.RoleAdmin), admin.Role)

	_, err = m.GetUserByEmail(context.Background(), "store@demo.com")
	require.NoError(t, err)
	_, err = m.GetUserByEmail(context.Background(), "user@demo.com")
	require.NoError(t, err)
}
