package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ratehub/store-rating-api/internal/domain/rating"
	"github.com/ratehub/store-rating-api/internal/models"
	"github.com/ratehub/store-rating-api/internal/policy"
	"github.com/ratehub/store-rating-api/internal/store"
)

// MemoryStore is the volatile fallback selected at process start when
// postgres is unreachable. One mutex-guarded arena indexed by id, scoped
// to the process lifetime: non-durable and single-instance only.
type MemoryStore struct {
	mu sync.Mutex

	users   map[uint]*models.User
	stores  map[uint]*models.Store
	ratings map[uint]*models.Rating

	nextUserID   uint
	nextStoreID  uint
	nextRatingID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[uint]*models.User),
		stores:       make(map[uint]*models.Store),
		ratings:      make(map[uint]*models.Rating),
		nextUserID:   1,
		nextStoreID:  1,
		nextRatingID: 1,
	}
}

// SeedDemoUsers installs the three demo accounts (password "Password123!").
func (m *MemoryStore) SeedDemoUsers() error {
	hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	demo := []models.User{
		{Name: "Admin User", Email: "admin@demo.com", Role: string(policy.RoleAdmin)},
		{Name: "Store Owner", Email: "store@demo.com", Role: string(policy.RoleStoreOwner)},
		{Name: "Regular User", Email: "user@demo.com", Role: string(policy.RoleUser)},
	}
	for i := range demo {
		demo[i].PasswordHash = string(hash)
		demo[i].IsVerified = true
		if err := m.CreateUser(context.Background(), &demo[i]); err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrDuplicateEmail
		}
	}
	user.ID = m.nextUserID
	m.nextUserID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemoryStore) ListUsers(_ context.Context) ([]store.UserWithStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]store.UserWithStats, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, m.annotateUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return store.ErrNotFound
	}
	for id, u := range m.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return store.ErrDuplicateEmail
		}
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.Address = user.Address
	existing.Role = user.Role
	existing.UpdatedAt = time.Now()
	*user = *existing
	return nil
}

func (m *MemoryStore) UpdateUserPassword(_ context.Context, id uint, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) DeleteUser(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)

	// Cascade: owned stores, their ratings, and the user's own ratings.
	for sid, s := range m.stores {
		if s.OwnerID == id {
			delete(m.stores, sid)
			for rid, r := range m.ratings {
				if r.StoreID == sid {
					delete(m.ratings, rid)
				}
			}
		}
	}
	for rid, r := range m.ratings {
		if r.UserID == id {
			delete(m.ratings, rid)
		}
	}
	return nil
}

func (m *MemoryStore) SearchUsers(_ context.Context, term string) ([]store.UserWithStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(term)
	var out []store.UserWithStats
	for _, u := range m.users {
		if containsFold(u.Name, needle) || containsFold(u.Email, needle) || containsFold(u.Address, needle) {
			out = append(out, m.annotateUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) UserStats(_ context.Context) (*store.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stats store.UserStats
	for _, u := range m.users {
		stats.TotalUsers++
		switch policy.Role(u.Role) {
		case policy.RoleUser:
			stats.RegularUsers++
		case policy.RoleStoreOwner:
			stats.StoreOwners++
		case policy.RoleAdmin:
			stats.Admins++
		}
	}
	return &stats, nil
}

// --------------------------------------------------
// Stores
// --------------------------------------------------

func (m *MemoryStore) CreateStore(_ context.Context, s *models.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.stores {
		if strings.EqualFold(existing.Email, s.Email) {
			return store.ErrDuplicateEmail
		}
	}
	s.ID = m.nextStoreID
	m.nextStoreID++
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	cp := *s
	m.stores[s.ID] = &cp
	return nil
}

func (m *MemoryStore) GetStoreByID(_ context.Context, id uint) (*store.StoreWithStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stores[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	row := m.annotateStore(s, 0)
	return &row, nil
}

func (m *MemoryStore) ListStores(_ context.Context) ([]store.StoreWithStats, error) {
	return m.listStores(0, nil)
}

func (m *MemoryStore) ListStoresByOwner(_ context.Context, ownerID uint) ([]store.StoreWithStats, error) {
	return m.listStores(0, func(s *models.Store) bool { return s.OwnerID == ownerID })
}

func (m *MemoryStore) ListStoresWithUserRating(_ context.Context, userID uint) ([]store.StoreWithStats, error) {
	return m.listStores(userID, nil)
}

func (m *MemoryStore) SearchStores(_ context.Context, term string) ([]store.StoreWithStats, error) {
	needle := strings.ToLower(term)
	return m.listStores(0, func(s *models.Store) bool {
		return containsFold(s.Name, needle) || containsFold(s.Address, needle)
	})
}

func (m *MemoryStore) UpdateStore(_ context.Context, s *models.Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.stores[s.ID]
	if !ok {
		return store.ErrNotFound
	}
	for id, other := range m.stores {
		if id != s.ID && strings.EqualFold(other.Email, s.Email) {
			return store.ErrDuplicateEmail
		}
	}
	existing.Name = s.Name
	existing.Email = s.Email
	existing.Address = s.Address
	existing.UpdatedAt = time.Now()
	*s = *existing
	return nil
}

func (m *MemoryStore) DeleteStore(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stores[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.stores, id)
	for rid, r := range m.ratings {
		if r.StoreID == id {
			delete(m.ratings, rid)
		}
	}
	return nil
}

// --------------------------------------------------
// Ratings
// --------------------------------------------------

func (m *MemoryStore) UpsertRating(_ context.Context, userID, storeID uint, value int) (*models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, r := range m.ratings {
		if r.UserID == userID && r.StoreID == storeID {
			r.Value = value
			r.UpdatedAt = now
			cp := *r
			return &cp, nil
		}
	}
	row := &models.Rating{
		ID:        m.nextRatingID,
		UserID:    userID,
		StoreID:   storeID,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.nextRatingID++
	m.ratings[row.ID] = row
	cp := *row
	return &cp, nil
}

func (m *MemoryStore) GetRating(_ context.Context, userID, storeID uint) (*models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.ratings {
		if r.UserID == userID && r.StoreID == storeID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemoryStore) DeleteRating(_ context.Context, userID, storeID uint) (*models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.ratings {
		if r.UserID == userID && r.StoreID == storeID {
			cp := *r
			delete(m.ratings, id)
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemoryStore) ListRatings(_ context.Context) ([]store.RatingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []store.RatingDetail
	for _, r := range m.ratings {
		d := store.RatingDetail{Rating: *r}
		if u, ok := m.users[r.UserID]; ok {
			d.UserName = u.Name
			d.UserEmail = u.Email
		}
		if s, ok := m.stores[r.StoreID]; ok {
			d.StoreName = s.Name
			d.StoreAddress = s.Address
		}
		out = append(out, d)
	}
	sortRatings(out)
	return out, nil
}

func (m *MemoryStore) ListRatingsByStore(_ context.Context, storeID uint) ([]store.RatingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []store.RatingDetail
	for _, r := range m.ratings {
		if r.StoreID != storeID {
			continue
		}
		d := store.RatingDetail{Rating: *r}
		if u, ok := m.users[r.UserID]; ok {
			d.UserName = u.Name
			d.UserEmail = u.Email
		}
		out = append(out, d)
	}
	sortRatings(out)
	return out, nil
}

func (m *MemoryStore) ListRatingsByUser(_ context.Context, userID uint) ([]store.RatingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []store.RatingDetail
	for _, r := range m.ratings {
		if r.UserID != userID {
			continue
		}
		d := store.RatingDetail{Rating: *r}
		if s, ok := m.stores[r.StoreID]; ok {
			d.StoreName = s.Name
			d.StoreAddress = s.Address
		}
		out = append(out, d)
	}
	sortRatings(out)
	return out, nil
}

func (m *MemoryStore) StoreStats(_ context.Context, storeID uint) (*rating.StoreStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := rating.ComputeStoreStats(m.storeValues(storeID))
	return &stats, nil
}

func (m *MemoryStore) SystemStats(_ context.Context) (*rating.SystemStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pairs := make([]rating.Pair, 0, len(m.ratings))
	for _, r := range m.ratings {
		pairs = append(pairs, rating.Pair{UserID: r.UserID, StoreID: r.StoreID, Value: r.Value})
	}
	stats := rating.ComputeSystemStats(pairs)
	return &stats, nil
}

// --------------------------------------------------
// Helpers (callers hold the lock unless noted)
// --------------------------------------------------

func (m *MemoryStore) storeValues(storeID uint) []int {
	var values []int
	for _, r := range m.ratings {
		if r.StoreID == storeID {
			values = append(values, r.Value)
		}
	}
	return values
}

func (m *MemoryStore) annotateUser(u *models.User) store.UserWithStats {
	row := store.UserWithStats{User: *u}
	if policy.Role(u.Role) != policy.RoleStoreOwner {
		return row
	}
	var values []int
	for _, s := range m.stores {
		if s.OwnerID == u.ID {
			values = append(values, m.storeValues(s.ID)...)
		}
	}
	stats := rating.ComputeStoreStats(values)
	row.StoreAverageRating = &stats.AverageRating
	row.StoreTotalRatings = &stats.TotalRatings
	return row
}

func (m *MemoryStore) annotateStore(s *models.Store, userID uint) store.StoreWithStats {
	stats := rating.ComputeStoreStats(m.storeValues(s.ID))
	row := store.StoreWithStats{
		Store:         *s,
		AverageRating: stats.AverageRating,
		TotalRatings:  stats.TotalRatings,
	}
	if owner, ok := m.users[s.OwnerID]; ok {
		row.OwnerName = owner.Name
	}
	if userID != 0 {
		for _, r := range m.ratings {
			if r.StoreID == s.ID && r.UserID == userID {
				v := r.Value
				row.UserRating = &v
				break
			}
		}
	}
	return row
}

// listStores takes the lock itself.
func (m *MemoryStore) listStores(userID uint, keep func(*models.Store) bool) ([]store.StoreWithStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []store.StoreWithStats
	for _, s := range m.stores {
		if keep != nil && !keep(s) {
			continue
		}
		out = append(out, m.annotateStore(s, userID))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func sortRatings(rows []store.RatingDetail) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
