package rating

import "github.com/ratehub/store-rating-api/internal/httperr"

// ===============================
// Rating value rules
// ===============================

const (
	MinValue = 1
	MaxValue = 5
)

// ValidateValue rejects out-of-range values before they reach storage.
func ValidateValue(value int) error {
	if value < MinValue || value > MaxValue {
		return httperr.ErrBusiness("invalid_rating_value")
	}
	return nil
}

// CanRate forbids owners from rating their own store.
func CanRate(userID, storeOwnerID uint) error {
	if userID == storeOwnerID {
		return httperr.ErrBusiness("self_rating_forbidden")
	}
	return nil
}
