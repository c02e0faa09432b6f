package policy

import "fmt"

// ===============================
// Actions
// ===============================

type Action string

const (
	ActionListUsers       Action = "list_users"
	ActionViewUser        Action = "view_user"
	ActionCreateUser      Action = "create_user"
	ActionDeleteUser      Action = "delete_user"
	ActionSearchUsers     Action = "search_users"
	ActionViewUserStats   Action = "view_user_stats"
	ActionListRatings     Action = "list_ratings"
	ActionViewRatingStats Action = "view_rating_stats"

	ActionViewOwnStoreRatings Action = "view_own_store_ratings"

	ActionBrowseStores   Action = "browse_stores"
	ActionCreateStore    Action = "create_store"
	ActionSubmitRating   Action = "submit_rating"
	ActionDeleteRating   Action = "delete_rating"
	ActionViewOwnProfile Action = "view_own_profile"
	ActionViewOwnRatings Action = "view_own_ratings"
)

// Fixed policy table. Actions absent from the table are open to any
// authenticated principal.
var requiredRoles = map[Action][]Role{
	ActionListUsers:       {RoleAdmin},
	ActionViewUser:        {RoleAdmin},
	ActionCreateUser:      {RoleAdmin},
	ActionDeleteUser:      {RoleAdmin},
	ActionSearchUsers:     {RoleAdmin},
	ActionViewUserStats:   {RoleAdmin},
	ActionListRatings:     {RoleAdmin},
	ActionViewRatingStats: {RoleAdmin},

	ActionViewOwnStoreRatings: {RoleStoreOwner},
}

// DeniedError carries a user-facing reason naming the missing role or
// ownership relation.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}

func denyRoles(allowed []Role, got Role) *DeniedError {
	required := ""
	for i, r := range allowed {
		if i > 0 {
			required += " or "
		}
		required += r.String()
	}
	return &DeniedError{
		Reason: fmt.Sprintf("required role %s; caller has role %s", required, got),
	}
}

// Authorize checks a principal against the fixed action table.
func Authorize(p Principal, action Action) error {
	allowed, gated := requiredRoles[action]
	if !gated {
		return nil
	}
	for _, r := range allowed {
		if p.Role == r {
			return nil
		}
	}
	return denyRoles(allowed, p.Role)
}

// CanManageStore allows the store's owner or an admin to update/delete it.
func CanManageStore(p Principal, ownerID uint) error {
	if p.Role == RoleAdmin || p.UserID == ownerID {
		return nil
	}
	return &DeniedError{Reason: "caller is neither the store's owner nor an admin"}
}

// CanUpdateUser allows a user to update their own record, or an admin to
// update anyone. Only admins may change the role field; the handler strips
// it for everyone else.
func CanUpdateUser(p Principal, targetID uint) error {
	if p.Role == RoleAdmin || p.UserID == targetID {
		return nil
	}
	return &DeniedError{Reason: "caller may only update their own account"}
}

// CanDeleteUser is admin-only, and an admin may not delete themselves.
func CanDeleteUser(p Principal, targetID uint) error {
	if err := Authorize(p, ActionDeleteUser); err != nil {
		return err
	}
	if p.UserID == targetID {
		return &DeniedError{Reason: "cannot delete your own account"}
	}
	return nil
}
