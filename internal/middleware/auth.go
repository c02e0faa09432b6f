package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ratehub/store-rating-api/internal/auth"
	"github.com/ratehub/store-rating-api/internal/httperr"
	"github.com/ratehub/store-rating-api/internal/policy"
	"github.com/ratehub/store-rating-api/internal/store"
)

const ContextPrincipal = "principal"

// AuthMiddleware validates the bearer token and re-reads the user row, so
// a token minted for a since-deleted user is rejected and the role
// attached to the principal reflects current storage state.
func AuthMiddleware(issuer *auth.Issuer, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header", "Access denied. No token provided.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Access denied. No token provided.")
			return
		}

		claims, err := issuer.Validate(parts[1])
		if err != nil {
			code := "invalid_token"
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				code = "token_expired"
			case errors.Is(err, auth.ErrTokenMalformed):
				code = "token_malformed"
			}
			httperr.Abort(c, http.StatusUnauthorized, code, "Invalid token.")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Invalid token.")
			return
		}

		user, err := st.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Invalid token. User not found.")
			return
		}

		role, ok := policy.ParseRole(user.Role)
		if !ok {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Invalid token.")
			return
		}

		c.Set(ContextPrincipal, policy.Principal{
			UserID: user.ID,
			Role:   role,
			Email:  user.Email,
		})

		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal set by AuthMiddleware.
func PrincipalFrom(c *gin.Context) policy.Principal {
	v, _ := c.Get(ContextPrincipal)
	p, _ := v.(policy.Principal)
	return p
}
