// Package middleware holds the Echo middleware that resolves sessions and
// enforces roles and capabilities.
package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"tourneyhub/internal/auth"
	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/model"
)

// SessionContextKey is where the resolved *auth.Session is stored on the context.
const SessionContextKey = "session"

var errInvalidSession = errors.New("invalid or expired session")

// PermissionSource looks up the permission flags of a user.
type PermissionSource interface {
	Permissions(ctx context.Context, userID uuid.UUID) (model.EmployeePermissions, error)
}

// SessionFrom returns the session stored by LoadSession or RequireSession, or nil.
func SessionFrom(c echo.Context) *auth.Session {
	session, _ := c.Get(SessionContextKey).(*auth.Session)
	return session
}

// LoadSession resolves the session cookie when present and never rejects the
// request; downstream gates decide what an absent session means.
func LoadSession(store *auth.SessionStore, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(cookieName); err == nil {
				if session, ok := store.Resolve(c.Request().Context(), cookie.Value); ok {
					c.Set(SessionContextKey, session)
				}
			}
			return next(c)
		}
	}
}

// RequireSession rejects requests without a valid session cookie with 401.
func RequireSession(store *auth.SessionStore, cookieName string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + cookieName,
		ContextKey:  SessionContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			session, ok := store.Resolve(c.Request().Context(), token)
			if !ok {
				return nil, errInvalidSession
			}
			return session, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.ErrNotAuthenticated
		},
	})
}

// RequireRoles answers 403 unless the session holds one of roles. A missing
// session is also a 403.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !auth.Authorize(SessionFrom(c), roles...) {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireCapability narrows staff routes by permission flag. Admins skip the
// lookup since they hold every capability.
func RequireCapability(capability auth.Capability, perms PermissionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFrom(c)
			if session == nil {
				return apperrors.ErrForbidden
			}

			var flags model.EmployeePermissions
			if session.Role == model.RoleEmployee {
				var err error
				flags, err = perms.Permissions(c.Request().Context(), session.ID)
				if err != nil {
					return err
				}
			}

			if !auth.Can(session, flags, capability) {
				zap.L().Info("capability denied",
					zap.String("user_id", session.ID.String()),
					zap.String("capability", string(capability)))
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}
