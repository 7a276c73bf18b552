package middleware

import (
	"errors"
	"strings"

	"social-calendar-api/core/constants"
	"social-calendar-api/core/controller"
	appErrors "social-calendar-api/core/errors"
	"social-calendar-api/core/logger"
	"social-calendar-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtSecret string
	base      controller.BaseController
}

func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{
		jwtSecret: jwtSecret,
		base:      controller.NewBaseController(),
	}
}

// AuthMiddleware requires a valid access token and stores its claims under
// constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return m.base.Unauthorized(appErrors.ErrMissingAuthorizationHeader, "Missing authorization header")
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				return m.base.Unauthorized(appErrors.ErrInvalidTokenFormat, "Invalid token format")
			}

			claims, err := utils.ParseToken(m.jwtSecret, strings.TrimSpace(token))
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					return m.base.Unauthorized(appErrors.ErrTokenExpired, "Token expired")
				}
				logger.Warn("Middleware:AuthMiddleware:InvalidToken", "error", err)
				return m.base.Unauthorized(appErrors.ErrUnauthorized, "Invalid token")
			}
			if claims.Scope != constants.ScopeTokenAccess {
				return m.base.Unauthorized(appErrors.ErrUnauthorized, "Invalid token scope")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RequestID tags every request with a short id for log correlation.
func (m *Middleware) RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = utils.GenerateID()
			}
			c.Set(constants.ContextRequestID, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}
