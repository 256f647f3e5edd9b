package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
	"github.com/sahilchouksey/admissions-api/utils/policy"
	"github.com/sahilchouksey/admissions-api/utils/response"
)

// Authenticator resolves a session key to its active owner
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*model.User, error)
}

// AuthMiddleware handles session token authentication
type AuthMiddleware struct {
	authenticator Authenticator
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// extractKey reads "Authorization: Token <key>" (or Bearer). present is false
// when no Authorization header was sent at all.
func extractKey(c *fiber.Ctx) (key string, present bool) {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authHeader == "" {
		return "", false
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 {
		return "", true
	}
	if !strings.EqualFold(parts[0], "Token") && !strings.EqualFold(parts[0], "Bearer") {
		return "", true
	}
	return parts[1], true
}

func setIdentity(c *fiber.Ctx, user *model.User, key string) {
	c.Locals("user_id", user.ID)
	c.Locals("user", user)
	c.Locals("session_key", key)
}

// Required is middleware that requires a valid session token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, present := extractKey(c)
		if !present {
			return response.FromError(c, &apperror.AuthError{Reason: apperror.ReasonNotAuthenticated})
		}
		if key == "" {
			return response.FromError(c, &apperror.AuthError{Reason: apperror.ReasonInvalidToken})
		}

		user, err := m.authenticator.Authenticate(c.UserContext(), key)
		if err != nil {
			return response.FromError(c, err)
		}

		setIdentity(c, user, key)
		return c.Next()
	}
}

// Optional is middleware that allows requests with or without a token. An
// invalid token is treated as no token.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, _ := extractKey(c)
		if key == "" {
			return c.Next()
		}

		if user, err := m.authenticator.Authenticate(c.UserContext(), key); err == nil {
			setIdentity(c, user, key)
		}
		return c.Next()
	}
}

// Authorize gates a route on the access policy. It runs after Optional or
// Required so the actor is known.
func Authorize(action policy.Action, resource policy.Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := policy.Authorize(GetActor(c), action, resource); err != nil {
			return response.FromError(c, err)
		}
		return c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUser extracts full user object from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// GetSessionKey extracts the presented session key from context
func GetSessionKey(c *fiber.Ctx) (string, bool) {
	key := c.Locals("session_key")
	if key == nil {
		return "", false
	}
	k, ok := key.(string)
	return k, ok
}

// GetActor returns the policy actor for the request
func GetActor(c *fiber.Ctx) policy.Actor {
	user, ok := GetUser(c)
	if !ok {
		return policy.Anonymous
	}
	return policy.Actor{
		UserID:        user.ID,
		Authenticated: true,
		IsStaff:       user.IsStaff,
	}
}
