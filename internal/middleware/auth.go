package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/salesboard/salesboard/internal/apperr"
	"github.com/salesboard/salesboard/internal/models"
	"github.com/salesboard/salesboard/internal/token"
)

// Context keys populated by Authenticate for downstream handlers.
const (
	LocalUserID = "userID"
	LocalEmail  = "email"
	LocalName   = "name"
	LocalRole   = "role"
)

// UserFinder resolves a token subject to a live user account.
type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// Auth authenticates bearer tokens and attaches the caller identity to
// the request context.
type Auth struct {
	tokens *token.Manager
	users  UserFinder
}

// NewAuth creates the auth middleware.
func NewAuth(tokens *token.Manager, users UserFinder) *Auth {
	return &Auth{tokens: tokens, users: users}
}

// Authenticate validates the Authorization header and loads the user it
// references. It fails closed: missing or malformed headers, bad
// signatures, expired tokens and deleted users are all rejected.
func (a *Auth) Authenticate(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" {
		return apperr.Authentication("No token provided. Please login.")
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header || tokenString == "" {
		return apperr.Authentication("Invalid token format")
	}

	claims, err := a.tokens.Parse(tokenString)
	if err != nil {
		return apperr.Authentication("Invalid or expired token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return apperr.Authentication("Invalid token payload")
	}

	user, err := a.users.FindByID(c.Context(), userID)
	if err != nil {
		return apperr.Authentication("User not found. Token invalid.")
	}

	c.Locals(LocalUserID, user.ID)
	c.Locals(LocalEmail, user.Email)
	c.Locals(LocalName, user.Name)
	c.Locals(LocalRole, user.Role)

	return c.Next()
}

// RequireRole rejects callers whose role is not in the allowed set.
// Must run after Authenticate.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		if _, ok := allowed[role]; !ok {
			return apperr.Forbidden("You do not have permission to perform this action")
		}
		return c.Next()
	}
}

// NonProduction blocks the route in production deployments. Used for
// destructive maintenance endpoints.
func NonProduction(production bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if production {
			return apperr.Forbidden("This operation is not allowed in production")
		}
		return c.Next()
	}
}
