package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/salesboard/salesboard/internal/httpx"
	"github.com/salesboard/salesboard/internal/models"
	"github.com/salesboard/salesboard/internal/token"
)

type stubUserFinder struct {
	user models.User
	err  error
}

func (s stubUserFinder) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	if s.err != nil {
		return models.User{}, s.err
	}
	return s.user, nil
}

func newTestApp(tokens *token.Manager, users UserFinder) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler})
	gate := NewAuth(tokens, users)
	app.Get("/protected", gate.Authenticate, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"email": c.Locals(LocalEmail),
			"role":  c.Locals(LocalRole),
		})
	})
	return app
}

func TestAuthenticateSuccess(t *testing.T) {
	tokens := token.NewManager("secret", time.Hour)
	user := models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Asha",
		Email: "asha@example.com",
		Role:  "admin",
	}
	app := newTestApp(tokens, stubUserFinder{user: user})

	signed, err := tokens.Generate(user.ID.Hex(), user.Role)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthenticateRejections(t *testing.T) {
	tokens := token.NewManager("secret", time.Hour)
	user := models.User{ID: primitive.NewObjectID(), Role: "admin"}

	valid, err := tokens.Generate(user.ID.Hex(), user.Role)
	require.NoError(t, err)

	expired, err := token.NewManager("secret", -time.Minute).Generate(user.ID.Hex(), user.Role)
	require.NoError(t, err)

	foreign, err := token.NewManager("other", time.Hour).Generate(user.ID.Hex(), user.Role)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		finder UserFinder
	}{
		{"missing header", "", stubUserFinder{user: user}},
		{"not bearer", "Basic abc123", stubUserFinder{user: user}},
		{"empty bearer", "Bearer ", stubUserFinder{user: user}},
		{"garbage token", "Bearer garbage", stubUserFinder{user: user}},
		{"expired token", "Bearer " + expired, stubUserFinder{user: user}},
		{"wrong signature", "Bearer " + foreign, stubUserFinder{user: user}},
		{"deleted user", "Bearer " + valid, stubUserFinder{err: errors.New("not found")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(tokens, tc.finder)

			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler})
	app.Get("/admin", func(c *fiber.Ctx) error {
		c.Locals(LocalRole, c.Get("X-Test-Role"))
		return c.Next()
	}, RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("X-Test-Role", "admin")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("X-Test-Role", "viewer")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestNonProduction(t *testing.T) {
	for production, wantStatus := range map[bool]int{
		true:  fiber.StatusForbidden,
		false: fiber.StatusOK,
	} {
		app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler})
		app.Delete("/wipe", NonProduction(production), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest("DELETE", "/wipe", nil))
		require.NoError(t, err)
		assert.Equal(t, wantStatus, resp.StatusCode, "production=%v", production)
	}
}
