package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musicmixer/api/internal/auth"
)

func newAuthApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(NewAuthMiddleware(secret).Authenticate())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(GetUserID(c))
	})
	return app
}

func TestAuthenticate(t *testing.T) {
	const secret = "test-secret"
	valid, err := auth.GenerateToken(secret, "user-42", "", time.Hour)
	require.NoError(t, err)
	forged, err := auth.GenerateToken("other-secret", "user-42", "", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"bad signature", "Bearer " + forged, fiber.StatusUnauthorized},
		{"valid", "Bearer " + valid, fiber.StatusOK},
	}

	app := newAuthApp(secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAuthenticate_NoSecretRejects(t *testing.T) {
	app := newAuthApp("")
	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
