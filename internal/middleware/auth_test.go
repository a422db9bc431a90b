package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, "leo")
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "leo", claims.Username)

	_, err = ParseToken("another-secret", token)
	assert.Error(t, err)

	_, err = GenerateToken("", 1, "leo")
	assert.Error(t, err)
}

func TestTokenAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/api/v1/me", TokenAuth(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": c.Locals("userID"), "username": c.Locals("username")})
	})

	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return s
	}
	valid, err := GenerateToken(testSecret, 7, "author")
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"expired", "Bearer " + sign(jwt.MapClaims{
			"sub": "7", "iss": TokenIssuer, "aud": TokenAudience,
			"exp": time.Now().Add(-time.Hour).Unix(),
		}), http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + sign(jwt.MapClaims{
			"sub": "7", "iss": "someone-else", "aud": TokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		}), http.StatusUnauthorized},
		{"non-numeric subject", "Bearer " + sign(jwt.MapClaims{
			"sub": "abc", "iss": TokenIssuer, "aud": TokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		}), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, float64(7), body["userID"])
				assert.Equal(t, "author", body["username"])
			}
		})
	}
}
