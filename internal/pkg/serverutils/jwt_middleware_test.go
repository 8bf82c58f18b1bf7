package serverutils

import (
	"io"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const testUserID = "7f1c9f0c-9a1e-4c5c-8d2a-3b9a4a1f0e11"

func mintToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": testUserID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}

func mintUnsignedToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": testUserID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}

func TestJwtMiddleware(t *testing.T) {
	const secret = "unit-test-secret"
	t.Setenv("JWT_SECRET", secret)

	app := fiber.New()
	app.Get("/me", JwtMiddleware, func(ctx *fiber.Ctx) error {
		return ctx.SendString(ctx.Locals("user_id").(string))
	})

	tests := []struct {
		name       string
		path       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid bearer token",
			path:       "/me",
			authHeader: "Bearer " + mintToken(t, secret, time.Hour),
			wantStatus: fiber.StatusOK,
			wantBody:   testUserID,
		},
		{
			name:       "valid token query param",
			path:       "/me?token=" + url.QueryEscape(mintToken(t, secret, time.Hour)),
			wantStatus: fiber.StatusOK,
			wantBody:   testUserID,
		},
		{
			name:       "missing token",
			path:       "/me",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "malformed authorization header",
			path:       "/me",
			authHeader: mintToken(t, secret, time.Hour),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "token signed with wrong secret",
			path:       "/me",
			authHeader: "Bearer " + mintToken(t, "other-secret", time.Hour),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "expired token",
			path:       "/me",
			authHeader: "Bearer " + mintToken(t, secret, -time.Hour),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "unsigned token rejected",
			path:       "/me",
			authHeader: "Bearer " + mintUnsignedToken(t),
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", string(body), tt.wantBody)
				}
			}
		})
	}
}
