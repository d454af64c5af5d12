package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/starplotd/starplot/internal/logging"
)

// generateAPIKey generates a valid API key of specified length
func generateAPIKey(length int) string {
	key := make([]byte, length)
	for i := range key {
		key[i] = 'a' + byte(i%26)
	}
	return string(key)
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected bool
	}{
		{name: "valid key - exactly 32 chars", key: generateAPIKey(32), expected: true},
		{name: "valid key - longer than 32 chars", key: generateAPIKey(64), expected: true},
		{name: "invalid key - too short", key: generateAPIKey(31), expected: false},
		{name: "invalid key - empty string", key: "", expected: false},
		{name: "invalid key - 32 spaces", key: "                                ", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAPIKey(tt.key)
			if result != tt.expected {
				t.Errorf("ValidateAPIKey(%q) = %v, want %v", tt.key, result, tt.expected)
			}
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	logger := logging.NewDevelopment()
	validKey := generateAPIKey(32)

	tests := []struct {
		name       string
		enabled    bool
		header     string
		value      string
		wantStatus int
	}{
		{
			name:       "auth disabled allows all",
			enabled:    false,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "valid X-API-Key",
			enabled:    true,
			header:     "X-API-Key",
			value:      validKey,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "valid bearer token",
			enabled:    true,
			header:     "Authorization",
			value:      "Bearer " + validKey,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "plain authorization header",
			enabled:    true,
			header:     "Authorization",
			value:      validKey,
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "missing key",
			enabled:    true,
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "wrong key",
			enabled:    true,
			header:     "X-API-Key",
			value:      generateAPIKey(33),
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(APIKeyAuth(logger, []string{validKey}, tt.enabled))
			app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Failed to perform request: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("abc"); got != "****" {
		t.Errorf("maskAPIKey short = %q", got)
	}
	if got := maskAPIKey("abcdefgh"); got != "abcd****" {
		t.Errorf("maskAPIKey = %q", got)
	}
}
