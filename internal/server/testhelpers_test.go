package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "open sqlite")

	// A second connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db), "migrate sqlite")

	cfg := &config.Config{
		Env:             "test",
		JWTSecret:       "test_secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		MediaDir:        t.TempDir(),
	}

	s := NewServerWithDeps(cfg, db, nil)

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test")
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func registerUser(t *testing.T, app *fiber.App, email, password, name string) {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/users", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register %s", email)
}

func loginUser(t *testing.T, app *fiber.App, email, password string) service.TokenPair {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/token", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login %s", email)

	var pair service.TokenPair
	decodeJSON(t, resp, &pair)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	return pair
}

// registerAndLogin creates an account and returns a valid access token.
func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	registerUser(t, app, email, "testpass123", "Test User")
	return loginUser(t, app, email, "testpass123").Access
}
