package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"arsippro/config"
	"arsippro/models"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "routes_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Mail{}))
	require.NoError(t, models.SeedDefaultUsers(db))

	config.DB = db
	config.AppConfig = config.Config{
		Environment:   "test",
		JWTSecret:     "test-secret",
		UploadDir:     filepath.Join(t.TempDir(), "uploads"),
		PublicBaseURL: "http://localhost:5000",
	}

	app := fiber.New()
	SetupRoutes(app, db)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var result map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &result))
	}
	return resp, result
}

func loginAs(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp, result := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := result["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthAndNotFound(t *testing.T) {
	app := newTestServer(t)

	resp, result := doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", result["status"])

	resp, _ = doJSON(t, app, http.MethodGet, "/no/such/route", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthLoginAndMe(t *testing.T) {
	app := newTestServer(t)

	token := loginAs(t, app, "admin", "admin123")

	resp, result := doJSON(t, app, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", result["username"])
	assert.Equal(t, models.RoleAdmin, result["role"])
	// Password hash never leaves the server
	assert.NotContains(t, result, "password_hash")

	resp, _ = doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRefresh(t *testing.T) {
	app := newTestServer(t)

	resp, result := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "admin", "password": "admin123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	refresh := result["refresh_token"].(string)

	resp, result = doJSON(t, app, http.MethodPost, "/auth/refresh", "", map[string]string{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, result["access_token"])

	resp, _ = doJSON(t, app, http.MethodPost, "/auth/refresh", "", map[string]string{
		"refresh_token": "garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRESTMailCRUDWithRoles(t *testing.T) {
	app := newTestServer(t)

	adminToken := loginAs(t, app, "admin", "admin123")
	userToken := loginAs(t, app, "user", "user123")

	entry := map[string]string{
		"date":            "2024-07-01",
		"referenceNumber": "SK/2024/100",
		"recipient":       "Inspektorat",
		"subject":         "Tindak Lanjut Temuan",
		"type":            models.MailOutgoing,
	}

	// Unauthenticated requests are rejected
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/mails", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Viewer role may read but not mutate
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/mails", userToken, entry)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admin creates; missing id is filled in, blank archive code generated
	resp, result := doJSON(t, app, http.MethodPost, "/api/v1/mails", adminToken, entry)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := result["data"].(map[string]interface{})
	id := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Regexp(t, `^ARS-\d{8}-\d{4}$`, created["archiveCode"])

	resp, result = doJSON(t, app, http.MethodGet, "/api/v1/mails", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, result["data"], 1)

	// Update is a whole-record overwrite
	entry["subject"] = "Tindak Lanjut Temuan (Final)"
	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/mails/"+id, adminToken, entry)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, result = doJSON(t, app, http.MethodGet, "/api/v1/mails/"+id, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := result["data"].(map[string]interface{})
	assert.Equal(t, "Tindak Lanjut Temuan (Final)", got["subject"])

	// Viewer cannot delete; admin can, and a second delete is 404
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/mails/"+id, userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/mails/"+id, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/mails/"+id, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestActionEndpointMountedAtRoot(t *testing.T) {
	app := newTestServer(t)

	resp, result := doJSON(t, app, http.MethodPost, "/", "", map[string]string{
		"action": "getMails",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, result["success"])

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	getResp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(getResp.Body)
	getResp.Body.Close()
	assert.Equal(t, "ArsipPro API is Running.", string(body))
}
