package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RiskyMH/Forms/internal/config"
	"github.com/RiskyMH/Forms/internal/handlers"
	"github.com/RiskyMH/Forms/internal/models"
	"github.com/RiskyMH/Forms/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// fakeProvider stands in for Google's token and userinfo endpoints
func fakeProvider(tokenBody, userinfoBody map[string]interface{}) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenBody)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userinfoBody)
	})
	return httptest.NewServer(mux)
}

func setupAuthApp(db *gorm.DB, provider *httptest.Server) *fiber.App {
	cfg := &config.Config{
		BaseURL:   "http://localhost:3000",
		JWTSecret: testSecret,
	}
	oauth := &services.GoogleOAuth{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3000/api/oauth/google",
		HTTPClient:   &http.Client{Timeout: 5 * time.Second},
		TokenURL:     provider.URL + "/token",
		UserinfoURL:  provider.URL + "/userinfo",
	}

	app := fiber.New()
	handler := &handlers.AuthHandler{DB: db, Cfg: cfg, OAuth: oauth}
	app.Get("/api/oauth/google", handler.GoogleCallback)
	app.Post("/api/logout", handler.Logout)
	return app
}

// TestGoogleCallback verifies a successful code exchange signs the user in
func TestGoogleCallback(t *testing.T) {
	db := setupTestDB(t)
	provider := fakeProvider(
		map[string]interface{}{"access_token": "fake-access-token"},
		map[string]interface{}{
			"id":      "google-42",
			"email":   "jane@example.com",
			"name":    "Jane",
			"picture": "https://example.com/jane.png",
		},
	)
	defer provider.Close()

	app := setupAuthApp(db, provider)

	req := httptest.NewRequest("GET", "/api/oauth/google?code=auth-code", nil)
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 302 {
		t.Fatalf("Expected 302 redirect, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/" {
		t.Errorf("Expected redirect to /, got %q", got)
	}

	// Session cookie resolves back to the created user
	var token string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == services.SessionCookie {
			token = cookie.Value
		}
	}
	if token == "" {
		t.Fatal("Expected session cookie to be set")
	}
	userID, err := services.UserFromToken(testSecret, token)
	if err != nil {
		t.Fatalf("Session cookie does not verify: %v", err)
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("Failed to load signed-in user: %v", err)
	}
	if user.Email != "jane@example.com" {
		t.Errorf("Expected profile email recorded, got %q", user.Email)
	}
}

// TestGoogleCallbackNoCode verifies a code-less callback is a plain 400
func TestGoogleCallbackNoCode(t *testing.T) {
	db := setupTestDB(t)
	provider := fakeProvider(nil, nil)
	defer provider.Close()

	app := setupAuthApp(db, provider)

	req := httptest.NewRequest("GET", "/api/oauth/google", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "No code" {
		t.Errorf("Expected body 'No code', got %q", string(body))
	}
}

// TestGoogleCallbackProviderError verifies the provider's error text comes
// back verbatim and no user is created
func TestGoogleCallbackProviderError(t *testing.T) {
	db := setupTestDB(t)
	provider := fakeProvider(
		map[string]interface{}{"error": "invalid_grant"},
		nil,
	)
	defer provider.Close()

	app := setupAuthApp(db, provider)

	req := httptest.NewRequest("GET", "/api/oauth/google?code=stale-code", nil)
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "invalid_grant" {
		t.Errorf("Expected provider error text, got %q", string(body))
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Error("Expected no user created on provider error")
	}
}

// TestLogout verifies the session cookie is expired and the user sent to login
func TestLogout(t *testing.T) {
	db := setupTestDB(t)
	provider := fakeProvider(nil, nil)
	defer provider.Close()

	app := setupAuthApp(db, provider)

	req := httptest.NewRequest("POST", "/api/logout", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 303 {
		t.Fatalf("Expected 303 redirect, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/login" {
		t.Errorf("Expected redirect to /login, got %q", got)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == services.SessionCookie {
			if cookie.Value != "" && cookie.Expires.After(time.Now()) {
				t.Error("Expected session cookie cleared")
			}
			return
		}
	}
	t.Error("Expected an expiring session cookie in the response")
}
