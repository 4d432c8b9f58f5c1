package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// End-to-end smoke test against a running server with MongoDB, Redis and
// MinIO behind it. Skipped when no server is listening.

const superadminEmail = "superadmin@demo.com"
const superadminPassword = "admin@123"

var apiBase = func() string {
	if v := os.Getenv("API_BASE"); v != "" {
		return v
	}
	return "http://localhost:8080"
}()

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

type searchResponse struct {
	Products []struct {
		ID    string  `json:"id"`
		Stock int     `json:"stock"`
		Price float64 `json:"price"`
	} `json:"products"`
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
		HasMore    bool  `json:"hasMore"`
		HasPrev    bool  `json:"hasPrev"`
	} `json:"pagination"`
}

func requireServer(t *testing.T) {
	t.Helper()
	client := http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(apiBase + "/api/products")
	if err != nil {
		t.Skipf("API server is not running at %s: %v", apiBase, err)
	}
	resp.Body.Close()
}

func postJSON(t *testing.T, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	return doJSON(t, http.MethodPost, path, token, payload)
}

func doJSON(t *testing.T, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	return resp, respBody
}

func loginSuperadmin(t *testing.T) string {
	t.Helper()

	// Make sure the superadmin account exists.
	resp, err := http.Get(apiBase + "/auth/seed")
	if err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	resp.Body.Close()

	loginResp, body := postJSON(t, "/auth/login", "", map[string]string{
		"email":    superadminEmail,
		"password": superadminPassword,
	})
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("superadmin login failed. Status: %d, Response: %s", loginResp.StatusCode, body)
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return auth.Token
}

func TestAuthFlow(t *testing.T) {
	requireServer(t)

	email := fmt.Sprintf("user%d@example.com", time.Now().UnixNano())
	payload := map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	}

	var token string
	t.Run("Signup", func(t *testing.T) {
		resp, body := postJSON(t, "/auth/signup", "", payload)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("signup failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
		var auth authResponse
		if err := json.Unmarshal(body, &auth); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if auth.Token == "" {
			t.Fatal("expected a session token")
		}
		if auth.User.Role != "user" {
			t.Errorf("new accounts must start as user, got %q", auth.User.Role)
		}
	})

	t.Run("Duplicate signup rejected", func(t *testing.T) {
		resp, body := postJSON(t, "/auth/signup", "", payload)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", resp.StatusCode, body)
		}
		if !bytes.Contains(body, []byte("User already exists with this email")) {
			t.Errorf("unexpected error body: %s", body)
		}
	})

	t.Run("Login", func(t *testing.T) {
		resp, body := postJSON(t, "/auth/login", "", map[string]string{
			"email":    email,
			"password": "password123",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("login failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
		var auth authResponse
		if err := json.Unmarshal(body, &auth); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		token = auth.Token
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		resp, _ := postJSON(t, "/auth/login", "", map[string]string{
			"email":    email,
			"password": "wrong-password",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("Login with unknown email fails identically", func(t *testing.T) {
		resp, _ := postJSON(t, "/auth/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "password123",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("Profile", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, "/api/profile", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("profile fetch failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
		if bytes.Contains(body, []byte(`"password"`)) {
			t.Error("profile response leaks the password field")
		}
	})

	t.Run("Logout", func(t *testing.T) {
		resp, body := postJSON(t, "/auth/logout", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("logout failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
	})
}

func TestProductLifecycle(t *testing.T) {
	requireServer(t)
	token := loginSuperadmin(t)

	sku := fmt.Sprintf("TST%d", time.Now().UnixNano())
	product := map[string]any{
		"name":        "Test Widget",
		"description": "A widget created by the e2e test",
		"price":       19.99,
		"category":    "Electronics",
		"stock":       5,
		"sku":         sku,
	}

	var productID string
	t.Run("Create", func(t *testing.T) {
		resp, body := postJSON(t, "/api/products", token, product)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
		var created struct {
			Product struct {
				ID string `json:"id"`
			} `json:"product"`
		}
		if err := json.Unmarshal(body, &created); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		productID = created.Product.ID
	})

	t.Run("Duplicate SKU rejected", func(t *testing.T) {
		resp, body := postJSON(t, "/api/products", token, product)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", resp.StatusCode, body)
		}
	})

	t.Run("Get", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, "/api/products/"+productID, "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
	})

	t.Run("Search in stock", func(t *testing.T) {
		resp, body := postJSON(t, "/api/products/search", "", map[string]any{
			"search":  "Test Widget",
			"filters": map[string]any{"inStock": true},
			"page":    1,
			"limit":   5,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("search failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
		var result searchResponse
		if err := json.Unmarshal(body, &result); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		for _, p := range result.Products {
			if p.Stock <= 0 {
				t.Errorf("inStock=true returned product with stock %d", p.Stock)
			}
		}
		if result.Pagination.HasPrev {
			t.Error("first page must not report hasPrev")
		}
	})

	t.Run("Update", func(t *testing.T) {
		product["price"] = 24.99
		resp, body := doJSON(t, http.MethodPut, "/api/products/"+productID, token, product)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("update failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodDelete, "/api/products/"+productID, token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
		resp, _ = doJSON(t, http.MethodGet, "/api/products/"+productID, "", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
		}
	})
}

func TestAccessControl(t *testing.T) {
	requireServer(t)

	email := fmt.Sprintf("plain%d@example.com", time.Now().UnixNano())
	resp, body := postJSON(t, "/auth/signup", "", map[string]string{
		"name":     "Plain User",
		"email":    email,
		"password": "password123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup failed. Status: %d, Response: %s", resp.StatusCode, body)
	}
	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	userToken := auth.Token

	t.Run("Product mutation needs admin", func(t *testing.T) {
		resp, _ := postJSON(t, "/api/products", userToken, map[string]any{
			"name": "x", "description": "x", "price": 1, "sku": "X1",
		})
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("User management needs superadmin", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, "/api/users", userToken, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("No token is unauthorized", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, "/api/users", "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("Superadmin cannot delete own account", func(t *testing.T) {
		token := loginSuperadmin(t)
		resp, body := doJSON(t, http.MethodGet, "/api/profile", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("profile fetch failed. Status: %d, Response: %s", resp.StatusCode, body)
		}
		var profile struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
		}
		if err := json.Unmarshal(body, &profile); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		resp, _ = doJSON(t, http.MethodDelete, "/api/users/"+profile.User.ID, token, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for self-delete, got %d", resp.StatusCode)
		}
	})
}
