package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// --- Mocks ---

type mockVerifier struct {
	tokens map[string]domain.Principal
}

func (m *mockVerifier) Verify(raw string) (domain.Principal, error) {
	p, ok := m.tokens[raw]
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

var (
	alice = domain.Principal{UserID: "11111111-1111-4111-8111-111111111111", Role: domain.RoleUser}
	admin = domain.Principal{UserID: "22222222-2222-4222-8222-222222222222", Role: domain.RoleAdmin}
)

func verifier() *mockVerifier {
	return &mockVerifier{tokens: map[string]domain.Principal{"alice-token": alice, "admin-token": admin}}
}

type mockAccounts struct {
	users map[string]domain.User
	err   error
}

func (m *mockAccounts) Get(_ context.Context, id string) (domain.User, error) {
	if m.err != nil {
		return domain.User{}, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func accounts() *mockAccounts {
	return &mockAccounts{users: map[string]domain.User{
		alice.UserID: {ID: alice.UserID, ChannelName: "Alice Cooks", Role: domain.RoleUser},
		admin.UserID: {ID: admin.UserID, ChannelName: "Admin", Role: domain.RoleAdmin},
	}}
}

// principalEcho writes the caller's id, or "anonymous".
func principalEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := domain.PrincipalFromContext(r.Context())
		if !ok {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte(p.UserID))
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// --- Tests ---

func TestAuthenticate_Sources(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"no credentials", "", "", "anonymous"},
		{"bearer header", "Bearer alice-token", "", alice.UserID},
		{"cookie", "", "admin-token", admin.UserID},
		{"header wins over cookie", "Bearer alice-token", "admin-token", alice.UserID},
		{"invalid token stays anonymous", "Bearer forged", "", "anonymous"},
		{"basic scheme ignored", "Basic dXNlcjpwYXNz", "", "anonymous"},
		{"logged out cookie", "", "none", "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Authenticate(verifier(), accounts(), "token")(principalEcho())

			req := httptest.NewRequest("GET", "/api/v1/videos/public", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if got := rr.Body.String(); got != tt.want {
				t.Errorf("principal: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := Authenticate(verifier(), accounts(), "token")(RequireAuth(okHandler()))

	req := httptest.NewRequest("GET", "/api/v1/auth/me", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Success || resp.Error != domain.ErrUnauthenticated.Error() {
		t.Errorf("body: got %+v", resp)
	}

	req = httptest.NewRequest("GET", "/api/v1/auth/me", http.NoBody)
	req.Header.Set("Authorization", "Bearer alice-token")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("authenticated: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestRequireRole(t *testing.T) {
	handler := Authenticate(verifier(), accounts(), "token")(RequireRole(domain.RoleAdmin)(okHandler()))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"user", "alice-token", http.StatusForbidden},
		{"admin", "admin-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/users", http.NoBody)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestAuthenticate_DeletedAccount(t *testing.T) {
	users := accounts()
	delete(users.users, admin.UserID)
	handler := Authenticate(verifier(), users, "token")(RequireRole(domain.RoleAdmin)(okHandler()))

	req := httptest.NewRequest("POST", "/api/v1/categories", http.NoBody)
	req.Header.Set("Authorization", "Bearer admin-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("token of a deleted account: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticate_RoleFromStoredUser(t *testing.T) {
	users := accounts()
	demoted := users.users[admin.UserID]
	demoted.Role = domain.RoleUser
	users.users[admin.UserID] = demoted
	handler := Authenticate(verifier(), users, "token")(RequireRole(domain.RoleAdmin)(okHandler()))

	req := httptest.NewRequest("GET", "/api/v1/users", http.NoBody)
	req.Header.Set("Authorization", "Bearer admin-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("demoted admin: got %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestAuthenticate_PromotedWithoutNewToken(t *testing.T) {
	users := accounts()
	promoted := users.users[alice.UserID]
	promoted.Role = domain.RoleAdmin
	users.users[alice.UserID] = promoted
	handler := Authenticate(verifier(), users, "token")(RequireRole(domain.RoleAdmin)(okHandler()))

	req := httptest.NewRequest("GET", "/api/v1/users", http.NoBody)
	req.Header.Set("Authorization", "Bearer alice-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("promoted user: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuthenticate_StoreError(t *testing.T) {
	users := &mockAccounts{err: errors.New("dial tcp: refused")}
	handler := Authenticate(verifier(), users, "token")(principalEcho())

	req := httptest.NewRequest("GET", "/api/v1/auth/me", http.NoBody)
	req.Header.Set("Authorization", "Bearer alice-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("store failure: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
