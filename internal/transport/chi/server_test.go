package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/media"
	authuc "github.com/kailas-cloud/vidshare/internal/usecase/auth"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func TestHandleDomainError(t *testing.T) {
	s := NewServer(Services{}, nil, nil, Options{}, nil)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", fmt.Errorf("create: %w", domain.NewValidationError("title", "is required")),
			http.StatusBadRequest, "title: is required"},
		{"validation without field", domain.NewValidationError("", "please provide an email and password"),
			http.StatusBadRequest, "please provide an email and password"},
		{"invalid id", fmt.Errorf("%w: %q", domain.ErrInvalidID, "x"), http.StatusBadRequest, "invalid id"},
		{"not found", fmt.Errorf("video 1: %w", domain.ErrNotFound), http.StatusNotFound, "resource not found"},
		{"duplicate", fmt.Errorf("email: %w", domain.ErrAlreadyExists), http.StatusBadRequest, "resource already exists"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "not authorized to access this route"},
		{"invalid credentials", authuc.ErrInvalidCredentials, http.StatusUnauthorized,
			authuc.ErrInvalidCredentials.Error()},
		{"forbidden", fmt.Errorf("video 1: %w", domain.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, "too many requests"},
		{"too large", fmt.Errorf("stage video: %w", media.ErrTooLarge), http.StatusBadRequest,
			"file too large"},
		{"media upload", fmt.Errorf("upload: %w", domain.ErrMediaUpload), http.StatusBadGateway, "media upload failed"},
		{"media release", fmt.Errorf("release: %w", domain.ErrMediaRelease), http.StatusInternalServerError,
			"media release failed"},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/", http.NoBody)
			s.handleDomainError(rr, req, tt.err)

			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
			resp := decodeError(t, rr)
			if resp.Success {
				t.Error("success must be false")
			}
			if resp.Error != tt.message {
				t.Errorf("message: got %q, want %q", resp.Error, tt.message)
			}
		})
	}
}

func TestHandleDomainError_HidesInternals(t *testing.T) {
	s := NewServer(Services{}, nil, nil, Options{}, nil)
	rr := httptest.NewRecorder()
	s.handleDomainError(rr, httptest.NewRequest("GET", "/", http.NoBody),
		fmt.Errorf("JSON.GET vidshare:users:42: %w", errors.New("READONLY You can't write against a read only replica")))

	if got := decodeError(t, rr).Error; got != "internal error" {
		t.Errorf("leaked message %q", got)
	}
}

func TestWritePage_Envelope(t *testing.T) {
	req := domain.NewPageRequest(2, 2, 10, 100)
	page := domain.NewPage([]int{3, 4}, 5, req)

	rr := httptest.NewRecorder()
	writePage(rr, page, func(i int) string { return fmt.Sprint(i) })

	var resp struct {
		Success     bool     `json:"success"`
		Count       int      `json:"count"`
		Total       int      `json:"total"`
		TotalPages  int      `json:"totalPages"`
		CurrentPage int      `json:"currentPage"`
		Data        []string `json:"data"`
		Pagination  struct {
			Next *pageRef `json:"next"`
			Prev *pageRef `json:"prev"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Count != 2 || resp.Total != 5 || resp.TotalPages != 3 || resp.CurrentPage != 2 {
		t.Errorf("envelope = %+v", resp)
	}
	if len(resp.Data) != 2 || resp.Data[0] != "3" {
		t.Errorf("data = %v", resp.Data)
	}
	if resp.Pagination.Next == nil || resp.Pagination.Next.Page != 3 || resp.Pagination.Next.Limit != 2 {
		t.Errorf("next = %+v", resp.Pagination.Next)
	}
	if resp.Pagination.Prev == nil || resp.Pagination.Prev.Page != 1 {
		t.Errorf("prev = %+v", resp.Pagination.Prev)
	}
}

func TestWritePage_EmptyBeyondLastPage(t *testing.T) {
	page := domain.NewPage[int](nil, 3, domain.NewPageRequest(9, 10, 10, 100))

	rr := httptest.NewRecorder()
	writePage(rr, page, func(i int) int { return i })

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(rr.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["data"]) != "[]" {
		t.Errorf("data = %s, want []", raw["data"])
	}
	if string(raw["pagination"]) != `{"prev":{"page":8,"limit":10}}` {
		t.Errorf("pagination = %s", raw["pagination"])
	}
}

func TestUserDTO_OmitsPassword(t *testing.T) {
	u := domain.User{ID: "1", ChannelName: "c", Email: "a@b.c", PasswordHash: "$2a$10$secret", Role: domain.RoleUser}
	b, err := json.Marshal(userToDTO(u))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if _, ok := m["password"]; ok {
		t.Errorf("password serialized: %s", b)
	}
}

func TestHistoryDTO_NullVideo(t *testing.T) {
	b, _ := json.Marshal(historyToDTO(domain.History{ID: "h", Type: domain.HistoryWatch, UserID: "u"}))
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if v, ok := m["videoId"]; !ok || v != nil {
		t.Errorf("videoId = %v (present %v), want null", v, ok)
	}
}
