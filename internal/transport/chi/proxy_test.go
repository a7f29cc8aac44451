package chi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gochi "github.com/go-chi/chi/v5"
)

func newProxyRouter(t *testing.T, upstream http.Handler, prefixes []string) (http.Handler, *[]string) {
	t.Helper()
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Path)
		upstream.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	p, err := NewMediaProxy(srv.URL+"/demo/video/upload/", prefixes, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("NewMediaProxy: %v", err)
	}
	r := gochi.NewRouter()
	r.Get("/media/*", p.ServeHTTP)
	return r, &seen
}

func TestMediaProxy_Streams(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Range") != "bytes=0-3" {
			t.Errorf("range not forwarded: %q", r.Header.Get("Range"))
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Range", "bytes 0-3/10")
		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("Set-Cookie", "upstream=1")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = io.WriteString(w, "mp4!")
	})
	router, seen := newProxyRouter(t, upstream, []string{"vidshare/videos/"})

	req := httptest.NewRequest("GET", "/media/v1712/vidshare/videos/clip.mp4", http.NoBody)
	req.Header.Set("Range", "bytes=0-3")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusPartialContent {
		t.Fatalf("status: got %d, want 206", rr.Code)
	}
	if rr.Body.String() != "mp4!" {
		t.Errorf("body = %q", rr.Body.String())
	}
	h := rr.Header()
	if h.Get("Content-Type") != "video/mp4" || h.Get("Content-Range") != "bytes 0-3/10" || h.Get("Accept-Ranges") != "bytes" {
		t.Errorf("headers = %v", h)
	}
	if h.Get("Set-Cookie") != "" {
		t.Error("upstream cookies must not be forwarded")
	}
	if len(*seen) != 1 || (*seen)[0] != "/demo/video/upload/v1712/vidshare/videos/clip.mp4" {
		t.Errorf("upstream path = %v", *seen)
	}
}

func TestMediaProxy_Denied(t *testing.T) {
	router, seen := newProxyRouter(t, http.NotFoundHandler(), []string{"vidshare/videos/"})

	for _, path := range []string{
		"/media/vidshare/avatars/a.png",
		"/media/vidshare/videos/../avatars/a.png",
		"/media/v12/other/clip.mp4",
		"/media/",
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", path, http.NoBody))
		if rr.Code != http.StatusForbidden {
			t.Errorf("%s: got %d, want 403", path, rr.Code)
		}
	}
	if len(*seen) != 0 {
		t.Errorf("denied requests reached the upstream: %v", *seen)
	}
}

func TestMediaProxy_UpstreamFailure(t *testing.T) {
	router, _ := newProxyRouter(t, http.NotFoundHandler(), nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/media/anything/missing.mp4", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	if got := decodeError(t, rr).Error; got != "Error fetching video" {
		t.Errorf("message = %q", got)
	}
}

func TestNewMediaProxy_InvalidBase(t *testing.T) {
	if _, err := NewMediaProxy("not a url", nil, time.Second, nil); err == nil {
		t.Error("expected error for relative base url")
	}
}

func TestMediaProxy_Origin(t *testing.T) {
	p, err := NewMediaProxy("https://res.cloudinary.com/demo/video/upload", nil, time.Second, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Origin() != "https://res.cloudinary.com" {
		t.Errorf("origin = %q", p.Origin())
	}
}

func TestStripVersion(t *testing.T) {
	tests := map[string]string{
		"v1712/vidshare/videos/a.mp4": "vidshare/videos/a.mp4",
		"vidshare/videos/a.mp4":       "vidshare/videos/a.mp4",
		"v/videos/a.mp4":              "v/videos/a.mp4",
		"v12a/videos/a.mp4":           "v12a/videos/a.mp4",
		"v12":                         "v12",
	}
	for in, want := range tests {
		if got := stripVersion(in); got != want {
			t.Errorf("stripVersion(%q) = %q, want %q", in, got, want)
		}
	}
}
