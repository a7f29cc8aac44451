package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/cors"
)

// CORS rejects requests from browser origins outside allowedOrigins with 403 and
// hands the rest to go-chi/cors for the preflight and response headers. Requests
// without an Origin header (curl, server to server) pass through. "*" allows every
// origin; the matched origin is echoed back so credentials keep working.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			allowAll = true
		}
		if o != "" {
			allowed[o] = struct{}{}
		}
	}
	isAllowed := func(origin string) bool {
		_, ok := allowed[origin]
		return ok || allowAll
	}

	policy := cors.Handler(cors.Options{
		AllowOriginFunc:  func(_ *http.Request, origin string) bool { return isAllowed(origin) },
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           600,
	})

	return func(next http.Handler) http.Handler {
		withPolicy := policy(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && !isAllowed(origin) {
				writeError(w, http.StatusForbidden,
					"the CORS policy does not allow access from the specified origin: "+origin)
				return
			}
			withPolicy.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets the browser hardening headers. mediaOrigin is allowed as an
// image and media source in the content security policy.
func SecurityHeaders(mediaOrigin string) func(http.Handler) http.Handler {
	imgSrc := "img-src 'self' data:"
	mediaSrc := "media-src 'self'"
	if mediaOrigin != "" {
		imgSrc += " " + mediaOrigin
		mediaSrc += " " + mediaOrigin
	}
	csp := strings.Join([]string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline'",
		"style-src 'self' 'unsafe-inline'",
		imgSrc,
		mediaSrc,
		"frame-ancestors 'none'",
		"object-src 'none'",
	}, "; ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", csp)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("X-DNS-Prefetch-Control", "off")
			h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
			h.Set("Cross-Origin-Resource-Policy", "cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}

// Sanitize drops operator-like keys (leading "$" or containing ".") from the query
// string and, recursively, from JSON request bodies. Repeated query parameters keep
// their last value. String values are never rewritten. JSON bodies over maxBytes are
// rejected with 413; malformed JSON is passed on untouched for the handler to reject.
func Sanitize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				r.URL.RawQuery = sanitizeQuery(r.URL.Query()).Encode()
			}

			if r.Body == nil || r.Body == http.NoBody || !isJSON(r) {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
			if err != nil {
				var mbe *http.MaxBytesError
				if errors.As(err, &mbe) {
					writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
					return
				}
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}

			if cleaned, ok := sanitizeJSON(raw); ok {
				raw = cleaned
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
			r.ContentLength = int64(len(raw))
			r.Header.Set("Content-Length", strconv.Itoa(len(raw)))
			next.ServeHTTP(w, r)
		})
	}
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && (mt == "application/json" || strings.HasSuffix(mt, "+json"))
}

func forbiddenKey(k string) bool {
	return strings.HasPrefix(k, "$") || strings.Contains(k, ".")
}

func sanitizeQuery(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, vs := range q {
		if forbiddenKey(k) || len(vs) == 0 {
			continue
		}
		out.Set(k, vs[len(vs)-1])
	}
	return out
}

// sanitizeJSON returns the re-encoded document with forbidden keys removed.
// ok is false when raw is not valid JSON.
func sanitizeJSON(raw []byte) ([]byte, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if !stripKeys(v) {
		return raw, true
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return out, true
}

// stripKeys removes forbidden keys in place and reports whether anything was removed.
func stripKeys(v any) bool {
	changed := false
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if forbiddenKey(k) {
				delete(t, k)
				changed = true
				continue
			}
			if stripKeys(child) {
				changed = true
			}
		}
	case []any:
		for _, child := range t {
			if stripKeys(child) {
				changed = true
			}
		}
	}
	return changed
}
