package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// pageRequest binds the optional page and limit query parameters, falling back to def.
func (s *Server) pageRequest(r *http.Request, def int) (domain.PageRequest, error) {
	q := r.URL.Query()

	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		return domain.PageRequest{}, domain.NewValidationError("page", "must be an integer")
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return domain.PageRequest{}, domain.NewValidationError("limit", "must be an integer")
	}
	if def <= 0 {
		def = s.opts.Pages.Default
	}
	return domain.NewPageRequest(derefInt(page), derefInt(limit), def, s.opts.Pages.Max), nil
}

// queryString binds an optional string query parameter.
func queryString(r *http.Request, name string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return "", domain.NewValidationError(name, "is malformed")
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// pathParam binds a required path parameter. Ids are parsed by the services.
func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, gochi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return "", domain.NewValidationError(name, "is required")
	}
	return v, nil
}

// decodeJSON reads a JSON request body into dst. Unknown fields are ignored.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	var mbe *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &mbe):
		return err
	case errors.Is(err, io.EOF):
		return domain.NewValidationError("", "request body is required")
	default:
		return domain.NewValidationError("", "invalid request body")
	}
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
