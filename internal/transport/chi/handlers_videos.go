package chi

import (
	"net/http"

	"github.com/kailas-cloud/vidshare/internal/domain"
	categoryuc "github.com/kailas-cloud/vidshare/internal/usecase/category"
	videouc "github.com/kailas-cloud/vidshare/internal/usecase/video"
)

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, err := s.pageRequest(r, s.opts.Pages.Categories)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Categories.List(r.Context(), page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, out, categoryToDTO)
}

// CategoryVideos handles GET /categories/all-videos?category=.
func (s *Server) CategoryVideos(w http.ResponseWriter, r *http.Request) {
	page, err := s.pageRequest(r, s.opts.Pages.Videos)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	categoryID, err := queryString(r, "category")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Categories.Videos(r.Context(), categoryID, page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, out, videoDetailsToDTO)
}

// CreateCategory handles POST /categories (admin).
func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	c, err := s.svc.Categories.Create(r.Context(), principal(r), categoryuc.Input{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, categoryToDTO(c))
}

// GetCategory handles GET /categories/{id} (admin).
func (s *Server) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	c, err := s.svc.Categories.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, categoryToDTO(c))
}

// UpdateCategory handles PUT /categories/{id} (admin).
func (s *Server) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var req categoryPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	c, err := s.svc.Categories.Update(r.Context(), principal(r), id, categoryuc.Patch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, categoryToDTO(c))
}

// DeleteCategory handles DELETE /categories/{id} (admin).
func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := s.svc.Categories.Delete(r.Context(), principal(r), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, struct{}{})
}

// UploadVideo handles POST /videos (multipart field "video").
func (s *Server) UploadVideo(w http.ResponseWriter, r *http.Request) {
	f, err := s.stageUpload(w, r, "video", s.opts.MaxVideoBytes)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	v, err := s.svc.Videos.Upload(r.Context(), principal(r), f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, videoToDTO(v))
}

// ListOwnVideos handles GET /videos. An optional status narrows the listing.
func (s *Server) ListOwnVideos(w http.ResponseWriter, r *http.Request) {
	status, err := queryString(r, "status")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if status != "" && !domain.VideoStatus(status).IsValid() {
		s.handleDomainError(w, r, domain.NewValidationError("status", "must be public or private"))
		return
	}
	s.listOwn(w, r, domain.VideoStatus(status))
}

// ListPrivateVideos handles GET /videos/private: the caller's private videos.
func (s *Server) ListPrivateVideos(w http.ResponseWriter, r *http.Request) {
	s.listOwn(w, r, domain.StatusPrivate)
}

func (s *Server) listOwn(w http.ResponseWriter, r *http.Request, status domain.VideoStatus) {
	page, err := s.pageRequest(r, s.opts.Pages.Videos)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Videos.ListOwn(r.Context(), principal(r), status, page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, out, videoDetailsToDTO)
}

// ListPublicVideos handles GET /videos/public?category=&excludeId=.
func (s *Server) ListPublicVideos(w http.ResponseWriter, r *http.Request) {
	page, err := s.pageRequest(r, s.opts.Pages.Videos)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	categoryID, err := queryString(r, "category")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	excludeID, err := queryString(r, "excludeId")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Videos.ListPublic(r.Context(), categoryID, excludeID, page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, out, videoDetailsToDTO)
}

// GetVideo handles GET /videos/{id}.
func (s *Server) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	d, err := s.svc.Videos.Get(r.Context(), principal(r), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, videoDetailsToDTO(d))
}

// UpdateVideo handles PUT /videos/{id}.
func (s *Server) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var req videoPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	patch := videouc.Patch{Title: req.Title, Description: req.Description, CategoryID: req.CategoryID}
	if req.Status != nil {
		status := domain.VideoStatus(*req.Status)
		patch.Status = &status
	}
	d, err := s.svc.Videos.Update(r.Context(), principal(r), id, patch)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, videoDetailsToDTO(d))
}

// DeleteVideo handles DELETE /videos/{id}.
func (s *Server) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := s.svc.Videos.Delete(r.Context(), principal(r), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, struct{}{})
}

// UploadThumbnail handles PUT /videos/{id}/thumbnails (multipart field "thumbnail").
func (s *Server) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	f, err := s.stageUpload(w, r, "thumbnail", s.opts.MaxImageBytes)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	thumbURL, err := s.svc.Videos.UploadThumbnail(r.Context(), principal(r), id, f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, thumbURL)
}

// IncrementViews handles PUT /videos/{id}/views.
func (s *Server) IncrementViews(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	v, err := s.svc.Videos.IncrementViews(r.Context(), principal(r), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, videoToDTO(v))
}
