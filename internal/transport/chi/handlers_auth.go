package chi

import (
	"net/http"
	"time"

	"github.com/kailas-cloud/vidshare/internal/domain"
	authuc "github.com/kailas-cloud/vidshare/internal/usecase/auth"
	useruc "github.com/kailas-cloud/vidshare/internal/usecase/user"
)

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	sess, err := s.svc.Auth.Register(r.Context(), authuc.RegisterInput{
		ChannelName: req.ChannelName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.sendSession(w, http.StatusCreated, sess)
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	sess, err := s.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.sendSession(w, http.StatusOK, sess)
}

// Logout handles POST /auth/logout. Tokens are stateless; the cookie is overwritten.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "none",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeData(w, http.StatusOK, struct{}{})
}

// Me handles GET /auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Auth.Me(r.Context(), principal(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, userToDTO(u))
}

// UpdateDetails handles PUT /auth/updatedetails.
func (s *Server) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req detailsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	u, err := s.svc.Auth.UpdateDetails(r.Context(), principal(r), authuc.DetailsPatch{
		ChannelName: req.ChannelName,
		Email:       req.Email,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, userToDTO(u))
}

// UploadAvatar handles PUT /auth/avatar (multipart field "avatar").
func (s *Server) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	f, err := s.stageUpload(w, r, "avatar", s.opts.MaxImageBytes)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	u, err := s.svc.Auth.UploadAvatar(r.Context(), principal(r), f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, userToDTO(u))
}

// sendSession sets the auth cookie and returns the token with the user.
func (s *Server) sendSession(w http.ResponseWriter, status int, sess authuc.Session) {
	cookie := &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.opts.TokenTTL > 0 {
		cookie.Expires = time.Now().Add(s.opts.TokenTTL)
	}
	http.SetCookie(w, cookie)
	writeJSON(w, status, authResponse{Success: true, Token: sess.Token, Data: userToDTO(sess.User)})
}

// ListUsers handles GET /users (admin).
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := s.pageRequest(r, s.opts.Pages.Default)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	users, err := s.svc.Users.List(r.Context(), principal(r), page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, users, userToDTO)
}

// GetUser handles GET /users/{id} (admin).
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	u, err := s.svc.Users.Get(r.Context(), principal(r), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, userToDTO(u))
}

// UpdateUser handles PUT /users/{id} (admin).
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var req userPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	patch := useruc.Patch{ChannelName: req.ChannelName, Email: req.Email}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}
	u, err := s.svc.Users.Update(r.Context(), principal(r), id, patch)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, userToDTO(u))
}

// DeleteUser handles DELETE /users/{id} (admin).
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := s.svc.Users.Delete(r.Context(), principal(r), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, struct{}{})
}
