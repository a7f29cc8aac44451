package chi

import (
	"net/http"

	"github.com/kailas-cloud/vidshare/internal/domain"
	feelinguc "github.com/kailas-cloud/vidshare/internal/usecase/feeling"
	historyuc "github.com/kailas-cloud/vidshare/internal/usecase/history"
	subscriptionuc "github.com/kailas-cloud/vidshare/internal/usecase/subscription"
)

// CreateComment handles POST /comments.
func (s *Server) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	c, err := s.svc.Comments.Create(r.Context(), principal(r), req.VideoID, req.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, commentToDTO(c))
}

// VideoComments handles GET /comments/{id}/videos: threads on video id.
func (s *Server) VideoComments(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	page, err := s.pageRequest(r, s.opts.Pages.Comments)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Comments.ListByVideo(r.Context(), principal(r), videoID, page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, out, threadToDTO)
}

// UpdateComment handles PUT /comments/{id}.
func (s *Server) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	c, err := s.svc.Comments.Update(r.Context(), principal(r), id, req.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, commentToDTO(c))
}

// DeleteComment handles DELETE /comments/{id}.
func (s *Server) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := s.svc.Comments.Delete(r.Context(), principal(r), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, struct{}{})
}

// CreateReply handles POST /replies.
func (s *Server) CreateReply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	reply, err := s.svc.Comments.CreateReply(r.Context(), principal(r), req.CommentID, req.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, replyToDTO(reply))
}

// UpdateReply handles PUT /replies/{id}.
func (s *Server) UpdateReply(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	reply, err := s.svc.Comments.UpdateReply(r.Context(), principal(r), id, req.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, replyToDTO(reply))
}

// DeleteReply handles DELETE /replies/{id}.
func (s *Server) DeleteReply(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := s.svc.Comments.DeleteReply(r.Context(), principal(r), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, struct{}{})
}

// ToggleFeeling handles POST /feelings.
func (s *Server) ToggleFeeling(w http.ResponseWriter, r *http.Request) {
	var req feelingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	st, err := s.svc.Feelings.Toggle(r.Context(), principal(r), req.VideoID, domain.FeelingType(req.Type))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, feelingState(st))
}

// CheckFeeling handles POST /feelings/check.
func (s *Server) CheckFeeling(w http.ResponseWriter, r *http.Request) {
	var req videoRefRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	st, err := s.svc.Feelings.Check(r.Context(), principal(r), req.VideoID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, feelingState(st))
}

// LikedVideos handles GET /feelings/videos.
func (s *Server) LikedVideos(w http.ResponseWriter, r *http.Request) {
	page, err := s.pageRequest(r, s.opts.Pages.Videos)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Feelings.LikedVideos(r.Context(), principal(r), page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, out, videoDetailsToDTO)
}

func feelingState(st feelinguc.State) feelingStateDTO {
	return feelingStateDTO{Feeling: string(st.Type), Likes: st.Likes, Dislikes: st.Dislikes}
}

// ToggleSubscription handles POST /subscriptions.
func (s *Server) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	var req channelRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	st, err := s.svc.Subscriptions.Toggle(r.Context(), principal(r), req.ChannelID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, subscriptionState(st))
}

// CheckSubscription handles POST /subscriptions/check.
func (s *Server) CheckSubscription(w http.ResponseWriter, r *http.Request) {
	var req channelRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	st, err := s.svc.Subscriptions.Check(r.Context(), principal(r), req.ChannelID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, subscriptionState(st))
}

// Subscribers handles GET /subscriptions/subscribers.
func (s *Server) Subscribers(w http.ResponseWriter, r *http.Request) {
	page, err := s.pageRequest(r, s.opts.Pages.Default)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Subscriptions.Subscribers(r.Context(), principal(r), page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, out, channelToDTO)
}

// SubscribedChannels handles GET /subscriptions/channels.
func (s *Server) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	page, err := s.pageRequest(r, s.opts.Pages.Default)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Subscriptions.Channels(r.Context(), principal(r), page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, out, channelToDTO)
}

// SubscriptionVideos handles GET /subscriptions/videos.
func (s *Server) SubscriptionVideos(w http.ResponseWriter, r *http.Request) {
	page, err := s.pageRequest(r, s.opts.Pages.Videos)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Subscriptions.Videos(r.Context(), principal(r), page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, out, videoDetailsToDTO)
}

func subscriptionState(st subscriptionuc.State) subscriptionStateDTO {
	return subscriptionStateDTO{Subscribed: st.Subscribed, Subscribers: st.Subscribers}
}

// RecordHistory handles POST /histories.
func (s *Server) RecordHistory(w http.ResponseWriter, r *http.Request) {
	var req historyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	h, err := s.svc.Histories.Record(r.Context(), principal(r), historyuc.Input{
		Type:       domain.HistoryType(req.Type),
		VideoID:    req.VideoID,
		SearchText: req.SearchText,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, historyToDTO(h))
}

// ListHistory handles GET /histories?type=.
func (s *Server) ListHistory(w http.ResponseWriter, r *http.Request) {
	t, err := queryString(r, "type")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	page, err := s.pageRequest(r, s.opts.Pages.Default)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Histories.List(r.Context(), principal(r), domain.HistoryType(t), page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, out, historyEntryToDTO)
}

// DeleteHistory handles DELETE /histories/{id}.
func (s *Server) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := s.svc.Histories.Delete(r.Context(), principal(r), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, struct{}{})
}

// ClearHistory handles DELETE /histories?type=.
func (s *Server) ClearHistory(w http.ResponseWriter, r *http.Request) {
	t, err := queryString(r, "type")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	n, err := s.svc.Histories.Clear(r.Context(), principal(r), domain.HistoryType(t))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int{"deleted": n})
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	page, err := s.pageRequest(r, s.opts.Pages.Search)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Search.Search(r.Context(), principal(r), req.Text, page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writePage(w, out, searchHitToDTO)
}
