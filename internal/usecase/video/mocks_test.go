package video

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/media"
)

// --- Mocks ---

type memVideos struct {
	mu     sync.Mutex
	items  map[string]domain.Video
	events *[]string
	delErr error
}

func newMemVideos(events *[]string, vs ...domain.Video) *memVideos {
	m := &memVideos{items: map[string]domain.Video{}, events: events}
	for _, v := range vs {
		m.items[v.ID] = v
	}
	return m
}

func (m *memVideos) Save(_ context.Context, v *domain.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[v.ID] = *v
	return nil
}

func (m *memVideos) Get(_ context.Context, id string) (domain.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[id]
	if !ok {
		return domain.Video{}, fmt.Errorf("video %s: %w", id, domain.ErrNotFound)
	}
	return v, nil
}

func (m *memVideos) GetMany(_ context.Context, ids []string) (map[string]domain.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]domain.Video{}
	for _, id := range ids {
		if v, ok := m.items[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (m *memVideos) Delete(_ context.Context, id string) error {
	if m.events != nil {
		*m.events = append(*m.events, "delete:"+id)
	}
	if m.delErr != nil {
		return m.delErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memVideos) List(_ context.Context, f domain.VideoFilter, offset, limit int) ([]domain.Video, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []domain.Video
	for _, v := range m.items {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.OwnerID != "" && v.UserID != f.OwnerID {
			continue
		}
		if f.CategoryID != "" && v.CategoryID != f.CategoryID {
			continue
		}
		if f.ExcludeID != "" && v.ID == f.ExcludeID {
			continue
		}
		all = append(all, v)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt > all[j].CreatedAt })
	if offset >= len(all) {
		return nil, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

type mockUsers struct{ users map[string]domain.User }

func (m *mockUsers) GetMany(_ context.Context, ids []string) (map[string]domain.User, error) {
	out := map[string]domain.User{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type mockCategories struct{ cats map[string]domain.Category }

func (m *mockCategories) Get(_ context.Context, id string) (domain.Category, error) {
	c, ok := m.cats[id]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockCategories) GetMany(_ context.Context, ids []string) (map[string]domain.Category, error) {
	out := map[string]domain.Category{}
	for _, id := range ids {
		if c, ok := m.cats[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

type mockEngagement struct {
	mu              sync.Mutex
	likes, dislikes int
	comments        int
	subscribers     int
	deletedFeelings []string
	deletedComments []string
	deletedReplies  [][]string
	detached        []string
	commentIDs      []string
}

func (m *mockEngagement) CountByVideo(_ context.Context, _ string, t domain.FeelingType) (int, error) {
	if t == domain.FeelingLike {
		return m.likes, nil
	}
	return m.dislikes, nil
}

func (m *mockEngagement) DeleteByVideo(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedFeelings = append(m.deletedFeelings, id)
	return nil
}

func (m *mockEngagement) CountByChannel(context.Context, string) (int, error) {
	return m.subscribers, nil
}

func (m *mockEngagement) DeleteByComments(_ context.Context, ids []string) error {
	m.deletedReplies = append(m.deletedReplies, ids)
	return nil
}

func (m *mockEngagement) DetachVideo(_ context.Context, id string) error {
	m.detached = append(m.detached, id)
	return nil
}

// commentsView adapts mockEngagement to CommentStore, whose method names collide with FeelingStore.
type commentsView struct{ m *mockEngagement }

func (c commentsView) CountByVideo(context.Context, string) (int, error) { return c.m.comments, nil }

func (c commentsView) DeleteByVideo(_ context.Context, id string) ([]string, error) {
	c.m.deletedComments = append(c.m.deletedComments, id)
	return c.m.commentIDs, nil
}

type mockHost struct {
	events     *[]string
	uploads    []media.UploadRequest
	released   []string
	uploadErr  error
	releaseErr error
	nextID     int
}

func (m *mockHost) Upload(_ context.Context, req media.UploadRequest) (media.Asset, error) {
	m.uploads = append(m.uploads, req)
	if m.uploadErr != nil {
		return media.Asset{}, m.uploadErr
	}
	m.nextID++
	id := fmt.Sprintf("%s/asset-%d", req.Folder, m.nextID)
	return media.Asset{URL: "https://media.example.com/" + id, ID: id, Derived: []string{"https://media.example.com/d.jpg"}}, nil
}

func (m *mockHost) Release(_ context.Context, id string, _ media.Kind) error {
	if m.events != nil {
		*m.events = append(*m.events, "release:"+id)
	}
	if m.releaseErr != nil {
		return m.releaseErr
	}
	m.released = append(m.released, id)
	return nil
}

const stockThumb = "https://media.example.com/stock.png"

type fixture struct {
	svc    *Service
	videos *memVideos
	eng    *mockEngagement
	host   *mockHost
	events []string
}

func newFixture(vs ...domain.Video) *fixture {
	f := &fixture{}
	f.videos = newMemVideos(&f.events, vs...)
	f.eng = &mockEngagement{}
	f.host = &mockHost{events: &f.events}
	users := &mockUsers{users: map[string]domain.User{
		ownerID: {ID: ownerID, ChannelName: "Owner", PhotoURL: "o.jpg"},
	}}
	cats := &mockCategories{cats: map[string]domain.Category{
		categoryID: {ID: categoryID, Title: "Music"},
	}}
	f.svc = New(Deps{
		Videos:            f.videos,
		Users:             users,
		Categories:        cats,
		Feelings:          f.eng,
		Comments:          commentsView{f.eng},
		Replies:           f.eng,
		Histories:         f.eng,
		Subscribers:       f.eng,
		Media:             f.host,
		Folders:           Folders{Videos: "videos", Thumbnails: "video_thumbnails"},
		StockThumbnailURL: stockThumb,
	})
	return f
}

var (
	ownerID    = domain.NewID()
	otherID    = domain.NewID()
	categoryID = domain.NewID()
	owner      = domain.Principal{UserID: ownerID, Role: domain.RoleUser}
	stranger   = domain.Principal{UserID: otherID, Role: domain.RoleUser}
	admin      = domain.Principal{UserID: domain.NewID(), Role: domain.RoleAdmin}
)

func makeVideo(status domain.VideoStatus, createdAt int64) domain.Video {
	return domain.Video{
		ID:           domain.NewID(),
		Title:        "clip",
		URL:          "https://media.example.com/videos/clip.mp4",
		MediaID:      "videos/clip",
		ThumbnailURL: stockThumb,
		Status:       status,
		UserID:       ownerID,
		CreatedAt:    createdAt,
	}
}
