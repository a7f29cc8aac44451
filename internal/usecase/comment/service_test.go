package comment

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// --- Mocks ---

type mockComments struct {
	items map[string]domain.Comment
}

func (m *mockComments) Save(_ context.Context, c *domain.Comment) error {
	m.items[c.ID] = *c
	return nil
}

func (m *mockComments) Get(_ context.Context, id string) (domain.Comment, error) {
	c, ok := m.items[id]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockComments) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockComments) ListByVideo(_ context.Context, videoID string, _, _ int) ([]domain.Comment, int, error) {
	var out []domain.Comment
	for _, c := range m.items {
		if c.VideoID == videoID {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

type mockReplies struct {
	items          map[string]domain.Reply
	deletedParents []string
}

func (m *mockReplies) Save(_ context.Context, r *domain.Reply) error {
	m.items[r.ID] = *r
	return nil
}

func (m *mockReplies) Get(_ context.Context, id string) (domain.Reply, error) {
	r, ok := m.items[id]
	if !ok {
		return domain.Reply{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockReplies) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockReplies) ListByComments(_ context.Context, ids []string) ([]domain.Reply, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Reply
	for _, r := range m.items {
		if want[r.CommentID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReplies) DeleteByComments(_ context.Context, ids []string) error {
	m.deletedParents = append(m.deletedParents, ids...)
	return nil
}

type mockVideos struct{ items map[string]domain.Video }

func (m *mockVideos) Get(_ context.Context, id string) (domain.Video, error) {
	v, ok := m.items[id]
	if !ok {
		return domain.Video{}, domain.ErrNotFound
	}
	return v, nil
}

type mockUsers struct{ items map[string]domain.User }

func (m *mockUsers) GetMany(_ context.Context, ids []string) (map[string]domain.User, error) {
	out := map[string]domain.User{}
	for _, id := range ids {
		if u, ok := m.items[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fixture struct {
	svc      *Service
	comments *mockComments
	replies  *mockReplies
	public   domain.Video
	private  domain.Video
}

var (
	author   = domain.Principal{UserID: domain.NewID(), Role: domain.RoleUser}
	stranger = domain.Principal{UserID: domain.NewID(), Role: domain.RoleUser}
)

func newFixture() *fixture {
	f := &fixture{
		comments: &mockComments{items: map[string]domain.Comment{}},
		replies:  &mockReplies{items: map[string]domain.Reply{}},
		public:   domain.Video{ID: domain.NewID(), Status: domain.StatusPublic, UserID: author.UserID},
		private:  domain.Video{ID: domain.NewID(), Status: domain.StatusPrivate, UserID: author.UserID},
	}
	videos := &mockVideos{items: map[string]domain.Video{f.public.ID: f.public, f.private.ID: f.private}}
	users := &mockUsers{items: map[string]domain.User{author.UserID: {ID: author.UserID, ChannelName: "Author"}}}
	f.svc = New(f.comments, f.replies, videos, users)
	return f
}

// --- Tests ---

func TestCreate_OwnerFromPrincipal(t *testing.T) {
	fx := newFixture()

	c, err := fx.svc.Create(context.Background(), author, fx.public.ID, "nice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.UserID != author.UserID || c.VideoID != fx.public.ID {
		t.Errorf("comment = %+v", c)
	}
}

func TestCreate_Errors(t *testing.T) {
	fx := newFixture()

	if _, err := fx.svc.Create(context.Background(), author, fx.public.ID, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank text: expected ErrValidation, got %v", err)
	}
	if _, err := fx.svc.Create(context.Background(), author, "x", "hi"); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("bad id: expected ErrInvalidID, got %v", err)
	}
	if _, err := fx.svc.Create(context.Background(), author, domain.NewID(), "hi"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing video: expected ErrNotFound, got %v", err)
	}
	if _, err := fx.svc.Create(context.Background(), stranger, fx.private.ID, "hi"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("private video: expected ErrNotFound, got %v", err)
	}
}

func TestListByVideo_Threads(t *testing.T) {
	fx := newFixture()
	c, _ := fx.svc.Create(context.Background(), author, fx.public.ID, "first")
	if _, err := fx.svc.CreateReply(context.Background(), author, c.ID, "reply"); err != nil {
		t.Fatalf("reply: %v", err)
	}

	page, err := fx.svc.ListByVideo(context.Background(), domain.Principal{}, fx.public.ID, domain.NewPageRequest(1, 10, 10, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("page = %+v", page)
	}
	th := page.Items[0]
	if th.Author == nil || th.Author.ChannelName != "Author" {
		t.Errorf("author = %+v", th.Author)
	}
	if len(th.Replies) != 1 || th.Replies[0].Author == nil {
		t.Errorf("replies = %+v", th.Replies)
	}
}

func TestUpdate_ForbiddenForOthers(t *testing.T) {
	fx := newFixture()
	c, _ := fx.svc.Create(context.Background(), author, fx.public.ID, "first")

	if _, err := fx.svc.Update(context.Background(), stranger, c.ID, "edited"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	got, err := fx.svc.Update(context.Background(), author, c.ID, "edited")
	if err != nil || got.Text != "edited" {
		t.Fatalf("update: %+v %v", got, err)
	}
}

func TestDelete_CascadesReplies(t *testing.T) {
	fx := newFixture()
	c, _ := fx.svc.Create(context.Background(), author, fx.public.ID, "first")

	if err := fx.svc.Delete(context.Background(), author, c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fx.comments.items) != 0 {
		t.Error("comment not deleted")
	}
	if len(fx.replies.deletedParents) != 1 || fx.replies.deletedParents[0] != c.ID {
		t.Errorf("reply cascade = %v", fx.replies.deletedParents)
	}
}

func TestCreateReply_MissingComment(t *testing.T) {
	fx := newFixture()

	if _, err := fx.svc.CreateReply(context.Background(), author, domain.NewID(), "hi"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReply_UpdateDelete(t *testing.T) {
	fx := newFixture()
	c, _ := fx.svc.Create(context.Background(), author, fx.public.ID, "first")
	r, _ := fx.svc.CreateReply(context.Background(), author, c.ID, "reply")

	if err := fx.svc.DeleteReply(context.Background(), stranger, r.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := fx.svc.UpdateReply(context.Background(), author, r.ID, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if err := fx.svc.DeleteReply(context.Background(), author, r.ID); err != nil {
		t.Errorf("delete: %v", err)
	}
}
