package user

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/media"
)

// --- Mocks ---

type mockRepo struct {
	items map[string]domain.User
}

func (m *mockRepo) Get(_ context.Context, id string) (domain.User, error) {
	u, ok := m.items[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) Update(_ context.Context, u *domain.User) error {
	for id, other := range m.items {
		if id != u.ID && other.Email == u.Email {
			return domain.ErrAlreadyExists
		}
	}
	m.items[u.ID] = *u
	return nil
}

func (m *mockRepo) List(_ context.Context, _, _ int) ([]domain.User, int, error) {
	out := make([]domain.User, 0, len(m.items))
	for _, u := range m.items {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type mockMedia struct {
	released []string
	err      error
}

func (m *mockMedia) Release(_ context.Context, id string, _ media.Kind) error {
	m.released = append(m.released, id)
	return m.err
}

var (
	admin = domain.Principal{UserID: domain.NewID(), Role: domain.RoleAdmin}
	plain = domain.Principal{UserID: domain.NewID(), Role: domain.RoleUser}
	jane  = domain.User{
		ID: domain.NewID(), ChannelName: "jane", Email: "jane@example.com",
		PasswordHash: "hash", Role: domain.RoleUser, PhotoURL: "a.jpg", PhotoMediaID: "avatars/a",
	}
	john = domain.User{
		ID: domain.NewID(), ChannelName: "john", Email: "john@example.com",
		PasswordHash: "hash", Role: domain.RoleUser, PhotoURL: domain.DefaultPhotoURL,
	}
)

func newService() (*Service, *mockRepo, *mockMedia) {
	repo := &mockRepo{items: map[string]domain.User{jane.ID: jane, john.ID: john}}
	m := &mockMedia{}
	return New(repo, m, nil), repo, m
}

func ptr[T any](v T) *T { return &v }

// --- Tests ---

func TestAdminOnly(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	if _, err := svc.List(ctx, plain, domain.NewPageRequest(1, 0, 20, 100)); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("List: %v", err)
	}
	if _, err := svc.Get(ctx, plain, jane.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Get: %v", err)
	}
	if err := svc.Delete(ctx, plain, jane.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Delete: %v", err)
	}
}

func TestList(t *testing.T) {
	svc, _, _ := newService()

	page, err := svc.List(context.Background(), admin, domain.NewPageRequest(1, 0, 20, 100))
	if err != nil || page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("page = %+v err = %v", page, err)
	}
}

func TestUpdate(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	u, err := svc.Update(ctx, admin, jane.ID, Patch{Email: ptr(" Jane@Example.org "), Role: ptr(domain.RoleAdmin)})
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "jane@example.org" || u.Role != domain.RoleAdmin || u.ChannelName != "jane" {
		t.Errorf("user = %+v", u)
	}
	if repo.items[jane.ID].UpdatedAt == 0 {
		t.Error("UpdatedAt not set")
	}

	if _, err := svc.Update(ctx, admin, jane.ID, Patch{Email: ptr("john@example.com")}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("duplicate email: %v", err)
	}
	if _, err := svc.Update(ctx, admin, jane.ID, Patch{Role: ptr(domain.Role("root"))}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad role: %v", err)
	}
	if _, err := svc.Update(ctx, admin, "bad", Patch{}); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("bad id: %v", err)
	}
}

func TestDelete_ReleasesAvatar(t *testing.T) {
	svc, repo, m := newService()
	ctx := context.Background()

	if err := svc.Delete(ctx, admin, jane.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := repo.items[jane.ID]; ok {
		t.Error("user not deleted")
	}
	if len(m.released) != 1 || m.released[0] != "avatars/a" {
		t.Errorf("released = %v", m.released)
	}

	if err := svc.Delete(ctx, admin, john.ID); err != nil {
		t.Fatal(err)
	}
	if len(m.released) != 1 {
		t.Errorf("default avatar released: %v", m.released)
	}
}

func TestDelete_ReleaseFailureIgnored(t *testing.T) {
	svc, _, m := newService()
	m.err = errors.New("host down")

	if err := svc.Delete(context.Background(), admin, jane.ID); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
