package category

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// --- Mocks ---

type mockRepo struct {
	items     map[string]domain.Category
	createErr error
}

func newMockRepo(cs ...domain.Category) *mockRepo {
	m := &mockRepo{items: map[string]domain.Category{}}
	for _, c := range cs {
		m.items[c.ID] = c
	}
	return m
}

func (m *mockRepo) Create(_ context.Context, c *domain.Category) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.items[c.ID] = *c
	return nil
}

func (m *mockRepo) Update(_ context.Context, c *domain.Category) error {
	m.items[c.ID] = *c
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (domain.Category, error) {
	c, ok := m.items[id]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) List(_ context.Context, offset, limit int) ([]domain.Category, int, error) {
	var out []domain.Category
	for _, c := range m.items {
		out = append(out, c)
	}
	if offset >= len(out) {
		return nil, len(out), nil
	}
	return out[offset:min(offset+limit, len(out))], len(out), nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type mockVideos struct{ got domain.VideoFilter }

func (m *mockVideos) List(_ context.Context, f domain.VideoFilter, page domain.PageRequest) (domain.Page[domain.VideoDetails], error) {
	m.got = f
	return domain.NewPage[domain.VideoDetails](nil, 0, page), nil
}

var (
	adminP = domain.Principal{UserID: domain.NewID(), Role: domain.RoleAdmin}
	userP  = domain.Principal{UserID: domain.NewID(), Role: domain.RoleUser}
)

// --- Tests ---

func TestCreate_RoundTrip(t *testing.T) {
	svc := New(newMockRepo(), &mockVideos{})

	created, err := svc.Create(context.Background(), adminP, Input{Title: "Music", Description: "Songs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Music" || got.UserID != adminP.UserID {
		t.Errorf("category = %+v", got)
	}
	if got.TitleKey != "music" {
		t.Errorf("title key = %q", got.TitleKey)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := New(newMockRepo(), &mockVideos{})

	if _, err := svc.Create(context.Background(), adminP, Input{Title: "", Description: "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Create(context.Background(), adminP, Input{Title: "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing description: expected ErrValidation, got %v", err)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = domain.ErrAlreadyExists
	svc := New(repo, &mockVideos{})

	if _, err := svc.Create(context.Background(), adminP, Input{Title: "Music", Description: "x"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGet_Errors(t *testing.T) {
	svc := New(newMockRepo(), &mockVideos{})

	if _, err := svc.Get(context.Background(), "123"); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	if _, err := svc.Get(context.Background(), domain.NewID()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_PartialAndForbidden(t *testing.T) {
	c := domain.Category{ID: domain.NewID(), Title: "Music", Description: "Songs", UserID: adminP.UserID}
	svc := New(newMockRepo(c), &mockVideos{})

	title := "Live Music"
	got, err := svc.Update(context.Background(), adminP, c.ID, Patch{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != title || got.Description != "Songs" || got.TitleKey != "live music" {
		t.Errorf("category = %+v", got)
	}

	if _, err := svc.Update(context.Background(), userP, c.ID, Patch{Title: &title}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	c := domain.Category{ID: domain.NewID(), Title: "Music", Description: "Songs", UserID: adminP.UserID}
	repo := newMockRepo(c)
	svc := New(repo, &mockVideos{})

	if err := svc.Delete(context.Background(), adminP, c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.items) != 0 {
		t.Error("category not deleted")
	}
}

func TestList_BeyondLastPage(t *testing.T) {
	c := domain.Category{ID: domain.NewID(), Title: "Music"}
	svc := New(newMockRepo(c), &mockVideos{})

	page, err := svc.List(context.Background(), domain.NewPageRequest(5, 25, 25, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 0 || page.Total != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestVideos_FiltersPublicByCategory(t *testing.T) {
	vids := &mockVideos{}
	svc := New(newMockRepo(), vids)
	id := domain.NewID()

	if _, err := svc.Videos(context.Background(), id, domain.NewPageRequest(1, 10, 10, 100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vids.got.CategoryID != id || vids.got.Status != domain.StatusPublic {
		t.Errorf("filter = %+v", vids.got)
	}
	if _, err := svc.Videos(context.Background(), "music", domain.NewPageRequest(1, 10, 10, 100)); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}
