package video

import (
	"context"
	"testing"

	"github.com/kailas-cloud/vidshare/internal/db"
	"github.com/kailas-cloud/vidshare/internal/domain"
)

// fakeStore records the last search query and answers with no hits.
type fakeStore struct {
	db.Store
	lastQuery *db.Query
}

func (f *fakeStore) Search(_ context.Context, q *db.Query) (*db.SearchResult, error) {
	f.lastQuery = q
	return &db.SearchResult{}, nil
}

func TestToExpression(t *testing.T) {
	e := toExpression(domain.VideoFilter{
		Status:     domain.StatusPublic,
		CategoryID: "c1",
		ExcludeID:  "v1",
	})
	if len(e.Must()) != 2 || len(e.MustNot()) != 1 {
		t.Fatalf("must=%v mustNot=%v", e.Must(), e.MustNot())
	}
	if e.Must()[0].Key() != "status" || e.Must()[1].Key() != "categoryId" {
		t.Errorf("must = %v", e.Must())
	}
	if e.MustNot()[0].Key() != "id" || e.MustNot()[0].Values()[0] != "v1" {
		t.Errorf("mustNot = %v", e.MustNot())
	}
}

func TestToExpression_EmptyChannels(t *testing.T) {
	e := toExpression(domain.VideoFilter{RestrictChannels: true})
	if !e.MatchesNone() {
		t.Error("expected an empty channel set to match nothing")
	}
}

func TestList_NewestFirst(t *testing.T) {
	s := &fakeStore{}
	r := New(s, "vs:")

	if _, _, err := r.List(context.Background(), domain.VideoFilter{OwnerID: "u1"}, 10, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := s.lastQuery
	if q.IndexName != "vs:videos:idx" {
		t.Errorf("index = %q", q.IndexName)
	}
	if q.SortBy != "createdAt" || !q.SortDesc || q.Offset != 10 || q.Limit != 5 {
		t.Errorf("query = %+v", q)
	}
}

func TestList_NoChannelsSkipsStore(t *testing.T) {
	s := &fakeStore{}
	r := New(s, "")

	items, total, err := r.List(context.Background(), domain.VideoFilter{RestrictChannels: true}, 0, 10)
	if err != nil || len(items) != 0 || total != 0 {
		t.Fatalf("items=%v total=%d err=%v", items, total, err)
	}
	if s.lastQuery != nil {
		t.Error("store should not be queried")
	}
}

func TestSearchPublic_ScopesFields(t *testing.T) {
	s := &fakeStore{}
	r := New(s, "")

	if _, _, err := r.SearchPublic(context.Background(), "go tutorial", 0, 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := s.lastQuery
	if !q.WithScores || q.Text != "go tutorial" {
		t.Errorf("query = %+v", q)
	}
	if len(q.TextFields) != 2 || q.TextFields[0] != "title" || q.TextFields[1] != "description" {
		t.Errorf("fields = %v", q.TextFields)
	}
	if must := q.Filters.Must(); len(must) != 1 || must[0].Values()[0] != "public" {
		t.Errorf("filters = %v", must)
	}
}
