package history

import (
	"context"
	"testing"

	"github.com/kailas-cloud/vidshare/internal/domain"
	"github.com/kailas-cloud/vidshare/internal/repository/docstore/docstoretest"
)

func seed(t *testing.T, s *docstoretest.Store, entries ...domain.History) {
	t.Helper()
	for _, h := range entries {
		s.Seed(t, "vs:histories:"+h.ID, h)
	}
}

func TestDetachVideo(t *testing.T) {
	s := docstoretest.New()
	seed(t, s,
		domain.History{ID: "h1", Type: domain.HistoryWatch, VideoID: "v1", UserID: "u1", CreatedAt: 1},
		domain.History{ID: "h2", Type: domain.HistoryWatch, VideoID: "v1", UserID: "u2", CreatedAt: 2},
		domain.History{ID: "h3", Type: domain.HistoryWatch, VideoID: "v2", UserID: "u1", CreatedAt: 3},
	)
	r := New(s, "vs:")

	if err := r.DetachVideo(context.Background(), "v1"); err != nil {
		t.Fatalf("DetachVideo: %v", err)
	}

	must := s.LastQuery().Filters.Must()
	if len(must) != 1 || must[0].Key() != "videoId" || must[0].Values()[0] != "v1" {
		t.Errorf("filter = %v", must)
	}
	if len(s.Batches) != 1 || len(s.Batches[0]) != 2 {
		t.Fatalf("batches = %v", s.Batches)
	}
	for _, key := range []string{"vs:histories:h1", "vs:histories:h2"} {
		var h domain.History
		s.Decode(t, key, &h)
		if h.VideoID != "" || h.UserID == "" {
			t.Errorf("%s = %+v, want video cleared and owner kept", key, h)
		}
	}
	var kept domain.History
	s.Decode(t, "vs:histories:h3", &kept)
	if kept.VideoID != "v2" {
		t.Errorf("unrelated entry changed: %+v", kept)
	}
}

func TestDetachVideo_NothingToDetach(t *testing.T) {
	s := docstoretest.New()
	r := New(s, "vs:")

	if err := r.DetachVideo(context.Background(), "v1"); err != nil {
		t.Fatalf("DetachVideo: %v", err)
	}
	if len(s.Batches) != 0 {
		t.Errorf("unexpected write: %v", s.Batches)
	}
}

func TestDeleteByUser(t *testing.T) {
	s := docstoretest.New()
	seed(t, s,
		domain.History{ID: "h1", Type: domain.HistoryWatch, VideoID: "v1", UserID: "u1"},
		domain.History{ID: "h2", Type: domain.HistorySearch, SearchText: "cats", UserID: "u1"},
		domain.History{ID: "h3", Type: domain.HistoryWatch, VideoID: "v1", UserID: "u2"},
	)
	r := New(s, "vs:")

	n, err := r.DeleteByUser(context.Background(), "u1", domain.HistoryWatch)
	if err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if len(s.Deleted) != 1 || len(s.Deleted[0]) != 1 || s.Deleted[0][0] != "vs:histories:h1" {
		t.Errorf("deleted keys = %v", s.Deleted)
	}
	if !s.Has("vs:histories:h2") || !s.Has("vs:histories:h3") {
		t.Error("other entries must survive")
	}
}

func TestListByUser_NewestFirst(t *testing.T) {
	s := docstoretest.New()
	seed(t, s,
		domain.History{ID: "h1", Type: domain.HistoryWatch, VideoID: "v1", UserID: "u1", CreatedAt: 10},
		domain.History{ID: "h2", Type: domain.HistoryWatch, VideoID: "v2", UserID: "u1", CreatedAt: 30},
		domain.History{ID: "h3", Type: domain.HistoryWatch, VideoID: "v3", UserID: "u1", CreatedAt: 20},
	)
	r := New(s, "vs:")

	items, total, err := r.ListByUser(context.Background(), "u1", domain.HistoryWatch, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(items) != 2 || items[0].ID != "h2" || items[1].ID != "h3" {
		t.Errorf("total = %d items = %+v", total, items)
	}
	q := s.LastQuery()
	if q.IndexName != "vs:histories:idx" || q.SortBy != "createdAt" || !q.SortDesc {
		t.Errorf("query = %+v", q)
	}
}
