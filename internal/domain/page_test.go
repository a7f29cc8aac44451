package domain

import "testing"

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name              string
		page, limit       int
		wantPage, wantLim int
	}{
		{"defaults", 0, 0, 1, 10},
		{"negative page", -3, 5, 1, 5},
		{"over max", 2, 500, 2, 100},
		{"in range", 3, 25, 3, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageRequest(tt.page, tt.limit, 10, 100)
			if got.Page != tt.wantPage || got.Limit != tt.wantLim {
				t.Errorf("got %+v, want page=%d limit=%d", got, tt.wantPage, tt.wantLim)
			}
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	if off := (PageRequest{Page: 3, Limit: 12}).Offset(); off != 24 {
		t.Errorf("offset = %d, want 24", off)
	}
}

func TestPage_Navigation(t *testing.T) {
	tests := []struct {
		name             string
		page, limit, tot int
		next, prev       bool
		pages            int
	}{
		{"first of three", 1, 10, 25, true, false, 3},
		{"middle", 2, 10, 25, true, true, 3},
		{"last", 3, 10, 25, false, true, 3},
		{"exact fit", 1, 10, 10, false, false, 1},
		{"out of range", 9, 10, 25, false, true, 3},
		{"empty", 1, 10, 0, false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage[int](nil, tt.tot, PageRequest{Page: tt.page, Limit: tt.limit})
			if p.Items == nil {
				t.Fatal("items must never be nil")
			}
			if p.HasNext() != tt.next {
				t.Errorf("HasNext = %v, want %v", p.HasNext(), tt.next)
			}
			if p.HasPrev() != tt.prev {
				t.Errorf("HasPrev = %v, want %v", p.HasPrev(), tt.prev)
			}
			if p.TotalPages() != tt.pages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages(), tt.pages)
			}
		})
	}
}

func TestMapPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 7, PageRequest{Page: 2, Limit: 2})
	q := MapPage(p, func(i int) string { return string(rune('a' + i)) })
	if q.Total != 7 || q.Page != 2 || q.Limit != 2 {
		t.Errorf("position not kept: %+v", q)
	}
	if q.Items[0] != "b" || q.Items[1] != "c" {
		t.Errorf("items = %v", q.Items)
	}
}
