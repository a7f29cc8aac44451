package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/vidshare/internal/db"
)

type mockStore struct {
	counts   map[string]int64
	expireNX []bool
	ttl      time.Duration
	ttlErr   error
	incrErr  error
}

func newMockStore() *mockStore {
	return &mockStore{counts: map[string]int64{}}
}

func (m *mockStore) IncrBy(_ context.Context, key string, val int64) (int64, error) {
	if m.incrErr != nil {
		return 0, m.incrErr
	}
	m.counts[key] += val
	return m.counts[key], nil
}

func (m *mockStore) Expire(_ context.Context, _ string, _ time.Duration, nx bool) error {
	m.expireNX = append(m.expireNX, nx)
	return nil
}

func (m *mockStore) TTL(context.Context, string) (time.Duration, error) {
	return m.ttl, m.ttlErr
}

func TestAllow_WithinLimit(t *testing.T) {
	s := newMockStore()
	l := New(s, "vs:", "login", 2, time.Minute)

	for i := range 2 {
		ok, retry, err := l.Allow(context.Background(), "1.2.3.4")
		if err != nil {
			t.Fatalf("hit %d: %v", i, err)
		}
		if !ok || retry != 0 {
			t.Fatalf("hit %d: ok=%v retry=%v", i, ok, retry)
		}
	}
	if s.counts["vs:ratelimit:login:1.2.3.4"] != 2 {
		t.Errorf("counts = %v", s.counts)
	}
	for _, nx := range s.expireNX {
		if !nx {
			t.Error("expected EXPIRE NX")
		}
	}
}

func TestAllow_Exhausted(t *testing.T) {
	s := newMockStore()
	s.ttl = 30 * time.Second
	l := New(s, "vs:", "login", 1, time.Minute)

	_, _, _ = l.Allow(context.Background(), "ip")
	ok, retry, err := l.Allow(context.Background(), "ip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected rejection")
	}
	if retry != 30*time.Second {
		t.Errorf("retry = %v", retry)
	}
}

func TestAllow_NoExpiryFallsBackToWindow(t *testing.T) {
	s := newMockStore()
	l := New(s, "", "login", 0, time.Minute)

	ok, retry, err := l.Allow(context.Background(), "ip")
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if retry != time.Minute {
		t.Errorf("retry = %v", retry)
	}
}

func TestAllow_KeyVanished(t *testing.T) {
	s := newMockStore()
	s.ttlErr = db.ErrKeyNotFound
	l := New(s, "", "login", 0, time.Minute)

	ok, _, err := l.Allow(context.Background(), "ip")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestAllow_StoreError(t *testing.T) {
	s := newMockStore()
	s.incrErr = errors.New("conn refused")
	l := New(s, "", "login", 5, time.Minute)

	if _, _, err := l.Allow(context.Background(), "ip"); err == nil {
		t.Fatal("expected error")
	}
}
