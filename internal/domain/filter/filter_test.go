package filter

import "testing"

func TestNew_IsEmpty(t *testing.T) {
	e := New()
	if !e.IsEmpty() {
		t.Fatal("new expression should be empty")
	}
	if e.MatchesNone() {
		t.Fatal("new expression should match everything")
	}
}

func TestEq_IgnoresEmptyValue(t *testing.T) {
	e := New().Eq("categoryId", "")
	if !e.IsEmpty() {
		t.Fatalf("expected empty expression, got %d conditions", e.Len())
	}
}

func TestBuilder_DoesNotMutateReceiver(t *testing.T) {
	base := New().Eq("status", "public")
	a := base.Eq("userId", "u1")
	b := base.NotEq("id", "v1")

	if base.Len() != 1 {
		t.Errorf("base Len = %d, want 1", base.Len())
	}
	if len(a.Must()) != 2 || len(a.MustNot()) != 0 {
		t.Errorf("a = must %d, mustNot %d", len(a.Must()), len(a.MustNot()))
	}
	if len(b.Must()) != 1 || len(b.MustNot()) != 1 {
		t.Errorf("b = must %d, mustNot %d", len(b.Must()), len(b.MustNot()))
	}
}

func TestIn(t *testing.T) {
	e := New().In("userId", "a", "b", "c")
	if len(e.Must()) != 1 {
		t.Fatalf("Must len = %d, want 1", len(e.Must()))
	}
	c := e.Must()[0]
	if c.Key() != "userId" || len(c.Values()) != 3 {
		t.Errorf("condition = %s %v", c.Key(), c.Values())
	}
}

func TestIn_NoValuesMatchesNone(t *testing.T) {
	e := New().Eq("status", "public").In("userId")
	if !e.MatchesNone() {
		t.Fatal("expected MatchesNone")
	}
	if e.IsEmpty() {
		t.Fatal("a match-none expression is not empty")
	}
	if !e.Eq("x", "y").MatchesNone() {
		t.Fatal("MatchesNone must survive further builder calls")
	}
}

func TestMaxConditions(t *testing.T) {
	e := New()
	for i := 0; i < MaxConditions+5; i++ {
		e = e.Eq("k", "v")
	}
	if e.Len() != MaxConditions {
		t.Errorf("Len = %d, want %d", e.Len(), MaxConditions)
	}
}
