package store

import (
	"context"
	"testing"
)

// newTestStore opens an in-memory database, lost on close.
func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, KeyUser, []byte(`{"name":"Asha"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := s.Get(ctx, KeyUser)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get: key absent after Set")
	}
	if string(got) != `{"name":"Asha"}` {
		t.Errorf("Get = %q, want the stored value", got)
	}
}

func TestGetAbsentKey(t *testing.T) {
	s := newTestStore(t)

	got, ok, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || got != nil {
		t.Errorf("Get(absent) = (%q, %v), want (nil, false)", got, ok)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Set(ctx, KeyEnrollments, []byte(`["1"]`))
	if err := s.Set(ctx, KeyEnrollments, []byte(`["1","2"]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, _, err := s.Get(ctx, KeyEnrollments)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `["1","2"]` {
		t.Errorf("Get = %q, want the second value", got)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Set(ctx, KeyUser, []byte(`{}`))
	if err := s.Delete(ctx, KeyUser); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, ok, err := s.Get(ctx, KeyUser)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("key still present after Delete")
	}

	// Deleting an absent key succeeds.
	if err := s.Delete(ctx, KeyUser); err != nil {
		t.Errorf("Delete(absent) = %v, want nil", err)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Set(ctx, KeyUser, []byte(`{}`))
	s.Set(ctx, KeyEnrollments, []byte(`[]`))
	s.Set(ctx, KeyCourses, []byte(`[]`))

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	for _, key := range []string{KeyUser, KeyEnrollments, KeyCourses} {
		if _, ok, _ := s.Get(ctx, key); ok {
			t.Errorf("slot %q still present after Clear", key)
		}
	}
}
