package principal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	changed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &Principal{ID: NewID(), Username: "testUser", LastCredentialChange: &changed}

	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	byName, err := s.FindByUsername(ctx, "testUser")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if byName.ID != p.ID {
		t.Errorf("ID = %q, want %q", byName.ID, p.ID)
	}

	byID, err := s.FindByID(ctx, p.ID)
	if err != nil || byID.Username != "testUser" {
		t.Fatalf("FindByID = %+v, %v", byID, err)
	}

	// Returned records are copies.
	*byID.LastCredentialChange = changed.Add(time.Hour)
	again, _ := s.FindByID(ctx, p.ID)
	if !again.LastCredentialChange.Equal(changed) {
		t.Error("mutating a returned principal changed the store")
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, err := s.FindByUsername(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByUsername err = %v, want ErrNotFound", err)
	}
	if _, err := s.FindByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_UsernameUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Save(ctx, &Principal{ID: "1", Username: "alice"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, &Principal{ID: "2", Username: "alice"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username err = %v, want ErrUsernameTaken", err)
	}
	if err := s.Save(ctx, &Principal{Username: "bob"}); err == nil {
		t.Error("expected save without id to fail")
	}
}

func TestMemoryStore_Rename(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Save(ctx, &Principal{ID: "1", Username: "old"})
	if err := s.Save(ctx, &Principal{ID: "1", Username: "new"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.FindByUsername(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Error("old username should be released")
	}
	if p, err := s.FindByUsername(ctx, "new"); err != nil || p.ID != "1" {
		t.Errorf("FindByUsername(new) = %+v, %v", p, err)
	}
}

func TestClone_Nil(t *testing.T) {
	var p *Principal
	if p.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestNewID_Unique(t *testing.T) {
	if NewID() == NewID() {
		t.Error("ids should differ")
	}
}
