package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
)

func TestPutAndGet(t *testing.T) {
	s := NewStore(time.Hour)

	e := &models.Extraction{ID: "abc", OriginalName: "payroll.pdf"}
	s.Put(e)

	got, ok := s.Get("abc")
	if !ok {
		t.Fatal("Get(abc) not found")
	}
	if got.OriginalName != "payroll.pdf" {
		t.Errorf("OriginalName = %q", got.OriginalName)
	}
	if got.ExpiresAt.IsZero() {
		t.Error("Put did not stamp ExpiresAt")
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) found something")
	}
}

func TestGetExpired(t *testing.T) {
	s := NewStore(time.Hour)

	e := &models.Extraction{ID: "old"}
	s.Put(e)
	// Force expiry without waiting on the sweep.
	e.ExpiresAt = time.Now().Add(-time.Second)

	if _, ok := s.Get("old"); ok {
		t.Error("Get returned an expired extraction")
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	s := NewStore(time.Hour)

	keyA, keyB := "key-a", "key-b"
	base := time.Now()
	for i := 0; i < 3; i++ {
		owner := &keyA
		if i == 1 {
			owner = &keyB
		}
		s.Put(&models.Extraction{
			ID:        fmt.Sprintf("e%d", i),
			APIKeyID:  owner,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	all := s.List(nil, 10)
	if len(all) != 3 {
		t.Fatalf("List(nil) = %d entries, want 3", len(all))
	}
	// Newest first
	if all[0].ID != "e2" || all[2].ID != "e0" {
		t.Errorf("List order = %s,%s,%s", all[0].ID, all[1].ID, all[2].ID)
	}

	mine := s.List(&keyA, 10)
	if len(mine) != 2 {
		t.Fatalf("List(key-a) = %d entries, want 2", len(mine))
	}
	for _, e := range mine {
		if e.APIKeyID == nil || *e.APIKeyID != keyA {
			t.Errorf("List(key-a) returned extraction owned by %v", e.APIKeyID)
		}
	}
}

func TestListLimit(t *testing.T) {
	s := NewStore(time.Hour)
	for i := 0; i < 30; i++ {
		s.Put(&models.Extraction{ID: fmt.Sprintf("e%d", i), CreatedAt: time.Now()})
	}

	if got := len(s.List(nil, 5)); got != 5 {
		t.Errorf("List(limit=5) = %d entries", got)
	}
	// Zero limit falls back to the default cap.
	if got := len(s.List(nil, 0)); got != 20 {
		t.Errorf("List(limit=0) = %d entries, want 20", got)
	}
}

func TestDelete(t *testing.T) {
	s := NewStore(time.Hour)
	s.Put(&models.Extraction{ID: "gone"})
	s.Delete("gone")

	if _, ok := s.Get("gone"); ok {
		t.Error("extraction still present after Delete")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
