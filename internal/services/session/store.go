// Package session holds extraction results for the lifetime of a session.
//
// Payroll data is deliberately never persisted: results live in a guarded
// map, expire after a TTL, and disappear on process shutdown. A background
// sweep reclaims expired entries so long-running processes don't leak.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
)

// Store is an in-memory, TTL-bounded store of extraction results.
// Safe for concurrent use.
type Store struct {
	// Go Pattern: sync.RWMutex allows multiple concurrent readers but
	// exclusive writers — reads vastly outnumber writes here.
	mu    sync.RWMutex
	items map[string]*models.Extraction
	ttl   time.Duration
}

// NewStore creates a session store whose entries expire after ttl.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		items: make(map[string]*models.Extraction),
		ttl:   ttl,
	}

	// Start background cleanup goroutine
	go s.cleanup()

	return s
}

// TTL returns the configured entry lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Put stores an extraction and stamps its expiry.
func (s *Store) Put(e *models.Extraction) {
	e.ExpiresAt = time.Now().Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[e.ID] = e
}

// Get returns an extraction by ID, or false if it is unknown or expired.
// Expired entries are treated as gone even before the sweep collects them.
func (s *Store) Get(id string) (*models.Extraction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[id]
	if !ok || time.Now().After(e.ExpiresAt) {
		return nil, false
	}
	return e, true
}

// List returns unexpired extractions, newest first, optionally filtered to
// one API key, capped at limit.
func (s *Store) List(apiKeyID *string, limit int) []*models.Extraction {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	s.mu.RLock()
	now := time.Now()
	results := make([]*models.Extraction, 0, len(s.items))
	for _, e := range s.items {
		if now.After(e.ExpiresAt) {
			continue
		}
		if apiKeyID != nil && (e.APIKeyID == nil || *e.APIKeyID != *apiKeyID) {
			continue
		}
		results = append(results, e)
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Delete removes an extraction by ID.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// Len reports the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// cleanup periodically removes expired entries to prevent memory leaks.
func (s *Store) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for id, e := range s.items {
			if now.After(e.ExpiresAt) {
				delete(s.items, id)
			}
		}
		s.mu.Unlock()
	}
}
