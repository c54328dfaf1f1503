package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ironsheep/pixel-tools-mcp/internal/editor"
)

// ErrUnknownDocument is returned for a document ID the store does not hold.
var ErrUnknownDocument = errors.New("unknown document")

// DocumentStore holds the open documents of a server session, keyed by a
// generated ID.
//
// DocumentStore is safe for concurrent use by multiple goroutines. The map
// is guarded by an RWMutex; each document carries its own mutex so calls on
// different documents do not block each other. Editors themselves are not
// safe for concurrent use and must only be touched through With.
type DocumentStore struct {
	mu     sync.RWMutex
	docs   map[string]*openDocument
	nextID int
}

type openDocument struct {
	mu sync.Mutex
	ed *editor.Editor
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]*openDocument),
	}
}

// Add registers ed and returns its new ID.
func (s *DocumentStore) Add(ed *editor.Editor) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("doc-%d", s.nextID)
	s.docs[id] = &openDocument{ed: ed}
	return id
}

// With runs fn with exclusive access to the editor of document id.
func (s *DocumentStore) With(id string, fn func(ed *editor.Editor) (interface{}, error)) (interface{}, error) {
	s.mu.RLock()
	d, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, id)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.ed)
}

// Close removes a document. It reports whether the ID was known.
func (s *DocumentStore) Close(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	return true
}

// IDs lists the open document IDs in sorted order.
func (s *DocumentStore) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Len returns the number of open documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
