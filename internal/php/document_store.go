package php

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

type storedDocument struct {
	path   string
	doc    *Document
	isOpen bool
}

// DocumentStore maintains a bounded set of parsed PHP documents.
type DocumentStore struct {
	fs      afero.Fs
	mu      sync.Mutex
	max     int
	entries []*storedDocument
	index   map[string]*storedDocument
}

// NewDocumentStore constructs a store with the provided maximum size.
func NewDocumentStore(fs afero.Fs, max int) *DocumentStore {
	if max <= 0 {
		max = 1000
	}
	return &DocumentStore{
		fs:      fs,
		max:     max,
		entries: make([]*storedDocument, 0, max),
		index:   make(map[string]*storedDocument),
	}
}

// RegisterOpen registers a document as currently open. The document will not be
// evicted until it is released.
func (s *DocumentStore) RegisterOpen(path string, doc *Document) {
	if doc == nil {
		return
	}
	path = normalizePath(path)
	if path == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.index[path]; ok {
		entry.doc = doc
		entry.isOpen = true
		s.moveToEndLocked(entry)
		return
	}

	entry := &storedDocument{
		path:   path,
		doc:    doc,
		isOpen: true,
	}
	s.entries = append(s.entries, entry)
	s.index[path] = entry
	s.ensureCapacityLocked()
}

// Release drops the entry of path when it still holds doc. An entry that was
// registered again with another document stays open.
func (s *DocumentStore) Release(path string, doc *Document) bool {
	path = normalizePath(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.index[path]
	if !ok || entry.doc != doc {
		return false
	}
	s.removeLocked(entry)
	return true
}

// Invalidate drops a cached document that is not open so the next Get reads
// it from disk again.
func (s *DocumentStore) Invalidate(path string) {
	path = normalizePath(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.index[path]
	if !ok || entry.isOpen {
		return
	}
	s.removeLocked(entry)
}

// Get retrieves or loads (and caches) a document for the given path.
func (s *DocumentStore) Get(path string) (*Document, error) {
	path = normalizePath(path)
	if path == "" {
		return nil, errors.New("empty path")
	}

	s.mu.Lock()
	if entry, ok := s.index[path]; ok && entry.doc != nil {
		doc := entry.doc
		s.moveToEndLocked(entry)
		s.mu.Unlock()
		return doc, nil
	}
	s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, err
	}

	doc := NewDocument()
	if err := doc.Update(data, nil); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.index[path]; ok {
		if entry.doc == nil {
			entry.doc = doc
		} else {
			doc.Close()
		}
		s.moveToEndLocked(entry)
		return entry.doc, nil
	}

	entry := &storedDocument{
		path: path,
		doc:  doc,
	}
	s.entries = append(s.entries, entry)
	s.index[path] = entry
	s.ensureCapacityLocked()
	return doc, nil
}

// Len returns the number of cached documents.
func (s *DocumentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *DocumentStore) moveToEndLocked(entry *storedDocument) {
	if len(s.entries) == 0 {
		return
	}
	idx := -1
	for i, e := range s.entries {
		if e == entry {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(s.entries)-1 {
		return
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.entries = append(s.entries, entry)
}

func (s *DocumentStore) removeLocked(entry *storedDocument) {
	for i, e := range s.entries {
		if e == entry {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	delete(s.index, entry.path)
	if entry.doc != nil {
		entry.doc.Close()
	}
}

func (s *DocumentStore) ensureCapacityLocked() {
	for len(s.entries) > s.max {
		evicted := false
		for _, entry := range s.entries {
			if entry.isOpen {
				continue
			}
			s.removeLocked(entry)
			evicted = true
			break
		}
		if !evicted {
			break
		}
	}
}

func normalizePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
