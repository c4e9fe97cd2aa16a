package state

import (
	"sync"

	"github.com/shinyvision/vimagento/internal/analyzer"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp/protocol_3_16"
)

// State manages the document state for the language server.
type State struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*Document
}

func NewState() *State {
	return &State{
		docs: make(map[protocol.DocumentUri]*Document),
	}
}

// GetDocument retrieves a document from the state.
func (s *State) GetDocument(uri protocol.DocumentUri) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

// OpenDocument adds a document and feeds its text to the analyzer. A document
// already open under uri is closed first.
func (s *State) OpenDocument(uri protocol.DocumentUri, languageID, text string, a analyzer.Analyzer) *Document {
	doc := &Document{URI: uri, LanguageID: languageID, Text: text, Analyzer: a}
	if a != nil {
		if err := a.Changed([]byte(text), nil); err != nil {
			commonlog.GetLoggerf("vimagento.state").Errorf("could not analyze %s: %v", uri, err)
		}
	}

	s.mu.Lock()
	previous := s.docs[uri]
	s.docs[uri] = doc
	s.mu.Unlock()

	if previous != nil && previous.Analyzer != nil {
		previous.Analyzer.Close()
	}
	return doc
}

// SetDocument replaces the text of an open document.
func (s *State) SetDocument(uri protocol.DocumentUri, text string) bool {
	s.mu.RLock()
	doc, ok := s.docs[uri]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	doc.setText(text)
	return true
}

// DeleteDocument removes a document from the state and closes its analyzer.
func (s *State) DeleteDocument(uri protocol.DocumentUri) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	delete(s.docs, uri)
	s.mu.Unlock()
	if ok && doc.Analyzer != nil {
		doc.Analyzer.Close()
	}
}
