package state

import (
	"sync"

	"github.com/shinyvision/vimagento/internal/analyzer"
	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Document represents a document in the state.
type Document struct {
	URI        protocol.DocumentUri
	LanguageID string
	Analyzer   analyzer.Analyzer

	mu   sync.RWMutex
	Text string
}

// Content returns the current text of the document.
func (d *Document) Content() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.Text
}

// ApplyChanges applies didChange events in order. Ranged events replace the
// covered text; events without a range replace the whole document.
func (d *Document) ApplyChanges(changes []any) {
	text := d.Content()
	for _, c := range changes {
		switch ch := c.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = ch.Text
		case protocol.TextDocumentContentChangeEvent:
			if ch.Range == nil {
				text = ch.Text
				continue
			}
			start := ch.Range.Start.IndexIn(text)
			end := ch.Range.End.IndexIn(text)
			if start >= 0 && end >= start && end <= len(text) {
				text = text[:start] + ch.Text + text[end:]
			}
		}
	}
	d.setText(text)
}

func (d *Document) setText(text string) {
	d.mu.Lock()
	d.Text = text
	d.mu.Unlock()
	if d.Analyzer == nil {
		return
	}
	if err := d.Analyzer.Changed([]byte(text), nil); err != nil {
		commonlog.GetLoggerf("vimagento.state").Errorf("could not analyze %s: %v", d.URI, err)
	}
}
