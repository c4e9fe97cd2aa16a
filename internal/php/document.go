package php

import (
	"context"
	"sync"

	phpforest "github.com/alexaandru/go-sitter-forest/php"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Document maintains a parsed PHP syntax tree together with its index.
// It owns the tree-sitter parser.
type Document struct {
	parser  *sitter.Parser
	mu      sync.RWMutex
	tree    *sitter.Tree
	content []byte
	index   Index
}

// NewDocument constructs a Document ready to track a PHP source file.
func NewDocument() *Document {
	parser := sitter.NewParser()
	lang := sitter.NewLanguage(phpforest.GetLanguage())
	_ = parser.SetLanguage(lang)
	return &Document{parser: parser}
}

// Update notifies the document about new file contents. If change is nil, the file
// has been replaced entirely. Incremental edits can be provided via change.
func (d *Document) Update(code []byte, change *sitter.InputEdit) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.content = code
	if d.tree != nil && change != nil {
		d.tree.Edit(*change)
	}
	oldTree := d.tree
	if change == nil {
		oldTree = nil
	}

	newTree, err := d.parser.ParseString(context.Background(), oldTree, code)
	if err != nil {
		return err
	}
	if d.tree != nil {
		d.tree.Close()
	}
	d.tree = newTree
	d.index = buildIndex(newTree, code)
	return nil
}

// Close releases resources owned by the document.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
	d.content = nil
}

// Read executes the provided function while holding a read lock on the document.
// The callback must not store the tree or content beyond its scope.
func (d *Document) Read(fn func(tree *sitter.Tree, content []byte, index Index)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.tree, d.content, d.index)
}

// Index returns the most recently computed index.
func (d *Document) Index() Index {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.index
}
