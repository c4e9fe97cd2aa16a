package php

import (
	"strings"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/shinyvision/vimagento/internal/config"
	"github.com/shinyvision/vimagento/internal/utils"
	"github.com/spf13/afero"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ClassSymbol is a class declaration together with the file declaring it.
type ClassSymbol struct {
	Path  string
	Class ClassInfo
}

// MethodSymbol is a method declaration together with its owner.
type MethodSymbol struct {
	Path     string
	ClassFQN string
	Method   MethodInfo
}

// Location converts the symbol into an LSP location pointing at the method name.
func (m MethodSymbol) Location() protocol.Location {
	return protocol.Location{URI: protocol.DocumentUri(utils.PathToURI(m.Path)), Range: m.Method.Range}
}

// Location converts the symbol into an LSP location pointing at the class name.
func (c ClassSymbol) Location() protocol.Location {
	return protocol.Location{URI: protocol.DocumentUri(utils.PathToURI(c.Path)), Range: c.Class.Range}
}

// Resolver looks PHP classes up through the PSR-4 autoload map and parses
// them with the shared document store.
type Resolver struct {
	fs    afero.Fs
	store *DocumentStore

	mu       sync.RWMutex
	autoload config.AutoloadMap
	root     string
}

func NewResolver(fs afero.Fs, store *DocumentStore) *Resolver {
	return &Resolver{fs: fs, store: store}
}

// Configure replaces the autoload map and workspace root.
func (r *Resolver) Configure(autoload config.AutoloadMap, workspaceRoot string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autoload = autoload
	r.root = workspaceRoot
}

// Store returns the document store backing the resolver.
func (r *Resolver) Store() *DocumentStore {
	return r.store
}

// ClassPath returns the file that should declare fqn according to the autoloader.
func (r *Resolver) ClassPath(fqn string) (string, bool) {
	r.mu.RLock()
	autoload, root := r.autoload, r.root
	r.mu.RUnlock()
	return config.AutoloadResolve(r.fs, normalizeFQN(fqn), autoload, root)
}

// ResolveClass locates the declaration of fqn.
func (r *Resolver) ResolveClass(fqn string) (ClassSymbol, bool) {
	fqn = normalizeFQN(fqn)
	if fqn == "" || r.store == nil {
		return ClassSymbol{}, false
	}
	path, ok := r.ClassPath(fqn)
	if !ok {
		return ClassSymbol{}, false
	}
	doc, err := r.store.Get(path)
	if err != nil {
		return ClassSymbol{}, false
	}
	class, ok := doc.Index().Class(fqn)
	if !ok {
		return ClassSymbol{}, false
	}
	return ClassSymbol{Path: path, Class: class}, true
}

// ClassExists reports whether a declaration for fqn can be found. A file at
// the autoload location counts even if it fails to declare the class.
func (r *Resolver) ClassExists(fqn string) bool {
	_, ok := r.ClassPath(fqn)
	return ok
}

// FindMethods returns every method of fqn whose name contains the given
// fragment. An empty fragment matches all methods.
func (r *Resolver) FindMethods(fqn, contains string) []MethodSymbol {
	class, ok := r.ResolveClass(fqn)
	if !ok {
		return nil
	}
	var out []MethodSymbol
	for _, m := range class.Class.Methods {
		if !strings.Contains(m.Name, contains) {
			continue
		}
		out = append(out, MethodSymbol{Path: class.Path, ClassFQN: class.Class.FQN, Method: m})
	}
	return out
}

// MethodAt returns the class and method declared at pos in the document stored for path.
func MethodAt(store *DocumentStore, path string, pos protocol.Position) (ClassInfo, MethodInfo, bool) {
	if store == nil {
		return ClassInfo{}, MethodInfo{}, false
	}
	doc, err := store.Get(path)
	if err != nil {
		return ClassInfo{}, MethodInfo{}, false
	}

	var (
		class  ClassInfo
		method MethodInfo
		found  bool
	)
	doc.Read(func(tree *sitter.Tree, content []byte, index Index) {
		if tree == nil {
			return
		}
		point, ok := utils.LspPosToPoint(pos, content)
		if !ok {
			return
		}
		node := tree.RootNode().NamedDescendantForPointRange(point, point)
		for cur := node; !cur.IsNull(); cur = cur.Parent() {
			if cur.Type() != "method_declaration" {
				continue
			}
			nameNode := cur.ChildByFieldName("name")
			if nameNode.IsNull() {
				return
			}
			line := int(cur.StartPoint().Row)
			c, ok := index.ClassAtLine(line)
			if !ok {
				return
			}
			m, ok := c.Method(nameNode.Content(content))
			if !ok {
				return
			}
			class, method, found = c, m, true
			return
		}
	})
	return class, method, found
}
