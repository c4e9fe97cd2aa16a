package analyzer

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/shinyvision/vimagento/internal/magento"
	"github.com/shinyvision/vimagento/internal/php"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type phpAnalyzer struct {
	mu       sync.RWMutex
	doc      *php.Document
	docStore *php.DocumentStore
	path     string
}

func NewPHPAnalyzer() Analyzer {
	return &phpAnalyzer{doc: php.NewDocument()}
}

func (a *phpAnalyzer) Changed(code []byte, change *sitter.InputEdit) error {
	if err := a.doc.Update(code, change); err != nil {
		return err
	}
	a.mu.RLock()
	path := a.path
	store := a.docStore
	a.mu.RUnlock()
	if store != nil && path != "" {
		store.RegisterOpen(path, a.doc)
	}
	return nil
}

func (a *phpAnalyzer) Close() {
	a.mu.Lock()
	path := a.path
	store := a.docStore
	a.mu.Unlock()
	if store != nil && path != "" {
		store.Release(path, a.doc)
	}
	a.doc.Close()
}

func (a *phpAnalyzer) SetDocumentPath(path string) {
	clean := path
	if clean != "" {
		clean = filepath.Clean(clean)
	}
	a.mu.Lock()
	a.path = clean
	store := a.docStore
	a.mu.Unlock()
	if store != nil && clean != "" {
		store.RegisterOpen(clean, a.doc)
	}
}

func (a *phpAnalyzer) SetDocumentStore(store *php.DocumentStore) {
	a.mu.Lock()
	a.docStore = store
	path := a.path
	a.mu.Unlock()
	if store != nil && path != "" {
		store.RegisterOpen(path, a.doc)
	}
}

// PluginCommandArgs is the argument of the createPlugin command offered on
// interceptable methods.
type PluginCommandArgs struct {
	TargetClass  string `json:"targetClass"`
	TargetMethod string `json:"targetMethod"`
	Type         string `json:"type"`
}

// OnCodeAction offers a plugin for every interception type when the caret is
// on a method Magento can intercept.
func (a *phpAnalyzer) OnCodeAction(params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	class, method, ok := a.methodAt(params.Range.Start)
	if !ok || !interceptable(class, method) {
		return nil, nil
	}

	kind := protocol.CodeActionKindRefactor
	actions := make([]protocol.CodeAction, 0, len(magento.PluginTypes))
	for _, t := range magento.PluginTypes {
		title := "Create " + string(t) + " plugin for " + class.Name + "::" + method.Name
		actions = append(actions, protocol.CodeAction{
			Title: title,
			Kind:  &kind,
			Command: &protocol.Command{
				Title:   title,
				Command: CommandCreatePlugin,
				Arguments: []any{PluginCommandArgs{
					TargetClass:  class.FQN,
					TargetMethod: method.Name,
					Type:         string(t),
				}},
			},
		})
	}
	return actions, nil
}

func (a *phpAnalyzer) methodAt(pos protocol.Position) (php.ClassInfo, php.MethodInfo, bool) {
	index := a.doc.Index()
	line := int(pos.Line) + 1
	class, ok := index.ClassAtLine(int(pos.Line))
	if !ok {
		return php.ClassInfo{}, php.MethodInfo{}, false
	}
	for _, m := range class.Methods {
		if line >= m.StartLine && line <= m.EndLine {
			return class, m, true
		}
	}
	return php.ClassInfo{}, php.MethodInfo{}, false
}

func interceptable(class php.ClassInfo, method php.MethodInfo) bool {
	if class.Final || class.Kind == php.KindTrait || class.Kind == php.KindEnum {
		return false
	}
	if method.Visibility != "public" || method.Static || method.Final {
		return false
	}
	return !strings.EqualFold(method.Name, "__construct")
}
