package analyzer

import (
	"context"
	"sort"
	"strings"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/shinyvision/vimagento/internal/naming"
	"github.com/shinyvision/vimagento/internal/utils"
	"github.com/shinyvision/vimagento/internal/xmldoc"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Attributes holding a method of the class named by a sibling attribute,
// keyed by element name: crontab.xml jobs and webapi.xml services.
var methodOwners = map[string]string{
	"job":     "instance",
	"service": "class",
}

// Attributes holding a class name, keyed by element name.
var classAttributes = map[string][]string{
	"type":        {"name"},
	"plugin":      {"type"},
	"preference":  {"for", "type"},
	"virtualType": {"type"},
	"job":         {"instance"},
	"observer":    {"instance"},
	"service":     {"class"},
	"consumer":    {"handler"},
}

type xmlAnalyzer struct {
	parser  *sitter.Parser
	mu      sync.RWMutex
	tree    *sitter.Tree
	content []byte
	symbols Symbols
	modules Modules
}

func NewXMLAnalyzer() Analyzer {
	return &xmlAnalyzer{parser: xmldoc.NewParser()}
}

func (a *xmlAnalyzer) SetSymbols(symbols Symbols) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.symbols = symbols
}

func (a *xmlAnalyzer) SetModules(modules Modules) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.modules = modules
}

func (a *xmlAnalyzer) Changed(code []byte, change *sitter.InputEdit) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.content = code
	if a.tree != nil && change != nil {
		a.tree.Edit(*change)
	}
	oldTree := a.tree
	if change == nil {
		oldTree = nil
	}
	newTree, err := a.parser.ParseString(context.Background(), oldTree, code)
	if err != nil {
		return err
	}
	if a.tree != nil {
		a.tree.Close()
	}
	a.tree = newTree
	return nil
}

func (a *xmlAnalyzer) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tree != nil {
		a.tree.Close()
		a.tree = nil
	}
}

// attributeContext is the attribute under the caret together with its element.
type attributeContext struct {
	attr    xmldoc.Attribute
	element sitter.Node
	name    string
	prefix  string
}

func (a *xmlAnalyzer) attributeAt(pos protocol.Position) (attributeContext, bool) {
	attr, ok := xmldoc.AttributeAt(a.tree, a.content, pos)
	if !ok {
		return attributeContext{}, false
	}
	el := xmldoc.NearestElement(attr.Node)
	if el.IsNull() {
		return attributeContext{}, false
	}
	caret := utils.LspPosToByteOffset(a.content, pos)
	return attributeContext{
		attr:    attr,
		element: el,
		name:    xmldoc.ElementName(el, a.content),
		prefix:  string(a.content[attr.ValueStart:caret]),
	}, true
}

func (a *xmlAnalyzer) OnDefinition(pos protocol.Position) ([]protocol.Location, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.symbols == nil {
		return nil, nil
	}
	ctx, ok := a.attributeAt(pos)
	if !ok || strings.TrimSpace(ctx.attr.Value) == "" {
		return nil, nil
	}

	if owner, ok := methodOwners[ctx.name]; ok && ctx.attr.Name == "method" {
		class, ok := xmldoc.Attr(ctx.element, a.content, owner)
		if !ok {
			return nil, nil
		}
		var locations []protocol.Location
		for _, m := range a.symbols.FindMethods(class, strings.TrimSpace(ctx.attr.Value)) {
			locations = append(locations, m.Location())
		}
		return locations, nil
	}

	for _, name := range classAttributes[ctx.name] {
		if name != ctx.attr.Name {
			continue
		}
		if class, ok := a.symbols.ResolveClass(ctx.attr.Value); ok {
			return []protocol.Location{class.Location()}, nil
		}
	}
	return nil, nil
}

func (a *xmlAnalyzer) OnCompletion(pos protocol.Position) ([]protocol.CompletionItem, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ctx, ok := a.attributeAt(pos)
	if !ok {
		return nil, nil
	}

	if owner, ok := methodOwners[ctx.name]; ok && ctx.attr.Name == "method" {
		return a.methodCompletions(ctx, owner), nil
	}
	if ctx.name == "module" && ctx.attr.Name == "name" {
		parent := xmldoc.ParentElement(ctx.element)
		if xmldoc.ElementName(parent, a.content) == "sequence" {
			return a.moduleCompletions(ctx.prefix), nil
		}
	}
	return nil, nil
}

func (a *xmlAnalyzer) methodCompletions(ctx attributeContext, owner string) []protocol.CompletionItem {
	if a.symbols == nil {
		return nil
	}
	class, ok := xmldoc.Attr(ctx.element, a.content, owner)
	if !ok {
		return nil
	}
	kind := protocol.CompletionItemKindMethod
	detail := naming.NormalizeFQN(class)
	items := []protocol.CompletionItem{}
	for _, m := range a.symbols.FindMethods(class, ctx.prefix) {
		if m.Method.Visibility != "public" || m.Method.Static || strings.HasPrefix(m.Method.Name, "__") {
			continue
		}
		items = append(items, protocol.CompletionItem{
			Label:  m.Method.Name,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items
}

func (a *xmlAnalyzer) moduleCompletions(prefix string) []protocol.CompletionItem {
	if a.modules == nil {
		return nil
	}
	kind := protocol.CompletionItemKindModule
	items := []protocol.CompletionItem{}
	for _, name := range a.modules.AllModuleNames() {
		if strings.Contains(strings.ToLower(name), strings.ToLower(prefix)) {
			items = append(items, protocol.CompletionItem{Label: name, Kind: &kind})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}
