package analyzer

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/shinyvision/vimagento/internal/php"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Any analyzer may implement this contract. The provider interfaces below are
// optional and checked with a type assertion by the server.
type Analyzer interface {
	// Gets called by state.SetDocument when our code changes
	Changed(code []byte, change *sitter.InputEdit) error
	// When a document is closed. Wanting to close the tree-sitter tree
	Close()
}

type DefinitionProvider interface {
	OnDefinition(pos protocol.Position) ([]protocol.Location, error)
}

type CompletionProvider interface {
	OnCompletion(pos protocol.Position) ([]protocol.CompletionItem, error)
}

type CodeActionProvider interface {
	OnCodeAction(params *protocol.CodeActionParams) ([]protocol.CodeAction, error)
}

// ProjectAware analyzers navigate the project's classes and modules.
type ProjectAware interface {
	SetSymbols(symbols Symbols)
	SetModules(modules Modules)
}

// StoreAware analyzers share their parsed document with the PHP document store.
type StoreAware interface {
	SetDocumentStore(store *php.DocumentStore)
	SetDocumentPath(path string)
}

// Symbols is the part of the PHP resolver the analyzers navigate with.
type Symbols interface {
	ResolveClass(fqn string) (php.ClassSymbol, bool)
	FindMethods(fqn, contains string) []php.MethodSymbol
}

// Modules lists the module names known to the project.
type Modules interface {
	AllModuleNames() []string
}

// Commands that analyzers hand out to the client. The server executes them.
const (
	CommandCreatePlugin       = "vimagento.createPlugin"
	CommandNewGraphQlResolver = "vimagento.newGraphQlResolver"
)
