package server

import (
	"path/filepath"
	"strings"

	"github.com/shinyvision/vimagento/internal/analyzer"
	"github.com/shinyvision/vimagento/internal/config"
	"github.com/shinyvision/vimagento/internal/state"
	"github.com/shinyvision/vimagento/internal/utils"
	"github.com/shinyvision/vimagento/internal/workspace"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
)

const lsName = "vimagento"

var version = "0.1.0"

// Server is the language server.
type Server struct {
	config    *config.Config
	fs        afero.Fs
	workspace *workspace.Workspace
	state     *state.State
	h         protocol.Handler
}

// NewServer creates a new server. cfg holds the values read from the command
// line and config file; initializationOptions override them.
func NewServer(cfg *config.Config, fs afero.Fs) *Server {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	s := &Server{
		config: cfg,
		fs:     fs,
		state:  state.NewState(),
	}
	s.workspace = workspace.New(fs, cfg)
	s.h = protocol.Handler{
		Initialize:              s.initialize,
		Initialized:             s.initialized,
		Shutdown:                s.shutdown,
		SetTrace:                s.setTrace,
		TextDocumentDidOpen:     s.didOpen,
		TextDocumentDidChange:   s.didChange,
		TextDocumentDidSave:     s.didSave,
		TextDocumentDidClose:    s.didClose,
		TextDocumentDefinition:  s.onDefinition,
		TextDocumentCompletion:  s.onCompletion,
		TextDocumentCodeAction:  s.onCodeAction,
		WorkspaceExecuteCommand: s.onExecuteCommand,
	}
	return s
}

// Run runs the language server.
func (s *Server) Run() error {
	server := glspserver.NewServer(&s.h, lsName, false)
	return server.RunStdio()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	caps := s.h.CreateServerCapabilities()
	openClose := true
	change := protocol.TextDocumentSyncKindIncremental
	caps.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
		Save:      true,
	}
	caps.DefinitionProvider = true
	caps.CodeActionProvider = true
	caps.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"\"", "_"},
	}
	caps.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{analyzer.CommandCreatePlugin, analyzer.CommandNewGraphQlResolver},
	}

	if params.RootURI != nil {
		s.config.WorkspaceRoot = utils.UriToPath(*params.RootURI)
	} else if len(params.WorkspaceFolders) > 0 {
		s.config.WorkspaceRoot = utils.UriToPath(params.WorkspaceFolders[0].URI)
	}

	if params.InitializationOptions != nil {
		if m, ok := params.InitializationOptions.(map[string]any); ok {
			s.config.ApplyOptions(m)
		}
	}

	s.workspace = workspace.New(s.fs, s.config)
	s.workspace.Load()

	return protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error { return nil }
func (s *Server) shutdown(_ *glsp.Context) error                                   { return nil }
func (s *Server) setTrace(_ *glsp.Context, p *protocol.SetTraceParams) error {
	protocol.SetTraceValue(p.Value)
	return nil
}

func (s *Server) didOpen(_ *glsp.Context, p *protocol.DidOpenTextDocumentParams) error {
	path := utils.UriToPath(string(p.TextDocument.URI))
	languageID := languageFor(p.TextDocument.LanguageID, path)
	s.state.OpenDocument(p.TextDocument.URI, languageID, p.TextDocument.Text, s.analyzerFor(languageID, path))
	return nil
}

func (s *Server) didChange(_ *glsp.Context, p *protocol.DidChangeTextDocumentParams) error {
	doc, ok := s.state.GetDocument(p.TextDocument.URI)
	if !ok {
		return nil
	}
	doc.ApplyChanges(p.ContentChanges)
	return nil
}

// didSave rescans the modules when a module.xml is saved.
func (s *Server) didSave(_ *glsp.Context, p *protocol.DidSaveTextDocumentParams) error {
	path := utils.UriToPath(string(p.TextDocument.URI))
	if filepath.Base(path) == "module.xml" {
		s.workspace.Load()
	}
	return nil
}

func (s *Server) didClose(_ *glsp.Context, p *protocol.DidCloseTextDocumentParams) error {
	s.state.DeleteDocument(p.TextDocument.URI)
	return nil
}

func (s *Server) analyzerFor(languageID, path string) analyzer.Analyzer {
	var a analyzer.Analyzer
	switch languageID {
	case "php":
		a = analyzer.NewPHPAnalyzer()
	case "xml":
		a = analyzer.NewXMLAnalyzer()
	default:
		return nil
	}
	if sa, ok := a.(analyzer.StoreAware); ok {
		sa.SetDocumentStore(s.workspace.Store)
		sa.SetDocumentPath(path)
	}
	if pa, ok := a.(analyzer.ProjectAware); ok {
		pa.SetSymbols(s.workspace.Symbols)
		pa.SetModules(s.workspace.Modules)
	}
	return a
}

// languageFor falls back to the file extension for clients that send a
// generic language id, e.g. "phtml" or an empty one.
func languageFor(languageID, path string) string {
	switch languageID {
	case "php", "xml":
		return languageID
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".php":
		return "php"
	case ".xml":
		return "xml"
	}
	return languageID
}

func logger() commonlog.Logger {
	return commonlog.GetLoggerf("vimagento.server")
}
