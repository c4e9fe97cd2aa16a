package server

import (
	"github.com/shinyvision/vimagento/internal/analyzer"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) onDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc, ok := s.state.GetDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	if provider, ok := doc.Analyzer.(analyzer.DefinitionProvider); ok {
		locations, err := provider.OnDefinition(params.Position)
		if err != nil {
			return nil, err
		}
		if len(locations) > 0 {
			return locations, nil
		}
	}

	return nil, nil
}

func (s *Server) onCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc, ok := s.state.GetDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	if provider, ok := doc.Analyzer.(analyzer.CompletionProvider); ok {
		items, err := provider.OnCompletion(params.Position)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			return items, nil
		}
	}

	return nil, nil
}

func (s *Server) onCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc, ok := s.state.GetDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	if provider, ok := doc.Analyzer.(analyzer.CodeActionProvider); ok {
		codeActions, err := provider.OnCodeAction(params)
		if err != nil {
			return nil, err
		}
		if len(codeActions) > 0 {
			return codeActions, nil
		}
	}

	return nil, nil
}
