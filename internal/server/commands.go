package server

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/shinyvision/vimagento/internal/analyzer"
	"github.com/shinyvision/vimagento/internal/utils"
	"github.com/shinyvision/vimagento/internal/wizard"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// graphQlResolverArgs is the argument of the newGraphQlResolver command.
// BaseDir is the directory (path or file URI) the resolver is created from.
type graphQlResolverArgs struct {
	BaseDir string `json:"baseDir"`
	wizard.GraphQlResolverInput
}

// CommandResult is returned to the client after a successful generation.
type CommandResult struct {
	FQN   string   `json:"fqn"`
	Files []string `json:"files"`
}

func (s *Server) onExecuteCommand(context *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	var (
		result CommandResult
		err    error
	)
	switch params.Command {
	case analyzer.CommandCreatePlugin:
		result, err = s.createPlugin(params.Arguments)
	case analyzer.CommandNewGraphQlResolver:
		result, err = s.newGraphQlResolver(params.Arguments)
	default:
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}

	if err != nil {
		logger().Warningf("%s failed: %v", params.Command, err)
		notifyMessage(context, protocol.MessageTypeError, err.Error())
		return nil, err
	}

	notifyMessage(context, protocol.MessageTypeInfo, "Created "+result.FQN)
	if len(result.Files) > 0 {
		showDocument(context, result.Files[0])
	}
	return result, nil
}

func (s *Server) createPlugin(arguments []any) (CommandResult, error) {
	var in wizard.PluginInput
	if err := decodeArgument(arguments, &in); err != nil {
		return CommandResult{}, err
	}
	res, err := s.workspace.CreatePlugin(in)
	if err != nil {
		return CommandResult{}, err
	}
	return CommandResult{FQN: res.FQN, Files: []string{res.ClassPath, res.DiPath}}, nil
}

func (s *Server) newGraphQlResolver(arguments []any) (CommandResult, error) {
	var args graphQlResolverArgs
	if err := decodeArgument(arguments, &args); err != nil {
		return CommandResult{}, err
	}
	baseDir := utils.UriToPath(args.BaseDir)
	if filepath.Ext(baseDir) != "" {
		baseDir = filepath.Dir(baseDir)
	}
	path, fqn, err := s.workspace.CreateGraphQlResolver(baseDir, args.GraphQlResolverInput)
	if err != nil {
		return CommandResult{}, err
	}
	return CommandResult{FQN: fqn, Files: []string{path}}, nil
}

// decodeArgument converts the first command argument, a decoded JSON object,
// into dst.
func decodeArgument(arguments []any, dst any) error {
	if len(arguments) == 0 {
		return fmt.Errorf("missing command argument")
	}
	raw, err := json.Marshal(arguments[0])
	if err != nil {
		return fmt.Errorf("invalid command argument: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid command argument: %w", err)
	}
	return nil
}

func notifyMessage(context *glsp.Context, typ protocol.MessageType, message string) {
	if context == nil || context.Notify == nil {
		return
	}
	context.Notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
		Type:    typ,
		Message: message,
	})
}

func showDocument(context *glsp.Context, path string) {
	if context == nil || context.Call == nil {
		return
	}
	takeFocus := true
	params := protocol.ShowDocumentParams{
		URI:       protocol.URI(utils.PathToURI(path)),
		TakeFocus: &takeFocus,
	}
	go func() {
		var result protocol.ShowDocumentResult
		context.Call(protocol.ServerWindowShowDocument, params, &result)
		if !result.Success {
			logger().Debugf("client did not show %s", path)
		}
	}()
}
