// Package workspace wires the module catalog, the PHP resolver, the wizards
// and the generators of one Magento project together. The language server and
// the CLI both drive generation through it.
package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/shinyvision/vimagento/internal/config"
	"github.com/shinyvision/vimagento/internal/generator"
	"github.com/shinyvision/vimagento/internal/magento"
	"github.com/shinyvision/vimagento/internal/php"
	"github.com/shinyvision/vimagento/internal/wizard"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
)

type Workspace struct {
	Config  *config.Config
	Fs      afero.Fs
	Modules *magento.ModuleIndex
	Store   *php.DocumentStore
	Symbols *php.Resolver
}

func New(fs afero.Fs, cfg *config.Config) *Workspace {
	store := php.NewDocumentStore(fs, cfg.StoreSize)
	return &Workspace{
		Config:  cfg,
		Fs:      fs,
		Modules: magento.NewModuleIndex(fs, cfg.WorkspaceRoot, cfg.CodeRoots, cfg.VendorDir),
		Store:   store,
		Symbols: php.NewResolver(fs, store),
	}
}

// Load scans the modules and rebuilds the autoload map. Module directories
// act as PSR-4 roots for their Vendor\Module\ prefix.
func (w *Workspace) Load() {
	w.Modules.Scan()
	w.Config.LoadAutoload(w.Fs, w.Modules.Psr4())
	w.Symbols.Configure(w.Config.Autoload, w.Config.WorkspaceRoot)

	commonlog.GetLoggerf("vimagento.workspace").Infof("workspace %s: %d modules (%d editable), %d psr-4 prefixes",
		w.Config.WorkspaceRoot, len(w.Modules.Modules()), len(w.Modules.EditableModuleNames()), len(w.Config.Autoload.PSR4))
}

// PluginDefaults completes in with the configured defaults and then with the
// wizard's own defaults.
func (w *Workspace) PluginDefaults(in wizard.PluginInput) wizard.PluginInput {
	if in.Module == "" {
		in.Module = w.Config.DefaultModule
	}
	if in.Area == "" {
		in.Area = w.Config.PluginArea
	}
	if in.Directory == "" {
		in.Directory = w.Config.PluginDir
	}
	return wizard.NewPluginWizard(w.Modules, w.Symbols).Defaults(in)
}

// PluginResult lists the files touched by CreatePlugin.
type PluginResult struct {
	ClassPath string
	DiPath    string
	FQN       string
}

// CreatePlugin validates in and writes the plugin class and its di.xml entry.
// Validation problems are returned as *wizard.ValidationError.
func (w *Workspace) CreatePlugin(in wizard.PluginInput) (PluginResult, error) {
	in = w.PluginDefaults(in)
	artifact, err := wizard.NewPluginWizard(w.Modules, w.Symbols).Submit(in)
	if err != nil {
		return PluginResult{}, err
	}

	classPath, err := generator.NewPluginClassGenerator(w.Fs).Generate(artifact.File)
	if err != nil {
		return PluginResult{}, fmt.Errorf("could not generate plugin class: %w", err)
	}
	w.Store.Invalidate(classPath)

	diPath, err := generator.NewPluginDiXmlGenerator(w.Fs).Generate(artifact.Di)
	if err != nil {
		return PluginResult{ClassPath: classPath}, fmt.Errorf("could not register plugin: %w", err)
	}
	return PluginResult{ClassPath: classPath, DiPath: diPath, FQN: artifact.File.FQN}, nil
}

// GraphQlResolverWizard starts a resolver wizard for baseDir. Relative
// directories are resolved against the workspace root.
func (w *Workspace) GraphQlResolverWizard(baseDir string) *wizard.GraphQlResolverWizard {
	if baseDir != "" {
		baseDir = filepath.Clean(w.Config.Abs(baseDir))
	}
	return wizard.NewGraphQlResolverWizard(w.Modules, w.Symbols, baseDir)
}

// CreateGraphQlResolver validates in and writes the resolver class, returning its path.
func (w *Workspace) CreateGraphQlResolver(baseDir string, in wizard.GraphQlResolverInput) (string, string, error) {
	data, err := w.GraphQlResolverWizard(baseDir).Submit(in)
	if err != nil {
		return "", "", err
	}
	path, err := generator.NewGraphQlResolverClassGenerator(w.Fs).Generate(data)
	if err != nil {
		return "", "", fmt.Errorf("could not generate resolver: %w", err)
	}
	return path, data.FQN, nil
}
