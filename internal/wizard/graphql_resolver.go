package wizard

import (
	"path/filepath"
	"strings"

	"github.com/shinyvision/vimagento/internal/magento"
	"github.com/shinyvision/vimagento/internal/naming"
)

// GraphQlResolverInput is what the user supplies to create a resolver. Module
// is optional and defaults to the module owning the wizard's directory.
type GraphQlResolverInput struct {
	ClassName string `json:"className"`
	Directory string `json:"directory"`
	Module    string `json:"module"`
}

// GraphQlResolverFileData describes the resolver class to generate.
type GraphQlResolverFileData struct {
	Directory string
	ClassName string
	Module    string
	ModuleDir string
	FQN       string
	Namespace string
}

// GraphQlResolverWizard creates a resolver starting from a directory the user picked.
type GraphQlResolverWizard struct {
	catalog magento.ModuleCatalog
	symbols SymbolResolver
	baseDir string
	module  string
}

// NewGraphQlResolverWizard detects the module owning baseDir. The module stays
// empty when baseDir is not inside a known module.
func NewGraphQlResolverWizard(catalog magento.ModuleCatalog, symbols SymbolResolver, baseDir string) *GraphQlResolverWizard {
	w := &GraphQlResolverWizard{catalog: catalog, symbols: symbols, baseDir: baseDir}
	if catalog != nil && baseDir != "" {
		w.module, _ = catalog.ModuleForPath(baseDir)
	}
	return w
}

// Module returns the module detected for the wizard's directory.
func (w *GraphQlResolverWizard) Module() string {
	return w.module
}

// SuggestedDirectory proposes the resolver directory relative to the module.
// Directories outside the module fall back to Model/Resolver.
func (w *GraphQlResolverWizard) SuggestedDirectory() string {
	return naming.SuggestModuleDirectory(filepath.ToSlash(w.baseDir), w.module, magento.DefaultGraphQlResolverDir)
}

// Submit validates in and derives the resolver file description.
func (w *GraphQlResolverWizard) Submit(in GraphQlResolverInput) (GraphQlResolverFileData, error) {
	in.ClassName = strings.TrimSpace(in.ClassName)
	in.Directory = strings.Trim(strings.TrimSpace(in.Directory), naming.PathSeparator)
	in.Module = strings.TrimSpace(in.Module)
	if in.Module == "" {
		in.Module = w.module
	}
	if in.Directory == "" {
		in.Directory = w.SuggestedDirectory()
	}

	v := &ValidationError{}
	validateClassName(v, FieldClassName, in.ClassName)
	validateDirectory(v, FieldDirectory, in.Directory)
	validateModule(v, w.catalog, FieldModule, in.Module)

	namespace, _ := naming.NamespaceForModule(in.Module, in.Directory)
	fqn := naming.ClassFQN(namespace, in.ClassName)
	if !v.has(FieldClassName) && !v.has(FieldModule) && w.symbols != nil && w.symbols.ClassExists(fqn) {
		v.add(FieldClassName, fqn+" already exists")
	}

	if err := v.orNil(); err != nil {
		return GraphQlResolverFileData{}, err
	}

	moduleDir := ""
	if w.catalog != nil {
		moduleDir, _ = w.catalog.ModuleDir(in.Module)
	}
	return GraphQlResolverFileData{
		Directory: in.Directory,
		ClassName: in.ClassName,
		Module:    in.Module,
		ModuleDir: moduleDir,
		FQN:       fqn,
		Namespace: namespace,
	}, nil
}
