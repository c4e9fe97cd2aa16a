// Package wizard turns the values a user enters for a generation action into
// a validated description of the files to generate.
package wizard

import (
	"strings"

	"github.com/shinyvision/vimagento/internal/magento"
	"github.com/shinyvision/vimagento/internal/naming"
	"github.com/shinyvision/vimagento/internal/php"
)

// Field names used in validation errors.
const (
	FieldClassName    = "className"
	FieldDirectory    = "directory"
	FieldModule       = "module"
	FieldType         = "type"
	FieldArea         = "area"
	FieldSortOrder    = "sortOrder"
	FieldName         = "name"
	FieldTargetClass  = "targetClass"
	FieldTargetMethod = "targetMethod"
)

// PluginInput is what the user supplies to create a plugin.
type PluginInput struct {
	ClassName    string `json:"className"`
	Directory    string `json:"directory"`
	Module       string `json:"module"`
	Type         string `json:"type"`
	Area         string `json:"area"`
	SortOrder    string `json:"sortOrder"`
	Name         string `json:"name"`
	TargetClass  string `json:"targetClass"`
	TargetMethod string `json:"targetMethod"`
}

// PluginFileData describes the plugin class to generate.
type PluginFileData struct {
	Directory    string
	ClassName    string
	Module       string
	ModuleDir    string
	Type         magento.PluginType
	TargetClass  string
	TargetMethod php.MethodInfo
	FQN          string
	Namespace    string
}

// PluginDiXmlData describes the di.xml entry registering the plugin.
type PluginDiXmlData struct {
	Area        magento.Area
	Module      string
	ModuleDir   string
	TargetClass string
	SortOrder   string
	Name        string
	PluginFQN   string
}

// PluginArtifact is the validated result of a plugin wizard.
type PluginArtifact struct {
	File PluginFileData
	Di   PluginDiXmlData
}

// PluginWizard creates an interceptor for one public method.
type PluginWizard struct {
	catalog magento.ModuleCatalog
	symbols SymbolResolver
}

func NewPluginWizard(catalog magento.ModuleCatalog, symbols SymbolResolver) *PluginWizard {
	return &PluginWizard{catalog: catalog, symbols: symbols}
}

// Defaults fills the blank optional fields of in.
func (w *PluginWizard) Defaults(in PluginInput) PluginInput {
	in = trimPluginInput(in)
	if in.Directory == "" {
		in.Directory = magento.DefaultPluginDir
	}
	if in.Area == "" {
		in.Area = string(magento.AreaBase)
	}
	if in.Type == "" {
		in.Type = string(magento.PluginAround)
	}
	if in.ClassName == "" && in.TargetClass != "" {
		in.ClassName = naming.ShortName(naming.NormalizeFQN(in.TargetClass)) + "Plugin"
	}
	if in.Name == "" && in.Module != "" && in.ClassName != "" {
		in.Name = magento.DefaultPluginName(in.Module, in.ClassName)
	}
	return in
}

func trimPluginInput(in PluginInput) PluginInput {
	in.ClassName = strings.TrimSpace(in.ClassName)
	in.Directory = strings.Trim(strings.TrimSpace(in.Directory), naming.PathSeparator)
	in.Module = strings.TrimSpace(in.Module)
	in.Type = strings.TrimSpace(in.Type)
	in.Area = strings.TrimSpace(in.Area)
	in.SortOrder = strings.TrimSpace(in.SortOrder)
	in.Name = strings.TrimSpace(in.Name)
	in.TargetClass = naming.NormalizeFQN(in.TargetClass)
	in.TargetMethod = strings.TrimSpace(in.TargetMethod)
	return in
}

// Submit validates in and derives the plugin artifacts.
func (w *PluginWizard) Submit(in PluginInput) (PluginArtifact, error) {
	in = trimPluginInput(in)
	v := &ValidationError{}

	validateClassName(v, FieldClassName, in.ClassName)
	validateDirectory(v, FieldDirectory, in.Directory)
	validateModule(v, w.catalog, FieldModule, in.Module)

	pluginType, err := magento.ParsePluginType(in.Type)
	if err != nil {
		v.addErr(FieldType, err)
	}
	area, err := magento.ParseArea(in.Area)
	if err != nil {
		v.addErr(FieldArea, err)
	}
	if in.SortOrder != "" && !sortOrderRe.MatchString(in.SortOrder) {
		v.add(FieldSortOrder, "sort order must be a number")
	}
	switch {
	case in.Name == "":
		v.add(FieldName, "plugin name is required")
	case !pluginNameRe.MatchString(in.Name):
		v.add(FieldName, "plugin name may contain only letters, digits, _ and -")
	}

	target, method := w.validateTarget(v, in)

	namespace, _ := naming.NamespaceForModule(in.Module, in.Directory)
	fqn := naming.ClassFQN(namespace, in.ClassName)

	if !v.has(FieldClassName) && !v.has(FieldModule) && !v.has(FieldTargetClass) && !v.has(FieldTargetMethod) && !v.has(FieldType) && w.symbols != nil {
		if existing, ok := w.symbols.ResolveClass(fqn); ok {
			methodName := magento.PluginMethodName(pluginType, method.Name)
			if _, exists := existing.Class.Method(methodName); exists {
				v.add(FieldClassName, fqn+" already declares "+methodName)
			}
		} else if w.symbols.ClassExists(fqn) {
			v.add(FieldClassName, "a file for "+fqn+" already exists but does not declare the class")
		}
	}

	if err := v.orNil(); err != nil {
		return PluginArtifact{}, err
	}

	moduleDir := ""
	if w.catalog != nil {
		moduleDir, _ = w.catalog.ModuleDir(in.Module)
	}

	return PluginArtifact{
		File: PluginFileData{
			Directory:    in.Directory,
			ClassName:    in.ClassName,
			Module:       in.Module,
			ModuleDir:    moduleDir,
			Type:         pluginType,
			TargetClass:  target.Class.FQN,
			TargetMethod: method,
			FQN:          fqn,
			Namespace:    namespace,
		},
		Di: PluginDiXmlData{
			Area:        area,
			Module:      in.Module,
			ModuleDir:   moduleDir,
			TargetClass: target.Class.FQN,
			SortOrder:   in.SortOrder,
			Name:        in.Name,
			PluginFQN:   fqn,
		},
	}, nil
}

func (w *PluginWizard) validateTarget(v *ValidationError, in PluginInput) (php.ClassSymbol, php.MethodInfo) {
	if in.TargetClass == "" {
		v.add(FieldTargetClass, "target class is required")
		return php.ClassSymbol{}, php.MethodInfo{}
	}
	if in.TargetMethod == "" {
		v.add(FieldTargetMethod, "target method is required")
		return php.ClassSymbol{}, php.MethodInfo{}
	}
	if w.symbols == nil {
		v.add(FieldTargetClass, "cannot resolve "+in.TargetClass)
		return php.ClassSymbol{}, php.MethodInfo{}
	}
	target, ok := w.symbols.ResolveClass(in.TargetClass)
	if !ok {
		v.add(FieldTargetClass, "cannot resolve "+in.TargetClass)
		return php.ClassSymbol{}, php.MethodInfo{}
	}
	if target.Class.Final {
		v.add(FieldTargetClass, "final classes cannot be intercepted")
	}
	method, ok := target.Class.Method(in.TargetMethod)
	if !ok {
		v.add(FieldTargetMethod, target.Class.FQN+" has no method "+in.TargetMethod)
		return target, php.MethodInfo{}
	}
	switch {
	case strings.EqualFold(method.Name, "__construct"):
		v.add(FieldTargetMethod, "constructors cannot be intercepted")
	case method.Visibility != "public":
		v.add(FieldTargetMethod, "only public methods can be intercepted")
	case method.Static:
		v.add(FieldTargetMethod, "static methods cannot be intercepted")
	case method.Final:
		v.add(FieldTargetMethod, "final methods cannot be intercepted")
	}
	return target, method
}
