// Package magento holds Magento 2 packaging conventions and the module catalog.
package magento

import (
	"fmt"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

const (
	ModuleXMLFile = "etc/module.xml"
	DiXMLFile     = "di.xml"

	// DefaultPluginDir is where interceptors go when the user does not pick a directory.
	DefaultPluginDir = "Plugin"
	// DefaultGraphQlResolverDir is the fallback directory for GraphQL resolvers.
	DefaultGraphQlResolverDir = "Model/Resolver"
)

// Area is a Magento configuration scope.
type Area string

const (
	AreaBase       Area = "base"
	AreaAdminhtml  Area = "adminhtml"
	AreaFrontend   Area = "frontend"
	AreaCrontab    Area = "crontab"
	AreaWebapiRest Area = "webapi_rest"
	AreaWebapiSoap Area = "webapi_soap"
	AreaGraphQl    Area = "graphql"
)

// Areas lists every area in the order wizards present them.
var Areas = []Area{AreaBase, AreaAdminhtml, AreaFrontend, AreaCrontab, AreaWebapiRest, AreaWebapiSoap, AreaGraphQl}

// ParseArea validates an area name. An empty string means AreaBase.
func ParseArea(s string) (Area, error) {
	if s == "" {
		return AreaBase, nil
	}
	for _, a := range Areas {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown area %q", s)
}

// DiXMLPath returns the module relative di.xml path for an area.
func DiXMLPath(area Area) string {
	if area == AreaBase || area == "" {
		return path.Join("etc", DiXMLFile)
	}
	return path.Join("etc", string(area), DiXMLFile)
}

// PluginType is the interception kind of a plugin method.
type PluginType string

const (
	PluginBefore PluginType = "before"
	PluginAfter  PluginType = "after"
	PluginAround PluginType = "around"
)

var PluginTypes = []PluginType{PluginBefore, PluginAfter, PluginAround}

// ParsePluginType validates a plugin type name.
func ParsePluginType(s string) (PluginType, error) {
	for _, t := range PluginTypes {
		if string(t) == strings.ToLower(s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown plugin type %q", s)
}

// PluginMethodName returns the interceptor method name, e.g. beforeSave.
// Only the first letter of the target is uppercased: the interceptor strips
// the prefix and lowercases that letter to find the method again.
func PluginMethodName(t PluginType, targetMethod string) string {
	r, size := utf8.DecodeRuneInString(targetMethod)
	if size == 0 {
		return string(t)
	}
	return string(t) + string(unicode.ToUpper(r)) + targetMethod[size:]
}

// DefaultPluginName derives a di.xml plugin name from the plugin module and class.
func DefaultPluginName(moduleName, pluginClassName string) string {
	return strings.ToLower(moduleName) + "_" + strcase.ToSnake(pluginClassName)
}
