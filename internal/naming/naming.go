// Package naming derives Magento namespaces, class names and module
// relative directories from the raw strings a user types into a wizard.
package naming

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// VendorModuleSeparator joins the vendor and module segments of a module name (Vendor_Module).
	VendorModuleSeparator = "_"
	// FQNSeparator separates PHP namespace segments.
	FQNSeparator = "\\"
	// PathSeparator separates segments of a module relative directory.
	PathSeparator = "/"
)

// ErrInvalidModuleName is returned when a module name is not of the form Vendor_Module.
var ErrInvalidModuleName = errors.New("invalid module name")

// ModuleSegments splits a Vendor_Module name into its vendor and module parts.
func ModuleSegments(moduleName string) (string, string, error) {
	parts := strings.Split(moduleName, VendorModuleSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidModuleName, moduleName)
	}
	return parts[0], parts[1], nil
}

// ModuleIdentifierPath returns the Vendor/Module path fragment for a module name.
func ModuleIdentifierPath(moduleName string) (string, error) {
	vendor, module, err := ModuleSegments(moduleName)
	if err != nil {
		return "", err
	}
	return vendor + PathSeparator + module, nil
}

// Namespace builds vendor\module\relative\dir. An empty directory yields vendor\module.
func Namespace(vendor, module, relativeDir string) string {
	ns := vendor + FQNSeparator + module
	dir := strings.Trim(relativeDir, PathSeparator)
	if dir == "" {
		return ns
	}
	return ns + FQNSeparator + strings.ReplaceAll(dir, PathSeparator, FQNSeparator)
}

// NamespaceForModule is Namespace for a Vendor_Module name.
func NamespaceForModule(moduleName, relativeDir string) (string, error) {
	vendor, module, err := ModuleSegments(moduleName)
	if err != nil {
		return "", err
	}
	return Namespace(vendor, module, relativeDir), nil
}

// ClassFQN appends a short class name to a namespace.
func ClassFQN(namespace, className string) string {
	return namespace + FQNSeparator + className
}

// SuggestDirectory returns the part of fullPath that follows the only
// occurrence of moduleIdentifierPath. When the identifier is missing, occurs
// more than once, or is not followed by a sub directory, defaultDir is returned.
//
// A vendor/module pair that also appears higher up in fullPath makes the
// lookup ambiguous and falls back to defaultDir as well.
func SuggestDirectory(fullPath, moduleIdentifierPath, defaultDir string) string {
	if moduleIdentifierPath == "" {
		return defaultDir
	}
	parts := strings.Split(fullPath, moduleIdentifierPath)
	if len(parts) != 2 {
		return defaultDir
	}
	rest, ok := strings.CutPrefix(parts[1], PathSeparator)
	if !ok || rest == "" {
		return defaultDir
	}
	return strings.TrimSuffix(rest, PathSeparator)
}

// SuggestModuleDirectory is SuggestDirectory for a Vendor_Module name. A
// malformed module name yields defaultDir.
func SuggestModuleDirectory(fullPath, moduleName, defaultDir string) string {
	identifier, err := ModuleIdentifierPath(moduleName)
	if err != nil {
		return defaultDir
	}
	return SuggestDirectory(fullPath, identifier, defaultDir)
}

// ShortName returns the last segment of a fully qualified class name.
func ShortName(fqn string) string {
	fqn = strings.TrimPrefix(fqn, FQNSeparator)
	if i := strings.LastIndex(fqn, FQNSeparator); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

// NormalizeFQN strips a leading separator and collapses escaped separators.
func NormalizeFQN(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\\\", "\\"))
	return strings.TrimLeft(name, "?\\")
}
