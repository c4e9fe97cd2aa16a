package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleSegments(t *testing.T) {
	vendor, module, err := ModuleSegments("Vendor_Module")
	require.NoError(t, err)
	assert.Equal(t, "Vendor", vendor)
	assert.Equal(t, "Module", module)

	for _, name := range []string{"", "VendorModule", "Vendor_Module_Extra", "_Module", "Vendor_", "_"} {
		t.Run(name, func(t *testing.T) {
			_, _, err := ModuleSegments(name)
			assert.ErrorIs(t, err, ErrInvalidModuleName)
		})
	}
}

func TestModuleIdentifierPath(t *testing.T) {
	path, err := ModuleIdentifierPath("Magento_Catalog")
	require.NoError(t, err)
	assert.Equal(t, "Magento/Catalog", path)

	_, err = ModuleIdentifierPath("Catalog")
	assert.ErrorIs(t, err, ErrInvalidModuleName)
}

func TestNamespace(t *testing.T) {
	testCases := []struct {
		name     string
		dir      string
		expected string
	}{
		{name: "nested", dir: "Foo/Bar", expected: "Vendor\\Module\\Foo\\Bar"},
		{name: "single", dir: "Plugin", expected: "Vendor\\Module\\Plugin"},
		{name: "surrounding separators", dir: "/Model/Resolver/", expected: "Vendor\\Module\\Model\\Resolver"},
		{name: "empty", dir: "", expected: "Vendor\\Module"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Namespace("Vendor", "Module", tc.dir))
		})
	}

	assert.Equal(t, Namespace("Vendor", "Module", "Foo/Bar"), Namespace("Vendor", "Module", "Foo/Bar"))
}

func TestNamespaceForModule(t *testing.T) {
	ns, err := NamespaceForModule("Vendor_Module", "Plugin/Catalog")
	require.NoError(t, err)
	assert.Equal(t, "Vendor\\Module\\Plugin\\Catalog", ns)

	_, err = NamespaceForModule("Vendor_Module_X", "Plugin")
	assert.ErrorIs(t, err, ErrInvalidModuleName)
}

func TestClassFQN(t *testing.T) {
	assert.Equal(t, "Vendor\\Module\\Foo\\MyClass", ClassFQN("Vendor\\Module\\Foo", "MyClass"))
	assert.Equal(t, ClassFQN("A\\B", "C"), ClassFQN("A\\B", "C"))
}

func TestSuggestDirectory(t *testing.T) {
	const def = "Model/Resolver"

	testCases := []struct {
		name     string
		fullPath string
		expected string
	}{
		{name: "direct child", fullPath: "/home/dev/src/Vendor/Module/Plugin", expected: "Plugin"},
		{name: "nested child", fullPath: "/app/code/Vendor/Module/Model/Resolver/Product", expected: "Model/Resolver/Product"},
		{name: "other module", fullPath: "/home/dev/src/OtherVendor/Mod/Plugin", expected: def},
		{name: "module root", fullPath: "/app/code/Vendor/Module", expected: def},
		{name: "module root with slash", fullPath: "/app/code/Vendor/Module/", expected: def},
		{name: "longer module name", fullPath: "/app/code/Vendor/ModuleExtra/Plugin", expected: def},
		{name: "identifier twice", fullPath: "/Vendor/Module/app/code/Vendor/Module/Plugin", expected: def},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SuggestDirectory(tc.fullPath, "Vendor/Module", def))
		})
	}
}

func TestSuggestModuleDirectory(t *testing.T) {
	assert.Equal(t, "Plugin", SuggestModuleDirectory("/src/Vendor/Module/Plugin", "Vendor_Module", "Default"))
	assert.Equal(t, "Default", SuggestModuleDirectory("/src/Vendor/Module/Plugin", "VendorModule", "Default"))
}

func TestShortNameAndNormalize(t *testing.T) {
	assert.Equal(t, "Product", ShortName("\\Magento\\Catalog\\Model\\Product"))
	assert.Equal(t, "Product", ShortName("Product"))
	assert.Equal(t, "Magento\\Catalog\\Model\\Product", NormalizeFQN(" \\Magento\\\\Catalog\\\\Model\\\\Product "))
}
