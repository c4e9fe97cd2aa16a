package workspace

import (
	"testing"

	"github.com/shinyvision/vimagento/internal/config"
	"github.com/shinyvision/vimagento/internal/generator"
	"github.com/shinyvision/vimagento/internal/wizard"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPHP = `<?php
declare(strict_types=1);

namespace Magento\Catalog\Model;

use Magento\Framework\DataObject;

class Product extends DataObject
{
    public function getName(): string
    {
        return (string) $this->getData('name');
    }

    public function setName(string $name): self
    {
        return $this->setData('name', $name);
    }
}
`

func moduleXML(name string) []byte {
	return []byte(`<?xml version="1.0"?>
<config xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="urn:magento:framework:Module/etc/module.xsd">
    <module name="` + name + `"/>
</config>
`)
}

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/app/code/Acme/Checkout/etc/module.xml", moduleXML("Acme_Checkout"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/project/vendor/magento/module-catalog/etc/module.xml", moduleXML("Magento_Catalog"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/project/vendor/magento/module-catalog/Model/Product.php", []byte(productPHP), 0o644))

	cfg := config.NewConfig()
	cfg.WorkspaceRoot = "/project"
	cfg.DefaultModule = "Acme_Checkout"

	w := New(fs, cfg)
	w.Load()
	return w
}

func TestLoad(t *testing.T) {
	w := newTestWorkspace(t)

	assert.Equal(t, []string{"Acme_Checkout"}, w.Modules.EditableModuleNames())
	class, ok := w.Symbols.ResolveClass("Magento\\Catalog\\Model\\Product")
	require.True(t, ok)
	assert.Equal(t, "/project/vendor/magento/module-catalog/Model/Product.php", class.Path)
}

func TestCreatePlugin(t *testing.T) {
	w := newTestWorkspace(t)

	res, err := w.CreatePlugin(wizard.PluginInput{
		TargetClass:  "Magento\\Catalog\\Model\\Product",
		TargetMethod: "getName",
		Type:         "after",
	})
	require.NoError(t, err)
	assert.Equal(t, "/project/app/code/Acme/Checkout/Plugin/ProductPlugin.php", res.ClassPath)
	assert.Equal(t, "/project/app/code/Acme/Checkout/etc/di.xml", res.DiPath)
	assert.Equal(t, "Acme\\Checkout\\Plugin\\ProductPlugin", res.FQN)

	di, err := afero.ReadFile(w.Fs, res.DiPath)
	require.NoError(t, err)
	assert.Contains(t, string(di), `<plugin name="acme_checkout_product_plugin" type="Acme\Checkout\Plugin\ProductPlugin"/>`)

	// A second interceptor lands in the same class and keeps the registration.
	res, err = w.CreatePlugin(wizard.PluginInput{
		TargetClass:  "Magento\\Catalog\\Model\\Product",
		TargetMethod: "setName",
		Type:         "before",
	})
	require.NoError(t, err)

	class, ok := w.Symbols.ResolveClass(res.FQN)
	require.True(t, ok)
	_, ok = class.Class.Method("afterGetName")
	assert.True(t, ok)
	_, ok = class.Class.Method("beforeSetName")
	assert.True(t, ok)

	_, err = w.CreatePlugin(wizard.PluginInput{
		TargetClass:  "Magento\\Catalog\\Model\\Product",
		TargetMethod: "setName",
		Type:         "before",
	})
	verr, ok := wizard.AsValidationError(err)
	require.True(t, ok)
	_, found := verr.Field(wizard.FieldClassName)
	assert.True(t, found)
}

func TestCreatePluginQualifiesFluentReturnType(t *testing.T) {
	w := newTestWorkspace(t)

	res, err := w.CreatePlugin(wizard.PluginInput{
		TargetClass:  "Magento\\Catalog\\Model\\Product",
		TargetMethod: "setName",
		Type:         "around",
	})
	require.NoError(t, err)

	content, err := afero.ReadFile(w.Fs, res.ClassPath)
	require.NoError(t, err)
	assert.Contains(t, string(content),
		"public function aroundSetName(\\Magento\\Catalog\\Model\\Product $subject, callable $proceed, string $name): \\Magento\\Catalog\\Model\\Product\n")
	assert.NotContains(t, string(content), "): self")
}

func TestCreatePluginReportsValidationErrors(t *testing.T) {
	w := newTestWorkspace(t)

	_, err := w.CreatePlugin(wizard.PluginInput{
		Module:       "Magento_Catalog",
		TargetClass:  "Magento\\Catalog\\Model\\Missing",
		TargetMethod: "getName",
	})
	verr, ok := wizard.AsValidationError(err)
	require.True(t, ok)
	_, found := verr.Field(wizard.FieldModule)
	assert.True(t, found)
	_, found = verr.Field(wizard.FieldTargetClass)
	assert.True(t, found)
}

func TestCreateGraphQlResolver(t *testing.T) {
	w := newTestWorkspace(t)

	wz := w.GraphQlResolverWizard("app/code/Acme/Checkout/Model/Resolver/Cart")
	assert.Equal(t, "Acme_Checkout", wz.Module())
	assert.Equal(t, "Model/Resolver/Cart", wz.SuggestedDirectory())

	path, fqn, err := w.CreateGraphQlResolver("app/code/Acme/Checkout/Model/Resolver/Cart", wizard.GraphQlResolverInput{ClassName: "Items"})
	require.NoError(t, err)
	assert.Equal(t, "/project/app/code/Acme/Checkout/Model/Resolver/Cart/Items.php", path)
	assert.Equal(t, "Acme\\Checkout\\Model\\Resolver\\Cart\\Items", fqn)

	_, _, err = w.CreateGraphQlResolver("app/code/Acme/Checkout/Model/Resolver/Cart", wizard.GraphQlResolverInput{ClassName: "Items"})
	_, isValidation := wizard.AsValidationError(err)
	assert.True(t, isValidation)
	assert.NotErrorIs(t, err, generator.ErrFileExists)
}
