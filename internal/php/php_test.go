package php

import (
	"path/filepath"
	"testing"

	"github.com/shinyvision/vimagento/internal/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const productFQN = "Acme\\Catalog\\Model\\Product"

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	moduleDir, err := filepath.Abs("testdata/app/code/Acme/Catalog")
	require.NoError(t, err)

	fs := afero.NewOsFs()
	r := NewResolver(fs, NewDocumentStore(fs, 10))
	r.Configure(config.AutoloadMap{PSR4: map[string][]string{"Acme\\Catalog\\": {moduleDir}}}, "")
	return r
}

func TestResolveClass(t *testing.T) {
	r := newTestResolver(t)

	class, ok := r.ResolveClass("\\" + productFQN)
	require.True(t, ok)
	assert.Contains(t, class.Path, filepath.Join("Acme", "Catalog", "Model", "Product.php"))
	assert.Equal(t, "Product", class.Class.Name)
	assert.Equal(t, "Acme\\Catalog\\Model", class.Class.Namespace)
	assert.Equal(t, KindClass, class.Class.Kind)
	assert.Equal(t, "Magento\\Framework\\DataObject", class.Class.Parent)
	assert.Equal(t, uint32(8), class.Class.Range.Start.Line)
	assert.Len(t, class.Class.Methods, 6)

	_, ok = r.ResolveClass("Acme\\Catalog\\Model\\Missing")
	assert.False(t, ok)
	assert.True(t, r.ClassExists(productFQN))
	assert.False(t, r.ClassExists("Acme\\Catalog\\Model\\Missing"))
}

func TestMethodMetadata(t *testing.T) {
	r := newTestResolver(t)
	class, ok := r.ResolveClass(productFQN)
	require.True(t, ok)

	getName, ok := class.Class.Method("GETNAME")
	require.True(t, ok)
	assert.Equal(t, "public", getName.Visibility)
	assert.Equal(t, "string", getName.ReturnType)
	require.Len(t, getName.Parameters, 1)
	assert.Equal(t, "?\\Magento\\Store\\Api\\Data\\StoreInterface $store = null", getName.Parameters[0].Declaration())
	assert.Equal(t, uint32(15), getName.Range.Start.Line)

	setName, ok := class.Class.Method("setName")
	require.True(t, ok)
	assert.Equal(t, "\\Acme\\Catalog\\Model\\Product", setName.ReturnType)
	require.Len(t, setName.Parameters, 3)
	assert.Equal(t, "string $name", setName.Parameters[0].Declaration())
	assert.True(t, setName.Parameters[1].ByRef)
	assert.Equal(t, "&$previous", setName.Parameters[1].Declaration())
	assert.True(t, setName.Parameters[2].Variadic)
	assert.Equal(t, "...$extra", setName.Parameters[2].Argument())

	load, ok := class.Class.Method("loadOptions")
	require.True(t, ok)
	assert.Equal(t, "protected", load.Visibility)

	create, ok := class.Class.Method("create")
	require.True(t, ok)
	assert.True(t, create.Static)
	assert.Equal(t, "\\Acme\\Catalog\\Model\\Product", create.ReturnType)

	sku, ok := class.Class.Method("getSku")
	require.True(t, ok)
	assert.True(t, sku.Final)
}

func TestFindMethods(t *testing.T) {
	r := newTestResolver(t)

	names := func(symbols []MethodSymbol) []string {
		var out []string
		for _, s := range symbols {
			out = append(out, s.Method.Name)
		}
		return out
	}

	assert.Equal(t, []string{"getName", "setName"}, names(r.FindMethods(productFQN, "Name")))
	assert.Len(t, r.FindMethods(productFQN, ""), 6)
	assert.Empty(t, r.FindMethods(productFQN, "nothing"))
	assert.Empty(t, r.FindMethods("Acme\\Missing", "get"))

	loc := r.FindMethods(productFQN, "getSku")[0].Location()
	assert.Contains(t, string(loc.URI), "Product.php")
	assert.Equal(t, uint32(35), loc.Range.Start.Line)
}

func TestMethodAt(t *testing.T) {
	content := `<?php
namespace Acme\Checkout\Model;

use Acme\Catalog\Model\Product;

class Cart
{
    public function addProduct(Product $product, int $qty = 1): void
    {
    }
}
`
	fs := afero.NewMemMapFs()
	store := NewDocumentStore(fs, 10)
	doc := NewDocument()
	require.NoError(t, doc.Update([]byte(content), nil))
	store.RegisterOpen("/tmp/Cart.php", doc)

	class, method, ok := MethodAt(store, "/tmp/Cart.php", protocol.Position{Line: 7, Character: 22})
	require.True(t, ok)
	assert.Equal(t, "Acme\\Checkout\\Model\\Cart", class.FQN)
	assert.Equal(t, "addProduct", method.Name)
	assert.Equal(t, "\\Acme\\Catalog\\Model\\Product $product", method.Parameters[0].Declaration())
	assert.Equal(t, "int $qty = 1", method.Parameters[1].Declaration())
	assert.Equal(t, "void", method.ReturnType)

	_, _, ok = MethodAt(store, "/tmp/Cart.php", protocol.Position{Line: 3, Character: 5})
	assert.False(t, ok)
}

func TestRelativeClassNamesAreQualified(t *testing.T) {
	content := `<?php
namespace Acme\Catalog\Model;

use Magento\Framework\Model\AbstractModel;

class Category extends AbstractModel
{
    public const LIMIT = 10;

    public function addChild(self $child, int $limit = self::LIMIT): static
    {
        return $this;
    }

    public function getParentModel(?parent $fallback = null): ?parent
    {
        return $fallback;
    }
}
`
	doc := NewDocument()
	defer doc.Close()
	require.NoError(t, doc.Update([]byte(content), nil))
	class, ok := doc.Index().Class("Acme\\Catalog\\Model\\Category")
	require.True(t, ok)
	assert.Equal(t, "Magento\\Framework\\Model\\AbstractModel", class.Parent)

	add, ok := class.Method("addChild")
	require.True(t, ok)
	assert.Equal(t, "\\Acme\\Catalog\\Model\\Category $child", add.Parameters[0].Declaration())
	assert.Equal(t, "int $limit = \\Acme\\Catalog\\Model\\Category::LIMIT", add.Parameters[1].Declaration())
	assert.Equal(t, "\\Acme\\Catalog\\Model\\Category", add.ReturnType)

	get, ok := class.Method("getParentModel")
	require.True(t, ok)
	assert.Equal(t, "?\\Magento\\Framework\\Model\\AbstractModel $fallback = null", get.Parameters[0].Declaration())
	assert.Equal(t, "?\\Magento\\Framework\\Model\\AbstractModel", get.ReturnType)
}

func TestDocumentStoreEviction(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"/a.php", "/b.php", "/c.php"} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("<?php class A {}"), 0o644))
	}
	store := NewDocumentStore(fs, 2)

	open := NewDocument()
	require.NoError(t, open.Update([]byte("<?php class Open {}"), nil))
	store.RegisterOpen("/open.php", open)

	_, err := store.Get("/a.php")
	require.NoError(t, err)
	_, err = store.Get("/b.php")
	require.NoError(t, err)
	_, err = store.Get("/c.php")
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	got, err := store.Get("/open.php")
	require.NoError(t, err)
	assert.Same(t, open, got)

	_, err = store.Get("/missing.php")
	assert.Error(t, err)
}

func TestDocumentStoreInvalidate(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/x.php", []byte("<?php class X {}"), 0o644))
	store := NewDocumentStore(fs, 10)

	doc, err := store.Get("/x.php")
	require.NoError(t, err)
	assert.Len(t, doc.Index().Classes, 1)

	require.NoError(t, afero.WriteFile(fs, "/x.php", []byte("<?php class X {} class Y {}"), 0o644))
	store.Invalidate("/x.php")

	doc, err = store.Get("/x.php")
	require.NoError(t, err)
	assert.Len(t, doc.Index().Classes, 2)
}

func TestDocumentStoreRelease(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/x.php", []byte("<?php class X {}"), 0o644))
	store := NewDocumentStore(fs, 10)

	first := NewDocument()
	require.NoError(t, first.Update([]byte("<?php class First {}"), nil))
	store.RegisterOpen("/x.php", first)

	second := NewDocument()
	require.NoError(t, second.Update([]byte("<?php class Second {}"), nil))
	store.RegisterOpen("/x.php", second)

	assert.False(t, store.Release("/x.php", first))
	got, err := store.Get("/x.php")
	require.NoError(t, err)
	assert.Same(t, second, got)

	assert.True(t, store.Release("/x.php", second))
	got, err = store.Get("/x.php")
	require.NoError(t, err)
	_, ok := got.Index().Class("X")
	assert.True(t, ok)
}
