package analyzer

import (
	"strings"
	"testing"

	"github.com/shinyvision/vimagento/internal/php"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const cleanupFQN = "Acme\\Checkout\\Cron\\Cleanup"

type fakeSymbols struct {
	classes map[string]php.ClassSymbol
}

func (s fakeSymbols) ResolveClass(fqn string) (php.ClassSymbol, bool) {
	c, ok := s.classes[strings.TrimPrefix(fqn, "\\")]
	return c, ok
}

func (s fakeSymbols) FindMethods(fqn, contains string) []php.MethodSymbol {
	c, ok := s.ResolveClass(fqn)
	if !ok {
		return nil
	}
	var out []php.MethodSymbol
	for _, m := range c.Class.Methods {
		if strings.Contains(m.Name, contains) {
			out = append(out, php.MethodSymbol{Path: c.Path, ClassFQN: c.Class.FQN, Method: m})
		}
	}
	return out
}

type fakeModules []string

func (m fakeModules) AllModuleNames() []string { return m }

func methodAtLine(name string, line uint32) php.MethodInfo {
	return php.MethodInfo{
		Name:       name,
		Visibility: "public",
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: 20},
			End:   protocol.Position{Line: line, Character: 20 + uint32(len(name))},
		},
	}
}

func newSymbols() fakeSymbols {
	return fakeSymbols{classes: map[string]php.ClassSymbol{
		cleanupFQN: {
			Path: "/project/app/code/Acme/Checkout/Cron/Cleanup.php",
			Class: php.ClassInfo{
				Name: "Cleanup",
				FQN:  cleanupFQN,
				Methods: []php.MethodInfo{
					methodAtLine("execute", 10),
					methodAtLine("executeQuietly", 20),
					{Name: "__construct", Visibility: "public"},
					{Name: "purge", Visibility: "private"},
				},
			},
		},
	}}
}

// positionAfter returns the position offset bytes into the first occurrence of needle.
func positionAfter(t *testing.T, content []byte, needle string, offset int) protocol.Position {
	t.Helper()
	idx := strings.Index(string(content), needle)
	require.GreaterOrEqual(t, idx, 0, "needle %q not found", needle)
	idx += offset
	line := strings.Count(string(content[:idx]), "\n")
	col := idx - (strings.LastIndex(string(content[:idx]), "\n") + 1)
	return protocol.Position{Line: uint32(line), Character: uint32(col)}
}

const crontabXML = `<?xml version="1.0"?>
<config xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="urn:magento:module:Magento_Cron:etc/crontab.xsd">
    <group id="default">
        <job name="acme_cleanup" instance="Acme\Checkout\Cron\Cleanup" method="execute">
            <schedule>0 * * * *</schedule>
        </job>
    </group>
</config>
`

func newXMLAnalyzer(t *testing.T, content string) *xmlAnalyzer {
	t.Helper()
	an := NewXMLAnalyzer().(*xmlAnalyzer)
	an.SetSymbols(newSymbols())
	an.SetModules(fakeModules{"Magento_Catalog", "Magento_Checkout", "Acme_Checkout"})
	require.NoError(t, an.Changed([]byte(content), nil))
	t.Cleanup(an.Close)
	return an
}

func TestXMLAnalyzerJobMethodDefinition(t *testing.T) {
	an := newXMLAnalyzer(t, crontabXML)

	pos := positionAfter(t, []byte(crontabXML), `method="execute"`, len(`method="exe`))
	locs, err := an.OnDefinition(pos)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, protocol.DocumentUri("file:///project/app/code/Acme/Checkout/Cron/Cleanup.php"), locs[0].URI)
	assert.Equal(t, uint32(10), locs[0].Range.Start.Line)
	assert.Equal(t, uint32(20), locs[1].Range.Start.Line)
}

func TestXMLAnalyzerClassDefinition(t *testing.T) {
	an := newXMLAnalyzer(t, crontabXML)

	pos := positionAfter(t, []byte(crontabXML), `Acme\Checkout\Cron\Cleanup`, len(`Acme\`))
	locs, err := an.OnDefinition(pos)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, protocol.DocumentUri("file:///project/app/code/Acme/Checkout/Cron/Cleanup.php"), locs[0].URI)

	pos = positionAfter(t, []byte(crontabXML), `acme_cleanup`, 2)
	locs, err = an.OnDefinition(pos)
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestXMLAnalyzerServiceMethodDefinition(t *testing.T) {
	content := `<routes>
    <route url="/V1/acme/cleanup" method="POST">
        <service class="\Acme\Checkout\Cron\Cleanup" method="executeQuietly"/>
    </route>
</routes>`
	an := newXMLAnalyzer(t, content)

	pos := positionAfter(t, []byte(content), `method="executeQuietly"`, len(`method="e`))
	locs, err := an.OnDefinition(pos)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, uint32(20), locs[0].Range.Start.Line)

	// route@method is an HTTP verb, not a PHP method
	pos = positionAfter(t, []byte(content), `method="POST"`, len(`method="P`))
	locs, err = an.OnDefinition(pos)
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestXMLAnalyzerMethodCompletion(t *testing.T) {
	an := newXMLAnalyzer(t, crontabXML)

	pos := positionAfter(t, []byte(crontabXML), `method="execute"`, len(`method="execute`))
	items, err := an.OnCompletion(pos)
	require.NoError(t, err)
	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"execute", "executeQuietly"}, labels)
	require.NotNil(t, items[0].Detail)
	assert.Equal(t, cleanupFQN, *items[0].Detail)
}

func TestXMLAnalyzerModuleCompletion(t *testing.T) {
	content := `<config>
    <module name="Acme_Checkout">
        <sequence>
            <module name="Magento_Ch"/>
        </sequence>
    </module>
</config>`
	an := newXMLAnalyzer(t, content)

	pos := positionAfter(t, []byte(content), `"Magento_Ch"`, len(`"Magento_Ch`))
	items, err := an.OnCompletion(pos)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Magento_Checkout", items[0].Label)

	pos = positionAfter(t, []byte(content), `"Acme_Checkout"`, 2)
	items, err = an.OnCompletion(pos)
	require.NoError(t, err)
	assert.Empty(t, items)
}

const productPHP = `<?php
namespace Acme\Catalog\Model;

class Product
{
    public function __construct()
    {
    }

    public function getName(): string
    {
        return 'name';
    }

    private function load()
    {
    }
}
`

func TestPHPAnalyzerCodeActions(t *testing.T) {
	an := NewPHPAnalyzer().(*phpAnalyzer)
	require.NoError(t, an.Changed([]byte(productPHP), nil))
	t.Cleanup(an.Close)

	pos := positionAfter(t, []byte(productPHP), "getName", 2)
	actions, err := an.OnCodeAction(&protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///Product.php"},
		Range:        protocol.Range{Start: pos, End: pos},
	})
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, "Create before plugin for Product::getName", actions[0].Title)
	assert.Equal(t, "Create around plugin for Product::getName", actions[2].Title)

	cmd := actions[1].Command
	require.NotNil(t, cmd)
	assert.Equal(t, CommandCreatePlugin, cmd.Command)
	require.Len(t, cmd.Arguments, 1)
	assert.Equal(t, PluginCommandArgs{
		TargetClass:  "Acme\\Catalog\\Model\\Product",
		TargetMethod: "getName",
		Type:         "after",
	}, cmd.Arguments[0])
}

func TestPHPAnalyzerNoActionsOutsideInterceptableMethods(t *testing.T) {
	an := NewPHPAnalyzer().(*phpAnalyzer)
	require.NoError(t, an.Changed([]byte(productPHP), nil))
	t.Cleanup(an.Close)

	for _, needle := range []string{"__construct", "load()", "namespace"} {
		pos := positionAfter(t, []byte(productPHP), needle, 1)
		actions, err := an.OnCodeAction(&protocol.CodeActionParams{Range: protocol.Range{Start: pos, End: pos}})
		require.NoError(t, err)
		assert.Empty(t, actions, needle)
	}
}

func TestPHPAnalyzerCloseKeepsReopenedDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/Product.php", []byte("<?php class Stale {}"), 0o644))
	store := php.NewDocumentStore(fs, 10)

	open := func() *phpAnalyzer {
		an := NewPHPAnalyzer().(*phpAnalyzer)
		an.SetDocumentStore(store)
		an.SetDocumentPath("/project/Product.php")
		require.NoError(t, an.Changed([]byte(productPHP), nil))
		return an
	}
	previous := open()
	current := open()
	t.Cleanup(current.Close)

	previous.Close()

	doc, err := store.Get("/project/Product.php")
	require.NoError(t, err)
	assert.Same(t, current.doc, doc)
	_, ok := doc.Index().Class("Acme\\Catalog\\Model\\Product")
	assert.True(t, ok)
}
