package xmldoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const crontabXML = `<?xml version="1.0"?>
<config xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
    <group id="default">
        <job name="acme_reindex" instance="Acme\Catalog\Cron\Reindex" method="execute">
            <schedule>* * * * *</schedule>
        </job>
        <job name="acme_cleanup" instance='Acme\Catalog\Cron\Cleanup' method="run"/>
    </group>
</config>
`

func TestTreeNavigation(t *testing.T) {
	content := []byte(crontabXML)
	tree, err := Parse(content)
	require.NoError(t, err)
	defer tree.Close()

	root := RootElement(tree)
	require.False(t, root.IsNull())
	assert.Equal(t, "config", ElementName(root, content))

	group, ok := FindChild(root, content, "group", "id", "default")
	require.True(t, ok)

	jobs := ChildElements(group)
	require.Len(t, jobs, 2)

	instance, ok := Attr(jobs[0], content, "instance")
	require.True(t, ok)
	assert.Equal(t, "Acme\\Catalog\\Cron\\Reindex", instance)
	assert.False(t, EndTag(jobs[0]).IsNull())

	instance, ok = Attr(jobs[1], content, "instance")
	require.True(t, ok)
	assert.Equal(t, "Acme\\Catalog\\Cron\\Cleanup", instance)
	assert.True(t, EndTag(jobs[1]).IsNull())

	_, ok = FindChild(root, content, "group", "id", "index")
	assert.False(t, ok)

	attrs := Attributes(jobs[0], content)
	require.Len(t, attrs, 3)
	assert.Equal(t, []string{"name", "instance", "method"}, []string{attrs[0].Name, attrs[1].Name, attrs[2].Name})
	assert.Equal(t, "execute", crontabXML[attrs[2].ValueStart:attrs[2].ValueEnd])

	assert.Equal(t, group.StartByte(), ParentElement(jobs[0]).StartByte())
}

func TestAttributeAt(t *testing.T) {
	content := []byte(crontabXML)
	tree, err := Parse(content)
	require.NoError(t, err)
	defer tree.Close()

	line := 3
	col := strings.Index(strings.Split(crontabXML, "\n")[line], `"execute"`) + 3

	attr, ok := AttributeAt(tree, content, protocol.Position{Line: uint32(line), Character: uint32(col)})
	require.True(t, ok)
	assert.Equal(t, "method", attr.Name)
	assert.Equal(t, "execute", attr.Value)

	el := NearestElement(attr.Node)
	assert.Equal(t, "job", ElementName(el, content))

	_, ok = AttributeAt(tree, content, protocol.Position{Line: 4, Character: 24})
	assert.False(t, ok)
}
