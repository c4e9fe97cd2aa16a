package generator

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/shinyvision/vimagento/internal/magento"
	"github.com/shinyvision/vimagento/internal/naming"
	"github.com/shinyvision/vimagento/internal/wizard"
	"github.com/shinyvision/vimagento/internal/xmldoc"
	"github.com/spf13/afero"
)

// PluginDiXmlGenerator registers plugins in the di.xml of their area.
type PluginDiXmlGenerator struct {
	fs afero.Fs
}

func NewPluginDiXmlGenerator(fs afero.Fs) *PluginDiXmlGenerator {
	return &PluginDiXmlGenerator{fs: fs}
}

// Generate adds the plugin declaration and returns the di.xml path.
func (g *PluginDiXmlGenerator) Generate(data wizard.PluginDiXmlData) (string, error) {
	if data.ModuleDir == "" {
		return "", ErrNoModuleDir
	}
	path := filepath.Join(data.ModuleDir, filepath.FromSlash(magento.DiXMLPath(data.Area)))

	found, err := exists(g.fs, path)
	if err != nil {
		return "", err
	}
	var content []byte
	if found {
		content, err = afero.ReadFile(g.fs, path)
		if err != nil {
			return "", fmt.Errorf("could not read %s: %w", path, err)
		}
	} else {
		content, err = render("di.xml.tmpl", nil)
		if err != nil {
			return "", err
		}
	}

	updated, err := AddPlugin(content, data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return path, writeFile(g.fs, path, updated)
}

// AddPlugin inserts a <plugin/> declaration for data into a di.xml document.
// The plugin goes into the existing <type> of the target class when there is
// one and into a new <type> before </config> otherwise. A declaration with the
// same name and class is left as is; the same name with another class is
// ErrPluginExists.
func AddPlugin(content []byte, data wizard.PluginDiXmlData) ([]byte, error) {
	tree, err := xmldoc.Parse(content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := xmldoc.RootElement(tree)
	if root.IsNull() || xmldoc.ElementName(root, content) != "config" {
		return nil, fmt.Errorf("no <config> root element")
	}

	target := naming.NormalizeFQN(data.TargetClass)
	rootIndent := lineIndent(content, int(root.StartByte()))
	typeIndent := rootIndent + indent

	for _, el := range xmldoc.ChildElements(root) {
		if xmldoc.ElementName(el, content) != "type" {
			continue
		}
		name, _ := xmldoc.Attr(el, content, "name")
		if naming.NormalizeFQN(name) != target {
			continue
		}
		for _, p := range xmldoc.ChildElements(el) {
			if xmldoc.ElementName(p, content) != "plugin" {
				continue
			}
			if v, _ := xmldoc.Attr(p, content, "name"); v != data.Name {
				continue
			}
			if typ, _ := xmldoc.Attr(p, content, "type"); naming.NormalizeFQN(typ) == naming.NormalizeFQN(data.PluginFQN) {
				return content, nil
			}
			return nil, fmt.Errorf("%w: %s on %s", ErrPluginExists, data.Name, target)
		}
		elIndent := lineIndent(content, int(el.StartByte()))
		line := pluginElement(data)
		if end := xmldoc.EndTag(el); !end.IsNull() {
			return insertBefore(content, end, elIndent+indent, []string{line}), nil
		}
		return expandEmptyElement(content, el, elIndent, line)
	}

	end := xmldoc.EndTag(root)
	if end.IsNull() {
		return nil, fmt.Errorf("<config> has no closing tag")
	}
	block := []string{
		"<type name=\"" + escape(target) + "\">",
		indent + pluginElement(data),
		"</type>",
	}
	return insertBefore(content, end, typeIndent, block), nil
}

func pluginElement(data wizard.PluginDiXmlData) string {
	var b strings.Builder
	b.WriteString("<plugin name=\"" + escape(data.Name) + "\"")
	b.WriteString(" type=\"" + escape(naming.NormalizeFQN(data.PluginFQN)) + "\"")
	if data.SortOrder != "" {
		b.WriteString(" sortOrder=\"" + escape(data.SortOrder) + "\"")
	}
	b.WriteString("/>")
	return b.String()
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// insertBefore puts lines, each prefixed with prefix, on their own lines right
// above the end tag.
func insertBefore(content []byte, end sitter.Node, prefix string, lines []string) []byte {
	at := int(end.StartByte())
	start := lineStart(content, at)
	closingIndent := string(content[start:at])

	var b bytes.Buffer
	if strings.TrimSpace(closingIndent) == "" {
		b.Write(content[:start])
		for _, l := range lines {
			b.WriteString(prefix + l + "\n")
		}
		b.Write(content[start:])
		return b.Bytes()
	}

	b.Write(content[:at])
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(prefix + l + "\n")
	}
	b.WriteString(strings.TrimSuffix(prefix, indent))
	b.Write(content[at:])
	return b.Bytes()
}

// expandEmptyElement rewrites <type name="X"/> into an open element holding line.
func expandEmptyElement(content []byte, el sitter.Node, elIndent, line string) ([]byte, error) {
	tag := xmldoc.StartTag(el)
	if tag.IsNull() || tag.Type() != "EmptyElemTag" {
		return nil, fmt.Errorf("malformed <type> element")
	}
	end := int(tag.EndByte())
	raw := string(content[tag.StartByte():end])
	open := strings.TrimRight(strings.TrimSuffix(raw, "/>"), " \t")

	var b bytes.Buffer
	b.Write(content[:tag.StartByte()])
	b.WriteString(open + ">\n")
	b.WriteString(elIndent + indent + line + "\n")
	b.WriteString(elIndent + "</type>")
	b.Write(content[end:])
	return b.Bytes(), nil
}

func lineStart(content []byte, at int) int {
	if i := bytes.LastIndexByte(content[:at], '\n'); i != -1 {
		return i + 1
	}
	return 0
}

func lineIndent(content []byte, at int) string {
	start := lineStart(content, at)
	i := start
	for i < at && (content[i] == ' ' || content[i] == '\t') {
		i++
	}
	return string(content[start:i])
}
