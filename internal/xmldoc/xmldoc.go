// Package xmldoc wraps the tree-sitter XML grammar with the few element and
// attribute lookups needed for Magento configuration files.
package xmldoc

import (
	"bytes"
	"context"
	"slices"
	"unicode"

	tsxml "github.com/alexaandru/go-sitter-forest/xml"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/shinyvision/vimagento/internal/utils"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// NewParser returns a parser configured for XML.
func NewParser() *sitter.Parser {
	p := sitter.NewParser()
	_ = p.SetLanguage(sitter.NewLanguage(tsxml.GetLanguage()))
	return p
}

// Parse parses content from scratch.
func Parse(content []byte) (*sitter.Tree, error) {
	return NewParser().ParseString(context.Background(), nil, content)
}

// Attribute is a parsed name="value" pair. ValueStart and ValueEnd are byte
// offsets of the value without its quotes.
type Attribute struct {
	Node       sitter.Node
	Name       string
	Value      string
	ValueStart int
	ValueEnd   int
}

// AscendTo returns the closest ancestor (or n itself) with one of the given types.
func AscendTo(n sitter.Node, types ...string) sitter.Node {
	for cur := n; !cur.IsNull(); cur = cur.Parent() {
		if slices.Contains(types, cur.Type()) {
			return cur
		}
	}
	return sitter.Node{}
}

// NearestElement returns n or its closest element ancestor.
func NearestElement(n sitter.Node) sitter.Node {
	return AscendTo(n, "element")
}

// ParentElement returns the element enclosing el.
func ParentElement(el sitter.Node) sitter.Node {
	if el.IsNull() {
		return sitter.Node{}
	}
	return NearestElement(el.Parent())
}

// StartTag returns the STag or EmptyElemTag of an element.
func StartTag(el sitter.Node) sitter.Node {
	if el.IsNull() {
		return sitter.Node{}
	}
	for i := uint32(0); i < el.NamedChildCount(); i++ {
		child := el.NamedChild(i)
		switch child.Type() {
		case "STag", "EmptyElemTag":
			return child
		}
	}
	return sitter.Node{}
}

// EndTag returns the ETag of an element, or a null node for self-closing elements.
func EndTag(el sitter.Node) sitter.Node {
	for i := uint32(0); i < el.NamedChildCount(); i++ {
		if child := el.NamedChild(i); child.Type() == "ETag" {
			return child
		}
	}
	return sitter.Node{}
}

// ElementName returns the tag name of an element.
func ElementName(el sitter.Node, content []byte) string {
	tag := StartTag(el)
	if tag.IsNull() {
		return ""
	}
	return TagName(tag, content)
}

// TagName extracts the name of an STag, ETag or EmptyElemTag node.
func TagName(tag sitter.Node, content []byte) string {
	for i := uint32(0); i < tag.NamedChildCount(); i++ {
		child := tag.NamedChild(i)
		if !child.IsNull() && child.Type() == "Name" {
			return child.Content(content)
		}
	}
	raw := []byte(tag.Content(content))
	j := 0
	for j < len(raw) && raw[j] != '<' {
		j++
	}
	for j < len(raw) && (raw[j] == '<' || raw[j] == '/') {
		j++
	}
	k := j
	for k < len(raw) && isNameChar(raw[k]) {
		k++
	}
	return string(raw[j:k])
}

func isNameChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	}
	switch b {
	case '-', '_', '.', ':':
		return true
	default:
		return false
	}
}

// ParseAttribute reads the name and value of an Attribute node.
func ParseAttribute(attr sitter.Node, content []byte) (Attribute, bool) {
	if attr.IsNull() || attr.Type() != "Attribute" {
		return Attribute{}, false
	}
	start := int(attr.StartByte())
	end := int(attr.EndByte())
	if start >= end || start >= len(content) {
		return Attribute{}, false
	}
	end = min(end, len(content))

	a := Attribute{Node: attr, Name: attributeName(attr, content)}
	segment := content[start:end]
	eq := bytes.IndexByte(segment, '=')
	if eq == -1 {
		return Attribute{}, false
	}
	i := eq + 1
	for i < len(segment) && unicode.IsSpace(rune(segment[i])) {
		i++
	}
	if i >= len(segment) {
		return Attribute{}, false
	}
	q := segment[i]
	if q != '"' && q != '\'' {
		return Attribute{}, false
	}
	a.ValueStart = start + i + 1
	a.ValueEnd = end
	if j := bytes.IndexByte(segment[i+1:], q); j != -1 {
		a.ValueEnd = start + i + 1 + j
	}
	a.Value = string(content[a.ValueStart:a.ValueEnd])
	return a, true
}

func attributeName(attr sitter.Node, content []byte) string {
	for i := uint32(0); i < attr.NamedChildCount(); i++ {
		child := attr.NamedChild(i)
		if !child.IsNull() && child.Type() == "Name" {
			return child.Content(content)
		}
	}
	text := bytes.TrimSpace(content[attr.StartByte():attr.EndByte()])
	i := 0
	for i < len(text) && !unicode.IsSpace(rune(text[i])) && text[i] != '=' {
		i++
	}
	return string(text[:i])
}

// Attributes returns the attributes of an element's start tag in source order.
func Attributes(el sitter.Node, content []byte) []Attribute {
	tag := StartTag(el)
	if tag.IsNull() {
		return nil
	}
	var out []Attribute
	for i := uint32(0); i < tag.NamedChildCount(); i++ {
		if a, ok := ParseAttribute(tag.NamedChild(i), content); ok {
			out = append(out, a)
		}
	}
	return out
}

// Attr returns the value of the named attribute of an element.
func Attr(el sitter.Node, content []byte, name string) (string, bool) {
	for _, a := range Attributes(el, content) {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ChildElements returns the direct child elements of el.
func ChildElements(el sitter.Node) []sitter.Node {
	var out []sitter.Node
	for i := uint32(0); i < el.NamedChildCount(); i++ {
		child := el.NamedChild(i)
		if child.Type() != "content" {
			continue
		}
		for j := uint32(0); j < child.NamedChildCount(); j++ {
			if c := child.NamedChild(j); c.Type() == "element" {
				out = append(out, c)
			}
		}
	}
	return out
}

// RootElement returns the document element.
func RootElement(tree *sitter.Tree) sitter.Node {
	if tree == nil {
		return sitter.Node{}
	}
	root := tree.RootNode()
	for i := uint32(0); i < root.NamedChildCount(); i++ {
		if child := root.NamedChild(i); child.Type() == "element" {
			return child
		}
	}
	return sitter.Node{}
}

// FindChild returns the first direct child element named name whose
// attribute attr equals value. An empty attr matches any child with that name.
func FindChild(el sitter.Node, content []byte, name, attr, value string) (sitter.Node, bool) {
	for _, child := range ChildElements(el) {
		if ElementName(child, content) != name {
			continue
		}
		if attr == "" {
			return child, true
		}
		if v, ok := Attr(child, content, attr); ok && v == value {
			return child, true
		}
	}
	return sitter.Node{}, false
}

// AttributeAt returns the attribute whose value contains the caret.
func AttributeAt(tree *sitter.Tree, content []byte, pos protocol.Position) (Attribute, bool) {
	if tree == nil {
		return Attribute{}, false
	}
	point, ok := utils.LspPosToPoint(pos, content)
	if !ok {
		return Attribute{}, false
	}
	offset := utils.LspPosToByteOffset(content, pos)
	root := tree.RootNode()
	if root.IsNull() || offset < 0 {
		return Attribute{}, false
	}
	node := root.NamedDescendantForPointRange(point, point)
	attrNode := AscendTo(node, "Attribute")
	if attrNode.IsNull() {
		return Attribute{}, false
	}
	a, ok := ParseAttribute(attrNode, content)
	if !ok || offset < a.ValueStart || offset > a.ValueEnd {
		return Attribute{}, false
	}
	return a, true
}
