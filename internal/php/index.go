package php

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/shinyvision/vimagento/internal/utils"
)

type indexBuilder struct {
	content   []byte
	namespace string
	uses      map[string]string
	index     Index
	// scope of the class being indexed
	scope     scope
}

func buildIndex(tree *sitter.Tree, content []byte) Index {
	b := &indexBuilder{
		content: content,
		uses:    make(map[string]string),
	}
	b.index.Uses = b.uses
	if tree == nil {
		return b.index
	}
	root := tree.RootNode()
	if root.IsNull() {
		return b.index
	}
	b.visit(root)
	b.index.Namespace = b.namespace
	return b.index
}

// visit walks declarations in source order so that namespace and use
// statements are known before the classes that follow them.
func (b *indexBuilder) visit(node sitter.Node) {
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "namespace_definition":
			if nameNode := child.ChildByFieldName("name"); !nameNode.IsNull() {
				b.namespace = normalizeFQN(nameNode.Content(b.content))
			}
			if body := child.ChildByFieldName("body"); !body.IsNull() {
				b.visit(body)
			}
		case "namespace_use_declaration":
			b.collectUses(child)
		case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
			if info, ok := b.classInfo(child); ok {
				b.index.Classes = append(b.index.Classes, info)
			}
		case "compound_statement":
			b.visit(child)
		}
	}
}

func (b *indexBuilder) collectUses(decl sitter.Node) {
	for i := uint32(0); i < decl.NamedChildCount(); i++ {
		clause := decl.NamedChild(i)
		if clause.Type() != "namespace_use_clause" {
			continue
		}
		nameNode := childOfType(clause, "qualified_name", "name")
		if nameNode.IsNull() {
			continue
		}
		full := normalizeFQN(nameNode.Content(b.content))
		alias := shortName(full)
		if aliasNode := clause.ChildByFieldName("alias"); !aliasNode.IsNull() {
			alias = strings.TrimSpace(aliasNode.Content(b.content))
		} else if n := clause.NamedChildCount(); n > 1 {
			if last := clause.NamedChild(n - 1); last.Type() == "name" && last.StartByte() != nameNode.StartByte() {
				alias = strings.TrimSpace(last.Content(b.content))
			}
		}
		b.uses[strings.ToLower(alias)] = full
	}
}

func (b *indexBuilder) classInfo(node sitter.Node) (ClassInfo, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode.IsNull() {
		return ClassInfo{}, false
	}
	name := strings.TrimSpace(nameNode.Content(b.content))
	fqn := name
	if b.namespace != "" {
		fqn = b.namespace + "\\" + name
	}

	info := ClassInfo{
		Name:      name,
		Namespace: b.namespace,
		FQN:       fqn,
		Kind:      classKind(node.Type()),
		Final:     hasChildOfType(node, "final_modifier"),
		Parent:    b.parentClass(node),
		Range:     utils.NodeRange(nameNode),
		StartLine: int(node.StartPoint().Row) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
	}

	body := node.ChildByFieldName("body")
	if body.IsNull() {
		return info, true
	}
	info.BodyEnd = uint(body.EndByte())
	b.scope = scope{namespace: b.namespace, uses: b.uses, self: fqn, parent: info.Parent}
	for i := uint32(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child.Type() != "method_declaration" {
			continue
		}
		if m, ok := b.methodInfo(child); ok {
			info.Methods = append(info.Methods, m)
		}
	}
	return info, true
}

// parentClass returns the FQN of the extended class, if any.
func (b *indexBuilder) parentClass(node sitter.Node) string {
	if node.Type() != "class_declaration" {
		return ""
	}
	base := childOfType(node, "base_clause")
	if base.IsNull() {
		return ""
	}
	name := childOfType(base, "qualified_name", "name")
	if name.IsNull() {
		return ""
	}
	return qualify(name.Content(b.content), b.namespace, b.uses)
}

func classKind(nodeType string) ClassKind {
	switch nodeType {
	case "interface_declaration":
		return KindInterface
	case "trait_declaration":
		return KindTrait
	case "enum_declaration":
		return KindEnum
	}
	return KindClass
}

func (b *indexBuilder) methodInfo(node sitter.Node) (MethodInfo, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode.IsNull() {
		return MethodInfo{}, false
	}
	name := strings.TrimSpace(nameNode.Content(b.content))
	if name == "" {
		return MethodInfo{}, false
	}

	m := MethodInfo{
		Name:       name,
		Visibility: "public",
		Range:      utils.NodeRange(nameNode),
		StartLine:  int(node.StartPoint().Row) + 1,
		EndLine:    int(node.EndPoint().Row) + 1,
	}
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "visibility_modifier":
			m.Visibility = strings.ToLower(strings.TrimSpace(child.Content(b.content)))
		case "static_modifier":
			m.Static = true
		case "final_modifier":
			m.Final = true
		case "abstract_modifier":
			m.Abstract = true
		}
	}

	if params := node.ChildByFieldName("parameters"); !params.IsNull() {
		for i := uint32(0); i < params.NamedChildCount(); i++ {
			if p, ok := b.parameter(params.NamedChild(i)); ok {
				m.Parameters = append(m.Parameters, p)
			}
		}
	}
	if ret := node.ChildByFieldName("return_type"); !ret.IsNull() {
		m.ReturnType = qualifyTypeNode(ret, b.content, b.scope)
	}
	return m, true
}

func (b *indexBuilder) parameter(node sitter.Node) (Parameter, bool) {
	switch node.Type() {
	case "simple_parameter", "variadic_parameter", "property_promotion_parameter":
	default:
		return Parameter{}, false
	}
	nameNode := node.ChildByFieldName("name")
	if nameNode.IsNull() {
		return Parameter{}, false
	}
	p := Parameter{
		Name:     strings.TrimSpace(nameNode.Content(b.content)),
		Variadic: node.Type() == "variadic_parameter",
	}
	if typeNode := node.ChildByFieldName("type"); !typeNode.IsNull() {
		p.Type = qualifyTypeNode(typeNode, b.content, b.scope)
	}
	if def := node.ChildByFieldName("default_value"); !def.IsNull() {
		p.Default = strings.TrimSpace(qualifyTypeNode(def, b.content, b.scope))
	}
	if ref := node.ChildByFieldName("reference_modifier"); !ref.IsNull() {
		p.ByRef = true
	} else if hasChildOfType(node, "reference_modifier") {
		p.ByRef = true
	}
	return p, true
}

func shortName(fqn string) string {
	if i := strings.LastIndex(fqn, "\\"); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}
