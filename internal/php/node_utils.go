package php

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

var builtinTypes = map[string]bool{
	"int": true, "float": true, "string": true, "bool": true,
	"array": true, "iterable": true, "callable": true, "void": true,
	"mixed": true, "object": true, "null": true, "false": true, "true": true,
	"self": true, "parent": true, "static": true, "never": true,
}

func normalizeFQN(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\\\", "\\"))
	return strings.TrimLeft(name, "?\\")
}

func hasChildOfType(node sitter.Node, typ string) bool {
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		if node.NamedChild(i).Type() == typ {
			return true
		}
	}
	return false
}

func childOfType(node sitter.Node, types ...string) sitter.Node {
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		for _, t := range types {
			if child.Type() == t {
				return child
			}
		}
	}
	return sitter.Node{}
}

// qualify resolves a class reference the way PHP does at compile time: fully
// qualified names stay, the first segment is looked up in the use imports,
// anything else is relative to the current namespace.
func qualify(name, namespace string, uses map[string]string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "\\") {
		return normalizeFQN(name)
	}
	if builtinTypes[strings.ToLower(name)] {
		return name
	}
	first, rest, nested := strings.Cut(name, "\\")
	if full, ok := uses[strings.ToLower(first)]; ok {
		if nested {
			return full + "\\" + rest
		}
		return full
	}
	if namespace == "" {
		return name
	}
	return namespace + "\\" + name
}

// scope is the naming context of a declaration inside a class body.
type scope struct {
	namespace string
	uses      map[string]string
	// self and parent are the FQNs that self/static and parent stand for.
	self      string
	parent    string
}

// relative resolves self, static and parent to the class they name.
func (s scope) relative(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "self", "static":
		return s.self, s.self != ""
	case "parent":
		return s.parent, s.parent != ""
	}
	return "", false
}

// qualifyTypeNode rewrites every class name inside a type or constant
// expression to its fully qualified form with a leading backslash. self,
// static and parent become the class they refer to, so the text keeps its
// meaning when pasted into another class.
func qualifyTypeNode(node sitter.Node, content []byte, s scope) string {
	if node.IsNull() {
		return ""
	}
	start := uint(node.StartByte())
	text := node.Content(content)

	type replacement struct {
		start, end uint
		value      string
	}
	var reps []replacement
	replace := func(n sitter.Node, value string) {
		reps = append(reps, replacement{
			start: uint(n.StartByte()) - start,
			end:   uint(n.EndByte()) - start,
			value: "\\" + value,
		})
	}

	var walk func(n sitter.Node)
	walk = func(n sitter.Node) {
		switch n.Type() {
		case "named_type", "primitive_type", "relative_scope":
			raw := strings.TrimSpace(n.Content(content))
			if target, ok := s.relative(raw); ok {
				replace(n, target)
				return
			}
			if n.Type() != "named_type" || builtinTypes[strings.ToLower(raw)] {
				return
			}
			replace(n, qualify(raw, s.namespace, s.uses))
			return
		}
		for i := uint32(0); i < n.NamedChildCount(); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(node)

	if len(reps) == 0 {
		return text
	}
	var b strings.Builder
	last := uint(0)
	for _, r := range reps {
		b.WriteString(text[last:r.start])
		b.WriteString(r.value)
		last = r.end
	}
	b.WriteString(text[last:])
	return b.String()
}
