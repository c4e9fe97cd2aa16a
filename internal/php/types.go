package php

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ClassKind distinguishes class-like declarations.
type ClassKind string

const (
	KindClass     ClassKind = "class"
	KindInterface ClassKind = "interface"
	KindTrait     ClassKind = "trait"
	KindEnum      ClassKind = "enum"
)

// Parameter is a method parameter. Type names are fully qualified with a
// leading backslash so the text can be pasted into any namespace.
type Parameter struct {
	Type     string
	Name     string
	Default  string
	ByRef    bool
	Variadic bool
}

// Declaration renders the parameter as it appears in a signature.
func (p Parameter) Declaration() string {
	var b strings.Builder
	if p.Type != "" {
		b.WriteString(p.Type)
		b.WriteByte(' ')
	}
	if p.ByRef {
		b.WriteByte('&')
	}
	if p.Variadic {
		b.WriteString("...")
	}
	b.WriteString(p.Name)
	if p.Default != "" {
		b.WriteString(" = ")
		b.WriteString(p.Default)
	}
	return b.String()
}

// Argument renders the parameter as a call argument.
func (p Parameter) Argument() string {
	if p.Variadic {
		return "..." + p.Name
	}
	return p.Name
}

// MethodInfo captures metadata about a method declaration.
type MethodInfo struct {
	Name       string
	Visibility string
	Static     bool
	Final      bool
	Abstract   bool
	Parameters []Parameter
	ReturnType string
	// Range covers the method name.
	Range     protocol.Range
	StartLine int
	EndLine   int
}

// ClassInfo describes a class-like declaration discovered in the file.
type ClassInfo struct {
	Name      string
	Namespace string
	FQN       string
	Kind      ClassKind
	Final     bool
	// Parent is the FQN of the extended class.
	Parent    string
	Methods   []MethodInfo
	// Range covers the class name.
	Range     protocol.Range
	StartLine int
	EndLine   int
	// BodyEnd is the byte offset of the closing brace of the class body.
	BodyEnd uint
}

// Method returns the method with the given name, compared case-insensitively like PHP does.
func (c ClassInfo) Method(name string) (MethodInfo, bool) {
	for _, m := range c.Methods {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return MethodInfo{}, false
}

// Index is the lightweight metadata extracted from a PHP source file.
type Index struct {
	Namespace string
	Uses      map[string]string
	Classes   []ClassInfo
}

// Class returns the class declared under the given fully qualified name.
func (i Index) Class(fqn string) (ClassInfo, bool) {
	fqn = normalizeFQN(fqn)
	for _, c := range i.Classes {
		if strings.EqualFold(c.FQN, fqn) {
			return c, true
		}
	}
	return ClassInfo{}, false
}

// ClassAtLine returns the innermost class spanning a zero-based line.
func (i Index) ClassAtLine(line int) (ClassInfo, bool) {
	for _, c := range i.Classes {
		if line+1 >= c.StartLine && line+1 <= c.EndLine {
			return c, true
		}
	}
	return ClassInfo{}, false
}
