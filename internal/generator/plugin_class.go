package generator

import (
	"fmt"
	"strings"

	"github.com/shinyvision/vimagento/internal/magento"
	"github.com/shinyvision/vimagento/internal/php"
	"github.com/shinyvision/vimagento/internal/wizard"
	"github.com/spf13/afero"
)

const indent = "    "

// PluginClassGenerator writes the interceptor class, or adds the interceptor
// method to the class when the file already exists.
type PluginClassGenerator struct {
	fs afero.Fs
}

func NewPluginClassGenerator(fs afero.Fs) *PluginClassGenerator {
	return &PluginClassGenerator{fs: fs}
}

// Generate returns the path of the written class file.
func (g *PluginClassGenerator) Generate(data wizard.PluginFileData) (string, error) {
	path, err := classFilePath(data.ModuleDir, data.Directory, data.ClassName)
	if err != nil {
		return "", err
	}
	method := PluginMethod(data)

	found, err := exists(g.fs, path)
	if err != nil {
		return "", err
	}
	if !found {
		content, err := render("plugin_class.php.tmpl", struct {
			Namespace string
			ClassName string
			Method    string
		}{data.Namespace, data.ClassName, method})
		if err != nil {
			return "", err
		}
		return path, writeFile(g.fs, path, content)
	}

	existing, err := afero.ReadFile(g.fs, path)
	if err != nil {
		return "", fmt.Errorf("could not read %s: %w", path, err)
	}
	updated, err := appendMethod(existing, data, method)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return path, writeFile(g.fs, path, updated)
}

func appendMethod(content []byte, data wizard.PluginFileData, method string) ([]byte, error) {
	doc := php.NewDocument()
	defer doc.Close()
	if err := doc.Update(content, nil); err != nil {
		return nil, err
	}

	class, ok := doc.Index().Class(data.FQN)
	if !ok {
		return nil, fmt.Errorf("%w: it does not declare %s", ErrFileExists, data.FQN)
	}
	name := magento.PluginMethodName(data.Type, data.TargetMethod.Name)
	if _, ok := class.Method(name); ok {
		return nil, fmt.Errorf("%w: %s::%s", ErrMethodExists, data.FQN, name)
	}
	if class.BodyEnd == 0 || int(class.BodyEnd) > len(content) {
		return nil, fmt.Errorf("could not locate the body of %s", data.FQN)
	}

	closing := int(class.BodyEnd) - 1
	head := strings.TrimRight(string(content[:closing]), " \t\r\n")
	separator := "\n\n"
	if strings.HasSuffix(head, "{") {
		separator = "\n"
	}
	var b strings.Builder
	b.WriteString(head)
	b.WriteString(separator)
	b.WriteString(method)
	b.Write(content[closing:])
	return []byte(b.String()), nil
}

// PluginMethod renders the interceptor method, indented for a class body and
// terminated by a newline.
func PluginMethod(data wizard.PluginFileData) string {
	target := data.TargetMethod
	params := []string{"\\" + strings.TrimPrefix(data.TargetClass, "\\") + " $subject"}
	switch data.Type {
	case magento.PluginAfter:
		params = append(params, "$result")
	case magento.PluginAround:
		params = append(params, "callable $proceed")
	}
	args := make([]string, 0, len(target.Parameters))
	for _, p := range target.Parameters {
		params = append(params, p.Declaration())
		args = append(args, p.Argument())
	}

	returnType := strings.TrimSpace(target.ReturnType)
	void := returnType == "void" || returnType == "never"

	var signature, body string
	name := magento.PluginMethodName(data.Type, target.Name)
	switch data.Type {
	case magento.PluginBefore:
		signature = name + "(" + strings.Join(params, ", ") + ")"
		if len(args) == 0 {
			body = "return null;"
		} else {
			body = "return [" + strings.Join(args, ", ") + "];"
		}
	case magento.PluginAfter:
		signature = name + "(" + strings.Join(params, ", ") + ")"
		if returnType != "" && !void {
			signature += ": " + returnType
		}
		body = "return $result;"
	default:
		signature = name + "(" + strings.Join(params, ", ") + ")"
		call := "$proceed(" + strings.Join(args, ", ") + ");"
		switch {
		case void:
			signature += ": void"
			body = call
		case returnType != "":
			signature += ": " + returnType
			body = "return " + call
		default:
			body = "return " + call
		}
	}

	var b strings.Builder
	b.WriteString(indent + "public function " + signature + "\n")
	b.WriteString(indent + "{\n")
	b.WriteString(indent + indent + body + "\n")
	b.WriteString(indent + "}\n")
	return b.String()
}
