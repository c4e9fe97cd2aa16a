// Package generator writes the PHP classes and XML configuration described by
// wizard artifacts into a module.
package generator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
)

var (
	ErrFileExists   = errors.New("file already exists")
	ErrMethodExists = errors.New("method already exists")
	ErrPluginExists = errors.New("plugin already declared")
	ErrNoModuleDir  = errors.New("module directory is unknown")
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("could not render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func writeFile(fs afero.Fs, path string, content []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create %s: %w", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(fs, path, content, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	commonlog.GetLoggerf("vimagento.generator").Infof("wrote %s", path)
	return nil
}

func classFilePath(moduleDir, directory, className string) (string, error) {
	if moduleDir == "" {
		return "", ErrNoModuleDir
	}
	return filepath.Join(moduleDir, filepath.FromSlash(directory), className+".php"), nil
}

func exists(fs afero.Fs, path string) (bool, error) {
	_, err := fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
