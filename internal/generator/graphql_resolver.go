package generator

import (
	"fmt"

	"github.com/shinyvision/vimagento/internal/wizard"
	"github.com/spf13/afero"
)

// GraphQlResolverClassGenerator writes new GraphQL resolver classes.
type GraphQlResolverClassGenerator struct {
	fs afero.Fs
}

func NewGraphQlResolverClassGenerator(fs afero.Fs) *GraphQlResolverClassGenerator {
	return &GraphQlResolverClassGenerator{fs: fs}
}

// Generate writes the resolver class and returns its path. Existing files are
// never overwritten.
func (g *GraphQlResolverClassGenerator) Generate(data wizard.GraphQlResolverFileData) (string, error) {
	path, err := classFilePath(data.ModuleDir, data.Directory, data.ClassName)
	if err != nil {
		return "", err
	}
	found, err := exists(g.fs, path)
	if err != nil {
		return "", err
	}
	if found {
		return "", fmt.Errorf("%w: %s", ErrFileExists, path)
	}
	content, err := render("graphql_resolver.php.tmpl", data)
	if err != nil {
		return "", err
	}
	return path, writeFile(g.fs, path, content)
}
