package magento

import (
	"encoding/xml"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/shinyvision/vimagento/internal/naming"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
)

// ModuleCatalog answers questions about the Magento modules of a project.
type ModuleCatalog interface {
	// EditableModuleNames lists modules that live in the project's own code roots.
	EditableModuleNames() []string
	// ModuleDir returns the absolute directory of a module.
	ModuleDir(name string) (string, bool)
	// ModuleForPath returns the module owning a file or directory.
	ModuleForPath(path string) (string, bool)
}

// Module is a module discovered on disk.
type Module struct {
	Name     string
	Dir      string
	Editable bool
	Sequence []string
}

// ModuleIndex scans code roots for etc/module.xml files.
type ModuleIndex struct {
	fs            afero.Fs
	workspaceRoot string
	codeRoots     []string
	vendorDir     string

	mu      sync.RWMutex
	modules map[string]Module
}

// NewModuleIndex creates an index. Relative code roots and vendorDir are
// resolved against workspaceRoot.
func NewModuleIndex(fsys afero.Fs, workspaceRoot string, codeRoots []string, vendorDir string) *ModuleIndex {
	return &ModuleIndex{
		fs:            fsys,
		workspaceRoot: workspaceRoot,
		codeRoots:     codeRoots,
		vendorDir:     vendorDir,
		modules:       make(map[string]Module),
	}
}

type moduleXML struct {
	XMLName xml.Name `xml:"config"`
	Module  struct {
		Name     string `xml:"name,attr"`
		Sequence struct {
			Modules []struct {
				Name string `xml:"name,attr"`
			} `xml:"module"`
		} `xml:"sequence"`
	} `xml:"module"`
}

// Scan rebuilds the index from disk.
func (idx *ModuleIndex) Scan() {
	logger := commonlog.GetLoggerf("vimagento.magento")
	modules := make(map[string]Module)

	for _, root := range idx.codeRoots {
		idx.scanRoot(idx.abs(root), true, modules)
	}
	if idx.vendorDir != "" {
		idx.scanRoot(idx.abs(idx.vendorDir), false, modules)
	}

	idx.mu.Lock()
	idx.modules = modules
	idx.mu.Unlock()

	logger.Infof("indexed %d modules", len(modules))
}

func (idx *ModuleIndex) abs(p string) string {
	if filepath.IsAbs(p) || idx.workspaceRoot == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(idx.workspaceRoot, p)
}

func (idx *ModuleIndex) scanRoot(root string, editable bool, into map[string]Module) {
	logger := commonlog.GetLoggerf("vimagento.magento")
	if ok, _ := afero.DirExists(idx.fs, root); !ok {
		return
	}

	moduleXMLSuffix := filepath.FromSlash(ModuleXMLFile)
	err := afero.Walk(idx.fs, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			switch info.Name() {
			case "node_modules", ".git", "Test", "tests", "view":
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != "module.xml" || !strings.HasSuffix(p, moduleXMLSuffix) {
			return nil
		}
		m, ok := idx.readModuleXML(p)
		if !ok {
			return nil
		}
		m.Editable = editable
		if existing, found := into[m.Name]; found && existing.Editable {
			return nil
		}
		into[m.Name] = m
		return nil
	})
	if err != nil {
		logger.Warningf("could not scan %s: %v", root, err)
	}
}

func (idx *ModuleIndex) readModuleXML(p string) (Module, bool) {
	logger := commonlog.GetLoggerf("vimagento.magento")
	data, err := afero.ReadFile(idx.fs, p)
	if err != nil {
		return Module{}, false
	}
	var doc moduleXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		logger.Debugf("skipping %s: %v", p, err)
		return Module{}, false
	}
	name := strings.TrimSpace(doc.Module.Name)
	if _, _, err := naming.ModuleSegments(name); err != nil {
		logger.Debugf("skipping %s: %v", p, err)
		return Module{}, false
	}
	m := Module{
		Name: name,
		Dir:  filepath.Dir(filepath.Dir(p)),
	}
	for _, s := range doc.Module.Sequence.Modules {
		if s.Name != "" {
			m.Sequence = append(m.Sequence, s.Name)
		}
	}
	return m, true
}

// Module returns a module by name.
func (idx *ModuleIndex) Module(name string) (Module, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	m, ok := idx.modules[name]
	return m, ok
}

// Modules returns every indexed module sorted by name.
func (idx *ModuleIndex) Modules() []Module {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]Module, 0, len(idx.modules))
	for _, m := range idx.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (idx *ModuleIndex) EditableModuleNames() []string {
	var names []string
	for _, m := range idx.Modules() {
		if m.Editable {
			names = append(names, m.Name)
		}
	}
	return names
}

// AllModuleNames lists every indexed module, editable or not.
func (idx *ModuleIndex) AllModuleNames() []string {
	var names []string
	for _, m := range idx.Modules() {
		names = append(names, m.Name)
	}
	return names
}

func (idx *ModuleIndex) ModuleDir(name string) (string, bool) {
	m, ok := idx.Module(name)
	if !ok {
		return "", false
	}
	return m.Dir, true
}

// ModuleForPath picks the module with the longest directory prefix of path.
func (idx *ModuleIndex) ModuleForPath(p string) (string, bool) {
	p = filepath.Clean(p)
	best := ""
	bestLen := -1
	for _, m := range idx.Modules() {
		if p != m.Dir && !strings.HasPrefix(p, m.Dir+string(filepath.Separator)) {
			continue
		}
		if len(m.Dir) > bestLen {
			best = m.Name
			bestLen = len(m.Dir)
		}
	}
	return best, bestLen >= 0
}

// Psr4 returns Vendor\Module\ prefixes for every indexed module.
func (idx *ModuleIndex) Psr4() map[string][]string {
	out := make(map[string][]string)
	for _, m := range idx.Modules() {
		vendor, module, err := naming.ModuleSegments(m.Name)
		if err != nil {
			continue
		}
		prefix := vendor + naming.FQNSeparator + module + naming.FQNSeparator
		out[prefix] = append(out[prefix], m.Dir)
	}
	return out
}
