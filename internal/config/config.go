package config

import (
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
)

// Config is shared by the language server and the CLI. The mapstructure
// tags are the keys used in .vimagento.yaml and in initializationOptions.
type Config struct {
	WorkspaceRoot string   `mapstructure:"workspace_root"`
	CodeRoots     []string `mapstructure:"code_roots"`
	VendorDir     string   `mapstructure:"vendor_dir"`
	PhpPath       string   `mapstructure:"php_path"`
	DefaultModule string   `mapstructure:"default_module"`
	PluginArea    string   `mapstructure:"plugin_area"`
	PluginDir     string   `mapstructure:"plugin_dir"`
	StoreSize     int      `mapstructure:"store_size"`

	Autoload AutoloadMap `mapstructure:"-"`
}

func NewConfig() *Config {
	return &Config{
		WorkspaceRoot: ".",
		CodeRoots:     []string{"app/code"},
		VendorDir:     "vendor",
		PhpPath:       "php",
		PluginArea:    "base",
		PluginDir:     "Plugin",
		StoreSize:     1000,
		Autoload:      AutoloadMap{PSR4: make(map[string][]string)},
	}
}

// ApplyOptions overrides fields with the values found in LSP initializationOptions.
func (c *Config) ApplyOptions(opts map[string]any) {
	if opts == nil {
		return
	}
	if roots := stringSlice(opts["code_roots"]); len(roots) > 0 {
		c.CodeRoots = roots
	}
	setString(&c.VendorDir, opts["vendor_dir"])
	setString(&c.PhpPath, opts["php_path"])
	setString(&c.DefaultModule, opts["default_module"])
	setString(&c.PluginArea, opts["plugin_area"])
	setString(&c.PluginDir, opts["plugin_dir"])
	if n, ok := opts["store_size"].(float64); ok && n > 0 {
		c.StoreSize = int(n)
	}
}

func setString(dst *string, v any) {
	if s, ok := v.(string); ok && s != "" {
		*dst = s
	}
}

func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range arr {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Abs resolves p against the workspace root.
func (c *Config) Abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.WorkspaceRoot, p)
}

// LoadAutoload collects PSR-4 mappings from the root composer.json and, when
// present, the composer generated autoload_psr4.php. extra is merged last.
func (c *Config) LoadAutoload(fs afero.Fs, extra map[string][]string) {
	logger := commonlog.GetLoggerf("vimagento.config")
	m := AutoloadMap{PSR4: make(map[string][]string)}

	composerFile := c.Abs("composer.json")
	if ok, _ := afero.Exists(fs, composerFile); ok {
		psr4, err := ComposerPsr4(fs, composerFile)
		if err != nil {
			logger.Warningf("could not load composer.json: %v", err)
		} else {
			m = m.Merge(psr4)
		}
	}

	if c.VendorDir != "" {
		autoloadFile := c.Abs(filepath.Join(c.VendorDir, "composer", "autoload_psr4.php"))
		if ok, _ := afero.Exists(fs, autoloadFile); ok {
			psr4, err := GetPsr4Map(autoloadFile, c.PhpPath)
			if err != nil {
				logger.Warningf("could not load psr4 map: %v", err)
			} else {
				m = m.Merge(psr4)
			}
		}
	}

	c.Autoload = m.Merge(extra)
	logger.Infof("loaded %d psr-4 mappings", len(c.Autoload.PSR4))
}
