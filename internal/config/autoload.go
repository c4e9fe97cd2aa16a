package config

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// AutoloadMap holds PSR-4 namespace prefixes and the directories they map to.
type AutoloadMap struct {
	PSR4 map[string][]string
}

func (m AutoloadMap) IsEmpty() bool {
	return len(m.PSR4) == 0
}

// Merge returns a map containing the prefixes of both maps. Directories of
// other are appended after the ones already present.
func (m AutoloadMap) Merge(other map[string][]string) AutoloadMap {
	out := AutoloadMap{PSR4: make(map[string][]string, len(m.PSR4)+len(other))}
	for prefix, dirs := range m.PSR4 {
		out.PSR4[prefix] = append([]string(nil), dirs...)
	}
	for prefix, dirs := range other {
		for _, d := range dirs {
			if !slices.Contains(out.PSR4[prefix], d) {
				out.PSR4[prefix] = append(out.PSR4[prefix], d)
			}
		}
	}
	return out
}

// AutoloadResolve maps a class name to the file that should declare it. The
// longest matching prefix wins; among its directories the first existing file
// is returned.
func AutoloadResolve(fs afero.Fs, className string, m AutoloadMap, workspaceRoot string) (string, bool) {
	className = strings.TrimLeft(strings.TrimSpace(className), "\\")
	if className == "" || m.IsEmpty() {
		return "", false
	}

	prefixes := make([]string, 0, len(m.PSR4))
	for prefix := range m.PSR4 {
		if strings.HasPrefix(className, prefix) {
			prefixes = append(prefixes, prefix)
		}
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	for _, prefix := range prefixes {
		relative := strings.ReplaceAll(strings.TrimPrefix(className, prefix), "\\", string(filepath.Separator)) + ".php"
		for _, dir := range m.PSR4[prefix] {
			if !filepath.IsAbs(dir) && workspaceRoot != "" {
				dir = filepath.Join(workspaceRoot, dir)
			}
			candidate := filepath.Join(dir, relative)
			if ok, _ := afero.Exists(fs, candidate); ok {
				return candidate, true
			}
		}
	}
	return "", false
}

type composerJSON struct {
	Autoload struct {
		PSR4 map[string]json.RawMessage `json:"psr-4"`
	} `json:"autoload"`
}

// ComposerPsr4 reads the psr-4 section of a composer.json file. Directories
// are resolved against the directory holding the file.
func ComposerPsr4(fs afero.Fs, composerFile string) (map[string][]string, error) {
	data, err := afero.ReadFile(fs, composerFile)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", composerFile, err)
	}
	var c composerJSON
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("could not unmarshal %s: %w", composerFile, err)
	}

	base := filepath.Dir(composerFile)
	out := make(map[string][]string, len(c.Autoload.PSR4))
	for prefix, raw := range c.Autoload.PSR4 {
		var dirs []string
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			dirs = []string{single}
		} else if err := json.Unmarshal(raw, &dirs); err != nil {
			return nil, fmt.Errorf("invalid psr-4 entry for %q in %s: %w", prefix, composerFile, err)
		}
		for _, d := range dirs {
			out[prefix] = append(out[prefix], filepath.Join(base, d))
		}
	}
	return out, nil
}

// GetPsr4Map evaluates vendor/composer/autoload_psr4.php with the php binary.
func GetPsr4Map(autoloadFile, phpPath string) (map[string][]string, error) {
	// php needs an absolute path, it resolves require relative to its own cwd.
	absAutoloadFile, err := filepath.Abs(autoloadFile)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute path for %s: %w", autoloadFile, err)
	}
	if phpPath == "" {
		phpPath = "php"
	}

	cmd := exec.Command(phpPath, "-r", fmt.Sprintf("echo json_encode(require '%s');", absAutoloadFile))
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("could not execute php script: %w", err)
	}

	var psr4Map map[string][]string
	if err := json.Unmarshal(out, &psr4Map); err != nil {
		return nil, fmt.Errorf("could not unmarshal json: %w", err)
	}

	return psr4Map, nil
}
