package theme

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the optional YAML sidecar describing a custom theme. It lives
// next to the CSS file with the same base name (theme.yaml for theme.css).
type Manifest struct {
	DisplayName string `yaml:"display_name"`
	Author      string `yaml:"author"`
	Dark        bool   `yaml:"dark"`
}

// LoadManifest loads the manifest for the given stylesheet path. Returns
// false when no manifest exists or it cannot be parsed.
func LoadManifest(cssPath string) (Manifest, bool) {
	if cssPath == "" {
		return Manifest{}, false
	}
	base := strings.TrimSuffix(cssPath, filepath.Ext(cssPath))
	for _, ext := range []string{".yaml", ".yml"} {
		data, err := os.ReadFile(base + ext)
		if err != nil {
			continue
		}
		var m Manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return Manifest{}, false
		}
		return m, true
	}
	return Manifest{}, false
}
