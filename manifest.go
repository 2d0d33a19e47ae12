package modconf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iph0/modconf/fileconf"
)

// manifestFiles are looked up in the parent directory of module configuration
// directory. The first file providing module name wins.
var manifestFiles = []string{
	"package.json",
	"manifest.json",
	"manifest.yaml",
	"manifest.yml",
	"manifest.toml",
}

// Manifest describes the module, that owns configuration directory.
type Manifest struct {
	Name    string `conf:"name"`
	Version string `conf:"version"`
}

func readManifest(configDir string) (*Manifest, error) {
	moduleDir := filepath.Dir(configDir)
	formats := fileconf.DefaultFormats()

	for _, filename := range manifestFiles {
		path := filepath.Join(moduleDir, filename)

		if _, err := os.Stat(path); err != nil {
			continue
		}

		data, err := formats.DecodeFile(path)

		if err != nil {
			return nil, err
		}

		var manifest Manifest
		err = Tree(data).Decode(&manifest)

		if err != nil {
			return nil, fmt.Errorf("%s: invalid manifest %s: %w", errPref, path, err)
		}

		if manifest.Name != "" {
			return &manifest, nil
		}
	}

	return nil, fmt.Errorf("%w in %s", ErrManifestNotFound, moduleDir)
}
