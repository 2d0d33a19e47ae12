package modconf

import (
	"fmt"
	"os"
	"path/filepath"
)

const configDirName = "config"

// normConfigDir returns absolute clean path of module configuration directory.
// All configuration files reside in a directory named "config", so the name is
// appended, if the path doesn't end with it. Empty path means the working
// directory.
func normConfigDir(dirname string) (string, error) {
	if dirname == "" {
		wd, err := os.Getwd()

		if err != nil {
			return "", fmt.Errorf("%s: %w", errPref, err)
		}

		dirname = wd
	}

	dirname, err := filepath.Abs(dirname)

	if err != nil {
		return "", fmt.Errorf("%s: %w", errPref, err)
	}

	if filepath.Base(dirname) != configDirName {
		dirname = filepath.Join(dirname, configDirName)
	}

	return dirname, nil
}
