package fileconf

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDirectoryRead is returned if configuration directory can't be listed
	// in strict mode.
	ErrDirectoryRead = errors.New(errPref + ": can't read config from dir")

	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New(errPref + ": unsupported file format")

	// ErrParse is returned if configuration file can't be decoded.
	ErrParse = errors.New(errPref + ": parse error")

	// ErrStrictMode is returned if required configuration files are missing in
	// strict mode.
	ErrStrictMode = errors.New(errPref + ": strict mode failed")
)

// StrictModeError describes failed strict mode checks.
type StrictModeError struct {
	Dir     string
	Reasons []string
}

func (e *StrictModeError) Error() string {
	return fmt.Sprintf("%s in %s: %s", ErrStrictMode, e.Dir,
		strings.Join(e.Reasons, "; "))
}

// Is method makes StrictModeError match ErrStrictMode.
func (e *StrictModeError) Is(target error) bool {
	return target == ErrStrictMode
}
