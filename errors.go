package modconf

import "errors"

const errPref = "modconf"

var (
	// ErrManifestNotFound is returned if no module manifest with a name exists
	// next to the module configuration directory.
	ErrManifestNotFound = errors.New(errPref + ": no manifest found")

	// ErrDuplicateAppConfig is returned on repeated registration of application
	// level configuration.
	ErrDuplicateAppConfig = errors.New(errPref + ": application configuration already registered")

	// ErrModuleBeforeApp is returned if module configuration is requested before
	// application configuration is initialized.
	ErrModuleBeforeApp = errors.New(errPref + ": module configuration requested before application")

	// ErrUnknownPlugin is returned if configuration refers to unregistered plugin.
	ErrUnknownPlugin = errors.New(errPref + ": unknown plugin")

	// ErrPlugin is returned if plugin entry is malformed or plugin failed.
	ErrPlugin = errors.New(errPref + ": plugin failed")
)
