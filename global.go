package modconf

import (
	"context"
	"sync"
)

var (
	globalMu       sync.Mutex
	globalRegistry *Registry
)

// Init method creates process-wide registry. Application level configuration
// is loaded once, so repeated calls return ErrDuplicateAppConfig.
func Init(opts ...Option) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalRegistry != nil {
		return ErrDuplicateAppConfig
	}

	r, err := New(opts...)

	if err != nil {
		return err
	}

	globalRegistry = r

	return nil
}

// Dir method resolves configuration of the module directory using process-wide
// registry. Init must be called first, otherwise ErrModuleBeforeApp is
// returned.
func Dir(dirname string) (*Resolved, error) {
	return DirContext(context.Background(), dirname)
}

// DirContext method is like Dir, but the context is passed to plugins.
func DirContext(ctx context.Context, dirname string) (*Resolved, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalRegistry == nil {
		return nil, ErrModuleBeforeApp
	}

	return globalRegistry.Resolve(ctx, dirname)
}

func resetGlobal() {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalRegistry = nil
}
