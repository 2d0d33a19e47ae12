package modconf

import (
	"fmt"

	"github.com/iph0/modconf/merger"
)

type appSource int

// Application level sources in order of precedence. Inline configuration wins
// over configuration loaded from the override directory.
const (
	appDir appSource = iota
	appInline
	appSourcesNum
)

var appSourceNames = [appSourcesNum]string{
	appDir:    "APP_CONFIG_DIR",
	appInline: "APP_CONFIG",
}

// appChain holds application level overrides applied to every module.
type appChain struct {
	trees [appSourcesNum]map[string]any
	added [appSourcesNum]bool
}

func (c *appChain) add(source appSource, tree map[string]any) error {
	if c.added[source] {
		return fmt.Errorf("%w: %s", ErrDuplicateAppConfig, appSourceNames[source])
	}

	c.trees[source] = tree
	c.added[source] = true

	return nil
}

func (c *appChain) merged() map[string]any {
	return merger.Merge(c.trees[:]...)
}
