package modconf

import (
	"github.com/iph0/modconf/merger"
	"github.com/iph0/modconf/vaultconf"
)

// State is a state of module directory entry.
type State int

// Module entry states. Entries move from Unloaded to Merged, never back.
const (
	Unloaded State = iota
	Loaded
	Merged
)

var stateNames = map[State]string{
	Unloaded: "unloaded",
	Loaded:   "loaded",
	Merged:   "merged",
}

func (s State) String() string {
	return stateNames[s]
}

// ModuleInfo describes registered module directory.
type ModuleInfo struct {
	Name    string
	Version string
	Dir     string
	State   State
}

type entry struct {
	name    string
	version string
	dirname string
	state   State

	raw     map[string]any
	config  map[string]any
	common  map[string]any
	plugins any
}

func (e *entry) load(raw map[string]any) {
	e.raw = raw
	e.state = Loaded
}

// merge layers application overrides over module configuration and picks
// module and version specific sections. Raw tree is released afterwards.
func (e *entry) merge(app map[string]any, vault *vaultconf.Vault) error {
	combined := merger.Merge(e.raw, app)

	config := merger.Merge(
		merger.Tree(combined[e.name]),
		merger.Tree(combined[e.name+"@"+e.version]),
	)

	common := merger.Clone(merger.Tree(combined[commonKey]))

	if vault != nil {
		var err error
		config, err = vault.Decrypt(config)

		if err != nil {
			return err
		}

		common, err = vault.Decrypt(common)

		if err != nil {
			return err
		}
	}

	e.config = config
	e.common = common
	e.plugins = combined[pluginsKey]
	e.raw = nil
	e.state = Merged

	return nil
}

func (e *entry) info() ModuleInfo {
	return ModuleInfo{
		Name:    e.name,
		Version: e.version,
		Dir:     e.dirname,
		State:   e.state,
	}
}
