package maploader_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/iph0/modconf"
	"github.com/iph0/modconf/loaders/maploader"
	"github.com/rs/zerolog"
)

func newLoader() modconf.Plugin {
	return maploader.NewLoader(
		modconf.M{
			"default": modconf.M{
				"config": modconf.M{
					"foo": "bar",
					"moo": "jar",
				},
			},

			"overrides": modconf.M{
				"config": modconf.M{
					"moo": "arr",
				},
				"common": modconf.M{
					"zoo": "arr",
				},
			},

			"broken": "foo",
		},
	)
}

func TestRun(t *testing.T) {
	tConfig, err := newLoader().Run(context.Background(),
		modconf.M{"layers": []any{"default", "overrides"}}, nil)

	if err != nil {
		t.Error(err)
		return
	}

	eConfig := modconf.M{
		"config": map[string]any{
			"foo": "bar",
			"moo": "arr",
		},
		"common": map[string]any{
			"zoo": "arr",
		},
	}

	if !reflect.DeepEqual(tConfig, eConfig) {
		t.Errorf("unexpected configuration returned: %#v", tConfig)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		layers any
		msg    string
	}{
		{"unknown_layer", "unknown", "configuration layer not found"},
		{"not_a_map", "broken", "must be a map"},
		{"not_a_list", 42, "must be a string or a list"},
		{"not_a_string", []any{42}, "layer name must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name,
			func(t *testing.T) {
				_, err := newLoader().Run(context.Background(),
					modconf.M{"layers": tt.layers}, nil)

				if err == nil {
					t.Error("no error happened")
				} else if strings.Index(err.Error(), tt.msg) == -1 {
					t.Error("other error happened:", err)
				}
			},
		)
	}
}

func TestRegistry(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"package.json":        `{"name": "mapped"}`,
		"config/default.yaml": "mapped:\n  foo: file\nplugins:\n  - [ map, { layers: default } ]\n",
	}

	for name, content := range files {
		path := filepath.Join(dir, name)

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	r, err := modconf.New(
		modconf.WithEnviron(map[string]string{"HOSTNAME": "test-host"}),
		modconf.WithArgs(nil),
		modconf.WithLogger(zerolog.Nop()),
		modconf.WithPlugin("map", newLoader()),
	)

	if err != nil {
		t.Error(err)
		return
	}

	rc, err := r.Resolve(context.Background(), dir)

	if err != nil {
		t.Error(err)
		return
	}

	if rc.Get("config.foo") != "bar" || rc.Get("config.moo") != "jar" {
		t.Errorf("unexpected configuration returned: %#v", rc.Config)
	}
}
