package envconf_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/iph0/modconf/envconf"
)

func hostname() (string, error) {
	return "oshost", nil
}

func TestResolve(t *testing.T) {
	t.Run("defaults",
		func(t *testing.T) {
			e, err := envconf.Resolve(
				envconf.WithEnviron(map[string]string{}),
				envconf.WithArgs(nil),
				envconf.WithHostnameFunc(hostname),
			)

			if err != nil {
				t.Error(err)
				return
			}

			eEnv := &envconf.Environment{
				Env:      "development",
				Hostname: "oshost",
			}

			if !reflect.DeepEqual(e, eEnv) {
				t.Errorf("unexpected environment returned: %#v", e)
			}
		},
	)

	t.Run("environment",
		func(t *testing.T) {
			e, err := envconf.Resolve(
				envconf.WithEnviron(map[string]string{
					"APP_ENV":                "staging",
					"APP_INSTANCE":           "2",
					"HOSTNAME":               "myserver",
					"APP_CONFIG_DIR":         "/opt/config",
					"APP_CONFIG":             "{ test: 1 }",
					"APP_CONFIG_STRICT_MODE": "1",
				}),
				envconf.WithArgs(nil),
				envconf.WithHostnameFunc(hostname),
			)

			if err != nil {
				t.Error(err)
				return
			}

			eEnv := &envconf.Environment{
				Env:        "staging",
				Instance:   "2",
				Hostname:   "myserver",
				ConfigDir:  "/opt/config",
				Config:     "{ test: 1 }",
				StrictMode: "1",
			}

			if !reflect.DeepEqual(e, eEnv) {
				t.Errorf("unexpected environment returned: %#v", e)
			}
		},
	)

	t.Run("command_line",
		func(t *testing.T) {
			e, err := envconf.Resolve(
				envconf.WithEnviron(map[string]string{
					"APP_ENV":      "staging",
					"APP_INSTANCE": "2",
				}),
				envconf.WithArgs([]string{
					"serve",
					"--verbose",
					"--APP_ENV=production-cloud",
					"--APP_CONFIG_DIR=/opt/config",
					"--APP_CONFIG={ \"test\": 1 }",
					"--CMD_WITH_SPACES=this has spaces",
				}),
				envconf.WithHostnameFunc(hostname),
			)

			if err != nil {
				t.Error(err)
				return
			}

			eEnv := &envconf.Environment{
				Env:       "production-cloud",
				Instance:  "2",
				Hostname:  "oshost",
				ConfigDir: "/opt/config",
				Config:    "{ \"test\": 1 }",
			}

			if !reflect.DeepEqual(e, eEnv) {
				t.Errorf("unexpected environment returned: %#v", e)
			}
		},
	)

	t.Run("relative_config_dir",
		func(t *testing.T) {
			e, err := envconf.Resolve(
				envconf.WithEnviron(map[string]string{}),
				envconf.WithArgs([]string{"--APP_CONFIG_DIR=./config"}),
				envconf.WithHostnameFunc(hostname),
			)

			if err != nil {
				t.Error(err)
				return
			}

			wd, err := os.Getwd()

			if err != nil {
				t.Error(err)
				return
			}

			if e.ConfigDir != filepath.Join(wd, "config") {
				t.Errorf("unexpected config dir: %s", e.ConfigDir)
			}
		},
	)
}

func TestCommandLineForms(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want *envconf.Environment
	}{
		{
			"bare_flags",
			[]string{"--APP_ENV", "--HOST"},
			&envconf.Environment{Env: "development", Hostname: "oshost"},
		},
		{
			"space_separated",
			[]string{"--APP_ENV", "production", "--HOST", "0.0.0.0"},
			&envconf.Environment{Env: "development", Hostname: "oshost"},
		},
		{
			"after_terminator",
			[]string{"resolve", "--", "--APP_ENV=production"},
			&envconf.Environment{Env: "production", Hostname: "oshost"},
		},
		{
			"name_prefix",
			[]string{"--APP_ENVIRONMENT=staging", "--APP_CONFIG_DIRS=/tmp"},
			&envconf.Environment{Env: "development", Hostname: "oshost"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name,
			func(t *testing.T) {
				e, err := envconf.Resolve(
					envconf.WithEnviron(map[string]string{}),
					envconf.WithArgs(tt.args),
					envconf.WithHostnameFunc(hostname),
				)

				if err != nil {
					t.Error(err)
					return
				}

				if !reflect.DeepEqual(e, tt.want) {
					t.Errorf("unexpected environment returned: %#v", e)
				}
			},
		)
	}
}

func TestHostname(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		args    []string
		want    string
	}{
		{"os", map[string]string{}, nil, "oshost"},
		{"hostname", map[string]string{"HOSTNAME": "myserver"}, nil, "myserver"},
		{"host_first", map[string]string{"HOST": "www", "HOSTNAME": "myserver"}, nil, "www"},
		{
			"command_line",
			map[string]string{"HOSTNAME": "myserver"},
			[]string{"--HOSTNAME=cmdhost"},
			"cmdhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name,
			func(t *testing.T) {
				e, err := envconf.Resolve(
					envconf.WithEnviron(tt.environ),
					envconf.WithArgs(tt.args),
					envconf.WithHostnameFunc(hostname),
				)

				if err != nil {
					t.Error(err)
					return
				}

				if e.Hostname != tt.want {
					t.Errorf("expected host name %q, got %q", tt.want, e.Hostname)
				}
			},
		)
	}
}

func TestHostnameError(t *testing.T) {
	_, err := envconf.Resolve(
		envconf.WithEnviron(map[string]string{}),
		envconf.WithArgs(nil),
		envconf.WithHostnameFunc(func() (string, error) {
			return "", errors.New("no uname")
		}),
	)

	if err == nil {
		t.Error("no error happened")
	} else if strings.Index(err.Error(), "can't resolve host name") == -1 {
		t.Error("other error happened:", err)
	}
}

func TestStrictMode(t *testing.T) {
	tests := []struct {
		mode     envconf.StrictMode
		enabled  bool
		hostname bool
	}{
		{"", false, false},
		{"0", false, false},
		{"false", false, false},
		{"Off", false, false},
		{"1", true, false},
		{"Y", true, false},
		{"hostname", true, true},
		{"1,HOSTNAME", true, true},
		{"hostnames", true, false},
	}

	for _, tt := range tests {
		if tt.mode.Enabled() != tt.enabled {
			t.Errorf("%q: expected enabled=%v", tt.mode, tt.enabled)
		}
		if tt.mode.Hostname() != tt.hostname {
			t.Errorf("%q: expected hostname=%v", tt.mode, tt.hostname)
		}
	}
}

func TestFields(t *testing.T) {
	e := &envconf.Environment{Env: "production", Hostname: "www"}

	eFields := map[string]any{
		"ENV":      "production",
		"HOSTNAME": "www",
	}

	if !reflect.DeepEqual(e.Fields(), eFields) {
		t.Errorf("unexpected fields returned: %#v", e.Fields())
	}

	e.Instance = "4"
	eFields["APP_INSTANCE"] = "4"

	if !reflect.DeepEqual(e.Fields(), eFields) {
		t.Errorf("unexpected fields returned: %#v", e.Fields())
	}
}
