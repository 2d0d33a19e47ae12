package fileconf

import (
	"strings"

	"github.com/iph0/modconf/envconf"
)

const (
	envToken      = "{ENV}"
	hostnameToken = "{HOSTNAME}"
	instanceToken = "{INSTANCE}"
)

// baseNameTemplates defines file precedence. Files with later base names
// override files with earlier ones.
var baseNameTemplates = [][]string{
	{"default"},
	{"default", instanceToken},
	{envToken},
	{envToken, instanceToken},
	{hostnameToken},
	{hostnameToken, instanceToken},
	{hostnameToken, envToken},
	{hostnameToken, envToken, instanceToken},
	{"local"},
	{"local", instanceToken},
	{"local", envToken},
	{"local", envToken, instanceToken},
}

// BaseNames method computes ordered list of configuration file base names for
// the environment. Templates, that refer to unset variables, are dropped. If
// two templates produce the same base name (e.g. APP_ENV=local), only the last
// one is kept.
func BaseNames(env *envconf.Environment) []string {
	values := map[string]string{
		envToken:      env.Env,
		hostnameToken: env.Hostname,
		instanceToken: env.Instance,
	}

	baseNames := make([]string, 0, len(baseNameTemplates))

TEMPLATES:
	for _, tmpl := range baseNameTemplates {
		tokens := make([]string, len(tmpl))

		for i, token := range tmpl {
			value, ok := values[token]

			if !ok {
				tokens[i] = token
				continue
			}

			if value == "" {
				continue TEMPLATES
			}

			tokens[i] = value
		}

		baseNames = append(baseNames, strings.Join(tokens, "-"))
	}

	return dedupe(baseNames)
}

func dedupe(baseNames []string) []string {
	last := make(map[string]int, len(baseNames))

	for i, baseName := range baseNames {
		last[baseName] = i
	}

	result := baseNames[:0]

	for i, baseName := range baseNames {
		if last[baseName] == i {
			result = append(result, baseName)
		}
	}

	return result
}
