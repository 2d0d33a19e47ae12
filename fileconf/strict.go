package fileconf

import (
	"fmt"
	"regexp"

	"github.com/iph0/modconf/envconf"
)

var ambiguousEnvRe = regexp.MustCompile(`^(local|default)$`)

// checkStrict checks that found files cover active environment, instance and
// host name.
func (l *Loader) checkStrict(dirname string, found []string) error {
	var reasons []string

	if ambiguousEnvRe.MatchString(l.env.Env) {
		reasons = append(reasons,
			fmt.Sprintf("APP_ENV is set to %s", l.env.Env))
	}

	if l.env.Env != envconf.DefaultEnv {
		envRe := regexp.MustCompile(`(?:^|-)` + regexp.QuoteMeta(l.env.Env))

		if !matchAny(envRe, found) {
			reasons = append(reasons,
				fmt.Sprintf("no config file for APP_ENV=%s", l.env.Env))
		}

		if l.env.StrictMode.Hostname() {
			hostRe := regexp.MustCompile(`(?:^|-)` + regexp.QuoteMeta(l.env.Hostname))

			if !matchAny(hostRe, found) {
				reasons = append(reasons,
					fmt.Sprintf("no config file for HOSTNAME=%s", l.env.Hostname))
			}
		}

		if l.env.Instance != "" {
			instRe := regexp.MustCompile(`-` + regexp.QuoteMeta(l.env.Instance))

			if !matchAny(instRe, found) {
				reasons = append(reasons,
					fmt.Sprintf("no config file for APP_INSTANCE=%s", l.env.Instance))
			}
		}
	}

	if len(reasons) == 0 {
		return nil
	}

	for _, reason := range reasons {
		l.logger.Warn().Str("dir", dirname).Msg("strict mode: " + reason)
	}

	return &StrictModeError{
		Dir:     dirname,
		Reasons: reasons,
	}
}

func matchAny(re *regexp.Regexp, filenames []string) bool {
	for _, filename := range filenames {
		if re.MatchString(filename) {
			return true
		}
	}

	return false
}
