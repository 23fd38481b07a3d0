package prompt

import (
	"os"
	"strings"
)

// localeEnvVars are checked in POSIX precedence order.
var localeEnvVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// Region returns the two-letter region code from the process locale
// ("de_DE.UTF-8" yields "DE"), or "" when no region is known.
func Region() string {
	for _, name := range localeEnvVars {
		if value := os.Getenv(name); value != "" {
			if region := parseRegion(value); region != "" {
				return region
			}
		}
	}
	return ""
}

func parseRegion(locale string) string {
	// Strip encoding and modifier suffixes: "de_DE.UTF-8@euro" -> "de_DE".
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	_, region, found := strings.Cut(locale, "_")
	if !found || len(region) != 2 {
		return ""
	}
	return strings.ToUpper(region)
}
