package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

var (
	envRefPattern  = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)
	nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// ExpandEnv replaces every ${NAME} reference in s with the value of the NAME
// environment variable. Unset variables expand to the empty string.
func ExpandEnv(s string) string {
	return envRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		name := envRefPattern.FindStringSubmatch(ref)[1]
		return os.Getenv(name)
	})
}

// Slug lowercases name and collapses every non-alphanumeric run into a
// single hyphen, trimmed at both ends. An empty name slugs to "run".
func Slug(name string) string {
	if name == "" {
		name = "run"
	}
	slug := nonSlugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// FilenameFromTemplate expands the {yyyy}{mm}{dd}{HH}{MM}{SS} timestamp
// tokens (UTC, zero-padded) and {slug(name)} in tpl. The ".ext" suffix, if
// present, is left for the exporter to replace per output format.
func FilenameFromTemplate(tpl, name string, now time.Time) string {
	now = now.UTC()
	r := strings.NewReplacer(
		"{yyyy}", fmt.Sprintf("%04d", now.Year()),
		"{mm}", fmt.Sprintf("%02d", int(now.Month())),
		"{dd}", fmt.Sprintf("%02d", now.Day()),
		"{HH}", fmt.Sprintf("%02d", now.Hour()),
		"{MM}", fmt.Sprintf("%02d", now.Minute()),
		"{SS}", fmt.Sprintf("%02d", now.Second()),
		"{slug(name)}", Slug(name),
	)
	return r.Replace(tpl)
}
