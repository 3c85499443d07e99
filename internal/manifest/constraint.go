package manifest

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Satisfies checks version against a Composer constraint. checked is false
// when either side cannot be interpreted as semver (branch aliases such as
// "dev-main", stability flags, or an empty version), in which case ok carries
// no meaning.
func Satisfies(constraint, version string) (ok, checked bool) {
	if constraint == "" || version == "" {
		return false, false
	}

	c, err := semver.NewConstraint(normalizeConstraint(constraint))
	if err != nil {
		return false, false
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return false, false
	}
	return c.Check(v), true
}

// normalizeConstraint rewrites Composer-only syntax into the Masterminds
// dialect: a single "|" is an OR, and "@stability" flags are dropped.
func normalizeConstraint(constraint string) string {
	c := strings.ReplaceAll(constraint, "||", "|")
	c = strings.ReplaceAll(c, "|", "||")

	parts := strings.Fields(c)
	kept := parts[:0]
	for _, p := range parts {
		if i := strings.Index(p, "@"); i >= 0 {
			p = p[:i]
		}
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
