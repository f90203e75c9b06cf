// Package calver computes calendar versions of the form YEAR.MONTH.PATCH.
package calver

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/grokify/calverrelease/pkg/model"
)

// Version represents a calendar version.
type Version struct {
	Year   int
	Month  int
	Patch  int
	Prefix string // "v" or empty
}

// Parse parses a tag name such as "2024.3.1" or "v2024.3.1".
// Exactly three non-negative integer components are required.
func Parse(v string) (*Version, error) {
	ver := &Version{}

	// Everything before the first digit is treated as prefix.
	i := strings.IndexFunc(v, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		return nil, fmt.Errorf("invalid version format: %q", v)
	}
	ver.Prefix = v[:i]
	rest := v[i:]

	parts := strings.Split(rest, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid version format: %q", v)
	}

	nums := make([]int, 3)
	for j, p := range parts {
		n, err := parseComponent(p)
		if err != nil {
			return nil, fmt.Errorf("invalid version component %q in %q", p, v)
		}
		nums[j] = n
	}
	ver.Year, ver.Month, ver.Patch = nums[0], nums[1], nums[2]

	return ver, nil
}

func parseComponent(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty component")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit in component")
		}
	}
	return strconv.Atoi(s)
}

// String returns the version as a string, without zero padding.
func (v *Version) String() string {
	return fmt.Sprintf("%s%d.%d.%d", v.Prefix, v.Year, v.Month, v.Patch)
}

// SameMonth reports whether v belongs to the calendar month of t.
func (v *Version) SameMonth(t time.Time) bool {
	return v.Year == t.Year() && int(t.Month()) == v.Month
}

// Next returns the version that follows previous at time now.
//
// An empty or unparseable previous starts the month at patch 0. A previous
// version from the same UTC year and month continues its patch counter; any
// other previous version, older or newer, is reset to patch 0.
func Next(previous string, now time.Time, prefix string) *Version {
	now = now.UTC()
	next := &Version{
		Year:   now.Year(),
		Month:  int(now.Month()),
		Prefix: prefix,
	}

	if previous == "" {
		return next
	}

	prev, err := Parse(previous)
	if err != nil {
		return next
	}

	if prev.SameMonth(now) {
		next.Patch = prev.Patch + 1
	}

	return next
}

// NextFromTag returns the version that follows the given tag. A nil tag
// means the repository has no tags yet.
func NextFromTag(tag *model.Tag, now time.Time, prefix string) *Version {
	if tag == nil {
		return Next("", now, prefix)
	}
	return Next(tag.Name, now, prefix)
}

// IsCalVer checks if a string is a valid calendar version tag.
func IsCalVer(s string) bool {
	_, err := Parse(s)
	return err == nil
}
