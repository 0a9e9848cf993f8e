package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/freebeats/internal/shared"
)

// License is the usage grant attached to a track.
type License string

const (
	LicenseCCBY   License = "CC-BY"
	LicenseCC0    License = "CC0"
	LicenseCustom License = "custom-permission"
)

// Licenses lists every accepted license in display order.
func Licenses() []License {
	return []License{LicenseCCBY, LicenseCC0, LicenseCustom}
}

// ParseLicense matches text against the enumeration, ignoring case and surrounding whitespace.
func ParseLicense(text string) (License, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: license is required", shared.ErrInvalidInput)
	}
	for _, l := range Licenses() {
		if strings.EqualFold(text, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unknown license %q (expected one of %s)", shared.ErrInvalidInput, text, licenseList())
}

// Valid reports whether l is a member of the enumeration.
func (l License) Valid() bool {
	for _, known := range Licenses() {
		if l == known {
			return true
		}
	}
	return false
}

// UsageNote is the short reuse guidance displayed alongside a track.
func (l License) UsageNote() string {
	switch l {
	case LicenseCCBY:
		return "Attribution required (credit the author)"
	case LicenseCC0:
		return "Free use (no attribution)"
	default:
		return "Use permitted by the author"
	}
}

func (l License) String() string { return string(l) }

func licenseList() string {
	names := make([]string, 0, len(Licenses()))
	for _, l := range Licenses() {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}
