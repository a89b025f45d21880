package model

import (
	"fmt"
	"strings"
)

// FormFactor is the device profile an audit is run with.
type FormFactor string

const (
	// FormFactorMobile is Lighthouse's default emulated mobile device.
	FormFactorMobile FormFactor = "mobile"
	// FormFactorDesktop is the desktop preset.
	FormFactorDesktop FormFactor = "desktop"
)

// AllFormFactors returns the form factors in the order every view is audited.
func AllFormFactors() []FormFactor {
	return []FormFactor{FormFactorMobile, FormFactorDesktop}
}

// String returns the form factor id.
func (f FormFactor) String() string {
	return string(f)
}

// ParseFormFactor converts a string into a FormFactor.
func ParseFormFactor(s string) (FormFactor, error) {
	switch FormFactor(strings.ToLower(strings.TrimSpace(s))) {
	case FormFactorMobile:
		return FormFactorMobile, nil
	case FormFactorDesktop:
		return FormFactorDesktop, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormFactor, s)
	}
}
