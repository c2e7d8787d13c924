package core

import (
	"fmt"
	"unicode/utf8"
)

const (
	MaxAccountNameLength = 512
	MaxFieldLength       = 1024
)

func validateAccountName(name string) error {
	if name == "" {
		return invalidArgumentError("core: account name is required")
	}
	if utf8.RuneCountInString(name) > MaxAccountNameLength {
		return invalidArgumentError(fmt.Sprintf("core: account name exceeds %d characters", MaxAccountNameLength))
	}
	return nil
}

// validateAppID covers owners, grantees, and subscribers. A whitespace id is
// syntactically valid; it simply never matches a registered app.
func validateAppID(field string, appID string) error {
	if appID == "" {
		return invalidArgumentError(fmt.Sprintf("core: %s is required", field))
	}
	return validateLength(field, appID)
}

func validateRequired(field string, value string) error {
	if value == "" {
		return invalidArgumentError(fmt.Sprintf("core: %s is required", field))
	}
	return validateLength(field, value)
}

func validateLength(field string, value string) error {
	if utf8.RuneCountInString(value) > MaxFieldLength {
		return invalidArgumentError(fmt.Sprintf("core: %s exceeds %d characters", field, MaxFieldLength))
	}
	return nil
}

func (r AccountRef) Validate() error {
	if err := validateAppID("owner", r.Owner); err != nil {
		return err
	}
	return validateAccountName(r.Name)
}
