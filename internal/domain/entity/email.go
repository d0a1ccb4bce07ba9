package entity

import (
	"regexp"
	"strings"
)

// Whitespace here is the Unicode set, not just ASCII.
const emailAtom = `[^@\s\v\x{85}\p{Z}]+`

var emailPattern = regexp.MustCompile(`(?i)^` + emailAtom + `@` + emailAtom + `\.` + emailAtom + `$`)

// validateEmail is a syntactic sanity check only: something@something.something
func validateEmail(email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", invalidArgument("email", "email cannot be null or empty.")
	}
	if !emailPattern.MatchString(email) {
		return "", invalidArgument("email", "invalid email format.")
	}
	return email, nil
}
