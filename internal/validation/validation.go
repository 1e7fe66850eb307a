package validation

import "regexp"

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsEmail checks a plausible email shape; the unique index catches the rest.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}
