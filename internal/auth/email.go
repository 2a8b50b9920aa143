package auth

import (
	"errors"
	"regexp"
	"strings"
)

var domainRegex = regexp.MustCompile(
	`^(?i:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?)(?:\.(?i:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?))*\.[a-z]{2,}$`,
)

var userPartRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)

// IsEmailValid does a sanity check on a login email before it is sent to
// the portal; it is deliberately stricter than RFC 5321.
func IsEmailValid(email string) (bool, error) {
	if len(email) <= 3 {
		return false, ErrorEmailMissing
	}

	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') {
		return false, ErrorEmailInvalidAt
	}

	errs := []error{}
	user := email[:at]
	domain := email[at+1:]
	if len(domain) == 0 {
		errs = append(errs, ErrorEmailEmptyDomain)
	} else if !domainRegex.MatchString(domain) {
		errs = append(errs, ErrorEmailDomainInvalid)
	}
	if len(user) < 1 || len(user) > 64 || !userPartRegex.MatchString(user) {
		errs = append(errs, ErrorEmailUserInvalid)
	}
	if strings.Contains(user, "..") || strings.Contains(user, "--") {
		errs = append(errs, ErrorEmailUserInvalid)
	}

	if len(errs) > 0 {
		return false, errors.Join(errs...)
	}
	return true, nil
}
