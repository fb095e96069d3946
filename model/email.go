package model

import (
	"fmt"
	"regexp"
	"strings"
)

// emailAddressMatcher for email addresses the API accepts: something without whitespace or @ on each side
// of a single @, and a dot somewhere in the domain.
var emailAddressMatcher = regexp.MustCompile(`^(?P<local>[^\s@]+)@(?P<domain>[^\s@]+\.[^\s@]+)$`)

type EmailAddress string

func (e EmailAddress) IsValid() bool {
	return emailAddressMatcher.MatchString(string(e))
}

func (e EmailAddress) String() string {
	return string(e)
}

var _ fmt.Stringer = EmailAddress("")

// Local part of the address, before the @. Returns an empty string for invalid addresses.
func (e EmailAddress) Local() string {
	matches := emailAddressMatcher.FindStringSubmatch(string(e))
	if matches == nil {
		return ""
	}
	return matches[1]
}

func (e EmailAddress) ToLower() EmailAddress {
	return EmailAddress(strings.TrimSpace(strings.ToLower(string(e))))
}

type Keywords = map[string]string
