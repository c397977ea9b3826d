package client

import "regexp"

// Version is the library version advertised in the User-Agent suffix.
const Version = "0.1.0"

// userAgentPattern is the set of characters allowed in a caller
// supplied user agent.
const userAgentPattern = `[A-Za-z0-9()\-#;/.,_\s]+`

var userAgentRegexp = regexp.MustCompile(`^` + userAgentPattern + `$`)

// ValidateUserAgent checks the outbound identification string against
// the allowed character pattern. The check is purely local: no request
// is ever attempted with an invalid agent.
func ValidateUserAgent(agent string) error {
	if !userAgentRegexp.MatchString(agent) {
		return NewIdentificationError(agent)
	}
	return nil
}

// decorateUserAgent appends the library token after the caller's
// agent, so the caller's value stays a literal prefix of the header.
func decorateUserAgent(agent string) string {
	return agent + " go-fleet/" + Version
}
