package logging

import "regexp"

// RedactedText is the replacement text for sensitive data.
const RedactedText = "[REDACTED]"

var (
	// Matches bearer JWTs (three base64url segments separated by dots).
	jwtPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]*`)

	// Matches password fields in serialized bodies or query strings.
	passwordPattern = regexp.MustCompile(`(?i)("?password"?\s*[:=]\s*)"?[^",&\s]+"?`)

	// Matches user:pass@host credentials embedded in URLs.
	urlCredsPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)
)

// SanitizeToken masks a bearer token for logging, keeping a short prefix so
// distinct tokens remain distinguishable in debug output.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return RedactedText
	}
	return token[:8] + "..." + RedactedText
}

// SanitizeError sanitizes error messages that might echo credentials, such
// as request dumps or URLs with embedded passwords.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	s := jwtPattern.ReplaceAllString(err.Error(), "Bearer "+RedactedText)
	s = passwordPattern.ReplaceAllString(s, "${1}"+RedactedText)
	s = urlCredsPattern.ReplaceAllString(s, "://"+RedactedText+"@"+RedactedText)
	return s
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
