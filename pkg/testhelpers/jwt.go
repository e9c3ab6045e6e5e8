// Package testhelpers provides utilities for testing tably-cli components.
package testhelpers

import (
	"encoding/base64"
	"fmt"
	"time"
)

// GenerateTestJWT creates a structurally valid, unsigned JWT (alg: none)
// for session tests. exp controls the expiry claim; pass the zero time to
// omit it.
func GenerateTestJWT(sub, email string, exp time.Time) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))

	payload := fmt.Sprintf(`{"sub":"%s"`, sub)
	if email != "" {
		payload += fmt.Sprintf(`,"email":"%s"`, email)
	}
	if !exp.IsZero() {
		payload += fmt.Sprintf(`,"exp":%d`, exp.Unix())
	}
	payload += "}"

	encodedPayload := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return fmt.Sprintf("%s.%s.", header, encodedPayload)
}
