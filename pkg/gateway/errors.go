package gateway

import (
	"fmt"
	"net/http"
	"strings"
)

// Error code used when the server's error body carries no code.
const CodeUnknownError = "UnknownError"

// Error codes that signal the data-processing-agreement consent flow.
const codeDPARequired = "DPARequired"

// GatewayError is the normalized shape of any failed backend call: the HTTP
// status plus the server-supplied error code and message.
type GatewayError struct {
	Status  int
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// IsRetryable reports whether the failure is plausibly transient. Advisory
// only: the client never retries automatically, but the UI may suggest
// trying again.
func (e *GatewayError) IsRetryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// ConsentRequired reports whether the failure signals that a data
// processing agreement must be accepted before the operation can proceed.
// Callers must route this into the consent flow instead of showing a raw
// error.
func (e *GatewayError) ConsentRequired() bool {
	if e.Code == codeDPARequired {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "data processing agreement") || strings.Contains(msg, "dpa")
}
