// SPDX-License-Identifier: AGPL-3.0-only
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes that can occur while talking to a
// model provider or dispatching a tool call. All of them are recovered
// locally and turned into user-facing text; none should abort a query.
var (
	// ErrTransport covers network-level failures and timeouts.
	ErrTransport = errors.New("transport error")

	// ErrUpstreamStatus covers non-2xx responses from a model or weather
	// upstream.
	ErrUpstreamStatus = errors.New("upstream status error")

	// ErrMalformedResponse covers empty bodies, invalid JSON and missing
	// expected fields in an upstream reply.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnknownTool is returned when the model requests a tool name that is
	// not in the available set.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrArgumentDecode is returned when tool-call arguments cannot be parsed
	// into the expected structure.
	ErrArgumentDecode = errors.New("argument decode error")
)

// Transport wraps a network or timeout failure.
func Transport(err error) error {
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

// UpstreamStatus creates an error for a non-2xx upstream response.
func UpstreamStatus(source string, statusCode int) error {
	return fmt.Errorf("%w: %s returned status %d", ErrUpstreamStatus, source, statusCode)
}

// MalformedResponse creates an error for an unparseable upstream reply.
func MalformedResponse(source, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedResponse, source, reason)
}

// UnknownTool creates an error for a tool name outside the available set.
func UnknownTool(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

// ArgumentDecode wraps a tool-call argument parsing failure.
func ArgumentDecode(tool string, err error) error {
	return fmt.Errorf("%w: tool %s: %v", ErrArgumentDecode, tool, err)
}

// InvalidInput creates a formatted "invalid input" error
func InvalidInput(reason string) error {
	return fmt.Errorf("invalid input: %s", reason)
}

// Internal creates a formatted "internal error" error
func Internal(err error) error {
	return fmt.Errorf("internal error: %v", err)
}
