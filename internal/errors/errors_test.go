// SPDX-License-Identifier: AGPL-3.0-only
package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransport(t *testing.T) {
	err := Transport(fmt.Errorf("connection refused"))
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Expected errors.Is(err, ErrTransport) to be true")
	}
	expectedMsg := "transport error: connection refused"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
}

func TestUpstreamStatus(t *testing.T) {
	err := UpstreamStatus("Groq API", 429)
	if !errors.Is(err, ErrUpstreamStatus) {
		t.Errorf("Expected errors.Is(err, ErrUpstreamStatus) to be true")
	}
	expectedMsg := "upstream status error: Groq API returned status 429"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
}

func TestMalformedResponse(t *testing.T) {
	err := MalformedResponse("Llama API", "empty response body")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("Expected errors.Is(err, ErrMalformedResponse) to be true")
	}
	if errors.Is(err, ErrTransport) {
		t.Errorf("Expected errors.Is(err, ErrTransport) to be false")
	}
}

func TestUnknownTool(t *testing.T) {
	err := UnknownTool("get_tides")
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("Expected errors.Is(err, ErrUnknownTool) to be true")
	}
	expectedMsg := "unknown tool: get_tides"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
}

func TestArgumentDecode(t *testing.T) {
	err := ArgumentDecode("get_forecast", fmt.Errorf("unexpected end of JSON input"))
	if !errors.Is(err, ErrArgumentDecode) {
		t.Errorf("Expected errors.Is(err, ErrArgumentDecode) to be true")
	}
}

func TestInvalidInput(t *testing.T) {
	reason := "missing required field"
	err := InvalidInput(reason)
	expectedMsg := "invalid input: " + reason
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
}

func TestInternal(t *testing.T) {
	originalErr := fmt.Errorf("database connection failed")
	err := Internal(originalErr)
	expectedMsg := "internal error: database connection failed"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
}
