package ollama

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Kind classifies a generation failure.
type Kind int

// Failure kinds, from connectivity problems to malformed replies.
const (
	KindBadURL Kind = iota
	KindHostUnreachable
	KindConnectionRefused
	KindNetwork
	KindHTTP
	KindInvalidResponse
	KindUpstream
)

// Error is a classified endpoint failure with a user-facing message.
type Error struct {
	Kind    Kind
	Message string

	// Status is set for KindHTTP.
	Status int

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func badURLError(raw string) *Error {
	return &Error{
		Kind:    KindBadURL,
		Message: fmt.Sprintf("Invalid server URL: %s", raw),
	}
}

// classifyTransportError maps a failed HTTP round trip onto the
// actionable guidance messages.
func classifyTransportError(err error) *Error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Kind: KindHostUnreachable,
			Message: "Cannot connect to the model server.\n\n" +
				"Make sure:\n" +
				"1. Ollama is running (run 'ollama serve')\n" +
				"2. The URL is correct",
			cause: err,
		}
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return &Error{
			Kind: KindConnectionRefused,
			Message: "Connection refused.\n\n" +
				"Ollama might not be running. Try:\n" +
				"- ollama serve\n" +
				"- Check the port (default: 11434)",
			cause: err,
		}
	}

	return &Error{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("Network error: %v", err),
		cause:   err,
	}
}

func httpError(status int, body string) *Error {
	return &Error{
		Kind:    KindHTTP,
		Status:  status,
		Message: fmt.Sprintf("HTTP %d: %s", status, body),
	}
}

func invalidResponseError(body string) *Error {
	return &Error{
		Kind:    KindInvalidResponse,
		Message: fmt.Sprintf("Invalid JSON response: %s", body),
	}
}

func missingResponseError(body string) *Error {
	return &Error{
		Kind:    KindInvalidResponse,
		Message: fmt.Sprintf("No 'response' field in JSON: %s", body),
	}
}

func upstreamError(message string) *Error {
	return &Error{
		Kind:    KindUpstream,
		Message: "Ollama error: " + message,
	}
}
