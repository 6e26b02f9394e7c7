// Package platform implements native.Backend over a method channel, for
// embedders that host the real widgets on the far side of a language or
// process boundary.
//
// Every widget operation is a method call on the channel named
// ChannelName; arguments and results are JSON. Notifications travel the
// other way through Bridge.HandleEvent.
package platform

import (
	"encoding/json"
	"errors"

	"github.com/go-drift/retain/pkg/native"
)

// MessageCodec encodes and decodes messages for platform channel communication.
type MessageCodec interface {
	// Encode converts a Go value to bytes for transmission to native code.
	Encode(value any) ([]byte, error)

	// Decode converts bytes received from native code to a Go value.
	Decode(data []byte) (any, error)

	// DecodeInto converts bytes received from native code into v.
	DecodeInto(data []byte, v any) error
}

// JsonCodec implements MessageCodec using JSON encoding.
type JsonCodec struct{}

// Encode serializes the value to JSON bytes.
func (c JsonCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode deserializes JSON bytes to a Go value.
func (c JsonCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DecodeInto deserializes JSON bytes into a specific type.
func (c JsonCodec) DecodeInto(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// DefaultCodec is the codec used by platform channels.
var DefaultCodec MessageCodec = JsonCodec{}

// Standard errors for platform channel operations.
var (
	// ErrMethodNotFound indicates the method is not implemented on the native side.
	ErrMethodNotFound = errors.New("method not implemented")

	// ErrInvalidArguments indicates the arguments passed to the method were invalid.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Error codes understood by ChannelError.Is.
const (
	CodeInvalidHandle    = "invalid_handle"
	CodeUnsupported      = "unsupported"
	CodeIndexOutOfRange  = "index_out_of_range"
	CodeNotImplemented   = "not_implemented"
	CodeInvalidArguments = "invalid_arguments"
)

// ChannelError represents an error returned from native code.
type ChannelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *ChannelError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// Is maps well-known codes onto the native and platform sentinel errors,
// so callers can test a bridged failure with errors.Is.
func (e *ChannelError) Is(target error) bool {
	switch e.Code {
	case CodeInvalidHandle:
		return target == native.ErrInvalidHandle
	case CodeUnsupported:
		return target == native.ErrUnsupported
	case CodeIndexOutOfRange:
		return target == native.ErrIndexOutOfRange
	case CodeNotImplemented:
		return target == ErrMethodNotFound
	case CodeInvalidArguments:
		return target == ErrInvalidArguments
	}
	return false
}

// NewChannelError creates a new ChannelError with the given code and message.
func NewChannelError(code, message string) *ChannelError {
	return &ChannelError{Code: code, Message: message}
}
