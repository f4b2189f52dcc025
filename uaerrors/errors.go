// Package uaerrors defines the domain-level error taxonomy shared by every
// layer of the client: codec, transport, secure conversation, and session.
package uaerrors

import "fmt"

// Kind classifies a UaError independent of the transport that produced it.
type Kind string

const (
	KindEncoding            Kind = "EncodingError"
	KindDecoding             Kind = "DecodingError"
	KindCommunication        Kind = "CommunicationError"
	KindTimeout              Kind = "Timeout"
	KindServerNotConnected   Kind = "ServerNotConnected"
	KindSequenceNumberInvalid Kind = "SequenceNumberInvalid"
	KindRequestTooLarge      Kind = "RequestTooLarge"
	KindObjectDeleted        Kind = "ObjectDeleted"
	KindInvalidArgument      Kind = "InvalidArgument"
	KindOutOfRange           Kind = "OutOfRange"
	KindNodeIDInvalid        Kind = "NodeIdInvalid"
	KindNotSupported         Kind = "NotSupported"
	KindServiceFault         Kind = "ServiceFault"
	KindUnexpected           Kind = "BadUnexpectedError"
)

// UaError is the single error value type surfaced to callers at every layer.
// Code carries the StatusCode when one is known (e.g. from a ServiceFault's
// response header); it is zero when the error originates below the wire
// (codec range checks, local timeouts, etc).
type UaError struct {
	Kind   Kind
	Code   uint32
	Reason string
	Cause  error

	// Header carries the response header of a ServiceFault for inspection,
	// when Kind == KindServiceFault. Left nil otherwise.
	Header any
}

func (e *UaError) Error() string {
	if e.Reason == "" && e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *UaError) Unwrap() error {
	return e.Cause
}

// New builds a UaError with a formatted reason and no underlying cause.
func New(kind Kind, format string, args ...any) *UaError {
	return &UaError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Wrap builds a UaError that carries cause as its Unwrap target.
func Wrap(kind Kind, cause error, format string, args ...any) *UaError {
	return &UaError{Kind: kind, Reason: fmt.Sprintf(format, args...), Cause: cause}
}

// WithCode attaches a StatusCode to an existing UaError and returns it,
// for the common case of a service fault discovered after construction.
func (e *UaError) WithCode(code uint32) *UaError {
	e.Code = code
	return e
}

// Is reports whether err is a *UaError of the given kind, unwrapping as
// needed. Used by callers that branch on error kind (e.g. reconnect logic
// treating KindServerNotConnected differently from KindServiceFault).
func Is(err error, kind Kind) bool {
	for err != nil {
		if ue, ok := err.(*UaError); ok {
			if ue.Kind == kind {
				return true
			}
			err = ue.Cause
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
