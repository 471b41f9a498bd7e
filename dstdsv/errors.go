package dstdsv

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by every operation once the protocol handler has been
// consumed, either by PowerOff or by closing the owning device session.
var ErrClosed = errors.New("dstdsv: protocol handler is closed")

// CommandRejectedError is returned when the gauge answers a command with the
// literal error token "E".
type CommandRejectedError struct {
	Command string
}

func (e *CommandRejectedError) Error() string {
	return fmt.Sprintf("dstdsv: command %q rejected by device", e.Command)
}

// AckMismatchError is returned when a command expecting the "R"
// acknowledgement receives anything else. Response carries the actual text.
type AckMismatchError struct {
	Command  string
	Response string
}

func (e *AckMismatchError) Error() string {
	return fmt.Sprintf("dstdsv: command %q: expected ack \"R\", got %q", e.Command, e.Response)
}

// ParseError is returned when a measurement response does not match the
// measurement grammar, or resolves to a wire code outside its table. Raw
// carries the response as received, for diagnostics.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dstdsv: cannot parse measure response %q", e.Raw)
}

// TransportError wraps a failure of the underlying serial link, as opposed to
// the device disagreeing with a command.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("dstdsv: transport %s: %s", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
