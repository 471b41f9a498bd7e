package dstdsv

import (
	"time"

	"go.bug.st/serial"
)

// Transport is the byte stream the protocol handler talks through. A timeout
// on ReadUntil is not an error: the bytes accumulated so far are returned
// as-is and the layer above treats them as an invalid response.
type Transport interface {
	Write(p []byte) (n int, err error)
	ReadUntil(terminator byte) ([]byte, error)
	Close() error
}

// serialTransport implements Transport on top of a go.bug.st serial port with
// a fixed per-read timeout.
type serialTransport struct {
	port serial.Port
}

// openTransport opens and configures the serial port for a given profile
func openTransport(path string, profile Profile) (*serialTransport, error) {
	mode := &serial.Mode{
		BaudRate: profile.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, &TransportError{Op: "open", Err: err}
	}

	if err := port.SetReadTimeout(profile.ReadTimeout); err != nil {
		port.Close()
		return nil, &TransportError{Op: "open", Err: err}
	}

	// go.bug.st/serial has no hardware flow-control mode; assert RTS so the
	// gauge's CTS gate opens on the USB link.
	if profile.FlowControl {
		if err := port.SetRTS(true); err != nil {
			port.Close()
			return nil, &TransportError{Op: "open", Err: err}
		}
	}

	return &serialTransport{port: port}, nil
}

func (t *serialTransport) Write(p []byte) (int, error) {
	n, err := t.port.Write(p)
	if err != nil {
		return n, &TransportError{Op: "write", Err: err}
	}
	return n, nil
}

func (t *serialTransport) ReadUntil(terminator byte) ([]byte, error) {
	var out []byte
	buf := make([]byte, 1)

	for {
		n, err := t.port.Read(buf)
		if err != nil {
			return out, &TransportError{Op: "read", Err: err}
		}
		if n == 0 {
			// Read timeout elapsed, hand back whatever accumulated
			return out, nil
		}

		out = append(out, buf[0])
		if buf[0] == terminator {
			return out, nil
		}
	}
}

func (t *serialTransport) Close() error {
	return t.port.Close()
}

// ReadTimeout is the fixed per-read timeout shared by both connection
// profiles.
const ReadTimeout = 100 * time.Millisecond
