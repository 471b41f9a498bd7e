package dstdsv

import (
	"time"

	"go.uber.org/zap"
)

// Profile holds the transport configuration for one physical connection type.
// The two supported links differ only in these values, never in behaviour.
type Profile struct {
	BaudRate    int
	FlowControl bool
	ReadTimeout time.Duration
}

var (
	// USBProfile configures the gauge's USB virtual COM port
	USBProfile = Profile{
		BaudRate:    256000,
		FlowControl: true,
		ReadTimeout: ReadTimeout,
	}

	// RS232CProfile configures the gauge's RS232C link
	RS232CProfile = Profile{
		BaudRate:    19200,
		FlowControl: false,
		ReadTimeout: ReadTimeout,
	}
)

// Device is an open session with a gauge. It owns the serial transport for
// its lifetime and hands out the protocol handler; Close releases the
// transport and invalidates the handler.
type Device struct {
	transport Transport
	protocol  *Protocol
	logger    *zap.SugaredLogger
}

// Option configures a Device
type Option func(*Device)

// WithLogger sets a custom logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(d *Device) {
		d.logger = logger
	}
}

// Open opens the serial port at path with the given profile and consumes the
// startup banner, leaving the protocol handler ready for commands. The caller
// must Close the device when done.
func Open(path string, profile Profile, opts ...Option) (*Device, error) {
	d := &Device{
		logger: zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(d)
	}

	tr, err := openTransport(path, profile)
	if err != nil {
		return nil, err
	}

	d.transport = tr
	d.protocol = NewProtocol(tr)
	d.protocol.logger = d.logger

	d.logger.Infof("Opened gauge on %s (baud=%d flow=%v)", path, profile.BaudRate, profile.FlowControl)

	// The device greets with "Gauge Started." once; it has to be consumed
	// before the first command or its bytes would be read as a response.
	if err := d.protocol.ReadStartLine(); err != nil {
		tr.Close()
		return nil, err
	}

	return d, nil
}

// newDevice wires a Device over a caller-supplied Transport. Test seam.
func newDevice(tr Transport, logger *zap.SugaredLogger) (*Device, error) {
	d := &Device{
		transport: tr,
		protocol:  NewProtocol(tr),
		logger:    logger,
	}
	d.protocol.logger = logger

	if err := d.protocol.ReadStartLine(); err != nil {
		tr.Close()
		return nil, err
	}

	return d, nil
}

// Protocol returns the protocol handler for this session. The handler is only
// valid while the session is open.
func (d *Device) Protocol() *Protocol {
	return d.protocol
}

// Close invalidates the protocol handler and closes the transport. It is safe
// to call more than once.
func (d *Device) Close() error {
	if d.transport == nil {
		return nil
	}

	d.protocol.invalidate()

	err := d.transport.Close()
	d.transport = nil

	if err != nil {
		d.logger.Errorf("Failed to close gauge transport: %s", err)
		return err
	}
	return nil
}

// Session opens a gauge, runs fn against its protocol handler, and closes the
// transport on every exit path, including when fn fails.
func Session(path string, profile Profile, fn func(*Protocol) error, opts ...Option) error {
	d, err := Open(path, profile, opts...)
	if err != nil {
		return err
	}
	defer d.Close()

	return fn(d.Protocol())
}
