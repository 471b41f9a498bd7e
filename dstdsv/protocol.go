package dstdsv

import (
	"regexp"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// commandTerminator ends every command and every device response
const commandTerminator = '\r'

// rejectToken is the device's universal error reply
const rejectToken = "E"

// ackToken acknowledges configuration and action commands
const ackToken = "R"

// measurePattern is the fixed grammar of a measurement response:
// sign, decimal magnitude, then the unit, mode and state wire codes.
var measurePattern = regexp.MustCompile(`^([+-])([0-9]+\.[0-9]+)([A-Z])([A-Z])([A-Z])$`)

// Protocol drives the DST/DSV command protocol over a Transport. The protocol
// is strictly synchronous: one command in flight at a time, enforced by the
// exchange mutex. The Protocol does not own its Transport; closing the link
// is the device session's job.
//
// After PowerOff the handler is consumed and every further call returns
// ErrClosed.
type Protocol struct {
	mu     sync.Mutex
	tr     Transport
	closed bool
	logger *zap.SugaredLogger
}

// NewProtocol wraps a Transport. The handler is silent unless a logger is
// attached through the owning device session.
func NewProtocol(tr Transport) *Protocol {
	return &Protocol{
		tr:     tr,
		logger: zap.NewNop().Sugar(),
	}
}

// tx sends a command string followed by the terminator
func (p *Protocol) tx(cmd string) error {
	p.logger.Debugf("tx: %q", cmd)
	_, err := p.tr.Write(append([]byte(cmd), commandTerminator))
	return err
}

// rx reads one terminator-delimited line
func (p *Protocol) rx() (string, error) {
	raw, err := p.tr.ReadUntil(commandTerminator)
	if err != nil {
		return "", err
	}
	p.logger.Debugf("rx: %q", raw)
	return string(raw), nil
}

// request performs one command/response exchange and screens the universal
// rejection token. Callers hold the exchange mutex.
func (p *Protocol) request(cmd string) (string, error) {
	if err := p.tx(cmd); err != nil {
		return "", err
	}

	raw, err := p.rx()
	if err != nil {
		return "", err
	}

	resp := strings.TrimSpace(raw)
	if resp == rejectToken {
		return "", &CommandRejectedError{Command: cmd}
	}

	return resp, nil
}

// requestAck performs an exchange whose only valid response is the ack token
func (p *Protocol) requestAck(cmd string) error {
	resp, err := p.request(cmd)
	if err != nil {
		return err
	}
	if resp != ackToken {
		return &AckMismatchError{Command: cmd, Response: resp}
	}
	return nil
}

// begin takes the exchange mutex and checks the handler is still usable. The
// returned func releases the mutex.
func (p *Protocol) begin() (func(), error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	return p.mu.Unlock, nil
}

// ReadStartLine consumes the "Gauge Started." banner the device emits after
// power-up. It must run exactly once, before any other operation, or leftover
// banner bytes will be misread as protocol responses. Device sessions call it
// during open.
func (p *Protocol) ReadStartLine() error {
	done, err := p.begin()
	if err != nil {
		return err
	}
	defer done()

	_, err = p.rx()
	return err
}

// Zero resets the measurement to zero
func (p *Protocol) Zero() error {
	done, err := p.begin()
	if err != nil {
		return err
	}
	defer done()

	return p.requestAck("Z")
}

// Measure asks the device for a single measurement
func (p *Protocol) Measure() (Measure, error) {
	done, err := p.begin()
	if err != nil {
		return Measure{}, err
	}
	defer done()

	resp, err := p.request("D")
	if err != nil {
		return Measure{}, err
	}

	return parseMeasure(resp)
}

func parseMeasure(resp string) (Measure, error) {
	mt := measurePattern.FindStringSubmatch(resp)
	if mt == nil {
		return Measure{}, &ParseError{Raw: resp}
	}

	value, err := decimal.NewFromString(mt[2])
	if err != nil {
		return Measure{}, &ParseError{Raw: resp}
	}
	if mt[1] == "-" {
		value = value.Neg()
	}

	unit, err := ParseUnit(mt[3])
	if err != nil {
		return Measure{}, &ParseError{Raw: resp}
	}
	mode, err := ParseMode(mt[4])
	if err != nil {
		return Measure{}, &ParseError{Raw: resp}
	}
	state, err := ParseState(mt[5])
	if err != nil {
		return Measure{}, &ParseError{Raw: resp}
	}

	return Measure{
		Value: value,
		Unit:  unit,
		Mode:  mode,
		State: state,
	}, nil
}

// SetMode sets the measurement mode
func (p *Protocol) SetMode(mode Mode) error {
	done, err := p.begin()
	if err != nil {
		return err
	}
	defer done()

	return p.requestAck(mode.Code())
}

// SetUnit sets the measurement unit
func (p *Protocol) SetUnit(unit Unit) error {
	done, err := p.begin()
	if err != nil {
		return err
	}
	defer done()

	return p.requestAck(unit.Code())
}

// SetLimitPoints sets the low and high comparator limit points. Fields are
// formatted with two decimal places and sent low first, matching observed
// behaviour.
//
// TODO: confirm the low/high field order against the Imada DST/DSV command
// reference; the order below has not been verified against a real device.
func (p *Protocol) SetLimitPoints(low, high decimal.Decimal) error {
	done, err := p.begin()
	if err != nil {
		return err
	}
	defer done()

	cmd := "E" + low.StringFixed(2) + high.StringFixed(2)
	return p.requestAck(cmd)
}

// Store saves the current measurement into the device's internal memory
func (p *Protocol) Store() error {
	done, err := p.begin()
	if err != nil {
		return err
	}
	defer done()

	return p.requestAck("OM")
}

// ClearLast clears the last stored measurement from the device memory
func (p *Protocol) ClearLast() error {
	done, err := p.begin()
	if err != nil {
		return err
	}
	defer done()

	return p.requestAck("OC0")
}

// ClearAll clears every stored measurement from the device memory
func (p *Protocol) ClearAll() error {
	done, err := p.begin()
	if err != nil {
		return err
	}
	defer done()

	return p.requestAck("OC1")
}

// PowerOff turns the device off. The command has no response and the handler
// becomes unusable: any later call returns ErrClosed.
func (p *Protocol) PowerOff() error {
	done, err := p.begin()
	if err != nil {
		return err
	}
	defer done()

	if err := p.tx("Q"); err != nil {
		return err
	}

	p.closed = true
	return nil
}

// invalidate marks the handler consumed. Used by the device session on close.
func (p *Protocol) invalidate() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
