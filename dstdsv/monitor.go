package dstdsv

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultPollInterval = 100 * time.Millisecond

// Reading is one polled measurement with its acquisition time
type Reading struct {
	Measure   Measure   `json:"measure"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadingHandler handles readings produced by a Monitor
type ReadingHandler interface {
	HandleReading(r Reading)
}

// ReadingHandlerFunc is a function adapter for ReadingHandler
type ReadingHandlerFunc func(Reading)

// HandleReading calls the function
func (f ReadingHandlerFunc) HandleReading(r Reading) {
	f(r)
}

// Monitor polls a gauge at a fixed interval and dispatches readings to
// registered handlers and an optional channel. While running it must be the
// only user of the protocol handler; the poll loop relies on the handler's
// one-exchange-at-a-time discipline.
type Monitor struct {
	proto    *Protocol
	interval time.Duration
	handlers []ReadingHandler
	ch       chan<- Reading
	errFn    func(error)
	logger   *zap.SugaredLogger
	stopChan chan struct{}
	doneChan chan struct{}
	mu       sync.Mutex
	running  bool
}

// MonitorOption configures a Monitor
type MonitorOption func(*Monitor)

// WithInterval sets the poll interval (default: 100ms)
func WithInterval(interval time.Duration) MonitorOption {
	return func(m *Monitor) {
		m.interval = interval
	}
}

// WithMonitorLogger sets a custom logger
func WithMonitorLogger(logger *zap.SugaredLogger) MonitorOption {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// WithReadingChannel sets a channel readings are offered to. Sends are
// non-blocking: a reading is dropped when the channel is full.
func WithReadingChannel(ch chan<- Reading) MonitorOption {
	return func(m *Monitor) {
		m.ch = ch
	}
}

// WithErrorHandler sets a callback invoked for every failed poll
func WithErrorHandler(fn func(error)) MonitorOption {
	return func(m *Monitor) {
		m.errFn = fn
	}
}

// NewMonitor creates a monitor over an open protocol handler
func NewMonitor(proto *Protocol, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		proto:    proto,
		interval: defaultPollInterval,
		logger:   zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// AddHandler registers a reading handler. Handlers must be registered before
// Start.
func (m *Monitor) AddHandler(h ReadingHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, h)
}

// Start begins polling in a background goroutine
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("monitor already running")
	}

	m.running = true
	m.stopChan = make(chan struct{})
	m.doneChan = make(chan struct{})

	m.logger.Infof("Gauge monitor starting (interval %s)", m.interval)
	go m.poll()

	return nil
}

// Stop stops polling and waits for the poll loop to exit
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopChan)
	done := m.doneChan
	m.mu.Unlock()

	<-done
	m.logger.Info("Gauge monitor stopped")
}

func (m *Monitor) poll() {
	defer close(m.doneChan)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return

		case <-ticker.C:
			measure, err := m.proto.Measure()
			if err != nil {
				if errors.Is(err, ErrClosed) {
					m.logger.Info("Protocol handler closed, monitor exiting")
					return
				}
				m.logger.Warnf("Poll failed: %s", err)
				if m.errFn != nil {
					m.errFn(err)
				}
				continue
			}

			m.dispatch(Reading{
				Measure:   measure,
				Timestamp: time.Now(),
			})
		}
	}
}

func (m *Monitor) dispatch(r Reading) {
	m.mu.Lock()
	handlers := m.handlers
	m.mu.Unlock()

	m.logger.Debugf("Reading: %s", r.Measure)

	for _, h := range handlers {
		h.HandleReading(r)
	}

	if m.ch != nil {
		select {
		case m.ch <- r:
		default:
			// Consumer is behind, drop the reading
		}
	}
}
