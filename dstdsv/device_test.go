package dstdsv

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestOpenConsumesBannerFirst(t *testing.T) {
	tr := &mockTransport{responses: respond("Gauge Started.", "R")}

	d, err := newDevice(tr, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	defer d.Close()

	// The first transport access must be the banner read, not a command
	if len(tr.writtenCommands()) != 0 {
		t.Fatalf("session wrote before consuming the banner: %q", tr.writtenCommands())
	}
	if tr.reads != 1 {
		t.Fatalf("banner reads = %d, want exactly 1", tr.reads)
	}

	// The handler is now ready: the next response is a real ack
	if err := d.Protocol().Zero(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestCloseReleasesTransportAndInvalidatesHandler(t *testing.T) {
	tr := &mockTransport{responses: respond("Gauge Started.")}

	d, err := newDevice(tr, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !tr.closed {
		t.Fatal("transport left open after Close")
	}

	if err := d.Protocol().Zero(); !errors.Is(err, ErrClosed) {
		t.Errorf("operation after Close: error = %v, want ErrClosed", err)
	}

	// Close is idempotent
	if err := d.Close(); err != nil {
		t.Errorf("second Close: %s", err)
	}
}
