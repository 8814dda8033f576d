package serialport

import (
	"strings"
	"testing"

	"go.bug.st/serial"
)

// fakeDevice scripts the timed-read behavior of a real device: each Read
// returns the next queued chunk, or n=0 when nothing is due, the way a
// timeout-bounded poll does.
type fakeDevice struct {
	serial.Port
	chunks [][]byte
	closed bool
}

func (f *fakeDevice) Read(p []byte) (int, error) {
	if len(f.chunks) == 0 {
		return 0, nil
	}
	n := copy(p, f.chunks[0])
	f.chunks[0] = f.chunks[0][n:]
	if len(f.chunks[0]) == 0 {
		f.chunks = f.chunks[1:]
	}
	return n, nil
}

func (f *fakeDevice) Close() error {
	f.closed = true
	return nil
}

func TestAvailableNeverGoesBackwards(t *testing.T) {
	port := newPort(&fakeDevice{chunks: [][]byte{[]byte("OK"), []byte("\r\n")}})

	n, err := port.Available()
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 pending bytes, got %d", n)
	}

	// A poll that yields more bytes grows the count.
	n, err = port.Available()
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 pending bytes, got %d", n)
	}

	// A poll that yields nothing holds the count until a read consumes it.
	n, err = port.Available()
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected count held at 4, got %d", n)
	}
}

func TestReadAvailableConsumesPending(t *testing.T) {
	port := newPort(&fakeDevice{chunks: [][]byte{[]byte("QM,1,1,0,0\r\n")}})
	if _, err := port.Available(); err != nil {
		t.Fatalf("available: %v", err)
	}

	buf := make([]byte, 4)
	n, err := port.ReadAvailable(buf)
	if err != nil {
		t.Fatalf("read available: %v", err)
	}
	if n != 4 || string(buf[:n]) != "QM,1" {
		t.Fatalf("unexpected read %q", buf[:n])
	}

	left, err := port.Available()
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if left != len("QM,1,1,0,0\r\n")-4 {
		t.Fatalf("expected remainder pending, got %d", left)
	}
}

func TestReadAvailableEmpty(t *testing.T) {
	port := newPort(&fakeDevice{})
	buf := make([]byte, 8)
	n, err := port.ReadAvailable(buf)
	if err != nil {
		t.Fatalf("read available: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no bytes, got %d", n)
	}
}

func TestCloseReleasesDevice(t *testing.T) {
	dev := &fakeDevice{}
	port := newPort(dev)
	if err := port.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !dev.closed {
		t.Fatalf("device not closed")
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	if _, err := Open(Config{Baud: 115200}); err == nil || !strings.Contains(err.Error(), "device name") {
		t.Fatalf("expected device name error, got %v", err)
	}
	if _, err := Open(Config{Device: "/dev/ttyACM0", Baud: -1}); err == nil || !strings.Contains(err.Error(), "baud") {
		t.Fatalf("expected baud rate error, got %v", err)
	}
}
