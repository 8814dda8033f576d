package protocol

// Transport is the byte-level serial collaborator the core drives. The
// protocol is strictly half-duplex: callers issue one round trip at a time.
//
// Implementations must be non-blocking: Available reports bytes readable
// right now, ReadAvailable returns at most len(p) of those without waiting.
type Transport interface {
	Write(p []byte) (int, error)
	Available() (int, error)
	ReadAvailable(p []byte) (int, error)
}

// Drain discards bytes left over from a previous, unrelated exchange so a
// stale reply cannot cross-talk into the next round trip. Returns how many
// bytes were discarded.
func Drain(t Transport) (int, error) {
	var scratch [64]byte
	total := 0
	for {
		avail, err := t.Available()
		if err != nil {
			return total, err
		}
		if avail == 0 {
			return total, nil
		}
		n, err := t.ReadAvailable(scratch[:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
}
