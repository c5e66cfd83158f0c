package clock

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"
)

const (
	ntpPacketSize = 48
	// seconds between the NTP epoch (1900) and the Unix epoch (1970)
	ntpEpochOffset = 2208988800
	ntpTimeout     = 5 * time.Second
)

// NTP is a clock corrected by an offset measured against an NTP server.
// Adding the offset keeps the monotonic reading of time.Now.
type NTP struct {
	server string

	mu     sync.RWMutex
	offset time.Duration
	synced bool
}

// NewNTP returns an uncorrected clock for server ("host:123").
func NewNTP(server string) *NTP {
	return &NTP{server: server}
}

func (n *NTP) Now() time.Time {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return time.Now().Add(n.offset)
}

// Offset returns the last measured correction.
func (n *NTP) Offset() (time.Duration, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.offset, n.synced
}

// Sync queries the server once and stores the new offset.
func (n *NTP) Sync(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", n.server)
	if err != nil {
		return fmt.Errorf("dial ntp %s: %w", n.server, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(ntpTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)

	sent := time.Now()
	server, err := queryNTP(conn)
	if err != nil {
		return err
	}
	rtt := time.Since(sent)

	n.mu.Lock()
	n.offset = server.Add(rtt / 2).Sub(time.Now())
	n.synced = true
	n.mu.Unlock()
	return nil
}

// SyncWithRetry calls Sync up to attempts times spaced by interval.
func (n *NTP) SyncWithRetry(ctx context.Context, attempts int, interval time.Duration) error {
	var err error
	for i := 0; i < max(attempts, 1); i++ {
		if err = n.Sync(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("%w: %v", ErrNotSynced, err)
}

func queryNTP(conn net.Conn) (time.Time, error) {
	// LI=3 (unsynchronized), VN=4, Mode=3 (client)
	request := [ntpPacketSize]byte{0xe3}
	if _, err := conn.Write(request[:]); err != nil {
		return time.Time{}, fmt.Errorf("send ntp request: %w", err)
	}

	response := make([]byte, ntpPacketSize)
	n, err := conn.Read(response)
	if err != nil {
		return time.Time{}, fmt.Errorf("read ntp response: %w", err)
	}
	if n != ntpPacketSize {
		return time.Time{}, fmt.Errorf("expected NTP packet size of %d: %d", ntpPacketSize, n)
	}
	return parseNTPPacket(response), nil
}

// parseNTPPacket reads the transmit timestamp (bytes 40-47).
func parseNTPPacket(r []byte) time.Time {
	secs := binary.BigEndian.Uint32(r[40:44])
	frac := binary.BigEndian.Uint32(r[44:48])
	nanos := (int64(frac) * int64(time.Second)) >> 32
	return time.Unix(int64(secs)-ntpEpochOffset, nanos).UTC()
}
