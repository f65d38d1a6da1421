package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes keep hashes of different record kinds apart. The version
// suffix leaves room to change the encoding later.
const (
	DomainTrace = "blocks/trace/v1"
	DomainEvent = "blocks/event/v1"
)

// hashWithDomain returns hex(SHA256(domain || 0x00 || data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EventID is the content id of one event. It covers the sequence number,
// so equal payloads at different positions get different ids.
func EventID(e Event) (string, error) {
	canonical, err := MarshalCanonical(e.Value())
	if err != nil {
		return "", fmt.Errorf("event id: %w", err)
	}
	return hashWithDomain(DomainEvent, canonical), nil
}

// Digest fingerprints a whole trace. Two runs with equal digests emitted the
// same events in the same order.
func Digest(events []Event) (string, error) {
	canonical, err := MarshalCanonical(Values(events))
	if err != nil {
		return "", fmt.Errorf("trace digest: %w", err)
	}
	return hashWithDomain(DomainTrace, canonical), nil
}
