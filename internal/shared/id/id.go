// Package id generates the ULID-based request IDs attached to outbound span
// queries (the X-Request-Id header) and to the log lines about them.
//
// IDs are prefixed ("req_01HX...") so they are recognizable in server logs,
// and K-sortable so a burst of queries lines up by issue time.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies one span query round trip.
type RequestID string

// RequestPrefix prefixes every RequestID.
const RequestPrefix = "req"

// String returns the ID as a string.
func (id RequestID) String() string { return string(id) }

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator reading from entropy, for
// deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID stamped with the current time.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a "<prefix>_<ulid>" string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewRequestID generates a request ID from the default generator.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// ParseRequestID validates a request ID and returns its ULID part.
func ParseRequestID(s string) (ulid.ULID, error) {
	prefix, rest, ok := strings.Cut(s, "_")
	if !ok || prefix != RequestPrefix {
		return ulid.ULID{}, fmt.Errorf("request id %q: missing %q prefix", s, RequestPrefix+"_")
	}
	return ulid.Parse(rest)
}

// Timestamp returns the time a request ID was issued.
func (id RequestID) Timestamp() (time.Time, error) {
	u, err := ParseRequestID(string(id))
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
