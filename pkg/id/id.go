package id

import (
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"
)

// ID is a 128-bit, lexicographically sortable identifier encoded as 16 bytes
// big-endian: [8 bytes ms_timestamp][8 bytes sequence].
type ID [16]byte

// Bytes returns the raw 16-byte representation.
func (i ID) Bytes() []byte { b := make([]byte, 16); copy(b, i[:]); return b }

// String returns the full hex form.
func (i ID) String() string { return hex.EncodeToString(i[:]) }

// Short returns the first 8 hex characters, convenient as a log tag.
func (i ID) Short() string { return i.String()[:8] }

// Compare returns -1, 0, 1 based on lexical comparison, which matches
// chronological order.
func (i ID) Compare(other ID) int {
	for idx := 0; idx < len(i); idx++ {
		if i[idx] != other[idx] {
			if i[idx] < other[idx] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Generator produces monotonically increasing IDs per process.
type Generator struct {
	mu       sync.Mutex
	lastMs   int64
	sequence uint64
}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator { return &Generator{} }

// NowMs returns current time in milliseconds since Unix epoch. Swappable for
// tests.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Next returns a new ID. If the clock regresses, it pins to the last seen
// millisecond and bumps the sequence so IDs never go backwards.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := NowMs()
	if ms <= g.lastMs {
		ms = g.lastMs
		g.sequence++
	} else {
		g.sequence = 0
	}
	g.lastMs = ms

	var id ID
	binary.BigEndian.PutUint64(id[0:8], uint64(ms))
	binary.BigEndian.PutUint64(id[8:16], g.sequence)
	return id
}
