// Package id provides a 128-bit, lexicographically sortable identifier used
// to tag relay sessions in logs.
//
// The ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence],
// so byte-wise comparison preserves chronological order. The Generator keeps
// per-process monotonicity even across clock regressions by pinning to the
// last seen millisecond and incrementing the sequence.
//
// Usage
//
//	g := id.NewGenerator()
//	sid := g.Next()
//	logger = logger.With(log.Str("session", sid.Short()))
package id
