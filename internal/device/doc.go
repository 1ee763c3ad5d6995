// Package device simulates a producing device driving a byte channel.
//
// The Simulator is handed an append capability (bytechan.AppendFunc) rather
// than the channel itself, so it can never touch the channel lock. Each
// iteration emits one chunk filled with the iteration index and pauses
// between chunks. Overflow rejections are counted and logged; the chunk is
// dropped, matching a device that cannot buffer unconsumed output.
//
// Example:
//
//	sim := device.New(device.Options{Iterations: 5, ChunkBytes: 1024})
//	stats, _ := sim.Run(ctx, ch.AppendFunc())
package device
