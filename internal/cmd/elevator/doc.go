// Package elevatorsim exposes a shared Run entrypoint used by the CLI to
// drive the elevator controller with a scripted set of requests.
//
// Example:
//
//	opts := elevatorsim.Options{External: []int{5}, Internal: []int{3, 7}}
//	_ = elevatorsim.Run(context.Background(), opts)
package elevatorsim
