// Package elevator implements a floor-request controller for a single cabin
// serving floors 1-9.
//
// Requests come from inside the cabin (AddInternalRequest) or from hall
// calls (AddExternalRequest). Move steps one floor at a time; the cabin
// keeps its direction while requests remain on that side, reverses when
// they are exhausted, and goes idle when nothing is pending.
//
// Example:
//
//	c := elevator.NewController()
//	_ = c.AddExternalRequest(5)
//	for c.HasRequests() {
//	    c.Move()
//	}
package elevator
