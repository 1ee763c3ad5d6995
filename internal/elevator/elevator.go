package elevator

import "fmt"

// Floor bounds served by the controller.
const (
	MinFloor = 1
	MaxFloor = 9
)

// Direction represents the current movement direction of the cabin.
type Direction uint8

const (
	// Idle means the cabin is stationary with no active requests driving it.
	Idle Direction = iota
	// Up means the cabin is moving upwards.
	Up
	// Down means the cabin is moving downwards.
	Down
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Idle:
		return "idle"
	default:
		return "unknown"
	}
}

// InvalidFloorError reports a request outside the served floor range.
type InvalidFloorError struct {
	Floor int
}

// Error implements error.
func (e *InvalidFloorError) Error() string {
	return fmt.Sprintf("invalid floor %d: must be between %d and %d", e.Floor, MinFloor, MaxFloor)
}

// Controller manages cabin state, requests, and movement logic. It is a
// single-goroutine state machine; callers provide their own synchronization
// if they drive it from multiple goroutines.
type Controller struct {
	currentFloor int
	direction    Direction
	internal     map[int]struct{} // passenger-selected floors
	external     map[int]struct{} // hall calls
}

// NewController returns a Controller idle at MinFloor.
func NewController() *Controller {
	return &Controller{
		currentFloor: MinFloor,
		direction:    Idle,
		internal:     make(map[int]struct{}),
		external:     make(map[int]struct{}),
	}
}

// AddInternalRequest registers a cabin (passenger) request for floor.
func (c *Controller) AddInternalRequest(floor int) error {
	if err := validateFloor(floor); err != nil {
		return err
	}
	c.internal[floor] = struct{}{}
	c.updateDirection()
	return nil
}

// AddExternalRequest registers a hall call for floor.
func (c *Controller) AddExternalRequest(floor int) error {
	if err := validateFloor(floor); err != nil {
		return err
	}
	c.external[floor] = struct{}{}
	c.updateDirection()
	return nil
}

// Move steps the cabin one floor in the current direction, clearing requests
// for floors it stops at and re-evaluating direction. A no-op while idle.
func (c *Controller) Move() {
	if c.direction == Idle {
		return
	}

	c.clearRequestsAt(c.currentFloor)

	if c.direction == Up && c.currentFloor < MaxFloor {
		c.currentFloor++
	} else if c.direction == Down && c.currentFloor > MinFloor {
		c.currentFloor--
	}

	c.clearRequestsAt(c.currentFloor)
	c.updateDirection()
}

// CurrentFloor returns the cabin position.
func (c *Controller) CurrentFloor() int { return c.currentFloor }

// CurrentDirection returns the movement direction.
func (c *Controller) CurrentDirection() Direction { return c.direction }

// HasRequests reports whether any request is pending.
func (c *Controller) HasRequests() bool {
	return len(c.internal) > 0 || len(c.external) > 0
}

func validateFloor(floor int) error {
	if floor < MinFloor || floor > MaxFloor {
		return &InvalidFloorError{Floor: floor}
	}
	return nil
}

func (c *Controller) clearRequestsAt(floor int) {
	delete(c.internal, floor)
	delete(c.external, floor)
}

// updateDirection keeps moving in the current direction while requests remain
// on that side, reverses otherwise, and goes idle when nothing is pending.
func (c *Controller) updateDirection() {
	c.clearRequestsAt(c.currentFloor)

	if !c.HasRequests() {
		c.direction = Idle
		return
	}

	switch c.direction {
	case Up:
		if c.hasRequestsAbove() {
			c.direction = Up
		} else {
			c.direction = Down
		}
	case Down:
		if c.hasRequestsBelow() {
			c.direction = Down
		} else {
			c.direction = Up
		}
	default:
		if c.hasRequestsAbove() {
			c.direction = Up
		} else if c.hasRequestsBelow() {
			c.direction = Down
		}
	}
}

func (c *Controller) hasRequestsAbove() bool {
	for floor := range c.internal {
		if floor > c.currentFloor {
			return true
		}
	}
	for floor := range c.external {
		if floor > c.currentFloor {
			return true
		}
	}
	return false
}

func (c *Controller) hasRequestsBelow() bool {
	for floor := range c.internal {
		if floor < c.currentFloor {
			return true
		}
	}
	for floor := range c.external {
		if floor < c.currentFloor {
			return true
		}
	}
	return false
}
