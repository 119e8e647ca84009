package control

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/skelterjohn/go.matrix"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

const startupPollInterval = 500 * time.Millisecond

// Controller is the geometric control context. All state is owned by the
// single goroutine running the loop: updates are queued from other goroutines
// and applied synchronously at the start of each iteration, so no field is
// ever mutated concurrently with the compute step.
type Controller struct {
	state VehicleState
	ref   Reference
	gains gainHolder
	aux   AuxActuation
	mass  float64 // total vehicle mass including auxiliary hardware, kg

	b1Des *matrix.DenseMatrix // filtered desired heading
	diff  *attitudeDifferentiator
	alloc allocator

	// cycle errors held for status reporting
	eX, eV, eR, eW *matrix.DenseMatrix

	rate    float64 // loop rate, Hz
	clock   func() float64
	sleep   func(time.Duration)
	updates chan Update

	imuReady, poseReady, velocityReady bool

	flightID  string
	onCommand func(RotorCommand)
	onStatus  func(Status)
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithMovingMasses launches the controller in the moving-mass auxiliary mode.
func WithMovingMasses() Option {
	return func(c *Controller) { c.setAux(MovingMasses{}) }
}

// WithManipulator launches the controller in the manipulator auxiliary mode.
func WithManipulator() Option {
	return func(c *Controller) { c.setAux(NewManipulator()) }
}

// WithClock replaces the wall-clock time source; used with an external (e.g.
// simulated) clock.
func WithClock(clock func() float64) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithCommandOutput registers the consumer of per-cycle actuator commands.
func WithCommandOutput(f func(RotorCommand)) Option {
	return func(c *Controller) { c.onCommand = f }
}

// WithStatusOutput registers the consumer of per-cycle status records.
func WithStatusOutput(f func(Status)) Option {
	return func(c *Controller) { c.onStatus = f }
}

// NewController builds a controller running at the given rate, Hz.
func NewController(rate float64, opts ...Option) *Controller {
	c := &Controller{
		state: newVehicleState(),
		ref:   newReference(),
		aux:   NoAux{},
		mass:  UAVMass,
		b1Des: rotation.Vec(1, 0, 0),
		diff:  newAttitudeDifferentiator(AttitudeSubDT),
		alloc: newAllocator(),

		eX: rotation.Vec(0, 0, 0),
		eV: rotation.Vec(0, 0, 0),
		eR: rotation.Vec(0, 0, 0),
		eW: rotation.Vec(0, 0, 0),

		rate:     rate,
		clock:    func() float64 { return float64(time.Now().UnixNano()) / 1e9 },
		sleep:    time.Sleep,
		updates:  make(chan Update, 256),
		flightID: uuid.NewString(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FlightID returns the identifier stamped on this run's status records.
func (c *Controller) FlightID() string { return c.flightID }

func (c *Controller) setAux(a AuxActuation) {
	c.aux = a
	c.mass = UAVMass + a.MassDelta()
}

// Push queues an update for the next iteration's drain phase. Safe to call
// from any goroutine.
func (c *Controller) Push(u Update) {
	c.updates <- u
}

// drain applies every queued update.
func (c *Controller) drain() {
	for {
		select {
		case u := <-c.updates:
			u(c)
		default:
			return
		}
	}
}

// waitFor polls until the flag is set by an applied update, logging while it
// waits. Matches the original startup behavior: blocking, not cancellable.
func (c *Controller) waitFor(flag *bool, what string) {
	for !*flag {
		c.drain()
		if *flag {
			break
		}
		log.Printf("GeomCtl: waiting for first %s sample", what)
		c.sleep(startupPollInterval)
	}
}

// Run enters the control loop. It first waits for a valid clock source and
// the first orientation, position and velocity samples, in that order, then
// loops forever: drain updates, check elapsed time against the loop period
// (skipping the cycle if it has not elapsed), compute, publish. Run does not
// return; fatal conditions terminate the process.
func (c *Controller) Run() {
	for c.clock() == 0 {
		log.Println("GeomCtl: waiting for clock source")
		c.sleep(startupPollInterval)
	}
	log.Println("GeomCtl: clock source alive")

	c.waitFor(&c.imuReady, "orientation")
	c.waitFor(&c.poseReady, "position")
	c.waitFor(&c.velocityReady, "velocity")
	log.Printf("GeomCtl: starting geometric control at %v Hz, flight %s", c.rate, c.flightID)

	tOld := c.clock()
	for {
		c.drain()

		now := c.clock()
		dt := now - tOld
		if dt < 1/c.rate {
			continue
		}
		tOld = now

		cmd, st := c.step(now, dt)
		if c.onCommand != nil {
			c.onCommand(cmd)
		}
		if c.onStatus != nil {
			c.onStatus(st)
		}
	}
}

// step runs one control cycle: heading pre-filter, trajectory tracking,
// attitude tracking, allocation.
func (c *Controller) step(now, dt float64) (RotorCommand, Status) {
	c.filterHeading()

	// The auxiliary center-of-mass correction in trajectory tracking uses
	// the desired angular acceleration: the differentiator's held output
	// in position mode, the supplied reference otherwise.
	alphaFF := c.ref.AlphaD
	if c.ref.Mode == ModePosition {
		alphaFF = c.diff.alphaD
	}

	fU, b3d, _ := c.trajectoryTracking(alphaFF)
	mu, rd, omegaD, alphaD := c.attitudeTracking(dt, b3d)
	cmd := c.allocate(fU, mu)
	return cmd, c.buildStatus(now, fU, mu, rd, omegaD, alphaD, cmd)
}
