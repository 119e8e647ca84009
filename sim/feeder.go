package sim

import (
	"time"

	"github.com/antonellabarisic/mmuav-gazebo/control"
)

// Feed pushes the situation's samples into the controller at the given
// interval, timestamped from clock. Runs until the process exits; start it
// in its own goroutine alongside the control loop.
func Feed(c *control.Controller, sit Situation, clock func() float64, interval time.Duration) {
	for {
		t := clock()

		q, gyro, pos, vel := sit.Measured(t)
		c.Push(control.IMUUpdate(q, gyro[0], gyro[1], gyro[2]))
		c.Push(control.PoseUpdate(pos[0], pos[1], pos[2]))
		c.Push(control.VelocityUpdate(vel[0], vel[1], vel[2]))

		xd, vd, ad, heading := sit.Reference(t)
		c.Push(control.PositionRefUpdate(xd[0], xd[1], xd[2]))
		c.Push(control.VelocityRefUpdate(vd[0], vd[1], vd[2]))
		c.Push(control.AccelerationRefUpdate(ad[0], ad[1], ad[2]))
		c.Push(control.HeadingRefUpdate(heading[0], heading[1], heading[2]))

		time.Sleep(interval)
	}
}
