package control

import (
	"math"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

// applyIMU converts an orientation + gyro sample into Euler angles, Euler
// rates and a fresh rotation matrix. R is rebuilt from the Euler angles on
// every sample rather than integrated, so it cannot drift away from SO(3).
func (c *Controller) applyIMU(s imuSample) {
	roll, pitch, yaw := rotation.QuatToEuler(s.Quat)
	c.state.Euler = Euler{Roll: roll, Pitch: pitch, Yaw: yaw}

	sx := math.Sin(roll)
	cx := math.Cos(roll)
	cy := math.Cos(pitch)
	ty := math.Tan(pitch)

	// Gyro (p, q, r) to roll/pitch/yaw rates. Singular at pitch = +-90
	// degrees; that attitude is outside the vehicle's envelope and is not
	// guarded here.
	c.state.EulerRate = Euler{
		Roll:  s.P + sx*ty*s.Q + cx*ty*s.R,
		Pitch: cx*s.Q - sx*s.R,
		Yaw:   sx/cy*s.Q + cx/cy*s.R,
	}

	c.state.R = rotation.FromEuler(roll, pitch, yaw)

	// The control law works with the Euler-rate triple, not raw (p, q, r).
	c.state.Omega = rotation.Vec(
		c.state.EulerRate.Roll, c.state.EulerRate.Pitch, c.state.EulerRate.Yaw)

	c.imuReady = true
}

// applyPose stores the measured world position.
func (c *Controller) applyPose(x, y, z float64) {
	c.state.Position = rotation.Vec(x, y, z)
	c.poseReady = true
}

// applyVelocity rotates a velocity sample from its fixed world-relative frame
// into the control frame using the current yaw, then stores it.
func (c *Controller) applyVelocity(vx, vy, vz float64) {
	sy, cy := math.Sincos(c.state.Euler.Yaw)
	c.state.Velocity = rotation.Vec(
		cy*vx-sy*vy,
		sy*vx+cy*vy,
		vz)
	c.velocityReady = true
}
