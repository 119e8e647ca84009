package control

import (
	"github.com/westphae/quaternion"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

// Update is a deferred state or reference mutation. One Update corresponds to
// one inbound message kind; the loop applies queued updates synchronously
// before each compute step, which keeps the single-writer invariant without
// locks.
type Update func(*Controller)

// IMUUpdate delivers an orientation quaternion and gyro rates p, q, r.
func IMUUpdate(q quaternion.Quaternion, p, qr, r float64) Update {
	return func(c *Controller) {
		c.applyIMU(imuSample{Quat: q, P: p, Q: qr, R: r})
	}
}

// PoseUpdate delivers the measured world position.
func PoseUpdate(x, y, z float64) Update {
	return func(c *Controller) { c.applyPose(x, y, z) }
}

// VelocityUpdate delivers the measured velocity in the fixed world-relative
// frame.
func VelocityUpdate(vx, vy, vz float64) Update {
	return func(c *Controller) { c.applyVelocity(vx, vy, vz) }
}

// PositionRefUpdate sets the desired position.
func PositionRefUpdate(x, y, z float64) Update {
	return func(c *Controller) { c.ref.Xd = rotation.Vec(x, y, z) }
}

// VelocityRefUpdate sets the desired velocity.
func VelocityRefUpdate(x, y, z float64) Update {
	return func(c *Controller) { c.ref.Vd = rotation.Vec(x, y, z) }
}

// AccelerationRefUpdate sets the desired acceleration.
func AccelerationRefUpdate(x, y, z float64) Update {
	return func(c *Controller) { c.ref.Ad = rotation.Vec(x, y, z) }
}

// HeadingRefUpdate sets the desired heading direction. The vector is
// renormalized to unit length on every update.
func HeadingRefUpdate(x, y, z float64) Update {
	return func(c *Controller) {
		v := rotation.Vec(x, y, z)
		if n := rotation.Norm(v); n > 0 {
			v.Scale(1 / n)
		}
		c.ref.B1d = v
	}
}

// BodyRateRefUpdate sets the desired body rate used in attitude mode.
func BodyRateRefUpdate(x, y, z float64) Update {
	return func(c *Controller) { c.ref.OmegaD = rotation.Vec(x, y, z) }
}

// AngularAccelRefUpdate sets the desired angular acceleration used in
// attitude mode.
func AngularAccelRefUpdate(x, y, z float64) Update {
	return func(c *Controller) { c.ref.AlphaD = rotation.Vec(x, y, z) }
}

// RotationRefUpdate sets the fully specified desired rotation, row-major.
func RotationRefUpdate(r [9]float64) Update {
	return func(c *Controller) {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				c.ref.Rd.Set(i, j, r[3*i+j])
			}
		}
	}
}

// EulerRefUpdate sets the desired Euler angles used in attitude mode.
func EulerRefUpdate(roll, pitch, yaw float64) Update {
	return func(c *Controller) {
		c.ref.EulerD = Euler{Roll: roll, Pitch: pitch, Yaw: yaw}
	}
}

// ModeUpdate selects the control mode from its wire encoding. An out-of-range
// value is stored as-is and hits the fatal invalid-mode check when the next
// tracking step runs.
func ModeUpdate(mode int) Update {
	return func(c *Controller) { c.ref.Mode = Mode(mode) }
}

// GainsUpdate applies a partial gain reconfiguration.
func GainsUpdate(u GainUpdate) Update {
	return func(c *Controller) { c.gains.Update(u) }
}

// MassStateUpdate delivers moving-mass position feedback. Ignored unless the
// moving-mass mode is active.
func MassStateUpdate(offsets [4]float64) Update {
	return func(c *Controller) {
		if _, ok := c.aux.(MovingMasses); ok {
			c.aux = MovingMasses{Offsets: offsets}
		}
	}
}

// GripperStateUpdate delivers manipulator gripper position feedback. Ignored
// unless the manipulator mode is active.
func GripperStateUpdate(left, right [3]float64) Update {
	return func(c *Controller) {
		if _, ok := c.aux.(Manipulator); ok {
			c.aux = Manipulator{
				Left:  rotation.Vec(left[0], left[1], left[2]),
				Right: rotation.Vec(right[0], right[1], right[2]),
			}
		}
	}
}

// AuxNoneUpdate, AuxMovingMassUpdate and AuxManipulatorUpdate switch the
// auxiliary actuation variant at runtime. Switching adjusts the total vehicle
// mass by the variant's fixed delta.
func AuxNoneUpdate() Update {
	return func(c *Controller) { c.setAux(NoAux{}) }
}

func AuxMovingMassUpdate() Update {
	return func(c *Controller) { c.setAux(MovingMasses{}) }
}

func AuxManipulatorUpdate() Update {
	return func(c *Controller) { c.setAux(NewManipulator()) }
}
