package control

import (
	"math"

	"github.com/skelterjohn/go.matrix"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

// allocator maps the (thrust, moment) 4-vector to four signed rotor angular
// velocities through a fixed linear transform. Both transform variants are
// built once at construction and held by value in the controller context.
type allocator struct {
	// full distributes roll, pitch and yaw to the rotors.
	full *matrix.DenseMatrix
	// collapsed zeroes the roll/pitch columns for use when an auxiliary
	// actuation mode owns those axes, so the rotors and the auxiliary
	// mechanism do not fight over the same authority.
	collapsed *matrix.DenseMatrix
}

func newAllocator() allocator {
	l := ArmLength
	cm := MomentConstant
	full := matrix.MakeDenseMatrix([]float64{
		0.25, 0, -1 / (2 * l), 1 / (4 * cm),
		0.25, 1 / (2 * l), 0, -1 / (4 * cm),
		0.25, 0, 1 / (2 * l), 1 / (4 * cm),
		0.25, -1 / (2 * l), 0, -1 / (4 * cm),
	}, 4, 4)
	collapsed := matrix.MakeDenseMatrix([]float64{
		0.25, 0, 0, 1 / (4 * cm),
		0.25, 0, 0, -1 / (4 * cm),
		0.25, 0, 0, 1 / (4 * cm),
		0.25, 0, 0, -1 / (4 * cm),
	}, 4, 4)
	return allocator{full: full, collapsed: collapsed}
}

// rotorVelocities converts (f_u, M_u) into four signed rotor speeds:
// transform to per-rotor force equivalents, invert force = k*w^2 preserving
// sign, saturate the magnitude.
func (al allocator) rotorVelocities(fU float64, mu *matrix.DenseMatrix, auxActive bool) [4]float64 {
	t := al.full
	if auxActive {
		t = al.collapsed
	}
	u := matrix.MakeDenseMatrix([]float64{
		fU, mu.Get(0, 0), mu.Get(1, 0), mu.Get(2, 0)}, 4, 1)
	forces := matrix.Product(t, u)

	var w [4]float64
	for i := 0; i < 4; i++ {
		f := forces.Get(i, 0)
		sign := 1.0
		if f < 0 {
			sign = -1.0
		}
		mag := math.Sqrt(math.Abs(f) / MotorConstant)
		w[i] = sign * rotation.Saturate(mag, 0, MaxRotorVelocity)
	}
	return w
}

// movingMassCommands converts the roll/pitch moment into the four movable
// mass displacement commands, saturated to the mechanism travel. Pitch is
// produced by the opposing pair on the body x axis, roll by the pair on the
// body y axis.
func movingMassCommands(mu *matrix.DenseMatrix) [4]float64 {
	dx := rotation.Saturate(
		mu.Get(1, 0)/(2*MovingMassMass*G), -MovingMassTravel, MovingMassTravel)
	dy := rotation.Saturate(
		-mu.Get(0, 0)/(2*MovingMassMass*G), -MovingMassTravel, MovingMassTravel)
	return [4]float64{dx, dy, -dx, -dy}
}

// payloadCommands converts the roll/pitch moment into the gripper x/y
// displacement commands, saturated to the gripper travel.
func payloadCommands(mu *matrix.DenseMatrix) [2]float64 {
	dx := rotation.Saturate(
		mu.Get(1, 0)/(2*PayloadMass*G), -PayloadTravel, PayloadTravel)
	dy := rotation.Saturate(
		-mu.Get(0, 0)/(2*PayloadMass*G), -PayloadTravel, PayloadTravel)
	return [2]float64{dx, dy}
}

// allocate builds the full actuator command for the cycle.
func (c *Controller) allocate(fU float64, mu *matrix.DenseMatrix) RotorCommand {
	cmd := RotorCommand{
		Velocities: c.alloc.rotorVelocities(fU, mu, c.aux.Active()),
	}
	switch c.aux.(type) {
	case MovingMasses:
		m := movingMassCommands(mu)
		cmd.MassOffsets = &m
	case Manipulator:
		p := payloadCommands(mu)
		cmd.PayloadOffsets = &p
	}
	return cmd
}
