package control

import (
	"github.com/skelterjohn/go.matrix"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

// Status is the per-cycle monitoring record. It is produced once per control
// cycle for logging and streaming and is never read back by the control law.
type Status struct {
	T        float64 // cycle timestamp, s
	FlightID string  // identifier of this controller run
	Mode     string

	FU            float64 // scalar thrust, N
	MU1, MU2, MU3 float64 // control moment, N m

	X1, X2, X3    float64 // measured position, m
	XD1, XD2, XD3 float64 // desired position, m
	EX1, EX2, EX3 float64 // position error, m
	EV1, EV2, EV3 float64 // velocity error, m/s
	ER1, ER2, ER3 float64 // attitude error
	EW1, EW2, EW3 float64 // body-rate error, rad/s

	Roll, Pitch, Yaw    float64 // measured attitude, rad
	RollD, PitchD, YawD float64 // desired attitude, rad

	W1, W2, W3    float64 // measured body rates, rad/s
	WD1, WD2, WD3 float64 // desired body rates, rad/s
	AD1, AD2, AD3 float64 // desired angular acceleration, rad/s^2

	Rotor1, Rotor2, Rotor3, Rotor4 float64 // rotor speed commands, rad/s

	MassOffsets   [4]float64 // commanded movable mass displacements, m
	CM1, CM2, CM3 float64    // center-of-mass offset, body frame, m
}

func vec3Of(v *matrix.DenseMatrix) (float64, float64, float64) {
	return v.Get(0, 0), v.Get(1, 0), v.Get(2, 0)
}

// buildStatus assembles the status record for the cycle just computed.
func (c *Controller) buildStatus(t, fU float64, mu, rd, omegaD, alphaD *matrix.DenseMatrix, cmd RotorCommand) Status {
	st := Status{
		T:        t,
		FlightID: c.flightID,
		Mode:     c.ref.Mode.String(),
		FU:       fU,
	}
	st.MU1, st.MU2, st.MU3 = vec3Of(mu)
	st.X1, st.X2, st.X3 = vec3Of(c.state.Position)
	st.XD1, st.XD2, st.XD3 = vec3Of(c.ref.Xd)
	st.EX1, st.EX2, st.EX3 = vec3Of(c.eX)
	st.EV1, st.EV2, st.EV3 = vec3Of(c.eV)
	st.ER1, st.ER2, st.ER3 = vec3Of(c.eR)
	st.EW1, st.EW2, st.EW3 = vec3Of(c.eW)

	st.Roll = c.state.Euler.Roll
	st.Pitch = c.state.Euler.Pitch
	st.Yaw = c.state.Euler.Yaw
	st.RollD, st.PitchD, st.YawD = rotation.ToEuler(rd)

	st.W1, st.W2, st.W3 = vec3Of(c.state.Omega)
	st.WD1, st.WD2, st.WD3 = vec3Of(omegaD)
	st.AD1, st.AD2, st.AD3 = vec3Of(alphaD)

	st.Rotor1 = cmd.Velocities[0]
	st.Rotor2 = cmd.Velocities[1]
	st.Rotor3 = cmd.Velocities[2]
	st.Rotor4 = cmd.Velocities[3]

	if cmd.MassOffsets != nil {
		st.MassOffsets = *cmd.MassOffsets
	}
	if c.aux.Active() {
		st.CM1, st.CM2, st.CM3 = vec3Of(c.aux.CenterOfMass(c.mass))
	}
	return st
}
