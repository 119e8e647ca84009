package control

import (
	"github.com/skelterjohn/go.matrix"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

// attitudeDifferentiator derives desired angular velocity and acceleration
// from the time series of desired rotations when the reference supplies only
// position and heading. It runs at a fixed sub-rate gated by an accumulator,
// decoupled from the main loop rate.
type attitudeDifferentiator struct {
	dt    float64 // sub-step period, s
	accum float64 // elapsed time since last trigger, s

	rdOld        *matrix.DenseMatrix // desired rotation at the previous trigger
	omegaSkewOld *matrix.DenseMatrix // rotation-rate skew at the previous trigger

	omegaD *matrix.DenseMatrix
	alphaD *matrix.DenseMatrix
}

func newAttitudeDifferentiator(dt float64) *attitudeDifferentiator {
	return &attitudeDifferentiator{
		dt:           dt,
		rdOld:        matrix.Eye(3),
		omegaSkewOld: matrix.Zeros(3, 3),
		omegaD:       rotation.Vec(0, 0, 0),
		alphaD:       rotation.Vec(0, 0, 0),
	}
}

// step advances the accumulator by elapsed and, when a sub-step period has
// passed, differentiates the desired rotation. Between triggers the previous
// outputs are held.
func (d *attitudeDifferentiator) step(elapsed float64, rd *matrix.DenseMatrix) (omegaD, alphaD *matrix.DenseMatrix) {
	d.accum += elapsed
	if d.accum < d.dt {
		return d.omegaD, d.alphaD
	}
	d.accum = 0

	// Finite-difference the rotation, then move the rate skew into the
	// body frame: omega_hat = Rd^T * dRd/dt.
	rdDot := matrix.Scaled(matrix.Difference(rd, d.rdOld), 1/d.dt)
	omegaSkew := matrix.Product(rd.Transpose(), rdDot)
	d.omegaD = rotation.VeeVec(omegaSkew)

	// Second difference with the quadratic correction -omega_hat^2 gives
	// the angular-acceleration skew.
	alphaSkew := matrix.Difference(
		matrix.Scaled(matrix.Difference(omegaSkew, d.omegaSkewOld), 1/d.dt),
		matrix.Product(omegaSkew, omegaSkew))
	ax, ay, az := rotation.Vee(alphaSkew)
	d.alphaD = rotation.Vec(
		rotation.Saturate(ax, -MaxAlphaD, MaxAlphaD),
		rotation.Saturate(ay, -MaxAlphaD, MaxAlphaD),
		rotation.Saturate(az, -MaxAlphaD, MaxAlphaD))

	d.rdOld = rd.Copy()
	d.omegaSkewOld = omegaSkew
	return d.omegaD, d.alphaD
}
