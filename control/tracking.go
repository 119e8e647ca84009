package control

import (
	"log"

	"github.com/skelterjohn/go.matrix"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

// trajectoryTracking computes the desired net force A, the scalar thrust and
// the desired thrust direction b3_d for the current cycle. alphaD is the
// desired angular acceleration from the previous attitude step; it only
// enters through the auxiliary center-of-mass correction.
func (c *Controller) trajectoryTracking(alphaD *matrix.DenseMatrix) (fU float64, b3d, a *matrix.DenseMatrix) {
	kx, kv, _, _ := c.gains.matrices()

	var ex, ev *matrix.DenseMatrix
	switch c.ref.Mode {
	case ModePosition:
		ex = matrix.Difference(c.state.Position, c.ref.Xd)
		ev = matrix.Difference(c.state.Velocity, c.ref.Vd)
	case ModeAttitude:
		// Horizontal dynamics are not tracked in attitude mode; only the
		// vertical error feeds the thrust.
		ex = rotation.Vec(0, 0, c.state.Position.Get(2, 0)-c.ref.Xd.Get(2, 0))
		ev = rotation.Vec(0, 0, c.state.Velocity.Get(2, 0)-c.ref.Vd.Get(2, 0))
	default:
		log.Fatalf("GeomCtl: trajectory tracking reached with invalid mode %v", c.ref.Mode)
	}

	c.eX, c.eV = ex, ev

	a = matrix.Sum(
		matrix.Sum(
			matrix.Scaled(matrix.Product(kx, ex), -1),
			matrix.Scaled(matrix.Product(kv, ev), -1)),
		matrix.Sum(
			rotation.Vec(0, 0, c.mass*G),
			matrix.Scaled(c.ref.Ad, c.mass)))

	if c.aux.Active() {
		// Coriolis/centripetal contribution of the displaced center of
		// mass: -m*(R*rho) x alpha_d - m*R*hat(omega)*hat(rho)*omega.
		rho := c.aux.CenterOfMass(c.mass)
		rRho := matrix.Product(c.state.R, rho)
		a = matrix.Difference(a,
			matrix.Scaled(rotation.Cross(rRho, alphaD), c.mass))
		a = matrix.Difference(a,
			matrix.Scaled(matrix.Product(c.state.R,
				matrix.Product(rotation.HatVec(c.state.Omega),
					matrix.Product(rotation.HatVec(rho), c.state.Omega))), c.mass))
	}

	// f_u is the component of A along the current thrust axis.
	bodyZ := matrix.Product(c.state.R, rotation.Vec(0, 0, 1))
	fU = a.Get(0, 0)*bodyZ.Get(0, 0) + a.Get(1, 0)*bodyZ.Get(1, 0) + a.Get(2, 0)*bodyZ.Get(2, 0)

	// Desired thrust direction. ||A|| = 0 is a degenerate reference (free
	// fall command) and is left unguarded, as in the original.
	b3d = matrix.Scaled(a, 1/rotation.Norm(a))
	return fU, b3d, a
}

// attitudeTracking builds the desired rotation for the cycle, derives the
// attitude and rate errors, and computes the control moment. In position mode
// the desired rotation comes from the thrust direction and the pre-filtered
// heading, and its derivatives come from the sub-rate differentiator; in
// attitude mode the desired rotation comes directly from the Euler reference.
func (c *Controller) attitudeTracking(elapsed float64, b3d *matrix.DenseMatrix) (mu, rd, omegaD, alphaD *matrix.DenseMatrix) {
	_, _, kR, kw := c.gains.matrices()

	switch c.ref.Mode {
	case ModePosition:
		// Project the filtered heading onto the plane orthogonal to the
		// thrust direction. Singular when the heading is parallel to
		// b3_d; that reference combination is documented as unguarded.
		b13 := rotation.Cross(b3d, c.b1Des)
		b1c := matrix.Scaled(rotation.Cross(b3d, b13), -1/rotation.Norm(b13))
		b2c := rotation.Cross(b3d, b1c)
		b2c = matrix.Scaled(b2c, 1/rotation.Norm(b2c))

		rd = matrix.Zeros(3, 3)
		for i := 0; i < 3; i++ {
			rd.Set(i, 0, b1c.Get(i, 0))
			rd.Set(i, 1, b2c.Get(i, 0))
			rd.Set(i, 2, b3d.Get(i, 0))
		}
		omegaD, alphaD = c.diff.step(elapsed, rd)
	case ModeAttitude:
		rd = rotation.FromEuler(c.ref.EulerD.Roll, c.ref.EulerD.Pitch, c.ref.EulerD.Yaw)
		omegaD, alphaD = c.ref.OmegaD, c.ref.AlphaD
	default:
		log.Fatalf("GeomCtl: attitude tracking reached with invalid mode %v", c.ref.Mode)
	}

	r := c.state.R
	rTrd := matrix.Product(r.Transpose(), rd)

	// e_R = vee((Rd^T R - R^T Rd) / 2)
	eR := rotation.VeeVec(matrix.Scaled(
		matrix.Difference(matrix.Product(rd.Transpose(), r), rTrd), 0.5))

	// e_omega = omega - R^T Rd omega_d
	eW := matrix.Difference(c.state.Omega, matrix.Product(rTrd, omegaD))
	if isNaN3(eW) {
		log.Fatalf("GeomCtl: NaN in angular velocity error; upstream numerical failure")
	}
	c.eR, c.eW = eR, eW

	jAdj := c.aux.Inertia()
	omega := c.state.Omega

	mu = matrix.Sum(
		matrix.Sum(
			matrix.Scaled(matrix.Product(kR, eR), -1),
			matrix.Scaled(matrix.Product(kw, eW), -1)),
		rotation.Cross(omega, matrix.Product(jAdj, omega)))
	mu = matrix.Difference(mu, matrix.Product(jAdj,
		matrix.Difference(
			matrix.Product(rotation.HatVec(omega), matrix.Product(rTrd, omegaD)),
			matrix.Product(rTrd, alphaD))))

	if c.aux.Active() {
		rho := c.aux.CenterOfMass(c.mass)
		mu = matrix.Sum(mu, matrix.Scaled(
			rotation.Cross(rho, matrix.Product(r.Transpose(), c.ref.Ad)), c.mass))
	}

	mu = rotation.Vec(
		rotation.Saturate(mu.Get(0, 0), -MomentSatXY, MomentSatXY),
		rotation.Saturate(mu.Get(1, 0), -MomentSatXY, MomentSatXY),
		rotation.Saturate(mu.Get(2, 0), -MomentSatZ, MomentSatZ))

	return mu, rd, omegaD, alphaD
}

// filterHeading advances the first-order heading pre-filter one cycle toward
// the raw reference.
func (c *Controller) filterHeading() {
	c.b1Des = matrix.Sum(c.b1Des,
		matrix.Scaled(matrix.Difference(c.ref.B1d, c.b1Des), HeadingFilterGain))
}
