package control

import (
	"github.com/skelterjohn/go.matrix"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

// AuxActuation is the active auxiliary actuation variant. Exactly one of
// None, MovingMasses or Manipulator is held by the controller at a time, so
// an invalid flag combination cannot be represented.
type AuxActuation interface {
	// Active reports whether the variant contributes auxiliary dynamics;
	// the tracking step adds the center-of-mass correction terms and the
	// allocator switches to the collapsed transform only when it does.
	Active() bool
	// MassDelta is the total vehicle mass added by the variant's
	// hardware, kg.
	MassDelta() float64
	// CenterOfMass is the instantaneous center-of-mass offset in the body
	// frame, m, for the given total vehicle mass.
	CenterOfMass(totalMass float64) *matrix.DenseMatrix
	// Inertia is the vehicle inertia adjusted for the variant's current
	// configuration.
	Inertia() *matrix.DenseMatrix
}

func baseInertia() *matrix.DenseMatrix {
	return matrix.Diagonal([]float64{InertiaXX, InertiaYY, InertiaZZ})
}

// NoAux is the bare vehicle: no offset, base inertia.
type NoAux struct{}

func (NoAux) Active() bool       { return false }
func (NoAux) MassDelta() float64 { return 0 }

func (NoAux) CenterOfMass(totalMass float64) *matrix.DenseMatrix {
	return rotation.Vec(0, 0, 0)
}

func (NoAux) Inertia() *matrix.DenseMatrix {
	return baseInertia()
}

// MovingMasses models the four movable arm masses. Offsets are the signed
// displacements of the masses along their arms: index 0 and 2 on the body x
// axis (opposing), 1 and 3 on the body y axis (opposing).
type MovingMasses struct {
	Offsets [4]float64
}

func (MovingMasses) Active() bool       { return true }
func (MovingMasses) MassDelta() float64 { return 4 * MovingMassMass }

// CenterOfMass is the mass-weighted offset of the four arm masses; the
// opposing pairs subtract and the z component stays zero.
func (m MovingMasses) CenterOfMass(totalMass float64) *matrix.DenseMatrix {
	return rotation.Vec(
		MovingMassMass*(m.Offsets[0]-m.Offsets[2])/totalMass,
		MovingMassMass*(m.Offsets[1]-m.Offsets[3])/totalMass,
		0)
}

// Inertia adds the fixed per-mass contributions plus the quadratic terms of
// the current offsets. Roll and pitch each see the two masses on the
// orthogonal axis; yaw sees all four.
func (m MovingMasses) Inertia() *matrix.DenseMatrix {
	x1, y1, x2, y2 := m.Offsets[0], m.Offsets[1], m.Offsets[2], m.Offsets[3]
	ixx := InertiaXX + 2*MovingMassInertia + MovingMassMass*(y1*y1+y2*y2)
	iyy := InertiaYY + 2*MovingMassInertia + MovingMassMass*(x1*x1+x2*x2)
	izz := InertiaZZ + 4*MovingMassInertia +
		MovingMassMass*(x1*x1+y1*y1+x2*x2+y2*y2)
	return matrix.Diagonal([]float64{ixx, iyy, izz})
}

// Manipulator models the two-gripper payload. Left and Right are the gripper
// positions in the body frame, m.
type Manipulator struct {
	Left  *matrix.DenseMatrix
	Right *matrix.DenseMatrix
}

// NewManipulator returns a manipulator variant with both grippers at the
// body origin.
func NewManipulator() Manipulator {
	return Manipulator{Left: rotation.Vec(0, 0, 0), Right: rotation.Vec(0, 0, 0)}
}

func (Manipulator) Active() bool       { return true }
func (Manipulator) MassDelta() float64 { return 2 * PayloadMass }

// CenterOfMass is the mean gripper position scaled by the payload mass over
// the total vehicle mass.
func (m Manipulator) CenterOfMass(totalMass float64) *matrix.DenseMatrix {
	return matrix.Scaled(matrix.Sum(m.Left, m.Right), 0.5*PayloadMass/totalMass)
}

// Inertia adds twice the fixed payload inertia plus the quadratic terms of
// the gripper offsets orthogonal to each axis.
func (m Manipulator) Inertia() *matrix.DenseMatrix {
	lx, ly, lz := m.Left.Get(0, 0), m.Left.Get(1, 0), m.Left.Get(2, 0)
	rx, ry, rz := m.Right.Get(0, 0), m.Right.Get(1, 0), m.Right.Get(2, 0)
	ixx := InertiaXX + 2*PayloadInertia + PayloadMass*(ly*ly+lz*lz+ry*ry+rz*rz)
	iyy := InertiaYY + 2*PayloadInertia + PayloadMass*(lx*lx+lz*lz+rx*rx+rz*rz)
	izz := InertiaZZ + 2*PayloadInertia + PayloadMass*(lx*lx+ly*ly+rx*rx+ry*ry)
	return matrix.Diagonal([]float64{ixx, iyy, izz})
}
