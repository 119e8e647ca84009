// Package rotation collects the small pieces of SO(3) algebra the geometric
// controller is built on: the hat/vee isomorphism between R^3 and skew
// matrices, Euler angle <-> rotation matrix conversion in the ZYX convention,
// and the closed-form quaternion to Euler conversion used on IMU samples.
package rotation

import (
	"math"

	"github.com/skelterjohn/go.matrix"
	"github.com/westphae/quaternion"
)

// Vec builds a 3x1 column vector. All vector quantities in the controller
// are carried as column matrices so they compose directly with Product.
func Vec(x, y, z float64) *matrix.DenseMatrix {
	return matrix.MakeDenseMatrix([]float64{x, y, z}, 3, 1)
}

// Hat maps (x, y, z) to the skew-symmetric matrix S with S*w = (x,y,z) x w.
func Hat(x, y, z float64) *matrix.DenseMatrix {
	m := matrix.Zeros(3, 3)
	m.Set(0, 1, -z)
	m.Set(0, 2, y)
	m.Set(1, 0, z)
	m.Set(1, 2, -x)
	m.Set(2, 0, -y)
	m.Set(2, 1, x)
	return m
}

// HatVec is Hat applied to a 3x1 column vector.
func HatVec(v *matrix.DenseMatrix) *matrix.DenseMatrix {
	return Hat(v.Get(0, 0), v.Get(1, 0), v.Get(2, 0))
}

// Vee extracts the vector from the skew part of m; it is the exact left
// inverse of Hat on skew-symmetric input. Callers only ever pass the skew
// part, so no symmetry check is made.
func Vee(m *matrix.DenseMatrix) (x, y, z float64) {
	return m.Get(2, 1), m.Get(0, 2), m.Get(1, 0)
}

// VeeVec is Vee returning a 3x1 column vector.
func VeeVec(m *matrix.DenseMatrix) *matrix.DenseMatrix {
	x, y, z := Vee(m)
	return Vec(x, y, z)
}

// Cross returns a x b.
func Cross(a, b *matrix.DenseMatrix) *matrix.DenseMatrix {
	return matrix.Product(HatVec(a), b)
}

// Norm returns the Euclidean norm of a 3x1 column vector.
func Norm(v *matrix.DenseMatrix) float64 {
	x, y, z := v.Get(0, 0), v.Get(1, 0), v.Get(2, 0)
	return math.Sqrt(x*x + y*y + z*z)
}

// FromEuler builds the rotation matrix for the given roll, pitch, yaw in the
// ZYX convention: R = Rz(yaw) * Ry(pitch) * Rx(roll).
func FromEuler(roll, pitch, yaw float64) *matrix.DenseMatrix {
	sr, cr := math.Sincos(roll)
	sp, cp := math.Sincos(pitch)
	sy, cy := math.Sincos(yaw)

	return matrix.MakeDenseMatrix([]float64{
		cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr,
		sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr,
		-sp, cp * sr, cp * cr,
	}, 3, 3)
}

// ToEuler recovers the ZYX Euler angles from a rotation matrix. Inverse of
// FromEuler away from the pitch = +-90 degree singularity.
func ToEuler(r *matrix.DenseMatrix) (roll, pitch, yaw float64) {
	roll = math.Atan2(r.Get(2, 1), r.Get(2, 2))
	pitch = math.Asin(-r.Get(2, 0))
	yaw = math.Atan2(r.Get(1, 0), r.Get(0, 0))
	return
}

// QuatToEuler converts a unit quaternion to ZYX Euler angles via the
// closed-form arctangent/arcsine formulas. The caller is responsible for
// supplying a unit quaternion; a non-unit input drives the asin argument out
// of range and the result is NaN.
func QuatToEuler(q quaternion.Quaternion) (roll, pitch, yaw float64) {
	roll = math.Atan2(2*(q.W*q.X+q.Y*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))
	pitch = math.Asin(2 * (q.W*q.Y - q.Z*q.X))
	yaw = math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
	return
}

// Saturate clamps v to [lo, hi].
func Saturate(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
