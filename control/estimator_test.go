package control

import (
	"math"
	"testing"

	"github.com/skelterjohn/go.matrix"
	"github.com/westphae/quaternion"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

func TestApplyIMULevelGyroPassThrough(t *testing.T) {
	c := NewController(100)
	// Level attitude: the Euler-rate kinematics reduce to the identity.
	IMUUpdate(quaternion.Quaternion{W: 1}, 0.1, -0.2, 0.3)(c)

	if math.Abs(c.state.EulerRate.Roll-0.1) > 1e-12 ||
		math.Abs(c.state.EulerRate.Pitch+0.2) > 1e-12 ||
		math.Abs(c.state.EulerRate.Yaw-0.3) > 1e-12 {
		t.Errorf("level Euler rates should equal gyro rates, got (%f, %f, %f)",
			c.state.EulerRate.Roll, c.state.EulerRate.Pitch, c.state.EulerRate.Yaw)
	}
	if math.Abs(c.state.Omega.Get(0, 0)-0.1) > 1e-12 {
		t.Error("omega must carry the Euler-rate triple")
	}
}

func TestApplyIMURebuildsRotation(t *testing.T) {
	c := NewController(100)
	roll, pitch, yaw := 0.3, -0.4, 1.2
	qx := quaternion.Quaternion{W: math.Cos(roll / 2), X: math.Sin(roll / 2)}
	qy := quaternion.Quaternion{W: math.Cos(pitch / 2), Y: math.Sin(pitch / 2)}
	qz := quaternion.Quaternion{W: math.Cos(yaw / 2), Z: math.Sin(yaw / 2)}
	IMUUpdate(quaternion.Prod(qz, qy, qx), 0, 0, 0)(c)

	want := rotation.FromEuler(roll, pitch, yaw)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(c.state.R.Get(i, j)-want.Get(i, j)) > 1e-9 {
				t.Fatalf("R(%d,%d) = %f, want %f", i, j, c.state.R.Get(i, j), want.Get(i, j))
			}
		}
	}

	// R is reconstructed, so it must be orthonormal to machine precision.
	p := matrix.Product(c.state.R.Transpose(), c.state.R)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(p.Get(i, j)-want) > 1e-12 {
				t.Fatalf("R^T R not identity at (%d,%d): %f", i, j, p.Get(i, j))
			}
		}
	}
}

func TestApplyVelocityRotatesByYaw(t *testing.T) {
	c := NewController(100)
	yaw := math.Pi / 2
	IMUUpdate(quaternion.Quaternion{W: math.Cos(yaw / 2), Z: math.Sin(yaw / 2)}, 0, 0, 0)(c)
	VelocityUpdate(1, 2, 3)(c)

	// Rz(pi/2) * (1, 2, 3) = (-2, 1, 3)
	if math.Abs(c.state.Velocity.Get(0, 0)+2) > 1e-9 ||
		math.Abs(c.state.Velocity.Get(1, 0)-1) > 1e-9 ||
		math.Abs(c.state.Velocity.Get(2, 0)-3) > 1e-9 {
		t.Errorf("rotated velocity wrong: (%f, %f, %f)",
			c.state.Velocity.Get(0, 0), c.state.Velocity.Get(1, 0), c.state.Velocity.Get(2, 0))
	}
}

func TestHeadingRenormalizedOnUpdate(t *testing.T) {
	c := NewController(100)
	HeadingRefUpdate(3, 4, 0)(c)
	if math.Abs(rotation.Norm(c.ref.B1d)-1) > 1e-12 {
		t.Errorf("heading not renormalized: |b1d| = %f", rotation.Norm(c.ref.B1d))
	}
	if math.Abs(c.ref.B1d.Get(0, 0)-0.6) > 1e-12 || math.Abs(c.ref.B1d.Get(1, 0)-0.8) > 1e-12 {
		t.Errorf("heading direction wrong: (%f, %f)",
			c.ref.B1d.Get(0, 0), c.ref.B1d.Get(1, 0))
	}
}
