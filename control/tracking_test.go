package control

import (
	"math"
	"testing"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

// hoverController returns a controller whose measured state sits exactly on
// the default reference: at the origin, level, at rest.
func hoverController() *Controller {
	c := NewController(100)
	c.state.Position = rotation.Vec(0, 0, 0)
	c.state.Velocity = rotation.Vec(0, 0, 0)
	return c
}

func TestHoverEquilibrium(t *testing.T) {
	c := hoverController()

	fU, b3d, _ := c.trajectoryTracking(rotation.Vec(0, 0, 0))
	if math.Abs(fU-c.mass*G) > 1e-9 {
		t.Errorf("hover thrust = %f, want m*g = %f", fU, c.mass*G)
	}
	if math.Abs(b3d.Get(0, 0)) > 1e-12 || math.Abs(b3d.Get(1, 0)) > 1e-12 ||
		math.Abs(b3d.Get(2, 0)-1) > 1e-12 {
		t.Errorf("hover thrust direction not vertical: (%f, %f, %f)",
			b3d.Get(0, 0), b3d.Get(1, 0), b3d.Get(2, 0))
	}

	mu, rd, _, _ := c.attitudeTracking(0.01, b3d)
	for i := 0; i < 3; i++ {
		if math.Abs(mu.Get(i, 0)) > 1e-9 {
			t.Errorf("hover moment axis %d = %f, want 0", i, mu.Get(i, 0))
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(rd.Get(i, j)-want) > 1e-12 {
				t.Errorf("hover Rd(%d,%d) = %f", i, j, rd.Get(i, j))
			}
		}
	}
}

func TestYawErrorProducesOnlyYawMoment(t *testing.T) {
	c := hoverController()
	yaw := 0.2
	c.state.Euler.Yaw = yaw
	c.state.R = rotation.FromEuler(0, 0, yaw)

	fU, b3d, _ := c.trajectoryTracking(rotation.Vec(0, 0, 0))
	// The thrust axis is still vertical, so the thrust is unchanged.
	if math.Abs(fU-c.mass*G) > 1e-9 {
		t.Errorf("thrust with yaw error = %f, want %f", fU, c.mass*G)
	}

	mu, _, _, _ := c.attitudeTracking(0.01, b3d)
	if math.Abs(mu.Get(0, 0)) > 1e-9 || math.Abs(mu.Get(1, 0)) > 1e-9 {
		t.Errorf("yaw error leaked into roll/pitch moments: (%f, %f)",
			mu.Get(0, 0), mu.Get(1, 0))
	}
	// e_R = (0, 0, sin(yaw)), mu_z = -kR_z * sin(yaw).
	want := -defaultKRZ * math.Sin(yaw)
	if math.Abs(mu.Get(2, 0)-want) > 1e-9 {
		t.Errorf("yaw moment = %f, want %f", mu.Get(2, 0), want)
	}
}

func TestMomentSaturation(t *testing.T) {
	// Pure roll error of 1.2 rad: raw roll moment kR_xy*sin(1.2) ~ 7.9 N m.
	c := hoverController()
	c.state.R = rotation.FromEuler(1.2, 0, 0)

	_, b3d, _ := c.trajectoryTracking(rotation.Vec(0, 0, 0))
	mu, _, _, _ := c.attitudeTracking(0.01, b3d)
	if math.Abs(mu.Get(0, 0)+MomentSatXY) > 1e-9 {
		t.Errorf("roll moment = %f, want clamp at %f", mu.Get(0, 0), -MomentSatXY)
	}

	// Pure yaw error of pi/2: raw yaw moment kR_z*1 = 4 N m.
	c = hoverController()
	c.state.Euler.Yaw = math.Pi / 2
	c.state.R = rotation.FromEuler(0, 0, math.Pi/2)

	_, b3d, _ = c.trajectoryTracking(rotation.Vec(0, 0, 0))
	mu, _, _, _ = c.attitudeTracking(0.01, b3d)
	if math.Abs(mu.Get(2, 0)+MomentSatZ) > 1e-9 {
		t.Errorf("yaw moment = %f, want clamp at %f", mu.Get(2, 0), -MomentSatZ)
	}
}

func TestAttitudeModeTracksVerticalOnly(t *testing.T) {
	c := NewController(100)
	c.ref.Mode = ModeAttitude
	c.state.Position = rotation.Vec(1, 2, 3)
	c.state.Velocity = rotation.Vec(0.5, -0.5, 1)

	c.trajectoryTracking(rotation.Vec(0, 0, 0))

	if c.eX.Get(0, 0) != 0 || c.eX.Get(1, 0) != 0 {
		t.Errorf("attitude mode tracked horizontal position: (%f, %f)",
			c.eX.Get(0, 0), c.eX.Get(1, 0))
	}
	if c.eV.Get(0, 0) != 0 || c.eV.Get(1, 0) != 0 {
		t.Errorf("attitude mode tracked horizontal velocity: (%f, %f)",
			c.eV.Get(0, 0), c.eV.Get(1, 0))
	}
	if math.Abs(c.eX.Get(2, 0)-3) > 1e-12 || math.Abs(c.eV.Get(2, 0)-1) > 1e-12 {
		t.Errorf("vertical errors wrong: ex_z = %f, ev_z = %f",
			c.eX.Get(2, 0), c.eV.Get(2, 0))
	}
}

func TestAttitudeModeUsesEulerReference(t *testing.T) {
	c := hoverController()
	c.ref.Mode = ModeAttitude
	c.ref.EulerD = Euler{Roll: 0.1, Pitch: -0.2, Yaw: 0.5}

	_, b3d, _ := c.trajectoryTracking(rotation.Vec(0, 0, 0))
	_, rd, _, _ := c.attitudeTracking(0.01, b3d)

	want := rotation.FromEuler(0.1, -0.2, 0.5)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(rd.Get(i, j)-want.Get(i, j)) > 1e-12 {
				t.Fatalf("Rd(%d,%d) = %f, want %f", i, j, rd.Get(i, j), want.Get(i, j))
			}
		}
	}
}

func TestHeadingFilterConvergesGeometrically(t *testing.T) {
	c := NewController(100)
	HeadingRefUpdate(0, 1, 0)(c)

	for k := 1; k <= 40; k++ {
		c.filterHeading()
		want := math.Pow(1-HeadingFilterGain, float64(k))
		if math.Abs(c.b1Des.Get(0, 0)-want) > 1e-12 {
			t.Fatalf("step %d: b1Des_x = %f, want %f", k, c.b1Des.Get(0, 0), want)
		}
	}
}

func TestPositionErrorTiltsThrust(t *testing.T) {
	c := hoverController()
	// Vehicle displaced north of the reference: the controller must tilt
	// the desired thrust direction back toward the reference.
	c.state.Position = rotation.Vec(1, 0, 0)

	_, b3d, a := c.trajectoryTracking(rotation.Vec(0, 0, 0))
	if a.Get(0, 0) >= 0 {
		t.Errorf("desired force must point back toward the reference, got A_x = %f", a.Get(0, 0))
	}
	if b3d.Get(0, 0) >= 0 {
		t.Errorf("thrust direction must tilt toward the reference, got b3d_x = %f", b3d.Get(0, 0))
	}
	if math.Abs(rotation.Norm(b3d)-1) > 1e-12 {
		t.Errorf("b3d not unit length: %f", rotation.Norm(b3d))
	}
}
