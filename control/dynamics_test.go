package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

func TestAuxMassDelta(t *testing.T) {
	assert.Equal(t, 0.0, NoAux{}.MassDelta())
	assert.Equal(t, 4*MovingMassMass, MovingMasses{}.MassDelta())
	assert.Equal(t, 2*PayloadMass, NewManipulator().MassDelta())
}

func TestNoAuxIsNeutral(t *testing.T) {
	var a AuxActuation = NoAux{}
	assert.False(t, a.Active())

	com := a.CenterOfMass(UAVMass)
	for i := 0; i < 3; i++ {
		assert.Zero(t, com.Get(i, 0))
	}
	j := a.Inertia()
	assert.Equal(t, InertiaXX, j.Get(0, 0))
	assert.Equal(t, InertiaZZ, j.Get(2, 2))
}

func TestMovingMassCenterOfMass(t *testing.T) {
	total := UAVMass + 4*MovingMassMass
	m := MovingMasses{Offsets: [4]float64{0.1, 0, -0.1, 0}}

	com := m.CenterOfMass(total)
	// Symmetric displacement of the opposing x pair: offset 2*mm*d/total.
	require.InDelta(t, 2*MovingMassMass*0.1/total, com.Get(0, 0), 1e-12)
	assert.Zero(t, com.Get(1, 0))
	assert.Zero(t, com.Get(2, 0))

	// Mirrored pairs cancel out.
	m = MovingMasses{Offsets: [4]float64{0.1, -0.05, 0.1, -0.05}}
	com = m.CenterOfMass(total)
	assert.InDelta(t, 0, com.Get(0, 0), 1e-12)
	assert.InDelta(t, 0, com.Get(1, 0), 1e-12)
}

func TestMovingMassInertia(t *testing.T) {
	// Centered masses contribute only their fixed terms.
	j := MovingMasses{}.Inertia()
	assert.InDelta(t, InertiaXX+2*MovingMassInertia, j.Get(0, 0), 1e-12)
	assert.InDelta(t, InertiaYY+2*MovingMassInertia, j.Get(1, 1), 1e-12)
	assert.InDelta(t, InertiaZZ+4*MovingMassInertia, j.Get(2, 2), 1e-12)

	// Displacing the x pair grows pitch and yaw inertia but not roll.
	jd := MovingMasses{Offsets: [4]float64{0.1, 0, 0.1, 0}}.Inertia()
	assert.Equal(t, j.Get(0, 0), jd.Get(0, 0))
	assert.InDelta(t, j.Get(1, 1)+2*MovingMassMass*0.01, jd.Get(1, 1), 1e-12)
	assert.InDelta(t, j.Get(2, 2)+2*MovingMassMass*0.01, jd.Get(2, 2), 1e-12)
}

func TestManipulatorCenterOfMass(t *testing.T) {
	total := UAVMass + 2*PayloadMass
	m := Manipulator{
		Left:  rotation.Vec(0.1, 0.05, -0.02),
		Right: rotation.Vec(0.1, -0.05, -0.02),
	}
	com := m.CenterOfMass(total)
	require.InDelta(t, PayloadMass*0.1/total, com.Get(0, 0), 1e-12)
	assert.InDelta(t, 0, com.Get(1, 0), 1e-12)
	assert.InDelta(t, -PayloadMass*0.02/total, com.Get(2, 0), 1e-12)
}

func TestManipulatorInertia(t *testing.T) {
	j := NewManipulator().Inertia()
	assert.InDelta(t, InertiaXX+2*PayloadInertia, j.Get(0, 0), 1e-12)

	m := Manipulator{Left: rotation.Vec(0.2, 0, 0), Right: rotation.Vec(0.2, 0, 0)}
	jd := m.Inertia()
	// An x-only displacement is invisible to the roll axis.
	assert.Equal(t, j.Get(0, 0), jd.Get(0, 0))
	assert.InDelta(t, j.Get(1, 1)+2*PayloadMass*0.04, jd.Get(1, 1), 1e-12)
	assert.InDelta(t, j.Get(2, 2)+2*PayloadMass*0.04, jd.Get(2, 2), 1e-12)
}

func TestAuxSwitchingLeavesNoResidue(t *testing.T) {
	c := NewController(100)
	AuxMovingMassUpdate()(c)
	AuxManipulatorUpdate()(c)
	AuxNoneUpdate()(c)

	assert.Equal(t, UAVMass, c.mass)
	j := c.aux.Inertia()
	assert.Equal(t, InertiaXX, j.Get(0, 0))
	assert.Equal(t, InertiaYY, j.Get(1, 1))
	assert.Equal(t, InertiaZZ, j.Get(2, 2))
}

func TestSetAuxAdjustsTotalMass(t *testing.T) {
	c := NewController(100)
	assert.Equal(t, UAVMass, c.mass)

	c = NewController(100, WithMovingMasses())
	assert.InDelta(t, UAVMass+4*MovingMassMass, c.mass, 1e-12)

	c = NewController(100, WithManipulator())
	assert.InDelta(t, UAVMass+2*PayloadMass, c.mass, 1e-12)
}
