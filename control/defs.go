// Package control implements the SE(3) geometric trajectory and attitude
// tracking controller for the mmuav vehicle, together with the moving-mass
// and manipulator extensions that shift its center of mass, the rotor
// allocation step, and the fixed-rate loop that drives them.
//
// Frames follow the original vehicle convention: world x north-ish, z up;
// body x forward, z along the rotor thrust axis.
package control

import (
	"math"

	"github.com/skelterjohn/go.matrix"
	"github.com/westphae/quaternion"

	"github.com/antonellabarisic/mmuav-gazebo/rotation"
)

const (
	// G is the acceleration due to gravity, m/s^2.
	G = 9.81

	// UAVMass is the bare vehicle mass without auxiliary hardware, kg.
	UAVMass = 2.083

	// MovingMassMass is the mass of one movable arm mass, kg; there are
	// four of them, one per arm.
	MovingMassMass = 0.208
	// MovingMassInertia is the fixed inertia contribution of one movable
	// mass about its own axes, kg m^2.
	MovingMassInertia = 2.1e-4
	// MovingMassTravel is the mechanical travel limit of one movable mass
	// along its arm, m.
	MovingMassTravel = 0.14

	// PayloadMass is the mass of one manipulator gripper payload, kg;
	// there are two grippers.
	PayloadMass = 0.2
	// PayloadInertia is the fixed inertia contribution of one gripper
	// payload, kg m^2.
	PayloadInertia = 1.5e-3
	// PayloadTravel is the gripper positioning range per axis, m.
	PayloadTravel = 0.20

	// ArmLength is the rotor arm length, m.
	ArmLength = 0.314
	// MotorConstant relates rotor thrust to the square of rotor angular
	// velocity, N s^2: force = MotorConstant * w^2.
	MotorConstant = 8.54858e-6
	// MomentConstant is the rotor drag torque per unit thrust, m.
	MomentConstant = 0.016
	// MaxRotorVelocity is the rotor speed saturation limit, rad/s.
	MaxRotorVelocity = 1475.0

	// AttitudeSubDT is the period of the desired-attitude differentiation
	// sub-step, s (10 Hz, decoupled from the main loop rate).
	AttitudeSubDT = 0.1
	// MaxAlphaD saturates each axis of the differentiated desired angular
	// acceleration, rad/s^2.
	MaxAlphaD = 0.5

	// HeadingFilterGain is the per-cycle first-order filter gain applied
	// to the raw desired heading before the attitude basis is built.
	HeadingFilterGain = 0.05

	// MomentSatXY and MomentSatZ saturate the roll/pitch and yaw
	// components of the control moment, N m.
	MomentSatXY = 5.0
	MomentSatZ  = 2.5
)

// Base vehicle inertia diagonal, kg m^2.
const (
	InertiaXX = 0.0826944
	InertiaYY = 0.0826944
	InertiaZZ = 0.0104
)

// Mode selects which reference fields are authoritative for the tracking
// step.
type Mode int

const (
	// ModePosition tracks the full position/velocity reference and derives
	// the desired attitude from the thrust direction and heading.
	ModePosition Mode = iota
	// ModeAttitude tracks only the vertical position/velocity components
	// and takes the desired attitude directly from the Euler reference.
	ModeAttitude
	// ModeVelocity is declared for wire compatibility but carries no
	// tracking behavior; a cycle that reaches the tracking step in this
	// mode is treated as an unrecoverable configuration error.
	ModeVelocity
)

func (m Mode) String() string {
	switch m {
	case ModePosition:
		return "position"
	case ModeAttitude:
		return "attitude"
	case ModeVelocity:
		return "velocity"
	}
	return "unknown"
}

// VehicleState is the measured kinematic state of the vehicle, refreshed by
// the estimator on each incoming sample and read by the tracking step.
type VehicleState struct {
	Position *matrix.DenseMatrix // world frame, m
	Velocity *matrix.DenseMatrix // control frame, m/s
	R        *matrix.DenseMatrix // body-to-world rotation

	Euler     Euler // measured attitude, rad
	EulerRate Euler // measured attitude rates, rad/s

	// Omega is the angular velocity used by the control law: exactly the
	// Euler-rate triple, as a column vector.
	Omega *matrix.DenseMatrix
}

// Euler carries roll, pitch, yaw in radians.
type Euler struct {
	Roll, Pitch, Yaw float64
}

func newVehicleState() VehicleState {
	return VehicleState{
		Position: rotation.Vec(0, 0, 0),
		Velocity: rotation.Vec(0, 0, 0),
		R:        matrix.Eye(3),
		Omega:    rotation.Vec(0, 0, 0),
	}
}

// Reference is the desired state the controller tracks. Fields are written
// by the update-drain phase and read by the compute phase of the same loop
// iteration.
type Reference struct {
	Xd  *matrix.DenseMatrix // desired position, world frame, m
	Vd  *matrix.DenseMatrix // desired velocity, m/s
	Ad  *matrix.DenseMatrix // desired acceleration, m/s^2
	B1d *matrix.DenseMatrix // desired heading direction, unit vector

	Rd     *matrix.DenseMatrix // fully specified desired rotation
	OmegaD *matrix.DenseMatrix // desired body rate, rad/s
	AlphaD *matrix.DenseMatrix // desired angular acceleration, rad/s^2
	EulerD Euler               // desired attitude for attitude mode, rad
	Mode   Mode
}

func newReference() Reference {
	return Reference{
		Xd:  rotation.Vec(0, 0, 0),
		Vd:  rotation.Vec(0, 0, 0),
		Ad:  rotation.Vec(0, 0, 0),
		B1d: rotation.Vec(1, 0, 0), // initial heading is (1, 0, 0)

		Rd:     matrix.Eye(3),
		OmegaD: rotation.Vec(0, 0, 0),
		AlphaD: rotation.Vec(0, 0, 0),
		Mode:   ModePosition,
	}
}

// RotorCommand carries the four signed rotor angular velocities, rad/s, plus
// the auxiliary actuator displacement commands when an auxiliary mode is
// active.
type RotorCommand struct {
	Velocities [4]float64

	// MassOffsets holds the commanded movable-mass arm displacements, m;
	// nil unless the moving-mass mode is active.
	MassOffsets *[4]float64
	// PayloadOffsets holds the commanded gripper x/y displacements, m;
	// nil unless the manipulator mode is active.
	PayloadOffsets *[2]float64
}

// imuSample is the raw orientation + body-rate sample consumed by the
// estimator.
type imuSample struct {
	Quat    quaternion.Quaternion
	P, Q, R float64 // gyro rates p, q, r, rad/s
}

func isNaN3(v *matrix.DenseMatrix) bool {
	return math.IsNaN(v.Get(0, 0)) || math.IsNaN(v.Get(1, 0)) || math.IsNaN(v.Get(2, 0))
}
