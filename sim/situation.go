// Package sim synthesizes measurement and reference streams so the
// controller can run and be exercised without the external message bus.
// Define a flight situation in code, feed the matching samples to the
// controller, and watch what it commands.
package sim

import (
	"math"

	"github.com/westphae/quaternion"
)

// Situation supplies the measured vehicle state and the reference the
// controller should track at time t.
type Situation interface {
	// Measured returns the orientation quaternion, gyro rates, world
	// position and world-relative velocity at time t.
	Measured(t float64) (q quaternion.Quaternion, gyro, pos, vel [3]float64)
	// Reference returns the desired position, velocity, acceleration and
	// heading direction at time t.
	Reference(t float64) (xd, vd, ad, heading [3]float64)
}

// Hover is a vehicle parked at a fixed position with identity attitude,
// commanded to stay there.
type Hover struct {
	Height float64
}

func (h Hover) Measured(t float64) (q quaternion.Quaternion, gyro, pos, vel [3]float64) {
	return quaternion.Quaternion{W: 1}, [3]float64{}, [3]float64{0, 0, h.Height}, [3]float64{}
}

func (h Hover) Reference(t float64) (xd, vd, ad, heading [3]float64) {
	return [3]float64{0, 0, h.Height}, [3]float64{}, [3]float64{}, [3]float64{1, 0, 0}
}

// YawStep hovers and, from time At on, demands the heading rotated by Angle
// radians. Exercises the heading pre-filter and the attitude differentiator.
type YawStep struct {
	Height float64
	At     float64
	Angle  float64
}

func (y YawStep) Measured(t float64) (q quaternion.Quaternion, gyro, pos, vel [3]float64) {
	return quaternion.Quaternion{W: 1}, [3]float64{}, [3]float64{0, 0, y.Height}, [3]float64{}
}

func (y YawStep) Reference(t float64) (xd, vd, ad, heading [3]float64) {
	xd = [3]float64{0, 0, y.Height}
	heading = [3]float64{1, 0, 0}
	if t >= y.At {
		heading = [3]float64{math.Cos(y.Angle), math.Sin(y.Angle), 0}
	}
	return xd, vd, ad, heading
}

// PositionStep hovers and, from time At on, demands a displaced position.
type PositionStep struct {
	Height float64
	At     float64
	Step   [3]float64
}

func (p PositionStep) Measured(t float64) (q quaternion.Quaternion, gyro, pos, vel [3]float64) {
	return quaternion.Quaternion{W: 1}, [3]float64{}, [3]float64{0, 0, p.Height}, [3]float64{}
}

func (p PositionStep) Reference(t float64) (xd, vd, ad, heading [3]float64) {
	xd = [3]float64{0, 0, p.Height}
	heading = [3]float64{1, 0, 0}
	if t >= p.At {
		xd = [3]float64{p.Step[0], p.Step[1], p.Height + p.Step[2]}
	}
	return xd, vd, ad, heading
}
