package control

import (
	"github.com/skelterjohn/go.matrix"
)

// Default controller gains, tuned against the mmuav simulation. Each gain is
// an xy/z pair expanded into a diagonal 3x3 matrix.
const (
	defaultKxXY = 3.75
	defaultKxZ  = 30.0
	defaultKvXY = 3.0
	defaultKvZ  = 10.0
	defaultKRXY = 8.5
	defaultKRZ  = 4.0
	defaultKwXY = 1.2
	defaultKwZ  = 0.4
)

// GainSet is the full set of tunable gain scalars: xy/z pairs for the
// position, velocity, attitude and body-rate gain matrices.
type GainSet struct {
	KxXY, KxZ float64
	KvXY, KvZ float64
	KRXY, KRZ float64
	KwXY, KwZ float64
}

// GainUpdate is a partial gain reconfiguration; nil fields leave the current
// value in place.
type GainUpdate struct {
	KxXY, KxZ *float64
	KvXY, KvZ *float64
	KRXY, KRZ *float64
	KwXY, KwZ *float64
}

// gainHolder owns the live gain set. The first access seeds the defaults;
// this mirrors the first-call-seeds-defaults behavior of the original
// reconfiguration server but makes it an explicit flag.
type gainHolder struct {
	initialized bool
	set         GainSet
}

func (g *gainHolder) init() {
	if g.initialized {
		return
	}
	g.set = GainSet{
		KxXY: defaultKxXY, KxZ: defaultKxZ,
		KvXY: defaultKvXY, KvZ: defaultKvZ,
		KRXY: defaultKRXY, KRZ: defaultKRZ,
		KwXY: defaultKwXY, KwZ: defaultKwZ,
	}
	g.initialized = true
}

// Update applies a partial gain reconfiguration.
func (g *gainHolder) Update(u GainUpdate) {
	g.init()
	apply := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&g.set.KxXY, u.KxXY)
	apply(&g.set.KxZ, u.KxZ)
	apply(&g.set.KvXY, u.KvXY)
	apply(&g.set.KvZ, u.KvZ)
	apply(&g.set.KRXY, u.KRXY)
	apply(&g.set.KRZ, u.KRZ)
	apply(&g.set.KwXY, u.KwXY)
	apply(&g.set.KwZ, u.KwZ)
}

// Current returns the live gain set, seeding defaults on first use.
func (g *gainHolder) Current() GainSet {
	g.init()
	return g.set
}

func diagXYZ(xy, z float64) *matrix.DenseMatrix {
	return matrix.Diagonal([]float64{xy, xy, z})
}

// matrices expands the gain set into the four diagonal gain matrices read by
// the tracking step.
func (g *gainHolder) matrices() (kx, kv, kR, kw *matrix.DenseMatrix) {
	s := g.Current()
	return diagXYZ(s.KxXY, s.KxZ), diagXYZ(s.KvXY, s.KvZ),
		diagXYZ(s.KRXY, s.KRZ), diagXYZ(s.KwXY, s.KwZ)
}
