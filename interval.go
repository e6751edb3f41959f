package plus

import (
	"math"

	"github.com/akmonengine/plus/activeset"
	"github.com/akmonengine/plus/constraint"
	"github.com/akmonengine/plus/slip"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
)

// slidingFraction returns how much of the interval's impulse can be applied
// before some Sliding contact either stops or turns its slip direction by
// more than the configured angle.
func (ws *workspace) slidingFraction(p *Problem, maxRollingSpeed, cosMax float64) float64 {
	frac := 1.0

	for k := range p.UniContact {
		c := &p.UniContact[k]
		if c.FrictionCond != constraint.Sliding {
			continue
		}
		mx, my := c.Friction[0], c.Friction[1]
		dv := mgl64.Vec2{
			ws.rowTimesActive(mx, ws.piActive) + ws.known(mx),
			ws.rowTimesActive(my, ws.piActive) + ws.known(my),
		}
		bend := c.SlipVel.Sub(dv)
		if bend.Len() <= maxRollingSpeed {
			continue
		}
		if slip.CosAngle(c.SlipVel, bend) >= cosMax {
			continue
		}

		toOrigin, closest := slip.StepToOrigin2(c.SlipVel, bend, maxRollingSpeed)
		if closest.Len() <= maxRollingSpeed {
			frac = math.Min(frac, toOrigin)
			continue
		}
		frac = math.Min(frac, slip.StepToMaxChange2(c.SlipVel, bend, cosMax))
	}

	return frac
}

// advance applies frac of the interval's impulse: it accumulates the active
// and fixed impulses, consumes the same fraction of the expansion impulse and
// removes the resulting velocity change from the residual.
func (ws *workspace) advance(p *Problem, frac float64) {
	floats.Scale(frac, ws.piActive)
	for ax, mx := range ws.active.Indices() {
		ws.piTotal[mx] += ws.piActive[ax]
	}
	for _, mx := range ws.fixed {
		ws.piTotal[mx] += frac * ws.piFixed[mx]
	}

	m := ws.size()
	for i := 0; i < m; i++ {
		mx := activeset.MultiplierIndex(i)
		ws.verrLeft[i] -= ws.rowTimesActive(mx, ws.piActive) + frac*ws.known(mx)
	}

	for _, mx := range p.Expanding {
		ws.piELeft[mx] -= frac * ws.piELeft[mx]
	}
}
