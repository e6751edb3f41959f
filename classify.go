package plus

import "github.com/akmonengine/plus/constraint"

// classify sets every descriptor to its start-of-interval condition from the
// remaining residual velocity.
func (ws *workspace) classify(p *Problem, maxRollingSpeed float64) {
	for k := range p.UniContact {
		p.UniContact[k].Classify(ws.verrLeft, maxRollingSpeed)
	}
	for k := range p.UniSpeed {
		p.UniSpeed[k].Cond = constraint.SpeedActive
	}
	for k := range p.Bounded {
		p.Bounded[k].Cond = constraint.BoundFree
	}
	for k := range p.ConsLtdFriction {
		f := &p.ConsLtdFriction[k]
		f.FrictionCond = constraint.ResetLimited(f.Friction)
	}
	for k := range p.StateLtdFriction {
		f := &p.StateLtdFriction[k]
		f.FrictionCond = constraint.ResetLimited(f.Friction)
	}
}

// sliding counts the contacts that start the interval Sliding.
func sliding(p *Problem) int {
	n := 0
	for k := range p.UniContact {
		if p.UniContact[k].FrictionCond == constraint.Sliding {
			n++
		}
	}

	return n
}
