package plus

import (
	"log/slog"
	"math"

	"github.com/akmonengine/plus/activeset"
	"github.com/akmonengine/plus/constraint"
)

type offenderKind int

const (
	noOffender offenderKind = iota
	boundedOffender
	normalOffender
	speedOffender
	rollingOffender
	consLtdOffender
	stateLtdOffender
)

func (k offenderKind) String() string {
	switch k {
	case boundedOffender:
		return "bounded"
	case normalOffender:
		return "normal"
	case speedOffender:
		return "speed"
	case rollingOffender:
		return "rolling"
	case consLtdOffender:
		return "constraint-limited"
	case stateLtdOffender:
		return "state-limited"
	}
	return "none"
}

// offender is the worst violation found in one category; k indexes the
// descriptor slice named by kind.
type offender struct {
	kind  offenderKind
	k     int
	value float64
}

func (o *offender) consider(kind offenderKind, k int, value float64) {
	if value > o.value {
		*o = offender{kind: kind, k: k, value: value}
	}
}

type violations struct {
	bounded  offender
	normal   offender
	friction offender
}

func (v violations) within(tol float64) bool {
	return v.bounded.value <= tol && v.normal.value <= tol && v.friction.value <= tol
}

func (v violations) worst() float64 {
	return math.Max(v.bounded.value, math.Max(v.normal.value, v.friction.value))
}

// inspect projects the Newton solution onto the constraint bounds, storing
// the result in piGuess, and reports the worst violation per category.
// Limited friction is inspected last so that its limiter impulse is current.
func (ws *workspace) inspect(p *Problem) violations {
	var v violations
	pi := ws.piActive

	for _, u := range p.Unconditional {
		for _, mx := range u.Mults {
			if ax := ws.active.Lookup(mx); ax.Valid() {
				ws.piGuess[mx] = pi[ax]
			}
		}
	}

	for k := range p.Bounded {
		b := &p.Bounded[k]
		ax := ws.active.Lookup(b.Index)
		if !ax.Valid() {
			continue
		}
		ws.piGuess[b.Index] = b.Project(pi[ax])
		v.bounded.consider(boundedOffender, k, math.Abs(pi[ax]-ws.piGuess[b.Index]))
	}

	for k := range p.UniSpeed {
		s := &p.UniSpeed[k]
		if s.Cond == constraint.SpeedOff {
			ws.piGuess[s.Index] = 0
			continue
		}
		ax := ws.active.Lookup(s.Index)
		if !ax.Valid() {
			continue
		}
		ws.piGuess[s.Index] = math.Min(pi[ax], 0)
		v.normal.consider(speedOffender, k, math.Max(pi[ax], 0))
	}

	for k := range p.UniContact {
		c := &p.UniContact[k]
		if c.ContactCond != constraint.ContactActive {
			ws.piGuess[c.Normal] = 0
			continue
		}
		ax := ws.active.Lookup(c.Normal)
		ws.piGuess[c.Normal] = math.Min(pi[ax], 0)
		v.normal.consider(normalOffender, k, math.Max(pi[ax], 0))
	}

	for k := range p.UniContact {
		c := &p.UniContact[k]
		if c.ContactCond == constraint.ContactOff || c.FrictionCond == constraint.FrictionOff {
			continue
		}
		scale := 1.0
		if c.FrictionCond == constraint.Rolling {
			limit := c.Mu * math.Abs(ws.piGuess[c.Normal]+ws.piELeft[c.Normal])
			if excess, s := ws.coneExcess(c.Friction, limit); excess > 0 {
				scale = s
				v.friction.consider(rollingOffender, k, excess)
			}
		}
		for _, mx := range c.Friction {
			ws.piGuess[mx] = scale * pi[ws.active.Lookup(mx)]
		}
	}

	for k := range p.ConsLtdFriction {
		f := &p.ConsLtdFriction[k]
		if f.FrictionCond != constraint.Rolling {
			continue
		}
		limit := f.Limit(ws.impulse(f.Limiter) + ws.piELeft[f.Limiter])
		ws.limitFriction(f.Friction, limit, &v.friction, consLtdOffender, k)
	}

	for k := range p.StateLtdFriction {
		f := &p.StateLtdFriction[k]
		if f.FrictionCond != constraint.Rolling {
			continue
		}
		ws.limitFriction(f.Friction, f.Limit(), &v.friction, stateLtdOffender, k)
	}

	return v
}

// coneExcess returns by how much the active friction impulse exceeds limit
// and the factor that scales it back onto the limit.
func (ws *workspace) coneExcess(friction []activeset.MultiplierIndex, limit float64) (float64, float64) {
	var sqr float64
	for _, mx := range friction {
		f := ws.piActive[ws.active.Lookup(mx)]
		sqr += f * f
	}
	mag := math.Sqrt(sqr)
	if mag <= limit {
		return 0, 1
	}

	return mag - limit, limit / mag
}

func (ws *workspace) limitFriction(friction []activeset.MultiplierIndex, limit float64, o *offender, kind offenderKind, k int) {
	scale := 1.0
	if excess, s := ws.coneExcess(friction, limit); excess > 0 {
		scale = s
		o.consider(kind, k, excess)
	}
	for _, mx := range friction {
		ws.piGuess[mx] = scale * ws.piActive[ws.active.Lookup(mx)]
	}
}

// prune changes the active set to remove the worst violation. Bounded
// violations win only when strictly worse than both other categories;
// normals win over friction ties.
func (ws *workspace) prune(p *Problem, v violations, logger *slog.Logger) {
	if v.bounded.value > v.normal.value && v.bounded.value > v.friction.value {
		b := &p.Bounded[v.bounded.k]
		value := b.Clamp(ws.piActive[ws.active.Lookup(b.Index)])
		ws.fix(b.Index, value)
		ws.active.Remove(b.Index)
		logger.Debug("bound clamped", "index", b.Index, "cond", b.Cond, "value", value, "violation", v.bounded.value)
		return
	}

	friction := v.friction
	if v.normal.value > v.friction.value {
		switch v.normal.kind {
		case speedOffender:
			s := &p.UniSpeed[v.normal.k]
			s.Cond = constraint.SpeedOff
			ws.active.Remove(s.Index)
			ws.piGuess[s.Index] = 0
			logger.Debug("speed constraint off", "index", s.Index, "violation", v.normal.value)
			return
		case normalOffender:
			c := &p.UniContact[v.normal.k]
			if c.FrictionCond != constraint.Rolling {
				removed := c.Disengage()
				ws.active.Remove(removed...)
				for _, mx := range removed {
					ws.piGuess[mx] = 0
				}
				logger.Debug("contact off", "contact", v.normal.k, "violation", v.normal.value)
				return
			}
			// Let the friction slip before giving up the contact.
			friction = offender{kind: rollingOffender, k: v.normal.k, value: v.normal.value}
		}
	}

	switch friction.kind {
	case rollingOffender:
		p.UniContact[friction.k].Release()
		logger.Debug("friction released", "contact", friction.k, "violation", friction.value)
	case consLtdOffender:
		ws.saturate(p.ConsLtdFriction[friction.k].Saturate())
		logger.Debug("friction saturated", "kind", friction.kind, "group", friction.k, "violation", friction.value)
	case stateLtdOffender:
		ws.saturate(p.StateLtdFriction[friction.k].Saturate())
		logger.Debug("friction saturated", "kind", friction.kind, "group", friction.k, "violation", friction.value)
	}
}

// saturate fixes a friction group at its projected impulse.
func (ws *workspace) saturate(friction []activeset.MultiplierIndex) {
	for _, mx := range friction {
		ws.fix(mx, ws.piGuess[mx])
	}
	ws.active.Remove(friction...)
}

// acceptGuess replaces the Newton solution by its projection onto the
// constraint bounds.
func (ws *workspace) acceptGuess() {
	for ax, mx := range ws.active.Indices() {
		ws.piActive[ax] = ws.piGuess[mx]
	}
}
