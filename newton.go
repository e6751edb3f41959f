package plus

import (
	"math"

	"github.com/akmonengine/plus/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
)

const (
	// normalSeed is the magnitude of the starting guess of an active normal.
	normalSeed = 0.01
	// searchReduceFac shrinks the Newton step on each line search retry.
	searchReduceFac = 0.5
	// minSearchFrac is the smallest step fraction tried before accepting an
	// increase in the residual.
	minSearchFrac = 0.01
	// tinySlip is the slip speed below which the Impending direction is
	// treated as undefined.
	tinySlip = 1e-14
)

// initializeNewton assembles the linear part of the Jacobian and the
// right-hand side for the current active set, and seeds the starting guess.
func (ws *workspace) initializeNewton(p *Problem) {
	indices := ws.active.Indices()
	ws.resizeActive(len(indices))

	for aj, mj := range indices {
		for ai, mi := range indices {
			ws.jac.Set(ai, aj, ws.coupling(mi, mj))
		}
		ws.rhs[aj] = ws.verrLeft[mj] - ws.known(mj)
		ws.piActive[aj] = ws.piGuess[mj]
	}

	for k := range p.UniContact {
		c := &p.UniContact[k]
		if c.ContactCond != constraint.ContactActive {
			continue
		}
		ax := ws.active.Lookup(c.Normal)
		ws.piActive[ax] = normalSeed * sign(ws.rhs[ax])
	}
}

// residual evaluates the equations at pi into errOut. Impending contacts have
// their slip velocity refreshed from pi as a side effect.
func (ws *workspace) residual(p *Problem, pi, errOut []float64) {
	for ai, mi := range ws.active.Indices() {
		errOut[ai] = ws.rowTimesActive(mi, pi) - ws.rhs[ai]
	}

	for k := range p.UniContact {
		c := &p.UniContact[k]
		if c.ContactCond == constraint.ContactOff || !c.FrictionCond.Nonlinear() {
			continue
		}
		mx, my, mz := c.Friction[0], c.Friction[1], c.Normal

		if c.FrictionCond == constraint.Impending {
			c.UpdateSlip(mgl64.Vec2{
				ws.rowTimesActive(mx, pi) + ws.known(mx),
				ws.rowTimesActive(my, pi) + ws.known(my),
			})
		}

		ax, ay := ws.active.Lookup(mx), ws.active.Lookup(my)
		pizE := ws.piELeft[mz]
		errOut[ax] = c.SlipMag*pi[ax] + c.Mu*c.SlipVel.X()*pizE
		errOut[ay] = c.SlipMag*pi[ay] + c.Mu*c.SlipVel.Y()*pizE

		if c.ContactCond == constraint.ContactActive {
			minz := math.Min(pi[ws.active.Lookup(mz)], 0)
			errOut[ax] += c.Mu * c.SlipVel.X() * minz
			errOut[ay] += c.Mu * c.SlipVel.Y() * minz
		}
	}
}

// updateJacobian rewrites the rows of the nonlinear friction equations at the
// current piActive. Linear rows keep the values set by initializeNewton.
func (ws *workspace) updateJacobian(p *Problem, eps float64) {
	pi := ws.piActive

	for k := range p.UniContact {
		c := &p.UniContact[k]
		if c.ContactCond == constraint.ContactOff || !c.FrictionCond.Nonlinear() {
			continue
		}
		mx, my, mz := c.Friction[0], c.Friction[1], c.Normal
		ax, ay := ws.active.Lookup(mx), ws.active.Lookup(my)
		normalActive := c.ContactCond == constraint.ContactActive

		var az int
		var minz, dminz float64
		if normalActive {
			az = int(ws.active.Lookup(mz))
			minz = softmin0(pi[az], eps)
			dminz = dsoftmin0(pi[az], eps)
		}

		rowX, rowY := ws.jac.RawRowView(int(ax)), ws.jac.RawRowView(int(ay))
		clear(rowX)
		clear(rowY)

		d := c.SlipVel
		dnorm := c.SlipMag

		if c.FrictionCond == constraint.Impending {
			// The slip is a function of every active impulse here.
			var dhat mgl64.Vec2
			if dnorm > tinySlip {
				dhat = d.Mul(1 / dnorm)
			}
			pizE := ws.piELeft[mz]
			for ai, mi := range ws.active.Indices() {
				axi, ayi := ws.coupling(mx, mi), ws.coupling(my, mi)
				s := dhat.Dot(mgl64.Vec2{axi, ayi})
				rowX[ai] = s*pi[ax] + c.Mu*axi*(pizE+minz)
				rowY[ai] = s*pi[ay] + c.Mu*ayi*(pizE+minz)
			}
		}

		rowX[ax] += dnorm
		rowY[ay] += dnorm
		if normalActive {
			rowX[az] += c.Mu * d.X() * dminz
			rowY[az] += c.Mu * d.Y() * dminz
		}
	}
}

// newton drives the residual of the current active set towards zero. It
// returns the iterations taken and whether ConvergenceTol was reached.
func (s *Solver) newton(p *Problem, ws *workspace) (int, bool) {
	tol := s.cfg.ConvergenceTol

	errNorm := floats.Norm(ws.errActive, 2)
	if errNorm <= tol {
		return 0, true
	}
	ws.updateJacobian(p, s.cfg.Smoothness)

	for iter := 1; ; iter++ {
		if _, err := ws.lsq.Solve(ws.jac, ws.errActive, ws.dpi); err != nil {
			s.logger.Warn("newton step failed", "phase", p.Phase, "active", ws.active.Len(), "error", err)
			return iter, false
		}

		copy(ws.piSave, ws.piActive)
		frac := 1.0
		for {
			floats.AddScaledTo(ws.piActive, ws.piSave, -frac, ws.dpi)
			ws.residual(p, ws.piActive, ws.errActive)
			norm := floats.Norm(ws.errActive, 2)
			if norm < errNorm {
				errNorm = norm
				break
			}
			frac *= searchReduceFac
			if frac*searchReduceFac < minSearchFrac {
				s.logger.Debug("line search stalled", "phase", p.Phase, "iter", iter, "norm", norm, "prev", errNorm)
				errNorm = norm
				break
			}
		}

		if errNorm < tol {
			return iter, true
		}
		if iter >= s.cfg.MaxNewtonIters {
			s.logger.Warn("newton did not converge",
				"phase", p.Phase,
				"iters", iter,
				"norm", errNorm,
				"active", ws.active.Len())
			return iter, false
		}
		ws.updateJacobian(p, s.cfg.Smoothness)
	}
}
