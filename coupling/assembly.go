package coupling

import (
	"github.com/akmonengine/plus"
	"github.com/akmonengine/plus/activeset"
	"github.com/akmonengine/plus/actor"
	"github.com/akmonengine/plus/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// term is the Jacobian block of one multiplier on one body.
type term struct {
	body    *actor.RigidBody
	linear  mgl64.Vec3
	angular mgl64.Vec3
}

// row is one multiplier: a direction at a contact point.
type row struct {
	point mgl64.Vec3
	terms [2]term
}

func newRow(c Contact, dir mgl64.Vec3) row {
	rA := c.Point.Sub(c.BodyA.Transform.Position)
	rB := c.Point.Sub(c.BodyB.Transform.Position)

	return row{
		point: c.Point,
		terms: [2]term{
			{body: c.BodyA, linear: dir.Mul(-1), angular: rA.Cross(dir).Mul(-1)},
			{body: c.BodyB, linear: dir, angular: rB.Cross(dir)},
		},
	}
}

// Assembly maps a set of contacts onto multipliers.
type Assembly struct {
	Contacts []Contact
	// Regularization is added to the diagonal of the coupling matrix.
	Regularization float64

	rows     []row
	normals  []activeset.MultiplierIndex
	friction [][]activeset.MultiplierIndex
}

// Assemble lays out the multipliers of contacts: the normal first, then the
// two tangents of a frictional contact.
func Assemble(contacts []Contact, regularization float64) *Assembly {
	a := &Assembly{
		Contacts:       contacts,
		Regularization: regularization,
		normals:        make([]activeset.MultiplierIndex, len(contacts)),
		friction:       make([][]activeset.MultiplierIndex, len(contacts)),
	}

	for k, c := range contacts {
		a.normals[k] = activeset.MultiplierIndex(len(a.rows))
		a.rows = append(a.rows, newRow(c, c.Normal))
		if !c.HasFriction() {
			continue
		}
		t1, t2 := actor.TangentBasis(c.Normal)
		a.friction[k] = []activeset.MultiplierIndex{
			activeset.MultiplierIndex(len(a.rows)),
			activeset.MultiplierIndex(len(a.rows) + 1),
		}
		a.rows = append(a.rows, newRow(c, t1), newRow(c, t2))
	}

	return a
}

// Size returns the number of multipliers.
func (a *Assembly) Size() int {
	return len(a.rows)
}

// Normal returns the multiplier of contact k's normal.
func (a *Assembly) Normal(k int) activeset.MultiplierIndex {
	return a.normals[k]
}

// Coupling returns J·M⁻¹·Jᵀ at the current body poses, or nil without
// contacts.
func (a *Assembly) Coupling() *mat.SymDense {
	m := len(a.rows)
	if m == 0 {
		return nil
	}

	sym := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			sym.SetSym(i, j, couple(a.rows[i], a.rows[j]))
		}
	}

	return sym
}

func (a *Assembly) matrix() mat.Matrix {
	if sym := a.Coupling(); sym != nil {
		return sym
	}
	return nil
}

func couple(ri, rj row) float64 {
	var v float64
	for _, ti := range ri.terms {
		if ti.body.BodyType == actor.BodyTypeStatic {
			continue
		}
		invInertia := ti.body.GetInverseInertiaWorld()
		for _, tj := range rj.terms {
			if tj.body != ti.body {
				continue
			}
			v += ti.body.InverseMass()*ti.linear.Dot(tj.linear) + ti.angular.Dot(invInertia.Mul3x1(tj.angular))
		}
	}

	return v
}

// Velocities returns J·V: each multiplier's relative velocity.
func (a *Assembly) Velocities() []float64 {
	v := make([]float64, len(a.rows))
	for i, r := range a.rows {
		for _, t := range r.terms {
			v[i] += t.linear.Dot(t.body.Velocity) + t.angular.Dot(t.body.AngularVelocity)
		}
	}

	return v
}

// Apply changes the body velocities by −M⁻¹·Jᵀ·pi.
func (a *Assembly) Apply(pi []float64) {
	for i, r := range a.rows {
		if pi[i] == 0 {
			continue
		}
		for _, t := range r.terms {
			t.body.ApplyImpulse(t.linear.Mul(-pi[i]), r.point)
		}
	}
}

func (a *Assembly) regularization() []float64 {
	if a.Regularization == 0 {
		return nil
	}
	d := make([]float64, len(a.rows))
	for i := range d {
		d[i] = a.Regularization
	}

	return d
}

func (a *Assembly) uniContact(k int, typ constraint.ContactType) constraint.UniContact {
	return constraint.UniContact{
		Type:     typ,
		Normal:   a.normals[k],
		Friction: a.friction[k],
		Mu:       a.Contacts[k].Mu,
	}
}

// Problem returns the compression problem at the current velocities: every
// contact participates and nothing is expanding.
func (a *Assembly) Problem(phase int) *plus.Problem {
	p := &plus.Problem{
		Phase: phase,
		A:     a.matrix(),
		D:     a.regularization(),
		Verr:  a.Velocities(),
	}
	for k := range a.Contacts {
		c := a.uniContact(k, constraint.Participating)
		p.UniContact = append(p.UniContact, c)
		p.Participating = append(p.Participating, c.Normal)
		p.Participating = append(p.Participating, c.Friction...)
	}

	return p
}

// Expansion returns the restitution problem that follows a solved
// compression: contacts that pushed and have restitution get a Known normal
// impulse of Restitution times their compression impulse; the others
// participate again. Velocities are read from the bodies, so the compression
// impulse must already be applied.
func (a *Assembly) Expansion(compression *plus.Problem, phase int) *plus.Problem {
	p := &plus.Problem{
		Phase:    phase,
		A:        a.matrix(),
		D:        a.regularization(),
		Verr:     a.Velocities(),
		PiExpand: make([]float64, len(a.rows)),
	}

	for k, contact := range a.Contacts {
		n := a.normals[k]
		typ := constraint.Participating
		if pi := compression.Pi[n]; pi < 0 && contact.Restitution > 0 {
			typ = constraint.Known
			p.Expanding = append(p.Expanding, n)
			p.PiExpand[n] = contact.Restitution * pi
		}

		c := a.uniContact(k, typ)
		p.UniContact = append(p.UniContact, c)
		if typ == constraint.Participating {
			p.Participating = append(p.Participating, c.Normal)
		}
		p.Participating = append(p.Participating, c.Friction...)
	}

	return p
}
