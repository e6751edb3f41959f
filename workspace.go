package plus

import (
	"github.com/akmonengine/plus/activeset"
	"github.com/akmonengine/plus/linalg"
	"gonum.org/v1/gonum/mat"
)

// workspace is the scratch memory of one Solve call. Vectors indexed by
// multiplier have length m; the Newton vectors are indexed by active position.
type workspace struct {
	a mat.Matrix
	d []float64

	active *activeset.Set

	verrLeft   []float64 // residual velocity still to remove
	piELeft    []float64 // expansion impulse not yet applied
	verrExpand []float64 // velocity change of piELeft this interval
	piTotal    []float64 // accumulated impulse
	piGuess    []float64 // last in-bound impulse of the current interval

	// Impulses held fixed for the rest of the interval (clamped bounds,
	// saturated limited friction) and the velocity change they cause.
	fixed     []activeset.MultiplierIndex
	piFixed   []float64
	verrFixed []float64

	jac       *mat.Dense
	rhs       []float64
	piActive  []float64
	errActive []float64
	dpi       []float64
	piSave    []float64

	lsq *linalg.LeastSquares
}

func newWorkspace(p *Problem, rankTol float64) *workspace {
	m := p.Size()
	ws := &workspace{
		a:          p.A,
		d:          p.D,
		active:     activeset.New(m),
		verrLeft:   make([]float64, m),
		piELeft:    make([]float64, m),
		verrExpand: make([]float64, m),
		piTotal:    make([]float64, m),
		piGuess:    make([]float64, m),
		piFixed:    make([]float64, m),
		verrFixed:  make([]float64, m),
		lsq:        linalg.NewLeastSquares(rankTol),
	}
	copy(ws.verrLeft, p.Verr)
	for _, mx := range p.Expanding {
		ws.piELeft[mx] = p.PiExpand[mx]
	}

	return ws
}

func (ws *workspace) size() int {
	return len(ws.verrLeft)
}

// coupling returns (A + diag(D))(i, j).
func (ws *workspace) coupling(i, j activeset.MultiplierIndex) float64 {
	v := ws.a.At(int(i), int(j))
	if i == j && ws.d != nil {
		v += ws.d[i]
	}

	return v
}

// rowTimesActive returns row mx of A + diag(D) times an active-indexed vector.
func (ws *workspace) rowTimesActive(mx activeset.MultiplierIndex, pi []float64) float64 {
	var sum float64
	for ax, mj := range ws.active.Indices() {
		sum += ws.coupling(mx, mj) * pi[ax]
	}

	return sum
}

// known returns the velocity change at mx that does not depend on the active
// impulse: the expansion remainder plus the fixed impulses.
func (ws *workspace) known(mx activeset.MultiplierIndex) float64 {
	return ws.verrExpand[mx] + ws.verrFixed[mx]
}

// impulse returns the current interval's impulse at mx, whether active or
// fixed.
func (ws *workspace) impulse(mx activeset.MultiplierIndex) float64 {
	if ws.active.Contains(mx) {
		return ws.piGuess[mx]
	}

	return ws.piFixed[mx]
}

// beginInterval resets the per-interval state and computes the velocity
// change of the remaining expansion impulse.
func (ws *workspace) beginInterval(p *Problem) {
	ws.active.Reset(p.Participating)

	for i := range ws.piGuess {
		ws.piGuess[i] = 0
		ws.piFixed[i] = 0
		ws.verrFixed[i] = 0
		ws.verrExpand[i] = 0
	}
	ws.fixed = ws.fixed[:0]

	m := ws.size()
	for _, mj := range p.Expanding {
		pe := ws.piELeft[mj]
		if pe == 0 {
			continue
		}
		for i := 0; i < m; i++ {
			ws.verrExpand[i] += ws.coupling(activeset.MultiplierIndex(i), mj) * pe
		}
	}
}

// fix holds mx at value for the rest of the interval. The caller removes it
// from the active set.
func (ws *workspace) fix(mx activeset.MultiplierIndex, value float64) {
	ws.fixed = append(ws.fixed, mx)
	ws.piFixed[mx] = value
	ws.piGuess[mx] = value

	m := ws.size()
	for i := 0; i < m; i++ {
		ws.verrFixed[i] += ws.coupling(activeset.MultiplierIndex(i), mx) * value
	}
}

// resizeActive sizes the Newton scratch for n active multipliers.
func (ws *workspace) resizeActive(n int) {
	ws.rhs = resize(ws.rhs, n)
	ws.piActive = resize(ws.piActive, n)
	ws.errActive = resize(ws.errActive, n)
	ws.dpi = resize(ws.dpi, n)
	ws.piSave = resize(ws.piSave, n)

	if n == 0 {
		ws.jac = nil
		return
	}
	if ws.jac != nil {
		if r, _ := ws.jac.Dims(); r == n {
			ws.jac.Zero()
			return
		}
	}
	ws.jac = mat.NewDense(n, n, nil)
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	s = s[:n]
	clear(s)

	return s
}
