package solver

import "math"

const (
	// ridgeScale sets the vanishing ridge weight μ relative to trace(AAᵀ).
	// The ridge only breaks ties between exact minimizers.
	ridgeScale = 1e-12

	// rankTolerance is the relative Gram determinant below which the
	// production and development unit vectors are treated as collinear.
	rankTolerance = 1e-10
)

type boundState int

const (
	stateFree boundState = iota
	stateLower
	stateUpper
)

// solveBounded fits two or more free groups by bounded-variable least
// squares. It writes each factor back into vars and returns the number of
// active-set iterations and whether the optimality check passed before the
// iteration cap.
func solveBounded(vars []variable, free []int, prodTarget, devTarget float64, opts Options, notes *noteSet) (int, bool) {
	k := len(free)
	q := &bvls{
		p:      make([]float64, k),
		d:      make([]float64, k),
		lo:     make([]float64, k),
		hi:     make([]float64, k),
		anchor: make([]float64, k),
		bP:     prodTarget,
		bD:     devTarget,
	}

	var sumP, sumD, spp, sdd float64
	for j, i := range free {
		v := &vars[i]
		q.p[j], q.d[j] = v.p, v.d
		q.lo[j], q.hi[j] = v.lo, v.hi
		sumP += v.p
		sumD += v.d
		spp += v.p * v.p
		sdd += v.d * v.d
	}
	q.mu = ridgeScale * math.Max(1, spp+sdd)

	uniform := 0.0
	if sumP+sumD > 0 {
		uniform = math.Max(0, (prodTarget+devTarget)/(sumP+sumD))
	}
	x := make([]float64, k)
	for j, i := range free {
		q.anchor[j] = vars[i].anchor(uniform)
		x[j] = q.anchor[j]
	}

	if rank := effectiveRank(q.p, q.d); k > rank {
		notes.add(NoteUnderDetermined, "",
			"%d free groups but only %d independent equation(s); solution is not unique, factors chosen closest to estimates or bound midpoints",
			k, rank)
	}

	iterations, converged := q.run(x, opts)

	g := make([]float64, k)
	q.gradient(x, g)
	tol := q.gradientTolerance(opts)
	for j, i := range free {
		v := &vars[i]
		v.factor = v.clamp(x[j])
		switch {
		case v.factor == v.lo && g[j] > tol:
			if v.explicitLo {
				notes.add(NoteBoundBinding, v.code, "factor held at min %g", v.lo)
			} else {
				notes.add(NoteBoundBinding, v.code, "factor pinned at 0; the fit would prefer a negative value")
			}
		case v.factor == v.hi && g[j] < -tol:
			notes.add(NoteBoundBinding, v.code, "factor held at max %g", v.hi)
		}
	}
	if !converged {
		notes.add(NoteNotConverged, "",
			"iteration cap of %d reached before the fit converged; best result so far returned", opts.MaxIterations)
	}
	return iterations, converged
}

// bvls minimizes
//
//	(Σ p·x − bP)² + (Σ d·x − bD)² + μ‖x − anchor‖²
//
// over lo ≤ x ≤ hi with an active-set method. With only two equations the
// unconstrained subproblem over the free set reduces to a 2×2 solve:
// x_F = anchor_F + A_Fᵀ (A_F A_Fᵀ + μI)⁻¹ (b′ − A_F anchor_F).
type bvls struct {
	p, d   []float64
	lo, hi []float64
	anchor []float64
	bP, bD float64
	mu     float64
}

func (q *bvls) run(x []float64, opts Options) (int, bool) {
	n := len(x)
	state := make([]boundState, n)
	settled := make([]bool, n)
	z := make([]float64, n)
	g := make([]float64, n)
	tol := q.gradientTolerance(opts)
	lastReleased := -1

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		q.subproblem(x, state, z)

		alpha, blocking := 1.0, -1
		for j := range x {
			if state[j] != stateFree {
				continue
			}
			var t float64
			switch {
			case z[j] < q.lo[j]:
				t = (q.lo[j] - x[j]) / (z[j] - x[j])
			case z[j] > q.hi[j]:
				t = (q.hi[j] - x[j]) / (z[j] - x[j])
			default:
				continue
			}
			if t < alpha {
				alpha, blocking = t, j
			}
		}

		if blocking < 0 {
			for j := range x {
				if state[j] == stateFree {
					x[j] = z[j]
				}
			}
			q.gradient(x, g)
			release, worst := -1, tol
			for j := range x {
				if settled[j] {
					continue
				}
				switch {
				case state[j] == stateLower && -g[j] > worst:
					release, worst = j, -g[j]
				case state[j] == stateUpper && g[j] > worst:
					release, worst = j, g[j]
				}
			}
			if release < 0 {
				return iter, true
			}
			state[release] = stateFree
			lastReleased = release
			continue
		}

		alpha = math.Max(0, alpha)
		for j := range x {
			if state[j] == stateFree {
				x[j] += alpha * (z[j] - x[j])
			}
		}
		for j := range x {
			if state[j] != stateFree {
				continue
			}
			switch {
			case z[j] < q.lo[j] && (j == blocking || x[j] <= q.lo[j]+boundSlack(q.lo[j])):
				x[j], state[j] = q.lo[j], stateLower
			case z[j] > q.hi[j] && (j == blocking || x[j] >= q.hi[j]-boundSlack(q.hi[j])):
				x[j], state[j] = q.hi[j], stateUpper
			default:
				continue
			}
			// A variable that bounces straight back onto the bound it was
			// just released from would cycle; keep it there for the rest
			// of the run.
			if j == lastReleased && alpha <= 0 {
				settled[j] = true
			}
		}
		lastReleased = -1
	}
	return opts.MaxIterations, false
}

// subproblem writes into z the minimizer over the free variables with every
// bound variable held at its current value.
func (q *bvls) subproblem(x []float64, state []boundState, z []float64) {
	rP, rD := q.bP, q.bD
	var spp, spd, sdd float64
	for j := range x {
		if state[j] != stateFree {
			rP -= q.p[j] * x[j]
			rD -= q.d[j] * x[j]
			continue
		}
		rP -= q.p[j] * q.anchor[j]
		rD -= q.d[j] * q.anchor[j]
		spp += q.p[j] * q.p[j]
		spd += q.p[j] * q.d[j]
		sdd += q.d[j] * q.d[j]
	}

	det := gram(q.p, q.d, func(j int) bool { return state[j] == stateFree }) + q.mu*(spp+sdd) + q.mu*q.mu
	l1 := ((sdd+q.mu)*rP - spd*rD) / det
	l2 := ((spp+q.mu)*rD - spd*rP) / det

	for j := range x {
		if state[j] != stateFree {
			z[j] = x[j]
			continue
		}
		z[j] = q.anchor[j] + q.p[j]*l1 + q.d[j]*l2
	}
}

func (q *bvls) residual(x []float64) (float64, float64) {
	var predP, predD float64
	for j := range x {
		predP += q.p[j] * x[j]
		predD += q.d[j] * x[j]
	}
	return predP - q.bP, predD - q.bD
}

func (q *bvls) gradient(x, g []float64) {
	rP, rD := q.residual(x)
	for j := range x {
		g[j] = 2 * (q.p[j]*rP + q.d[j]*rD + q.mu*(x[j]-q.anchor[j]))
	}
}

func (q *bvls) gradientTolerance(opts Options) float64 {
	var spp, sdd float64
	for j := range q.p {
		spp += q.p[j] * q.p[j]
		sdd += q.d[j] * q.d[j]
	}
	scale := 2 * math.Sqrt(spp+sdd) * math.Max(1, math.Hypot(q.bP, q.bD))
	return opts.Tolerance * math.Max(1, scale)
}

// gram returns det(A_S A_Sᵀ) for the columns selected by include, summed
// pairwise (Lagrange identity) so collinear columns give exactly zero
// instead of a cancellation residue.
func gram(p, d []float64, include func(int) bool) float64 {
	var sum float64
	for i := range p {
		if !include(i) {
			continue
		}
		for j := i + 1; j < len(p); j++ {
			if !include(j) {
				continue
			}
			cross := p[i]*d[j] - p[j]*d[i]
			sum += cross * cross
		}
	}
	return sum
}

// effectiveRank counts the independent equations the free groups provide.
func effectiveRank(p, d []float64) int {
	var spp, sdd float64
	for j := range p {
		spp += p[j] * p[j]
		sdd += d[j] * d[j]
	}
	hasP, hasD := spp > 0, sdd > 0
	all := func(int) bool { return true }
	switch {
	case hasP && hasD && gram(p, d, all) > rankTolerance*spp*sdd:
		return 2
	case hasP || hasD:
		return 1
	default:
		return 0
	}
}

func boundSlack(bound float64) float64 {
	if math.IsInf(bound, 0) {
		return 0
	}
	return 1e-12 * math.Max(1, math.Abs(bound))
}
