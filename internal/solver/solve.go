package solver

import (
	"math"
	"sort"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

const (
	DefaultMaxIterations = 500
	DefaultTolerance     = 1e-9

	// agreementTolerance is the relative gap between the production- and
	// development-implied factors above which a single free group is
	// reported as a compromise between the two equations.
	agreementTolerance = 1e-6
)

// Options tunes the bounded least-squares iteration.
type Options struct {
	MaxIterations int
	Tolerance     float64
}

// DefaultOptions returns the iteration cap and tolerance used when the
// caller supplies none.
func DefaultOptions() Options {
	return Options{MaxIterations: DefaultMaxIterations, Tolerance: DefaultTolerance}
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 || math.IsNaN(o.Tolerance) {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// Tonnes is a production/development pair.
type Tonnes struct {
	Prod float64 `json:"prod"`
	Dev  float64 `json:"dev"`
}

// PredictedTotals sums predicted tonnes across all groups.
type PredictedTotals struct {
	ProdPred float64 `json:"prod_pred"`
	DevPred  float64 `json:"dev_pred"`
}

// GroupResult is the fitted factor for one group.
type GroupResult struct {
	Code                string             `json:"code"`
	Factor              float64            `json:"factor"`
	ProductionUnits     int                `json:"production_units"`
	DevelopmentUnits    int                `json:"development_units"`
	PredictedProdTonnes float64            `json:"predicted_prod_tonnes"`
	PredictedDevTonnes  float64            `json:"predicted_dev_tonnes"`
	Members             []string           `json:"members,omitempty"`
	Locked              bool               `json:"locked"`
	Config              domain.GroupConfig `json:"-"`
}

// SolveResult is the pure output of Solve.
type SolveResult struct {
	Groups     []GroupResult   `json:"groups"`
	Totals     PredictedTotals `json:"totals"`
	Reconciled Tonnes          `json:"reconciled"`
	Residuals  Tonnes          `json:"residuals"`
	Notes      Notes           `json:"notes"`
	Iterations int             `json:"iterations"`
	Converged  bool            `json:"converged"`
}

// Group returns the result for code, if present.
func (r *SolveResult) Group(code string) (GroupResult, bool) {
	for _, g := range r.Groups {
		if g.Code == code {
			return g, true
		}
	}
	return GroupResult{}, false
}

// variable is the solver's working view of one group.
type variable struct {
	code   string
	p, d   float64
	lo, hi float64

	explicitLo bool
	explicitHi bool

	estimate    float64
	hasEstimate bool

	locked bool // lock flag or inconsistent-bounds fallback
	fixed  bool // excluded from fitting
	factor float64
}

func (v *variable) clamp(x float64) float64 {
	return math.Min(math.Max(x, v.lo), v.hi)
}

// anchor is the tie-break target for an under-determined fit: the
// estimate, else the bounds midpoint, else the uniform implied factor.
func (v *variable) anchor(uniform float64) float64 {
	switch {
	case v.hasEstimate:
		return v.clamp(v.estimate)
	case v.explicitHi:
		return (v.lo + v.hi) / 2
	default:
		return v.clamp(uniform)
	}
}

// Run builds groups from items and solves them in one call. Grouping notes
// precede solver notes in the result.
func Run(items []domain.EquipmentItem, assignments map[string]string, configs map[string]domain.GroupConfig, reconciled Tonnes, opts Options) (*SolveResult, error) {
	if err := validateReconciled(reconciled); err != nil {
		return nil, err
	}
	grouping, err := BuildGroups(items, assignments, configs)
	if err != nil {
		return nil, err
	}
	return solve(grouping.Groups, reconciled, opts, grouping.Notes)
}

// Solve fits one non-negative factor per group so that predicted production
// and development tonnes match the reconciled totals as closely as the
// bounds and locks allow.
func Solve(groups []Group, reconciled Tonnes, opts Options) (*SolveResult, error) {
	if err := validateReconciled(reconciled); err != nil {
		return nil, err
	}
	return solve(groups, reconciled, opts, nil)
}

func validateReconciled(t Tonnes) error {
	for _, v := range []struct {
		name  string
		value float64
	}{{"production", t.Prod}, {"development", t.Dev}} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return structuralf("reconciled %s tonnes is not a finite number", v.name)
		}
		if v.value < 0 {
			return structuralf("reconciled %s tonnes is negative (%g)", v.name, v.value)
		}
	}
	return nil
}

func solve(groups []Group, reconciled Tonnes, opts Options, prior []Note) (*SolveResult, error) {
	if len(groups) == 0 {
		return nil, structuralf("no groups derivable from input")
	}
	opts = opts.withDefaults()

	sorted := make([]Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	for i := range sorted {
		if sorted[i].Code == "" {
			return nil, structuralf("group with empty code")
		}
		if i > 0 && sorted[i].Code == sorted[i-1].Code {
			return nil, structuralf("duplicate group code %q", sorted[i].Code)
		}
		if sorted[i].ProductionUnits < 0 || sorted[i].DevelopmentUnits < 0 {
			return nil, structuralf("group %q has negative unit counts", sorted[i].Code)
		}
	}

	var notes noteSet
	notes.extend(prior)

	vars := make([]variable, len(sorted))
	for i, g := range sorted {
		vars[i] = prepare(g, &notes)
	}

	prodTarget, devTarget := reconciled.Prod, reconciled.Dev
	var free []int
	for i := range vars {
		v := &vars[i]
		if v.fixed {
			prodTarget -= v.p * v.factor
			devTarget -= v.d * v.factor
			continue
		}
		free = append(free, i)
	}

	iterations, converged := 0, true
	switch len(free) {
	case 0:
	case 1:
		solveSingle(&vars[free[0]], prodTarget, devTarget, &notes)
	default:
		iterations, converged = solveBounded(vars, free, prodTarget, devTarget, opts, &notes)
	}

	result := &SolveResult{
		Groups:     make([]GroupResult, len(vars)),
		Reconciled: reconciled,
		Iterations: iterations,
		Converged:  converged,
	}
	for i, v := range vars {
		gr := GroupResult{
			Code:                v.code,
			Factor:              v.factor,
			ProductionUnits:     sorted[i].ProductionUnits,
			DevelopmentUnits:    sorted[i].DevelopmentUnits,
			PredictedProdTonnes: v.factor * v.p,
			PredictedDevTonnes:  v.factor * v.d,
			Members:             sorted[i].Members,
			Locked:              v.locked,
			Config:              sorted[i].GroupConfig,
		}
		result.Groups[i] = gr
		result.Totals.ProdPred += gr.PredictedProdTonnes
		result.Totals.DevPred += gr.PredictedDevTonnes
	}
	result.Residuals = Tonnes{
		Prod: reconciled.Prod - result.Totals.ProdPred,
		Dev:  reconciled.Dev - result.Totals.DevPred,
	}
	result.Notes = notes.build()
	return result, nil
}

// prepare applies the per-group fallbacks: bad estimates are ignored,
// inverted bounds lock the group at its estimate (or zero), a lock without
// an estimate is dropped, and zero-unit groups are pinned at their anchor.
func prepare(g Group, notes *noteSet) variable {
	v := variable{
		code: g.Code,
		p:    float64(g.ProductionUnits),
		d:    float64(g.DevelopmentUnits),
		lo:   0,
		hi:   math.Inf(1),
	}

	if g.Estimate != nil {
		e := *g.Estimate
		if math.IsNaN(e) || math.IsInf(e, 0) || e < 0 {
			notes.add(NoteInvalidEstimate, g.Code, "estimate %g is not a non-negative number; ignored", e)
		} else {
			v.estimate, v.hasEstimate = e, true
		}
	}

	boundsValid := true
	if g.Min != nil {
		if math.IsNaN(*g.Min) || math.IsInf(*g.Min, 1) {
			boundsValid = false
		} else if *g.Min > 0 {
			v.lo, v.explicitLo = *g.Min, true
		}
	}
	if g.Max != nil {
		if math.IsNaN(*g.Max) {
			boundsValid = false
		} else if !math.IsInf(*g.Max, 1) {
			v.hi, v.explicitHi = *g.Max, true
		}
	}
	if boundsValid && v.lo > v.hi {
		boundsValid = false
	}

	if !boundsValid {
		v.locked, v.fixed = true, true
		if v.hasEstimate {
			v.factor = v.estimate
			notes.add(NoteInvalidBounds, g.Code, "min/max bounds are inconsistent; factor held at estimate %g", v.estimate)
		} else {
			v.factor = 0
			notes.add(NoteInvalidBounds, g.Code, "min/max bounds are inconsistent and no estimate given; factor set to 0")
		}
		return v
	}

	if g.Lock {
		if !v.hasEstimate {
			notes.add(NoteLockWithoutEstimate, g.Code, "locked without an estimate; lock ignored and factor fitted")
		} else {
			v.locked, v.fixed = true, true
			v.factor = v.estimate
			if v.estimate < v.lo || v.estimate > v.hi {
				notes.add(NoteLockOutsideBounds, g.Code, "locked estimate %g lies outside [%g, %g]; lock kept", v.estimate, v.lo, v.hi)
			}
			return v
		}
	}

	if v.p == 0 && v.d == 0 {
		v.fixed = true
		v.factor = v.anchor(0)
		notes.add(NoteZeroUnits, g.Code, "no units this month; factor cannot be constrained and is held at %g", v.factor)
	}
	return v
}

// solveSingle fits one free group. Each equation implies its own factor;
// the two are averaged with weights equal to the group's units in that
// equation, then clamped to the bounds.
func solveSingle(v *variable, prodTarget, devTarget float64, notes *noteSet) {
	var f float64
	switch {
	case v.p > 0 && v.d > 0:
		fp := prodTarget / v.p
		fd := devTarget / v.d
		f = (v.p*fp + v.d*fd) / (v.p + v.d)
		if math.Abs(fp-fd) > agreementTolerance*math.Max(1, math.Max(math.Abs(fp), math.Abs(fd))) {
			notes.add(NoteOverDetermined, v.code,
				"production implies %.4g and development implies %.4g; used units-weighted average %.4g", fp, fd, f)
		}
	case v.p > 0:
		f = prodTarget / v.p
	default:
		f = devTarget / v.d
	}
	v.factor = clampWithNote(v, f, notes)
}

// clampWithNote projects f onto the group's bounds and records a note when
// a bound changes the value.
func clampWithNote(v *variable, f float64, notes *noteSet) float64 {
	switch {
	case f < v.lo:
		if v.explicitLo {
			notes.add(NoteBoundBinding, v.code, "fitted factor %.4g raised to min %g", f, v.lo)
		} else {
			notes.add(NoteBoundBinding, v.code, "fitted factor %.4g is negative; pinned at 0", f)
		}
		return v.lo
	case f > v.hi:
		notes.add(NoteBoundBinding, v.code, "fitted factor %.4g capped at max %g", f, v.hi)
		return v.hi
	default:
		return f
	}
}
