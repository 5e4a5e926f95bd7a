package solver

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	tonnesPlaces = 2
	factorPlaces = 4
)

// Diagnostics is the display-ready view of a SolveResult. All values are
// rounded half away from zero: tonnes and percentages to 2 places, factors
// to 4.
type Diagnostics struct {
	Residuals   Tonnes          `json:"residuals"`
	ResidualPct ResidualPercent `json:"residual_pct"`
	Totals      PredictedTotals `json:"totals"`
	Rows        []DiagnosticRow `json:"rows"`
	Warning     string          `json:"warning,omitempty"`
}

// ResidualPercent holds residual/reconciled×100 per equation. A nil value
// means the reconciled total is zero and the percentage is undefined.
type ResidualPercent struct {
	Prod *float64 `json:"prod"`
	Dev  *float64 `json:"dev"`
}

// DiagnosticRow is one line of the per-group table.
type DiagnosticRow struct {
	Code                string   `json:"code"`
	Members             []string `json:"members,omitempty"`
	ProductionUnits     int      `json:"production_units"`
	DevelopmentUnits    int      `json:"development_units"`
	Factor              float64  `json:"factor"`
	PredictedProdTonnes float64  `json:"predicted_prod_tonnes"`
	PredictedDevTonnes  float64  `json:"predicted_dev_tonnes"`
	ProdShare           *float64 `json:"prod_share_pct"`
	DevShare            *float64 `json:"dev_share_pct"`
	Locked              bool     `json:"locked"`
	Notes               []string `json:"notes,omitempty"`
}

// Diagnose summarizes how well a result fits the reconciled totals.
func Diagnose(r *SolveResult) Diagnostics {
	if r == nil {
		return Diagnostics{}
	}
	d := Diagnostics{
		Residuals: Tonnes{
			Prod: roundTo(r.Residuals.Prod, tonnesPlaces),
			Dev:  roundTo(r.Residuals.Dev, tonnesPlaces),
		},
		ResidualPct: ResidualPercent{
			Prod: percentOf(r.Residuals.Prod, r.Reconciled.Prod),
			Dev:  percentOf(r.Residuals.Dev, r.Reconciled.Dev),
		},
		Totals: PredictedTotals{
			ProdPred: roundTo(r.Totals.ProdPred, tonnesPlaces),
			DevPred:  roundTo(r.Totals.DevPred, tonnesPlaces),
		},
		Rows:    make([]DiagnosticRow, 0, len(r.Groups)),
		Warning: r.Notes.Warning,
	}
	for _, g := range r.Groups {
		d.Rows = append(d.Rows, DiagnosticRow{
			Code:                g.Code,
			Members:             g.Members,
			ProductionUnits:     g.ProductionUnits,
			DevelopmentUnits:    g.DevelopmentUnits,
			Factor:              roundTo(g.Factor, factorPlaces),
			PredictedProdTonnes: roundTo(g.PredictedProdTonnes, tonnesPlaces),
			PredictedDevTonnes:  roundTo(g.PredictedDevTonnes, tonnesPlaces),
			ProdShare:           percentOf(g.PredictedProdTonnes, r.Totals.ProdPred),
			DevShare:            percentOf(g.PredictedDevTonnes, r.Totals.DevPred),
			Locked:              g.Locked,
			Notes:               r.Notes.ForGroup(g.Code),
		})
	}
	return d
}

// FormatTonnes renders a tonnage with two fixed decimals.
func FormatTonnes(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(tonnesPlaces)
}

// FormatFactor renders a factor with four fixed decimals.
func FormatFactor(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(factorPlaces)
}

// FormatPercent renders a percentage, or "n/a" when it is undefined.
func FormatPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return decimal.NewFromFloat(*v).StringFixed(tonnesPlaces) + "%"
}

func percentOf(part, whole float64) *float64 {
	if whole == 0 || !finite(part) || !finite(whole) {
		return nil
	}
	pct := decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100)).
		Round(tonnesPlaces).
		InexactFloat64()
	return &pct
}

func roundTo(v float64, places int32) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
