package formatter

import (
	"encoding/json"

	"github.com/alexanderramin/shiftlog/internal/contract"
	"github.com/alexanderramin/shiftlog/internal/solver"
)

// SolveView is the machine-readable form of a solve: the solver result
// fields at the top level plus request context and diagnostics.
type SolveView struct {
	Site         string                 `json:"site"`
	Month        string                 `json:"month"`
	Class        string                 `json:"class"`
	ConfigSource string                 `json:"config_source,omitempty"`
	Groups       []solver.GroupResult   `json:"groups"`
	Totals       solver.PredictedTotals `json:"totals"`
	Reconciled   solver.Tonnes          `json:"reconciled"`
	Residuals    solver.Tonnes          `json:"residuals"`
	Notes        solver.Notes           `json:"notes"`
	Iterations   int                    `json:"iterations"`
	Converged    bool                   `json:"converged"`
	Diagnostics  solver.Diagnostics     `json:"diagnostics"`
	Assignments  map[string]string      `json:"assignments,omitempty"`
	Saved        bool                   `json:"saved"`
}

// NewSolveView flattens a response for JSON output.
func NewSolveView(resp *contract.SolveResponse) SolveView {
	v := SolveView{
		Month:        resp.Month.String(),
		Class:        string(resp.Class),
		ConfigSource: resp.ConfigSource.String(),
		Diagnostics:  resp.Diagnostics,
		Assignments:  resp.Assignments,
		Saved:        resp.Saved,
	}
	if resp.Site != nil {
		v.Site = resp.Site.Code
	}
	if r := resp.Result; r != nil {
		v.Groups = r.Groups
		v.Totals = r.Totals
		v.Reconciled = r.Reconciled
		v.Residuals = r.Residuals
		v.Notes = r.Notes
		v.Iterations = r.Iterations
		v.Converged = r.Converged
	}
	if v.Groups == nil {
		v.Groups = []solver.GroupResult{}
	}
	return v
}

// SolveJSON renders one or more responses as indented JSON. A single
// response is written as an object, several as an array.
func SolveJSON(resps ...*contract.SolveResponse) ([]byte, error) {
	views := make([]SolveView, 0, len(resps))
	for _, r := range resps {
		if r != nil {
			views = append(views, NewSolveView(r))
		}
	}
	if len(views) == 1 {
		return json.MarshalIndent(views[0], "", "  ")
	}
	return json.MarshalIndent(views, "", "  ")
}
