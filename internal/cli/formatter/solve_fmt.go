package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/shiftlog/internal/contract"
	"github.com/alexanderramin/shiftlog/internal/solver"
)

const shareBarWidth = 10

// FormatSolve renders one solve response: the per-group factor table, the
// residual summary and any solver notes.
func FormatSolve(resp *contract.SolveResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder

	title := fmt.Sprintf("%s %s · %s", resp.Site.Code, resp.Class, resp.Month)
	b.WriteString(Header(title))
	b.WriteString("\n")
	if resp.ConfigSource != "" && resp.ConfigSource != resp.Month {
		b.WriteString(Dim(fmt.Sprintf("configs carried forward from %s", resp.ConfigSource)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	d := resp.Diagnostics
	unit := resp.Class.UnitLabel()
	headers := []string{
		"GROUP", "MEMBERS", "PROD " + strings.ToUpper(unit) + "S", "DEV " + strings.ToUpper(unit) + "S",
		"FACTOR", "PRED PROD", "PRED DEV", "PROD SHARE", "",
	}
	align := []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft, AlignLeft}
	rows := make([][]string, 0, len(d.Rows))
	for _, r := range d.Rows {
		flag := ""
		if r.Locked {
			flag = StyleYellow.Render("locked")
		}
		rows = append(rows, []string{
			Bold(r.Code),
			memberList(r.Code, r.Members),
			strconv.Itoa(r.ProductionUnits),
			strconv.Itoa(r.DevelopmentUnits),
			solver.FormatFactor(r.Factor),
			solver.FormatTonnes(r.PredictedProdTonnes),
			solver.FormatTonnes(r.PredictedDevTonnes),
			RenderShareBar(r.ProdShare, shareBarWidth),
			flag,
		})
	}
	b.WriteString(RenderAlignedTable(headers, rows, align))
	b.WriteString("\n")

	b.WriteString(FormatResiduals(resp.Result.Reconciled, d))

	if notes := formatNotes(resp.Result.Notes); notes != "" {
		b.WriteString("\n")
		b.WriteString(notes)
	}

	b.WriteString("\n")
	switch {
	case resp.Saved:
		b.WriteString(StyleGreen.Render("✔ Saved factors and history"))
	default:
		b.WriteString(Dim("Recalculated only; nothing saved (use --save to persist)"))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatSolveAll renders both classes of a site month back to back.
func FormatSolveAll(resp *contract.SolveAllResponse) string {
	if resp == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	for _, r := range []*contract.SolveResponse{resp.Loader, resp.Truck} {
		if r != nil {
			parts = append(parts, FormatSolve(r))
		}
	}
	return strings.Join(parts, "\n")
}

// FormatResiduals renders reconciled against predicted tonnage for both
// equations.
func FormatResiduals(reconciled solver.Tonnes, d solver.Diagnostics) string {
	headers := []string{"", "RECONCILED", "PREDICTED", "RESIDUAL", "ERROR"}
	align := []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight}
	rows := [][]string{
		residualRow("Production", reconciled.Prod, d.Totals.ProdPred, d.Residuals.Prod, d.ResidualPct.Prod),
		residualRow("Development", reconciled.Dev, d.Totals.DevPred, d.Residuals.Dev, d.ResidualPct.Dev),
	}
	return RenderAlignedTable(headers, rows, align)
}

func residualRow(label string, reconciled, predicted, residual float64, pct *float64) []string {
	return []string{
		label,
		solver.FormatTonnes(reconciled),
		solver.FormatTonnes(predicted),
		solver.FormatTonnes(residual),
		ResidualColor(pct).Render(solver.FormatPercent(pct)),
	}
}

func formatNotes(n solver.Notes) string {
	if len(n.Items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleYellow.Render("Notes"))
	b.WriteString("\n")
	for _, item := range n.Items {
		prefix := ""
		if item.Group != "" {
			prefix = item.Group + ": "
		}
		fmt.Fprintf(&b, "  %s %s%s %s\n", StyleYellow.Render("!"), prefix, item.Message, Dim("("+string(item.Code)+")"))
	}
	return b.String()
}

// memberList hides the member column for singleton groups named after
// their only machine.
func memberList(code string, members []string) string {
	if len(members) == 1 && members[0] == code {
		return Dim("--")
	}
	return strings.Join(members, ", ")
}
