package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/solver"
)

// FormatSiteList renders registered sites.
func FormatSiteList(sites []*domain.Site) string {
	if len(sites) == 0 {
		return Dim("No sites yet. Add one with: shiftlog site add --code KAL --name \"Kalgoorlie North\"") + "\n"
	}
	rows := make([][]string, 0, len(sites))
	for _, s := range sites {
		rows = append(rows, []string{Bold(s.Code), s.Name, TruncID(s.ID)})
	}
	return RenderTable([]string{"CODE", "NAME", "ID"}, rows)
}

// FormatEquipmentList renders a site's fleet with each machine's config
// code. Machines without an assignment show their own ID.
func FormatEquipmentList(equipment []*domain.Equipment, assignments []domain.Assignment) string {
	if len(equipment) == 0 {
		return Dim("No equipment registered.") + "\n"
	}
	codes := make(map[string]string, len(assignments))
	for _, a := range assignments {
		codes[a.EquipmentID] = a.ConfigCode
	}
	rows := make([][]string, 0, len(equipment))
	for _, e := range equipment {
		code := codes[e.ID]
		if code == "" {
			code = Dim(e.ID)
		}
		rows = append(rows, []string{Bold(e.ID), ClassBadge(e.Class), e.Name, code})
	}
	return RenderTable([]string{"ID", "CLASS", "NAME", "GROUP"}, rows)
}

// FormatActivityList renders logged shift activity.
func FormatActivityList(activities []*domain.ShiftActivity) string {
	if len(activities) == 0 {
		return Dim("No activity logged.") + "\n"
	}
	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		operator := a.Operator
		if operator == "" {
			operator = Dim("--")
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			ShiftDate(a.ShiftDate),
			a.EquipmentID,
			string(a.Category),
			string(a.Kind),
			strconv.Itoa(a.Units),
			operator,
			StatusPill(a.Status),
		})
	}
	headers := []string{"ID", "DATE", "EQUIPMENT", "CATEGORY", "KIND", "UNITS", "OPERATOR", "STATUS"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight}
	return RenderAlignedTable(headers, rows, align)
}

// FormatUnitSummary renders the per-machine unit counts a solve would use.
func FormatUnitSummary(class domain.EquipmentClass, month domain.Month, items []domain.EquipmentItem) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s %ss · %s", class, class.UnitLabel(), month)))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(Dim("No equipment of this class."))
		b.WriteString("\n")
		return b.String()
	}
	rows := make([][]string, 0, len(items)+1)
	var prod, dev int
	for _, it := range items {
		rows = append(rows, []string{it.ID, strconv.Itoa(it.ProductionUnits), strconv.Itoa(it.DevelopmentUnits)})
		prod += it.ProductionUnits
		dev += it.DevelopmentUnits
	}
	rows = append(rows, []string{Bold("Total"), Bold(strconv.Itoa(prod)), Bold(strconv.Itoa(dev))})
	b.WriteString(RenderAlignedTable(
		[]string{"EQUIPMENT", "PRODUCTION", "DEVELOPMENT"},
		rows,
		[]Align{AlignLeft, AlignRight, AlignRight},
	))
	return b.String()
}

// FormatTotalsList renders reconciled totals per month.
func FormatTotalsList(totals []*domain.ReconciledTotals) string {
	if len(totals) == 0 {
		return Dim("No reconciled totals recorded.") + "\n"
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			t.Month.String(),
			solver.FormatTonnes(t.ProdTonnes),
			solver.FormatTonnes(t.DevTonnes),
			LockBadge(t.Locked),
		})
	}
	return RenderAlignedTable(
		[]string{"MONTH", "PRODUCTION T", "DEVELOPMENT T", "STATE"},
		rows,
		[]Align{AlignLeft, AlignRight, AlignRight},
	)
}

// FormatHistory renders saved factor history, newest first as listed.
func FormatHistory(entries []domain.FactorHistoryEntry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("No saved factors yet. Run solve with --save.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		lock := ""
		if e.Locked {
			lock = StyleYellow.Render("locked")
		}
		rows = append(rows, []string{
			e.Month.String(),
			ClassBadge(e.Class),
			Bold(e.Code),
			solver.FormatFactor(e.Factor),
			strconv.Itoa(e.ProductionUnits),
			strconv.Itoa(e.DevelopmentUnits),
			lock,
			Dim(RelativeDateFrom(e.SolvedAt, now)),
		})
	}
	headers := []string{"MONTH", "CLASS", "GROUP", "FACTOR", "PROD", "DEV", "", "SOLVED"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight}
	return RenderAlignedTable(headers, rows, align)
}

// FormatImportResult summarizes a completed site import.
func FormatImportResult(site *domain.Site, equipment, activities, totals, assignments, configs int) string {
	lines := []string{
		fmt.Sprintf("%s %s (%s)", StyleGreen.Render("✔ Imported site"), Bold(site.Code), site.Name),
		fmt.Sprintf("  %d equipment, %d activities, %d months of totals", equipment, activities, totals),
	}
	if assignments > 0 || configs > 0 {
		lines = append(lines, fmt.Sprintf("  %d assignments, %d group configs", assignments, configs))
	}
	return strings.Join(lines, "\n") + "\n"
}
