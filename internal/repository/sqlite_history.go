package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/domain"
)

// SQLiteHistoryRepo implements HistoryRepo. Rows are append-only.
type SQLiteHistoryRepo struct {
	db db.DBTX
}

func NewSQLiteHistoryRepo(conn db.DBTX) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: conn}
}

type historyRow struct {
	ID               string  `db:"id"`
	SiteID           string  `db:"site_id"`
	Class            string  `db:"class"`
	Month            string  `db:"month"`
	Code             string  `db:"code"`
	Factor           float64 `db:"factor"`
	ProductionUnits  int     `db:"production_units"`
	DevelopmentUnits int     `db:"development_units"`
	Locked           int     `db:"locked"`
	SolvedAt         string  `db:"solved_at"`
}

const historyColumns = `id, site_id, class, month, code, factor, production_units, development_units, locked, solved_at`

func (r *SQLiteHistoryRepo) Append(ctx context.Context, e *domain.FactorHistoryEntry) error {
	query := r.db.Rebind(`INSERT INTO factor_history (` + historyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.SiteID,
		string(e.Class),
		string(e.Month),
		e.Code,
		e.Factor,
		e.ProductionUnits,
		e.DevelopmentUnits,
		boolToInt(e.Locked),
		formatTime(e.SolvedAt),
	)
	if err != nil {
		return fmt.Errorf("appending factor history: %w", err)
	}
	return nil
}

func (r *SQLiteHistoryRepo) List(ctx context.Context, siteID string, filter HistoryFilter) ([]domain.FactorHistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM factor_history WHERE site_id = ?`
	args := []any{siteID}
	if filter.Class != "" {
		query += ` AND class = ?`
		args = append(args, string(filter.Class))
	}
	if filter.Month != "" {
		query += ` AND month = ?`
		args = append(args, string(filter.Month))
	}
	if filter.Code != "" {
		query += ` AND code = ?`
		args = append(args, filter.Code)
	}
	query += ` ORDER BY solved_at DESC, code`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing factor history: %w", err)
	}
	out := make([]domain.FactorHistoryEntry, 0, len(rows))
	for _, row := range rows {
		solved, err := parseTime("solved_at", row.SolvedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.FactorHistoryEntry{
			ID:               row.ID,
			SiteID:           row.SiteID,
			Class:            domain.EquipmentClass(row.Class),
			Month:            domain.Month(row.Month),
			Code:             row.Code,
			Factor:           row.Factor,
			ProductionUnits:  row.ProductionUnits,
			DevelopmentUnits: row.DevelopmentUnits,
			Locked:           intToBool(row.Locked),
			SolvedAt:         solved,
		})
	}
	return out, nil
}
