package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/domain"
)

// SQLiteFactorRepo implements FactorRepo over factor_configs: one row per
// site, class, month and config code.
type SQLiteFactorRepo struct {
	db db.DBTX
}

func NewSQLiteFactorRepo(conn db.DBTX) *SQLiteFactorRepo {
	return &SQLiteFactorRepo{db: conn}
}

type factorRow struct {
	SiteID    string          `db:"site_id"`
	Class     string          `db:"class"`
	Month     string          `db:"month"`
	Code      string          `db:"code"`
	Estimate  sql.NullFloat64 `db:"estimate"`
	Min       sql.NullFloat64 `db:"min_factor"`
	Max       sql.NullFloat64 `db:"max_factor"`
	Factor    sql.NullFloat64 `db:"factor"`
	Locked    int             `db:"locked"`
	UpdatedAt string          `db:"updated_at"`
}

const factorColumns = `site_id, class, month, code, estimate, min_factor, max_factor, factor, locked, updated_at`

func (r *SQLiteFactorRepo) ListByMonth(ctx context.Context, siteID string, class domain.EquipmentClass, month domain.Month) ([]domain.FactorRecord, error) {
	query := r.db.Rebind(`SELECT ` + factorColumns + ` FROM factor_configs
		WHERE site_id = ? AND class = ? AND month = ? ORDER BY code`)
	var rows []factorRow
	if err := r.db.SelectContext(ctx, &rows, query, siteID, string(class), string(month)); err != nil {
		return nil, fmt.Errorf("listing factor configs: %w", err)
	}
	out := make([]domain.FactorRecord, 0, len(rows))
	for _, row := range rows {
		updated, err := parseTime("updated_at", row.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.FactorRecord{
			SiteID: row.SiteID,
			Class:  domain.EquipmentClass(row.Class),
			Month:  domain.Month(row.Month),
			GroupConfig: domain.GroupConfig{
				Code:     row.Code,
				Estimate: floatPtr(row.Estimate),
				Min:      floatPtr(row.Min),
				Max:      floatPtr(row.Max),
				Lock:     intToBool(row.Locked),
			},
			Factor:    floatPtr(row.Factor),
			UpdatedAt: updated,
		})
	}
	return out, nil
}

func (r *SQLiteFactorRepo) LatestMonthBefore(ctx context.Context, siteID string, class domain.EquipmentClass, month domain.Month) (domain.Month, error) {
	query := r.db.Rebind(`SELECT MAX(month) FROM factor_configs WHERE site_id = ? AND class = ? AND month < ?`)
	var latest sql.NullString
	if err := r.db.GetContext(ctx, &latest, query, siteID, string(class), string(month)); err != nil {
		return "", fmt.Errorf("finding previous factor month: %w", err)
	}
	if !latest.Valid || latest.String == "" {
		return "", fmt.Errorf("factor configs before %s: %w", month, ErrNotFound)
	}
	return domain.Month(latest.String), nil
}

func (r *SQLiteFactorRepo) Upsert(ctx context.Context, rec *domain.FactorRecord) error {
	query := r.db.Rebind(`INSERT INTO factor_configs (` + factorColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (site_id, class, month, code) DO UPDATE SET
			estimate = excluded.estimate,
			min_factor = excluded.min_factor,
			max_factor = excluded.max_factor,
			factor = excluded.factor,
			locked = excluded.locked,
			updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, query,
		rec.SiteID,
		string(rec.Class),
		string(rec.Month),
		rec.Code,
		nullableFloat(rec.Estimate),
		nullableFloat(rec.Min),
		nullableFloat(rec.Max),
		nullableFloat(rec.Factor),
		boolToInt(rec.Lock),
		formatTime(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting factor config %s: %w", rec.Code, err)
	}
	return nil
}
