package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/domain"
)

// SQLiteTotalsRepo implements TotalsRepo.
type SQLiteTotalsRepo struct {
	db db.DBTX
}

func NewSQLiteTotalsRepo(conn db.DBTX) *SQLiteTotalsRepo {
	return &SQLiteTotalsRepo{db: conn}
}

type totalsRow struct {
	SiteID     string  `db:"site_id"`
	Month      string  `db:"month"`
	ProdTonnes float64 `db:"prod_tonnes"`
	DevTonnes  float64 `db:"dev_tonnes"`
	Locked     int     `db:"locked"`
	UpdatedAt  string  `db:"updated_at"`
}

func (r totalsRow) toDomain() (*domain.ReconciledTotals, error) {
	updated, err := parseTime("updated_at", r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.ReconciledTotals{
		SiteID:     r.SiteID,
		Month:      domain.Month(r.Month),
		ProdTonnes: r.ProdTonnes,
		DevTonnes:  r.DevTonnes,
		Locked:     intToBool(r.Locked),
		UpdatedAt:  updated,
	}, nil
}

const totalsColumns = `site_id, month, prod_tonnes, dev_tonnes, locked, updated_at`

func (r *SQLiteTotalsRepo) Get(ctx context.Context, siteID string, month domain.Month) (*domain.ReconciledTotals, error) {
	query := r.db.Rebind(`SELECT ` + totalsColumns + ` FROM reconciled_totals WHERE site_id = ? AND month = ?`)
	var row totalsRow
	if err := r.db.GetContext(ctx, &row, query, siteID, string(month)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reconciled totals for %s: %w", month, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning reconciled totals: %w", err)
	}
	return row.toDomain()
}

func (r *SQLiteTotalsRepo) Upsert(ctx context.Context, t *domain.ReconciledTotals) error {
	query := r.db.Rebind(`INSERT INTO reconciled_totals (` + totalsColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (site_id, month) DO UPDATE SET
			prod_tonnes = excluded.prod_tonnes,
			dev_tonnes = excluded.dev_tonnes,
			locked = excluded.locked,
			updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, query,
		t.SiteID,
		string(t.Month),
		t.ProdTonnes,
		t.DevTonnes,
		boolToInt(t.Locked),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting reconciled totals: %w", err)
	}
	return nil
}

func (r *SQLiteTotalsRepo) SetLocked(ctx context.Context, siteID string, month domain.Month, locked bool) error {
	query := r.db.Rebind(`UPDATE reconciled_totals SET locked = ?, updated_at = ? WHERE site_id = ? AND month = ?`)
	res, err := r.db.ExecContext(ctx, query, boolToInt(locked), nowUTC(), siteID, string(month))
	if err != nil {
		return fmt.Errorf("locking reconciled totals: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("reconciled totals for %s: %w", month, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTotalsRepo) ListBySite(ctx context.Context, siteID string) ([]*domain.ReconciledTotals, error) {
	query := r.db.Rebind(`SELECT ` + totalsColumns + ` FROM reconciled_totals WHERE site_id = ? ORDER BY month DESC`)
	var rows []totalsRow
	if err := r.db.SelectContext(ctx, &rows, query, siteID); err != nil {
		return nil, fmt.Errorf("listing reconciled totals: %w", err)
	}
	out := make([]*domain.ReconciledTotals, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
