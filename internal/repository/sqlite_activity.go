package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo and is the activity aggregator
// the reconciliation service reads unit counts from.
type SQLiteActivityRepo struct {
	db db.DBTX
}

func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

type activityRow struct {
	ID          string `db:"id"`
	SiteID      string `db:"site_id"`
	EquipmentID string `db:"equipment_id"`
	ShiftDate   string `db:"shift_date"`
	Category    string `db:"category"`
	Kind        string `db:"kind"`
	Units       int    `db:"units"`
	Operator    string `db:"operator"`
	Status      string `db:"status"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r activityRow) toDomain() (*domain.ShiftActivity, error) {
	a := &domain.ShiftActivity{
		ID:          r.ID,
		SiteID:      r.SiteID,
		EquipmentID: r.EquipmentID,
		Category:    domain.Category(r.Category),
		Kind:        domain.ActivityKind(r.Kind),
		Units:       r.Units,
		Operator:    r.Operator,
		Status:      domain.ShiftStatus(r.Status),
	}
	var err error
	if a.ShiftDate, err = time.Parse(dateLayout, r.ShiftDate); err != nil {
		return nil, fmt.Errorf("parsing shift_date: %w", err)
	}
	if a.CreatedAt, err = parseTime("created_at", r.CreatedAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime("updated_at", r.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

const activityColumns = `id, site_id, equipment_id, shift_date, category, kind, units, operator, status, created_at, updated_at`

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.ShiftActivity) error {
	query := r.db.Rebind(`INSERT INTO shift_activities (` + activityColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.SiteID,
		a.EquipmentID,
		a.ShiftDate.Format(dateLayout),
		string(a.Category),
		string(a.Kind),
		a.Units,
		a.Operator,
		string(a.Status),
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting shift activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id string) (*domain.ShiftActivity, error) {
	query := r.db.Rebind(`SELECT ` + activityColumns + ` FROM shift_activities WHERE id = ?`)
	var row activityRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("shift activity: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning shift activity: %w", err)
	}
	return row.toDomain()
}

func (r *SQLiteActivityRepo) UpdateStatus(ctx context.Context, id string, status domain.ShiftStatus) error {
	query := r.db.Rebind(`UPDATE shift_activities SET status = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, string(status), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating shift activity status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("shift activity: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteActivityRepo) ListBySite(ctx context.Context, siteID string, filter ActivityFilter) ([]*domain.ShiftActivity, error) {
	query := `SELECT ` + activityColumns + ` FROM shift_activities WHERE site_id = ?`
	args := []any{siteID}
	if filter.Month != "" {
		start, end, err := filter.Month.Bounds()
		if err != nil {
			return nil, err
		}
		query += ` AND shift_date >= ? AND shift_date < ?`
		args = append(args, start.Format(dateLayout), end.Format(dateLayout))
	}
	if filter.EquipmentID != "" {
		query += ` AND equipment_id = ?`
		args = append(args, filter.EquipmentID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY shift_date, equipment_id, created_at`

	var rows []activityRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing shift activities: %w", err)
	}
	out := make([]*domain.ShiftActivity, 0, len(rows))
	for _, row := range rows {
		a, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

type unitsRow struct {
	EquipmentID      string `db:"equipment_id"`
	ProductionUnits  int    `db:"production_units"`
	DevelopmentUnits int    `db:"development_units"`
}

func (r *SQLiteActivityRepo) AggregateUnits(ctx context.Context, siteID string, class domain.EquipmentClass, month domain.Month) ([]domain.EquipmentItem, error) {
	start, end, err := month.Bounds()
	if err != nil {
		return nil, err
	}
	query := r.db.Rebind(`SELECT e.id AS equipment_id,
			COALESCE(SUM(CASE WHEN a.category = 'production' THEN a.units ELSE 0 END), 0) AS production_units,
			COALESCE(SUM(CASE WHEN a.category = 'development' THEN a.units ELSE 0 END), 0) AS development_units
		FROM equipment e
		LEFT JOIN shift_activities a
			ON a.site_id = e.site_id
			AND a.equipment_id = e.id
			AND a.kind = ?
			AND a.status <> 'rejected'
			AND a.shift_date >= ?
			AND a.shift_date < ?
		WHERE e.site_id = ? AND e.class = ?
		GROUP BY e.id
		ORDER BY e.id`)

	var rows []unitsRow
	err = r.db.SelectContext(ctx, &rows, query,
		string(class.UnitActivity()),
		start.Format(dateLayout),
		end.Format(dateLayout),
		siteID,
		string(class),
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating units: %w", err)
	}
	items := make([]domain.EquipmentItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.EquipmentItem{
			ID:               row.EquipmentID,
			ProductionUnits:  row.ProductionUnits,
			DevelopmentUnits: row.DevelopmentUnits,
		})
	}
	return items, nil
}
