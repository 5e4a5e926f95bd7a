package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/domain"
)

// SQLiteAssignmentRepo implements AssignmentRepo.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

func NewSQLiteAssignmentRepo(conn db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: conn}
}

type assignmentRow struct {
	SiteID      string `db:"site_id"`
	Class       string `db:"class"`
	EquipmentID string `db:"equipment_id"`
	ConfigCode  string `db:"config_code"`
	UpdatedAt   string `db:"updated_at"`
}

func (r *SQLiteAssignmentRepo) Upsert(ctx context.Context, a *domain.Assignment) error {
	query := r.db.Rebind(`INSERT INTO equipment_assignments (site_id, class, equipment_id, config_code, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (site_id, class, equipment_id) DO UPDATE SET
			config_code = excluded.config_code,
			updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, query,
		a.SiteID,
		string(a.Class),
		a.EquipmentID,
		a.ConfigCode,
		formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) Delete(ctx context.Context, siteID string, class domain.EquipmentClass, equipmentID string) error {
	query := r.db.Rebind(`DELETE FROM equipment_assignments WHERE site_id = ? AND class = ? AND equipment_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, siteID, string(class), equipmentID); err != nil {
		return fmt.Errorf("deleting assignment: %w", err)
	}
	return nil
}

func (r *SQLiteAssignmentRepo) ListBySite(ctx context.Context, siteID string, class domain.EquipmentClass) ([]domain.Assignment, error) {
	query := r.db.Rebind(`SELECT site_id, class, equipment_id, config_code, updated_at
		FROM equipment_assignments WHERE site_id = ? AND class = ? ORDER BY equipment_id`)
	var rows []assignmentRow
	if err := r.db.SelectContext(ctx, &rows, query, siteID, string(class)); err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	out := make([]domain.Assignment, 0, len(rows))
	for _, row := range rows {
		updated, err := parseTime("updated_at", row.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Assignment{
			SiteID:      row.SiteID,
			Class:       domain.EquipmentClass(row.Class),
			EquipmentID: row.EquipmentID,
			ConfigCode:  row.ConfigCode,
			UpdatedAt:   updated,
		})
	}
	return out, nil
}

func (r *SQLiteAssignmentRepo) Map(ctx context.Context, siteID string, class domain.EquipmentClass) (map[string]string, error) {
	list, err := r.ListBySite(ctx, siteID, class)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(list))
	for _, a := range list {
		m[a.EquipmentID] = a.ConfigCode
	}
	return m, nil
}
