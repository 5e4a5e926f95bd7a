package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/domain"
)

// SQLiteEquipmentRepo implements EquipmentRepo.
type SQLiteEquipmentRepo struct {
	db db.DBTX
}

func NewSQLiteEquipmentRepo(conn db.DBTX) *SQLiteEquipmentRepo {
	return &SQLiteEquipmentRepo{db: conn}
}

type equipmentRow struct {
	SiteID    string `db:"site_id"`
	ID        string `db:"id"`
	Class     string `db:"class"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
}

func (r equipmentRow) toDomain() (*domain.Equipment, error) {
	created, err := parseTime("created_at", r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &domain.Equipment{
		SiteID:    r.SiteID,
		ID:        r.ID,
		Class:     domain.EquipmentClass(r.Class),
		Name:      r.Name,
		CreatedAt: created,
	}, nil
}

func (r *SQLiteEquipmentRepo) Create(ctx context.Context, e *domain.Equipment) error {
	query := r.db.Rebind(`INSERT INTO equipment (site_id, id, class, name, created_at) VALUES (?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		e.SiteID,
		e.ID,
		string(e.Class),
		e.Name,
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting equipment: %w", err)
	}
	return nil
}

func (r *SQLiteEquipmentRepo) Get(ctx context.Context, siteID, id string) (*domain.Equipment, error) {
	query := r.db.Rebind(`SELECT site_id, id, class, name, created_at FROM equipment WHERE site_id = ? AND id = ?`)
	var row equipmentRow
	if err := r.db.GetContext(ctx, &row, query, siteID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("equipment %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning equipment: %w", err)
	}
	return row.toDomain()
}

func (r *SQLiteEquipmentRepo) ListBySite(ctx context.Context, siteID string, class domain.EquipmentClass) ([]*domain.Equipment, error) {
	query := `SELECT site_id, id, class, name, created_at FROM equipment WHERE site_id = ?`
	args := []any{siteID}
	if class != "" {
		query += ` AND class = ?`
		args = append(args, string(class))
	}
	query += ` ORDER BY id`

	var rows []equipmentRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing equipment: %w", err)
	}
	out := make([]*domain.Equipment, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
