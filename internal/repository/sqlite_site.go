package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/shiftlog/internal/db"
	"github.com/alexanderramin/shiftlog/internal/domain"
)

// SQLiteSiteRepo implements SiteRepo. Queries go through Rebind so the repo
// also runs against the PostgreSQL store.
type SQLiteSiteRepo struct {
	db db.DBTX
}

// NewSQLiteSiteRepo creates a new SQLiteSiteRepo.
func NewSQLiteSiteRepo(conn db.DBTX) *SQLiteSiteRepo {
	return &SQLiteSiteRepo{db: conn}
}

type siteRow struct {
	ID        string `db:"id"`
	Code      string `db:"code"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r siteRow) toDomain() (*domain.Site, error) {
	s := &domain.Site{ID: r.ID, Code: r.Code, Name: r.Name}
	var err error
	if s.CreatedAt, err = parseTime("created_at", r.CreatedAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime("updated_at", r.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

const siteColumns = `id, code, name, created_at, updated_at`

func (r *SQLiteSiteRepo) Create(ctx context.Context, s *domain.Site) error {
	query := r.db.Rebind(`INSERT INTO sites (` + siteColumns + `) VALUES (?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Code,
		s.Name,
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting site: %w", err)
	}
	return nil
}

func (r *SQLiteSiteRepo) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	return r.getOne(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = ?`, id)
}

func (r *SQLiteSiteRepo) GetByCode(ctx context.Context, code string) (*domain.Site, error) {
	return r.getOne(ctx, `SELECT `+siteColumns+` FROM sites WHERE UPPER(code) = UPPER(?)`, code)
}

func (r *SQLiteSiteRepo) List(ctx context.Context) ([]*domain.Site, error) {
	var rows []siteRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+siteColumns+` FROM sites ORDER BY code`); err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	sites := make([]*domain.Site, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, nil
}

func (r *SQLiteSiteRepo) getOne(ctx context.Context, query string, arg string) (*domain.Site, error) {
	var row siteRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("site %q: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning site: %w", err)
	}
	return row.toDomain()
}
