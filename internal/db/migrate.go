package db

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Migrate runs all schema migrations. Statements are written in the subset
// of SQL that SQLite and PostgreSQL share.
func Migrate(db *sqlx.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate re-adding a column since the migration system
			// re-runs all statements.
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column name") ||
		(strings.Contains(msg, "column") && strings.Contains(msg, "already exists"))
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sites (
		id         TEXT PRIMARY KEY,
		code       TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS equipment (
		site_id    TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		id         TEXT NOT NULL,
		class      TEXT NOT NULL CHECK(class IN ('loader','truck')),
		name       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		PRIMARY KEY (site_id, id)
	)`,

	`CREATE TABLE IF NOT EXISTS equipment_assignments (
		site_id      TEXT NOT NULL,
		class        TEXT NOT NULL CHECK(class IN ('loader','truck')),
		equipment_id TEXT NOT NULL,
		config_code  TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		PRIMARY KEY (site_id, class, equipment_id),
		FOREIGN KEY (site_id, equipment_id) REFERENCES equipment(site_id, id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS shift_activities (
		id           TEXT PRIMARY KEY,
		site_id      TEXT NOT NULL,
		equipment_id TEXT NOT NULL,
		shift_date   TEXT NOT NULL,
		category     TEXT NOT NULL CHECK(category IN ('production','development')),
		kind         TEXT NOT NULL CHECK(kind IN ('hauling','loading','drilling','charging')),
		units        INTEGER NOT NULL CHECK(units >= 0),
		status       TEXT NOT NULL DEFAULT 'submitted'
		             CHECK(status IN ('submitted','validated','rejected')),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		FOREIGN KEY (site_id, equipment_id) REFERENCES equipment(site_id, id) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_site_date ON shift_activities(site_id, shift_date)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_equipment ON shift_activities(site_id, equipment_id)`,

	`CREATE TABLE IF NOT EXISTS reconciled_totals (
		site_id     TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		month       TEXT NOT NULL,
		prod_tonnes DOUBLE PRECISION NOT NULL CHECK(prod_tonnes >= 0),
		dev_tonnes  DOUBLE PRECISION NOT NULL CHECK(dev_tonnes >= 0),
		locked      INTEGER NOT NULL DEFAULT 0,
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (site_id, month)
	)`,

	`CREATE TABLE IF NOT EXISTS factor_configs (
		site_id    TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		class      TEXT NOT NULL CHECK(class IN ('loader','truck')),
		month      TEXT NOT NULL,
		code       TEXT NOT NULL,
		estimate   DOUBLE PRECISION,
		min_factor DOUBLE PRECISION,
		max_factor DOUBLE PRECISION,
		factor     DOUBLE PRECISION,
		locked     INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (site_id, class, month, code)
	)`,

	`CREATE TABLE IF NOT EXISTS factor_history (
		id                TEXT PRIMARY KEY,
		site_id           TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		class             TEXT NOT NULL,
		month             TEXT NOT NULL,
		code              TEXT NOT NULL,
		factor            DOUBLE PRECISION NOT NULL,
		production_units  INTEGER NOT NULL DEFAULT 0,
		development_units INTEGER NOT NULL DEFAULT 0,
		locked            INTEGER NOT NULL DEFAULT 0,
		solved_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_factor_history_site_month ON factor_history(site_id, class, month)`,

	// Operator name on shift activity rows
	`ALTER TABLE shift_activities ADD COLUMN operator TEXT NOT NULL DEFAULT ''`,
}
