package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/portal-it/portal/domain"
)

var _ domain.SwitchRepository = (*Repository)(nil)

// dbSwitch represents a switch as stored in the database.
// credentials and created_at are left to the backup engine.
type dbSwitch struct {
	ID       int64          `db:"id"`
	Name     string         `db:"name"`
	IP       string         `db:"ip"`
	Location sql.NullString `db:"location"`
	Notes    sql.NullString `db:"notes"`
}

// toDomainSwitch converts a dbSwitch to a domain.Switch.
func toDomainSwitch(dbSwitch *dbSwitch) *domain.Switch {
	id := dbSwitch.ID
	return &domain.Switch{
		ID:       &id,
		Name:     dbSwitch.Name,
		IP:       dbSwitch.IP,
		Location: stringPtr(dbSwitch.Location),
		Notes:    stringPtr(dbSwitch.Notes),
	}
}

// ListSwitches retrieves all switches ordered by name.
func (repo *Repository) ListSwitches(ctx context.Context) ([]*domain.Switch, error) {
	var dbSwitches []*dbSwitch
	query := `SELECT id, name, ip, location, notes FROM switches ORDER BY name`

	err := repo.guard.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &dbSwitches, query)
	})
	if err != nil {
		return nil, fmt.Errorf("listing switches: %w", err)
	}

	switches := make([]*domain.Switch, len(dbSwitches))
	for i, dbSwitch := range dbSwitches {
		switches[i] = toDomainSwitch(dbSwitch)
	}
	return switches, nil
}

// SaveSwitch updates the switch when it carries an ID and inserts it otherwise.
// Updating an ID that no longer exists changes nothing and still returns that ID.
func (repo *Repository) SaveSwitch(ctx context.Context, sw *domain.Switch) (int64, error) {
	if sw.ID != nil {
		return repo.updateSwitch(ctx, *sw.ID, sw)
	}
	return repo.insertSwitch(ctx, sw)
}

func (repo *Repository) insertSwitch(ctx context.Context, sw *domain.Switch) (int64, error) {
	query := `INSERT INTO switches (name, ip, location, notes) VALUES (?, ?, ?, ?)`

	var id int64
	err := repo.guard.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) error {
		result, err := conn.ExecContext(ctx, query, sw.Name, sw.IP, nullString(sw.Location), nullString(sw.Notes))
		if err != nil {
			return err
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("creating switch %q: %w", sw.Name, err)
	}
	return id, nil
}

func (repo *Repository) updateSwitch(ctx context.Context, id int64, sw *domain.Switch) (int64, error) {
	query := `UPDATE switches SET name = ?, ip = ?, location = ?, notes = ? WHERE id = ?`

	err := repo.guard.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) error {
		_, err := conn.ExecContext(ctx, query, sw.Name, sw.IP, nullString(sw.Location), nullString(sw.Notes), id)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("updating switch %d: %w", id, err)
	}
	return id, nil
}

// DeleteSwitch removes a switch by ID.
func (repo *Repository) DeleteSwitch(ctx context.Context, id int64) error {
	query := `DELETE FROM switches WHERE id = ?`

	err := repo.guard.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) error {
		_, err := conn.ExecContext(ctx, query, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("deleting switch %d: %w", id, err)
	}
	return nil
}
