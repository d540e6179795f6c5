package persist

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const createTrackersTable = `CREATE TABLE IF NOT EXISTS trackers (
	name       TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteBackend saves trackers as rows of a trackers table.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens the database file at path and prepares it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open sqlite database %s", path)
	}

	// avoid transient lock errors when the CLI and a test share a file
	_, err = db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;")
	if err != nil {
		db.Close()

		return nil, errors.Wrap(err, "unable to set busy timeout")
	}

	backend, err := NewSQLiteBackend(ctx, db)
	if err != nil {
		db.Close()

		return nil, err
	}

	return backend, nil
}

// NewSQLiteBackend uses an already opened database.
func NewSQLiteBackend(ctx context.Context, db *sql.DB) (*SQLiteBackend, error) {
	_, err := db.ExecContext(ctx, createTrackersTable)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create trackers table")
	}

	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Read(ctx context.Context, name string) ([]byte, error) {
	err := validateName(name)
	if err != nil {
		return nil, err
	}

	var payload []byte

	err = b.db.QueryRowContext(ctx, `SELECT payload FROM trackers WHERE name = ?`, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, name)
		}

		return nil, errors.Wrapf(err, "unable to read tracker %s", name)
	}

	return payload, nil
}

func (b *SQLiteBackend) Write(ctx context.Context, name string, payload []byte, overwrite bool) error {
	err := validateName(name)
	if err != nil {
		return err
	}

	query := `INSERT INTO trackers (name, payload) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`
	if overwrite {
		query = `INSERT INTO trackers (name, payload) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`
	}

	res, err := b.db.ExecContext(ctx, query, name, payload)
	if err != nil {
		return errors.Wrapf(err, "unable to write tracker %s", name)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "unable to get affected rows")
	}

	if affected == 0 {
		return errors.Wrap(ErrAlreadyExists, name)
	}

	return nil
}

// Names lists the saved trackers.
func (b *SQLiteBackend) Names(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT name FROM trackers ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list trackers")
	}
	defer rows.Close()

	names := []string{}

	for rows.Next() {
		var name string

		err := rows.Scan(&name)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan tracker name")
		}

		names = append(names, name)
	}

	return names, errors.Wrap(rows.Err(), "unable to iterate trackers")
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

var _ Backend = (*SQLiteBackend)(nil)
