package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"dialbook/internal/domain"
)

// PostgresStore persists the directory mapping in PostgreSQL. Concurrent
// mutations are serialized by the database itself (row-level upsert/delete),
// so the read-modify-write race the file backend guards against with a mutex
// cannot occur here.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureInitialized creates the records table when it does not exist.
func (s *PostgresStore) EnsureInitialized(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS records (
			identifier TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			father     TEXT NOT NULL,
			village    TEXT NOT NULL,
			state      TEXT NOT NULL,
			country    TEXT NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("initialize records table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, identifier string) (domain.Record, error) {
	var record domain.Record
	err := s.db.QueryRowContext(ctx,
		`SELECT name, father, village, state, country FROM records WHERE identifier = $1`,
		identifier,
	).Scan(&record.Name, &record.Father, &record.Village, &record.State, &record.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, ErrNotFound
	}
	if err != nil {
		return domain.Record{}, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Put(ctx context.Context, identifier string, record domain.Record) error {
	query := `
		INSERT INTO records (identifier, name, father, village, state, country)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (identifier) DO UPDATE SET
			name    = EXCLUDED.name,
			father  = EXCLUDED.father,
			village = EXCLUDED.village,
			state   = EXCLUDED.state,
			country = EXCLUDED.country
	`
	_, err := s.db.ExecContext(ctx, query,
		identifier, record.Name, record.Father, record.Village, record.State, record.Country)
	if err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, identifier string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE identifier = $1`, identifier)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Snapshot renders the table back into the flat JSON mapping layout so a
// backup taken from PostgreSQL can be reloaded by the file backend.
func (s *PostgresStore) Snapshot(ctx context.Context) ([]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, name, father, village, state, country FROM records`)
	if err != nil {
		return nil, fmt.Errorf("snapshot records: %w", err)
	}
	defer rows.Close()

	mapping := map[string]domain.Record{}
	for rows.Next() {
		var identifier string
		var record domain.Record
		if err := rows.Scan(&identifier, &record.Name, &record.Father,
			&record.Village, &record.State, &record.Country); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		mapping[identifier] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot records: %w", err)
	}

	data, err := json.MarshalIndent(mapping, "", fileIndent)
	if err != nil {
		return nil, fmt.Errorf("encode mapping: %w", err)
	}
	return data, nil
}
