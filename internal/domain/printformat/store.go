package printformat

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, format PrintFormat) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO print_formats (id, name, body, is_default, created_at)
    VALUES ($1,$2,$3,$4,$5)
  `, format.ID, format.Name, format.Body, format.IsDefault, format.CreatedAt)
	return err
}

func (s *Store) Update(ctx context.Context, format PrintFormat) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE print_formats SET name = $1, body = $2 WHERE id = $3
  `, format.Name, format.Body, format.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM print_formats WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountStructuresForFormat(ctx context.Context, formatID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll_structures WHERE print_format_id = $1", formatID).Scan(&count)
	return count, err
}

func (s *Store) List(ctx context.Context) ([]PrintFormat, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, body, is_default, created_at
    FROM print_formats
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var formats []PrintFormat
	for rows.Next() {
		var f PrintFormat
		if err := rows.Scan(&f.ID, &f.Name, &f.Body, &f.IsDefault, &f.CreatedAt); err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, rows.Err()
}

func (s *Store) ByID(ctx context.Context, id string) (PrintFormat, error) {
	var f PrintFormat
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, body, is_default, created_at
    FROM print_formats
    WHERE id = $1
  `, id).Scan(&f.ID, &f.Name, &f.Body, &f.IsDefault, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PrintFormat{}, ErrNotFound
	}
	return f, err
}

// Default returns ErrNotFound when no format is flagged as default.
func (s *Store) Default(ctx context.Context) (PrintFormat, error) {
	var f PrintFormat
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, body, is_default, created_at
    FROM print_formats
    WHERE is_default
    LIMIT 1
  `).Scan(&f.ID, &f.Name, &f.Body, &f.IsDefault, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PrintFormat{}, ErrNotFound
	}
	return f, err
}

// SetDefault flips the default flag to the given format; clearing the old
// default and setting the new one happen in one transaction.
func (s *Store) SetDefault(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "UPDATE print_formats SET is_default = false WHERE is_default"); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "UPDATE print_formats SET is_default = true WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
