package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateAccount(ctx context.Context, account Account, passwordHash string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO accounts (id, email, password_hash, full_name, role, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, account.ID, account.Email, passwordHash, account.FullName, account.Role, account.CreatedAt)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (Account, string, error) {
	var account Account
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, full_name, role, password_hash, created_at
    FROM accounts
    WHERE email = $1
  `, email).Scan(&account.ID, &account.Email, &account.FullName, &account.Role, &hash, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, "", ErrAccountNotFound
	}
	return account, hash, err
}

func (s *Store) AccountByID(ctx context.Context, id string) (Account, error) {
	var account Account
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, full_name, role, created_at
    FROM accounts
    WHERE id = $1
  `, id).Scan(&account.ID, &account.Email, &account.FullName, &account.Role, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	return account, err
}

func (s *Store) AdminExists(ctx context.Context) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM accounts WHERE role = $1", RoleAdmin).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// EmployeeIDByAccountID returns "" without error when no employee is linked.
func (s *Store) EmployeeIDByAccountID(ctx context.Context, accountID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE account_id = $1", accountID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (s *Store) EmployeeIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM employees WHERE email = $1", email).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (s *Store) LinkEmployeeAccount(ctx context.Context, employeeID, accountID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE employees SET account_id = $1 WHERE id = $2", accountID, employeeID)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
