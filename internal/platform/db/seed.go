package db

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrmlite/internal/domain/auth"
	"hrmlite/internal/platform/config"
)

// Seed ensures the bootstrap admin account exists so the API is usable on a
// fresh database. It never overwrites an existing account.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(strings.ToLower(cfg.SeedAdminEmail))
	if email == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	var existing string
	err := pool.QueryRow(ctx, "SELECT id FROM accounts WHERE email = $1", email).Scan(&existing)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO accounts (id, email, password_hash, full_name, role)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (email) DO NOTHING
  `, uuid.NewString(), email, hash, cfg.SeedAdminName, auth.RoleAdmin)
	return err
}
