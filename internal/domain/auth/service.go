package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Store           *Store
	Secret          string
	TokenTTL        time.Duration
	AllowSelfSignup bool
}

func NewService(store *Store, secret string, tokenTTL time.Duration, allowSelfSignup bool) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: tokenTTL, AllowSelfSignup: allowSelfSignup}
}

// Register creates an account and returns a session token for it. When the new
// account is an employee, any existing employee record with the same email is
// linked to it immediately.
func (s *Service) Register(ctx context.Context, email, password, fullName, role string) (string, Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if role == "" {
		role = RoleEmployee
	}
	if !ValidRole(role) {
		return "", Account{}, ErrInvalidRole
	}

	if role == RoleAdmin && !s.AllowSelfSignup {
		// The first admin may always bootstrap itself; after that, admin
		// registration requires ALLOW_SELF_SIGNUP.
		exists, err := s.Store.AdminExists(ctx)
		if err != nil {
			return "", Account{}, err
		}
		if exists {
			return "", Account{}, ErrSignupClosed
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", Account{}, err
	}

	account := Account{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  fullName,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.CreateAccount(ctx, account, hash); err != nil {
		return "", Account{}, err
	}

	if role == RoleEmployee {
		employeeID, err := s.Store.EmployeeIDByEmail(ctx, email)
		if err == nil && employeeID != "" {
			if err := s.Store.LinkEmployeeAccount(ctx, employeeID, account.ID); err != nil {
				slog.Warn("employee account link failed", "employeeId", employeeID, "err", err)
			}
		}
	}

	token, err := GenerateToken(s.Secret, account.ID, account.Role, s.TokenTTL)
	if err != nil {
		return "", Account{}, err
	}
	return token, account, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	account, hash, err := s.Store.AccountByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return "", Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", Account{}, err
	}
	if err := CheckPassword(hash, password); err != nil {
		return "", Account{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, account.ID, account.Role, s.TokenTTL)
	if err != nil {
		return "", Account{}, err
	}
	return token, account, nil
}

// Authenticate validates a bearer token and resolves its account.
func (s *Service) Authenticate(ctx context.Context, token string) (Account, error) {
	claims, err := ParseToken(s.Secret, token)
	if err != nil {
		return Account{}, ErrInvalidCredentials
	}
	account, err := s.Store.AccountByID(ctx, claims.Subject)
	if errors.Is(err, ErrAccountNotFound) {
		return Account{}, ErrInvalidCredentials
	}
	return account, err
}

// ResolveEmployeeID maps an employee account to its employee record: first by
// the stored account link, then by email. An email match persists the link so
// later lookups hit the first path. Returns "" when no profile exists.
func (s *Service) ResolveEmployeeID(ctx context.Context, account Account) (string, error) {
	employeeID, err := s.Store.EmployeeIDByAccountID(ctx, account.ID)
	if err != nil {
		return "", err
	}
	if employeeID != "" {
		return employeeID, nil
	}

	employeeID, err = s.Store.EmployeeIDByEmail(ctx, account.Email)
	if err != nil || employeeID == "" {
		return "", err
	}
	if err := s.Store.LinkEmployeeAccount(ctx, employeeID, account.ID); err != nil {
		slog.Warn("employee self-heal link failed", "employeeId", employeeID, "err", err)
	}
	return employeeID, nil
}
