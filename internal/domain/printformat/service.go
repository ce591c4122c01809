package printformat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hrmlite/internal/render"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Create rejects invalid template bodies up front by test-rendering them with
// placeholder data; a stored format can always be rendered later.
func (s *Service) Create(ctx context.Context, name, body string, isDefault bool) (PrintFormat, error) {
	if err := render.ValidateTemplate(body); err != nil {
		return PrintFormat{}, ErrInvalidTemplate
	}

	format := PrintFormat{
		ID:        uuid.NewString(),
		Name:      name,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Create(ctx, format); err != nil {
		return PrintFormat{}, err
	}
	if isDefault {
		if err := s.Store.SetDefault(ctx, format.ID); err != nil {
			return PrintFormat{}, err
		}
		format.IsDefault = true
	}
	return format, nil
}

func (s *Service) Update(ctx context.Context, id, name, body string) (PrintFormat, error) {
	if err := render.ValidateTemplate(body); err != nil {
		return PrintFormat{}, ErrInvalidTemplate
	}

	format, err := s.Store.ByID(ctx, id)
	if err != nil {
		return PrintFormat{}, err
	}
	format.Name = name
	format.Body = body
	if err := s.Store.Update(ctx, format); err != nil {
		return PrintFormat{}, err
	}
	return format, nil
}

// Delete refuses while a payroll structure still references the format.
func (s *Service) Delete(ctx context.Context, id string) error {
	count, err := s.Store.CountStructuresForFormat(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrFormatInUse
	}
	return s.Store.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]PrintFormat, error) {
	return s.Store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (PrintFormat, error) {
	return s.Store.ByID(ctx, id)
}

func (s *Service) SetDefault(ctx context.Context, id string) error {
	return s.Store.SetDefault(ctx, id)
}

// ResolveBody picks the template for a payslip download: explicit override,
// then the structure's configured format, then the system default. An empty
// body means the caller should fall back to the built-in layout.
func (s *Service) ResolveBody(ctx context.Context, overrideID, structureFormatID string) (string, error) {
	for _, id := range []string{overrideID, structureFormatID} {
		if id == "" {
			continue
		}
		format, err := s.Store.ByID(ctx, id)
		if err != nil {
			return "", err
		}
		return format.Body, nil
	}

	format, err := s.Store.Default(ctx)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return format.Body, nil
}
