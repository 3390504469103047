// =============================================================================
// Kebab Dashboard - Catalog Service
// =============================================================================
//
// Service runs the catalog forms against the backend. Every save follows
// the same order:
//
//   1. Validate required fields locally (no request on failure)
//   2. Resolve package component names to ids (packages only)
//   3. PUT /{Resource}/{id} when editing, POST /{Resource} when creating
//
// =============================================================================

package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Backend is the part of the REST client the catalog uses.
type Backend interface {
	List(ctx context.Context, resource string, out any) error
	Create(ctx context.Context, resource string, payload any) error
	Update(ctx context.Context, resource string, id int64, payload any) error
	Delete(ctx context.Context, resource string, id int64) error
}

// Logger is the logging surface the service needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// Service runs catalog edits against the backend.
type Service struct {
	backend Backend
	logger  Logger
}

// NewService creates a Service. A nil logger disables logging.
func NewService(backend Backend, logger Logger) *Service {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Service{backend: backend, logger: logger}
}

// =============================================================================
// READS
// =============================================================================

// Kebabs lists the kebabs.
func (s *Service) Kebabs(ctx context.Context) ([]Kebab, error) {
	return list[Kebab](ctx, s.backend, ResourceKebab)
}

// Snacks lists the snacks.
func (s *Service) Snacks(ctx context.Context) ([]Snack, error) {
	return list[Snack](ctx, s.backend, ResourceSnack)
}

// Drinks lists the drinks.
func (s *Service) Drinks(ctx context.Context) ([]Drink, error) {
	return list[Drink](ctx, s.backend, ResourceDrink)
}

// Packages lists the meal packages.
func (s *Service) Packages(ctx context.Context) ([]Package, error) {
	return list[Package](ctx, s.backend, ResourcePackage)
}

// List returns the typed list for any resource.
func (s *Service) List(ctx context.Context, resource string) (any, error) {
	switch resource {
	case ResourceKebab:
		return s.Kebabs(ctx)
	case ResourceSnack:
		return s.Snacks(ctx)
	case ResourceDrink:
		return s.Drinks(ctx)
	case ResourcePackage:
		return s.Packages(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
}

func list[T any](ctx context.Context, backend Backend, resource string) ([]T, error) {
	items := make([]T, 0)
	if err := backend.List(ctx, resource, &items); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", resource, err)
	}
	return items, nil
}

// =============================================================================
// WRITES
// =============================================================================

// Save validates item and creates or updates it depending on mode. An
// invalid item never reaches the backend.
func (s *Service) Save(ctx context.Context, item Item, mode FormMode) error {
	if err := item.Validate(); err != nil {
		s.logger.Debug("catalog item rejected", "resource", item.Resource(), "mode", mode.String(), "error", err)
		return err
	}

	if p, ok := item.(*Package); ok {
		if err := s.resolvePackage(ctx, p); err != nil {
			return err
		}
	}

	payload := item.Payload(mode)
	if id, ok := mode.ID(); ok {
		if err := s.backend.Update(ctx, item.Resource(), id, payload); err != nil {
			return fmt.Errorf("failed to update %s %d: %w", item.Resource(), id, err)
		}
		s.logger.Info("catalog item updated", "resource", item.Resource(), "id", id)
		return nil
	}

	if err := s.backend.Create(ctx, item.Resource(), payload); err != nil {
		return fmt.Errorf("failed to create %s: %w", item.Resource(), err)
	}
	s.logger.Info("catalog item created", "resource", item.Resource())
	return nil
}

// Remove deletes the item id of resource.
func (s *Service) Remove(ctx context.Context, resource string, id int64) error {
	if err := s.backend.Delete(ctx, resource, id); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", resource, id, err)
	}
	s.logger.Info("catalog item deleted", "resource", resource, "id", id)
	return nil
}

// resolvePackage replaces component names with their ids.
func (s *Service) resolvePackage(ctx context.Context, p *Package) error {
	if p.KebabName != "" {
		kebabs, err := s.Kebabs(ctx)
		if err != nil {
			return err
		}
		id, ok := findID(kebabs, p.KebabName, func(k Kebab) (string, int64) { return k.Name, k.ID })
		if !ok {
			return fmt.Errorf("%w: kebab %q", ErrUnknownReference, p.KebabName)
		}
		p.KebabID = id
	}

	if p.SnackName != "" {
		snacks, err := s.Snacks(ctx)
		if err != nil {
			return err
		}
		id, ok := findID(snacks, p.SnackName, func(sn Snack) (string, int64) { return sn.Name, sn.ID })
		if !ok {
			return fmt.Errorf("%w: snack %q", ErrUnknownReference, p.SnackName)
		}
		p.SnackID = id
	}

	if p.DrinkName != "" {
		drinks, err := s.Drinks(ctx)
		if err != nil {
			return err
		}
		id, ok := findID(drinks, p.DrinkName, func(d Drink) (string, int64) { return d.Name, d.ID })
		if !ok {
			return fmt.Errorf("%w: drink %q", ErrUnknownReference, p.DrinkName)
		}
		p.DrinkID = id
	}

	return nil
}

func findID[T any](items []T, name string, key func(T) (string, int64)) (int64, bool) {
	name = strings.TrimSpace(name)
	for _, item := range items {
		if n, id := key(item); n == name {
			return id, true
		}
	}
	return 0, false
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
