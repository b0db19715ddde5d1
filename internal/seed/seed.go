// Package seed writes the catalog's schemes and default vendor on startup.
// Each step is count-gated, so restarts and concurrent instances are no-ops.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"expenseai/internal/catalog"
	"expenseai/internal/platform/metrics"
	schememodels "expenseai/internal/scheme/models"
)

// SchemeSeeder inserts schemes when none exist.
type SchemeSeeder interface {
	SeedIfEmpty(ctx context.Context, schemes []*schememodels.Scheme) (int, error)
}

// VendorSeeder registers a vendor when none exist.
type VendorSeeder interface {
	EnsureVendor(ctx context.Context, identityKey, name string) (bool, error)
}

type Seeder struct {
	schemes SchemeSeeder
	vendors VendorSeeder
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(schemes SchemeSeeder, vendors VendorSeeder, logger *slog.Logger, m *metrics.Metrics) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{schemes: schemes, vendors: vendors, logger: logger, metrics: m}
}

// Run seeds schemes and then the default vendor from cat.
func (s *Seeder) Run(ctx context.Context, cat *catalog.Catalog) error {
	n, err := s.schemes.SeedIfEmpty(ctx, cat.Schemes)
	if err != nil {
		return fmt.Errorf("seed schemes: %w", err)
	}
	s.metrics.AddSeeded("scheme", n)

	created, err := s.vendors.EnsureVendor(ctx, cat.DefaultVendor.IdentityKey, cat.DefaultVendor.Name)
	if err != nil {
		return fmt.Errorf("seed default vendor: %w", err)
	}
	if created {
		s.metrics.AddSeeded("vendor", 1)
	}

	s.logger.InfoContext(ctx, "seeding complete",
		"schemes_inserted", n,
		"vendor_created", created,
	)
	return nil
}
