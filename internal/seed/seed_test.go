package seed

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"expenseai/internal/catalog"
	"expenseai/internal/platform/metrics"
	schememodels "expenseai/internal/scheme/models"
	schemeservice "expenseai/internal/scheme/service"
	schemestore "expenseai/internal/scheme/store"
	usermodels "expenseai/internal/user/models"
	userservice "expenseai/internal/user/service"
	userstore "expenseai/internal/user/store"
)

type SeedSuite struct {
	suite.Suite
	schemes *schemeservice.Service
	users   *userservice.Service
	metrics *metrics.Metrics
	seeder  *Seeder
	ctx     context.Context
}

func TestSeedSuite(t *testing.T) {
	suite.Run(t, new(SeedSuite))
}

func (s *SeedSuite) SetupTest() {
	var err error
	s.schemes, err = schemeservice.New(schemestore.NewInMemory(), 8)
	s.Require().NoError(err)
	s.users = userservice.New(userstore.NewInMemory())
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())
	s.seeder = New(s.schemes, s.users, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), s.metrics)
	s.ctx = context.Background()
}

func (s *SeedSuite) TestRunSeedsDefaultCatalog() {
	s.Require().NoError(s.seeder.Run(s.ctx, catalog.Default()))

	rashan, err := s.schemes.Get(s.ctx, "rashan_scheme")
	s.Require().NoError(err)
	s.Equal(50000.0, rashan.MaxIncome)
	s.Equal(3, rashan.MinFamilySize)

	scholarship, err := s.schemes.Get(s.ctx, "scholarship_scheme")
	s.Require().NoError(err)
	s.Equal(70000.0, scholarship.MaxIncome)

	vendors, err := s.users.ListVendors(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(vendors, 1)
	s.Equal("9999999999999", vendors[0].IdentityKey)
	s.Equal("Default Rashan Vendor", vendors[0].Name)
	s.True(vendors[0].IsActive)

	s.Equal(2.0, testutil.ToFloat64(s.metrics.SeededRecords.WithLabelValues("scheme")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SeededRecords.WithLabelValues("vendor")))
}

func (s *SeedSuite) TestRunIsIdempotent() {
	s.Require().NoError(s.seeder.Run(s.ctx, catalog.Default()))
	s.Require().NoError(s.seeder.Run(s.ctx, catalog.Default()))

	schemes, err := s.schemes.List(s.ctx)
	s.Require().NoError(err)
	s.Len(schemes, 2)
	vendors, err := s.users.ListVendors(s.ctx)
	s.Require().NoError(err)
	s.Len(vendors, 1)
	s.Equal(2.0, testutil.ToFloat64(s.metrics.SeededRecords.WithLabelValues("scheme")))
}

func (s *SeedSuite) TestExistingVendorSkipsDefault() {
	_, err := s.users.Register(s.ctx, userservice.RegisterInput{
		IdentityKey: "1111111111111", Name: "Corner Shop", Role: usermodels.RoleVendor,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.seeder.Run(s.ctx, catalog.Default()))

	vendors, err := s.users.ListVendors(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(vendors, 1)
	s.Equal("1111111111111", vendors[0].IdentityKey)
}

type failingSchemes struct{}

func (failingSchemes) SeedIfEmpty(context.Context, []*schememodels.Scheme) (int, error) {
	return 0, errors.New("db down")
}

func (s *SeedSuite) TestSchemeFailureStopsSeeding() {
	seeder := New(failingSchemes{}, s.users, nil, nil)
	err := seeder.Run(s.ctx, catalog.Default())
	s.ErrorContains(err, "seed schemes")

	vendors, err := s.users.ListVendors(s.ctx)
	s.Require().NoError(err)
	s.Empty(vendors)
}
