package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/pkg/config"
	"github.com/ovenmade/bakemart-backend/pkg/db/models"
)

type stubLocationRepo struct {
	location *models.DeliveryLocation
	err      error
}

func (s *stubLocationRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.DeliveryLocation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.location, nil
}

func testPolicy() config.DeliveryConfig {
	return config.DeliveryConfig{FreeAboveSubtotal: 50000, FlatFee: 5000}
}

func TestResolveUsesLocationFee(t *testing.T) {
	repo := &stubLocationRepo{location: &models.DeliveryLocation{Fee: 7500}}
	resolver, err := NewFeeResolver(repo, testPolicy())
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	locationID := uuid.New()
	fee, err := resolver.Resolve(context.Background(), &locationID, 10000)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if fee != 7500 {
		t.Fatalf("expected location fee 7500, got %d", fee)
	}
}

func TestResolveFallsBackWhenLocationMissing(t *testing.T) {
	repo := &stubLocationRepo{err: gorm.ErrRecordNotFound}
	resolver, _ := NewFeeResolver(repo, testPolicy())

	locationID := uuid.New()
	fee, err := resolver.Resolve(context.Background(), &locationID, 10000)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if fee != 5000 {
		t.Fatalf("expected flat fee 5000, got %d", fee)
	}
}

func TestResolveFreeAboveThreshold(t *testing.T) {
	resolver, _ := NewFeeResolver(&stubLocationRepo{err: gorm.ErrRecordNotFound}, testPolicy())

	fee, err := resolver.Resolve(context.Background(), nil, 60000)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if fee != 0 {
		t.Fatalf("expected free delivery above threshold, got %d", fee)
	}
}

func TestResolvePropagatesRepoFailures(t *testing.T) {
	resolver, _ := NewFeeResolver(&stubLocationRepo{err: errors.New("connection reset")}, testPolicy())

	locationID := uuid.New()
	if _, err := resolver.Resolve(context.Background(), &locationID, 10000); err == nil {
		t.Fatal("expected dependency failure to propagate")
	}
}
