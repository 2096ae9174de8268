package revenue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
	"github.com/ovenmade/bakemart-backend/pkg/logger"
)

// CODData summarizes delivered cash orders still awaiting collection.
type CODData struct {
	OrderCount    int   `json:"orderCount"`
	PendingAmount int64 `json:"pendingAmount"`
}

// Report is the dashboard payload: one Summary per window plus the
// cash-on-delivery backlog and the latest orders.
type Report struct {
	Lifetime     Summary        `json:"lifetime"`
	Monthly      Summary        `json:"monthly"`
	Weekly       Summary        `json:"weekly"`
	CODData      CODData        `json:"codData"`
	CODOrders    []models.Order `json:"codOrders"`
	RecentOrders []models.Order `json:"recentOrders"`
}

// Service builds financial reports for admins and vendors.
type Service interface {
	AdminDashboard(ctx context.Context) (*Report, error)
	VendorFinancial(ctx context.Context, storeID uuid.UUID) (*Report, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("revenue repository required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) AdminDashboard(ctx context.Context) (*Report, error) {
	return s.buildReport(ctx, nil)
}

func (s *service) VendorFinancial(ctx context.Context, storeID uuid.UUID) (*Report, error) {
	return s.buildReport(ctx, &storeID)
}

func (s *service) buildReport(ctx context.Context, storeID *uuid.UUID) (*Report, error) {
	now := s.now()
	report := &Report{}

	for _, window := range []struct {
		name string
		dest *Summary
	}{
		{"lifetime", &report.Lifetime},
		{"monthly", &report.Monthly},
		{"weekly", &report.Weekly},
	} {
		since := WindowStart(window.name, now)

		paid, err := s.repo.ListPaidSince(ctx, since, storeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list paid orders")
		}
		refunded, err := s.repo.ListRefundedSince(ctx, since, storeID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refunded orders")
		}

		summary, anomalies := Aggregate(paid, refunded)
		if anomalies != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "window", window.name),
				fmt.Sprintf("settlement replay anomalies: %v", anomalies))
		}
		*window.dest = summary
	}

	codOrders, err := s.repo.ListCODPending(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending cod orders")
	}
	report.CODOrders = codOrders
	report.CODData.OrderCount = len(codOrders)
	for _, order := range codOrders {
		report.CODData.PendingAmount += order.TotalAmount
	}

	recent, err := s.repo.ListRecent(ctx, 20, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent orders")
	}
	report.RecentOrders = recent

	return report, nil
}
