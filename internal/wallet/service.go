package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
	"github.com/ovenmade/bakemart-backend/pkg/logger"
)

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes wallet balance movements and the cashback approval flow.
type Service interface {
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	Deduct(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64) error
	Refund(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64) error
	RequestCashback(ctx context.Context, tx *gorm.DB, req *models.WalletCashbackRequest) error
	ApproveCashback(ctx context.Context, requestID uuid.UUID) (*models.WalletCashbackRequest, error)
	ListCashbackRequests(ctx context.Context, status *enums.CashbackStatus, limit int) ([]models.WalletCashbackRequest, error)
}

type service struct {
	repo Repository
	tx   TxRunner
	logg *logger.Logger
}

func NewService(repo Repository, tx TxRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	balance, err := s.repo.Balance(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read wallet balance")
	}
	return balance, nil
}

// Deduct withdraws amount within the caller's transaction. A failed guard
// means the balance changed since it was read, so the enclosing checkout
// rolls back rather than overdrawing the wallet.
func (s *service) Deduct(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64) error {
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "negative wallet amount")
	}
	ok, err := s.repo.WithTx(tx).Deduct(ctx, userID, amount)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deduct wallet balance")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeIntegrity, "insufficient wallet balance")
	}
	return nil
}

// Refund returns amount to the wallet within the caller's transaction.
func (s *service) Refund(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64) error {
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "negative wallet amount")
	}
	if err := s.repo.WithTx(tx).Credit(ctx, userID, amount); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit wallet balance")
	}
	return nil
}

// RequestCashback records a pending cashback within the caller's checkout
// transaction.
func (s *service) RequestCashback(ctx context.Context, tx *gorm.DB, req *models.WalletCashbackRequest) error {
	if req == nil || req.Amount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cashback request")
	}
	req.Status = enums.CashbackStatusPending
	if err := s.repo.WithTx(tx).CreateCashbackRequest(ctx, req); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record cashback request")
	}
	return nil
}

// ApproveCashback flips a pending request to approved and credits the user's
// wallet in the same transaction. Approving an already processed request is
// a state conflict, not a silent double credit.
func (s *service) ApproveCashback(ctx context.Context, requestID uuid.UUID) (*models.WalletCashbackRequest, error) {
	var approved *models.WalletCashbackRequest

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		req, err := repo.FindCashbackRequest(ctx, requestID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cashback request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cashback request")
		}
		if req.Status != enums.CashbackStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cashback request already processed")
		}

		ok, err := repo.ApproveCashbackRequest(ctx, requestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve cashback request")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cashback request already processed")
		}

		if err := repo.Credit(ctx, req.UserID, req.Amount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit cashback")
		}

		req.Status = enums.CashbackStatusApproved
		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"cashback_request_id": approved.ID.String(),
			"user_id":             approved.UserID.String(),
			"amount":              approved.Amount,
		})
		s.logg.Info(logCtx, "cashback approved")
	}

	return approved, nil
}

func (s *service) ListCashbackRequests(ctx context.Context, status *enums.CashbackStatus, limit int) ([]models.WalletCashbackRequest, error) {
	requests, err := s.repo.ListCashbackRequests(ctx, status, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cashback requests")
	}
	return requests, nil
}
