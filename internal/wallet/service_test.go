package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
)

type stubWalletRepo struct {
	balance   int64
	deductOK  bool
	deducted  int64
	credited  int64
	creditErr error

	request    *models.WalletCashbackRequest
	findErr    error
	approveOK  bool
	approvedID uuid.UUID
}

func (s *stubWalletRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubWalletRepo) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.balance, nil
}

func (s *stubWalletRepo) Deduct(ctx context.Context, userID uuid.UUID, amount int64) (bool, error) {
	if !s.deductOK {
		return false, nil
	}
	s.deducted += amount
	return true, nil
}

func (s *stubWalletRepo) Credit(ctx context.Context, userID uuid.UUID, amount int64) error {
	if s.creditErr != nil {
		return s.creditErr
	}
	s.credited += amount
	return nil
}

func (s *stubWalletRepo) CreateCashbackRequest(ctx context.Context, req *models.WalletCashbackRequest) error {
	return nil
}

func (s *stubWalletRepo) FindCashbackRequest(ctx context.Context, id uuid.UUID) (*models.WalletCashbackRequest, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.request, nil
}

func (s *stubWalletRepo) ApproveCashbackRequest(ctx context.Context, id uuid.UUID) (bool, error) {
	s.approvedID = id
	return s.approveOK, nil
}

func (s *stubWalletRepo) ListCashbackRequests(ctx context.Context, status *enums.CashbackStatus, limit int) ([]models.WalletCashbackRequest, error) {
	return nil, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestDeductInsufficientBalance(t *testing.T) {
	svc, err := NewService(&stubWalletRepo{deductOK: false}, passthroughTx{}, nil)
	require.NoError(t, err)

	err = svc.Deduct(context.Background(), nil, uuid.New(), 5000)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeIntegrity))
}

func TestDeductSuccess(t *testing.T) {
	repo := &stubWalletRepo{deductOK: true}
	svc, _ := NewService(repo, passthroughTx{}, nil)

	require.NoError(t, svc.Deduct(context.Background(), nil, uuid.New(), 5000))
	assert.Equal(t, int64(5000), repo.deducted)
}

func TestApproveCashbackCreditsWallet(t *testing.T) {
	userID := uuid.New()
	req := &models.WalletCashbackRequest{
		ID:         uuid.New(),
		UserID:     userID,
		OrderID:    uuid.New(),
		Amount:     7500,
		CouponCode: "CAKEBACK",
		Status:     enums.CashbackStatusPending,
		CreatedAt:  time.Now(),
	}
	repo := &stubWalletRepo{request: req, approveOK: true}
	svc, _ := NewService(repo, passthroughTx{}, nil)

	approved, err := svc.ApproveCashback(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.CashbackStatusApproved, approved.Status)
	assert.Equal(t, int64(7500), repo.credited)
	assert.Equal(t, req.ID, repo.approvedID)
}

func TestApproveCashbackAlreadyProcessed(t *testing.T) {
	req := &models.WalletCashbackRequest{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Amount: 7500,
		Status: enums.CashbackStatusApproved,
	}
	svc, _ := NewService(&stubWalletRepo{request: req}, passthroughTx{}, nil)

	_, err := svc.ApproveCashback(context.Background(), req.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestApproveCashbackNotFound(t *testing.T) {
	svc, _ := NewService(&stubWalletRepo{findErr: gorm.ErrRecordNotFound}, passthroughTx{}, nil)

	_, err := svc.ApproveCashback(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
