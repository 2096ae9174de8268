package wallet

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/enums"
)

// Repository moves wallet balances and manages cashback requests. Balance
// movements are conditional updates so a concurrent spend can never drive a
// wallet negative.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	Deduct(ctx context.Context, userID uuid.UUID, amount int64) (bool, error)
	Credit(ctx context.Context, userID uuid.UUID, amount int64) error
	CreateCashbackRequest(ctx context.Context, req *models.WalletCashbackRequest) error
	FindCashbackRequest(ctx context.Context, id uuid.UUID) (*models.WalletCashbackRequest, error)
	ApproveCashbackRequest(ctx context.Context, id uuid.UUID) (bool, error)
	ListCashbackRequests(ctx context.Context, status *enums.CashbackStatus, limit int) ([]models.WalletCashbackRequest, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Select("wallet_balance_paise").
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return 0, err
	}
	return user.WalletBalance, nil
}

// Deduct withdraws amount if and only if the balance covers it.
func (r *repository) Deduct(ctx context.Context, userID uuid.UUID, amount int64) (bool, error) {
	if amount == 0 {
		return true, nil
	}
	result := r.db.WithContext(ctx).Exec(`
		UPDATE users
		SET wallet_balance_paise = wallet_balance_paise - ?, updated_at = NOW()
		WHERE id = ? AND wallet_balance_paise >= ?`,
		amount, userID, amount,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) Credit(ctx context.Context, userID uuid.UUID, amount int64) error {
	if amount == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Exec(`
		UPDATE users
		SET wallet_balance_paise = wallet_balance_paise + ?, updated_at = NOW()
		WHERE id = ?`,
		amount, userID,
	).Error
}

func (r *repository) CreateCashbackRequest(ctx context.Context, req *models.WalletCashbackRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindCashbackRequest(ctx context.Context, id uuid.UUID) (*models.WalletCashbackRequest, error) {
	var req models.WalletCashbackRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ApproveCashbackRequest flips a pending request to approved exactly once.
func (r *repository) ApproveCashbackRequest(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE wallet_cashback_requests
		SET status = ?, approved_at = NOW()
		WHERE id = ? AND status = ?`,
		enums.CashbackStatusApproved, id, enums.CashbackStatusPending,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) ListCashbackRequests(ctx context.Context, status *enums.CashbackStatus, limit int) ([]models.WalletCashbackRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := r.db.WithContext(ctx).
		Model(&models.WalletCashbackRequest{}).
		Order("created_at DESC").
		Limit(limit)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var requests []models.WalletCashbackRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
