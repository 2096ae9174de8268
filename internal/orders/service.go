package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenmade/bakemart-backend/internal/cart"
	"github.com/ovenmade/bakemart-backend/internal/coupons"
	"github.com/ovenmade/bakemart-backend/internal/delivery"
	"github.com/ovenmade/bakemart-backend/internal/payments"
	"github.com/ovenmade/bakemart-backend/internal/pricing"
	"github.com/ovenmade/bakemart-backend/internal/stores"
	"github.com/ovenmade/bakemart-backend/internal/wallet"
	"github.com/ovenmade/bakemart-backend/pkg/db/models"
	"github.com/ovenmade/bakemart-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/bakemart-backend/pkg/errors"
	"github.com/ovenmade/bakemart-backend/pkg/logger"
	"github.com/ovenmade/bakemart-backend/pkg/metrics"
	"github.com/ovenmade/bakemart-backend/pkg/pagination"
	"github.com/ovenmade/bakemart-backend/pkg/types"
)

// Notifier sends best-effort customer messages. Implementations must never
// block order processing.
type Notifier interface {
	OrderConfirmation(ctx context.Context, to string, order *models.Order)
	OrderCancelled(ctx context.Context, to string, order *models.Order, refund int64)
}

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the order lifecycle: checkout, listing, state transitions,
// and the cancellation workflow.
type Service interface {
	Create(ctx context.Context, actor Actor, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, actor Actor, params pagination.Params) ([]models.Order, error)
	AgentPool(ctx context.Context) ([]models.Order, error)
	Transition(ctx context.Context, actor Actor, orderID uuid.UUID, input TransitionInput) (*models.Order, error)
	RequestCancellation(ctx context.Context, actor Actor, orderID uuid.UUID, input CancelOrderInput) (*models.Order, error)
	ResolveCancellation(ctx context.Context, actor Actor, orderID uuid.UUID, input ResolveCancellationInput) (*models.Order, error)
}

type service struct {
	repo      Repository
	carts     cart.Repository
	stores    stores.Repository
	users     UserRepository
	coupons   coupons.Service
	wallet    wallet.Service
	fees      *delivery.FeeResolver
	verifier  *payments.Verifier
	tx        TxRunner
	notifier  Notifier
	lifecycle *metrics.OrderMetrics
	logg      *logger.Logger
}

// Deps carries the service's collaborators.
type Deps struct {
	Repo      Repository
	Carts     cart.Repository
	Stores    stores.Repository
	Users     UserRepository
	Coupons   coupons.Service
	Wallet    wallet.Service
	Fees      *delivery.FeeResolver
	Verifier  *payments.Verifier
	Tx        TxRunner
	Notifier  Notifier
	Lifecycle *metrics.OrderMetrics
	Logger    *logger.Logger
}

func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Repo == nil:
		return nil, fmt.Errorf("order repository required")
	case deps.Carts == nil:
		return nil, fmt.Errorf("cart repository required")
	case deps.Stores == nil:
		return nil, fmt.Errorf("store repository required")
	case deps.Users == nil:
		return nil, fmt.Errorf("user repository required")
	case deps.Coupons == nil:
		return nil, fmt.Errorf("coupon service required")
	case deps.Wallet == nil:
		return nil, fmt.Errorf("wallet service required")
	case deps.Fees == nil:
		return nil, fmt.Errorf("fee resolver required")
	case deps.Verifier == nil:
		return nil, fmt.Errorf("payment verifier required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      deps.Repo,
		carts:     deps.Carts,
		stores:    deps.Stores,
		users:     deps.Users,
		coupons:   deps.Coupons,
		wallet:    deps.Wallet,
		fees:      deps.Fees,
		verifier:  deps.Verifier,
		tx:        deps.Tx,
		notifier:  deps.Notifier,
		lifecycle: deps.Lifecycle,
		logg:      deps.Logger,
	}, nil
}

// Create runs checkout. The gateway signature is verified before anything is
// persisted; on mismatch no order exists. Cart read, coupon redemption,
// wallet deduction, order insert, and cart clear commit as one transaction.
func (s *service) Create(ctx context.Context, actor Actor, input CreateOrderInput) (*models.Order, error) {
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if !input.ShippingAddress.Complete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "incomplete shipping address")
	}

	if method == enums.PaymentMethodOnline {
		if input.PaymentDetails == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment details required for online payment")
		}
		if err := s.verifier.Verify(*input.PaymentDetails); err != nil {
			return nil, err
		}
	} else if input.PaymentDetails != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment details not accepted for cash on delivery")
	}

	otp, err := GenerateOTP()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}

	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userCart, err := s.carts.WithTx(tx).FindByUser(ctx, actor.UserID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if userCart.IsEmpty() {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		var subtotal int64
		for _, item := range userCart.Items {
			subtotal += item.LineTotal()
		}
		for _, addon := range userCart.Addons {
			subtotal += addon.LineTotal()
		}

		var couponResult *coupons.Result
		if input.CouponCode != "" {
			couponResult, err = s.coupons.Validate(ctx, input.CouponCode, subtotal, actor.UserID)
			if err != nil {
				return err
			}
		}

		fee, err := s.fees.Resolve(ctx, input.LocationID, subtotal)
		if err != nil {
			return err
		}

		walletRequest := int64(0)
		if input.UseWallet {
			walletRequest = input.WalletAmount
			if walletRequest == 0 {
				walletRequest = user.WalletBalance
			}
		}

		pricingInput := pricing.Input{
			Items:         userCart.Items,
			Addons:        userCart.Addons,
			DeliveryFee:   fee,
			WalletRequest: walletRequest,
			WalletBalance: user.WalletBalance,
		}
		if couponResult != nil {
			pricingInput.Discount = couponResult.Discount
			pricingInput.WalletCashback = couponResult.WalletCashback
		}

		quote, err := pricing.Compute(pricingInput)
		if err != nil {
			return err
		}

		var snapshot *types.StoreSnapshot
		if userCart.StoreID != nil {
			store, err := s.stores.WithTx(tx).FindByID(ctx, *userCart.StoreID)
			if err != nil {
				if err != gorm.ErrRecordNotFound {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
				}
			} else {
				snap := stores.Snapshot(store)
				snapshot = &snap
			}
		}

		if quote.WalletUsed > 0 {
			if err := s.wallet.Deduct(ctx, tx, actor.UserID, quote.WalletUsed); err != nil {
				return err
			}
		}

		order := &models.Order{
			UserID:          actor.UserID,
			StoreID:         userCart.StoreID,
			StoreSnapshot:   snapshot,
			Items:           userCart.Items,
			Addons:          userCart.Addons,
			Subtotal:        quote.Subtotal,
			Discount:        quote.Discount,
			DeliveryCharge:  quote.DeliveryCharge,
			WalletUsed:      quote.WalletUsed,
			WalletCashback:  quote.WalletCashback,
			TotalAmount:     quote.Payable,
			OrderStatus:     enums.OrderStatusPunched,
			PaymentStatus:   enums.PaymentStatusPending,
			PaymentMethod:   method,
			ShippingAddress: input.ShippingAddress,
			Occasion:        input.Occasion,
			OccasionDate:    input.OccasionDate,
			CakeMessage:     input.CakeMessage,
			OTP:             otp,
		}
		if method == enums.PaymentMethodOnline {
			order.PaymentStatus = enums.PaymentStatusPaid
			order.GatewayOrderID = &input.PaymentDetails.GatewayOrderID
			order.GatewayPaymentID = &input.PaymentDetails.GatewayPaymentID
		}
		if couponResult != nil {
			order.CouponCode = &couponResult.Coupon.Code
		}

		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
		}

		if couponResult != nil {
			if err := s.coupons.Redeem(ctx, tx, couponResult.Coupon, actor.UserID, order.ID); err != nil {
				return err
			}
			if couponResult.WalletCashback > 0 {
				cashback := &models.WalletCashbackRequest{
					UserID:     actor.UserID,
					OrderID:    order.ID,
					Amount:     couponResult.WalletCashback,
					CouponCode: couponResult.Coupon.Code,
				}
				if err := s.wallet.RequestCashback(ctx, tx, cashback); err != nil {
					return err
				}
			}
		}

		if err := s.carts.WithTx(tx).Clear(ctx, actor.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.lifecycle.IncCreated()
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, created.ID.String()), "order created")
	}

	if s.notifier != nil {
		go s.notifier.OrderConfirmation(context.WithoutCancel(ctx), user.Email, created)
	}

	return created, nil
}

// Get returns one order, enforcing ownership for non-admin callers.
func (s *service) Get(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

// List is role-scoped server-side: customers see their own orders, vendors
// their store's, agents their assigned deliveries, admins everything.
func (s *service) List(ctx context.Context, actor Actor, params pagination.Params) ([]models.Order, error) {
	filter := ListFilter{}
	switch enums.UserRole(actor.Role) {
	case enums.UserRoleAdmin:
	case enums.UserRoleVendor:
		if actor.StoreID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor has no store")
		}
		filter.StoreID = actor.StoreID
	case enums.UserRoleAgent:
		agentID := actor.UserID
		filter.DeliveryAgentID = &agentID
	default:
		userID := actor.UserID
		filter.UserID = &userID
	}

	orders, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

// AgentPool returns unclaimed dispatched orders.
func (s *service) AgentPool(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.ListAgentPool(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list agent pool")
	}
	return orders, nil
}

// Transition applies one state machine action. Each mutation is a guarded
// update; losing the guard surfaces as a state conflict, never a silent
// overwrite.
func (s *service) Transition(ctx context.Context, actor Actor, orderID uuid.UUID, input TransitionInput) (*models.Order, error) {
	action, err := ParseAction(input.Action)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	role := enums.UserRole(actor.Role)
	target, err := Resolve(action, order.OrderStatus, role)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionVerifyPayment:
		if order.PaymentStatus == enums.PaymentStatusPaid {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already verified")
		}
		ok, err := s.repo.MarkPaid(ctx, orderID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already verified")
		}

	case ActionAccept:
		ok, err := s.repo.AssignAgent(ctx, orderID, actor.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign delivery agent")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already claimed by another agent")
		}

	case ActionVerifyOTP:
		if order.DeliveryAgentID == nil || *order.DeliveryAgentID != actor.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order assigned to another agent")
		}
		if !VerifyOTP(order.OTP, input.OTP) {
			s.lifecycle.IncOTPFailure()
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid otp")
		}
		ok, err := s.repo.MarkDelivered(ctx, orderID, actor.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order delivered")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is no longer out for delivery")
		}
		s.lifecycle.IncDelivered()

	default:
		if role == enums.UserRoleVendor && action == ActionMarkOutForDelivery {
			if actor.StoreID == nil || order.StoreID == nil || *actor.StoreID != *order.StoreID {
				return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another store")
			}
		}
		ok, err := s.repo.UpdateStatus(ctx, orderID, order.OrderStatus, target)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order left status %q before the update applied", order.OrderStatus))
		}
	}

	updated, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": orderID.String(),
			"action":   string(action),
			"status":   updated.OrderStatus.String(),
		})
		s.logg.Info(logCtx, "order transition applied")
	}

	return updated, nil
}

// RequestCancellation opens the workflow for the order's owner. Orders that
// already left the cancellable window, or already carry a pending request,
// are rejected.
func (s *service) RequestCancellation(ctx context.Context, actor Actor, orderID uuid.UUID, input CancelOrderInput) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your order")
	}

	switch order.OrderStatus {
	case enums.OrderStatusDelivered, enums.OrderStatusCancelled, enums.OrderStatusOutForDelivery:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %q cannot be cancelled", order.OrderStatus))
	}
	if order.CancellationRequest != nil && order.CancellationRequest.Status == enums.CancellationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cancellation already requested")
	}

	// COD before collection: no cash changed hands, cancel directly. Any
	// wallet funds consumed at checkout were a real deduction and go back.
	if order.PaymentMethod == enums.PaymentMethodCOD && order.PaymentStatus != enums.PaymentStatusPaid {
		return s.applyCancellation(ctx, order, &types.CancellationRequest{
			Reason:             input.Reason,
			Status:             enums.CancellationStatusApproved,
			RefundAmount:       0,
			WalletRefundAmount: order.WalletUsed,
			RequestedAt:        time.Now(),
			ProcessedAt:        ptrTime(time.Now()),
		}, order.WalletUsed)
	}

	request := &types.CancellationRequest{
		Reason:      input.Reason,
		Status:      enums.CancellationStatusPending,
		RequestedAt: time.Now(),
	}
	ok, err := s.repo.SetPendingCancellation(ctx, orderID, request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cancellation request")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order left the cancellable window")
	}

	order.CancellationRequest = request
	return order, nil
}

// ResolveCancellation records the admin decision. Approval cancels the
// order, credits any wallet refund immediately, and records the gateway
// refund amount for manual execution.
func (s *service) ResolveCancellation(ctx context.Context, actor Actor, orderID uuid.UUID, input ResolveCancellationInput) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CancellationRequest == nil || order.CancellationRequest.Status != enums.CancellationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no pending cancellation request")
	}

	request := *order.CancellationRequest
	now := time.Now()
	request.ProcessedAt = &now
	request.AdminNote = input.AdminNote

	if input.Action == "reject" {
		request.Status = enums.CancellationStatusRejected
		if err := s.repo.SetCancellationRequest(ctx, orderID, &request); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cancellation decision")
		}
		order.CancellationRequest = &request
		return order, nil
	}

	refund := order.TotalAmount
	if input.RefundAmount != nil {
		refund = *input.RefundAmount
	}
	if refund > order.TotalAmount {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund exceeds order total")
	}
	walletRefund := order.WalletUsed
	if input.WalletRefundAmount != nil {
		walletRefund = *input.WalletRefundAmount
	}
	if walletRefund > order.WalletUsed {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wallet refund exceeds wallet spend")
	}

	request.Status = enums.CancellationStatusApproved
	request.RefundAmount = refund
	request.WalletRefundAmount = walletRefund

	return s.applyCancellation(ctx, order, &request, walletRefund)
}

func (s *service) applyCancellation(ctx context.Context, order *models.Order, request *types.CancellationRequest, walletRefund int64) (*models.Order, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.repo.WithTx(tx).ApplyCancellation(ctx, order.ID, request)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order reached a terminal state first")
		}
		if walletRefund > 0 {
			if err := s.wallet.Refund(ctx, tx, order.UserID, walletRefund); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.lifecycle.IncCancelled()

	updated, err := s.loadOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order cancelled")
	}
	if s.notifier != nil {
		if user, err := s.users.FindByID(ctx, order.UserID); err == nil {
			go s.notifier.OrderCancelled(context.WithoutCancel(ctx), user.Email, updated, request.RefundAmount)
		}
	}

	return updated, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) authorizeRead(actor Actor, order *models.Order) error {
	switch enums.UserRole(actor.Role) {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleVendor:
		if actor.StoreID != nil && order.StoreID != nil && *actor.StoreID == *order.StoreID {
			return nil
		}
	case enums.UserRoleAgent:
		if order.DeliveryAgentID != nil && *order.DeliveryAgentID == actor.UserID {
			return nil
		}
		if order.OrderStatus == enums.OrderStatusAwaitingAgent {
			return nil
		}
	default:
		if order.UserID == actor.UserID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not permitted to view this order")
}

func ptrTime(t time.Time) *time.Time { return &t }
