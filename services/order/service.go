package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/markur/jesus-walks-napa/models"
)

// Input validation errors for Finalize.
var (
	ErrEmptyItems           = errors.New("order must contain at least one item")
	ErrMissingPaymentIntent = errors.New("payment intent id is required")
	ErrMissingRate          = errors.New("a selected shipping rate is required")
)

// LineInput is one requested order line. Price is looked up at finalize
// time, not supplied by the caller.
type LineInput struct {
	ProductID uint
	Quantity  int
}

// InvalidQuantityError indicates a line with a non-positive quantity
type InvalidQuantityError struct {
	ProductID uint
}

func (e *InvalidQuantityError) Error() string {
	return "quantity must be greater than 0"
}

// FinalizeInput carries everything needed to persist a confirmed order
type FinalizeInput struct {
	UserID          uint
	Items           []LineInput
	ShippingAddress models.ShippingAddress
	SelectedRate    models.ShippingRateQuote
	PaymentIntentID string
}

// Service coordinates order finalization and status transitions
type Service struct {
	store Store
}

// NewService creates an order Service backed by the given store
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Finalize persists an order once payment is confirmed. It is idempotent per
// payment intent: a repeat call for the same intent returns the existing
// order without creating a duplicate. The order and all of its items are
// written atomically; item prices are snapshots of the products' prices at
// finalize time.
func (s *Service) Finalize(ctx context.Context, in FinalizeInput) (*models.Order, error) {
	if in.PaymentIntentID == "" {
		return nil, ErrMissingPaymentIntent
	}

	// Idempotency check comes before input validation: a replayed finalize
	// arrives after the cart was already cleared by the first call.
	if existing, err := s.store.GetByPaymentIntentID(ctx, in.PaymentIntentID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrOrderNotFound) {
		return nil, err
	}

	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if in.SelectedRate.Rate.IsZero() && in.SelectedRate.Carrier == "" {
		return nil, ErrMissingRate
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
	}

	shippingCost := in.SelectedRate.Rate
	estimated := estimatedDelivery(in.SelectedRate.EstimatedDays)

	order := &models.Order{
		Number:                uuid.New().String(),
		UserID:                in.UserID,
		Status:                models.OrderStatusPaid,
		ShippingCost:          &shippingCost,
		ShippingAddress:       in.ShippingAddress,
		ShippingCarrier:       in.SelectedRate.Carrier,
		ShippingService:       in.SelectedRate.Service,
		EstimatedDeliveryDate: estimated,
		PaymentIntentID:       in.PaymentIntentID,
	}
	for _, item := range in.Items {
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, ErrDuplicateIntent) {
			// Lost a race with a concurrent finalize for the same intent.
			return s.store.GetByPaymentIntentID(ctx, in.PaymentIntentID)
		}
		return nil, err
	}
	return order, nil
}

// TransitionOpts carries shipping metadata attached on specific transitions
type TransitionOpts struct {
	TrackingNumber        string
	EstimatedDeliveryDate *time.Time
}

// Transition moves an order to the next status, enforcing the state machine.
// Violations return InvalidTransitionError and leave the order unchanged.
// The write compare-and-swaps on the status read here, so a concurrent
// transition cannot slip past the check; on conflict the check reruns
// against the fresh status.
func (s *Service) Transition(ctx context.Context, orderID uint, next string, opts TransitionOpts) (*models.Order, error) {
	for attempt := 0; attempt < 3; attempt++ {
		order, err := s.store.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		from := order.Status
		if !models.CanTransition(from, next) {
			return nil, &models.InvalidTransitionError{From: from, To: next}
		}

		order.Status = next
		if next == models.OrderStatusShipped {
			if opts.TrackingNumber != "" {
				order.TrackingNumber = &opts.TrackingNumber
			}
			if opts.EstimatedDeliveryDate != nil {
				order.EstimatedDeliveryDate = opts.EstimatedDeliveryDate
			}
		}

		err = s.store.UpdateStatus(ctx, order, from)
		if errors.Is(err, ErrStatusConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return order, nil
	}
	return nil, ErrStatusConflict
}

func estimatedDelivery(days int) *time.Time {
	if days <= 0 {
		return nil
	}
	t := time.Now().AddDate(0, 0, days)
	return &t
}
