package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/markur/jesus-walks-napa/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	store.AddProduct(models.Product{
		Model: gorm.Model{ID: 1},
		Name:  "Vineyard Candle",
		Price: decimal.RequireFromString("19.99"),
		Stock: 10,
	})
	store.AddProduct(models.Product{
		Model: gorm.Model{ID: 2},
		Name:  "Walk Tote",
		Price: decimal.RequireFromString("5.50"),
		Stock: 3,
	})
	return store
}

func finalizeInput() FinalizeInput {
	return FinalizeInput{
		UserID: 7,
		Items: []LineInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
		ShippingAddress: models.ShippingAddress{
			FirstName:  "Grace",
			LastName:   "Kim",
			Address1:   "1000 Main St",
			City:       "Napa",
			State:      "CA",
			PostalCode: "94559",
			Country:    "US",
			Phone:      "7075551234",
		},
		SelectedRate: models.ShippingRateQuote{
			Carrier:       "USPS",
			Service:       "Priority",
			Rate:          decimal.RequireFromString("8.15"),
			EstimatedDays: 2,
		},
		PaymentIntentID: "order_intent_1",
	}
}

func TestFinalize(t *testing.T) {
	store := seededStore(t)
	svc := NewService(store)

	order, err := svc.Finalize(context.Background(), finalizeInput())
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.NotEmpty(t, order.Number)
	assert.Equal(t, uint(7), order.UserID)
	assert.Equal(t, "order_intent_1", order.PaymentIntentID)
	assert.Equal(t, "USPS", order.ShippingCarrier)
	require.NotNil(t, order.ShippingCost)
	assert.True(t, order.ShippingCost.Equal(decimal.RequireFromString("8.15")))
	// 2 x 19.99 + 1 x 5.50 + 8.15
	assert.True(t, order.Total.Equal(decimal.RequireFromString("53.63")))
	require.NotNil(t, order.EstimatedDeliveryDate)
	assert.True(t, order.EstimatedDeliveryDate.After(time.Now()))

	p1, _ := store.Product(1)
	p2, _ := store.Product(2)
	assert.Equal(t, 8, p1.Stock)
	assert.Equal(t, 2, p2.Stock)
}

func TestFinalizeSnapshotsPrices(t *testing.T) {
	store := seededStore(t)
	svc := NewService(store)

	order, err := svc.Finalize(context.Background(), finalizeInput())
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 2)
	assert.True(t, order.OrderItems[0].Price.Equal(decimal.RequireFromString("19.99")))

	// A later catalog price change must not affect the persisted order.
	store.AddProduct(models.Product{
		Model: gorm.Model{ID: 1},
		Name:  "Vineyard Candle",
		Price: decimal.RequireFromString("29.99"),
		Stock: 8,
	})
	persisted, err := store.GetByPaymentIntentID(context.Background(), "order_intent_1")
	require.NoError(t, err)
	assert.True(t, persisted.OrderItems[0].Price.Equal(decimal.RequireFromString("19.99")))
}

func TestFinalizeIsIdempotentPerIntent(t *testing.T) {
	store := seededStore(t)
	svc := NewService(store)

	first, err := svc.Finalize(context.Background(), finalizeInput())
	require.NoError(t, err)

	// Replay arrives after the cart was cleared, so items are empty.
	replay := finalizeInput()
	replay.Items = nil
	second, err := svc.Finalize(context.Background(), replay)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Number, second.Number)
	assert.Equal(t, 1, store.OrderCount())

	// Stock was decremented exactly once.
	p1, _ := store.Product(1)
	assert.Equal(t, 8, p1.Stock)
}

func TestFinalizeInputValidation(t *testing.T) {
	store := seededStore(t)
	svc := NewService(store)

	t.Run("missing payment intent", func(t *testing.T) {
		in := finalizeInput()
		in.PaymentIntentID = ""
		_, err := svc.Finalize(context.Background(), in)
		assert.ErrorIs(t, err, ErrMissingPaymentIntent)
	})

	t.Run("empty items", func(t *testing.T) {
		in := finalizeInput()
		in.Items = nil
		_, err := svc.Finalize(context.Background(), in)
		assert.ErrorIs(t, err, ErrEmptyItems)
	})

	t.Run("missing rate", func(t *testing.T) {
		in := finalizeInput()
		in.SelectedRate = models.ShippingRateQuote{}
		_, err := svc.Finalize(context.Background(), in)
		assert.ErrorIs(t, err, ErrMissingRate)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		in := finalizeInput()
		in.Items[0].Quantity = 0
		var qtyErr *InvalidQuantityError
		_, err := svc.Finalize(context.Background(), in)
		require.ErrorAs(t, err, &qtyErr)
		assert.Equal(t, uint(1), qtyErr.ProductID)
	})

	assert.Zero(t, store.OrderCount(), "no order persisted on validation failure")
}

func TestFinalizeInsufficientStock(t *testing.T) {
	store := seededStore(t)
	svc := NewService(store)

	in := finalizeInput()
	in.Items[1].Quantity = 4 // only 3 in stock

	var stockErr *InsufficientStockError
	_, err := svc.Finalize(context.Background(), in)
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(2), stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 4, stockErr.Requested)

	// Nothing was decremented, not even the line that had stock.
	p1, _ := store.Product(1)
	assert.Equal(t, 10, p1.Stock)
	assert.Zero(t, store.OrderCount())
}

func TestFinalizeUnknownProduct(t *testing.T) {
	store := seededStore(t)
	svc := NewService(store)

	in := finalizeInput()
	in.Items = append(in.Items, LineInput{ProductID: 99, Quantity: 1})

	var notFound *ProductNotFoundError
	_, err := svc.Finalize(context.Background(), in)
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, uint(99), notFound.ProductID)
	assert.Zero(t, store.OrderCount())
}

func TestFinalizeAtomicity(t *testing.T) {
	store := seededStore(t)
	// Fail while writing the second item: the order, the first item, and all
	// stock decrements must be rolled back together.
	store.ItemWriteHook = func(index int, _ *models.OrderItem) error {
		if index == 1 {
			return errors.New("write failed")
		}
		return nil
	}
	svc := NewService(store)

	_, err := svc.Finalize(context.Background(), finalizeInput())
	require.Error(t, err)

	assert.Zero(t, store.OrderCount())
	p1, _ := store.Product(1)
	p2, _ := store.Product(2)
	assert.Equal(t, 10, p1.Stock)
	assert.Equal(t, 3, p2.Stock)

	_, err = store.GetByPaymentIntentID(context.Background(), "order_intent_1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestTransition(t *testing.T) {
	store := seededStore(t)
	svc := NewService(store)

	order, err := svc.Finalize(context.Background(), finalizeInput())
	require.NoError(t, err)

	eta := time.Now().AddDate(0, 0, 3)
	shipped, err := svc.Transition(context.Background(), order.ID, models.OrderStatusShipped, TransitionOpts{
		TrackingNumber:        "9400100000000000000000",
		EstimatedDeliveryDate: &eta,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)
	require.NotNil(t, shipped.TrackingNumber)
	assert.Equal(t, "9400100000000000000000", *shipped.TrackingNumber)

	delivered, err := svc.Transition(context.Background(), order.ID, models.OrderStatusDelivered, TransitionOpts{})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Status)
}

func TestTransitionRejectsInvalidMoves(t *testing.T) {
	store := seededStore(t)
	svc := NewService(store)

	order, err := svc.Finalize(context.Background(), finalizeInput())
	require.NoError(t, err)

	// paid -> delivered skips shipped
	var transitionErr *models.InvalidTransitionError
	_, err = svc.Transition(context.Background(), order.ID, models.OrderStatusDelivered, TransitionOpts{})
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.OrderStatusPaid, transitionErr.From)

	// The failed transition left the order unchanged.
	current, err := store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, current.Status)

	// Cancelling a shipped order is not allowed.
	_, err = svc.Transition(context.Background(), order.ID, models.OrderStatusShipped, TransitionOpts{})
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), order.ID, models.OrderStatusCancelled, TransitionOpts{})
	assert.ErrorAs(t, err, &transitionErr)
}

func TestTransitionUnknownOrder(t *testing.T) {
	svc := NewService(NewMemoryStore())
	_, err := svc.Transition(context.Background(), 42, models.OrderStatusCancelled, TransitionOpts{})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelFromPaid(t *testing.T) {
	store := seededStore(t)
	svc := NewService(store)

	order, err := svc.Finalize(context.Background(), finalizeInput())
	require.NoError(t, err)

	cancelled, err := svc.Transition(context.Background(), order.ID, models.OrderStatusCancelled, TransitionOpts{})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
}

// staleReadStore serves a fixed number of stale GetByID reads before
// delegating, simulating two requests that both read the order before
// either writes.
type staleReadStore struct {
	*MemoryStore
	stale      models.Order
	staleReads int
}

func (s *staleReadStore) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	if s.staleReads > 0 {
		s.staleReads--
		cp := s.stale
		return &cp, nil
	}
	return s.MemoryStore.GetByID(ctx, id)
}

func TestTransitionConcurrentConflict(t *testing.T) {
	mem := seededStore(t)
	svc := NewService(mem)

	order, err := svc.Finalize(context.Background(), finalizeInput())
	require.NoError(t, err)

	// An admin ships the order while a user cancels it. Both requests read
	// status "paid" before either writes; the ship lands first.
	stale := *order
	store := &staleReadStore{MemoryStore: mem, stale: stale, staleReads: 2}
	raced := NewService(store)

	shipped, err := raced.Transition(context.Background(), order.ID, models.OrderStatusShipped, TransitionOpts{})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)

	// The cancel's check passed against the stale "paid" read, but the
	// write compare-and-swaps on it and loses; the recheck against the
	// fresh status rejects the transition.
	var transitionErr *models.InvalidTransitionError
	_, err = raced.Transition(context.Background(), order.ID, models.OrderStatusCancelled, TransitionOpts{})
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.OrderStatusShipped, transitionErr.From)

	current, err := mem.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, current.Status)
}

func TestStoredOrderDoesNotAliasCallerItems(t *testing.T) {
	store := seededStore(t)
	svc := NewService(store)

	order, err := svc.Finalize(context.Background(), finalizeInput())
	require.NoError(t, err)

	// Mutating the caller's copy must not bleed into the stored record.
	order.OrderItems[0].Quantity = 99
	order.OrderItems[0].Price = decimal.RequireFromString("0.01")

	stored, err := store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.OrderItems[0].Quantity)
	assert.True(t, stored.OrderItems[0].Price.Equal(decimal.RequireFromString("19.99")))

	// Reads hand out copies too.
	stored.OrderItems[1].Quantity = 42
	again, err := store.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.OrderItems[1].Quantity)
}
