package order

import (
	"context"
	"sync"

	"github.com/markur/jesus-walks-napa/models"
	"github.com/shopspring/decimal"
)

// MemoryStore is an in-memory Store implementation with the same atomicity
// semantics as the GORM store. Used by tests and local development.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   uint
	orders   map[uint]*models.Order
	byIntent map[string]uint
	products map[uint]*models.Product

	// ItemWriteHook, when set, runs before each item write and can inject a
	// failure. Index is zero-based.
	ItemWriteHook func(index int, item *models.OrderItem) error
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		orders:   make(map[uint]*models.Order),
		byIntent: make(map[string]uint),
		products: make(map[uint]*models.Product),
	}
}

// AddProduct seeds a product into the store
func (s *MemoryStore) AddProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.products[p.ID] = &cp
}

// Product returns a copy of a seeded product
func (s *MemoryStore) Product(id uint) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, false
	}
	return *p, true
}

// OrderCount returns the number of persisted orders
func (s *MemoryStore) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// CreateOrder mirrors the GORM store: price snapshot, stock check and
// decrement, and all-or-nothing persistence of order plus items.
func (s *MemoryStore) CreateOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byIntent[order.PaymentIntentID]; exists {
		return ErrDuplicateIntent
	}

	// Stage everything; nothing is visible until all writes succeed.
	type decrement struct {
		product *models.Product
		qty     int
	}
	subtotal := decimal.Zero
	decrements := make([]decrement, 0, len(order.OrderItems))

	for i := range order.OrderItems {
		item := &order.OrderItems[i]
		product, ok := s.products[item.ProductID]
		if !ok {
			return &ProductNotFoundError{ProductID: item.ProductID}
		}
		if product.Stock < item.Quantity {
			return &InsufficientStockError{
				ProductID: item.ProductID,
				Available: product.Stock,
				Requested: item.Quantity,
			}
		}
		item.Price = product.Price
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		decrements = append(decrements, decrement{product: product, qty: item.Quantity})
	}

	for i := range order.OrderItems {
		if s.ItemWriteHook != nil {
			if err := s.ItemWriteHook(i, &order.OrderItems[i]); err != nil {
				return err
			}
		}
	}

	order.Total = subtotal
	if order.ShippingCost != nil {
		order.Total = subtotal.Add(*order.ShippingCost)
	}

	order.ID = s.nextID
	s.nextID++
	for i := range order.OrderItems {
		order.OrderItems[i].ID = uint(i + 1)
		order.OrderItems[i].OrderID = order.ID
	}
	for _, d := range decrements {
		d.product.Stock -= d.qty
	}

	s.orders[order.ID] = cloneOrder(order)
	s.byIntent[order.PaymentIntentID] = order.ID
	return nil
}

// cloneOrder copies an order along with its items so stored records never
// share a backing array with a caller's slice.
func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	cp.OrderItems = append([]models.OrderItem(nil), o.OrderItems...)
	return &cp
}

// GetByPaymentIntentID returns the order finalized for a payment intent
func (s *MemoryStore) GetByPaymentIntentID(_ context.Context, intentID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byIntent[intentID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(s.orders[id]), nil
}

// GetByID returns an order by id
func (s *MemoryStore) GetByID(_ context.Context, id uint) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// UpdateStatus persists the order's status and shipping metadata, mirroring
// the GORM store's compare-and-swap on the prior status.
func (s *MemoryStore) UpdateStatus(_ context.Context, order *models.Order, from string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[order.ID]
	if !ok {
		return ErrOrderNotFound
	}
	if stored.Status != from {
		return ErrStatusConflict
	}
	stored.Status = order.Status
	stored.TrackingNumber = order.TrackingNumber
	stored.EstimatedDeliveryDate = order.EstimatedDeliveryDate
	return nil
}
