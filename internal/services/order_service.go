// Package services – OrderService
//
// This file implements order management and aggregation. Orders carry only
// the owner's user id in storage; read paths decorate them with the owner's
// name and email through a UserResolver, which hides whether user data
// lives in the local database or behind the user service.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/ordersbridge/go-order-backend/internal/domain"
	"github.com/ordersbridge/go-order-backend/internal/repo"
)

// Placeholder identity attached to orders whose owner cannot be resolved.
const (
	unknownUserName  = "Unknown User"
	unknownUserEmail = "unknown@email.com"
)

// OrderRepo defines the repository contract required by OrderService.
type OrderRepo interface {
	CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order, items []domain.OrderItem) error
	GetOrder(ctx context.Context, db *gorm.DB, id int) (*domain.Order, error)
	ListOrders(ctx context.Context, db *gorm.DB, f repo.OrderFilter, offset, limit int) ([]domain.Order, error)
	CountOrders(ctx context.Context, db *gorm.DB, f repo.OrderFilter) (int64, error)
	UpdateOrderStatus(ctx context.Context, db *gorm.DB, id int, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, db *gorm.DB, id int) error
}

// ItemInput is one requested order line.
type ItemInput struct {
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// OrderService provides order lifecycle operations with user aggregation.
type OrderService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the order repository used by this service.
	Repo OrderRepo
	// Users resolves owner display data, locally or remotely.
	Users UserResolver
}

// NewOrderService constructs an OrderService.
func NewOrderService(db *gorm.DB, r OrderRepo, users UserResolver) *OrderService {
	return &OrderService{DB: db, Repo: r, Users: users}
}

// Create validates the items, verifies the owner exists, and persists the
// order. Item totals and the order total are derived from quantity and
// unit price. An empty status defaults to pending.
func (s *OrderService) Create(ctx context.Context, userID int, status string, items []ItemInput) (*domain.Order, error) {
	if status == "" {
		status = domain.StatusPending
	}
	if !domain.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range items {
		if it.Quantity <= 0 || !it.Price.IsPositive() {
			return nil, ErrInvalidItem
		}
	}

	ref, err := s.Users.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	o := &domain.Order{UserID: userID, Status: status}
	rows := make([]domain.OrderItem, len(items))
	for i, it := range items {
		rows[i] = domain.OrderItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
		}
	}
	if err := s.Repo.CreateOrder(ctx, s.DB, o, rows); err != nil {
		return nil, err
	}
	o.UserName, o.UserEmail = ref.Name, ref.Email
	return o, nil
}

// Get fetches an order with its owner's display data. Resolution failures
// degrade to placeholder identity rather than failing the read.
func (s *OrderService) Get(ctx context.Context, id int) (*domain.Order, error) {
	o, err := s.Repo.GetOrder(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	s.decorate(ctx, []domain.Order{}, o)
	return o, nil
}

// ListPage returns a page of orders, newest first, each decorated with its
// owner's name and email.
func (s *OrderService) ListPage(ctx context.Context, f repo.OrderFilter, page, pageSize int) ([]domain.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountOrders(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Order{}, 0, nil
	}

	orders, err := s.Repo.ListOrders(ctx, s.DB, f, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	s.decorate(ctx, orders, nil)
	return orders, total, nil
}

// UpdateStatus transitions an order to the given status.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, status string) (*domain.Order, error) {
	if !domain.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	o, err := s.Repo.UpdateOrderStatus(ctx, s.DB, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	s.decorate(ctx, []domain.Order{}, o)
	return o, nil
}

// Delete removes an order and its items.
func (s *OrderService) Delete(ctx context.Context, id int) error {
	err := s.Repo.DeleteOrder(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	return err
}

// decorate resolves owner identities for a batch of orders plus an optional
// single order, filling placeholders for anything that cannot be resolved.
func (s *OrderService) decorate(ctx context.Context, orders []domain.Order, single *domain.Order) {
	ctx, span := otel.Tracer("services/orders").Start(ctx, "OrderService.decorate")
	defer span.End()

	seen := map[int]struct{}{}
	var ids []int
	add := func(id int) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for i := range orders {
		add(orders[i].UserID)
	}
	if single != nil {
		add(single.UserID)
	}
	span.SetAttributes(attribute.Int("users.count", len(ids)))

	refs, err := s.Users.ResolveUsers(ctx, ids)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int("users", len(ids)).Msg("user resolution failed, using placeholders")
		refs = map[int]*UserRef{}
	}

	fill := func(o *domain.Order) {
		if ref, ok := refs[o.UserID]; ok {
			o.UserName, o.UserEmail = ref.Name, ref.Email
			return
		}
		o.UserName, o.UserEmail = unknownUserName, unknownUserEmail
	}
	for i := range orders {
		fill(&orders[i])
	}
	if single != nil {
		fill(single)
	}
}
