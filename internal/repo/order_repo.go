package repo

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ordersbridge/go-order-backend/internal/domain"
	"github.com/ordersbridge/go-order-backend/internal/schema"
)

const (
	mirrorInsertOrderSQL = `INSERT INTO orders (id, user_id, status, total_amount, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`

	mirrorInsertItemSQL = `INSERT INTO order_items (id, order_id, product_name, quantity, price, total)
VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`

	mirrorUpdateOrderStatusSQL = `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`

	mirrorDeleteItemsSQL = `DELETE FROM order_items WHERE order_id = ?`
	mirrorDeleteOrderSQL = `DELETE FROM orders WHERE id = ?`
)

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	UserID int
	Status string
}

func (f OrderFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

// CreateOrder inserts an order together with its items in one transaction.
// Per-item totals and the order total are computed here from quantity and
// unit price, so a row can never carry a total that disagrees with its
// parts. The mirrored rows reuse every primary key.
func CreateOrder(ctx context.Context, db *gorm.DB, rt *schema.Router, o *domain.Order, items []domain.OrderItem) error {
	total := decimal.Zero
	for i := range items {
		items[i].Total = items[i].Price.Mul(decimal.NewFromInt(int64(items[i].Quantity))).Round(2)
		total = total.Add(items[i].Total)
	}
	o.TotalAmount = total.Round(2)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = o.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return err
	}
	o.Items = items

	logMirror(ctx, mirrorExec(ctx, db, rt, schema.DomainOrders, "insert_order", mirrorInsertOrderSQL,
		o.ID, o.UserID, o.Status, o.TotalAmount, o.CreatedAt, o.UpdatedAt), o.ID)
	for _, it := range items {
		logMirror(ctx, mirrorExec(ctx, db, rt, schema.DomainOrders, "insert_order_item", mirrorInsertItemSQL,
			it.ID, it.OrderID, it.ProductName, it.Quantity, it.Price, it.Total), it.ID)
	}
	return nil
}

// GetOrder fetches an order with its items. Returns gorm.ErrRecordNotFound
// when absent.
func GetOrder(ctx context.Context, db *gorm.DB, id int) (*domain.Order, error) {
	var o domain.Order
	if err := db.WithContext(ctx).Preload("Items").First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns a page of orders, newest first, with items preloaded.
func ListOrders(ctx context.Context, db *gorm.DB, f OrderFilter, offset, limit int) ([]domain.Order, error) {
	var orders []domain.Order
	err := f.apply(db.WithContext(ctx)).
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// CountOrders returns the number of orders matching the filter.
func CountOrders(ctx context.Context, db *gorm.DB, f OrderFilter) (int64, error) {
	var n int64
	err := f.apply(db.WithContext(ctx).Model(&domain.Order{})).Count(&n).Error
	return n, err
}

// UpdateOrderStatus transitions an order to the given status and returns
// the updated row.
func UpdateOrderStatus(ctx context.Context, db *gorm.DB, rt *schema.Router, id int, status string) (*domain.Order, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o, err := GetOrder(ctx, db, id)
	if err != nil {
		return nil, err
	}
	logMirror(ctx, mirrorExec(ctx, db, rt, schema.DomainOrders, "update_order_status", mirrorUpdateOrderStatusSQL,
		o.Status, o.UpdatedAt, o.ID), o.ID)
	return o, nil
}

// DeleteOrder removes an order and its items. Items cascade in the legacy
// schema; the mirror deletes them explicitly, child first.
func DeleteOrder(ctx context.Context, db *gorm.DB, rt *schema.Router, id int) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	logMirror(ctx, mirrorExec(ctx, db, rt, schema.DomainOrders, "delete_order_items", mirrorDeleteItemsSQL, id), id)
	logMirror(ctx, mirrorExec(ctx, db, rt, schema.DomainOrders, "delete_order", mirrorDeleteOrderSQL, id), id)
	return nil
}
