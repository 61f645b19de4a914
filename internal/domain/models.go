// Package domain defines the persistence models for users, orders, and
// order items. These types are mapped with GORM and form the core data
// layer of the order-management application.
//
// The same model definitions serve both physical schemas during the
// migration: the legacy flat schema (primary, source of truth) and the
// per-service schemas that mutations are mirrored into. Qualified table
// names are resolved by the schema package, never hardcoded here.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User roles. Role is a plain equality check throughout the application;
// there is no rule engine behind it.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Order statuses. Any status may transition to any other status; the only
// restriction is membership in this set.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether s is a member of the order status enum.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// User represents an account that owns orders. The integer primary key is
// immutable once assigned and is deliberately reused when the row is
// mirrored into the new per-service schema, so cross-schema foreign keys
// keep resolving during the migration.
//
// The password column stores a bcrypt hash and is never serialized.
type User struct {
	ID        int       `json:"id"       gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name"     gorm:"type:varchar(100);not null"`
	Email     string    `json:"email"    gorm:"type:varchar(100);not null;uniqueIndex"`
	Password  string    `json:"-"        gorm:"type:varchar(100);not null"`
	Phone     string    `json:"phone,omitempty"   gorm:"type:varchar(20)"`
	Address   string    `json:"address,omitempty" gorm:"type:text"`
	Role      string    `json:"role"     gorm:"type:varchar(20);not null;default:customer;check:role IN ('admin','customer')"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Order represents a purchase belonging to a user. The total_amount is
// fixed at creation time as the sum of the item totals; it is never
// recomputed afterwards because items are immutable once the order exists.
type Order struct {
	ID          int             `json:"id"           gorm:"primaryKey;autoIncrement"`
	UserID      int             `json:"user_id"      gorm:"not null;index"`
	Status      string          `json:"status"       gorm:"type:varchar(20);not null;default:pending;check:status IN ('pending','processing','shipped','delivered','cancelled')"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Items are cascade-deleted with their order.
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// User is the owning account. Orders are cascade-deleted when the
	// user is removed.
	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// UserName and UserEmail are resolved by the aggregation layer
	// (local join or user-service call); they are not columns.
	UserName  string `json:"user_name,omitempty"  gorm:"-"`
	UserEmail string `json:"user_email,omitempty" gorm:"-"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// OrderItem is a single line of an order. total is computed as
// quantity * price at write time and stored, not derived at read time.
type OrderItem struct {
	ID          int             `json:"id"           gorm:"primaryKey;autoIncrement"`
	OrderID     int             `json:"order_id"     gorm:"not null;index"`
	ProductName string          `json:"product_name" gorm:"type:varchar(100);not null"`
	Quantity    int             `json:"quantity"     gorm:"not null"`
	Price       decimal.Decimal `json:"price"        gorm:"type:decimal(10,2);not null"`
	Total       decimal.Decimal `json:"total"        gorm:"type:decimal(10,2);not null"`
}

// TableName returns the database table name for OrderItem.
func (OrderItem) TableName() string { return "order_items" }
