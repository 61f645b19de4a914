package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/ordersbridge/go-order-backend/internal/domain"
	"github.com/ordersbridge/go-order-backend/internal/schema"
)

const (
	mirrorInsertUserSQL = `INSERT INTO users (id, name, email, password, phone, address, role, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`

	mirrorUpdateUserSQL = `UPDATE users SET name = ?, email = ?, password = ?, phone = ?, address = ?, role = ?, updated_at = ? WHERE id = ?`

	mirrorDeleteUserItemsSQL  = `DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE user_id = ?)`
	mirrorDeleteUserOrdersSQL = `DELETE FROM orders WHERE user_id = ?`
	mirrorDeleteUserSQL       = `DELETE FROM users WHERE id = ?`
)

// UserUpdate carries a partial update for a user profile. Nil fields are
// left unchanged.
type UserUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Role    *string
}

// CreateUser inserts a user into the legacy schema and mirrors the row,
// under the same id, into the users schema when the flag is enabled.
func CreateUser(ctx context.Context, db *gorm.DB, rt *schema.Router, u *domain.User) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
	if err != nil {
		return err
	}
	logMirror(ctx, mirrorExec(ctx, db, rt, schema.DomainUsers, "insert_user", mirrorInsertUserSQL,
		u.ID, u.Name, u.Email, u.Password, u.Phone, u.Address, u.Role, u.CreatedAt, u.UpdatedAt), u.ID)
	return nil
}

// GetUser fetches a user by id. Returns gorm.ErrRecordNotFound when absent.
func GetUser(ctx context.Context, db *gorm.DB, id int) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email address.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns a page of users ordered by id.
func ListUsers(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error) {
	var users []domain.User
	err := db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// ListUsersByIDs returns the users whose ids appear in the given set. Ids
// with no matching row are simply absent from the result.
func ListUsersByIDs(ctx context.Context, db *gorm.DB, ids []int) ([]domain.User, error) {
	var users []domain.User
	if len(ids) == 0 {
		return users, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// CountUsers returns the total number of users.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}

// UpdateUser applies a partial profile update and returns the updated row.
// The mirror write carries the full post-update row so the secondary schema
// converges even if an earlier mirror was lost.
func UpdateUser(ctx context.Context, db *gorm.DB, rt *schema.Router, id int, up UserUpdate) (*domain.User, error) {
	updates := map[string]any{}
	if up.Name != nil {
		updates["name"] = *up.Name
	}
	if up.Email != nil {
		updates["email"] = *up.Email
	}
	if up.Phone != nil {
		updates["phone"] = *up.Phone
	}
	if up.Address != nil {
		updates["address"] = *up.Address
	}
	if up.Role != nil {
		updates["role"] = *up.Role
	}
	if len(updates) > 0 {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&domain.User{}).Where("id = ?", id).Updates(updates)
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
	}

	u, err := GetUser(ctx, db, id)
	if err != nil {
		return nil, err
	}
	logMirror(ctx, mirrorExec(ctx, db, rt, schema.DomainUsers, "update_user", mirrorUpdateUserSQL,
		u.Name, u.Email, u.Password, u.Phone, u.Address, u.Role, u.UpdatedAt, u.ID), u.ID)
	return u, nil
}

// UpdateUserPassword replaces a user's password hash.
func UpdateUserPassword(ctx context.Context, db *gorm.DB, rt *schema.Router, id int, hash string) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.User{}).Where("id = ?", id).Update("password", hash)
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

	u, err := GetUser(ctx, db, id)
	if err != nil {
		return err
	}
	logMirror(ctx, mirrorExec(ctx, db, rt, schema.DomainUsers, "update_user_password", mirrorUpdateUserSQL,
		u.Name, u.Email, u.Password, u.Phone, u.Address, u.Role, u.UpdatedAt, u.ID), u.ID)
	return nil
}

// DeleteUser removes a user. Orders owned by the user cascade in the legacy
// schema through the foreign key; the mirror deletes are issued explicitly
// and in child-first order so they also hold where no cross-schema
// constraint exists.
func DeleteUser(ctx context.Context, db *gorm.DB, rt *schema.Router, id int) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.User{}, id)
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
	logMirror(ctx, mirrorExec(ctx, db, rt, schema.DomainOrders, "delete_user_order_items", mirrorDeleteUserItemsSQL, id), id)
	logMirror(ctx, mirrorExec(ctx, db, rt, schema.DomainOrders, "delete_user_orders", mirrorDeleteUserOrdersSQL, id), id)
	logMirror(ctx, mirrorExec(ctx, db, rt, schema.DomainUsers, "delete_user", mirrorDeleteUserSQL, id), id)
	return nil
}
