package db

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iqbalri06/bot-jadwal/permission"
)

func (g *Gateway) GetUserByPhone(ctx context.Context, phone string) (*User, error) {
	var u User
	if err := g.db.WithContext(ctx).Where("phone_number = ?", phone).Take(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// GetUserByRole returns the oldest user holding role.
func (g *Gateway) GetUserByRole(ctx context.Context, role permission.Role) (*User, error) {
	var u User
	if err := g.db.WithContext(ctx).Where("role = ?", role).Order("id").Take(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (g *Gateway) CreateUser(ctx context.Context, phone, name string, role permission.Role) (*User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	u := &User{PhoneNumber: phone, Name: name, Role: role}
	if err := g.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	g.log.Info("user created", zap.String("phone", phone), zap.String("role", string(role)))
	return u, nil
}

func (g *Gateway) UpdateUserRole(ctx context.Context, phone string, role permission.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	res := g.db.WithContext(ctx).Model(&User{}).Where("phone_number = ?", phone).Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("update role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gateway) UpdatePhoneNumber(ctx context.Context, userID uint, phone string) error {
	res := g.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("phone_number", phone)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicatePhone
		}
		return fmt.Errorf("update phone number: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the user and their completion rows in one transaction.
func (g *Gateway) DeleteUser(ctx context.Context, phone string) error {
	return g.transaction(ctx, func(tx *Gateway) error {
		u, err := tx.GetUserByPhone(ctx, phone)
		if err != nil {
			return err
		}
		if err := tx.db.Where("user_id = ?", u.ID).Delete(&TaskStatus{}).Error; err != nil {
			return fmt.Errorf("delete statuses of user %d: %w", u.ID, err)
		}
		if err := tx.db.Delete(&User{}, u.ID).Error; err != nil {
			return fmt.Errorf("delete user %d: %w", u.ID, err)
		}
		return nil
	})
}

func (g *Gateway) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := g.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
