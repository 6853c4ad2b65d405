package db

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iqbalri06/bot-jadwal/permission"
)

// PlaceholderPhone identifies the superadmin created when no phone number is
// configured.
const PlaceholderPhone = "admin"

// EnsureSuperAdmin makes sure the configured phone belongs to a superadmin.
// An existing account stored under the raw or the normalized number is
// promoted and its number normalized. Otherwise the placeholder superadmin
// takes over the number, or a new superadmin is created when none exists.
// With an empty phone it only guarantees that some superadmin exists.
func (g *Gateway) EnsureSuperAdmin(ctx context.Context, phone, name string) (*User, error) {
	var out *User
	err := g.transaction(ctx, func(tx *Gateway) error {
		u, err := tx.ensureSuperAdmin(ctx, phone, name)
		out = u
		return err
	})
	if err != nil {
		return nil, err
	}
	g.log.Info("superadmin ready", zap.String("phone", out.PhoneNumber), zap.Uint("user_id", out.ID))
	return out, nil
}

func (g *Gateway) ensureSuperAdmin(ctx context.Context, phone, name string) (*User, error) {
	if name == "" {
		name = "Super Admin"
	}
	if phone == "" {
		u, err := g.GetUserByRole(ctx, permission.RoleSuperAdmin)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return g.CreateUser(ctx, PlaceholderPhone, name, permission.RoleSuperAdmin)
	}

	normalized := NormalizePhone(phone)
	candidates := []string{normalized}
	if phone != normalized {
		candidates = append(candidates, phone)
	}
	for _, c := range candidates {
		u, err := g.GetUserByPhone(ctx, c)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if u.PhoneNumber != normalized {
			if err := g.UpdatePhoneNumber(ctx, u.ID, normalized); err != nil {
				return nil, err
			}
			u.PhoneNumber = normalized
		}
		if u.Role != permission.RoleSuperAdmin {
			if err := g.UpdateUserRole(ctx, normalized, permission.RoleSuperAdmin); err != nil {
				return nil, err
			}
			u.Role = permission.RoleSuperAdmin
		}
		return u, nil
	}

	existing, err := g.GetUserByRole(ctx, permission.RoleSuperAdmin)
	switch {
	case errors.Is(err, ErrNotFound):
		return g.CreateUser(ctx, normalized, name, permission.RoleSuperAdmin)
	case err != nil:
		return nil, err
	case existing.PhoneNumber == PlaceholderPhone:
		return g.claimPlaceholder(ctx, existing, normalized, name)
	}
	g.log.Warn("another superadmin exists, configured phone not provisioned",
		zap.String("phone", normalized),
		zap.String("existing", existing.PhoneNumber))
	return existing, nil
}

// claimPlaceholder moves the placeholder superadmin onto the configured
// phone number and name.
func (g *Gateway) claimPlaceholder(ctx context.Context, u *User, phone, name string) (*User, error) {
	if err := g.UpdatePhoneNumber(ctx, u.ID, phone); err != nil {
		return nil, err
	}
	if err := g.db.WithContext(ctx).Model(&User{}).Where("id = ?", u.ID).Update("name", name).Error; err != nil {
		return nil, fmt.Errorf("rename superadmin %d: %w", u.ID, err)
	}
	u.PhoneNumber, u.Name = phone, name
	return u, nil
}
