package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/userauth/internal/apperr"
	"github.com/Skotchmaster/userauth/internal/config"
	"github.com/Skotchmaster/userauth/internal/directory"
	"github.com/Skotchmaster/userauth/internal/events"
	"github.com/Skotchmaster/userauth/internal/logging"
	"github.com/Skotchmaster/userauth/internal/models"
)

type Bootstrap struct {
	Users UserStore
	notifier
}

func NewBootstrap(users UserStore, pub events.Publisher, dir directory.Directory) *Bootstrap {
	return &Bootstrap{Users: users, notifier: notifier{Events: pub, Directory: dir}}
}

// EnsureAdmin creates the configured administrator unless an account with that email exists.
// It reports whether a new account was created. An existing account is left as is,
// whatever its role.
func (b *Bootstrap) EnsureAdmin(ctx context.Context, admin config.AdminAccount) (bool, error) {
	l := logging.FromContext(ctx).With("svc", "bootstrap", "email", admin.Email)

	_, err := b.Users.FindByEmail(ctx, admin.Email)
	switch {
	case err == nil:
		l.Info("admin_present")
		return false, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	user, err := b.Users.Create(ctx, models.NewUser{
		Firstname: admin.Firstname,
		Lastname:  admin.Lastname,
		Email:     admin.Email,
		Password:  admin.Password,
		Role:      models.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicateEmail) {
			l.Info("admin_present", "reason", "created concurrently")
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}

	l.Info("admin_created", "user_id", user.ID)
	b.notify(ctx, events.AdminBootstrapped, user)
	return true, nil
}
