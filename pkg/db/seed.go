package db

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"homedash/pkg/config"
	"homedash/pkg/model"
	"homedash/pkg/store"
)

// SeedAdmin creates the default admin account when the user table is empty.
// It reports whether an account was created.
func SeedAdmin(ctx context.Context, users store.UserStore, admin config.Admin) (bool, error) {
	n, err := users.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	u := &model.User{
		UserName:  admin.UserName,
		FirstName: "Admin",
		LastName:  "User",
		Active:    true,
	}
	if err := users.CreateUser(ctx, u, admin.Password); err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	log.WithField("userName", u.UserName).Warn("default admin user created; change its password")
	return true, nil
}
