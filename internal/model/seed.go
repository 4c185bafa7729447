package model

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/entity"
)

// SeedSuperAdmin ensures the configured super administrator account exists.
// A duplicate run is a no-op; an existing row is never overwritten.
func SeedSuperAdmin(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.SuperAdminEmail))
	password := strings.TrimSpace(cfg.SuperAdminPassword)
	if email == "" || password == "" {
		return nil
	}

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through and create
	default:
		return err
	}

	hash, err := auth.HashPasswordWithCost(password, cfg.BcryptCost)
	if err != nil {
		return err
	}

	user := &entity.DbUser{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    hash,
		FirstName:       "Super",
		LastName:        "Admin",
		Role:            entity.UserRoleSuperAdmin,
		IsActive:        true,
		IsEmailVerified: true,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return err
	}

	logrus.WithField("email", email).Info("seeded super admin account")
	return nil
}
