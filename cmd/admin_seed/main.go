// Command admin_seed creates the first admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. When ADMIN_PASSWORD is empty a random one is generated and
// printed once.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"campusrent/internal/config"
	"campusrent/internal/logger"
	"campusrent/internal/models"
	"campusrent/internal/repositories"
	"campusrent/internal/utils"
	"campusrent/internal/utils/validation"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()
	logger.Initialize(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FORMAT", "text"))

	if err := seed(); err != nil {
		logger.Error("admin seed failed", "error", err)
		os.Exit(1)
	}
}

func seed() error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	generated := false
	if password == "" {
		code, err := utils.GenerateSecureCode()
		if err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}
		password, generated = code, true
	}

	v := validation.New()
	v.Check(validation.IsEmail(email), "ADMIN_EMAIL", "must be a valid email address")
	v.Check(generated || validation.IsStrongPassword(password), "ADMIN_PASSWORD", "must be at least 8 characters with a digit and a special character")
	if !v.Valid() {
		return v
	}

	db, err := repositories.InitDB(repositories.DBConfigFromEnv())
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	if err := repositories.Migrate(db); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repositories.NewUserRepository(db, nil)
	if _, err := users.GetByEmail(ctx, email); err == nil {
		logger.Info("admin user already exists", "email", email)
		return nil
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.User{
		Email:             email,
		Password:          string(hashed),
		Name:              config.GetEnv("ADMIN_NAME", "Administrator"),
		Role:              models.RoleAdmin,
		Status:            "active",
		TrustScore:        1000,
		VerificationLevel: models.VerificationHigh,
		TokenVersion:      1,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin account created", "email", email, "id", admin.ID)
	if generated {
		fmt.Printf("generated admin password: %s\n", password)
	}
	return nil
}
