package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrValidation wraps every configuration validation failure.
var ErrValidation = errors.New("invalid configuration")

// Validate checks the struct tags of the whole configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// IsAdmin reports whether userID may run admin-only commands.
// With no admin configured, nobody can.
func (t *TelegramConfig) IsAdmin(userID int64) bool {
	return t.AdminUserID != 0 && userID == t.AdminUserID
}
