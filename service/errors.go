// Package service holds the blog's business rules on top of the repositories.
package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/cppla/goblog/models"
)

// wrapNotFound turns a missing record into a NotFound AppError and any other
// repository failure into an internal error.
func wrapNotFound(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// IsAdmin reports whether user is the configured administrator. Anonymous is never admin.
func IsAdmin(user *models.User, adminID uint) bool {
	return user != nil && adminID != 0 && user.ID == adminID
}
