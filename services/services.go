package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/models"
	"gorm.io/gorm"
)

// Publisher receives domain events; live.Hub implements it.
type Publisher interface {
	Publish(event string, data interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

// Actor is the authenticated caller of an operation. A nil *Actor is an anonymous caller.
type Actor struct {
	UserID string
	Role   models.Role
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role.IsAdmin()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// notFound turns gorm's missing-record error into the NotFound kind.
func notFound(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, apperrors.ErrNotFound)
	}
	return err
}

// duplicateEmail maps a unique-index violation to ErrEmailInUse.
func duplicateEmail(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrEmailInUse
	}
	return err
}
