package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by every backend when the requested record does
// not exist.
var ErrNotFound = errors.New("record not found")

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
