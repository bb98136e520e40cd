// internal/services/common.go
package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ToldYaOnce/kx-scheduler-services/internal/dto"
)

// orNotFound maps the store's record-not-found onto the API taxonomy.
func orNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ErrNotFound
	}
	return err
}
