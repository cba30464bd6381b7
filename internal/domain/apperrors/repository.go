package apperrors

import (
	"errors"

	"github.com/foodgram/foodgram/foodgram/database/repositories"
)

// FromRepository converts a repository NotFoundError into a domain NotFound
// error. Anything else is returned unchanged.
func FromRepository(err error) error {
	var nfe *repositories.NotFoundError
	if errors.As(err, &nfe) {
		return NotFound(nfe.Entity, nfe.ID)
	}
	return err
}
