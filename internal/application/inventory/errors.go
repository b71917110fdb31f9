package inventory

import (
	"errors"

	"github.com/jhoicas/shopdb-api/internal/domain"
)

var businessErrors = []error{
	domain.ErrInvalidRequest,
	domain.ErrInvalidQuantity,
	domain.ErrInvalidProductData,
	domain.ErrProductNotFound,
	domain.ErrInsufficientStock,
	domain.ErrStorage,
}

// classify leaves engine errors untouched and turns anything else into a storage fault.
func classify(op string, err error) error {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return domain.StorageFault(op, err)
}

func isRejection(err error) bool {
	return err != nil && !errors.Is(err, domain.ErrStorage)
}
