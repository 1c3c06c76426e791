package ratings

import "errors"

// Service errors.
var (
	ErrInvalidRatingValue = errors.New("rating value must be an integer between 1 and 5")
	ErrStoreNotFound      = errors.New("store not found")
	ErrRatingNotFound     = errors.New("rating not found")
)
