package domain

import "errors"

// Domain errors
var (
	// Event errors
	ErrInvalidEventID        = errors.New("event id is required")
	ErrPartialPriceRange     = errors.New("price range needs min, max and currency together")
	ErrUnknownTicketProvider = errors.New("unknown ticket provider")
	ErrEventNotFound         = errors.New("event not found")

	// Query errors
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidLimit     = errors.New("limit must be between 1 and 100")
	ErrInvalidPage      = errors.New("page must be zero or greater")
	ErrArtistRequired   = errors.New("artist is required")
	ErrInvalidDateRange = errors.New("date_from must not be after date_to")
)
