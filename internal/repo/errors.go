package repo

import "errors"

var (
	// ErrItemNotFound is returned when an item is not found in the repository.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidQuantityChange is returned when a change would drive an
	// item quantity below zero.
	ErrInvalidQuantityChange = errors.New("quantity cannot become negative")

	// ErrDuplicatedValueUnique is returned on unique constraint violations.
	ErrDuplicatedValueUnique = errors.New("duplicated value on unique column")

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
)
