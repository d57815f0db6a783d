package domain

import "errors"

var (
	// ErrUserNotFound indicates no user matches the given id or session token.
	ErrUserNotFound = errors.New("user not found")
	// ErrMealNotFound indicates the meal does not exist or belongs to another
	// user. The two cases are deliberately indistinguishable.
	ErrMealNotFound = errors.New("meal not found")
)
