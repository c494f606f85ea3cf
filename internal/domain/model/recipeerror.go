package model

import "errors"

// ErrRecipeNotFound indicates that neither the saved-recipe cache nor the
// remote catalog knows the requested recipe.
var ErrRecipeNotFound = errors.New("recipe not found")

// NetworkError wraps a failure talking to the remote recipe catalog.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "recipe catalog: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure reading or writing the saved-recipe cache.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "saved recipes: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
