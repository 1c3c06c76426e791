package directory

import "errors"

var (
	// ErrOwnerNotFound is returned when a store references a user that does
	// not exist.
	ErrOwnerNotFound = errors.New("owner user not found")

	// ErrOwnerNotStoreOwner is returned when the referenced user does not
	// carry the store_owner role.
	ErrOwnerNotStoreOwner = errors.New("owner must have the store_owner role")

	// ErrStoreEmailExists is returned when a store with the same email
	// already exists.
	ErrStoreEmailExists = errors.New("store with this email already exists")
)
