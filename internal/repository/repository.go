package repository

import "context"

// AddressRepository defines the key-value operations behind the address
// use-cases. Phone numbers passed in are already normalized to E.164.
//
// Implementations report every transport or store failure as an
// *apperrors.AppError of type StoreError; absence is never an error.
type AddressRepository interface {
	// Get returns the stored address. found is false when no mapping exists.
	Get(ctx context.Context, phone string) (address string, found bool, err error)

	// Set unconditionally creates or overwrites the mapping.
	Set(ctx context.Context, phone, address string) error

	// SetIfAbsent stores the mapping only if none exists and reports whether
	// it did. The check and the write are a single atomic store operation.
	SetIfAbsent(ctx context.Context, phone, address string) (created bool, err error)

	// Delete removes the mapping and reports whether it existed.
	Delete(ctx context.Context, phone string) (existed bool, err error)
}
