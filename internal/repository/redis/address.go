package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/phonebook/pkg/database"
	apperrors "github.com/utafrali/phonebook/pkg/errors"
)

// KeyPrefix namespaces phone mappings within the Redis database.
const KeyPrefix = "phone_address_mapping:"

// Key returns the Redis key holding the address for phone.
func Key(phone string) string {
	return KeyPrefix + phone
}

// AddressRepository implements repository.AddressRepository using Redis.
// Values are stored as plain strings without expiry.
type AddressRepository struct {
	client *redis.Client
	logger *slog.Logger
}

// NewAddressRepository creates a new Redis-backed address repository.
func NewAddressRepository(client *redis.Client, logger *slog.Logger) *AddressRepository {
	return &AddressRepository{
		client: client,
		logger: logger,
	}
}

// Get retrieves the address stored for phone. A missing key is reported as
// found=false with a nil error, distinct from a key holding "".
func (r *AddressRepository) Get(ctx context.Context, phone string) (address string, found bool, err error) {
	key := Key(phone)
	ctx, end := database.TraceCommand(ctx, "get", key)
	defer func() { end(err) }()

	address, err = r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, r.storeError(ctx, "get", key, err)
	}

	return address, true, nil
}

// Set stores address for phone, overwriting any existing value.
func (r *AddressRepository) Set(ctx context.Context, phone, address string) (err error) {
	key := Key(phone)
	ctx, end := database.TraceCommand(ctx, "set", key)
	defer func() { end(err) }()

	if err = r.client.Set(ctx, key, address, 0).Err(); err != nil {
		return r.storeError(ctx, "set", key, err)
	}

	return nil
}

// SetIfAbsent stores address for phone with SET NX.
func (r *AddressRepository) SetIfAbsent(ctx context.Context, phone, address string) (created bool, err error) {
	key := Key(phone)
	ctx, end := database.TraceCommand(ctx, "setnx", key)
	defer func() { end(err) }()

	created, err = r.client.SetNX(ctx, key, address, 0).Result()
	if err != nil {
		return false, r.storeError(ctx, "setnx", key, err)
	}

	return created, nil
}

// Delete removes the mapping for phone.
func (r *AddressRepository) Delete(ctx context.Context, phone string) (existed bool, err error) {
	key := Key(phone)
	ctx, end := database.TraceCommand(ctx, "del", key)
	defer func() { end(err) }()

	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, r.storeError(ctx, "del", key, err)
	}

	return n > 0, nil
}

// storeError logs a failed command and converts it to a StoreError. It is the
// only place go-redis errors are translated.
func (r *AddressRepository) storeError(ctx context.Context, operation, key string, err error) error {
	r.logger.ErrorContext(ctx, "redis command failed",
		slog.String("operation", operation),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)

	if isConnectionError(err) {
		return apperrors.Store("redis connection failure", err)
	}
	return apperrors.Store("redis error", err)
}

// isConnectionError reports whether err came from reaching Redis rather than
// from a command reply.
func isConnectionError(err error) bool {
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		return false
	}

	var netErr net.Error
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, redis.ErrClosed),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}
	// The pool timeout error is not exported by go-redis.
	return strings.Contains(err.Error(), "connection pool timeout")
}
