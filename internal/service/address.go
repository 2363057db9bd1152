package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/phonebook/internal/domain"
	"github.com/utafrali/phonebook/internal/event"
	"github.com/utafrali/phonebook/internal/repository"
	apperrors "github.com/utafrali/phonebook/pkg/errors"
	"github.com/utafrali/phonebook/pkg/phone"
	"github.com/utafrali/phonebook/pkg/tracing"
)

const resourceAddress = "address"

// AddressService implements the lookup, create, update and delete use-cases
// over an AddressRepository.
type AddressService struct {
	repo   repository.AddressRepository
	events event.Publisher
	logger *slog.Logger
	tracer trace.Tracer
}

// NewAddressService creates a new address service. A nil publisher disables
// change events.
func NewAddressService(repo repository.AddressRepository, events event.Publisher, logger *slog.Logger) *AddressService {
	if events == nil {
		events = event.NopPublisher{}
	}
	return &AddressService{
		repo:   repo,
		events: events,
		logger: logger,
		tracer: tracing.Tracer("github.com/utafrali/phonebook/internal/service"),
	}
}

// Lookup returns the address stored for phoneNumber, or a NotFound error.
func (s *AddressService) Lookup(ctx context.Context, phoneNumber string) (_ *domain.Address, err error) {
	ctx, end := s.startSpan(ctx, "address.lookup")
	defer func() { end(err) }()

	p, err := normalize(phoneNumber)
	if err != nil {
		return nil, err
	}

	address, found, err := s.repo.Get(ctx, p)
	if err != nil {
		return nil, apperrors.Wrap(err, "lookup address")
	}
	if !found {
		return nil, apperrors.NotFound(resourceAddress, p)
	}

	return domain.NewAddress(p, address), nil
}

// Create stores a new mapping. It fails with Conflict if phoneNumber already
// has an address; the existing value is left untouched.
func (s *AddressService) Create(ctx context.Context, phoneNumber, address string) (_ *domain.Address, err error) {
	ctx, end := s.startSpan(ctx, "address.create")
	defer func() { end(err) }()

	p, err := normalize(phoneNumber)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.SetIfAbsent(ctx, p, address)
	if err != nil {
		return nil, apperrors.Wrap(err, "create address")
	}
	if !created {
		return nil, apperrors.AlreadyExists(resourceAddress, "phone_number", p)
	}

	addr := domain.NewAddress(p, address)
	s.logger.InfoContext(ctx, "address created", slog.String("phone_number", p))
	s.publish(ctx, event.EventAddressCreated, func(ctx context.Context) error {
		return s.events.PublishAddressCreated(ctx, addr)
	})

	return addr, nil
}

// Update replaces the address for an existing mapping, or fails with
// NotFound.
func (s *AddressService) Update(ctx context.Context, phoneNumber, address string) (_ *domain.Address, err error) {
	ctx, end := s.startSpan(ctx, "address.update")
	defer func() { end(err) }()

	p, err := normalize(phoneNumber)
	if err != nil {
		return nil, err
	}

	_, found, err := s.repo.Get(ctx, p)
	if err != nil {
		return nil, apperrors.Wrap(err, "update address")
	}
	if !found {
		return nil, apperrors.NotFound(resourceAddress, p)
	}

	if err := s.repo.Set(ctx, p, address); err != nil {
		return nil, apperrors.Wrap(err, "update address")
	}

	addr := domain.NewAddress(p, address)
	s.logger.InfoContext(ctx, "address updated", slog.String("phone_number", p))
	s.publish(ctx, event.EventAddressUpdated, func(ctx context.Context) error {
		return s.events.PublishAddressUpdated(ctx, addr)
	})

	return addr, nil
}

// Delete removes the mapping for phoneNumber, or fails with NotFound if there
// was none.
func (s *AddressService) Delete(ctx context.Context, phoneNumber string) (err error) {
	ctx, end := s.startSpan(ctx, "address.delete")
	defer func() { end(err) }()

	p, err := normalize(phoneNumber)
	if err != nil {
		return err
	}

	existed, err := s.repo.Delete(ctx, p)
	if err != nil {
		return apperrors.Wrap(err, "delete address")
	}
	if !existed {
		return apperrors.NotFound(resourceAddress, p)
	}

	s.logger.InfoContext(ctx, "address deleted", slog.String("phone_number", p))
	s.publish(ctx, event.EventAddressDeleted, func(ctx context.Context) error {
		return s.events.PublishAddressDeleted(ctx, p)
	})

	return nil
}

// publish runs fn and logs failures. The store write has already happened,
// so a lost event never fails the request.
func (s *AddressService) publish(ctx context.Context, eventType string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to publish address event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}

func (s *AddressService) startSpan(ctx context.Context, name string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, name)
	return ctx, func(err error) {
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				span.SetAttributes(attribute.String("error.type", appErr.Type))
			}
			if apperrors.HTTPStatus(err) >= 500 {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
		}
		span.End()
	}
}

// normalize converts phoneNumber to E.164. The store is never keyed with
// anything else.
func normalize(phoneNumber string) (string, error) {
	p, err := phone.Normalize(phoneNumber)
	if err != nil {
		reason := err.Error()
		var phoneErr *phone.Error
		if errors.As(err, &phoneErr) {
			reason = phoneErr.Reason
		}
		return "", apperrors.InvalidInput("phone_number", "must be a valid E.164 phone number: "+reason)
	}
	return p, nil
}
