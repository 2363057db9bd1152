package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/phonebook/internal/service"
	apperrors "github.com/utafrali/phonebook/pkg/errors"
	"github.com/utafrali/phonebook/pkg/httputil"
	"github.com/utafrali/phonebook/pkg/middleware"
	"github.com/utafrali/phonebook/pkg/phone"
	"github.com/utafrali/phonebook/pkg/validator"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// AddressHandler handles HTTP requests for address endpoints.
type AddressHandler struct {
	service *service.AddressService
	logger  *slog.Logger
}

// NewAddressHandler creates a new address HTTP handler.
func NewAddressHandler(svc *service.AddressService, logger *slog.Logger) *AddressHandler {
	return &AddressHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateAddressRequest is the JSON request body for creating a mapping.
type CreateAddressRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	Address     string `json:"address" validate:"required,notblank"`
}

// UpdateAddressRequest is the JSON request body for replacing an address.
type UpdateAddressRequest struct {
	Address string `json:"address" validate:"required,notblank"`
}

// --- Handlers ---

// Lookup handles GET /api/v1/address/{phone_number}
func (h *AddressHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	p, r, ok := h.phoneParam(w, r)
	if !ok {
		return
	}

	addr, err := h.service.Lookup(r.Context(), p)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, addr)
}

// Create handles POST /api/v1/address
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAddressRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if p, err := phone.Normalize(req.PhoneNumber); err == nil {
		r = middleware.WithPhoneNumber(r, p)
	}

	addr, err := h.service.Create(r.Context(), req.PhoneNumber, req.Address)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, addr)
}

// Update handles PUT /api/v1/address/{phone_number}
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, r, ok := h.phoneParam(w, r)
	if !ok {
		return
	}

	var req UpdateAddressRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	addr, err := h.service.Update(r.Context(), p, req.Address)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, addr)
}

// Delete handles DELETE /api/v1/address/{phone_number}
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, r, ok := h.phoneParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), p); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteNoContent(w)
}

// phoneParam unescapes and normalizes the {phone_number} path parameter. On
// failure it writes a 422 and returns ok=false. On success the returned
// request carries the phone number in its logger.
func (h *AddressHandler) phoneParam(w http.ResponseWriter, r *http.Request) (string, *http.Request, bool) {
	raw, err := url.PathUnescape(chi.URLParam(r, "phone_number"))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("phone_number", "malformed escape sequence"), h.logger)
		return "", r, false
	}

	p, err := phone.Normalize(raw)
	if err != nil {
		reason := err.Error()
		var phoneErr *phone.Error
		if errors.As(err, &phoneErr) {
			reason = phoneErr.Reason
		}
		httputil.WriteError(w, r,
			apperrors.InvalidInput("phone_number", "must be a valid E.164 phone number: "+reason), h.logger)
		return "", r, false
	}

	return p, middleware.WithPhoneNumber(r, p), true
}
