package customer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/CelestialBrain/sms-scheduler/internal/api/dto"
	"github.com/CelestialBrain/sms-scheduler/internal/api/respond"
	"github.com/CelestialBrain/sms-scheduler/internal/model"
	custrepo "github.com/CelestialBrain/sms-scheduler/internal/repository/customer"
	custsvc "github.com/CelestialBrain/sms-scheduler/internal/service/customer"
	"github.com/CelestialBrain/sms-scheduler/internal/validation"
)

type customerService interface {
	Create(ctx context.Context, in custsvc.Input) (model.Customer, error)
	Update(ctx context.Context, id uuid.UUID, in custsvc.Input) (model.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	GetByPhone(ctx context.Context, phone string) (model.Customer, error)
	Search(ctx context.Context, query string) ([]model.Customer, error)
}

// Handler exposes customer operations over HTTP.
type Handler struct {
	service   customerService
	validator *validator.Validate
}

// NewHandler builds a customer handler.
func NewHandler(s customerService, v *validator.Validate) *Handler {
	return &Handler{service: s, validator: v}
}

// Create handles POST /api/customers.
func (h *Handler) Create(c *ginext.Context) {
	in, ok := h.decode(c)
	if !ok {
		return
	}

	created, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		if isValidationErr(err) {
			respond.Fail(c.Writer, http.StatusBadRequest, err)
			return
		}

		zlog.Logger.Error().Err(err).Msg("failed to create customer")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.Created(c.Writer, created)
}

// Update handles PUT /api/customers/:id.
func (h *Handler) Update(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	in, ok := h.decode(c)
	if !ok {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		if isValidationErr(err) {
			respond.Fail(c.Writer, http.StatusBadRequest, err)
			return
		}
		h.failLookup(c, id, err, "failed to update customer")
		return
	}

	respond.OK(c.Writer, updated)
}

// Delete handles DELETE /api/customers/:id.
func (h *Handler) Delete(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.failLookup(c, id, err, "failed to delete customer")
		return
	}

	respond.NoContent(c.Writer)
}

// Get handles GET /api/customers/:id.
func (h *Handler) Get(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	customer, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.failLookup(c, id, err, "failed to get customer")
		return
	}

	respond.OK(c.Writer, customer)
}

// List handles GET /api/customers. With ?q= it becomes a substring search,
// with ?phone= an exact phone lookup.
func (h *Handler) List(c *ginext.Context) {
	if phone := c.Query("phone"); phone != "" {
		customer, err := h.service.GetByPhone(c.Request.Context(), phone)
		if err != nil {
			if errors.Is(err, custrepo.ErrCustomerNotFound) {
				respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("customer not found"))
				return
			}

			zlog.Logger.Error().Err(err).Msg("failed to get customer by phone")
			respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
			return
		}

		respond.OK(c.Writer, customer)
		return
	}

	var (
		customers []model.Customer
		err       error
	)

	if q := c.Query("q"); q != "" {
		customers, err = h.service.Search(c.Request.Context(), q)
	} else {
		customers, err = h.service.List(c.Request.Context())
	}

	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list customers")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, customers)
}

func (h *Handler) decode(c *ginext.Context) (custsvc.Input, bool) {
	var req dto.CustomerRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return custsvc.Input{}, false
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return custsvc.Input{}, false
	}

	return custsvc.Input{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Notes:       req.Notes,
		Tags:        req.Tags,
		Metadata:    req.Metadata,
	}, true
}

func (h *Handler) parseID(c *ginext.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Warn().Err(err).Str("id", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) failLookup(c *ginext.Context, id uuid.UUID, err error, logMsg string) {
	if errors.Is(err, custrepo.ErrCustomerNotFound) {
		respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("customer not found"))
		return
	}

	zlog.Logger.Error().Err(err).Str("id", id.String()).Msg(logMsg)
	respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
}

func isValidationErr(err error) bool {
	return errors.Is(err, custsvc.ErrEmptyName) ||
		errors.Is(err, validation.ErrInvalidPhone)
}
